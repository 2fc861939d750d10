package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/resolver/cdp"
	"github.com/programme-lv/resolver/httpjson"
)

func (httpserver *HttpServer) getLogo(w http.ResponseWriter, r *http.Request) {
	httpserver.serveImage(w, r, httpserver.assets.Logo, chi.URLParam(r, "organizationId"))
}

func (httpserver *HttpServer) getPhoto(w http.ResponseWriter, r *http.Request) {
	httpserver.serveImage(w, r, httpserver.assets.Photo, chi.URLParam(r, "teamId"))
}

func (httpserver *HttpServer) serveImage(w http.ResponseWriter, r *http.Request,
	get func(context.Context, string) (cdp.Image, error), id string) {
	logger := httplog.LogEntry(r.Context())

	img, err := get(r.Context(), id)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	w.Header().Set("Content-Type", img.MediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Content)))
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(img.Content)
}
