package http

import (
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/resolver/httpjson"
	"github.com/programme-lv/resolver/resolver"
	"github.com/programme-lv/resolver/session"
)

func (httpserver *HttpServer) present(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	type presentRequest struct {
		Groups []string `json:"groups" validate:"required,min=1,dive,required"`
	}

	var request presentRequest
	if err := httpserver.decodeRequest(r, &request); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	summary, err := httpserver.session.Present(r.Context(), request.Groups)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	type presentResponse struct {
		Summary string `json:"summary"`
		Teams   int    `json:"teams"`
	}
	httpjson.WriteSuccessJson(w, presentResponse{Summary: summary.String(), Teams: summary.TeamsAfter})
}

func (httpserver *HttpServer) getResolver(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	view, err := httpserver.session.Resolver()
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, view)
}

type advanceResponse struct {
	Step     resolver.Step        `json:"step"`
	Resolver session.ResolverView `json:"resolver"`
}

func (httpserver *HttpServer) advanceResolver(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	step, err := httpserver.session.Advance(r.Context())
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}
	view, err := httpserver.session.Resolver()
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, advanceResponse{Step: step, Resolver: view})
}
