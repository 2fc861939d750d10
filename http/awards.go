package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/resolver/awards"
	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/httpjson"
)

// decodeRequest reads a JSON body into dst and runs struct validation.
func (httpserver *HttpServer) decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrInvalidRequest(err)
	}
	if err := httpserver.validate.Struct(dst); err != nil {
		return ErrInvalidRequest(err)
	}
	return nil
}

type statusMessage struct {
	Message string `json:"message"`
}

func (httpserver *HttpServer) listAwards(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, httpserver.session.Awards())
}

func (httpserver *HttpServer) putAward(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	type putAwardRequest struct {
		Citation string   `json:"citation" validate:"required"`
		TeamIDs  []string `json:"team_ids" validate:"required,min=1"`
	}

	var request putAwardRequest
	if err := httpserver.decodeRequest(r, &request); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	award, err := httpserver.session.UpsertAward(r.Context(), contest.Award{
		ID:       chi.URLParam(r, "awardId"),
		Citation: request.Citation,
		TeamIDs:  request.TeamIDs,
	})
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, award)
}

func (httpserver *HttpServer) deleteAward(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	awardID := chi.URLParam(r, "awardId")
	if err := httpserver.session.DeleteAward(r.Context(), awardID); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, statusMessage{Message: "Deleted award " + awardID})
}

type medalsRequest struct {
	Groups    []string          `json:"groups" validate:"required,min=1,dive,required"`
	Counts    awards.Counts     `json:"counts"`
	Citations *awards.Citations `json:"citations"`
}

type medalPlanResponse struct {
	awards.MedalPlan
	Short bool `json:"short"`
}

func (httpserver *HttpServer) previewMedals(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var request medalsRequest
	if err := httpserver.decodeRequest(r, &request); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	plan := httpserver.session.PreviewMedals(request.Groups, request.Counts)
	httpjson.WriteSuccessJson(w, medalPlanResponse{MedalPlan: plan, Short: plan.Short(request.Counts)})
}

func (httpserver *HttpServer) applyMedals(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var request medalsRequest
	if err := httpserver.decodeRequest(r, &request); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	citations := awards.DefaultCitations()
	if request.Citations != nil {
		citations = *request.Citations
	}

	plan, err := httpserver.session.ApplyMedals(r.Context(), request.Groups, request.Counts, citations)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, medalPlanResponse{MedalPlan: plan, Short: plan.Short(request.Counts)})
}

func (httpserver *HttpServer) saveAwards(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	msg, err := httpserver.session.SaveAwards(r.Context())
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, statusMessage{Message: msg})
}

func (httpserver *HttpServer) loadAwards(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	msg, err := httpserver.session.LoadAwards(r.Context())
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, statusMessage{Message: msg})
}
