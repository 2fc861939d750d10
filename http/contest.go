package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/httpjson"
)

type Contest struct {
	contest.Contest
	FreezeTime *time.Time        `json:"scoreboard_freeze_time"`
	Problems   []contest.Problem `json:"problems"`
}

func (httpserver *HttpServer) getContest(w http.ResponseWriter, r *http.Request) {
	c := httpserver.session.Contest()
	resp := Contest{
		Contest:    c,
		FreezeTime: c.ScoreboardFreezeTime,
		Problems:   httpserver.session.Problems(),
	}
	httpjson.WriteSuccessJson(w, resp)
}

func (httpserver *HttpServer) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	frozen, final := httpserver.session.Leaderboards()
	switch board := chi.URLParam(r, "board"); board {
	case "frozen":
		httpjson.WriteSuccessJson(w, frozen)
	case "final":
		httpjson.WriteSuccessJson(w, final)
	default:
		httpjson.HandleError(logger, w, ErrUnknownLeaderboard(board))
	}
}

func (httpserver *HttpServer) listWarnings(w http.ResponseWriter, r *http.Request) {
	warnings := httpserver.session.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	httpjson.WriteSuccessJson(w, warnings)
}

func (httpserver *HttpServer) listGroups(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, httpserver.session.Groups())
}
