package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/programme-lv/resolver/cdp"
	"github.com/programme-lv/resolver/session"
)

type Options struct {
	CorsOrigins []string
	LogLevel    slog.Level
	// StatsInterval enables periodic per-route stats logging when positive.
	StatsInterval time.Duration
}

type HttpServer struct {
	session  *session.Session
	assets   *cdp.Assets
	router   *chi.Mux
	validate *validator.Validate
}

func NewHttpServer(ctx context.Context, sess *session.Session, assets *cdp.Assets, opts Options) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("pyrite", httplog.Options{
		LogLevel:         opts.LogLevel,
		Concise:          true,
		RequestHeaders:   false,
		MessageFieldName: "message",
		Tags: map[string]string{
			"session_id": sess.ID(),
		},
	})

	router.Use(httplog.RequestLogger(logger))

	if opts.StatsInterval > 0 {
		router.Use(newStatsLogger(ctx, opts.StatsInterval).middleware)
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CorsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         3000,
	}))

	server := &HttpServer{
		session:  sess,
		assets:   assets,
		router:   router,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	server.routes()

	return server
}

func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

// Start serves until ctx is cancelled.
func (httpserver *HttpServer) Start(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           httpserver.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (httpserver *HttpServer) routes() {
	r := httpserver.router
	r.Get("/contest", httpserver.getContest)
	r.Get("/leaderboards/{board}", httpserver.getLeaderboard)
	r.Get("/warnings", httpserver.listWarnings)
	r.Get("/groups", httpserver.listGroups)

	r.Get("/awards", httpserver.listAwards)
	r.Put("/awards/{awardId}", httpserver.putAward)
	r.Delete("/awards/{awardId}", httpserver.deleteAward)
	r.Post("/awards/medals/preview", httpserver.previewMedals)
	r.Post("/awards/medals", httpserver.applyMedals)
	r.Post("/awards/save", httpserver.saveAwards)
	r.Post("/awards/load", httpserver.loadAwards)

	r.Post("/presentation", httpserver.present)
	r.Get("/resolver", httpserver.getResolver)
	r.Post("/resolver/advance", httpserver.advanceResolver)

	r.Get("/affiliations/{organizationId}/logo", httpserver.getLogo)
	r.Get("/teams/{teamId}/photo", httpserver.getPhoto)
}
