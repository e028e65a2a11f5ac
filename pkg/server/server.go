package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/grc-scanner/pkg/handlers/scan"
	grcmiddleware "github.com/de-tools/grc-scanner/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Scan   *scan.Handler
	Logger zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	logger := config.Dependencies.Logger
	scanHandler := config.Dependencies.Scan

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(grcmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/scans", scanHandler.RunScan)
		r.Get("/controls", scanHandler.ListControls)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
