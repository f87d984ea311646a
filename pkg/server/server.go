package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gmn-dev/dispatch/pkg/handlers"
	commissionhandler "github.com/gmn-dev/dispatch/pkg/handlers/commission"
	costhandler "github.com/gmn-dev/dispatch/pkg/handlers/cost"
	incomehandler "github.com/gmn-dev/dispatch/pkg/handlers/income"
	technicianhandler "github.com/gmn-dev/dispatch/pkg/handlers/technician"
	workorderhandler "github.com/gmn-dev/dispatch/pkg/handlers/workorder"
	"github.com/gmn-dev/dispatch/pkg/models/api"
	dispatchmiddleware "github.com/gmn-dev/dispatch/pkg/server/middleware"
	"github.com/gmn-dev/dispatch/pkg/services/commission"
	"github.com/gmn-dev/dispatch/pkg/services/income"
	"github.com/gmn-dev/dispatch/pkg/store/duckdb/cost"
	"github.com/gmn-dev/dispatch/pkg/store/duckdb/technician"
	"github.com/gmn-dev/dispatch/pkg/store/duckdb/workorder"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	WorkOrders  workorder.Store
	Costs       cost.Store
	Technicians technician.Store
	Commission  commission.Service
	Income      income.Service
	Logger      zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// AuthToken guards /api/v1 when set.
	AuthToken string
	// Location is the zone commission and income months are bucketed in.
	Location     *time.Location
	Dependencies Dependencies
}

func ConfigureRouter(config Config) http.Handler {
	logger := config.Dependencies.Logger

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(dispatchmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, r, http.StatusOK, api.Health{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(dispatchmiddleware.BearerAuth(config.AuthToken))

		r.Route("/work-orders", workorderhandler.NewHandler(config.Dependencies.WorkOrders).Routes)
		r.Route("/costs", costhandler.NewHandler(config.Dependencies.Costs).Routes)
		r.Route("/technicians", technicianhandler.NewHandler(config.Dependencies.Technicians).Routes)
		r.Route("/commission", commissionhandler.NewHandler(config.Dependencies.Commission, config.Location).Routes)
		r.Route("/income", incomehandler.NewHandler(config.Dependencies.Income, config.Location).Routes)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: shutdownTimeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
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
