package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/placementdesk/backoffice/internal/auth"
	"github.com/placementdesk/backoffice/internal/config"
	"github.com/placementdesk/backoffice/internal/events"
	handlers "github.com/placementdesk/backoffice/internal/handlers/v1alpha1"
	"github.com/placementdesk/backoffice/internal/service"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/pkg/log"
	"github.com/placementdesk/backoffice/pkg/metrics"
	"github.com/placementdesk/backoffice/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	producer *events.EventProducer
	listener net.Listener
}

// New returns a new instance of the back-office API server.
func New(
	cfg *config.Config,
	store store.Store,
	producer *events.EventProducer,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		producer: producer,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		log.Logger(zap.L(), "router"),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	resolver := service.NewLookupResolver(s.store)
	h := handlers.NewServiceHandler(
		service.NewOwnershipService(s.store, s.producer),
		service.NewClassifierService(s.store, resolver),
		service.NewTimelineService(s.store),
		service.NewCalendarService(s.store),
	)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		h.RegisterRoutes(r)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
