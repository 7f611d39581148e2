package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/valexandro/binance-p2p-currency-converter/convert"
	"github.com/valexandro/binance-p2p-currency-converter/server/config"
	"github.com/valexandro/binance-p2p-currency-converter/storage"
	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Planner plans a single fiat-to-fiat conversion
type Planner interface {
	Plan(ctx context.Context, req convert.PlanRequest) (*convert.Plan, error)
}

// MethodSyncer refreshes the payment-method set of a currency
// from live marketplace data
type MethodSyncer interface {
	SyncPaymentMethods(ctx context.Context, currencyCode string) ([]*types.PaymentMethod, error)
}

type Server struct {
	logger *slog.Logger
	config *config.Config

	storage storage.Storage
	planner Planner
	syncer  MethodSyncer

	mux *chi.Mux
}

// New creates a new server instance
func New(
	storage storage.Storage,
	planner Planner,
	syncer MethodSyncer,
	opts ...Option,
) (*Server, error) {
	s := &Server{
		logger:  noopLogger,
		storage: storage,
		planner: planner,
		syncer:  syncer,
		config:  config.DefaultConfig(),
		mux:     chi.NewMux(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	// Validate the configuration
	if err := config.ValidateConfig(s.config); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	// Set up the CORS middleware
	if s.config.CORSConfig != nil {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
			AllowedMethods: s.config.CORSConfig.AllowedMethods,
			AllowedHeaders: s.config.CORSConfig.AllowedHeaders,
		})

		s.mux.Use(corsMiddleware.Handler)
	}

	s.mux.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaOTEL,
		RecoverPanics: true,
		Skip: func(_ *http.Request, respStatus int) bool {
			return respStatus == 404 || respStatus == 405
		},
	}))

	// Register the health check handler
	s.mux.Get("/health", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	// Register the API endpoints
	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/convert", s.Convert)
		r.Get("/currencies", s.Currencies)
		r.Get("/currencies/{code}/payment-methods", s.PaymentMethods)
		r.Post("/currencies/{code}/payment-methods/sync", s.SyncPaymentMethods)
	})

	s.mux.Get("/openapi.yaml", s.OpenAPI)
	s.mux.Get("/docs", s.Redoc)

	return s, nil
}

// Serve serves the conversion service
func (s *Server) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.mux,
		ReadHeaderTimeout: 60 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer s.logger.Info("server shut down")

		ln, err := net.Listen("tcp", server.Addr)
		if err != nil {
			return err
		}

		s.logger.Info(
			fmt.Sprintf(
				"server started at %s",
				ln.Addr().String(),
			),
		)

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-gCtx.Done()

		s.logger.Info("server to be shutdown")

		wsCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()

		return server.Shutdown(wsCtx)
	})

	return group.Wait()
}
