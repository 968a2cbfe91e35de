package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/entity-events/internal/config"
	"github.com/heartmarshall/entity-events/internal/service/contextload"
	"github.com/heartmarshall/entity-events/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, connects to
// storage, wires the services and serves HTTP until ctx is cancelled, then
// shuts down gracefully. Extra context loaders and fetchers can be added
// through register before the server starts.
func Run(ctx context.Context, register func(*contextload.Registry, *Storage) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("database_driver", cfg.Database.Driver),
	)

	st, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	registry, err := NewRegistry(st)
	if err != nil {
		return err
	}
	if register != nil {
		if err := register(registry, st); err != nil {
			return fmt.Errorf("register context loaders: %w", err)
		}
	}
	logger.Info("context fetchers registered", slog.Any("kinds", registry.Kinds()))

	svc := NewServices(cfg, logger, st, registry)
	handler := NewHandler(logger, st, svc)

	return serve(ctx, logger, cfg.Server, handler)
}

// NewHandler builds the HTTP handler for the wired services.
func NewHandler(logger *slog.Logger, st *Storage, svc *Services) http.Handler {
	return rest.NewRouter(rest.Handlers{
		Health:  rest.NewHealthHandler(st, st.Driver, BuildVersion()),
		Events:  rest.NewEventHandler(svc.Events, logger),
		Mediums: rest.NewMediumHandler(svc.Matching, svc.Context, svc.Events, logger),
	}, logger)
}

func serve(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
