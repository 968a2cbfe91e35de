// Command cleanup purges events expired for longer than the configured grace
// period and seen markers older than the retention window. It is intended to
// be invoked by an external cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/entity-events/internal/app"
	"github.com/heartmarshall/entity-events/internal/config"
	"github.com/heartmarshall/entity-events/internal/service/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := app.OpenStorage(ctx, cfg.Database)
	if err != nil {
		logger.Error("open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	svc := events.NewService(logger, st.Events, st.Tx)

	res, err := svc.Purge(ctx, events.PurgeInput{
		ExpiredGrace:  cfg.Retention.ExpiredGrace,
		SeenRetention: cfg.Retention.SeenRetention,
	})
	if err != nil {
		logger.Error("purge failed",
			slog.String("error", err.Error()),
			slog.Duration("expired_grace", cfg.Retention.ExpiredGrace),
			slog.Duration("seen_retention", cfg.Retention.SeenRetention),
		)
		os.Exit(1)
	}

	logger.Info("purge completed",
		slog.Int64("expired_events", res.ExpiredEvents),
		slog.Int64("seen_markers", res.SeenMarkers),
	)
}
