// Package cli implements eventctl, the operator command line for the event
// store: migrations, fixture seeding and read queries against a medium.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/entity-events/internal/app"
	"github.com/heartmarshall/entity-events/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of eventctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "eventctl",
		Short: "Operate an entity-events store",
		Long: `eventctl migrates and seeds an entity-events store and answers the same
queries as the HTTP API: the events of a medium, of an entity on a medium,
and the targets of every event.

Storage is configured like the server: config.yaml (or CONFIG_PATH) and the
DATABASE_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config.yaml (overrides CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewEntityEventsCommand(opts))
	cmd.AddCommand(NewTargetsCommand(opts))
	cmd.AddCommand(NewMarkSeenCommand(opts))

	return cmd
}

// env is the wired application a command runs against.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	st     *app.Storage
	svc    *app.Services
	closer func()
}

func (o *RootOptions) open(ctx context.Context) (*env, error) {
	if o.ConfigPath != "" {
		if err := os.Setenv("CONFIG_PATH", o.ConfigPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitUsage, "load config", err)
	}

	logger := app.NewLogger(cfg.Log)

	st, err := app.OpenStorage(ctx, cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "open storage", err)
	}
	registry, err := app.NewRegistry(st)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &env{
		cfg:    cfg,
		log:    logger,
		st:     st,
		svc:    app.NewServices(cfg, logger, st, registry),
		closer: st.Close,
	}, nil
}

func (e *env) Close() {
	e.closer()
}
