package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/events"
	"github.com/heartmarshall/entity-events/internal/service/matching"
)

// FilterOptions holds the event filter flags shared by the query commands.
type FilterOptions struct {
	Medium         string
	Start          string
	End            string
	IncludeExpired bool
	Actor          int64
	Seen           string
	MarkSeen       bool
	Limit          int
}

func (o *FilterOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Medium, "medium", "m", "", "medium name (required)")
	_ = cmd.MarkFlagRequired("medium")
	cmd.Flags().StringVar(&o.Start, "start", "", "inclusive lower bound (RFC 3339)")
	cmd.Flags().StringVar(&o.End, "end", "", "upper bound (RFC 3339)")
	cmd.Flags().BoolVar(&o.IncludeExpired, "include-expired", false, "keep expired events")
	cmd.Flags().Int64Var(&o.Actor, "actor", 0, "keep only events with this actor entity ID")
	cmd.Flags().StringVar(&o.Seen, "seen", "", "true: only seen events, false: only unseen events")
	cmd.Flags().BoolVar(&o.MarkSeen, "mark-seen", false, "with --seen=false, mark every unseen event of the medium in the time window seen, not only the listed ones")
	cmd.Flags().IntVar(&o.Limit, "limit", 0, "cap on candidate events (0: no limit)")
}

// Filter converts the flags into a matching.Filter.
func (o *FilterOptions) Filter() (matching.Filter, error) {
	var errs []domain.FieldError
	parseTime := func(field, v string) *time.Time {
		if v == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: field, Message: "must be an RFC 3339 timestamp"})
			return nil
		}
		return &t
	}

	f := matching.Filter{
		Start:          parseTime("start", o.Start),
		End:            parseTime("end", o.End),
		IncludeExpired: o.IncludeExpired,
		MarkSeen:       o.MarkSeen,
		Limit:          o.Limit,
	}
	if o.Actor != 0 {
		f.ActorID = &o.Actor
	}
	if o.Seen != "" {
		seen, err := strconv.ParseBool(o.Seen)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "seen", Message: "must be true or false"})
		} else {
			f.Seen = &seen
		}
	}

	if len(errs) > 0 {
		return f, &domain.ValidationError{Errors: errs}
	}
	return f, nil
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the events visible on a medium",
		Example: `  eventctl events --medium email --seen=false --mark-seen
  eventctl events --medium feed --start 2014-01-15T00:00:00Z --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := opts.Filter()
			if err != nil {
				return err
			}
			e, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			m, err := e.svc.Matching.MediumByName(cmd.Context(), opts.Medium)
			if err != nil {
				return err
			}
			evs, err := m.Events(cmd.Context(), f)
			if err != nil {
				return err
			}
			return writeEvents(cmd.OutOrStdout(), rootOpts.Format, evs)
		},
	}
	opts.register(cmd)
	return cmd
}

// NewEntityEventsCommand creates the entity-events command.
func NewEntityEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{}
	var entityID int64

	cmd := &cobra.Command{
		Use:     "entity-events",
		Short:   "List the events an entity receives on a medium",
		Example: `  eventctl entity-events --medium feed --entity 42`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := opts.Filter()
			if err != nil {
				return err
			}
			e, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			m, err := e.svc.Matching.MediumByName(cmd.Context(), opts.Medium)
			if err != nil {
				return err
			}
			evs, err := m.EntityEvents(cmd.Context(), entityID, f)
			if err != nil {
				return err
			}
			return writeEvents(cmd.OutOrStdout(), rootOpts.Format, evs)
		},
	}
	opts.register(cmd)
	cmd.Flags().Int64VarP(&entityID, "entity", "e", 0, "entity ID (required)")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}

// NewTargetsCommand creates the targets command.
func NewTargetsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{}
	var kindID int64

	cmd := &cobra.Command{
		Use:     "targets",
		Short:   "List the events visible on a medium with the entities each one targets",
		Example: `  eventctl targets --medium email --kind 2 --format json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := opts.Filter()
			if err != nil {
				return err
			}
			e, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			m, err := e.svc.Matching.MediumByName(cmd.Context(), opts.Medium)
			if err != nil {
				return err
			}
			var kind *int64
			if kindID != 0 {
				kind = &kindID
			}
			targets, err := m.EventsTargets(cmd.Context(), f, kind)
			if err != nil {
				return err
			}
			return writeTargets(cmd.OutOrStdout(), rootOpts.Format, targets)
		},
	}
	opts.register(cmd)
	cmd.Flags().Int64Var(&kindID, "kind", 0, "keep only targets of this entity kind ID")
	return cmd
}

// NewMarkSeenCommand creates the mark-seen command.
func NewMarkSeenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		medium   string
		eventIDs []int64
	)

	cmd := &cobra.Command{
		Use:     "mark-seen",
		Short:   "Mark events seen on a medium",
		Example: `  eventctl mark-seen --medium email --event 3 --event 4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			m, err := e.svc.Matching.MediumByName(cmd.Context(), medium)
			if err != nil {
				return err
			}
			n, err := e.svc.Events.MarkSeen(cmd.Context(), events.MarkSeenInput{MediumID: m.ID, EventIDs: eventIDs})
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"medium": medium, "marked": n})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "marked %d event(s) seen on %s\n", n, medium)
			return err
		},
	}
	cmd.Flags().StringVarP(&medium, "medium", "m", "", "medium name (required)")
	_ = cmd.MarkFlagRequired("medium")
	cmd.Flags().Int64SliceVar(&eventIDs, "event", nil, "event ID, repeatable (required)")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}
