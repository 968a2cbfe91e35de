package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/matching"
	"github.com/heartmarshall/entity-events/internal/service/serializer"
)

// Exit codes for CLI commands.
const (
	ExitSuccess = 0
	ExitFailure = 1 // storage or service failure
	ExitUsage   = 2 // bad flags, config or input
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Validation and
// reference errors map to ExitUsage, anything else to ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidReference):
		return ExitUsage
	default:
		return ExitFailure
	}
}

type eventJSON struct {
	ID        int64      `json:"id"`
	SourceID  int64      `json:"source_id"`
	UUID      string     `json:"uuid"`
	Context   any        `json:"context"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	ActorIDs  []int64    `json:"actor_ids"`
	Targets   []int64    `json:"targets,omitempty"`
}

func toEventJSON(e domain.Event) eventJSON {
	actors := e.ActorIDs
	if actors == nil {
		actors = []int64{}
	}
	return eventJSON{
		ID:        e.ID,
		SourceID:  e.SourceID,
		UUID:      e.UUID,
		Context:   serializer.Serialize(e.Context),
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
		ActorIDs:  actors,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEvents(w io.Writer, format string, events []domain.Event) error {
	if format == "json" {
		out := make([]eventJSON, len(events))
		for i, e := range events {
			out[i] = toEventJSON(e)
		}
		return writeJSON(w, out)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tCREATED\tUUID\tACTORS")
	for _, e := range events {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%v\n", e.ID, e.SourceID, e.CreatedAt.Format(time.RFC3339), e.UUID, e.ActorIDs)
	}
	return tw.Flush()
}

func writeTargets(w io.Writer, format string, targets []matching.EventTargets) error {
	if format == "json" {
		out := make([]eventJSON, len(targets))
		for i, et := range targets {
			out[i] = toEventJSON(et.Event)
			out[i].Targets = domain.EntityIDs(et.Targets)
		}
		return writeJSON(w, out)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tCREATED\tTARGETS")
	for _, et := range targets {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%v\n", et.Event.ID, et.Event.SourceID,
			et.Event.CreatedAt.Format(time.RFC3339), domain.EntityIDs(et.Targets))
	}
	return tw.Flush()
}
