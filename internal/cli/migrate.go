package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.st.Migrate(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "migrate", err)
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"driver": e.st.Driver, "applied": n})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s) on %s\n", n, e.st.Driver)
			return err
		},
	}
}
