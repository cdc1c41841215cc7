package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Generate a fresh session identifier",
		Long: `Generate a fresh session identifier for use with --session.

Each session owns exactly one cart and one wishlist; state persisted under
one session never bleeds into another. UUIDv7 identifiers sort by creation
time.

Example:
  basket --session $(basket session) add tea-pot`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.NewV7()
			if err != nil {
				return WrapExitError(ExitCommandError, "generate session id", err)
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(id.String())
		},
	}
}
