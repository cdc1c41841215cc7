// Package cli implements the basket command line interface.
//
// The CLI is the UI layer over the engines: it loads product snapshots
// from a CUE catalog file, opens the SQLite snapshot store, and issues
// mutation calls on behalf of the user. The engines never touch the
// catalog or the flags themselves.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
	Catalog  string
	Session  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the basket CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "basket",
		Short: "basket - storefront cart and wishlist engine",
		Long:  "A persisted cart/wishlist state engine with promotion-aware pricing and shipping totals.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "basket.db", "path to the snapshot database")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "catalog.cue", "path to the CUE product catalog")
	cmd.PersistentFlags().StringVar(&opts.Session, "session", "default", "session identifier namespacing stored state")

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewPanelCommand(opts))
	cmd.AddCommand(NewWishCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
