package cli

import (
	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Long: `Add units of a catalog product to the cart.

Adding a product already in the cart accumulates onto its line. The add is
rejected when the resulting quantity would exceed the product's stock.

Example:
  basket add tea-pot --qty 2
  basket add mug --db ./shop.db --catalog ./catalog.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := openEnv(cmd, rootOpts, true)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := e.product(args[0])
			if err != nil {
				return err
			}

			if err := e.cart.AddItem(cmd.Context(), p, quantity); err != nil {
				e.out.Failure(err)
				return WrapExitError(ExitFailure, "add rejected", err)
			}
			return e.out.Successf(cartSummary(e.cart), "added %d x %s (total items: %d)", quantity, p.ID, e.cart.TotalItemCount())
		},
	}

	cmd.Flags().IntVar(&quantity, "qty", 1, "units to add")
	return cmd
}

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <product-id>",
		Short: "Remove a product's line from the cart",
		Long: `Remove a product's line from the cart.

Removing a product that is not in the cart is a no-op, so the command is
safe to repeat.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := openEnv(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			e.cart.RemoveItem(cmd.Context(), args[0])
			return e.out.Successf(cartSummary(e.cart), "removed %s (total items: %d)", args[0], e.cart.TotalItemCount())
		},
	}
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set a line's quantity exactly",
		Long: `Set a cart line's quantity to an exact value (not a delta).

A quantity of 0 removes the line. Setting a quantity above the product
snapshot's stock is rejected. Setting a product that is not in the cart is
a no-op.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}

			e, cleanup, err := openEnv(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := e.cart.UpdateQuantity(cmd.Context(), args[0], quantity); err != nil {
				e.out.Failure(err)
				return WrapExitError(ExitFailure, "quantity update rejected", err)
			}
			return e.out.Successf(cartSummary(e.cart), "set %s to %d (total items: %d)", args[0], quantity, e.cart.TotalItemCount())
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Remove all lines from the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := openEnv(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			e.cart.Clear(cmd.Context())
			return e.out.Successf(cartSummary(e.cart), "cart cleared")
		},
	}
}

// NewPanelCommand creates the panel command.
func NewPanelCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "panel",
		Short:         "Toggle the cart side-panel flag",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := openEnv(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			open := e.cart.TogglePanel(cmd.Context())
			state := "closed"
			if open {
				state = "open"
			}
			return e.out.Successf(map[string]bool{"panel_open": open}, "panel is now %s", state)
		},
	}
}
