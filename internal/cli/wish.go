package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/basket/internal/wishlist"
)

// NewWishCommand creates the wish command group.
func NewWishCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wish",
		Short: "Manage the wishlist",
	}

	cmd.AddCommand(newWishAddCommand(rootOpts))
	cmd.AddCommand(newWishRemoveCommand(rootOpts))
	cmd.AddCommand(newWishListCommand(rootOpts))
	cmd.AddCommand(newWishClearCommand(rootOpts))

	return cmd
}

func newWishAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Save a product to the wishlist",
		Long: `Save a catalog product to the wishlist.

Adding a product already on the wishlist is rejected; the wishlist holds at
most one entry per product id.`,
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

			if err := e.wishlist.AddItem(cmd.Context(), p); err != nil {
				e.out.Failure(err)
				return WrapExitError(ExitFailure, "wishlist add rejected", err)
			}
			return e.out.Successf(wishlistView(e.wishlist), "saved %s (wishlist size: %d)", p.ID, e.wishlist.Len())
		},
	}
}

func newWishRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <product-id>",
		Short:         "Remove a product from the wishlist",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := openEnv(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			e.wishlist.RemoveItem(cmd.Context(), args[0])
			return e.out.Successf(wishlistView(e.wishlist), "removed %s (wishlist size: %d)", args[0], e.wishlist.Len())
		},
	}
}

func newWishListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ls",
		Short:         "List saved products",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := openEnv(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			view := wishlistView(e.wishlist)
			if rootOpts.Format == "json" {
				return e.out.Success(view)
			}

			w := cmd.OutOrStdout()
			if len(view.Products) == 0 {
				fmt.Fprintln(w, "wishlist is empty")
				return nil
			}
			for _, p := range view.Products {
				name := p.Name
				if name == "" {
					name = p.ProductID
				}
				fmt.Fprintf(w, "%-20s %s\n", name, p.UnitPrice)
			}
			return nil
		},
	}
}

func newWishClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Empty the wishlist",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := openEnv(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			e.wishlist.Clear(cmd.Context())
			return e.out.Successf(wishlistView(e.wishlist), "wishlist cleared")
		},
	}
}

type wishView struct {
	Products []wishEntryView `json:"products"`
	Size     int             `json:"size"`
}

type wishEntryView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	UnitPrice string `json:"unit_price"`
}

func wishlistView(w *wishlist.Engine) wishView {
	state := w.Snapshot()
	view := wishView{
		Products: make([]wishEntryView, 0, len(state.Products)),
		Size:     len(state.Products),
	}
	for _, p := range state.Products {
		view.Products = append(view.Products, wishEntryView{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice().String(),
		})
	}
	return view
}
