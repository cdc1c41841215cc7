package cli

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/basket/internal/cart"
)

func intDecimal(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// cartView is the JSON payload for show and for the data side of mutation
// responses.
type cartView struct {
	Lines       []lineView `json:"lines"`
	ItemCount   int        `json:"item_count"`
	Subtotal    string     `json:"subtotal"`
	ShippingFee string     `json:"shipping_fee"`
	FinalTotal  string     `json:"final_total"`
	PanelOpen   bool       `json:"panel_open"`
}

type lineView struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name,omitempty"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	LineTotal     string `json:"line_total"`
	SelectedImage string `json:"selected_image,omitempty"`
}

func cartSummary(c *cart.Engine) cartView {
	state := c.Snapshot()
	view := cartView{
		Lines:       make([]lineView, 0, len(state.Lines)),
		ItemCount:   c.TotalItemCount(),
		Subtotal:    c.Subtotal().String(),
		ShippingFee: c.ShippingFee().String(),
		FinalTotal:  c.FinalTotal().String(),
		PanelOpen:   state.IsPanelOpen,
	}
	for _, line := range state.Lines {
		unit := line.Product.UnitPrice()
		view.Lines = append(view.Lines, lineView{
			ProductID:     line.Product.ID,
			Name:          line.Product.Name,
			Quantity:      line.Quantity,
			UnitPrice:     unit.String(),
			LineTotal:     unit.Mul(intDecimal(line.Quantity)).String(),
			SelectedImage: line.SelectedImage,
		})
	}
	return view
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the cart's lines and totals",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := openEnv(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			view := cartSummary(e.cart)
			if rootOpts.Format == "json" {
				return e.out.Success(view)
			}

			w := cmd.OutOrStdout()
			if len(view.Lines) == 0 {
				fmt.Fprintln(w, "cart is empty")
			}
			for _, line := range view.Lines {
				name := line.Name
				if name == "" {
					name = line.ProductID
				}
				fmt.Fprintf(w, "%-20s x%-3d @ %-8s = %s\n", name, line.Quantity, line.UnitPrice, line.LineTotal)
			}
			fmt.Fprintf(w, "items:    %d\n", view.ItemCount)
			fmt.Fprintf(w, "subtotal: %s\n", view.Subtotal)
			fmt.Fprintf(w, "shipping: %s\n", view.ShippingFee)
			fmt.Fprintf(w, "total:    %s\n", view.FinalTotal)
			return nil
		},
	}
}

func parseQuantity(arg string) (int, error) {
	quantity, err := strconv.Atoi(arg)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid quantity %q", arg), err)
	}
	return quantity, nil
}
