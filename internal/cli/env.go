package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/basket/internal/cart"
	"github.com/roach88/basket/internal/catalog"
	"github.com/roach88/basket/internal/notify"
	"github.com/roach88/basket/internal/store"
	"github.com/roach88/basket/internal/wishlist"
)

// env wires a command invocation: the opened store, one engine pair for
// the session, the loaded catalog, and the output formatter.
type env struct {
	store    *store.SQLite
	cart     *cart.Engine
	wishlist *wishlist.Engine
	products map[string]catalog.Product
	out      *OutputFormatter
}

// openEnv opens the snapshot store and constructs the session's engines.
// The catalog is loaded only when a command needs product snapshots.
func openEnv(cmd *cobra.Command, opts *RootOptions, needCatalog bool) (*env, func(), error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open snapshot database", err)
	}
	cleanup := func() { st.Close() }

	notifier := notify.NewSlogNotifier(nil)

	c, err := cart.New(st,
		cart.WithStorageKey(cartKey(opts.Session)),
		cart.WithNotifier(notifier),
	)
	if err != nil {
		cleanup()
		return nil, nil, WrapExitError(ExitCommandError, "restore cart state", err)
	}

	w, err := wishlist.New(st,
		wishlist.WithStorageKey(wishlistKey(opts.Session)),
		wishlist.WithNotifier(notifier),
	)
	if err != nil {
		cleanup()
		return nil, nil, WrapExitError(ExitCommandError, "restore wishlist state", err)
	}

	e := &env{
		store:    st,
		cart:     c,
		wishlist: w,
		out:      &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}

	if needCatalog {
		products, err := catalog.LoadFile(opts.Catalog)
		if err != nil {
			cleanup()
			return nil, nil, WrapExitError(ExitCommandError, "load catalog", err)
		}
		e.products = make(map[string]catalog.Product, len(products))
		for _, p := range products {
			e.products[p.ID] = p
		}
	}

	return e, cleanup, nil
}

// product resolves a product id against the loaded catalog.
func (e *env) product(id string) (catalog.Product, error) {
	p, ok := e.products[id]
	if !ok {
		return catalog.Product{}, WrapExitError(ExitCommandError, fmt.Sprintf("product %q not in catalog", id), nil)
	}
	return p, nil
}

func cartKey(session string) string     { return "basket/cart/" + session }
func wishlistKey(session string) string { return "basket/wishlist/" + session }
