// Package harness runs YAML-defined conformance scenarios against the cart
// and wishlist engines.
//
// A scenario declares a small product catalog, a script of operations, and
// expectations on the final derived state and emitted notifications. The
// harness executes the script against fresh engine instances over an
// in-memory store and a recording notifier.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Products declares the catalog available to steps, by id.
	Products []ProductDef `yaml:"products"`

	// Steps is the operation script, executed in order.
	Steps []Step `yaml:"steps"`

	// Expect holds assertions on the final state.
	Expect Expect `yaml:"expect"`
}

// ProductDef declares a product snapshot in scenario YAML.
// Prices are integers in currency minor units.
type ProductDef struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name,omitempty"`
	Price           int64    `yaml:"price"`
	Stock           int      `yaml:"stock"`
	PromotionActive bool     `yaml:"promotion_active,omitempty"`
	PromotionPrice  *int64   `yaml:"promotion_price,omitempty"`
	Images          []string `yaml:"images,omitempty"`
}

// Step is one scripted operation.
//
// Supported ops: cart.add, cart.remove, cart.set, cart.clear, cart.toggle,
// wish.add, wish.remove, wish.clear.
type Step struct {
	Op       string `yaml:"op"`
	Product  string `yaml:"product,omitempty"`
	Quantity int    `yaml:"quantity,omitempty"`

	// Want names the expected outcome: "" or "ok" for success,
	// "insufficient_stock" or "already_exists" for a rejection.
	Want string `yaml:"want,omitempty"`
}

// Expect holds assertions evaluated after the script completes.
// Nil fields are not asserted.
type Expect struct {
	ItemCount     *int     `yaml:"item_count,omitempty"`
	Subtotal      *int64   `yaml:"subtotal,omitempty"`
	ShippingFee   *int64   `yaml:"shipping_fee,omitempty"`
	FinalTotal    *int64   `yaml:"final_total,omitempty"`
	LineCount     *int     `yaml:"line_count,omitempty"`
	WishlistSize  *int     `yaml:"wishlist_size,omitempty"`
	PanelOpen     *bool    `yaml:"panel_open,omitempty"`
	Notifications []string `yaml:"notifications,omitempty"`
}

var supportedOps = map[string]bool{
	"cart.add":    true,
	"cart.remove": true,
	"cart.set":    true,
	"cart.clear":  true,
	"cart.toggle": true,
	"wish.add":    true,
	"wish.remove": true,
	"wish.clear":  true,
}

// LoadScenario parses and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// LoadScenarioDir loads every .yaml scenario in a directory, sorted by
// file name for deterministic test ordering.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}
	sort.Strings(matches)

	var scenarios []*Scenario
	for _, path := range matches {
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// Validate checks scenario well-formedness before execution.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	ids := make(map[string]bool, len(s.Products))
	for _, p := range s.Products {
		if p.ID == "" {
			return fmt.Errorf("product id is required")
		}
		if ids[p.ID] {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		ids[p.ID] = true
	}

	for i, step := range s.Steps {
		if !supportedOps[step.Op] {
			return fmt.Errorf("step %d: unsupported op %q", i, step.Op)
		}
		switch step.Op {
		case "cart.add", "cart.remove", "cart.set", "wish.add", "wish.remove":
			if step.Product == "" {
				return fmt.Errorf("step %d: op %s requires a product", i, step.Op)
			}
			if step.Op != "cart.remove" && step.Op != "wish.remove" && !ids[step.Product] {
				return fmt.Errorf("step %d: unknown product %q", i, step.Product)
			}
		}
		switch step.Want {
		case "", "ok", "insufficient_stock", "already_exists":
		default:
			return fmt.Errorf("step %d: unsupported want %q", i, step.Want)
		}
	}

	return nil
}
