package catalog

import (
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
	"github.com/shopspring/decimal"
)

// Catalog files are CUE documents with a top-level products list:
//
//	products: [
//		{
//			id:    "tea-pot"
//			name:  "Tea Pot"
//			price: 10000
//			stock: 5
//			promotion: { active: true, price: 7000, ends_at: "2026-01-31T00:00:00Z" }
//			images: ["tea-pot-front.jpg", "tea-pot-side.jpg"]
//		},
//	]
//
// Prices are integers in currency minor units.

// LoadError reports a problem in a catalog file, with the CUE source
// position when one is available.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// LoadFile compiles a CUE catalog file and returns its product snapshots.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
func LoadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Load(data, path)
}

// Load compiles CUE catalog source and returns its product snapshots.
// The filename is used only for error positions.
func Load(data []byte, filename string) ([]Product, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog: %w", err)
	}
	return decodeCatalog(v)
}

func decodeCatalog(v cue.Value) ([]Product, error) {
	list := v.LookupPath(cue.ParsePath("products"))
	if !list.Exists() {
		return nil, &LoadError{Field: "products", Message: "products list is required", Pos: v.Pos()}
	}

	iter, err := list.List()
	if err != nil {
		return nil, &LoadError{Field: "products", Message: "products must be a list", Pos: list.Pos()}
	}

	var products []Product
	seen := make(map[string]bool)
	for iter.Next() {
		p, err := decodeProduct(iter.Value())
		if err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if seen[p.ID] {
			return nil, &LoadError{Field: "id", Message: fmt.Sprintf("duplicate product id %q", p.ID), Pos: iter.Value().Pos()}
		}
		seen[p.ID] = true
		products = append(products, p)
	}

	return products, nil
}

func decodeProduct(v cue.Value) (Product, error) {
	var p Product

	id, err := requiredString(v, "id")
	if err != nil {
		return Product{}, err
	}
	p.ID = id

	name, err := optionalString(v, "name")
	if err != nil {
		return Product{}, err
	}
	p.Name = name

	price, ok, err := intField(v, "price")
	if err != nil {
		return Product{}, err
	}
	if !ok {
		return Product{}, &LoadError{Field: "price", Message: fmt.Sprintf("product %q: price is required", p.ID), Pos: v.Pos()}
	}
	p.Price = decimal.NewFromInt(price)

	stock, ok, err := intField(v, "stock")
	if err != nil {
		return Product{}, err
	}
	if ok {
		p.StockQuantity = int(stock)
	}

	if err := decodePromotion(v, &p); err != nil {
		return Product{}, err
	}

	images := v.LookupPath(cue.ParsePath("images"))
	if images.Exists() {
		iter, err := images.List()
		if err != nil {
			return Product{}, &LoadError{Field: "images", Message: "images must be a list of strings", Pos: images.Pos()}
		}
		for iter.Next() {
			ref, err := iter.Value().String()
			if err != nil {
				return Product{}, &LoadError{Field: "images", Message: "images must be a list of strings", Pos: iter.Value().Pos()}
			}
			p.Images = append(p.Images, ref)
		}
	}

	return p, nil
}

func decodePromotion(v cue.Value, p *Product) error {
	promo := v.LookupPath(cue.ParsePath("promotion"))
	if !promo.Exists() {
		return nil
	}

	active := promo.LookupPath(cue.ParsePath("active"))
	if active.Exists() {
		b, err := active.Bool()
		if err != nil {
			return &LoadError{Field: "promotion.active", Message: "must be a bool", Pos: active.Pos()}
		}
		p.PromotionActive = b
	}

	price, ok, err := intField(promo, "price")
	if err != nil {
		return err
	}
	if ok {
		d := decimal.NewFromInt(price)
		p.PromotionPrice = &d
	}

	endsAt, err := optionalString(promo, "ends_at")
	if err != nil {
		return err
	}
	if endsAt != "" {
		t, err := time.Parse(time.RFC3339, endsAt)
		if err != nil {
			return &LoadError{Field: "promotion.ends_at", Message: fmt.Sprintf("invalid RFC 3339 timestamp %q", endsAt), Pos: promo.Pos()}
		}
		p.PromotionEndsAt = &t
	}

	return nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &LoadError{Field: field, Message: "is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", &LoadError{Field: field, Message: "must be a string", Pos: fv.Pos()}
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", &LoadError{Field: field, Message: "must be a string", Pos: fv.Pos()}
	}
	return s, nil
}

func intField(v cue.Value, field string) (int64, bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, false, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, false, &LoadError{Field: field, Message: "must be an integer", Pos: fv.Pos()}
	}
	return n, true, nil
}
