package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
products: [
	{
		id:    "tea-pot"
		name:  "Tea Pot"
		price: 10000
		stock: 5
		promotion: {
			active:  true
			price:   7000
			ends_at: "2026-01-31T00:00:00Z"
		}
		images: ["tea-pot-front.jpg", "tea-pot-side.jpg"]
	},
	{
		id:    "mug"
		price: 3000
		stock: 10
	},
]
`

func TestLoad(t *testing.T) {
	products, err := Load([]byte(testCatalog), "catalog.cue")
	require.NoError(t, err)
	require.Len(t, products, 2)

	pot := products[0]
	assert.Equal(t, "tea-pot", pot.ID)
	assert.Equal(t, "Tea Pot", pot.Name)
	assert.Equal(t, "10000", pot.Price.String())
	assert.Equal(t, 5, pot.StockQuantity)
	assert.True(t, pot.PromotionActive)
	require.NotNil(t, pot.PromotionPrice)
	assert.Equal(t, "7000", pot.PromotionPrice.String())
	require.NotNil(t, pot.PromotionEndsAt)
	assert.Equal(t, 2026, pot.PromotionEndsAt.Year())
	assert.Equal(t, []string{"tea-pot-front.jpg", "tea-pot-side.jpg"}, pot.Images)

	mug := products[1]
	assert.Equal(t, "mug", mug.ID)
	assert.False(t, mug.PromotionActive)
	assert.Nil(t, mug.PromotionPrice)
	assert.Nil(t, mug.PromotionEndsAt)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.cue")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	products, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog file")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "missing products list",
			src:     `catalog: "empty"`,
			wantErr: "products list is required",
		},
		{
			name:    "missing id",
			src:     `products: [{price: 100}]`,
			wantErr: "id: is required",
		},
		{
			name:    "missing price",
			src:     `products: [{id: "a"}]`,
			wantErr: "price is required",
		},
		{
			name:    "non-integer price",
			src:     `products: [{id: "a", price: "cheap"}]`,
			wantErr: "must be an integer",
		},
		{
			name:    "duplicate ids",
			src:     `products: [{id: "a", price: 100}, {id: "a", price: 200}]`,
			wantErr: "duplicate product id",
		},
		{
			name:    "negative stock",
			src:     `products: [{id: "a", price: 100, stock: -1}]`,
			wantErr: "stock quantity",
		},
		{
			name:    "bad promotion timestamp",
			src:     `products: [{id: "a", price: 100, promotion: {ends_at: "tomorrow"}}]`,
			wantErr: "invalid RFC 3339 timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.src), "test.cue")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
