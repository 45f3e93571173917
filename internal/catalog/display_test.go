package catalog

import (
	"testing"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		variants []api.ProductVariant
		want     float64
	}{
		{
			name: "active variant wins",
			variants: []api.ProductVariant{
				{SKU: "A", PriceAmount: 10},
				{SKU: "B", PriceAmount: 20, IsActive: true},
			},
			want: 20,
		},
		{
			name: "no active variant falls back to first",
			variants: []api.ProductVariant{
				{SKU: "A", PriceAmount: 10},
				{SKU: "B", PriceAmount: 20},
			},
			want: 10,
		},
		{name: "no variants", variants: nil, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &api.Product{Variants: tt.variants}
			assert.Equal(t, tt.want, DisplayPrice(p))
		})
	}
}

func TestPrimaryImage(t *testing.T) {
	t.Parallel()

	p := &api.Product{Media: []api.ProductMedia{
		{ID: "m1"},
		{ID: "m2", IsPrimary: true},
	}}
	img := PrimaryImage(p)
	require.NotNil(t, img)
	assert.Equal(t, "m2", img.ID)

	p = &api.Product{Media: []api.ProductMedia{{ID: "m1"}}}
	img = PrimaryImage(p)
	require.NotNil(t, img)
	assert.Equal(t, "m1", img.ID)

	assert.Nil(t, PrimaryImage(&api.Product{}))
}

func TestHasStock(t *testing.T) {
	t.Parallel()

	p := &api.Product{Variants: []api.ProductVariant{{IsActive: true, Stock: 3}}}
	assert.True(t, HasStock(p))

	p = &api.Product{Variants: []api.ProductVariant{{IsActive: true, Stock: 0}}}
	assert.False(t, HasStock(p))

	assert.False(t, HasStock(&api.Product{}))
}

func TestOriginalPriceDeterministic(t *testing.T) {
	t.Parallel()

	first := OriginalPrice("prod-42", 100, GridBandLow, GridBandHigh)
	second := OriginalPrice("prod-42", 100, GridBandLow, GridBandHigh)
	assert.Equal(t, first, second)

	firstPct := DiscountPercent(first, 100)
	secondPct := DiscountPercent(second, 100)
	assert.Equal(t, firstPct, secondPct)

	assert.GreaterOrEqual(t, first, 100*GridBandLow)
	assert.LessOrEqual(t, first, 100*GridBandHigh+1)
	assert.Greater(t, firstPct, 0)
}

func TestOriginalPriceZero(t *testing.T) {
	t.Parallel()

	assert.Zero(t, OriginalPrice("prod-42", 0, GridBandLow, GridBandHigh))
	assert.Zero(t, DiscountPercent(0, 100))
	assert.Zero(t, DiscountPercent(90, 100))
}

func TestCheckDuplicateSKU(t *testing.T) {
	t.Parallel()

	err := CheckDuplicateSKU([]api.SaveVariant{{SKU: "A"}, {SKU: "A"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate SKU")

	// case-insensitive, matching how the backend compares them
	require.Error(t, CheckDuplicateSKU([]api.SaveVariant{{SKU: "abc"}, {SKU: "ABC"}}))

	require.NoError(t, CheckDuplicateSKU([]api.SaveVariant{{SKU: "A"}, {SKU: "B"}}))
	require.NoError(t, CheckDuplicateSKU([]api.SaveVariant{{SKU: ""}, {SKU: ""}}))
}
