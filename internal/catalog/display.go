package catalog

import (
	"math"

	"github.com/adelhazem/storefront/internal/api"
)

// Multiplier bands for the synthesized strike-through price. The grid uses
// the narrow band, the detail page the wide one.
const (
	GridBandLow  = 1.15
	GridBandHigh = 1.40

	DetailBandLow  = 1.15
	DetailBandHigh = 1.70
)

// ActiveVariant picks the variant used for display: the first one flagged
// active, else the first one, else nil.
func ActiveVariant(p *api.Product) *api.ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].IsActive {
			return &p.Variants[i]
		}
	}
	if len(p.Variants) > 0 {
		return &p.Variants[0]
	}
	return nil
}

// PrimaryImage picks the media entry used for display: the first one flagged
// primary, else the first one, else nil.
func PrimaryImage(p *api.Product) *api.ProductMedia {
	for i := range p.Media {
		if p.Media[i].IsPrimary {
			return &p.Media[i]
		}
	}
	if len(p.Media) > 0 {
		return &p.Media[0]
	}
	return nil
}

func HasStock(p *api.Product) bool {
	v := ActiveVariant(p)
	return v != nil && v.Stock > 0
}

// DisplayPrice is the price shown for a product: the active variant's amount,
// falling back to the first variant, else 0.
func DisplayPrice(p *api.Product) float64 {
	if v := ActiveVariant(p); v != nil {
		return v.PriceAmount
	}
	return 0
}

// fnv1a32 over the product id keeps the synthesized price stable per product
// across renders.
func fnv1a32(s string) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
	)
	h := uint32(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// OriginalPrice synthesizes a stable "before discount" price from the
// product id and the real price: hash the id, map it to a multiplier inside
// [bandLow, bandHigh], multiply and round up. Presentation only.
func OriginalPrice(id string, price, bandLow, bandHigh float64) float64 {
	if price <= 0 {
		return 0
	}
	frac := float64(fnv1a32(id)%1000) / 1000.0
	mult := bandLow + frac*(bandHigh-bandLow)
	return math.Ceil(price * mult)
}

// DiscountPercent is the rounded gap between the synthesized original price
// and the real one.
func DiscountPercent(original, price float64) int {
	if original <= 0 || price <= 0 || original <= price {
		return 0
	}
	return int(math.Round((original - price) / original * 100))
}
