package catalog

import (
	"fmt"
	"strings"

	"github.com/adelhazem/storefront/internal/api"
)

// CheckDuplicateSKU is the client-side pre-check before a product submit.
// The backend remains the authority, this only catches the obvious case
// before any request goes out.
func CheckDuplicateSKU(variants []api.SaveVariant) error {
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		sku := strings.TrimSpace(strings.ToLower(v.SKU))
		if sku == "" {
			continue
		}
		if _, ok := seen[sku]; ok {
			return fmt.Errorf("duplicate SKU %q: each variant needs a unique SKU", v.SKU)
		}
		seen[sku] = struct{}{}
	}
	return nil
}
