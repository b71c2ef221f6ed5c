package csvimport

import (
	"strings"

	"github.com/bipcerto/backend/internal/domain/bulk"
)

// normalizeHeader lowercases a header and collapses runs of whitespace
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// DetectMarketplace classifies an export by its header row. Each vendor's
// layout carries a distinctive combination of column names; the first rule
// that matches wins. Files that match no rule are still importable through
// the generic mapper.
func DetectMarketplace(headers []string) bulk.Marketplace {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normalizeHeader(h)
	}
	has := func(term string) bool {
		for _, h := range norm {
			if strings.Contains(h, term) {
				return true
			}
		}
		return false
	}

	if has("order id") && has("tracking number") && (has("model name") || has("variation")) {
		return bulk.MarketplaceShopee
	}

	if has("order id") && has("sku") &&
		(has("logistics tracking") || has("tracking no") || has("tracking number")) {
		return bulk.MarketplaceMercadoLivre
	}

	if (has("order number") || has("order no")) &&
		(has("variation") || has("size") || has("colour")) &&
		(has("tracking") || has("waybill")) {
		return bulk.MarketplaceShein
	}

	return bulk.MarketplaceUnknown
}
