package bulk

// Marketplace identifies the vendor layout a CSV export came from.
type Marketplace string

const (
	MarketplaceShopee       Marketplace = "shopee"
	MarketplaceMercadoLivre Marketplace = "mercadolivre"
	MarketplaceShein        Marketplace = "shein"
	MarketplaceUnknown      Marketplace = "unknown"
)

// IsValid checks if the marketplace is one of the known values
func (m Marketplace) IsValid() bool {
	switch m {
	case MarketplaceShopee, MarketplaceMercadoLivre, MarketplaceShein, MarketplaceUnknown:
		return true
	}
	return false
}
