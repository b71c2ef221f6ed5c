package csvimport

import (
	"strconv"
	"strings"

	"github.com/bipcerto/backend/internal/domain/bulk"
)

// NormalizedRow is the vendor-independent shape every mapper produces
type NormalizedRow struct {
	ExternalOrderID string
	TrackingCode    string
	ScanCode        string
	CustomerName    string
	AddressSummary  string
	ProductName     string
	VariantName     string
	SKU             string
	Qty             int
	Attributes      map[string]string
}

// MapRow normalizes one parsed record using the mapper for the detected
// marketplace. Returns nil when the row carries no order id and therefore
// cannot be imported.
func MapRow(marketplace bulk.Marketplace, record Record, headers []string) *NormalizedRow {
	g := fieldGetter{row: record.Data, headers: headers}
	switch marketplace {
	case bulk.MarketplaceShopee:
		return mapShopeeRow(g)
	case bulk.MarketplaceMercadoLivre:
		return mapMercadoLivreRow(g)
	case bulk.MarketplaceShein:
		return mapSheinRow(g)
	default:
		return mapGenericRow(g)
	}
}

type fieldGetter struct {
	row     map[string]string
	headers []string
}

func (g fieldGetter) get(candidates ...string) string {
	if h, ok := FindHeader(g.headers, candidates); ok {
		return strings.TrimSpace(g.row[h])
	}
	return ""
}

// parseQty reads a quantity column, defaulting to 1 when absent or unparseable
func parseQty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return 1
	}
	return n
}

func sizeAttributes(variantText, productName string) map[string]string {
	attrs := map[string]string{}
	size, ok := ExtractSize(variantText)
	if !ok {
		size, ok = ExtractSize(productName)
	}
	if ok {
		attrs["size"] = size
	}
	return attrs
}

func mapShopeeRow(g fieldGetter) *NormalizedRow {
	orderID := g.get("Order ID", "OrderID", "Order Id")
	if orderID == "" {
		return nil
	}

	tracking := g.get("Tracking Number", "TrackingNumber", "AWB Number")
	productName := g.get("Product Name", "Product Name(s)", "Item Name")
	modelName := g.get("Model Name", "Variation Name", "Variation")

	return &NormalizedRow{
		ExternalOrderID: orderID,
		TrackingCode:    tracking,
		ScanCode:        tracking,
		CustomerName:    g.get("Buyer Name", "Buyer Username", "Recipient Name"),
		AddressSummary:  g.get("Recipient Address", "Delivery Address", "Recipient Full Address", "Shipping Address"),
		ProductName:     defaultProductName(productName),
		VariantName:     modelName,
		SKU:             GenerateStableSKU(productName, modelName),
		Qty:             parseQty(g.get("Quantity", "Qty", "Amount")),
		Attributes:      sizeAttributes(modelName, productName),
	}
}

func mapMercadoLivreRow(g fieldGetter) *NormalizedRow {
	orderID := g.get("Order ID", "Order No", "Order Number")
	if orderID == "" {
		return nil
	}

	tracking := g.get("Logistics Tracking Number", "Tracking Number", "Tracking No", "Waybill Number", "AWB No")
	sku := g.get("SKU", "SKU ID", "Product SKU")
	productName := g.get("Product Name", "Subject", "Item Name", "Title")
	productAttrs := g.get("Product Attributes", "Variation", "SKU Attributes", "Sku Attributes")

	variantText := productAttrs
	if variantText == "" {
		variantText = sku
	}
	finalSKU := sku
	if finalSKU == "" {
		finalSKU = GenerateStableSKU(productName, productAttrs)
	}

	return &NormalizedRow{
		ExternalOrderID: orderID,
		TrackingCode:    tracking,
		ScanCode:        tracking,
		CustomerName:    g.get("Buyer Login Name", "Buyer Name", "Buyer Alias", "Customer Name"),
		AddressSummary:  g.get("Shipping Address", "Address", "Delivery Address", "Ship To Address"),
		ProductName:     defaultProductName(productName),
		VariantName:     variantText,
		SKU:             finalSKU,
		Qty:             parseQty(g.get("Quantity", "Ordered Quantity", "Qty")),
		Attributes:      sizeAttributes(variantText, productName),
	}
}

func mapSheinRow(g fieldGetter) *NormalizedRow {
	orderID := g.get("Order Number", "Order No", "Order ID")
	if orderID == "" {
		return nil
	}

	tracking := g.get("Tracking Number", "Tracking", "Waybill", "Express Number")
	sku := g.get("SKU", "Item SKU", "Product SKU")
	productName := g.get("Product Name", "Item Name", "Product Name(s)", "Goods Name")
	variation := g.get("Variation", "Colour/Size", "Variant", "Style", "Attributes")

	variantText := variation
	if variantText == "" {
		variantText = sku
	}
	finalSKU := sku
	if finalSKU == "" {
		finalSKU = GenerateStableSKU(productName, variation)
	}

	return &NormalizedRow{
		ExternalOrderID: orderID,
		TrackingCode:    tracking,
		ScanCode:        tracking,
		CustomerName:    g.get("Customer Name", "Buyer Name", "Recipient Name"),
		AddressSummary:  g.get("Shipping Address", "Address", "Delivery Address"),
		ProductName:     defaultProductName(productName),
		VariantName:     variantText,
		SKU:             finalSKU,
		Qty:             parseQty(g.get("Quantity", "Qty", "Amount", "Ordered Quantity")),
		Attributes:      sizeAttributes(variantText, productName),
	}
}

// mapGenericRow handles unrecognized layouts with a union of the known
// vendors' aliases, so detection failure degrades to a best-effort import
// instead of aborting the job
func mapGenericRow(g fieldGetter) *NormalizedRow {
	orderID := g.get("Order ID", "Order Number", "Order No")
	if orderID == "" {
		return nil
	}

	tracking := g.get("Tracking Number", "Logistics Tracking Number", "Tracking No", "Tracking", "Waybill")
	sku := g.get("SKU", "SKU ID", "Item SKU", "Product SKU")
	productName := g.get("Product Name", "Item Name", "Goods Name", "Subject", "Title")
	variation := g.get("Variation", "Model Name", "Colour/Size", "Product Attributes", "Variant")

	variantText := variation
	if variantText == "" {
		variantText = sku
	}
	finalSKU := sku
	if finalSKU == "" {
		finalSKU = GenerateStableSKU(productName, variation)
	}

	return &NormalizedRow{
		ExternalOrderID: orderID,
		TrackingCode:    tracking,
		ScanCode:        tracking,
		CustomerName:    g.get("Buyer Name", "Customer Name", "Recipient Name"),
		AddressSummary:  g.get("Shipping Address", "Recipient Address", "Address", "Delivery Address"),
		ProductName:     defaultProductName(productName),
		VariantName:     variantText,
		SKU:             finalSKU,
		Qty:             parseQty(g.get("Quantity", "Qty", "Amount")),
		Attributes:      sizeAttributes(variantText, productName),
	}
}

func defaultProductName(name string) string {
	if name == "" {
		return "Produto sem nome"
	}
	return name
}
