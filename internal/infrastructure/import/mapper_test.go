package csvimport

import (
	"testing"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseRow(t *testing.T, csv string) (*Document, Record) {
	t.Helper()
	doc, err := ParseText(csv)
	require.NoError(t, err)
	require.NotEmpty(t, doc.Rows)
	return doc, doc.Rows[0]
}

func TestMapShopeeRow(t *testing.T) {
	t.Run("maps full row", func(t *testing.T) {
		doc, rec := parseRow(t,
			"Order ID,Tracking Number,Model Name,Product Name,Quantity,Buyer Name,Recipient Address\n"+
				`ORD1,TRK1,"XL","Camisa Polo",2,"Maria","Rua X, 123"`)

		row := MapRow(bulk.MarketplaceShopee, rec, doc.Headers)
		require.NotNil(t, row)
		assert.Equal(t, "ORD1", row.ExternalOrderID)
		assert.Equal(t, "TRK1", row.TrackingCode)
		assert.Equal(t, "TRK1", row.ScanCode)
		assert.Equal(t, "Camisa Polo", row.ProductName)
		assert.Equal(t, "XL", row.VariantName)
		assert.Equal(t, "Maria", row.CustomerName)
		assert.Equal(t, "Rua X, 123", row.AddressSummary)
		assert.Equal(t, 2, row.Qty)
		assert.Equal(t, "GG", row.Attributes["size"])
		assert.Equal(t, GenerateStableSKU("Camisa Polo", "XL"), row.SKU)
	})

	t.Run("row without order id is rejected", func(t *testing.T) {
		doc, rec := parseRow(t, "Order ID,Tracking Number,Model Name\n,TRK1,XL")
		assert.Nil(t, MapRow(bulk.MarketplaceShopee, rec, doc.Headers))
	})

	t.Run("missing quantity defaults to 1", func(t *testing.T) {
		doc, rec := parseRow(t, "Order ID,Tracking Number,Model Name\nORD1,TRK1,M")
		row := MapRow(bulk.MarketplaceShopee, rec, doc.Headers)
		require.NotNil(t, row)
		assert.Equal(t, 1, row.Qty)
	})

	t.Run("missing product name gets placeholder", func(t *testing.T) {
		doc, rec := parseRow(t, "Order ID,Tracking Number,Model Name\nORD1,TRK1,M")
		row := MapRow(bulk.MarketplaceShopee, rec, doc.Headers)
		require.NotNil(t, row)
		assert.Equal(t, "Produto sem nome", row.ProductName)
	})
}

func TestMapMercadoLivreRow(t *testing.T) {
	t.Run("vendor SKU wins over generated one", func(t *testing.T) {
		doc, rec := parseRow(t,
			"Order ID,Logistics Tracking Number,SKU,Product Name,Product Attributes,Quantity\n"+
				"ML1,LT1,SKU-99,Tênis Runner,Azul/42,1")

		row := MapRow(bulk.MarketplaceMercadoLivre, rec, doc.Headers)
		require.NotNil(t, row)
		assert.Equal(t, "ML1", row.ExternalOrderID)
		assert.Equal(t, "SKU-99", row.SKU)
		assert.Equal(t, "Azul/42", row.VariantName)
	})

	t.Run("generates SKU when vendor has none", func(t *testing.T) {
		doc, rec := parseRow(t,
			"Order ID,Logistics Tracking Number,SKU,Product Name,Product Attributes\n"+
				"ML2,LT2,,Tênis Runner,Preto/40")

		row := MapRow(bulk.MarketplaceMercadoLivre, rec, doc.Headers)
		require.NotNil(t, row)
		assert.Equal(t, GenerateStableSKU("Tênis Runner", "Preto/40"), row.SKU)
	})

	t.Run("variant falls back to SKU text", func(t *testing.T) {
		doc, rec := parseRow(t,
			"Order ID,Logistics Tracking Number,SKU,Product Name\nML3,LT3,SKU-GG,Camiseta")

		row := MapRow(bulk.MarketplaceMercadoLivre, rec, doc.Headers)
		require.NotNil(t, row)
		assert.Equal(t, "SKU-GG", row.VariantName)
		assert.Equal(t, "GG", row.Attributes["size"])
	})
}

func TestMapSheinRow(t *testing.T) {
	doc, rec := parseRow(t,
		"Order Number,Tracking Number,SKU,Product Name,Variation,Quantity,Customer Name\n"+
			"SH1,TRKS1,,Vestido Longo,Vermelho/M,3,Ana")

	row := MapRow(bulk.MarketplaceShein, rec, doc.Headers)
	require.NotNil(t, row)
	assert.Equal(t, "SH1", row.ExternalOrderID)
	assert.Equal(t, "Vermelho/M", row.VariantName)
	assert.Equal(t, "Ana", row.CustomerName)
	assert.Equal(t, 3, row.Qty)
	assert.Equal(t, "M", row.Attributes["size"])
}

func TestMapGenericRow(t *testing.T) {
	t.Run("unknown layout still maps best-guess columns", func(t *testing.T) {
		doc, rec := parseRow(t,
			"Order Number,Tracking,Product Name,Quantity\nGEN1,TG1,Boné Aba Reta,2")

		row := MapRow(bulk.MarketplaceUnknown, rec, doc.Headers)
		require.NotNil(t, row)
		assert.Equal(t, "GEN1", row.ExternalOrderID)
		assert.Equal(t, "TG1", row.TrackingCode)
		assert.Equal(t, 2, row.Qty)
	})

	t.Run("rejects rows without any order column", func(t *testing.T) {
		doc, rec := parseRow(t, "Cliente,Valor\nMaria,10")
		assert.Nil(t, MapRow(bulk.MarketplaceUnknown, rec, doc.Headers))
	})
}
