package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSize(t *testing.T) {
	tests := []struct {
		text string
		want Size
		ok   bool
	}{
		{"XL", SizeGG, true},
		{"3XL", SizeGGG, true},
		{"P", SizeP, true},
		{"Tamanho Único", SizeUN, true},
		{"GG", SizeGG, true},
		{"GGG", SizeGGG, true},
		{"XXL", SizeGG, true},
		{"XXS", SizePP, true},
		{"M", SizeM, true},
		{"L", SizeG, true},
		{"Free Size", SizeUN, true},
		{"Azul/GG", SizeGG, true},
		{"Camiseta Polo Tam G", SizeG, true},
		{"Vermelho", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractSize(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateStableSKU(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := GenerateStableSKU("Camisa Polo", "XL")
		b := GenerateStableSKU("Camisa Polo", "XL")
		assert.Equal(t, a, b)
	})

	t.Run("distinct inputs yield distinct SKUs", func(t *testing.T) {
		a := GenerateStableSKU("Camisa Polo", "XL")
		b := GenerateStableSKU("Camisa Polo", "M")
		assert.NotEqual(t, a, b)
	})

	t.Run("strips diacritics and squashes separators", func(t *testing.T) {
		sku := GenerateStableSKU("Calça Jeans", "Tamanho Único")
		assert.Contains(t, sku, "calca-jeans-")
		assert.Contains(t, sku, "tamanho-unico")
	})

	t.Run("caps each slug at 30 characters", func(t *testing.T) {
		sku := GenerateStableSKU(
			"Vestido Longo Estampado Floral Primavera Verão Coleção Nova",
			"Azul Marinho com Detalhes Brancos",
		)
		parts := len(sku)
		assert.LessOrEqual(t, parts, 30+1+30+1+6)
	})
}
