package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

func TestNormalizeFullProduct(t *testing.T) {
	product := &shopify.Product{
		ID:          12345,
		Title:       "Blue Mug",
		BodyHTML:    "<p>A lovely <strong>ceramic</strong> mug.</p>",
		ProductType: "Kitchenware",
		Vendor:      "Mugs Co",
		Tags:        "kitchen, gift",
		Variants: []shopify.Variant{
			{Title: "Default Title", Price: "12.00"},
		},
	}

	snap := Normalize(product)

	assert.Equal(t, "Blue Mug", snap.Title)
	assert.Equal(t, "$12.00", snap.Price)
	assert.Equal(t, "Kitchenware", snap.Type)
	assert.Equal(t, "Mugs Co", snap.Vendor)
	assert.Equal(t, "A lovely ceramic mug.", snap.Description)
	assert.Equal(t, "Blue Mug, kitchen, gift", snap.Features)
	assert.Equal(t, "kitchen, gift", snap.Tags)
}

func TestNormalizeEmptyProduct(t *testing.T) {
	snap := Normalize(&shopify.Product{})

	assert.Equal(t, "Unknown Product", snap.Title)
	assert.Equal(t, "Contact for pricing", snap.Price)
	assert.Equal(t, "General", snap.Type)
	assert.Equal(t, "Unknown Brand", snap.Vendor)
	assert.Equal(t, "No current description", snap.Description)
	assert.Equal(t, "None", snap.Features)
	assert.Equal(t, "None", snap.Tags)
}

func TestNormalizeNilProduct(t *testing.T) {
	snap := Normalize(nil)
	assert.Equal(t, "Unknown Product", snap.Title)
	assert.Equal(t, "Contact for pricing", snap.Price)
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		variants []shopify.Variant
		want     string
	}{
		{"no variants", nil, "Contact for pricing"},
		{"blank price", []shopify.Variant{{Price: "  "}}, "Contact for pricing"},
		{"padded to two places", []shopify.Variant{{Price: "12"}}, "$12.00"},
		{"truncation rounds", []shopify.Variant{{Price: "9.999"}}, "$10.00"},
		{"first variant wins", []shopify.Variant{{Price: "5.50"}, {Price: "7.00"}}, "$5.50"},
		{"unparseable passes through", []shopify.Variant{{Price: "12,00"}}, "$12,00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePrice(tt.variants))
		})
	}
}

func TestNormalizeFeatures(t *testing.T) {
	t.Run("skips default variant title", func(t *testing.T) {
		product := &shopify.Product{
			Title:    "Shirt",
			Variants: []shopify.Variant{{Title: "Default Title"}, {Title: "Large"}},
			Tags:     "cotton",
		}
		assert.Equal(t, "Shirt, Large, cotton", Normalize(product).Features)
	})

	t.Run("caps at five entries", func(t *testing.T) {
		product := &shopify.Product{
			Title: "Shirt",
			Tags:  "one, two, three, four, five, six",
		}
		assert.Equal(t, "Shirt, one, two, three, four", Normalize(product).Features)
	})

	t.Run("trims tag whitespace", func(t *testing.T) {
		product := &shopify.Product{Tags: "  a ,, b  "}
		assert.Equal(t, "a, b", Normalize(product).Features)
	})
}

func TestNormalizeIdempotent(t *testing.T) {
	product := &shopify.Product{
		Title:    "Blue Mug",
		Tags:     "kitchen, gift",
		Variants: []shopify.Variant{{Title: "Default Title", Price: "12.00"}},
	}
	first := Normalize(product)
	second := Normalize(product)
	assert.Equal(t, first, second)
}
