package catalog

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

const (
	defaultTitle       = "Unknown Product"
	defaultPrice       = "Contact for pricing"
	defaultType        = "General"
	defaultVendor      = "Unknown Brand"
	defaultDescription = "No current description"
	defaultTags        = "None"

	// Feature lists longer than this add noise to the prompt without
	// improving the output, so the tail is discarded.
	maxFeatures = 5

	defaultVariantTitle = "Default Title"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Normalize collapses a raw storefront product into a Snapshot, applying
// defaults for every missing field. Normalizing an already-normalized
// product yields the same snapshot.
func Normalize(product *shopify.Product) Snapshot {
	if product == nil {
		product = &shopify.Product{}
	}
	return Snapshot{
		Title:       stringOr(product.Title, defaultTitle),
		Price:       normalizePrice(product.Variants),
		Type:        stringOr(product.ProductType, defaultType),
		Vendor:      stringOr(product.Vendor, defaultVendor),
		Description: normalizeDescription(product.BodyHTML),
		Features:    normalizeFeatures(product),
		Tags:        stringOr(strings.TrimSpace(product.Tags), defaultTags),
	}
}

func stringOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// normalizePrice takes the first variant's price and renders it as a display
// currency string with two decimal places. Prices that do not parse as
// decimals are passed through as-is rather than dropped.
func normalizePrice(variants []shopify.Variant) string {
	if len(variants) == 0 {
		return defaultPrice
	}
	raw := strings.TrimSpace(variants[0].Price)
	if raw == "" {
		return defaultPrice
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return "$" + d.StringFixed(2)
	}
	return "$" + raw
}

func normalizeDescription(bodyHTML string) string {
	text := htmlTagPattern.ReplaceAllString(bodyHTML, "")
	text = strings.TrimSpace(text)
	if text == "" {
		return defaultDescription
	}
	return text
}

// normalizeFeatures builds a short comma-joined feature list from the title,
// the non-default variant titles and the product tags, in that order.
func normalizeFeatures(product *shopify.Product) string {
	var features []string
	if title := strings.TrimSpace(product.Title); title != "" {
		features = append(features, title)
	}
	for _, v := range product.Variants {
		title := strings.TrimSpace(v.Title)
		if title == "" || title == defaultVariantTitle {
			continue
		}
		features = append(features, title)
	}
	for _, tag := range strings.Split(product.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			features = append(features, tag)
		}
	}
	if len(features) == 0 {
		return defaultTags
	}
	if len(features) > maxFeatures {
		features = features[:maxFeatures]
	}
	return strings.Join(features, ", ")
}
