// Package prompt renders deterministic chat prompts for description
// generation. The same snapshot and options always produce the same
// prompt text, so failed generations can be replayed exactly.
package prompt

import (
	"fmt"
	"strings"

	"github.com/shopquill/shopquill-backend/internal/catalog"
	"github.com/shopquill/shopquill-backend/pkg/enums"
)

// Options controls the shape of the generated description. Unknown tones
// and lengths are normalized to their defaults rather than rejected.
type Options struct {
	Tone              enums.Tone
	TargetLength      enums.ContentLength
	Keywords          []string
	AdditionalContext string
	IncludeFeatures   bool
	IncludeBenefits   bool
}

var toneGuides = map[enums.Tone]string{
	enums.ToneProfessional: "Create a professional, trustworthy product description that builds confidence and highlights value.",
	enums.ToneCasual:       "Write a friendly, conversational description that feels like a recommendation from a friend.",
	enums.ToneLuxury:       "Craft an elegant, premium description that emphasizes quality, exclusivity, and sophistication.",
	enums.ToneTechnical:    "Write a detailed, informative description focusing on specifications and technical benefits.",
}

var lengthGuides = map[enums.ContentLength]string{
	enums.ContentLengthShort:  "80-120 words",
	enums.ContentLengthMedium: "150-200 words",
	enums.ContentLengthLong:   "250-350 words",
}

const systemPrompt = `You are an expert e-commerce copywriter with 10+ years of experience creating high-converting product descriptions for online stores.

Your expertise includes:
- Writing compelling copy that converts browsers into buyers
- SEO optimization for better search visibility
- Understanding customer psychology and pain points
- Adapting tone and style for different audiences
- Creating scannable, well-structured content

Always write in HTML format using appropriate tags like <p>, <ul>, <li>, <strong>, <em>.
Focus on benefits over features, and always include a clear call-to-action.`

// SystemPrompt returns the fixed copywriter persona sent as the system
// message on every generation.
func SystemPrompt() string {
	return systemPrompt
}

// Build renders the user prompt for a normalized product snapshot. The
// returned tone and length are the normalized values actually used, so
// callers record what was generated rather than what was requested.
func Build(snap catalog.Snapshot, opts Options) (text string, tone enums.Tone, length enums.ContentLength) {
	tone = enums.NormalizeTone(opts.Tone)
	length = enums.NormalizeContentLength(opts.TargetLength)

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s product description for an e-commerce store.\n\n", tone)

	b.WriteString("PRODUCT INFORMATION:\n")
	fmt.Fprintf(&b, "Title: %s\n", snap.Title)
	fmt.Fprintf(&b, "Price: %s\n", snap.Price)
	fmt.Fprintf(&b, "Product Type: %s\n", snap.Type)
	fmt.Fprintf(&b, "Vendor/Brand: %s\n", snap.Vendor)
	fmt.Fprintf(&b, "Current Description: %s\n", snap.Description)
	fmt.Fprintf(&b, "Key Features: %s\n", snap.Features)
	fmt.Fprintf(&b, "Tags: %s\n", snap.Tags)

	b.WriteString("\nREQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Length: %s\n", lengthGuides[length])
	fmt.Fprintf(&b, "- Tone: %s\n", toneGuides[tone])
	if opts.IncludeFeatures {
		b.WriteString("- Include key features naturally\n")
	} else {
		b.WriteString("- Focus on benefits over features\n")
	}
	if opts.IncludeBenefits {
		b.WriteString("- Emphasize customer benefits and value\n")
	}
	if keywords := joinKeywords(opts.Keywords); keywords != "" {
		fmt.Fprintf(&b, "- Naturally include these keywords: %s\n", keywords)
	}
	b.WriteString("- Use HTML formatting (<p>, <ul>, <li>, <strong> tags)\n")
	b.WriteString("- Include a compelling call-to-action\n")
	b.WriteString("- Make it SEO-friendly\n")
	b.WriteString("- Structure for easy scanning (short paragraphs, bullet points where appropriate)\n")

	if ctx := strings.TrimSpace(opts.AdditionalContext); ctx != "" {
		fmt.Fprintf(&b, "\nADDITIONAL CONTEXT: %s\n", ctx)
	}

	b.WriteString("\nWrite ONLY the product description in HTML format. Do not include any introductory text or explanations.")
	return b.String(), tone, length
}

func joinKeywords(keywords []string) string {
	var cleaned []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	return strings.Join(cleaned, ", ")
}
