// Package enrich implements the inventory enrichment pipeline: name
// normalization, catalog matching, image resolution and the batch
// orchestrator that drives them.
package enrich

import (
	"context"
	"regexp"
	"strings"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

// NameService is the AI-assisted normalization dependency. Implemented by
// client.AI; failures must be reported so the normalizer can fall back.
type NameService interface {
	NormalizeName(ctx context.Context, rawName string) (model.NormalizedName, error)
}

// Normalizer turns free-text product names into structured fields. The AI
// path is attempted first; a deterministic parse is always computed as the
// guaranteed fallback. Normalize never fails.
type Normalizer struct {
	log *logger.Logger
	ai  NameService
}

// NewNormalizer creates a normalizer. ai may be nil to run deterministic-only.
func NewNormalizer(log *logger.Logger, ai NameService) *Normalizer {
	return &Normalizer{log: log.With("component", "normalizer"), ai: ai}
}

// Normalize extracts brand/model/size/variant from the raw name. For each
// field the AI value wins when it is non-empty and not just the raw name
// echoed back, then the deterministic value, else the field stays unset.
func (n *Normalizer) Normalize(ctx context.Context, rawName string) model.NormalizedName {
	det := Deterministic(rawName)

	if n.ai == nil {
		return det
	}

	aiResult, err := n.ai.NormalizeName(ctx, rawName)
	if err != nil {
		// Degraded path: timeouts, rate limits and malformed payloads all
		// land here. The deterministic parse carries the result.
		n.log.Debug("ai normalization unavailable", "error", err)
		return det
	}

	merged := model.NormalizedName{
		Brand:   mergeField(aiResult.Brand, det.Brand, rawName),
		Model:   mergeField(aiResult.Model, det.Model, rawName),
		Size:    mergeField(aiResult.Size, det.Size, rawName),
		Variant: mergeField(aiResult.Variant, det.Variant, rawName),
	}
	merged.SearchQuery = buildSearchQuery(merged, rawName)
	return merged
}

// mergeField prefers the AI value unless it is empty or merely echoes the
// whole raw input.
func mergeField(aiValue, detValue, rawName string) string {
	aiValue = strings.TrimSpace(aiValue)
	if aiValue != "" && !strings.EqualFold(aiValue, strings.TrimSpace(rawName)) {
		return aiValue
	}
	return detValue
}

// brandKeywords maps a lowercase token found in product names to the
// canonical brand spelling.
var brandKeywords = map[string]string{
	"nike":       "Nike",
	"jordan":     "Jordan",
	"adidas":     "Adidas",
	"yeezy":      "Adidas",
	"puma":       "Puma",
	"reebok":     "Reebok",
	"converse":   "Converse",
	"vans":       "Vans",
	"asics":      "Asics",
	"saucony":    "Saucony",
	"timberland": "Timberland",
	"crocs":      "Crocs",
	"supreme":    "Supreme",
	"ugg":        "UGG",
}

// newBalanceRe matches the two-token brand separately.
var newBalanceRe = regexp.MustCompile(`(?i)\bnew\s+balance\b`)

// modelVocabulary lists known model names, longest first so e.g. "Air Max 97"
// wins over "Air Max".
var modelVocabulary = []string{
	"Air Force 1",
	"Air Jordan 11",
	"Air Jordan 4",
	"Air Jordan 1",
	"Air Max 270",
	"Air Max 97",
	"Air Max 95",
	"Air Max 90",
	"Air Max 1",
	"Air Max",
	"Dunk Low",
	"Dunk High",
	"Blazer Mid",
	"Cortez",
	"Yeezy Boost 350",
	"Yeezy Boost 700",
	"Yeezy Slide",
	"Ultraboost",
	"Superstar",
	"Stan Smith",
	"Gazelle",
	"Samba",
	"Campus",
	"Forum Low",
	"990",
	"993",
	"550",
	"530",
	"2002R",
	"Old Skool",
	"Sk8-Hi",
	"Chuck Taylor",
	"Chuck 70",
	"Gel-Kayano",
	"Gel-Lyte III",
	"Suede Classic",
	"Club C",
	"Classic Leather",
}

// variantVocabulary lists colorway/edition words recognized by the
// deterministic parse, longest first.
var variantVocabulary = []string{
	"Triple White",
	"Triple Black",
	"Panda",
	"Bred",
	"Chicago",
	"White",
	"Black",
	"Red",
	"Blue",
	"Green",
	"Grey",
	"Gray",
	"Cream",
	"Navy",
	"Pink",
	"Brown",
	"Beige",
	"OG",
	"Retro",
	"Low",
	"High",
	"Mid",
}

var (
	sizePrefixRe   = regexp.MustCompile(`(?i)\b(?:sz|size)\s*:?\s*(\d{1,2}(?:\.\d)?)\b`)
	sizeSuffixRe   = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d)?)\s*(?:us|m|w)\b`)
	sizeEuropeanRe = regexp.MustCompile(`(?i)\beu\s*:?\s*(\d{2}(?:\.5)?)\b`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Deterministic parses the raw name using brand keywords, known model
// vocabulary and numeric size patterns. It is total: any input, including the
// empty string, yields a result.
func Deterministic(rawName string) model.NormalizedName {
	var out model.NormalizedName

	name := whitespaceRe.ReplaceAllString(strings.TrimSpace(rawName), " ")
	if name == "" {
		return out
	}
	lower := strings.ToLower(name)

	if newBalanceRe.MatchString(name) {
		out.Brand = "New Balance"
	} else {
		for _, token := range strings.Fields(lower) {
			if brand, ok := brandKeywords[strings.Trim(token, ".,:;()[]")]; ok {
				out.Brand = brand
				break
			}
		}
	}

	for _, m := range modelVocabulary {
		if containsFold(lower, m) {
			out.Model = m
			break
		}
	}

	if match := sizePrefixRe.FindStringSubmatch(name); match != nil {
		out.Size = match[1]
	} else if match := sizeEuropeanRe.FindStringSubmatch(name); match != nil {
		out.Size = match[1]
	} else if match := sizeSuffixRe.FindStringSubmatch(name); match != nil {
		out.Size = match[1]
	}

	out.Variant = extractVariant(lower, out.Model)
	out.SearchQuery = buildSearchQuery(out, name)
	return out
}

// extractVariant picks the first known variant word not already part of the
// detected model name.
func extractVariant(lowerName, detectedModel string) string {
	lowerModel := strings.ToLower(detectedModel)
	for _, v := range variantVocabulary {
		lv := strings.ToLower(v)
		if strings.Contains(lowerModel, lv) {
			continue
		}
		if containsFold(lowerName, v) {
			return v
		}
	}
	return ""
}

// buildSearchQuery joins the structured fields for the catalog and image
// searches, falling back to the cleaned raw name when nothing was extracted.
func buildSearchQuery(n model.NormalizedName, rawName string) string {
	parts := make([]string, 0, 3)
	if n.Brand != "" {
		parts = append(parts, n.Brand)
	}
	if n.Model != "" {
		parts = append(parts, n.Model)
	}
	if n.Variant != "" {
		parts = append(parts, n.Variant)
	}
	if len(parts) == 0 {
		return cleanRawQuery(rawName)
	}
	return strings.Join(parts, " ")
}

// cleanRawQuery strips size annotations from the raw name so they do not
// pollute the search.
func cleanRawQuery(rawName string) string {
	q := sizePrefixRe.ReplaceAllString(rawName, "")
	q = sizeEuropeanRe.ReplaceAllString(q, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(q, " "))
}

func containsFold(lowerHaystack, needle string) bool {
	return strings.Contains(lowerHaystack, strings.ToLower(needle))
}
