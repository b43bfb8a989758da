package heuristics

import (
	"strings"
)

// ecoTerms are OR-ed into every search so results lean towards sustainable products
var ecoTerms = []string{
	"eco-friendly",
	"sustainable",
	"organic",
	"recycled",
	`"b corp"`,
	`"fair trade"`,
	"certified",
}

// productPageTerms nudge the search engine towards pages that sell something
var productPageTerms = []string{
	`"shop"`,
	`"buy"`,
	`"product"`,
	`"add to cart"`,
}

// excludedSiteOperators remove marketplaces, social sites and editorial pages
var excludedSiteOperators = []string{
	"-site:pinterest.com",
	"-site:youtube.com",
	"-site:amazon.com",
	"-site:reddit.com",
	"-site:ebay.com",
	"-site:walmart.com",
	"-inurl:blog",
	"-inurl:forum",
	"-inurl:reviews",
}

// BuildEcoQuery turns a raw user query into a web search query.
// The quoted user terms come first, followed by the eco vocabulary,
// the product-page hints and the exclusion operators.
func BuildEcoQuery(query string) string {
	base := multiSpacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(query)), " ")
	if base == "" {
		return ""
	}
	base = strings.ReplaceAll(base, `"`, "")

	parts := make([]string, 0, 3+len(excludedSiteOperators))
	parts = append(parts,
		`"`+base+`"`,
		"("+strings.Join(ecoTerms, " OR ")+")",
		"("+strings.Join(productPageTerms, " OR ")+")",
	)
	parts = append(parts, excludedSiteOperators...)

	return strings.Join(parts, " ")
}
