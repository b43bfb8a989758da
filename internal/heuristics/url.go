package heuristics

import (
	"net/url"
	"strings"
)

// productSegments mark a path as a single purchasable item
var productSegments = map[string]bool{
	"product": true, "products": true, "p": true, "dp": true, "item": true, "itm": true,
}

// listingSegments mark category, listing and search pages
var listingSegments = map[string]bool{
	"category": true, "categories": true, "search": true, "tag": true, "tags": true,
	"brands": true, "c": true, "departments": true,
}

// excludedSegments mark account, checkout and editorial pages
var excludedSegments = map[string]bool{
	"cart": true, "checkout": true, "login": true, "signin": true, "sign-in": true,
	"account": true, "register": true, "blog": true, "blogs": true, "forum": true,
	"forums": true, "reviews": true, "help": true, "wishlist": true,
}

// excludedHosts never serve retail product pages
var excludedHosts = []string{
	"pinterest.", "youtube.", "youtu.be", "reddit.", "facebook.", "instagram.", "wikipedia.",
}

// minItemSegments is the path depth that looks like "item under category"
const minItemSegments = 2

// IsProductPage heuristically decides whether rawURL points at a single
// product rather than a listing, account or editorial page. False
// positives and negatives are expected.
func IsProductPage(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || rawURL == "#" {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, excluded := range excludedHosts {
		if strings.Contains(host, excluded) {
			return false
		}
	}

	segments := pathSegments(u.Path)
	if len(segments) == 0 {
		return false
	}

	hasProductMarker := false
	for _, seg := range segments {
		if excludedSegments[seg] || listingSegments[seg] {
			return false
		}
		if productSegments[seg] {
			hasProductMarker = true
		}
	}

	// Shopify nests products under collections; a bare collection is a listing
	if !hasProductMarker {
		for _, seg := range segments {
			if seg == "collections" || seg == "collection" {
				return false
			}
		}
	}

	return hasProductMarker || len(segments) >= minItemSegments
}

// NormalizeURL produces the dedup key of a result link: lower-case scheme and
// host, no fragment, no trailing slash.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimSpace(rawURL)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// pathSegments splits a URL path into lower-cased, non-empty segments
func pathSegments(path string) []string {
	var segments []string
	for _, seg := range strings.Split(strings.ToLower(path), "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
