package scraper

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ldNode is the subset of a schema.org node we read
type ldNode struct {
	Type        interface{} `json:"@type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       interface{} `json:"image"`
	Offers      interface{} `json:"offers"`
	Graph       []ldNode    `json:"@graph"`
}

// ldProduct is the flattened product found in a page's ld+json blocks
type ldProduct struct {
	Name        string
	Description string
	Image       string
	Price       float64
}

// findLdProduct returns the first schema.org Product (or ProductGroup) declared on the page
func findLdProduct(doc *goquery.Document) (ldProduct, bool) {
	var (
		found  ldProduct
		exists bool
	)

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, node := range parseLdNodes([]byte(s.Text())) {
			if !isProductType(node.Type) {
				continue
			}
			found = ldProduct{
				Name:        strings.TrimSpace(node.Name),
				Description: strings.TrimSpace(node.Description),
				Image:       extractImageURL(node.Image),
				Price:       extractOfferPrice(node.Offers),
			}
			exists = true
			return false
		}
		return true
	})

	return found, exists
}

// parseLdNodes accepts a single node, an array of nodes or an @graph wrapper
func parseLdNodes(data []byte) []ldNode {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil
	}

	var nodes []ldNode
	if data[0] == '[' {
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil
		}
	} else {
		var node ldNode
		if err := json.Unmarshal(data, &node); err != nil {
			return nil
		}
		nodes = []ldNode{node}
	}

	var flat []ldNode
	for _, n := range nodes {
		flat = append(flat, n)
		flat = append(flat, n.Graph...)
	}
	return flat
}

// extractImageURL handles the polymorphic image field (string, list or ImageObject)
func extractImageURL(img interface{}) string {
	switch v := img.(type) {
	case string:
		return v
	case []interface{}:
		for _, item := range v {
			if s := extractImageURL(item); s != "" {
				return s
			}
		}
	case map[string]interface{}:
		if s, ok := v["url"].(string); ok {
			return s
		}
	}
	return ""
}

// extractOfferPrice reads price or lowPrice from an Offer, AggregateOffer or list of offers
func extractOfferPrice(offers interface{}) float64 {
	switch v := offers.(type) {
	case []interface{}:
		for _, item := range v {
			if p := extractOfferPrice(item); p > 0 {
				return p
			}
		}
	case map[string]interface{}:
		for _, key := range []string{"price", "lowPrice"} {
			if p := parsePriceValue(v[key]); p > 0 {
				return p
			}
		}
	}
	return 0
}

func parsePriceValue(v interface{}) float64 {
	switch p := v.(type) {
	case float64:
		return p
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(p), "$"), ",", ""))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func isProductType(t interface{}) bool {
	if s, ok := t.(string); ok {
		return s == "Product" || s == "ProductGroup"
	}
	if arr, ok := t.([]interface{}); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok && (s == "Product" || s == "ProductGroup") {
				return true
			}
		}
	}
	return false
}
