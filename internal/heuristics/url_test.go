package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsProductPage(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"products path", "https://shop.example.com/products/widget-123", true},
		{"category path", "https://shop.example.com/category/widgets", false},
		{"site root", "https://shop.example.com/", false},
		{"empty", "", false},
		{"hash placeholder", "#", false},
		{"relative path", "/products/widget", false},
		{"non http scheme", "ftp://shop.example.com/products/widget", false},
		{"amazon style dp", "https://www.example.com/Bamboo-Toothbrush/dp/B07XYZ", true},
		{"single product marker", "https://store.example.com/p/123456", true},
		{"two segment item", "https://brand.example.com/bags/tote-canvas", true},
		{"single segment", "https://brand.example.com/about", false},
		{"collection listing", "https://brand.example.com/collections/summer", false},
		{"product inside collection", "https://brand.example.com/collections/summer/products/linen-shirt", true},
		{"cart", "https://shop.example.com/cart/items", false},
		{"blog post", "https://shop.example.com/blog/why-bamboo", false},
		{"search results", "https://shop.example.com/search/results?q=soap", false},
		{"social host", "https://www.pinterest.com/pin/12345/board", false},
		{"video host", "https://www.youtube.com/watch/abc/def", false},
		{"marker is case insensitive", "https://shop.example.com/Products/Widget", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsProductPage(tt.url))
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lower-cases host", "https://Shop.Example.COM/products/a", "https://shop.example.com/products/a"},
		{"drops trailing slash", "https://shop.example.com/products/a/", "https://shop.example.com/products/a"},
		{"drops fragment", "https://shop.example.com/products/a#reviews", "https://shop.example.com/products/a"},
		{"keeps query", "https://shop.example.com/p?id=7", "https://shop.example.com/p?id=7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}
