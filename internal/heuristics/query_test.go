package heuristics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEcoQuery(t *testing.T) {
	t.Run("full query shape", func(t *testing.T) {
		want := `"bamboo toothbrush" (eco-friendly OR sustainable OR organic OR recycled OR "b corp" OR "fair trade" OR certified) ` +
			`("shop" OR "buy" OR "product" OR "add to cart") ` +
			`-site:pinterest.com -site:youtube.com -site:amazon.com -site:reddit.com -site:ebay.com -site:walmart.com ` +
			`-inurl:blog -inurl:forum -inurl:reviews`

		assert.Equal(t, want, BuildEcoQuery("  Bamboo   Toothbrush "))
	})

	t.Run("quotes in the user query are dropped", func(t *testing.T) {
		got := BuildEcoQuery(`"wool" socks`)
		assert.True(t, strings.HasPrefix(got, `"wool socks" (`), got)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Equal(t, "", BuildEcoQuery(" \t "))
	})
}

func TestQueryTerms(t *testing.T) {
	assert.Equal(t, []string{"organic", "cotton", "t-shirt"}, QueryTerms("Organic cotton T-shirt, XL"))
	assert.Nil(t, QueryTerms("a an to"))
	assert.Nil(t, QueryTerms("竹 歯"), "short words count characters, not bytes")
	assert.Equal(t, []string{"щітка", "竹の歯"}, QueryTerms("Щітка 竹の歯 竹"))
}

func TestIsRelevant(t *testing.T) {
	terms := QueryTerms("bamboo toothbrush")

	assert.True(t, IsRelevant(terms, "Bamboo Toothbrush 4-pack"))
	assert.True(t, IsRelevant(terms, "Plant-based toothbrush with charcoal bristles"))
	assert.False(t, IsRelevant(terms, "Stainless steel water bottle"))
	assert.True(t, IsRelevant(nil, "anything"))
}
