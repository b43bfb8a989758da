package heuristics

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Valid price range, both bounds exclusive
const (
	minPrice = 0.0
	maxPrice = 100000.0
)

const amount = `(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`

// pricePatterns may overlap; a price mention matched by several of them counts once
var pricePatterns = []*regexp.Regexp{
	// $12.99, $ 1,299.00
	regexp.MustCompile(`\$\s?` + amount),
	// USD 12, USD $12.50
	regexp.MustCompile(`(?i)\bUSD\s?\$?` + amount),
	// 12.99 USD
	regexp.MustCompile(`(?i)` + amount + `\s?USD\b`),
	// price: 12, Price = $9.99
	regexp.MustCompile(`(?i)\bprice\s*[:=]\s*\$?` + amount),
	// "price": "12.99" as found in JSON-LD and data layers
	regexp.MustCompile(`(?i)"price"\s*:\s*"?(\d+(?:\.\d+)?)"?`),
}

// ExtractPrice returns the most frequent price mentioned in text, rounded to
// 2 decimal places. Candidates are grouped by their nearest integer; the group
// that appears first in the text wins ties and its first value is returned.
// Returns 0 when no price is found.
func ExtractPrice(text string) float64 {
	if text == "" {
		return 0
	}

	candidates := priceCandidates(text)
	if len(candidates) == 0 {
		return 0
	}

	var order []int64
	counts := make(map[int64]int)
	firstValue := make(map[int64]float64)

	for _, c := range candidates {
		bucket := int64(math.Round(c.value))
		if _, seen := counts[bucket]; !seen {
			order = append(order, bucket)
			firstValue[bucket] = c.value
		}
		counts[bucket]++
	}

	best := order[0]
	for _, bucket := range order[1:] {
		if counts[bucket] > counts[best] {
			best = bucket
		}
	}

	return RoundPrice(firstValue[best])
}

type priceCandidate struct {
	start int
	value float64
}

// priceCandidates returns one candidate per amount found in text, in text order
func priceCandidates(text string) []priceCandidate {
	seen := make(map[int]bool)
	var candidates []priceCandidate

	for _, pattern := range pricePatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			if len(m) < 4 || m[2] < 0 {
				continue
			}
			start := m[2]
			if seen[start] {
				continue
			}

			v, err := strconv.ParseFloat(strings.ReplaceAll(text[start:m[3]], ",", ""), 64)
			if err != nil || v <= minPrice || v >= maxPrice {
				continue
			}
			seen[start] = true
			candidates = append(candidates, priceCandidate{start: start, value: v})
		}
	}

	slices.SortFunc(candidates, func(a, b priceCandidate) int {
		return a.start - b.start
	})
	return candidates
}

// RoundPrice rounds a price to cents
func RoundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
