package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "repeated price wins",
			text: "$12.99 and $12.99 again",
			want: 12.99,
		},
		{
			name: "no price",
			text: "no price here",
			want: 0,
		},
		{
			name: "empty text",
			text: "",
			want: 0,
		},
		{
			name: "modal group returns its first value",
			text: "Was $20, now $15.50. Members pay $15.99",
			want: 15.5,
		},
		{
			name: "tie goes to first group encountered",
			text: "from $10 up to $20",
			want: 10,
		},
		{
			name: "thousands separator",
			text: "Sofa, $1,299.00 with free delivery",
			want: 1299,
		},
		{
			name: "usd prefix",
			text: "Only USD 45 today",
			want: 45,
		},
		{
			name: "usd suffix",
			text: "Costs 18.5 USD",
			want: 18.5,
		},
		{
			name: "price label",
			text: "Price: 24.00",
			want: 24,
		},
		{
			name: "json-ld price",
			text: `{"@type":"Offer","price":"32.95","priceCurrency":"USD"}`,
			want: 32.95,
		},
		{
			name: "labelled dollar price counts once",
			text: "Price: $30. Refill pack $12, bundle of two $12.",
			want: 12,
		},
		{
			name: "dollar sign with usd suffix counts once",
			text: "$12.99 USD, or two for $9 and $9",
			want: 9,
		},
		{
			name: "usd prefix with dollar sign counts once",
			text: "USD $12 today, $8 with code, $8 in store",
			want: 8,
		},
		{
			name: "tie goes to first mention in text",
			text: "Costs 18 USD or $25",
			want: 18,
		},
		{
			name: "zero price ignored",
			text: "$0 shipping",
			want: 0,
		},
		{
			name: "out of range price ignored",
			text: "Valued at $250000",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPrice(tt.text))
		})
	}
}

func TestRoundPrice(t *testing.T) {
	assert.Equal(t, 12.99, RoundPrice(12.9876))
	assert.Equal(t, 3.0, RoundPrice(2.999))
	assert.Equal(t, 0.1, RoundPrice(0.1))
}
