package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"25.99", "25.99", true},
		{"1,234.56", "1234.56", true},
		{"£25.99", "25.99", true},
		{"RM 1,200.00", "1200", true},
		{"MYR12.5", "12.5", true},
		{"-25.99", "-25.99", true},
		{"(45.20)", "-45.2", true},
		{"£1,234,567.89", "1234567.89", true},
		{"0.00", "0", true},
		{" 25.99 ", "25.99", true},
		{" 1,000.00 ", "1000", true},
		{"1000", "1000", true},
		{"", "", false},
		{"   ", "", false},
		{"abc", "", false},
		{"12.345", "", false},
		{"1.2.3", "", false},
		{"--5", "", false},
		{"45.00CR", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := NormalizeAmount(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, dec(tt.want).Equal(got), "got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNormalizeAmount_Idempotent(t *testing.T) {
	tokens := []string{
		"25.99", "1,234.56", "(45.20)", "RM 1,200.00", "-0.50", "0.00",
		"£9,999,999.99", "7", "100.1", "MYR 3,000.00",
	}
	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			first, ok := NormalizeAmount(tok)
			require.True(t, ok)
			second, ok := NormalizeAmount(first.String())
			require.True(t, ok, "re-normalizing %q", first.String())
			assert.True(t, first.Equal(second), "%s != %s", first, second)
		})
	}
}

func TestSplitMarker(t *testing.T) {
	tests := []struct {
		input  string
		token  string
		marker string
	}{
		{"1,200.00+", "1,200.00", markerPlus},
		{"45.00-", "45.00", markerMinus},
		{"45.00 DR", "45.00", markerDebit},
		{"45.00cr", "45.00", markerCredit},
		{"45.00", "45.00", markerNone},
		{"-", "-", markerNone},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			token, marker := splitMarker(tt.input)
			assert.Equal(t, tt.token, token)
			assert.Equal(t, tt.marker, marker)
		})
	}
}

func TestTrailingMinus(t *testing.T) {
	assert.Equal(t, "-1,234.00", trailingMinus("1,234.00-"))
	assert.Equal(t, "1,234.00", trailingMinus("1,234.00"))

	got, ok := NormalizeAmount(trailingMinus("840,813.71-"))
	require.True(t, ok)
	assert.Equal(t, "-840813.71", got.String())
}

func TestIsAmountToken(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"25.99", true},
		{"1,234.56", true},
		{"£1,234.56", true},
		{"(45.20)", true},
		{".00", true},
		{"1,200.00+", true},
		{"1,200.00-", true},
		{"2024", false},
		{"12/03/2024", false},
		{"REF123", false},
		{"1.5", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isAmountToken(tt.input))
		})
	}
}
