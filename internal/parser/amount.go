package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// validAmount is the shape a token must have once separators, currency
// noise and parentheses are gone.
var validAmount = regexp.MustCompile(`^-?\d+(\.\d{1,2})?$`)

// currencyNoise is stripped before validation. Longer codes come first so
// "MYR" is not left as "MY".
var currencyNoise = []string{"MYR", "RM", "GBP", "£", "$", "€"}

// NormalizeAmount converts a raw monetary token like "1,234.56", "(45.20)"
// or "RM 12.00" into a signed decimal. The second result is false when the
// token is not an amount at all; blank columns and malformed tokens are
// routine and are never errors.
func NormalizeAmount(token string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(token, "\u00A0", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	upper := strings.ToUpper(s)
	for _, c := range currencyNoise {
		upper = strings.ReplaceAll(upper, c, "")
	}
	s = strings.ReplaceAll(upper, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	if !validAmount.MatchString(s) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// normalizeOrZero is NormalizeAmount for debit/credit columns, where an
// absent amount means zero.
func normalizeOrZero(token string) decimal.Decimal {
	d, ok := NormalizeAmount(token)
	if !ok {
		return decimal.Zero
	}
	return d
}

// normalizeNull is NormalizeAmount for balance columns, where an absent
// amount means no balance.
func normalizeNull(token string) decimal.NullDecimal {
	d, ok := NormalizeAmount(token)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

// Marker values attached to a token by the statement layout.
const (
	markerNone   = ""
	markerPlus   = "+"
	markerMinus  = "-"
	markerCredit = "CR"
	markerDebit  = "DR"
)

// splitMarker separates a trailing sign or CR/DR marker from a token:
// "1,200.00+" -> ("1,200.00", "+"), "45.00 DR" -> ("45.00", "DR").
func splitMarker(token string) (string, string) {
	t := strings.TrimSpace(token)
	upper := strings.ToUpper(t)
	switch {
	case strings.HasSuffix(upper, markerCredit):
		return strings.TrimSpace(t[:len(t)-2]), markerCredit
	case strings.HasSuffix(upper, markerDebit):
		return strings.TrimSpace(t[:len(t)-2]), markerDebit
	case strings.HasSuffix(t, markerPlus):
		return strings.TrimSpace(t[:len(t)-1]), markerPlus
	case strings.HasSuffix(t, markerMinus) && len(t) > 1:
		return strings.TrimSpace(t[:len(t)-1]), markerMinus
	}
	return t, markerNone
}

// trailingMinus rewrites the "1,234.00-" convention as "-1,234.00".
func trailingMinus(token string) string {
	t, m := splitMarker(token)
	if m == markerMinus {
		return "-" + t
	}
	return t
}

// amountToken matches one printed monetary token inside a line: digits with
// optional thousands separators and exactly two decimals, optionally in
// parentheses, with an optional trailing sign.
var amountToken = regexp.MustCompile(`^\(?(?:RM|£|\$|€)?-?(?:\d{1,3}(?:,\d{3})+|\d+)?\.\d{2}\)?[+-]?$`)

// isAmountToken reports whether a whitespace-free field looks like a
// printed amount.
func isAmountToken(field string) bool {
	return amountToken.MatchString(strings.TrimSpace(field))
}
