package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// HSBC statements typically have this layout:
//
//	Date | Payment type and details | Paid out | Paid in | Balance
//
// Date format: DD Mon YY (e.g., 15 Jan 24), DD-Mon-YY or DD/MM/YYYY. The
// date is printed once per day; later rows that day open with the payment
// type code instead. Browser-side extraction separates cells with tabs.
var hsbcDate = regexp.MustCompile(`(?i)^(?:\S\s+)?(\d{1,2}[\s\-]` + monthWord + `[\s\-]\d{2,4}|\d{1,2}/\d{1,2}/\d{2,4})(?:\s|$)`)

// hsbcTypeCodes open a transaction row that carries no date.
var hsbcTypeCodes = map[string]bool{
	"VIS": true, "DD": true, "CR": true, "BP": true, "SO": true, "ATM": true,
	"TFR": true, "DR": true, "CHQ": true, "OBP": true, "PIM": true, ")))": true,
}

// hsbcDebitWords adds the payment type codes; ")))" marks contactless.
var hsbcDebitWords = regexp.MustCompile(words(
	"card payment", "direct debit", "debit", "payment", "withdrawal",
	"transfer out", "standing order", "dd", "pos", "atm", "vis", "so", "bp",
	"purchase", "fee", "charge",
).String() + `|\)\)\)`)

func hsbcVariant() *Variant {
	return &Variant{
		Bank:    models.BankHSBC,
		Name:    "HSBC",
		Aliases: []string{"hsbc uk", "hsbc bank"},
		Grammar: GrammarFunc(classifyHSBC),
		Policy: columnPolicy{
			balance: true,
			single:  signedPolicy{credit: ukCreditWords, debit: hsbcDebitWords, fallbackCredit: true},
		},
		markers: []string{"hsbc", "hsbc.co.uk", "hsbc uk bank"},
	}
}

// normalizeLine cleans up common PDF extraction artifacts.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u200B", "")
	line = strings.ReplaceAll(line, "\u00A0", " ")
	return strings.TrimSpace(line)
}

func classifyHSBC(u Unit) Match {
	line := normalizeLine(u.Text)
	if line == "" || containsTransactionHeader(line) {
		return noise()
	}

	flat := strings.ReplaceAll(line, "\t", " ")
	if bal, ok := openingBalanceLine(flat); ok {
		return opening("", bal)
	}

	date, rest, dated := leadingDate(hsbcDate, flat)
	if dated && isDatedSummary(rest) {
		return terminator()
	}
	if strings.Contains(line, "\t") {
		if m, ok := hsbcTabRow(line); ok {
			return m
		}
	}
	if dated {
		desc, amounts := splitTrailingAmounts(rest, 3)
		return start(date, desc, amounts)
	}

	desc, amounts := splitTrailingAmounts(flat, 3)
	if fields := strings.Fields(flat); len(fields) > 1 && hsbcTypeCodes[strings.ToUpper(fields[0])] {
		return start("", desc, amounts)
	}
	if isSummaryLine(flat) {
		return terminator()
	}
	if isPageFurniture(flat) {
		return noise()
	}
	// Amounts printed under a wrapped description belong to it.
	return continuation(desc, amounts)
}

// hsbcTabRow reads a tab-separated row: the date from the first cell,
// amounts scanned from the right, everything between is the description.
func hsbcTabRow(line string) (Match, bool) {
	parts := strings.Split(line, "\t")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	date, rest, ok := leadingDate(hsbcDate, parts[0])
	if !ok {
		return Match{}, false
	}

	var amounts []string
	right := len(parts)
	for i := len(parts) - 1; i >= 1; i-- {
		if parts[i] == "" {
			continue
		}
		if !isAmountToken(parts[i]) {
			break
		}
		amounts = append([]string{parts[i]}, amounts...)
		right = i
	}

	desc := []string{rest}
	for _, cell := range parts[1:right] {
		// PDF artifacts: lone dots and dashes.
		if cell == "" || cell == "." || cell == "-" || cell == "–" {
			continue
		}
		desc = append(desc, cell)
	}
	return start(date, strings.Join(desc, " "), amounts), true
}
