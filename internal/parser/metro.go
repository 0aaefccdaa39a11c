package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Metro Bank statements typically have this layout:
//
//	Date | Transaction type | Description | Paid out | Paid in | Balance
//
// Date format: DD/MM/YYYY
// Example line: "15/01/2024 CARD PAYMENT TESCO STORES 25.99 1,234.56"
//
// Blank columns vanish in extracted text, so a row with one amount and a
// balance is placed by balance arithmetic, then by its description.
var metroDate = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})(?:\s|$)`)

func metroVariant() *Variant {
	return &Variant{
		Bank:    models.BankMetro,
		Name:    "Metro Bank",
		Aliases: []string{"metro bank", "metrobank"},
		Grammar: GrammarFunc(classifyMetro),
		Policy: columnPolicy{
			balance: true,
			single:  signedPolicy{credit: ukCreditWords, debit: ukDebitWords},
		},
		markers: []string{"metro bank", "metrobankonline"},
	}
}

func classifyMetro(u Unit) Match {
	line := strings.TrimSpace(u.Text)
	if line == "" || containsTransactionHeader(line) {
		return noise()
	}

	if bal, ok := openingBalanceLine(line); ok {
		return opening("", bal)
	}

	if date, rest, ok := leadingDate(metroDate, line); ok {
		if isDatedSummary(rest) {
			return terminator()
		}
		desc, amounts := splitTrailingAmounts(rest, 3)
		return start(date, desc, amounts)
	}

	if isSummaryLine(line) {
		return terminator()
	}
	return wrapped(line)
}

// openingBalanceLine returns the balance printed on an opening or
// brought-forward line.
func openingBalanceLine(line string) (string, bool) {
	if !containsAny(line, []string{"opening balance", "balance brought forward", "brought forward", "start balance"}) {
		return "", false
	}
	_, amounts := splitTrailingAmounts(strings.ReplaceAll(line, "→", " "), 1)
	if len(amounts) == 0 {
		return "", false
	}
	return amounts[0], true
}
