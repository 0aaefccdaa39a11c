package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// RHB rows start with DD-MM-YYYY or "05 Mar" and keep the balance in the
// rightmost column, with a trailing minus for overdrawn balances. The
// opening balance sits in the header as "Beginning Balance ... 840,813.71-".
var rhbDate = regexp.MustCompile(`(?i)^(\d{2}-\d{2}-\d{4}|\d{1,2}\s+` + monthWord + `)(?:\s|$)`)

var rhbSummary = words("beginning balance", "ending balance", "total")

func rhbVariant() *Variant {
	return &Variant{
		Bank:    models.BankRHB,
		Name:    "RHB Bank",
		Aliases: []string{"rhb bank", "rhb islamic"},
		Grammar: GrammarFunc(classifyRHB),
		Policy:  deltaPolicy{},
		markers: []string{"rhb bank", "rhb islamic", "rhbgroup", "rhb"},
		opening: amountAfter(`beginning\s+balance`),
		closing: amountAfter(`ending\s+balance`),
	}
}

func classifyRHB(u Unit) Match {
	line := strings.TrimSpace(u.Text)
	if line == "" || containsTransactionHeader(line) {
		return noise()
	}
	upper := strings.ToUpper(line)

	date, rest, ok := leadingDate(rhbDate, line)
	if !ok {
		// The header figures are read by the document hooks.
		if rhbSummary.MatchString(line) || isSummaryLine(line) {
			return terminator()
		}
		return wrapped(line)
	}
	if isDatedSummary(rest) {
		return terminator()
	}
	if strings.Contains(upper, "B/F BALANCE") || strings.Contains(upper, "BALANCE B/F") {
		_, amounts := splitTrailingAmounts(rest, 1)
		if len(amounts) == 0 {
			return noise()
		}
		return opening(date, trailingMinus(amounts[0]))
	}

	desc, amounts := splitTrailingAmounts(rest, 3)
	if len(amounts) == 0 {
		return noise()
	}
	for i := range amounts {
		amounts[i] = trailingMinus(amounts[i])
	}
	return start(date, desc, amounts)
}
