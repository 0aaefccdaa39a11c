package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Agrobank rows carry a DD/MM/YY date and print negatives with a trailing
// minus. Only the balance column is reliable, so sides come from the
// balance change. The statement ends with printed debit and credit totals.
var agrobankDate = regexp.MustCompile(`^(\d{1,2}/\d{2}/\d{2})(?:\s|$)`)

func agrobankVariant() *Variant {
	return &Variant{
		Bank:    models.BankAgrobank,
		Name:    "Agrobank",
		Aliases: []string{"agro bank", "agro", "bank pertanian"},
		Grammar: GrammarFunc(classifyAgrobank),
		Policy:  deltaPolicy{},
		markers: []string{"agrobank", "agro bank", "bank pertanian malaysia"},
		closing: amountAfter(`closing\s+balance`),
		totals:  totalsAfter(`total\s+debit`, `total\s+credit`),
	}
}

func classifyAgrobank(u Unit) Match {
	line := strings.TrimSpace(u.Text)
	if line == "" || containsTransactionHeader(line) {
		return noise()
	}
	upper := strings.ToUpper(line)

	date, rest, ok := leadingDate(agrobankDate, line)
	if !ok {
		if strings.Contains(upper, "TOTAL DEBIT") || strings.Contains(upper, "TOTAL CREDIT") {
			return terminator()
		}
		if isSummaryLine(line) {
			return noise()
		}
		return wrapped(line)
	}

	desc, amounts := splitTrailingAmounts(rest, 3)
	if len(amounts) == 0 {
		return noise()
	}
	for i := range amounts {
		amounts[i] = trailingMinus(amounts[i])
	}
	switch {
	case strings.Contains(upper, "BEGINNING BALANCE") || strings.Contains(upper, "OPENING BALANCE"):
		return opening(date, amounts[len(amounts)-1])
	case isDatedSummary(rest):
		return terminator()
	}
	return start(date, desc, amounts)
}
