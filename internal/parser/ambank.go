package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// AmBank rows start with a "01Mar" date. The amount and balance may follow
// on a wrapped line; a CR marker in the row makes the amount a credit.
var ambankDate = regexp.MustCompile(`(?i)^(\d{1,2}` + monthWord + `)(?:\s|$)`)

func ambankVariant() *Variant {
	return &Variant{
		Bank:    models.BankAmBank,
		Name:    "AmBank",
		Aliases: []string{"am bank", "ambank islamic", "ambg"},
		Grammar: GrammarFunc(classifyAmBank),
		Policy: signedPolicy{
			balance: true,
			credit:  words("CR", "CREDIT"),
		},
		markers: []string{"ambank", "ambankgroup"},
		opening: amountAfter(`opening\s+balance|baki\s+pembukaan`),
		totals:  totalsAfter(`total\s+debits`, `total\s+credits`),
	}
}

func classifyAmBank(u Unit) Match {
	line := strings.TrimSpace(u.Text)
	if line == "" || containsTransactionHeader(line) {
		return noise()
	}
	if date, rest, ok := leadingDate(ambankDate, line); ok {
		if isDatedSummary(rest) {
			return terminator()
		}
		desc, amounts := splitTrailingAmounts(rest, 2)
		return start(date, desc, amounts)
	}

	upper := strings.ToUpper(line)
	if strings.Contains(upper, "TOTAL DEBITS") || strings.Contains(upper, "TOTAL CREDITS") ||
		strings.Contains(upper, "OPENING BALANCE") || strings.Contains(upper, "CLOSING BALANCE") ||
		isSummaryLine(line) {
		return terminator()
	}
	if isPageFurniture(line) {
		return noise()
	}
	// Amounts may sit on the wrapped line.
	desc, amounts := splitTrailingAmounts(line, 2)
	return continuation(desc, amounts)
}
