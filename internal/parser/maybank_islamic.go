package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Maybank Islamic rows open with a full "01 Feb 2025" date and end with
// the transaction amount and the running balance. Amounts carry no sign.
var maybankIslamicDate = regexp.MustCompile(`(?i)^(\d{1,2}\s+` + monthWord + `\s+20\d{2})(?:\s|$)`)

func maybankIslamicVariant() *Variant {
	return &Variant{
		Bank:    models.BankMaybankIslamic,
		Name:    "Maybank Islamic",
		Aliases: []string{"maybank islamic", "mib"},
		Grammar: GrammarFunc(classifyMaybankIslamic),
		// The first row has no previous balance, so its printed amount is
		// read through the description.
		Policy: deltaPolicy{
			first: signedPolicy{credit: words("CR", "CREDIT")},
		},
		markers: []string{"maybank islamic"},
		opening: amountAfter(`beginning\s+balance`),
		closing: amountAfter(`ending\s+balance`),
	}
}

func classifyMaybankIslamic(u Unit) Match {
	line := strings.TrimSpace(u.Text)
	if line == "" || containsTransactionHeader(line) {
		return noise()
	}
	date, rest, ok := leadingDate(maybankIslamicDate, line)
	if !ok {
		if containsAny(line, maybankNoise) || isSummaryLine(line) {
			return terminator()
		}
		return wrapped(line)
	}
	if isDatedSummary(rest) {
		return terminator()
	}
	desc, amounts := splitTrailingAmounts(rest, 2)
	if len(amounts) == 0 {
		return noise()
	}
	return start(date, desc, amounts)
}
