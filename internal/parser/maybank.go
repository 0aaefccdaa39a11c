package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Maybank conventional statements print one row per transaction:
//
//	01/03  TRANSFER FR A/C  1,200.00+  5,200.00
//
// The transaction amount carries a trailing + or -, and the last column is
// the running balance. Dates are DD/MM, DD/MM/YYYY, DD-MM or DD MON.
var maybankDate = regexp.MustCompile(`(?i)^(\d{2}/\d{2}/\d{4}|\d{2}/\d{2}|\d{2}-\d{2}|\d{2}\s+` + monthWord + `)(?:\s|$)`)

var maybankNoise = []string{
	"beginning balance", "ending balance", "total debit", "total credit",
	"ledger balance", "closing balance", "baki lejar", "baki akhir",
}

func maybankVariant() *Variant {
	return &Variant{
		Bank:    models.BankMaybank,
		Name:    "Maybank",
		Aliases: []string{"mbb", "malayan banking"},
		Grammar: GrammarFunc(classifyMaybank),
		Policy: deltaPolicy{
			first: signedPolicy{strict: true},
			flat:  signedPolicy{strict: true},
		},
		markers: []string{"maybank", "malayan banking"},
		opening: amountAfter(`beginning\s+balance`),
		closing: amountAfter(`ending\s+balance`),
	}
}

func classifyMaybank(u Unit) Match {
	line := strings.TrimSpace(u.Text)
	if line == "" || containsTransactionHeader(line) {
		return noise()
	}
	if date, rest, ok := leadingDate(maybankDate, line); ok {
		if isDatedSummary(rest) {
			return terminator()
		}
		desc, amounts := splitTrailingAmounts(rest, 2)
		if len(amounts) == 0 {
			return noise()
		}
		amounts[len(amounts)-1] = trailingMinus(amounts[len(amounts)-1])
		return start(date, desc, amounts)
	}

	if containsAny(line, maybankNoise) || isSummaryLine(line) {
		return terminator()
	}
	// Wrapped description lines carry no amounts of their own.
	return wrapped(line)
}
