package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Bank Islam rows start with a DD/MM/YY date and end with the transaction
// amount and the balance:
//
//	03/02/25  PROFIT PAID  12.40  10,512.40
var bankIslamDate = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})(?:\s|$)`)

var bankIslamSummary = words("summary", "total", "bal c/f")

func bankIslamVariant() *Variant {
	return &Variant{
		Bank:    models.BankIslam,
		Name:    "Bank Islam",
		Aliases: []string{"bank islam", "bimb"},
		Grammar: GrammarFunc(classifyBankIslam),
		Policy: deltaPolicy{
			first: signedPolicy{credit: words("CR", "CREDIT", "PROFIT", "DEPOSIT", "INWARD")},
		},
		markers: []string{"bank islam malaysia", "bankislam.com", "bank islam"},
	}
}

func classifyBankIslam(u Unit) Match {
	line := strings.TrimSpace(u.Text)
	if line == "" || containsTransactionHeader(line) {
		return noise()
	}
	upper := strings.ToUpper(line)

	if strings.Contains(upper, "BAL B/F") || strings.Contains(upper, "BALANCE B/F") {
		date, _, _ := leadingDate(bankIslamDate, line)
		_, amounts := splitTrailingAmounts(line, 1)
		if len(amounts) == 0 {
			return noise()
		}
		return opening(date, trailingMinus(amounts[0]))
	}

	if date, rest, ok := leadingDate(bankIslamDate, line); ok {
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
	if bankIslamSummary.MatchString(line) {
		return terminator()
	}
	if isSummaryLine(line) {
		return noise()
	}
	return wrapped(line)
}
