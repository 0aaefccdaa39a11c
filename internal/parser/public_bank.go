package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Public Bank rows start with a DD/MM date or, for later rows on the same
// day, with a transaction-type keyword. The amount and balance often sit
// on the last line of a wrapped description:
//
//	05/06 DUITNOW TRSF DR
//	      ACME SDN BHD         1,200.00   45,000.00
var (
	publicBankDate    = regexp.MustCompile(`^(\d{2}/\d{2})(?:\s|$)`)
	publicBankBalance = regexp.MustCompile(`(?i)^(?:(\d{2}/\d{2})\s+)?balance\s+(?:b/f|from\s+last\s+statement)`)
)

var publicBankKeywords = []string{
	"TSFR", "DUITNOW", "GIRO", "JOMPAY", "RMT", "DR-ECP",
	"HANDLING", "FEE", "DEP", "RTN", "PROFIT", "AUTOMATED",
	"CHARGES", "DEBIT", "CREDIT", "TRANSFER", "PAYMENT",
}

var publicBankIgnore = []string{
	"CLEAR WATER", "/ROC", "PVCWS", "IMEPS",
	"PUBLIC BANK", "PUBLIC ISLAMIC", "PAGE", "TEL:", "MUKA SURAT", "TARIKH",
	"DATE", "NO.", "URUS NIAGA", "STATEMENT", "ACCOUNT",
}

func publicBankVariant() *Variant {
	return &Variant{
		Bank:    models.BankPublicBank,
		Name:    "Public Bank",
		Aliases: []string{"pbb", "public bank", "public islamic bank", "pbe"},
		Grammar: GrammarFunc(classifyPublicBank),
		Policy: deltaPolicy{
			first: signedPolicy{credit: words("CR", "DEP", "DEPOSIT", "CREDIT")},
		},
		markers: []string{"public bank", "public islamic bank", "pbebank"},
		closing: amountAfter(`closing\s+balance|balance\s+c/f`),
	}
}

func classifyPublicBank(u Unit) Match {
	line := strings.TrimSpace(u.Text)
	if line == "" {
		return noise()
	}
	upper := strings.ToUpper(line)

	if publicBankBalance.MatchString(line) {
		date, _, _ := leadingDate(publicBankDate, line)
		_, amounts := splitTrailingAmounts(line, 1)
		if len(amounts) == 0 {
			return noise()
		}
		return opening(date, amounts[0])
	}
	for _, prefix := range publicBankIgnore {
		if strings.HasPrefix(upper, prefix) {
			return noise()
		}
	}
	if strings.HasPrefix(upper, "CLOSING BALANCE") || strings.HasPrefix(upper, "BALANCE C/F") || strings.HasPrefix(upper, "TOTAL") {
		return terminator()
	}

	desc, amounts := splitTrailingAmounts(line, 2)
	if len(amounts) == 1 {
		// A lone amount is a reference or a fragment, not amount + balance.
		desc, amounts = line, nil
	}

	if date, rest, ok := leadingDate(publicBankDate, line); ok {
		desc, amounts = splitTrailingAmounts(rest, 2)
		if len(amounts) < 2 {
			desc, amounts = rest, nil
		}
		return start(date, desc, amounts)
	}
	if publicBankStartsWithKeyword(upper) {
		return start("", desc, amounts)
	}
	if isPageFurniture(line) {
		return noise()
	}
	return continuation(desc, amounts)
}

func publicBankStartsWithKeyword(upper string) bool {
	for _, k := range publicBankKeywords {
		if strings.HasPrefix(upper, k) {
			return true
		}
	}
	return false
}
