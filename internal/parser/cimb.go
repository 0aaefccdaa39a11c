package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// CIMB statements are tables:
//
//	Date | Description | Ref No | Withdrawal | Deposits | Balance
//
// Header rows repeat on every page and are recognised by their titles.
var cimbDate = regexp.MustCompile(`^(\d{2}/\d{2}(?:/\d{4})?)$`)

const cimbColumns = 6

func cimbVariant() *Variant {
	return &Variant{
		Bank:    models.BankCIMB,
		Name:    "CIMB Bank",
		Aliases: []string{"cimb bank", "cimb islamic"},
		Grid:    true,
		Grammar: GrammarFunc(classifyCIMB),
		Policy: columnPolicy{
			balance: true,
			single:  signedPolicy{credit: words("CR", "DEPOSIT", "CREDIT", "INWARD")},
		},
		markers: []string{"cimb bank", "cimb islamic", "cimbclicks", "cimb.com"},
		closing: amountAfter(`closing\s+balance\s*/?\s*(?:baki\s+penutup)?`),
	}
}

func classifyCIMB(u Unit) Match {
	cells := make([]string, len(u.Cells))
	for i, c := range u.Cells {
		cells[i] = strings.Join(strings.Fields(c), " ")
	}
	if len(cells) == 0 {
		return noise()
	}

	first := strings.ToLower(cells[0])
	if first == "date" || first == "tarikh" || containsTransactionHeader(strings.Join(cells, " ")) {
		return noise()
	}

	text := strings.Join(cells, " ")
	lower := strings.ToLower(text)
	if strings.Contains(lower, "opening balance") {
		_, amounts := splitTrailingAmounts(text, 1)
		if len(amounts) == 0 {
			return noise()
		}
		return opening(cimbDateOf(cells[0]), amounts[0])
	}
	if strings.Contains(lower, "closing balance") || strings.HasPrefix(lower, "total") {
		return terminator()
	}

	if len(cells) == cimbColumns && cimbAmountCells(cells[3:]) {
		date := cimbDateOf(cells[0])
		if date == "" {
			if cells[0] == "" && cells[1] != "" {
				return continuation(cells[1], nil)
			}
			return noise()
		}
		desc := strings.TrimSpace(cells[1] + " " + cells[2])
		return start(date, desc, []string{cells[3], cells[4], cells[5]})
	}

	// Rows rebuilt from text lose their blank columns; read the amounts
	// off the right end instead.
	if date := cimbDateOf(cells[0]); date != "" {
		desc, amounts := splitTrailingAmounts(strings.Join(cells[1:], " "), 3)
		if len(amounts) == 0 {
			return noise()
		}
		return start(date, desc, amounts)
	}
	if len(cells) <= 2 && !isAmountToken(cells[len(cells)-1]) && !isSummaryLine(text) && !isPageFurniture(text) {
		return continuation(text, nil)
	}
	return noise()
}

// cimbAmountCells reports whether the withdrawal, deposit and balance
// cells hold amounts or nothing.
func cimbAmountCells(cells []string) bool {
	for _, c := range cells {
		if c != "" && !isAmountToken(c) {
			return false
		}
	}
	return true
}

func cimbDateOf(cell string) string {
	if m := cimbDate.FindStringSubmatch(strings.TrimSpace(cell)); m != nil {
		return m[1]
	}
	return ""
}
