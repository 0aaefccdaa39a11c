package parser

import (
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// assemble builds the canonical record for a resolved token group. The
// second result is false when the group is not a transaction: both sides
// zero, or a negative magnitude leaking through a policy.
func assemble(row RawRow, res Resolution, date string, bank models.BankType, source string) (models.Transaction, bool) {
	if res.Empty() || res.Debit.IsNegative() || res.Credit.IsNegative() {
		return models.Transaction{}, false
	}
	return models.Transaction{
		Date:        date,
		Description: joinDescription(row.Description),
		Debit:       res.Debit,
		Credit:      res.Credit,
		Balance:     res.Balance,
		Page:        row.Page,
		Bank:        bank,
		SourceFile:  source,
	}, true
}

// joinDescription concatenates fragments with single spaces.
func joinDescription(parts []string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
