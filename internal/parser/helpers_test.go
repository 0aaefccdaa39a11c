package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// fixedNow keeps clock-derived years stable across test runs.
var fixedNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

// textDoc builds a document with one page per argument; lines are split on
// newlines.
func textDoc(pages ...string) *models.Document {
	doc := &models.Document{}
	for i, p := range pages {
		doc.Pages = append(doc.Pages, models.Page{Number: i + 1, Lines: strings.Split(p, "\n")})
	}
	return doc
}

func parseText(t *testing.T, bank string, pages ...string) *models.Result {
	t.Helper()
	res, err := Parse(bank, textDoc(pages...), "fixture.pdf", Options{Now: fixedNow})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixed formats an amount for comparison; null balances read as "null".
func fixed(d decimal.NullDecimal) string {
	if !d.Valid {
		return "null"
	}
	return d.Decimal.StringFixed(2)
}

type wantTxn struct {
	date    string
	desc    string
	debit   string
	credit  string
	balance string
}

func requireTxns(t *testing.T, got []models.Transaction, want []wantTxn) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		g := got[i]
		require.Equalf(t, w.date, g.Date, "txn[%d].Date", i)
		if w.desc != "" {
			require.Equalf(t, w.desc, g.Description, "txn[%d].Description", i)
		}
		require.Equalf(t, w.debit, g.Debit.StringFixed(2), "txn[%d].Debit", i)
		require.Equalf(t, w.credit, g.Credit.StringFixed(2), "txn[%d].Credit", i)
		if w.balance != "" {
			require.Equalf(t, w.balance, fixed(g.Balance), "txn[%d].Balance", i)
		}
	}
}

// requireInvariants checks the properties every emitted record must hold.
func requireInvariants(t *testing.T, res *models.Result) {
	t.Helper()
	for i, txn := range res.Transactions {
		require.Falsef(t, txn.Debit.IsNegative(), "txn[%d] negative debit", i)
		require.Falsef(t, txn.Credit.IsNegative(), "txn[%d] negative credit", i)
		require.Falsef(t, txn.Debit.IsZero() && txn.Credit.IsZero(), "txn[%d] has neither debit nor credit", i)
		_, err := time.Parse("2006-01-02", txn.Date)
		require.NoErrorf(t, err, "txn[%d] date %q", i, txn.Date)
		require.Equal(t, res.Bank, txn.Bank)
		require.GreaterOrEqual(t, txn.Page, 1)
	}
}
