// Package summary aggregates interpreted transactions by calendar month.
package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Month holds the totals of one YYYY-MM period.
type Month struct {
	Month            string              `json:"month"`
	TransactionCount int                 `json:"transaction_count"`
	TotalDebit       decimal.Decimal     `json:"total_debit"`
	TotalCredit      decimal.Decimal     `json:"total_credit"`
	NetChange        decimal.Decimal     `json:"net_change"`
	EndingBalance    decimal.NullDecimal `json:"ending_balance"`
	LowestBalance    decimal.NullDecimal `json:"lowest_balance"`
	HighestBalance   decimal.NullDecimal `json:"highest_balance"`
	SourceFiles      []string            `json:"source_files"`
}

// Totals spans every transaction across all months.
type Totals struct {
	TransactionCount int             `json:"total_transactions"`
	TotalDebit       decimal.Decimal `json:"total_debit"`
	TotalCredit      decimal.Decimal `json:"total_credit"`
	NetChange        decimal.Decimal `json:"net_change"`
	FirstDate        string          `json:"first_date,omitempty"`
	LastDate         string          `json:"last_date,omitempty"`
	FilesProcessed   int             `json:"total_files_processed"`
}

// Monthly groups transactions by month, sorted by month. Transactions whose
// date is not YYYY-MM-DD are skipped. The ending balance is the last
// non-null balance in date order; ties keep input order.
func Monthly(txns []models.Transaction) []Month {
	type bucket struct {
		month   Month
		txns    []models.Transaction
		sources map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, t := range txns {
		key, ok := monthOf(t.Date)
		if !ok {
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				month:   Month{Month: key, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero},
				sources: make(map[string]struct{}),
			}
			buckets[key] = b
		}
		b.txns = append(b.txns, t)
		if t.SourceFile != "" {
			b.sources[t.SourceFile] = struct{}{}
		}
	}

	months := make([]Month, 0, len(buckets))
	for _, b := range buckets {
		m := b.month
		sort.SliceStable(b.txns, func(i, j int) bool { return b.txns[i].Date < b.txns[j].Date })
		for _, t := range b.txns {
			m.TransactionCount++
			m.TotalDebit = m.TotalDebit.Add(t.Debit)
			m.TotalCredit = m.TotalCredit.Add(t.Credit)
			if !t.Balance.Valid {
				continue
			}
			m.EndingBalance = t.Balance
			if !m.LowestBalance.Valid || t.Balance.Decimal.LessThan(m.LowestBalance.Decimal) {
				m.LowestBalance = t.Balance
			}
			if !m.HighestBalance.Valid || t.Balance.Decimal.GreaterThan(m.HighestBalance.Decimal) {
				m.HighestBalance = t.Balance
			}
		}
		m.NetChange = m.TotalCredit.Sub(m.TotalDebit)
		m.SourceFiles = make([]string, 0, len(b.sources))
		for s := range b.sources {
			m.SourceFiles = append(m.SourceFiles, s)
		}
		sort.Strings(m.SourceFiles)
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

// Total sums every transaction. Files are counted by distinct source file.
func Total(txns []models.Transaction) Totals {
	t := Totals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	files := make(map[string]struct{})
	for _, txn := range txns {
		t.TransactionCount++
		t.TotalDebit = t.TotalDebit.Add(txn.Debit)
		t.TotalCredit = t.TotalCredit.Add(txn.Credit)
		if txn.SourceFile != "" {
			files[txn.SourceFile] = struct{}{}
		}
		if txn.Date == "" {
			continue
		}
		if t.FirstDate == "" || txn.Date < t.FirstDate {
			t.FirstDate = txn.Date
		}
		if txn.Date > t.LastDate {
			t.LastDate = txn.Date
		}
	}
	t.NetChange = t.TotalCredit.Sub(t.TotalDebit)
	t.FilesProcessed = len(files)
	return t
}

// Transactions flattens the transactions of several results in order.
func Transactions(results []*models.Result) []models.Transaction {
	var out []models.Transaction
	for _, r := range results {
		if r != nil {
			out = append(out, r.Transactions...)
		}
	}
	return out
}

func monthOf(date string) (string, bool) {
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return "", false
	}
	for i, c := range date {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return date[:7], true
}
