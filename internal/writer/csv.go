package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Columns is the CSV column order of the canonical record.
var Columns = []string{"Date", "Description", "Debit", "Credit", "Balance", "Page", "Bank", "Source File"}

// CSVWriter writes transactions to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the results to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, results ...*models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, results...)
}

// Write writes the transactions of every result in CSV format. Metadata
// comment rows are only written for a single result; a merged batch has no
// single account to describe.
func (w *CSVWriter) Write(out io.Writer, results ...*models.Result) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader && len(results) == 1 && results[0] != nil {
		for _, row := range metadataRows(results[0]) {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
	}

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		for _, txn := range res.Transactions {
			if err := writer.Write(Row(txn)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// Row renders one transaction in Columns order. A zero debit or credit is
// written as 0.00; an unknown balance is left empty.
func Row(txn models.Transaction) []string {
	return []string{
		txn.Date,
		txn.Description,
		txn.Debit.StringFixed(2),
		txn.Credit.StringFixed(2),
		formatBalance(txn.Balance),
		strconv.Itoa(txn.Page),
		string(txn.Bank),
		txn.SourceFile,
	}
}

func metadataRows(res *models.Result) [][]string {
	var rows [][]string
	add := func(label, value string) {
		if value != "" {
			rows = append(rows, []string{"# " + label, value})
		}
	}
	add("Bank", string(res.Bank))
	add("Source File", res.SourceFile)
	add("Account Holder", res.Account.Holder)
	add("Account Number", res.Account.Number)
	add("Sort Code", res.Account.SortCode)
	add("Statement Period", res.Account.Period)
	add("Opening Balance", formatBalance(res.OpeningBalance))
	add("Closing Balance", formatBalance(res.ClosingBalance))
	return rows
}

func formatBalance(b decimal.NullDecimal) string {
	if !b.Valid {
		return ""
	}
	return b.Decimal.StringFixed(2)
}
