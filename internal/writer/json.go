package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/summary"
)

// Report is the full JSON report for a set of interpreted statements.
type Report struct {
	Summary        summary.Totals       `json:"summary"`
	Documents      []DocumentStatus     `json:"documents"`
	MonthlySummary []summary.Month      `json:"monthly_summary"`
	Transactions   []models.Transaction `json:"transactions"`
}

// DocumentStatus reports how one statement fared.
type DocumentStatus struct {
	SourceFile string          `json:"source_file"`
	Bank       models.BankType `json:"bank"`
	Status     models.Status   `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	Count      int             `json:"count"`
	Account    models.Account  `json:"account"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// NewReport builds a report over the results in order.
func NewReport(results ...*models.Result) *Report {
	txns := summary.Transactions(results)
	if txns == nil {
		txns = []models.Transaction{}
	}
	r := &Report{
		Summary:        summary.Total(txns),
		Documents:      []DocumentStatus{},
		MonthlySummary: summary.Monthly(txns),
		Transactions:   txns,
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		r.Documents = append(r.Documents, DocumentStatus{
			SourceFile: res.SourceFile,
			Bank:       res.Bank,
			Status:     res.Status,
			Reason:     res.Reason,
			Count:      len(res.Transactions),
			Account:    res.Account,
			Warnings:   res.Warnings,
		})
	}
	return r
}

// JSONWriter writes the full report as indented JSON.
type JSONWriter struct {
	// TransactionsOnly writes the bare transaction array.
	TransactionsOnly bool
}

// WriteToFile writes the report to a JSON file at the given path.
func (w *JSONWriter) WriteToFile(path string, results ...*models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, results...)
}

// Write encodes the report to out.
func (w *JSONWriter) Write(out io.Writer, results ...*models.Result) error {
	report := NewReport(results...)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "    ")

	var v any = report
	if w.TransactionsOnly {
		v = report.Transactions
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}
