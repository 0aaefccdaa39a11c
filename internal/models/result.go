package models

import "github.com/shopspring/decimal"

// Status tells batch callers how a document fared.
type Status string

const (
	// StatusOK means at least one transaction was produced.
	StatusOK Status = "ok"
	// StatusEmpty means the document was read but held no transactions.
	StatusEmpty Status = "empty"
	// StatusFailed means the document could not be read or interpreted.
	StatusFailed Status = "failed"
)

// Result is the outcome of interpreting one statement.
type Result struct {
	Bank         BankType      `json:"bank"`
	SourceFile   string        `json:"source_file"`
	Status       Status        `json:"status"`
	Reason       string        `json:"reason,omitempty"`
	Year         int           `json:"year"`
	YearSource   string        `json:"year_source,omitempty"`
	Pages        int           `json:"pages"`
	Account      Account       `json:"account"`
	Transactions []Transaction `json:"transactions"`

	OpeningBalance decimal.NullDecimal `json:"opening_balance"`
	ClosingBalance decimal.NullDecimal `json:"closing_balance"`

	// Totals printed on the statement itself, when the layout has them.
	StatedDebit     decimal.NullDecimal `json:"stated_debit"`
	StatedCredit    decimal.NullDecimal `json:"stated_credit"`
	SummaryMismatch bool                `json:"summary_mismatch,omitempty"`
	Warnings        []string            `json:"warnings,omitempty"`

	Trace []TraceLine `json:"trace,omitempty"`
}

// Account is the account metadata printed in a statement header. Any
// field may be empty.
type Account struct {
	Number   string `json:"number,omitempty"`
	SortCode string `json:"sort_code,omitempty"`
	Holder   string `json:"holder,omitempty"`
	Period   string `json:"period,omitempty"`
}

// TotalDebit sums the debit column.
func (r *Result) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, t := range r.Transactions {
		total = total.Add(t.Debit)
	}
	return total
}

// TotalCredit sums the credit column.
func (r *Result) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, t := range r.Transactions {
		total = total.Add(t.Credit)
	}
	return total
}

// Failed reports whether the document could not be interpreted.
func (r *Result) Failed() bool {
	return r.Status == StatusFailed
}

// TraceLine captures what the engine did with one input line or row.
type TraceLine struct {
	Page   int    `json:"page"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Result string `json:"result"` // "start", "continuation", "noise", "terminator", "opening", "dropped"
}
