package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Options tune a single Parse call.
type Options struct {
	// Now is the clock used when no year can be found in the document.
	// Zero means time.Now.
	Now time.Time
	// Trace records the classification of every input unit in the result.
	Trace bool
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// statement holds the state of one Parse call. Nothing in it outlives the
// call.
type statement struct {
	v        *Variant
	hint     YearHint
	source   string
	result   *models.Result
	previous decimal.NullDecimal
	lastDate string
}

// Parse interprets one decoded document. It never returns nil: a panic
// inside a grammar becomes a failed result.
func (v *Variant) Parse(doc *models.Document, source string, opts Options) (res *models.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failedResult(v.Bank, source, fmt.Sprintf("interpret: %v", r))
		}
	}()

	if doc == nil {
		return failedResult(v.Bank, source, "no document")
	}

	text := doc.FullText()
	hint := InferYear(text, source, v.years, opts.now())

	st := &statement{
		v:      v,
		hint:   hint,
		source: source,
		result: &models.Result{
			Bank:         v.Bank,
			SourceFile:   source,
			Year:         hint.Year,
			YearSource:   hint.Source,
			Pages:        len(doc.Pages),
			Account:      extractAccount(text),
			Transactions: []models.Transaction{},
		},
	}

	if v.opening != nil {
		if bal := v.opening(text); bal.Valid {
			st.previous = bal
			st.result.OpeningBalance = bal
		}
	}

	for i, page := range doc.Pages {
		number := page.Number
		if number == 0 {
			number = i + 1
		}
		st.page(number, v.units(page), opts.Trace)
	}

	st.finish(text)
	return st.result
}

// page runs one page's units through the grammar and merger. A pending
// transaction never crosses a page boundary.
func (st *statement) page(number int, units []Unit, trace bool) {
	m := newMerger(st.consume)
	for i, u := range units {
		match := st.v.Grammar.Classify(u)
		used := m.feed(match, number)
		if trace {
			kind := match.Kind.String()
			if !used && match.Kind != KindNoise {
				kind = "dropped"
			}
			st.result.Trace = append(st.result.Trace, models.TraceLine{
				Page:   number,
				Line:   i + 1,
				Text:   u.Text,
				Result: kind,
			})
		}
	}
	m.flush()
}

// consume resolves one closed token group, in statement order.
func (st *statement) consume(row RawRow) {
	if row.Opening {
		if row.Date != "" {
			st.date(row.Date)
		}
		st.seedOpening(row)
		return
	}

	hadPrevious := st.previous.Valid
	res := st.v.Policy.Resolve(row, st.previous)
	if res.Balance.Valid {
		st.previous = res.Balance
	}

	date, ok := st.date(row.Date)
	if !ok {
		return
	}

	if res.Empty() {
		// A first row that only establishes the balance is the opening
		// balance, not a transaction.
		if !hadPrevious && res.Balance.Valid && !st.result.OpeningBalance.Valid {
			st.result.OpeningBalance = res.Balance
		}
		return
	}

	if txn, ok := assemble(row, res, date, st.v.Bank, st.source); ok {
		st.result.Transactions = append(st.result.Transactions, txn)
	}
}

func (st *statement) seedOpening(row RawRow) {
	if len(row.Amounts) == 0 {
		return
	}
	bal := normalizeNull(row.Amounts[len(row.Amounts)-1])
	if !bal.Valid {
		return
	}
	st.previous = bal
	if !st.result.OpeningBalance.Valid {
		st.result.OpeningBalance = bal
	}
}

// date resolves a row's date token. Dateless rows take the last date seen
// on the statement.
func (st *statement) date(token string) (string, bool) {
	if strings.TrimSpace(token) == "" {
		return st.lastDate, st.lastDate != ""
	}
	date, ok := ResolveDate(token, st.hint)
	if !ok {
		return "", false
	}
	st.lastDate = date
	return date, true
}

func (st *statement) finish(text string) {
	r := st.result
	if st.v.closing != nil {
		r.ClosingBalance = st.v.closing(text)
	}
	if !r.ClosingBalance.Valid {
		r.ClosingBalance = st.previous
	}

	if st.v.totals != nil {
		r.StatedDebit, r.StatedCredit = st.v.totals(text)
		if r.StatedDebit.Valid && !r.StatedDebit.Decimal.Equal(r.TotalDebit()) {
			r.SummaryMismatch = true
			r.Warnings = append(r.Warnings, fmt.Sprintf("stated total debit %s, parsed %s",
				r.StatedDebit.Decimal.StringFixed(2), r.TotalDebit().StringFixed(2)))
		}
		if r.StatedCredit.Valid && !r.StatedCredit.Decimal.Equal(r.TotalCredit()) {
			r.SummaryMismatch = true
			r.Warnings = append(r.Warnings, fmt.Sprintf("stated total credit %s, parsed %s",
				r.StatedCredit.Decimal.StringFixed(2), r.TotalCredit().StringFixed(2)))
		}
	}

	if len(r.Transactions) == 0 {
		r.Status = models.StatusEmpty
	} else {
		r.Status = models.StatusOK
	}
}

// failedResult is the distinct "could not read" outcome.
func failedResult(bank models.BankType, source, reason string) *models.Result {
	return &models.Result{
		Bank:         bank,
		SourceFile:   source,
		Status:       models.StatusFailed,
		Reason:       reason,
		Transactions: []models.Transaction{},
	}
}
