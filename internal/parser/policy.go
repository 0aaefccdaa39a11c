package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Resolution is the debit/credit/balance reading of one token group.
// Debit and Credit are magnitudes.
type Resolution struct {
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.NullDecimal
}

// Empty reports whether neither debit nor credit received an amount.
func (r Resolution) Empty() bool {
	return r.Debit.IsZero() && r.Credit.IsZero()
}

func debitOf(amt decimal.Decimal) Resolution  { return Resolution{Debit: amt.Abs(), Credit: decimal.Zero} }
func creditOf(amt decimal.Decimal) Resolution { return Resolution{Debit: decimal.Zero, Credit: amt.Abs()} }

// Policy decides which of a row's numeric tokens is the debit, the credit
// and the running balance. previous is the last balance seen on the same
// statement, if any.
type Policy interface {
	Resolve(row RawRow, previous decimal.NullDecimal) Resolution
}

// columnPolicy reads layouts with separate paid-out, paid-in and balance
// columns. Text extraction collapses blank columns, so fewer than three
// tokens are read as an amount plus a balance (when the layout has one),
// and the amount's column is recovered by balance arithmetic or, failing
// that, by the single policy.
type columnPolicy struct {
	balance bool
	single  Policy
}

func (p columnPolicy) Resolve(row RawRow, previous decimal.NullDecimal) Resolution {
	toks := row.Amounts
	if len(toks) > 3 {
		toks = toks[len(toks)-3:]
	}

	switch {
	case len(toks) == 3:
		return Resolution{
			Debit:   normalizeOrZero(toks[0]).Abs(),
			Credit:  normalizeOrZero(toks[1]).Abs(),
			Balance: normalizeNull(toks[2]),
		}

	case len(toks) == 2 && !p.balance:
		return Resolution{
			Debit:   normalizeOrZero(toks[0]).Abs(),
			Credit:  normalizeOrZero(toks[1]).Abs(),
		}

	case len(toks) == 2:
		amt := normalizeOrZero(toks[0]).Abs()
		bal := normalizeNull(toks[1])
		var res Resolution
		if side, ok := sideByArithmetic(amt, bal, previous); ok {
			res = side
		} else {
			res = p.resolveSingle(row, toks[0], previous)
		}
		res.Balance = bal
		return res

	case len(toks) == 1:
		return p.resolveSingle(row, toks[0], previous)
	}
	return Resolution{}
}

func (p columnPolicy) resolveSingle(row RawRow, token string, previous decimal.NullDecimal) Resolution {
	if p.single == nil {
		return debitOf(normalizeOrZero(token))
	}
	one := row
	one.Amounts = []string{token}
	res := p.single.Resolve(one, previous)
	res.Balance = decimal.NullDecimal{}
	return res
}

// sideByArithmetic checks which of previous-amt and previous+amt equals
// the stated balance.
func sideByArithmetic(amt decimal.Decimal, bal, previous decimal.NullDecimal) (Resolution, bool) {
	if !bal.Valid || !previous.Valid || amt.IsZero() {
		return Resolution{}, false
	}
	if previous.Decimal.Sub(amt).Equal(bal.Decimal) {
		return debitOf(amt), true
	}
	if previous.Decimal.Add(amt).Equal(bal.Decimal) {
		return creditOf(amt), true
	}
	return Resolution{}, false
}

// signedPolicy reads layouts that print one amount and mark its side: a
// trailing sign, a CR/DR marker, or words in the description.
type signedPolicy struct {
	balance bool           // the last token is a running balance
	credit  *regexp.Regexp // description words marking a credit
	debit   *regexp.Regexp // description words marking a debit
	// fallbackCredit picks the side when nothing marks the row.
	fallbackCredit bool
	// strict leaves unmarked rows unresolved instead of using the fallback.
	strict bool
}

func (p signedPolicy) Resolve(row RawRow, _ decimal.NullDecimal) Resolution {
	toks := row.Amounts
	var res Resolution
	if p.balance {
		if len(toks) < 2 {
			if len(toks) == 1 {
				res.Balance = normalizeNull(toks[0])
			}
			return res
		}
		res.Balance = normalizeNull(toks[len(toks)-1])
		toks = toks[:len(toks)-1]
	}
	if len(toks) == 0 {
		return res
	}

	token, marker := splitMarker(toks[len(toks)-1])
	if marker == markerNone {
		marker = row.Marker
	}
	amt, ok := NormalizeAmount(token)
	if !ok {
		return res
	}

	credit, known := p.isCredit(marker, amt, strings.Join(row.Description, " "))
	if !known && p.strict {
		return res
	}
	side := debitOf(amt)
	if credit {
		side = creditOf(amt)
	}
	side.Balance = res.Balance
	return side
}

// isCredit picks the side of one amount. known is false when only the
// fallback decided it.
func (p signedPolicy) isCredit(marker string, amt decimal.Decimal, desc string) (credit, known bool) {
	switch marker {
	case markerPlus, markerCredit:
		return true, true
	case markerMinus, markerDebit:
		return false, true
	}
	if amt.IsNegative() {
		return false, true
	}
	if p.credit != nil && p.credit.MatchString(desc) {
		return true, true
	}
	if p.debit != nil && p.debit.MatchString(desc) {
		return false, true
	}
	return p.fallbackCredit, false
}

// deltaPolicy infers the side from the change in running balance: an
// increase is a credit and a decrease a debit, for the absolute change.
// It needs the rows of a statement in order.
//
// When there is no previous balance the first policy is used; with no
// first policy the row is an opening-balance row with zero debit and
// credit, which seeds the chain and is not emitted. A row that leaves the
// balance unchanged goes to flat in the same way.
type deltaPolicy struct {
	first Policy
	flat  Policy
}

func (p deltaPolicy) Resolve(row RawRow, previous decimal.NullDecimal) Resolution {
	if len(row.Amounts) == 0 {
		return Resolution{}
	}
	bal := normalizeNull(row.Amounts[len(row.Amounts)-1])
	if !bal.Valid {
		return Resolution{}
	}

	var res Resolution
	switch {
	case !previous.Valid:
		res = p.fallback(p.first, row, previous)
	default:
		delta := bal.Decimal.Sub(previous.Decimal)
		switch delta.Sign() {
		case 1:
			res = creditOf(delta)
		case -1:
			res = debitOf(delta)
		default:
			res = p.fallback(p.flat, row, previous)
		}
	}
	res.Balance = bal
	return res
}

// fallback resolves the row's transaction amount, every token but the
// balance, with another policy.
func (p deltaPolicy) fallback(with Policy, row RawRow, previous decimal.NullDecimal) Resolution {
	if with == nil || len(row.Amounts) < 2 {
		return Resolution{}
	}
	txn := row
	txn.Amounts = row.Amounts[:len(row.Amounts)-1]
	res := with.Resolve(txn, previous)
	res.Balance = decimal.NullDecimal{}
	return res
}

// words builds a case-insensitive whole-word matcher.
func words(list ...string) *regexp.Regexp {
	quoted := make([]string, len(list))
	for i, w := range list {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
