package parser

import "strings"

// Kind classifies one line or table row.
type Kind int

const (
	// KindNoise is page furniture, blank lines and column headers. It is
	// skipped without closing the pending transaction.
	KindNoise Kind = iota
	// KindStart opens a new transaction.
	KindStart
	// KindContinuation extends the pending transaction's description.
	KindContinuation
	// KindTerminator is noise that ends the pending transaction, such as a
	// page total or closing balance line.
	KindTerminator
	// KindOpening is a balance brought forward. It ends the pending
	// transaction and seeds the running balance.
	KindOpening
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindContinuation:
		return "continuation"
	case KindTerminator:
		return "terminator"
	case KindOpening:
		return "opening"
	default:
		return "noise"
	}
}

// Unit is one input unit: a text line, or the cells of one extracted row.
type Unit struct {
	Text  string
	Cells []string
}

// RawRow is the token group collected for one transaction before any
// amount is interpreted.
type RawRow struct {
	Date        string   // as printed; empty when the layout omits it
	Description []string // fragments in reading order
	Amounts     []string // numeric tokens in column order
	Marker      string   // sign or CR/DR marker, if the layout prints one
	Opening     bool
	Page        int
}

// Match is a grammar's verdict on one unit. Row is meaningful for
// KindStart, KindContinuation and KindOpening.
type Match struct {
	Kind Kind
	Row  RawRow
}

// Grammar classifies units for one institution's statement layout.
// Implementations must be stateless: the same unit always yields the same
// match, and every call is safe for concurrent use.
type Grammar interface {
	Classify(u Unit) Match
}

// GrammarFunc adapts a function to Grammar.
type GrammarFunc func(u Unit) Match

// Classify calls f(u).
func (f GrammarFunc) Classify(u Unit) Match {
	return f(u)
}

func noise() Match      { return Match{Kind: KindNoise} }
func terminator() Match { return Match{Kind: KindTerminator} }

func start(date, desc string, amounts []string) Match {
	return Match{Kind: KindStart, Row: RawRow{Date: date, Description: fragments(desc), Amounts: amounts}}
}

func continuation(desc string, amounts []string) Match {
	return Match{Kind: KindContinuation, Row: RawRow{Description: fragments(desc), Amounts: amounts}}
}

func opening(date, balance string) Match {
	m := Match{Kind: KindOpening, Row: RawRow{Date: date, Opening: true}}
	if balance != "" {
		m.Row.Amounts = []string{balance}
	}
	return m
}

func fragments(desc string) []string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return nil
	}
	return []string{desc}
}
