package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// ErrUnknownBank is returned for institution identifiers that are not
// configured. It signals a caller bug, never a data problem.
var ErrUnknownBank = errors.New("unknown bank")

// Variant pairs one institution's row grammar with its debit/credit
// policy. Variants are immutable once registered.
type Variant struct {
	Bank    models.BankType
	Name    string
	Aliases []string
	// Grid variants consume extracted table rows rather than text lines.
	Grid    bool
	Grammar Grammar
	Policy  Policy

	years   []yearPattern
	markers []string // content that identifies the institution

	// Document-level hooks for figures printed outside the transaction rows.
	opening func(text string) decimal.NullDecimal
	closing func(text string) decimal.NullDecimal
	totals  func(text string) (debit, credit decimal.NullDecimal)
}

// units converts a page into the unit stream the grammar expects.
func (v *Variant) units(p models.Page) []Unit {
	if v.Grid {
		if len(p.Rows) > 0 {
			out := make([]Unit, 0, len(p.Rows))
			for _, cells := range p.Rows {
				out = append(out, Unit{Text: strings.Join(cells, " "), Cells: cells})
			}
			return out
		}
		out := make([]Unit, 0, len(p.Lines))
		for _, line := range p.Lines {
			out = append(out, Unit{Text: line, Cells: splitColumns(line)})
		}
		return out
	}

	if len(p.Lines) == 0 && len(p.Rows) > 0 {
		out := make([]Unit, 0, len(p.Rows))
		for _, cells := range p.Rows {
			out = append(out, Unit{Text: strings.Join(cells, "  "), Cells: cells})
		}
		return out
	}
	out := make([]Unit, 0, len(p.Lines))
	for _, line := range p.Lines {
		out = append(out, Unit{Text: line})
	}
	return out
}

var columnGap = regexp.MustCompile(`\t+|\s{2,}`)

// splitColumns recovers cells from a text line whose columns are separated
// by tabs or runs of spaces.
func splitColumns(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return columnGap.Split(line, -1)
}

type catalog struct {
	ordered []*Variant
	byKey   map[string]*Variant
}

func newCatalog(variants ...*Variant) *catalog {
	c := &catalog{byKey: make(map[string]*Variant)}
	for _, v := range variants {
		c.ordered = append(c.ordered, v)
		c.byKey[lookupKey(string(v.Bank))] = v
		for _, alias := range v.Aliases {
			c.byKey[lookupKey(alias)] = v
		}
	}
	return c
}

// registry is the closed set of configured institutions. The order is the
// auto-detection order: more specific names come before names they contain.
var registry = newCatalog(
	maybankIslamicVariant(),
	maybankVariant(),
	publicBankVariant(),
	cimbVariant(),
	bankIslamVariant(),
	agrobankVariant(),
	ambankVariant(),
	rhbVariant(),
	metroVariant(),
	hsbcVariant(),
	barclaysVariant(),
)

func lookupKey(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.NewReplacer("_", "-", " ", "-").Replace(id)
	return id
}

// Lookup returns the variant registered for an institution identifier or
// one of its aliases, ignoring case.
func Lookup(id string) (*Variant, error) {
	if v, ok := registry.byKey[lookupKey(id)]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBank, id)
}

// Banks lists the configured institutions.
func Banks() []*Variant {
	return append([]*Variant(nil), registry.ordered...)
}
