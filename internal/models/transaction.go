package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical record emitted for every institution.
type Transaction struct {
	Date        string              `json:"date"` // YYYY-MM-DD
	Description string              `json:"description"`
	Debit       decimal.Decimal     `json:"debit"`
	Credit      decimal.Decimal     `json:"credit"`
	Balance     decimal.NullDecimal `json:"balance"`
	Page        int                 `json:"page"`
	Bank        BankType            `json:"bank"`
	SourceFile  string              `json:"source_file"`
}

// BankType identifies a configured institution.
type BankType string

const (
	BankMaybank        BankType = "maybank"
	BankMaybankIslamic BankType = "maybank-islamic"
	BankPublicBank     BankType = "public-bank"
	BankCIMB           BankType = "cimb"
	BankIslam          BankType = "bank-islam"
	BankAgrobank       BankType = "agrobank"
	BankAmBank         BankType = "ambank"
	BankRHB            BankType = "rhb"
	BankMetro          BankType = "metro"
	BankHSBC           BankType = "hsbc"
	BankBarclays       BankType = "barclays"
)

// Page is one decoded page of a statement: its text lines and, for
// table-oriented layouts, the cells of each extracted row.
type Page struct {
	Number int        `json:"number"` // 1-based
	Lines  []string   `json:"lines,omitempty"`
	Rows   [][]string `json:"rows,omitempty"`
}

// Document is a decoded statement.
type Document struct {
	Pages []Page `json:"pages"`
	// Text is the document-level blob used for year inference. When empty
	// the page lines are joined instead.
	Text string `json:"text,omitempty"`
}

// FullText returns Text, or the page lines joined by newlines. A page
// without lines contributes its cell rows instead, so each visual row is
// read once.
func (d *Document) FullText() string {
	if d.Text != "" {
		return d.Text
	}
	var b strings.Builder
	for _, p := range d.Pages {
		if len(p.Lines) > 0 {
			for _, l := range p.Lines {
				b.WriteString(l)
				b.WriteByte('\n')
			}
			continue
		}
		for _, row := range p.Rows {
			b.WriteString(strings.Join(row, " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
