package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHSBC_Parse(t *testing.T) {
	res := parseText(t, "hsbc", `HSBC UK Bank plc
Date Payment type and details Paid out Paid in Balance
01 Jan 24 BALANCE BROUGHT FORWARD 1,000.00
15 Jan 24 VIS TESCO STORES 25.99 974.01
CR SALARY ACME LTD 2,000.00 2,974.01
DD SKY DIGITAL
45.00 2,929.01
16 Jan 24	VIS	COSTA COFFEE	3.50		2,925.51
BALANCE CARRIED FORWARD 2,925.51`)

	requireInvariants(t, res)
	requireTxns(t, res.Transactions, []wantTxn{
		{"2024-01-15", "VIS TESCO STORES", "25.99", "0.00", "974.01"},
		{"2024-01-15", "CR SALARY ACME LTD", "0.00", "2000.00", "2974.01"},
		{"2024-01-15", "DD SKY DIGITAL", "45.00", "0.00", "2929.01"},
		{"2024-01-16", "VIS COSTA COFFEE", "3.50", "0.00", "2925.51"},
	})
	assert.Equal(t, "1000.00", fixed(res.OpeningBalance))
	assert.Equal(t, "2925.51", fixed(res.ClosingBalance))
}

func TestHSBC_DateFormats(t *testing.T) {
	tests := []struct {
		line string
		date string
	}{
		{"15 Jan 24 VIS TESCO 25.99 974.01", "15 Jan 24"},
		{"15-Jan-24 VIS TESCO 25.99 974.01", "15-Jan-24"},
		{"15/01/2024 VIS TESCO 25.99 974.01", "15/01/2024"},
		{"» 15 Jan 24 VIS TESCO 25.99 974.01", "15 Jan 24"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m := classifyHSBC(Unit{Text: tt.line})
			require.Equal(t, KindStart, m.Kind)
			assert.Equal(t, tt.date, m.Row.Date)
			assert.Equal(t, []string{"25.99", "974.01"}, m.Row.Amounts)
		})
	}
}

func TestHSBC_NormalizeLine(t *testing.T) {
	assert.Equal(t, "15 Jan 24 VIS", normalizeLine("\u200B15 Jan 24\u00A0VIS "))
}

func TestHSBC_FirstRowSide(t *testing.T) {
	tests := []struct {
		line   string
		debit  string
		credit string
	}{
		// Nothing marks the side: HSBC rows default to money in.
		{"15 Jan 24 ACME LTD 120.00 1,120.00", "0.00", "120.00"},
		{"15 Jan 24 ))) COSTA 3.50 1,116.50", "3.50", "0.00"},
		{"15 Jan 24 SO RENT 750.00 370.00", "750.00", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := parseText(t, "hsbc", tt.line)
			require.Len(t, res.Transactions, 1)
			assert.Equal(t, tt.debit, res.Transactions[0].Debit.StringFixed(2))
			assert.Equal(t, tt.credit, res.Transactions[0].Credit.StringFixed(2))
		})
	}
}

func TestHSBC_FooterStaysOutOfDescription(t *testing.T) {
	res := parseText(t, "hsbc", `15 Jan 24 VIS TESCO 25.99 974.01
HSBC UK Bank plc is authorised by the Prudential Regulation Authority`)

	requireTxns(t, res.Transactions, []wantTxn{
		{"2024-01-15", "VIS TESCO", "25.99", "0.00", "974.01"},
	})
}
