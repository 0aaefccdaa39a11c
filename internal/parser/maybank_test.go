package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-parser/internal/models"
)

func TestMaybank_Parse(t *testing.T) {
	res := parseText(t, "maybank", `MAYBANK
STATEMENT DATE : 31/03/24
ACCOUNT NUMBER : 512345678901
BEGINNING BALANCE 4,000.00
01/03 TRANSFER FR A/C 1,200.00+ 5,200.00
      ACME SDN BHD
05/03 DEBIT CARD PURCHASE 200.00- 5,000.00
      GROCER KL
ENDING BALANCE 5,000.00`)

	requireInvariants(t, res)
	requireTxns(t, res.Transactions, []wantTxn{
		{"2024-03-01", "TRANSFER FR A/C ACME SDN BHD", "0.00", "1200.00", "5200.00"},
		{"2024-03-05", "DEBIT CARD PURCHASE GROCER KL", "200.00", "0.00", "5000.00"},
	})
	assert.Equal(t, models.StatusOK, res.Status)
	assert.Equal(t, 2024, res.Year)
	assert.Equal(t, YearFromMetadata, res.YearSource)
	assert.Equal(t, "4000.00", fixed(res.OpeningBalance))
	assert.Equal(t, "5000.00", fixed(res.ClosingBalance))
	assert.Equal(t, "512345678901", res.Account.Number)
}

func TestMaybank_FirstRowUsesPrintedSign(t *testing.T) {
	res := parseText(t, "maybank", `STATEMENT DATE : 31/03/24
01/03 TRANSFER FR A/C 1,200.00+ 5,200.00
02/03 ATM WITHDRAWAL 200.00- 5,000.00
03/03 INTEREST 0.00 5,000.00`)

	requireTxns(t, res.Transactions, []wantTxn{
		{"2024-03-01", "TRANSFER FR A/C", "0.00", "1200.00", "5200.00"},
		{"2024-03-02", "ATM WITHDRAWAL", "200.00", "0.00", "5000.00"},
	})
}

func TestMaybank_YearBoundary(t *testing.T) {
	res := parseText(t, "maybank", `STATEMENT DATE : 31/01/24
BEGINNING BALANCE 100.00
28/12 FPX PAYMENT 40.00- 60.00
02/01 SALARY 1,000.00+ 1,060.00`)

	requireTxns(t, res.Transactions, []wantTxn{
		{"2023-12-28", "FPX PAYMENT", "40.00", "0.00", "60.00"},
		{"2024-01-02", "SALARY", "0.00", "1000.00", "1060.00"},
	})
}

func TestMaybankIslamic_Parse(t *testing.T) {
	res := parseText(t, "maybank-islamic", `MAYBANK ISLAMIC BERHAD
01 Feb 2025 PROFIT CR 12.40 10,512.40
03 Feb 2025 DUITNOW TRANSFER 512.40 10,000.00
   ACME SDN BHD
05 Feb 2025 SALARY 3,000.00 13,000.00`)

	requireInvariants(t, res)
	requireTxns(t, res.Transactions, []wantTxn{
		{"2025-02-01", "PROFIT CR", "0.00", "12.40", "10512.40"},
		{"2025-02-03", "DUITNOW TRANSFER ACME SDN BHD", "512.40", "0.00", "10000.00"},
		{"2025-02-05", "SALARY", "0.00", "3000.00", "13000.00"},
	})
	assert.Equal(t, YearFromBody, res.YearSource)
	require.Equal(t, "13000.00", fixed(res.ClosingBalance))
}

func TestMaybank_FooterAndMerchantWords(t *testing.T) {
	res := parseText(t, "maybank", `STATEMENT DATE : 31/03/24
BEGINNING BALANCE 1,000.00
01/03 SALE DEBIT TESCO 25.00- 975.00
Malayan Banking Berhad (3813-K) Member of PIDM
02/03 TOTAL FITNESS 50.00- 925.00
03/03 PAGE ONE CAFE 5.00- 920.00
31/03 ENDING BALANCE 920.00`)

	requireInvariants(t, res)
	requireTxns(t, res.Transactions, []wantTxn{
		{"2024-03-01", "SALE DEBIT TESCO", "25.00", "0.00", "975.00"},
		{"2024-03-02", "TOTAL FITNESS", "50.00", "0.00", "925.00"},
		{"2024-03-03", "PAGE ONE CAFE", "5.00", "0.00", "920.00"},
	})
}
