package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-parser/internal/models"
)

type docSource struct {
	doc *models.Document
	err error
}

func (s docSource) Document() (*models.Document, error) { return s.doc, s.err }

type panicSource struct{}

func (panicSource) Document() (*models.Document, error) { panic("corrupt xref table") }

func TestLookup(t *testing.T) {
	tests := []struct {
		id   string
		want models.BankType
	}{
		{"maybank", models.BankMaybank},
		{"MAYBANK", models.BankMaybank},
		{"maybank_islamic", models.BankMaybankIslamic},
		{"Maybank Islamic", models.BankMaybankIslamic},
		{"pbb", models.BankPublicBank},
		{"public-bank", models.BankPublicBank},
		{"cimb", models.BankCIMB},
		{"bank islam", models.BankIslam},
		{"agro", models.BankAgrobank},
		{"AmBank", models.BankAmBank},
		{"rhb", models.BankRHB},
		{"metrobank", models.BankMetro},
		{"hsbc", models.BankHSBC},
		{" barclays ", models.BankBarclays},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			v, err := Lookup(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Bank)
		})
	}
}

func TestLookup_UnknownBank(t *testing.T) {
	_, err := Lookup("natwest")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownBank))
	assert.Contains(t, err.Error(), "natwest")

	res, err := Parse("natwest", textDoc("12/03/2024 X 1.00 2.00"), "a.pdf", Options{})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnknownBank)

	res, err = Run("", docSource{}, "a.pdf", Options{})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnknownBank)
}

func TestBanks(t *testing.T) {
	banks := Banks()
	require.Len(t, banks, 11)
	seen := map[models.BankType]bool{}
	for _, v := range banks {
		assert.NotEmpty(t, v.Name)
		assert.NotNil(t, v.Grammar)
		assert.NotNil(t, v.Policy)
		assert.False(t, seen[v.Bank], "duplicate %s", v.Bank)
		seen[v.Bank] = true
	}

	// Callers get a copy.
	banks[0] = nil
	assert.NotNil(t, Banks()[0])
}

func TestRun_DecodeFailures(t *testing.T) {
	tests := []struct {
		name   string
		src    Source
		reason string
	}{
		{"source error", docSource{err: errors.New("encrypted file")}, "decode: encrypted file"},
		{"source panic", panicSource{}, "decode: corrupt xref table"},
		{"nil source", nil, "decode: no source"},
		{"nil document", docSource{}, "no document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run("metro", tt.src, "broken.pdf", Options{Now: fixedNow})
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, models.StatusFailed, res.Status)
			assert.True(t, res.Failed())
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, models.BankMetro, res.Bank)
			assert.Equal(t, "broken.pdf", res.SourceFile)
			assert.NotNil(t, res.Transactions)
			assert.Empty(t, res.Transactions)
		})
	}
}

func TestRun_Document(t *testing.T) {
	src := docSource{doc: textDoc("12/03/2024  GROCERY STORE  45.20    1000.00")}
	res, err := Run("metro", src, "march.pdf", Options{Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOK, res.Status)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "march.pdf", res.Transactions[0].SourceFile)
}

func TestParse_SingleAmountWithBalance(t *testing.T) {
	res := parseText(t, "metro", "12/03/2024  GROCERY STORE  45.20    1000.00")
	requireInvariants(t, res)
	requireTxns(t, res.Transactions, []wantTxn{
		{"2024-03-12", "GROCERY STORE", "45.20", "0.00", "1000.00"},
	})
	assert.Equal(t, models.StatusOK, res.Status)
	assert.Equal(t, models.BankMetro, res.Transactions[0].Bank)
	assert.Equal(t, 1, res.Transactions[0].Page)
}

func TestParse_DateOnlyLineIsNotARecord(t *testing.T) {
	res := parseText(t, "metro", "12/03/2024")
	assert.Empty(t, res.Transactions)
	assert.NotNil(t, res.Transactions)
	assert.Equal(t, models.StatusEmpty, res.Status)
	assert.False(t, res.Failed())
}

func TestParse_EmptyDocument(t *testing.T) {
	for _, v := range Banks() {
		t.Run(string(v.Bank), func(t *testing.T) {
			res := v.Parse(&models.Document{}, "empty.pdf", Options{Now: fixedNow})
			require.NotNil(t, res)
			assert.Equal(t, models.StatusEmpty, res.Status)
			assert.Equal(t, 0, res.Pages)
		})
	}
}

func TestParse_GrammarPanicIsAFailedResult(t *testing.T) {
	v := &Variant{
		Bank: models.BankMetro,
		Grammar: GrammarFunc(func(Unit) Match {
			panic("index out of range")
		}),
		Policy: columnPolicy{balance: true},
	}
	res := v.Parse(textDoc("anything"), "x.pdf", Options{Now: fixedNow})
	require.NotNil(t, res)
	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Contains(t, res.Reason, "index out of range")
}

func TestParse_PendingRowDoesNotCrossPages(t *testing.T) {
	res := parseText(t, "metro",
		"15/01/2024 CARD PAYMENT TESCO 25.99 1,234.56",
		"STORE 2602 LONDON",
	)
	requireTxns(t, res.Transactions, []wantTxn{
		{"2024-01-15", "CARD PAYMENT TESCO", "25.99", "0.00", "1234.56"},
	})
	assert.Equal(t, 2, res.Pages)
}

func TestParse_Trace(t *testing.T) {
	res, err := Parse("metro", textDoc(
		"Date Description Paid out Paid in Balance\n"+
			"12/03/2024 GROCERY STORE 45.20 1000.00\n"+
			"STORE 42 LONDON\n"+
			"Closing balance 954.80\n"+
			"ORPHAN TEXT",
	), "trace.pdf", Options{Now: fixedNow, Trace: true})
	require.NoError(t, err)

	var got []string
	for _, tl := range res.Trace {
		assert.Equal(t, 1, tl.Page)
		got = append(got, tl.Result)
	}
	assert.Equal(t, []string{"noise", "start", "continuation", "terminator", "dropped"}, got)
	assert.Equal(t, "STORE 42 LONDON", res.Trace[2].Text)
	assert.Equal(t, 3, res.Trace[2].Line)

	requireTxns(t, res.Transactions, []wantTxn{
		{"2024-03-12", "GROCERY STORE STORE 42 LONDON", "45.20", "0.00", "1000.00"},
	})

	untraced := parseText(t, "metro", "12/03/2024 GROCERY STORE 45.20 1000.00")
	assert.Empty(t, untraced.Trace)
}

func TestParse_ClosingBalanceDefaultsToLastBalance(t *testing.T) {
	res := parseText(t, "metro",
		"Opening balance 1,000.00\n"+
			"01/02/2024 CARD PAYMENT SHOP 50.00 950.00\n"+
			"02/02/2024 FASTER PAYMENT RECEIVED J DOE 200.00 1,150.00",
	)
	assert.Equal(t, "1000.00", fixed(res.OpeningBalance))
	assert.Equal(t, "1150.00", fixed(res.ClosingBalance))
	assert.Equal(t, "50.00", res.TotalDebit().StringFixed(2))
	assert.Equal(t, "200.00", res.TotalCredit().StringFixed(2))
}

func TestAutoDetect(t *testing.T) {
	tests := []struct {
		text string
		want models.BankType
	}{
		{"MAYBANK ISLAMIC BERHAD\nAccount Statement", models.BankMaybankIslamic},
		{"Maybank2u.com\nMALAYAN BANKING BERHAD", models.BankMaybank},
		{"PUBLIC BANK BERHAD", models.BankPublicBank},
		{"CIMB BANK BERHAD (13491-P)", models.BankCIMB},
		{"BANK ISLAM MALAYSIA BERHAD", models.BankIslam},
		{"AGROBANK\nPenyata Akaun", models.BankAgrobank},
		{"AmBank (M) Berhad", models.BankAmBank},
		{"RHB Bank Berhad", models.BankRHB},
		{"Metro Bank PLC\nAccount Statement", models.BankMetro},
		{"HSBC UK Bank plc", models.BankHSBC},
		{"Barclays Bank UK PLC", models.BankBarclays},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			got, err := AutoDetect(textDoc(tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAutoDetect_Unknown(t *testing.T) {
	_, err := AutoDetect(textDoc("Some Credit Union\n01/01/2024 X 1.00 2.00"))
	assert.ErrorIs(t, err, ErrUndetectedBank)

	_, err = AutoDetect(nil)
	assert.ErrorIs(t, err, ErrUndetectedBank)
}

func TestRunDetected(t *testing.T) {
	res := RunDetected(docSource{doc: textDoc(
		"Metro Bank PLC\nAccount Statement",
		"12/03/2024  GROCERY STORE  45.20    1000.00",
	)}, "march.pdf", Options{Now: fixedNow})
	assert.Equal(t, models.BankMetro, res.Bank)
	assert.Equal(t, models.StatusOK, res.Status)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "march.pdf", res.Transactions[0].SourceFile)

	res = RunDetected(docSource{doc: textDoc("Some Credit Union")}, "x.pdf", Options{})
	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Equal(t, ErrUndetectedBank.Error(), res.Reason)
	assert.Empty(t, res.Transactions)

	res = RunDetected(panicSource{}, "y.pdf", Options{})
	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Equal(t, "decode: corrupt xref table", res.Reason)
}
