package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// monthWord matches English and Malay month abbreviations.
const monthWord = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?|mac|mei|ogo|okt|dis)`

// splitTrailingAmounts peels up to max amount tokens off the right end of a
// line and returns the remaining text and the amounts in column order. A
// separate CR/DR field is glued to the amount before it.
func splitTrailingAmounts(text string, max int) (string, []string) {
	fields := strings.Fields(text)
	var amounts []string
	i := len(fields) - 1
	for i >= 0 && len(amounts) < max {
		f := fields[i]
		upper := strings.ToUpper(f)
		if (upper == markerCredit || upper == markerDebit) && i > 0 && isAmountToken(fields[i-1]) {
			amounts = append(amounts, fields[i-1]+upper)
			i -= 2
			continue
		}
		if !isAmountToken(f) {
			break
		}
		amounts = append(amounts, f)
		i--
	}
	for l, r := 0, len(amounts)-1; l < r; l, r = l+1, r-1 {
		amounts[l], amounts[r] = amounts[r], amounts[l]
	}
	return strings.Join(fields[:i+1], " "), amounts
}

// leadingDate matches an anchor pattern at the start of a line. The first
// capture group is the date; the rest of the line is returned trimmed.
func leadingDate(re *regexp.Regexp, line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	m := re.FindStringSubmatchIndex(line)
	if m == nil || m[0] != 0 || m[2] < 0 {
		return "", "", false
	}
	return line[m[2]:m[3]], strings.TrimSpace(line[m[1]:]), true
}

// summaryWords mark totals, balances and page furniture that close the
// pending transaction. They are matched as whole words, and only on lines
// that do not open with a row date.
var (
	summaryWords = words(
		"opening balance", "closing balance", "total paid in",
		"total paid out", "total payments", "total receipts",
		"statement period", "continued", "balance carried forward",
		"baki penutup", "baki akhir", "jumlah",
	)
	pageNumber = regexp.MustCompile(`(?i)\b(?:page|muka\s+surat)\s+\d+(?:\s*(?:of|/|dari)\s*\d+)?\b`)
)

func isSummaryLine(line string) bool {
	return summaryWords.MatchString(line) || pageNumber.MatchString(line)
}

// datedSummary matches the text after a row date when the row is itself a
// balance or totals line, as in "31/01/2024 Closing balance 1,234.56".
var datedSummary = regexp.MustCompile(`(?i)^(?:opening|closing|beginning|ending|ledger|end)\s+balance\b|` +
	`^(?:balance|bal)\s+(?:carried\s+forward|c/f)|` +
	`^total\s+(?:debits?|credits?|paid\s+(?:in|out)|payments|receipts|withdrawals|deposits)\b|` +
	`^(?:baki\s+penutup|baki\s+akhir|baki\s+lejar)\b`)

func isDatedSummary(rest string) bool {
	return datedSummary.MatchString(strings.TrimSpace(rest))
}

// pageFurniture is legal and navigation text printed in page footers. It
// never belongs to a transaction description.
var pageFurniture = []string{
	"registered in england", "registered office", "registered no",
	"authorised by the prudential regulation authority",
	"regulated by the financial conduct authority",
	"prudential regulation authority", "financial conduct authority",
	"financial services compensation scheme",
	"member of pidm", "ahli pidm", "protected by pidm", "dilindungi oleh pidm",
	"perbadanan insurans deposit", "continued overleaf", "bersambung",
	"please examine this statement", "sila semak penyata",
}

func isPageFurniture(line string) bool {
	return containsAny(line, pageFurniture)
}

// wrapped classifies a line that opens no row: a wrapped description
// fragment, unless it is page furniture or carries an amount of its own.
func wrapped(line string) Match {
	if isPageFurniture(line) {
		return noise()
	}
	if _, amounts := splitTrailingAmounts(line, 1); len(amounts) > 0 {
		return noise()
	}
	return continuation(line, nil)
}

// containsTransactionHeader recognises a column title row. Spread-out
// headers like "Pay m e nt t y pe" keep "paid" intact, so it counts for
// the description column too.
func containsTransactionHeader(line string) bool {
	lower := strings.ToLower(line)
	return (strings.Contains(lower, "date") || strings.Contains(lower, "tarikh")) &&
		containsAny(lower, []string{"description", "transaction", "details", "paid", "keterangan", "urus niaga"}) &&
		containsAny(lower, []string{"amount", "paid", "balance", "money", "baki", "debit", "credit"})
}

// ukDebitWords and ukCreditWords describe the side of a transaction in UK
// statement descriptions.
var (
	ukDebitWords = words(
		"card payment", "direct debit", "debit", "payment", "withdrawal",
		"transfer out", "standing order", "dd", "pos", "atm",
		"purchase", "fee", "charge",
	)
	ukCreditWords = words(
		"credit", "bank credit", "faster payment received", "transfer in",
		"deposit", "salary", "refund", "interest", "received", "cr",
	)
)

// amountAfter builds a hook that reads the first amount printed after a
// label, on the same line or the next. A trailing minus is negative.
func amountAfter(label string) func(text string) decimal.NullDecimal {
	re := regexp.MustCompile(`(?i)(?:` + label + `)[^\d\n]{0,60}?\n?[^\d\n]{0,60}?(\(?[\d,]+\.\d{2}\)?-?)`)
	return func(text string) decimal.NullDecimal {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return decimal.NullDecimal{}
		}
		return normalizeNull(trailingMinus(m[1]))
	}
}

// totalsAfter builds a hook reading the statement's printed debit and
// credit totals.
func totalsAfter(debitLabel, creditLabel string) func(text string) (decimal.NullDecimal, decimal.NullDecimal) {
	debit, credit := amountAfter(debitLabel), amountAfter(creditLabel)
	return func(text string) (decimal.NullDecimal, decimal.NullDecimal) {
		return debit(text), credit(text)
	}
}
