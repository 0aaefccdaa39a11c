package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Barclays statements come in two main formats:
//
// Format A (standard): Date | Description | Money out | Money in | Balance
//
//	Date format: DD/MM/YYYY or DD Mon YYYY
//	Example: "15/01/2024  CARD PAYMENT TO TESCO STORES 2602  25.99  1,234.56"
//
// Format B (business, arrow-separated): uses → as column separator and short
// dates "D Mon". The date is printed once per day.
//
//	Example: "5 Dec → Direct Debit to Stripe → 58.80 → 9,397.88"
var (
	barclaysDate      = regexp.MustCompile(`(?i)^(\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}\s+` + monthWord + `(?:\s+\d{4})?)(?:\s|→|$)`)
	barclaysShortDate = regexp.MustCompile(`(?i)^(\d{1,2}\s+` + monthWord + `)(?:\s|→|$)`)
)

const arrow = "→"

var barclaysCreditWords = words(
	"direct credit", "credit from", "bgc", "bacs",
	"refund", "interest paid", "transfer from", "faster payment",
)

var barclaysFooter = []string{
	"barclays bank", "registered in", "authorised by",
	"financial conduct", "please check", "if you find",
	"prudential regulation",
}

var barclaysSkip = []string{
	"at a glance", "your deposit is eligible", "compensation scheme",
	"your business current account", "issued on", "swiftbic",
	"iban gb", "anything wrong",
}

var barclaysEndBalance = words("end balance")

// barclaysFX lines detail a foreign currency payment and belong to it.
var barclaysFX = []string{"exchange rate", "non-sterling transaction fee", "final gbp amount"}

func barclaysVariant() *Variant {
	return &Variant{
		Bank:    models.BankBarclays,
		Name:    "Barclays",
		Aliases: []string{"barclays bank", "barclays uk"},
		Grammar: GrammarFunc(classifyBarclays),
		Policy: columnPolicy{
			balance: true,
			single:  signedPolicy{credit: barclaysCreditWords, debit: ukDebitWords},
		},
		markers: []string{"barclays", "barclays.co.uk"},
	}
}

func classifyBarclays(u Unit) Match {
	line := strings.TrimSpace(u.Text)
	if line == "" || containsBarclaysHeader(line) ||
		containsAny(line, barclaysFooter) || containsAny(line, barclaysSkip) {
		return noise()
	}

	if containsAny(line, barclaysFX) {
		return continuation(strings.ReplaceAll(line, arrow, " "), nil)
	}

	if bal, ok := openingBalanceLine(line); ok {
		date, _, _ := leadingDate(barclaysShortDate, line)
		return opening(date, bal)
	}

	date, rest, dated := leadingDate(barclaysDate, line)
	if dated && isDatedSummary(strings.TrimLeft(rest, arrow+" ")) {
		return terminator()
	}
	if !dated && (isSummaryLine(line) || barclaysEndBalance.MatchString(line)) {
		return terminator()
	}

	if strings.Contains(line, arrow) {
		return classifyBarclaysArrow(line)
	}
	if dated {
		desc, amounts := splitTrailingAmounts(rest, 3)
		return start(date, desc, amounts)
	}
	return wrapped(line)
}

// classifyBarclaysArrow reads Format B lines:
//
//	"4 Dec Start Balance → 9,856.68"
//	"On-Line Banking Bill Payment to → 400.00 → 9,456.68"
//	"5 Dec → Direct Debit to Stripe → 58.80 → 9,397.88"
//	"Direct Credit From Antalis Limited → 10,500.00 19,749.38"
//	"Ref: Antalis Limited" (continuation)
func classifyBarclaysArrow(line string) Match {
	parts := strings.Split(line, arrow)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	date, first, _ := leadingDate(barclaysShortDate, parts[0])
	if date == "" {
		first = parts[0]
	}

	if !barclaysAmountColumns(parts) {
		text := strings.Join(strings.Fields(strings.ReplaceAll(line, arrow, " ")), " ")
		if date != "" {
			return start(date, first, nil)
		}
		return continuation(text, nil)
	}

	var desc []string
	var amounts []string
	lastAmountPart := ""
	for i, part := range parts {
		if part == "" {
			continue
		}
		text := part
		if i == 0 {
			text = first
		}
		head, found := splitTrailingAmounts(text, 3)
		if head != "" {
			desc = append(desc, head)
		}
		if len(found) > 0 {
			amounts = append(amounts, found...)
			lastAmountPart = part
		}
	}
	if len(amounts) > 3 {
		amounts = amounts[len(amounts)-3:]
	}

	m := start(date, strings.Join(desc, " "), amounts)
	m.Row.Marker = barclaysArrowSide(strings.Join(desc, " "), lastAmountPart)
	return m
}

// barclaysAmountColumns reports whether any column after the first holds
// only amounts, which separates transaction rows from detail lines that
// happen to contain numbers.
func barclaysAmountColumns(parts []string) bool {
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts[1:] {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		all := true
		for _, f := range fields {
			if !isAmountToken(f) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// barclaysArrowSide infers the side from the arrow layout when the
// description says nothing. Debits have → between amount and balance;
// credits print amount and balance in the same column segment.
func barclaysArrowSide(desc, lastAmountPart string) string {
	if barclaysCreditWords.MatchString(desc) || ukDebitWords.MatchString(desc) {
		return markerNone
	}
	if _, found := splitTrailingAmounts(lastAmountPart, 3); len(found) >= 2 {
		return markerCredit
	}
	return markerDebit
}

func containsBarclaysHeader(line string) bool {
	lower := strings.ToLower(line)
	return (strings.Contains(lower, "date") &&
		(strings.Contains(lower, "money out") || strings.Contains(lower, "money in") ||
			strings.Contains(lower, "description") || strings.Contains(lower, "details"))) ||
		containsTransactionHeader(line)
}
