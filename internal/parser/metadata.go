package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

var (
	// labelledAccount finds numbers printed next to an account label,
	// including the Malay "No. Akaun".
	labelledAccount = regexp.MustCompile(`(?i)(?:account\s*(?:number|no\.?)|no\.?\s*akaun)\s*[:.]?\s*(\d[\d\-]{5,19}\d)`)
	// accountNumberPattern finds typical UK bank account numbers (8 digits).
	accountNumberPattern = regexp.MustCompile(`\b(\d{8})\b`)
	// sortCodePattern finds typical UK sort codes (XX-XX-XX).
	sortCodePattern = regexp.MustCompile(`\b(\d{2}-\d{2}-\d{2})\b`)

	periodDates = regexp.MustCompile(`(?i)\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}\s+` + monthWord + `\s+\d{2,4}`)
)

var holderLabels = []string{"Account holder", "Account name", "Nama", "Mr ", "Mrs ", "Ms ", "Miss "}

// extractAccount reads the account metadata from the statement header.
func extractAccount(text string) models.Account {
	return models.Account{
		Number:   findAccountNumber(text),
		SortCode: sortCodePattern.FindString(text),
		Holder:   extractNameNearLabel(text, holderLabels),
		Period:   extractPeriod(text),
	}
}

func findAccountNumber(text string) string {
	if m := labelledAccount.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return accountNumberPattern.FindString(text)
}

func extractNameNearLabel(text string, labels []string) string {
	for _, line := range strings.Split(text, "\n") {
		for _, label := range labels {
			idx := strings.Index(line, label)
			if idx < 0 {
				continue
			}
			rest := strings.TrimSpace(line[idx+len(label):])
			rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			if rest == "" {
				continue
			}
			// Trim trailing columns such as account info.
			parts := strings.Split(rest, "  ")
			return strings.TrimSpace(parts[0])
		}
	}
	return ""
}

func extractPeriod(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), "period") && !strings.Contains(strings.ToLower(line), "tempoh") {
			continue
		}
		if dates := periodDates.FindAllString(line, 2); len(dates) == 2 {
			return dates[0] + " to " + dates[1]
		}
	}
	return ""
}
