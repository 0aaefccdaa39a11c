package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Year sources, in priority order.
const (
	YearFromMetadata = "metadata"
	YearFromBody     = "body"
	YearFromLabel    = "label"
	YearFromClock    = "clock"
)

// YearHint is the calendar context applied to bare day/month dates.
type YearHint struct {
	Year   int
	Source string
	// Anchor is the statement date's month when the metadata printed a full
	// date. Bare dates in a later month belong to the previous year.
	Anchor time.Month
}

// yearPattern is a statement header field carrying a date. The pattern
// captures day, month and year. Anchored patterns name the statement's
// closing date, so their month bounds the months printed in the body.
type yearPattern struct {
	re     *regexp.Regexp
	anchor bool
}

// metadataPatterns recognise header fields shared by most institutions.
var metadataPatterns = []yearPattern{
	{regexp.MustCompile(`(?i)(?:statement\s+date|tarikh\s+penyata)\s*[:\s]+(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})\b`), true},
	{regexp.MustCompile(`(?i)(?:statement\s+date|tarikh\s+penyata)\s*[:\s]+(\d{1,2})\s+([a-z]{3})[a-z]*\s+(\d{4})\b`), true},
	{regexp.MustCompile(`(?i)period\s*[:\s]+\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\s*(?:to|-|–)\s*(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})\b`), true},
	{regexp.MustCompile(`(?i)period\s*[:\s]+\d{1,2}\s+[a-z]{3}[a-z]*\s+\d{4}\s*(?:to|-|–)\s*(\d{1,2})\s+([a-z]{3})[a-z]*\s+(\d{4})\b`), true},
	{regexp.MustCompile(`(?i)statement\s+period\s*[:\s]+(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})\b`), false},
	{regexp.MustCompile(`(?i)for\s+the\s+period\s*[:\s]+(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})\b`), false},
}

// bodyDatePatterns find any full date in the document body; the last
// capture group is the year.
var bodyDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.](20\d{2})\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}[\s\-](?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s\-](20\d{2})\b`),
}

var labelYear = regexp.MustCompile(`(?:^|[^0-9])(20\d{2})(?:[^0-9]|$)`)

// InferYear recovers the year for bare dates from statement metadata, then
// from any full date in the body, then from the source-file label, and
// finally from the clock. Institution patterns are tried before the shared
// ones.
func InferYear(text, label string, patterns []yearPattern, now time.Time) YearHint {
	all := append(append([]yearPattern{}, patterns...), metadataPatterns...)
	for _, pat := range all {
		m := pat.re.FindStringSubmatch(text)
		if len(m) < 4 {
			continue
		}
		year, ok := parseYear(m[3])
		if !ok {
			continue
		}
		hint := YearHint{Year: year, Source: YearFromMetadata}
		if month, ok := parseMonth(m[2]); ok && pat.anchor {
			hint.Anchor = month
		}
		return hint
	}

	for _, pat := range bodyDatePatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			if year, ok := parseYear(m[len(m)-1]); ok {
				return YearHint{Year: year, Source: YearFromBody}
			}
		}
	}

	if m := labelYear.FindStringSubmatch(label); m != nil {
		if year, ok := parseYear(m[1]); ok {
			return YearHint{Year: year, Source: YearFromLabel}
		}
	}

	return YearHint{Year: now.Year(), Source: YearFromClock}
}

// yearFor returns the year to give a bare date in the given month.
func (h YearHint) yearFor(month time.Month) int {
	if h.Anchor != 0 && month > h.Anchor {
		return h.Year - 1
	}
	return h.Year
}

func parseYear(s string) (int, bool) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if len(s) == 2 {
		y += 2000
	}
	if y < 2000 || y > 2100 {
		return 0, false
	}
	return y, true
}

var monthNames = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
	// Malay abbreviations that differ from English.
	"MAC": time.March, "MEI": time.May, "OGO": time.August, "OKT": time.October, "DIS": time.December,
}

// parseMonth accepts a month number or a name of at least three letters.
func parseMonth(s string) (time.Month, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, false
		}
		return time.Month(n), true
	}
	if len(s) < 3 {
		return 0, false
	}
	m, ok := monthNames[strings.ToUpper(s[:3])]
	return m, ok
}

var (
	numericDate = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})(?:[/\-.](\d{2}|\d{4}))?$`)
	namedDate   = regexp.MustCompile(`(?i)^(\d{1,2})[\s\-]*([a-z]{3})[a-z]*\.?(?:[\s\-]+(\d{2}|\d{4}))?$`)
)

// ResolveDate turns a date token as printed on a statement into an ISO
// date. Tokens without a year take one from the hint. The second result is
// false for tokens that are not dates or name impossible calendar days.
func ResolveDate(token string, hint YearHint) (string, bool) {
	token = strings.Join(strings.Fields(token), " ")

	var dayStr, monthStr, yearStr string
	if m := numericDate.FindStringSubmatch(token); m != nil {
		dayStr, monthStr, yearStr = m[1], m[2], m[3]
	} else if m := namedDate.FindStringSubmatch(token); m != nil {
		dayStr, monthStr, yearStr = m[1], m[2], m[3]
	} else {
		return "", false
	}

	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return "", false
	}
	month, ok := parseMonth(monthStr)
	if !ok {
		return "", false
	}

	var year int
	if yearStr != "" {
		if year, ok = parseYear(yearStr); !ok {
			return "", false
		}
	} else {
		year = hint.yearFor(month)
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
