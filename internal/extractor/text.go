package extractor

import (
	"os"
	"strings"
	"unicode"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// pageBreaks separate pages in plain text input: a form feed as written by
// pdftotext, or the marker used by browser-side extraction.
var pageBreaks = []string{"\f", "\n---PAGE_BREAK---\n"}

// TextSource supplies an already extracted statement as plain text.
type TextSource struct {
	Text string
}

// Document implements parser.Source.
func (s TextSource) Document() (*models.Document, error) {
	doc := FromText(s.Text)
	if !IsReadable(doc) {
		return nil, ErrNoText
	}
	return doc, nil
}

// TextFileSource reads a plain text statement from disk.
type TextFileSource struct {
	Path string
}

// Document implements parser.Source.
func (s TextFileSource) Document() (*models.Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return TextSource{Text: string(data)}.Document()
}

// FromText splits plain text into pages and lines. Empty pages inside the
// text are kept so page numbers match the source.
func FromText(text string) *models.Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, b := range pageBreaks[1:] {
		text = strings.ReplaceAll(text, b, pageBreaks[0])
	}
	pages := strings.Split(text, pageBreaks[0])
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	doc := &models.Document{}
	for i, page := range pages {
		doc.Pages = append(doc.Pages, textPage(i+1, page))
	}
	return doc
}

func textPage(number int, text string) models.Page {
	p := models.Page{Number: number}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if strings.TrimSpace(line) != "" {
			p.Lines = append(p.Lines, line)
		}
	}
	return p
}

// commonWords appear in virtually every bank statement, in English or
// Malay. Text containing none of them is likely garbage.
var commonWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "sort code",
	"money", "paid", "opening", "closing", "transfer", "direct",
	"number", "page", "period",
	"akaun", "baki", "tarikh", "penyata", "jumlah",
}

// IsReadable reports whether a document holds enough text, whether that
// text is mostly readable characters rather than undecoded glyphs, and
// whether it contains at least one word expected in a bank statement.
func IsReadable(doc *models.Document) bool {
	if doc == nil {
		return false
	}
	text := doc.FullText()
	if len(strings.TrimSpace(text)) <= 50 {
		return false
	}
	if textQuality(text) <= 0.6 {
		return false
	}
	lower := strings.ToLower(text)
	for _, word := range commonWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// textQuality returns the share of plain ASCII letters, digits, whitespace
// and common punctuation. unicode.IsLetter is too broad: identity-encoded
// fonts decode to accented garbage.
func textQuality(text string) float64 {
	total, readable := 0, 0
	for _, r := range text {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(".,-/:;()'\"£$€%&@#!?+=*→", r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}
