package extractor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// ErrNoText is returned when a PDF holds no text that reads like a bank
// statement: scanned images, or fonts whose encoding cannot be decoded.
var ErrNoText = errors.New("no readable text could be extracted from PDF")

// Horizontal gaps, in points, that separate words and table columns.
const (
	wordGap   = 1.0
	columnGap = 12.0

	defaultFontSize = 9.0
)

// PDFSource decodes a statement PDF from disk.
type PDFSource struct {
	Path string
}

// Document implements parser.Source.
func (s PDFSource) Document() (*models.Document, error) {
	return ExtractFile(s.Path)
}

// ReaderSource decodes a statement PDF held in memory, such as an upload.
type ReaderSource struct {
	R    io.ReaderAt
	Size int64
}

// Document implements parser.Source.
func (s ReaderSource) Document() (*models.Document, error) {
	return Extract(s.R, s.Size)
}

// ExtractFile reads a PDF file into pages of lines and cell rows. If the
// PDF library cannot produce readable text, the external pdftotext command
// (poppler-utils) is tried as a last resort.
func ExtractFile(path string) (*models.Document, error) {
	doc, libErr := withRecover(func() (*models.Document, error) {
		f, r, err := pdf.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return extract(r)
	})
	if libErr == nil {
		return doc, nil
	}

	if doc, err := extractWithPdftotext(path); err == nil {
		return doc, nil
	}
	return nil, libErr
}

// Extract reads a PDF from r.
func Extract(r io.ReaderAt, size int64) (*models.Document, error) {
	return withRecover(func() (*models.Document, error) {
		pr, err := pdf.NewReader(r, size)
		if err != nil {
			return nil, err
		}
		return extract(pr)
	})
}

// withRecover turns a panic inside the PDF library into an error.
func withRecover(fn func() (*models.Document, error)) (doc *models.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("PDF library crashed: %v", r)
		}
	}()
	return fn()
}

// extract tries the library's extraction methods in order of layout
// fidelity and keeps the first one that yields readable text.
func extract(r *pdf.Reader) (*models.Document, error) {
	numPages := r.NumPage()
	if numPages == 0 {
		return nil, errors.New("PDF has no pages")
	}

	// Method 1: GetTextByRow keeps word positions, so cells survive.
	if doc := extractByRow(r, numPages); IsReadable(doc) {
		return doc, nil
	}
	// Method 2: Page.Content() with coordinate-based row reconstruction.
	if doc := extractByContent(r, numPages); IsReadable(doc) {
		return doc, nil
	}
	// Method 3: Page.GetPlainText with the page font map.
	if doc := extractByPagePlainText(r, numPages); IsReadable(doc) {
		return doc, nil
	}
	// Method 4: Reader.GetPlainText, one blob for the whole document.
	if doc := extractByReaderPlainText(r); IsReadable(doc) {
		return doc, nil
	}
	return nil, ErrNoText
}

func extractByRow(r *pdf.Reader, numPages int) *models.Document {
	doc := &models.Document{}
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		p := models.Page{Number: i}
		for _, row := range rows {
			addRow(&p, []pdf.Text(row.Content))
		}
		doc.Pages = append(doc.Pages, p)
	}
	return doc
}

func extractByContent(r *pdf.Reader, numPages int) *models.Document {
	doc := &models.Document{}
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		// Group text by Y coordinate, rounded, to reconstruct rows.
		byY := make(map[int][]pdf.Text)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			byY[y] = append(byY[y], t)
		}

		// PDF Y goes bottom-to-top.
		ys := make([]int, 0, len(byY))
		for y := range byY {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		p := models.Page{Number: i}
		for _, y := range ys {
			items := byY[y]
			sort.SliceStable(items, func(a, b int) bool { return items[a].X < items[b].X })
			addRow(&p, items)
		}
		doc.Pages = append(doc.Pages, p)
	}
	return doc
}

// addRow appends one visual row to the page as a line and as cells. Cells
// are split where the horizontal gap between text runs exceeds columnGap;
// the line keeps two spaces at each cell boundary.
func addRow(p *models.Page, items []pdf.Text) {
	cells := splitCells(items)
	if len(cells) == 0 {
		return
	}
	p.Rows = append(p.Rows, cells)
	p.Lines = append(p.Lines, strings.Join(cells, "  "))
}

func splitCells(items []pdf.Text) []string {
	var cells []string
	var cur strings.Builder
	var prevEnd float64
	for i, t := range items {
		if i > 0 {
			gap := t.X - prevEnd
			switch {
			case gap > columnGap:
				if s := strings.TrimSpace(cur.String()); s != "" {
					cells = append(cells, s)
				}
				cur.Reset()
			case gap > wordGap:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(t.S)
		prevEnd = textEnd(t)
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		cells = append(cells, s)
	}
	for i, c := range cells {
		cells[i] = strings.Join(strings.Fields(c), " ")
	}
	return cells
}

// textEnd estimates where a text run ends. GetTextByRow reports no widths,
// so those runs are measured by rune count.
func textEnd(t pdf.Text) float64 {
	if t.W > 0 {
		return t.X + t.W
	}
	size := t.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	return t.X + float64(utf8.RuneCountInString(t.S))*size*0.5
}

func extractByPagePlainText(r *pdf.Reader, numPages int) *models.Document {
	doc := &models.Document{}
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		doc.Pages = append(doc.Pages, textPage(i, text))
	}
	return doc
}

func extractByReaderPlainText(r *pdf.Reader) *models.Document {
	reader, err := r.GetPlainText()
	if err != nil {
		return &models.Document{}
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return &models.Document{}
	}
	return &models.Document{Pages: []models.Page{textPage(1, string(data))}}
}

// extractWithPdftotext shells out to poppler-utils, page by page so page
// boundaries survive.
func extractWithPdftotext(path string) (*models.Document, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := 1
	if out, err := exec.Command("pdfinfo", path).Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Pages:") {
				if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); err == nil && n > 0 {
					numPages = n
				}
			}
		}
	}

	doc := &models.Document{}
	for i := 1; i <= numPages; i++ {
		n := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", n, "-l", n, path, "-").Output()
		if err != nil {
			continue
		}
		doc.Pages = append(doc.Pages, textPage(i, string(out)))
	}
	if !IsReadable(doc) {
		return nil, ErrNoText
	}
	return doc, nil
}
