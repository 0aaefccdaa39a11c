package api

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-parser/internal/batch"
	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/models"
)

// convertRequest is the JSON body accepted instead of a PDF upload, for
// clients that extract text themselves (pdf.js in the browser).
type convertRequest struct {
	Bank       string        `json:"bank"`
	SourceFile string        `json:"source_file"`
	Text       string        `json:"text"`
	Pages      []models.Page `json:"pages"`
	Trace      bool          `json:"trace"`
	Header     *bool         `json:"header"`
}

// request is a decoded convert or detect request.
type request struct {
	job    batch.Job
	header bool
	trace  bool
	closer io.Closer
}

func (r *request) close() {
	if r.closer != nil {
		r.closer.Close()
	}
}

// documentSource supplies pages sent in the request body.
type documentSource struct {
	doc *models.Document
}

func (s documentSource) Document() (*models.Document, error) {
	return s.doc, nil
}

func readRequest(c *fiber.Ctx) (*request, error) {
	if strings.HasSuffix(strings.ToLower(strings.Split(c.Get(fiber.HeaderContentType), ";")[0]), "json") {
		return readJSON(c)
	}
	return readMultipart(c)
}

func readJSON(c *fiber.Ctx) (*request, error) {
	var body convertRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid JSON body: "+err.Error())
	}
	req := &request{header: true, trace: body.Trace}
	if body.Header != nil {
		req.header = *body.Header
	}
	req.job = batch.Job{Bank: body.Bank, Name: body.SourceFile}
	if req.job.Name == "" {
		req.job.Name = "upload"
	}
	switch {
	case len(body.Pages) > 0:
		doc := &models.Document{Pages: body.Pages}
		for i := range doc.Pages {
			if doc.Pages[i].Number == 0 {
				doc.Pages[i].Number = i + 1
			}
		}
		req.job.Source = documentSource{doc: doc}
	case strings.TrimSpace(body.Text) != "":
		req.job.Source = extractor.TextSource{Text: body.Text}
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "Request has no text or pages.")
	}
	return req, nil
}

func readMultipart(c *fiber.Ctx) (*request, error) {
	req := &request{
		header: c.FormValue("header") != "false",
		trace:  c.FormValue("trace") == "true",
	}
	req.job.Bank = c.FormValue("bank")

	file, err := c.FormFile("file")
	if err == nil {
		req.job.Name = file.Filename
	}

	// Check if pre-extracted text was provided (from client-side pdf.js extraction)
	if text := c.FormValue("extractedText"); strings.TrimSpace(text) != "" {
		if req.job.Name == "" {
			req.job.Name = "upload"
		}
		req.job.Source = extractor.TextSource{Text: text}
		return req, nil
	}

	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Only PDF files are supported.")
	}
	f, err := file.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file.")
	}
	req.closer = f
	req.job.Source = extractor.ReaderSource{R: f, Size: file.Size}
	return req, nil
}
