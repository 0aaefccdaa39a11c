package api

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/batch"
	"github.com/insightdelivered/statement-parser/internal/buildinfo"
	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/logger"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/parser"
	"github.com/insightdelivered/statement-parser/internal/summary"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success         bool                 `json:"success"`
	Error           string               `json:"error,omitempty"`
	Bank            string               `json:"bank,omitempty"`
	Status          models.Status        `json:"status,omitempty"`
	Reason          string               `json:"reason,omitempty"`
	AccountInfo     *models.Account      `json:"accountInfo,omitempty"`
	Transactions    []models.Transaction `json:"transactions"`
	CSV             string               `json:"csv,omitempty"`
	TotalDebit      decimal.Decimal      `json:"totalDebit"`
	TotalCredit     decimal.Decimal      `json:"totalCredit"`
	Count           int                  `json:"count"`
	OpeningBalance  decimal.NullDecimal  `json:"openingBalance"`
	ClosingBalance  decimal.NullDecimal  `json:"closingBalance"`
	SummaryMismatch bool                 `json:"summaryMismatch,omitempty"`
	Warnings        []string             `json:"warnings,omitempty"`
	MonthlySummary  []summary.Month      `json:"monthlySummary,omitempty"`
	RunID           string               `json:"runId,omitempty"`
	Version         string               `json:"version,omitempty"`
	Trace           []models.TraceLine   `json:"trace,omitempty"`
}

// DetectResponse is the JSON response from the /api/detect endpoint.
type DetectResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Bank    string `json:"bank,omitempty"`
	Name    string `json:"name,omitempty"`
}

// BankInfo describes one configured institution.
type BankInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Layout  string   `json:"layout"` // "table" or "text"
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	// Processor runs conversions. Nil means a single worker without history.
	Processor *batch.Processor
	Log       zerolog.Logger
}

// New builds the fiber app with every route registered.
func New(h *Handler, cfg config.ServerConfig) *fiber.App {
	limit := cfg.BodyLimitMB
	if limit <= 0 {
		limit = 32
	}
	app := fiber.New(fiber.Config{
		AppName:               "statement-parser " + buildinfo.Version,
		BodyLimit:             limit << 20,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(h.logRequests)
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST,GET,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Get("/api/health", HandleHealth)
	app.Get("/api/banks", HandleBanks)
	app.Post("/api/detect", h.HandleDetect)
	app.Post("/api/convert", h.HandleConvert)

	// Serve React static files
	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
		// For SPA: serve index.html for non-file routes
		app.Get("/*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			return c.SendFile(filepath.Join(cfg.StaticDir, "index.html"))
		})
	}
	return app
}

// HandleHealth reports liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": buildinfo.String(),
	})
}

// HandleBanks lists the configured institutions.
func HandleBanks(c *fiber.Ctx) error {
	var banks []BankInfo
	for _, v := range parser.Banks() {
		layout := "text"
		if v.Grid {
			layout = "table"
		}
		banks = append(banks, BankInfo{ID: string(v.Bank), Name: v.Name, Aliases: v.Aliases, Layout: layout})
	}
	return c.JSON(banks)
}

// HandleDetect identifies the institution of an uploaded statement.
func (h *Handler) HandleDetect(c *fiber.Ctx) error {
	req, err := readRequest(c)
	if err != nil {
		return err
	}
	defer req.close()

	doc, err := req.job.Source.Document()
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(DetectResponse{Error: "PDF extraction failed: " + err.Error()})
	}
	bank, err := parser.AutoDetect(doc)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(DetectResponse{Error: err.Error()})
	}
	v, err := parser.Lookup(string(bank))
	if err != nil {
		return err
	}
	return c.JSON(DetectResponse{Success: true, Bank: string(bank), Name: v.Name})
}

// HandleConvert interprets one statement, uploaded as a PDF or supplied as
// already extracted text or pages. An unknown bank is a 400; a statement
// that cannot be read is a 422 carrying status "failed".
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	req, err := readRequest(c)
	if err != nil {
		return err
	}
	defer req.close()

	if req.job.Bank != "" {
		if _, err := parser.Lookup(req.job.Bank); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown bank: "+req.job.Bank+". See /api/banks.")
		}
	}

	p := h.processor(req.trace)
	report, err := p.Process(c.UserContext(), []batch.Job{req.job})
	if err != nil {
		if errors.Is(err, parser.ErrUnknownBank) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	res := report.Results[0]

	resp := ConvertResponse{
		Success:         !res.Failed(),
		Bank:            string(res.Bank),
		Status:          res.Status,
		Reason:          res.Reason,
		Transactions:    res.Transactions,
		TotalDebit:      res.TotalDebit(),
		TotalCredit:     res.TotalCredit(),
		Count:           len(res.Transactions),
		OpeningBalance:  res.OpeningBalance,
		ClosingBalance:  res.ClosingBalance,
		SummaryMismatch: res.SummaryMismatch,
		Warnings:        res.Warnings,
		RunID:           report.RunID,
		Version:         buildinfo.Version,
		Trace:           res.Trace,
	}
	// Ensure transactions is never nil (nil marshals to JSON null, not [])
	if resp.Transactions == nil {
		resp.Transactions = []models.Transaction{}
	}
	if res.Account != (models.Account{}) {
		acct := res.Account
		resp.AccountInfo = &acct
	}

	if res.Failed() {
		resp.Error = res.Reason
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	}

	resp.MonthlySummary = summary.Monthly(res.Transactions)
	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: req.header}
	if err := csvWriter.Write(&csvBuf, res); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "CSV generation failed: "+err.Error())
	}
	resp.CSV = csvBuf.String()

	return c.JSON(resp)
}

func (h *Handler) processor(trace bool) *batch.Processor {
	p := batch.Processor{Workers: 1}
	if h.Processor != nil {
		p = *h.Processor
	}
	p.Options.Trace = trace
	p.Origin = "api"
	return &p
}

// logRequests puts the handler logger in the request context and logs
// every request once it completes.
func (h *Handler) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	c.SetUserContext(logger.WithContext(c.UserContext(), h.Log))

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}
	ev := h.Log.Info()
	if status >= fiber.StatusInternalServerError {
		ev = h.Log.Error().AnErr("error", err)
	}
	ev.Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error: " + err.Error()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}
