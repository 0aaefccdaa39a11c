package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Entry is one recorded document.
type Entry struct {
	ID              int64
	RunID           string
	Origin          string
	SourceFile      string
	Bank            models.BankType
	Status          models.Status
	Reason          string
	Transactions    int
	TotalDebit      decimal.Decimal
	TotalCredit     decimal.Decimal
	OpeningBalance  decimal.NullDecimal
	ClosingBalance  decimal.NullDecimal
	SummaryMismatch bool
	RecordedAt      time.Time
}

// Store manages the history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens a SQLite database connection.
// It enables WAL mode and foreign key constraints.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Batch workers record concurrently; one connection serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// BeginRun registers a run. Registering the same id twice is a no-op.
func (s *Store) BeginRun(ctx context.Context, runID, origin string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO runs (id, origin) VALUES (?, ?)`, runID, origin)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Record stores the outcome of one document under a run registered with
// BeginRun.
func (s *Store) Record(ctx context.Context, runID string, res *models.Result) error {
	query := `
		INSERT INTO documents (
			run_id, source_file, bank, status, reason, transactions,
			total_debit, total_credit, opening_balance, closing_balance, summary_mismatch
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		runID,
		res.SourceFile,
		string(res.Bank),
		string(res.Status),
		res.Reason,
		len(res.Transactions),
		res.TotalDebit().StringFixed(2),
		res.TotalCredit().StringFixed(2),
		res.OpeningBalance,
		res.ClosingBalance,
		res.SummaryMismatch,
	)
	if err != nil {
		return fmt.Errorf("failed to record document %q: %w", res.SourceFile, err)
	}
	return nil
}

const selectEntries = `
	SELECT d.id, d.run_id, r.origin, d.source_file, d.bank, d.status, d.reason,
		d.transactions, d.total_debit, d.total_credit,
		d.opening_balance, d.closing_balance, d.summary_mismatch, d.recorded_at
	FROM documents d
	JOIN runs r ON r.id = d.run_id
`

// Recent returns the most recently recorded documents, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectEntries+` ORDER BY d.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return scanEntries(rows)
}

// Run returns the documents of one run in recording order.
func (s *Store) Run(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntries+` WHERE d.run_id = ? ORDER BY d.id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run %q: %w", runID, err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var bank, status string
		if err := rows.Scan(
			&e.ID,
			&e.RunID,
			&e.Origin,
			&e.SourceFile,
			&bank,
			&status,
			&e.Reason,
			&e.Transactions,
			&e.TotalDebit,
			&e.TotalCredit,
			&e.OpeningBalance,
			&e.ClosingBalance,
			&e.SummaryMismatch,
			&e.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Bank = models.BankType(bank)
		e.Status = models.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
