// Package history records conversion runs in a SQLite database.
package history

// Schema defines the SQL statements to create database tables.
const Schema = `
-- One row per batch or API conversion
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,               -- uuid
    origin TEXT NOT NULL,              -- 'cli' or 'api'
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- One row per interpreted statement
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    source_file TEXT NOT NULL,
    bank TEXT NOT NULL,
    status TEXT NOT NULL,              -- 'ok', 'empty' or 'failed'
    reason TEXT NOT NULL DEFAULT '',
    transactions INTEGER NOT NULL,
    total_debit TEXT NOT NULL,         -- exact decimal
    total_credit TEXT NOT NULL,
    opening_balance TEXT,
    closing_balance TEXT,
    summary_mismatch INTEGER NOT NULL DEFAULT 0,
    recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_run
    ON documents(run_id);

CREATE INDEX IF NOT EXISTS idx_documents_recorded
    ON documents(recorded_at);
`
