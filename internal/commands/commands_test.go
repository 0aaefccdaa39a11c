package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-parser/internal/parser"
)

const metroStatement = `Metro Bank PLC
Account Statement
Date Description Paid out Paid in Balance
12/03/2024  GROCERY STORE  45.20    1000.00
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:")
}

func TestBanksCommand(t *testing.T) {
	out, err := runCLI(t, "banks")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "public-bank")
	assert.Contains(t, out, "pbb")
	assert.Contains(t, out, "table")
}

func TestConvert_CSVPerInput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "march.txt", metroStatement)

	out, err := runCLI(t, "convert", "--bank", "metro", input)
	require.NoError(t, err)
	assert.Contains(t, out, "ok [metro], 1 transaction(s)")

	data, err := os.ReadFile(filepath.Join(dir, "march.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Bank,metro")
	assert.Contains(t, string(data), "2024-03-12,GROCERY STORE,45.20,0.00,1000.00,1,metro,march.txt")
}

func TestConvert_MergedJSONWithSummary(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", metroStatement)
	b := writeFile(t, dir, "b.txt", metroStatement)
	output := filepath.Join(dir, "report.json")

	out, err := runCLI(t, "convert", "--format", "json", "--output", output, "--summary", "--workers", "2", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "Output: "+output)
	assert.Contains(t, out, "2024-03")
	assert.Contains(t, out, "Total")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var report struct {
		Transactions []map[string]any `json:"transactions"`
		Documents    []map[string]any `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Len(t, report.Transactions, 2)
	require.Len(t, report.Documents, 2)
	assert.Equal(t, "a.txt", report.Documents[0]["source_file"])
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "march.txt", metroStatement)

	_, err := runCLI(t, "convert", "--bank", "monzo", input)
	assert.ErrorIs(t, err, parser.ErrUnknownBank)

	_, err = runCLI(t, "convert", "--format", "xlsx", input)
	assert.ErrorContains(t, err, "unknown format")

	_, err = runCLI(t, "convert", filepath.Join(dir, "missing.pdf"))
	assert.ErrorContains(t, err, "input file not found")

	_, err = runCLI(t, "convert", writeFile(t, dir, "statement.docx", "PK"))
	assert.ErrorContains(t, err, "expected .pdf or .txt")

	_, err = runCLI(t, "convert")
	assert.Error(t, err)
}

func TestConvert_AllFailed(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "scan.txt", "\f\f")

	out, err := runCLI(t, "convert", "--bank", "cimb", input)
	assert.ErrorContains(t, err, "no statements could be converted")
	assert.Contains(t, out, "failed [cimb]: decode:")
	assert.NoFileExists(t, filepath.Join(dir, "scan.csv"))
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	metro := writeFile(t, dir, "metro.txt", metroStatement)

	out, err := runCLI(t, "detect", metro)
	require.NoError(t, err)
	assert.Contains(t, out, metro+": metro")

	other := writeFile(t, dir, "other.txt", "Credit Union account statement\nDate Description Amount Balance\n01/01/2024 X 1.00 2.00")
	out, err = runCLI(t, "detect", metro, other)
	assert.ErrorContains(t, err, "1 of 2")
	assert.Contains(t, out, "could not auto-detect")
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STATEMENT_HISTORY_ENABLED", "true")
	t.Setenv("STATEMENT_HISTORY_DB", filepath.Join(dir, "history.db"))

	out, err := runCLI(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No history recorded yet.")

	input := writeFile(t, dir, "march.txt", metroStatement)
	_, err = runCLI(t, "convert", input)
	require.NoError(t, err)

	out, err = runCLI(t, "history", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "march.txt")
	assert.Contains(t, out, "metro")
	assert.Contains(t, out, "45.20")

	out, err = runCLI(t, "history", "--run", "no-such-run")
	require.NoError(t, err)
	assert.Contains(t, out, "No history recorded yet.")
}
