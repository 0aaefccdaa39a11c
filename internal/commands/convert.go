package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-parser/internal/batch"
	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/parser"
	"github.com/insightdelivered/statement-parser/internal/summary"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

type convertOptions struct {
	bank        string
	format      string
	output      string
	header      bool
	showSummary bool
	workers     int
	trace       bool
}

func newConvertCommand(e *env) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <statement.pdf|statement.txt>...",
		Short: "Convert statements to CSV or JSON",
		Example: `  # Auto-detect bank and convert
  statement-parser convert statement.pdf

  # Specify bank explicitly
  statement-parser convert --bank=cimb statement.pdf

  # Merge several statements into one JSON report
  statement-parser convert --bank=maybank --format=json --output=report.json jan.pdf feb.pdf mar.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, e, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.bank, "bank", "", "bank id (auto-detected if omitted); see 'banks'")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file; several inputs are merged into it (default: one file per input)")
	cmd.Flags().BoolVar(&opts.header, "header", true, "include account metadata rows in single-statement CSV")
	cmd.Flags().BoolVar(&opts.showSummary, "summary", false, "print a monthly summary")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "documents processed concurrently (default from config)")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "log how every line was classified")

	return cmd
}

func runConvert(cmd *cobra.Command, e *env, opts convertOptions, inputs []string) error {
	out := cmd.OutOrStdout()

	opts.format = strings.ToLower(opts.format)
	if opts.format != "csv" && opts.format != "json" {
		return fmt.Errorf("unknown format %q: use csv or json", opts.format)
	}
	if opts.bank != "" {
		if _, err := parser.Lookup(opts.bank); err != nil {
			return err
		}
	}

	jobs := make([]batch.Job, 0, len(inputs))
	for _, path := range inputs {
		src, err := sourceFor(path)
		if err != nil {
			return err
		}
		jobs = append(jobs, batch.Job{Bank: opts.bank, Source: src, Name: filepath.Base(path)})
	}

	store, closeStore, err := e.openHistory(false)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer closeStore()

	p := &batch.Processor{Workers: e.cfg.Batch.Workers, Origin: "cli"}
	p.Options.Trace = opts.trace
	if opts.workers > 0 {
		p.Workers = opts.workers
	}
	if store != nil {
		p.History = store
	}

	report, err := p.Process(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	if opts.trace {
		for _, res := range report.Results {
			for _, l := range res.Trace {
				e.log.Debug().Str("source_file", res.SourceFile).Int("page", l.Page).Int("line", l.Line).
					Str("result", l.Result).Msg(l.Text)
			}
		}
	}

	var converted []*models.Result
	for i, res := range report.Results {
		fmt.Fprintf(out, "%s: %s", inputs[i], res.Status)
		if res.Bank != "" {
			fmt.Fprintf(out, " [%s]", res.Bank)
		}
		switch res.Status {
		case models.StatusFailed:
			fmt.Fprintf(out, ": %s\n", res.Reason)
			continue
		case models.StatusEmpty:
			fmt.Fprintln(out, ": no transactions found. Try --bank if auto-detection picked the wrong layout.")
		default:
			fmt.Fprintf(out, ", %d transaction(s)\n", len(res.Transactions))
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  Warning: %s\n", w)
		}
		converted = append(converted, res)
	}

	if len(converted) == 0 {
		return errors.New("no statements could be converted")
	}

	if opts.output != "" {
		if err := writeResults(opts, opts.output, converted...); err != nil {
			return err
		}
		fmt.Fprintf(out, "Output: %s\n", opts.output)
	} else {
		for i, res := range report.Results {
			if res.Failed() {
				continue
			}
			path := strings.TrimSuffix(inputs[i], filepath.Ext(inputs[i])) + "." + opts.format
			if err := writeResults(opts, path, res); err != nil {
				return err
			}
			fmt.Fprintf(out, "Output: %s\n", path)
		}
	}

	if opts.showSummary {
		printSummary(out, summary.Transactions(converted))
	}
	return nil
}

// sourceFor picks the decoder by file extension.
func sourceFor(path string) (parser.Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file not found: %s", path)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return extractor.PDFSource{Path: path}, nil
	case ".txt":
		return extractor.TextFileSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("expected .pdf or .txt file, got %q", ext)
	}
}

func writeResults(opts convertOptions, path string, results ...*models.Result) error {
	if opts.format == "json" {
		return (&writer.JSONWriter{}).WriteToFile(path, results...)
	}
	return (&writer.CSVWriter{IncludeHeader: opts.header}).WriteToFile(path, results...)
}

func printSummary(out io.Writer, txns []models.Transaction) {
	months := summary.Monthly(txns)
	if len(months) == 0 {
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tCount\tDebit\tCredit\tNet\tEnding balance\t")
	for _, m := range months {
		ending := ""
		if m.EndingBalance.Valid {
			ending = m.EndingBalance.Decimal.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t\n", m.Month, m.TransactionCount,
			m.TotalDebit.StringFixed(2), m.TotalCredit.StringFixed(2), m.NetChange.StringFixed(2), ending)
	}
	t := summary.Total(txns)
	fmt.Fprintf(tw, "Total\t%d\t%s\t%s\t%s\t\t\n", t.TransactionCount,
		t.TotalDebit.StringFixed(2), t.TotalCredit.StringFixed(2), t.NetChange.StringFixed(2))
	tw.Flush()
}
