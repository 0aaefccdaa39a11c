// Package batch interprets many statements concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/statement-parser/internal/logger"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/parser"
)

// Job is one statement to interpret.
type Job struct {
	// Bank is an institution id or alias. Empty means auto-detect.
	Bank   string
	Source parser.Source
	// Name labels the transactions, usually the file name.
	Name string
}

// Recorder persists run outcomes. history.Store implements it.
type Recorder interface {
	BeginRun(ctx context.Context, runID, origin string) error
	Record(ctx context.Context, runID string, res *models.Result) error
}

// Processor runs jobs on a bounded number of workers.
type Processor struct {
	Workers int
	Options parser.Options
	// History is optional. Recording failures are logged, not returned.
	History Recorder
	// Origin tags recorded runs, such as "cli" or "api".
	Origin string
}

// Report is the outcome of one Process call. Results are in job order.
type Report struct {
	RunID    string
	Results  []*models.Result
	Counts   map[models.Status]int
	Errors   []error
	Duration time.Duration
}

// Transactions returns the number of transactions across all results.
func (r *Report) Transactions() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Transactions)
	}
	return n
}

// Process interprets every job. A document that cannot be read is a failed
// result, not an error. A job naming an unknown institution is a caller
// bug: its result is failed and Process returns the dispatch errors joined.
// Cancelling ctx abandons jobs that have not started.
func (p *Processor) Process(ctx context.Context, jobs []Job) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:   uuid.New().String(),
		Results: make([]*models.Result, len(jobs)),
		Counts:  make(map[models.Status]int),
	}
	log := logger.FromContext(ctx).With().Str("run_id", report.RunID).Logger()

	if p.History != nil {
		if err := p.History.BeginRun(ctx, report.RunID, p.origin()); err != nil {
			log.Warn().Err(err).Msg("history disabled for this run")
			p = &Processor{Workers: p.Workers, Options: p.Options, Origin: p.Origin}
		}
	}

	errs := make([]error, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.run(job)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", job.Name, err)
				res = &models.Result{
					SourceFile:   job.Name,
					Status:       models.StatusFailed,
					Reason:       err.Error(),
					Transactions: []models.Transaction{},
				}
			}
			report.Results[i] = res

			ev := log.Info()
			if res.Failed() {
				ev = log.Warn().Str("reason", res.Reason)
			}
			ev.Str("source_file", job.Name).
				Str("bank", string(res.Bank)).
				Str("status", string(res.Status)).
				Int("count", len(res.Transactions)).
				Msg("statement processed")
			for _, w := range res.Warnings {
				log.Warn().Str("source_file", job.Name).Msg(w)
			}

			if p.History != nil {
				if err := p.History.Record(gctx, report.RunID, res); err != nil {
					log.Warn().Err(err).Str("source_file", job.Name).Msg("failed to record history")
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range report.Results {
		report.Counts[res.Status]++
	}
	for _, err := range errs {
		if err != nil {
			report.Errors = append(report.Errors, err)
		}
	}
	report.Duration = time.Since(start)

	log.Info().
		Int("documents", len(jobs)).
		Int("ok", report.Counts[models.StatusOK]).
		Int("empty", report.Counts[models.StatusEmpty]).
		Int("failed", report.Counts[models.StatusFailed]).
		Int("count", report.Transactions()).
		Dur("duration", report.Duration).
		Msg("batch finished")

	return report, errors.Join(report.Errors...)
}

func (p *Processor) run(job Job) (*models.Result, error) {
	if job.Bank == "" {
		return parser.RunDetected(job.Source, job.Name, p.Options), nil
	}
	return parser.Run(job.Bank, job.Source, job.Name, p.Options)
}

func (p *Processor) workers() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}

func (p *Processor) origin() string {
	if p.Origin == "" {
		return "cli"
	}
	return p.Origin
}
