package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/larose/qryeval/internal/logger"
	"github.com/larose/qryeval/search"
	"github.com/larose/qryeval/search/query"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Workers      int
	QueryTimeout time.Duration
}

// Summary counts queries by outcome.
type Summary struct {
	Queries int
	Ranked  int
	Empty   int
	Skipped int
}

type outcome struct {
	status string
	ranked []query.ScoreEntry
}

// Runner evaluates queries concurrently and writes their results in query
// file order.
type Runner struct {
	searcher *search.Searcher
	writer   *TrecWriter
	metrics  *Metrics
	options  Options
	logger   *slog.Logger
}

func NewRunner(searcher *search.Searcher, writer *TrecWriter, metrics *Metrics, options Options) *Runner {
	if options.Workers <= 0 {
		options.Workers = 1
	}
	if metrics == nil {
		metrics = NewMetrics()
	}

	return &Runner{
		searcher: searcher,
		writer:   writer,
		metrics:  metrics,
		options:  options,
		logger:   logger.WithComponent("run"),
	}
}

// Run evaluates every query. Queries that fail to parse, use an operator
// the model does not define, carry an invalid parameter or exceed the
// query timeout are logged and produce no rows. Any other error aborts the
// run and nothing is written.
func (r *Runner) Run(ctx context.Context, queries []Query) (Summary, error) {
	summary := Summary{Queries: len(queries)}
	outcomes := make([]outcome, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.options.Workers)

	for i, q := range queries {
		if q.Err != nil {
			r.skip(q, statusSkipped, q.Err)
			outcomes[i] = outcome{status: statusSkipped}
			continue
		}

		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			o, err := r.evaluate(gctx, q)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	for i, q := range queries {
		o := outcomes[i]

		switch o.status {
		case statusOK:
			summary.Ranked++
		case statusEmpty:
			summary.Empty++
		default:
			summary.Skipped++
			continue
		}

		if err := r.writer.Write(q.Id, o.ranked, o.status == statusEmpty); err != nil {
			return summary, fmt.Errorf("writing results of query %s: %w", q.Id, err)
		}
	}

	if err := r.writer.Flush(); err != nil {
		return summary, fmt.Errorf("writing results: %w", err)
	}

	return summary, nil
}

func (r *Runner) evaluate(ctx context.Context, q Query) (outcome, error) {
	queryCtx := ctx
	if r.options.QueryTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, r.options.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	results, empty, err := r.searcher.ProcessQuery(queryCtx, q.Text)
	duration := time.Since(start)

	r.metrics.QueryDuration.Observe(duration.Seconds())

	if err != nil {
		switch {
		case errors.Is(err, query.ErrSyntax),
			errors.Is(err, query.ErrConfiguration),
			errors.Is(err, query.ErrInvalidParameter):
			r.skip(q, statusSkipped, err)
			return outcome{status: statusSkipped}, nil
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			r.skip(q, statusTimeout, err)
			return outcome{status: statusTimeout}, nil
		default:
			r.metrics.QueriesTotal.WithLabelValues(statusFailed).Inc()
			return outcome{}, fmt.Errorf("query %s: %w", q.Id, err)
		}
	}

	if empty {
		r.metrics.QueriesTotal.WithLabelValues(statusEmpty).Inc()
		r.logger.Info("query optimized to nothing", "query_id", q.Id, "duration", duration)
		return outcome{status: statusEmpty}, nil
	}

	r.metrics.QueriesTotal.WithLabelValues(statusOK).Inc()
	r.metrics.QueryResults.Observe(float64(results.Len()))
	r.logger.Info("query evaluated", "query_id", q.Id, "results", results.Len(), "duration", duration)

	return outcome{
		status: statusOK,
		ranked: results.Top(r.writer.OutputLength()),
	}, nil
}

func (r *Runner) skip(q Query, status string, err error) {
	r.metrics.QueriesTotal.WithLabelValues(status).Inc()
	r.logger.Warn("skipping query", "query_id", q.Id, "line", q.Line, "status", status, "error", err)
}
