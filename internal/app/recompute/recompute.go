// Package recompute re-evaluates every stored word and rewrites the values
// that changed, e.g. after an alphabet table was corrected.
package recompute

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gematria/internal/domain"
	"github.com/heartmarshall/gematria/internal/gematria"
)

type wordStore interface {
	ListAfter(ctx context.Context, c domain.PageCursor) ([]domain.Word, error)
	BulkUpsert(ctx context.Context, words []domain.Word) (int, error)
}

type calculator interface {
	CalculateBatch(ctx context.Context, texts []string, workers int) ([]gematria.Result, error)
}

// Config controls a recompute run.
type Config struct {
	PageSize int
	Workers  int
	DryRun   bool
}

// Stats summarizes a recompute run.
type Stats struct {
	Scanned  int
	Changed  int
	Updated  int
	Duration time.Duration
}

// Job walks the catalog in ID order.
type Job struct {
	log   *slog.Logger
	words wordStore
	calc  calculator
	cfg   Config
}

// New creates a recompute Job.
func New(log *slog.Logger, words wordStore, calc calculator, cfg Config) *Job {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}
	return &Job{log: log.With("component", "recompute"), words: words, calc: calc, cfg: cfg}
}

// Run recomputes the catalog page by page. Pages are keyed by the last ID
// seen, so rows written by the job never shift later pages.
func (j *Job) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	var stats Stats

	cursor := domain.PageCursor{AfterID: uuid.Nil, Limit: j.cfg.PageSize}
	for {
		page, err := j.words.ListAfter(ctx, cursor)
		if err != nil {
			return stats, fmt.Errorf("list words after %s: %w", cursor.AfterID, err)
		}
		if len(page) == 0 {
			break
		}
		stats.Scanned += len(page)
		cursor.AfterID = page[len(page)-1].ID

		changed, err := j.changed(ctx, page)
		if err != nil {
			return stats, err
		}
		stats.Changed += len(changed)

		if len(changed) > 0 && !j.cfg.DryRun {
			n, err := j.words.BulkUpsert(ctx, changed)
			if err != nil {
				return stats, fmt.Errorf("upsert page after %s: %w", cursor.AfterID, err)
			}
			stats.Updated += n
		}

		j.log.Debug("page recomputed",
			slog.Int("scanned", stats.Scanned),
			slog.Int("changed", stats.Changed),
		)

		if len(page) < cursor.Limit {
			break
		}
	}

	stats.Duration = time.Since(start)
	j.log.Info("recompute completed",
		slog.Int("scanned", stats.Scanned),
		slog.Int("changed", stats.Changed),
		slog.Int("updated", stats.Updated),
		slog.Bool("dry_run", j.cfg.DryRun),
		slog.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// changed returns the words of page whose stored values differ from a
// fresh evaluation, carrying the fresh values.
func (j *Job) changed(ctx context.Context, page []domain.Word) ([]domain.Word, error) {
	texts := make([]string, len(page))
	for i, w := range page {
		texts[i] = w.TextNormalized
	}

	results, err := j.calc.CalculateBatch(ctx, texts, j.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("calculate page: %w", err)
	}

	var out []domain.Word
	for i, w := range page {
		if w.Values.Array() == results[i].Array() {
			continue
		}
		w.Values = results[i]
		out = append(out, w)
	}
	return out, nil
}
