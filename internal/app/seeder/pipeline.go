package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/heartmarshall/gematria/internal/app/seeder/csvlist"
	"github.com/heartmarshall/gematria/internal/app/seeder/wordlist"
	"github.com/heartmarshall/gematria/internal/domain"
)

// Phase names in canonical execution order.
const (
	PhaseWordlist = "wordlist"
	PhaseCSV      = "csv"
)

var allPhases = []string{PhaseWordlist, PhaseCSV}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Read     int // terms read from the source file
	Computed int // terms evaluated by the engine
	Inserted int // rows inserted or refreshed
	Skipped  int // duplicates, already stored terms, or dry-run
	Errors   int // terms rejected by the engine
	Duration time.Duration
	Err      error
}

// Pipeline orchestrates term ingestion into the word catalog.
type Pipeline struct {
	log     *slog.Logger
	repo    WordBulkRepo
	calc    Calculator
	cfg     Config
	results map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, repo WordBulkRepo, calc Calculator, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log.With("component", "seeder"),
		repo:    repo,
		calc:    calc,
		cfg:     cfg,
		results: make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return maps.Clone(p.results)
}

// HasErrors returns true if any phase recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil || r.Errors > 0 {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases
// run, still in canonical order. A failing phase does not stop later ones;
// only context cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun, err := selectPhases(phases)
	if err != nil {
		return err
	}

	for _, phase := range toRun {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case PhaseWordlist:
			result = p.runSource(ctx, phase, p.cfg.WordlistPath, wordlist.Parse)
		case PhaseCSV:
			result = p.runSource(ctx, phase, p.cfg.CSVPath, csvlist.Parse)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			continue
		}
		p.log.Info("phase completed",
			slog.String("phase", phase),
			slog.Int("read", result.Read),
			slog.Int("computed", result.Computed),
			slog.Int("inserted", result.Inserted),
			slog.Int("skipped", result.Skipped),
			slog.Int("errors", result.Errors),
			slog.Duration("duration", result.Duration),
		)
	}

	p.log.Info("pipeline completed", slog.Int("phases_run", len(toRun)), slog.Bool("dry_run", p.cfg.DryRun))
	return ctx.Err()
}

func selectPhases(phases []string) ([]string, error) {
	if len(phases) == 0 {
		return allPhases, nil
	}

	filter := make(map[string]bool, len(phases))
	for _, ph := range phases {
		if !slices.Contains(allPhases, ph) {
			return nil, fmt.Errorf("unknown phase %q", ph)
		}
		filter[ph] = true
	}

	var filtered []string
	for _, ph := range allPhases {
		if filter[ph] {
			filtered = append(filtered, ph)
		}
	}
	return filtered, nil
}

type parseFunc func(path string) ([]wordlist.Term, error)

// runSource reads one term file and writes its terms. Each term is
// normalized, deduplicated, validated, evaluated in parallel and upserted
// in batches.
func (p *Pipeline) runSource(ctx context.Context, phase, path string, parse parseFunc) PhaseResult {
	if path == "" {
		return PhaseResult{Skipped: 1, Err: fmt.Errorf("%s path not configured", phase)}
	}

	terms, err := parse(path)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("parse %s: %w", phase, err)}
	}

	result := PhaseResult{Read: len(terms)}
	pending := p.prepare(terms, &result)

	if p.cfg.SkipExisting && len(pending) > 0 {
		pending, err = p.dropExisting(ctx, pending, &result)
		if err != nil {
			return PhaseResult{Err: fmt.Errorf("lookup existing: %w", err)}
		}
	}

	source := p.cfg.Source
	if source == "" {
		source = phase
	}

	inserted, err := batchProcess(pending, p.cfg.BatchSize, func(batch []pendingTerm) (int, error) {
		texts := make([]string, len(batch))
		for i, t := range batch {
			texts[i] = t.normalized
		}
		values, err := p.calc.CalculateBatch(ctx, texts, p.cfg.Workers)
		if err != nil {
			return 0, fmt.Errorf("calculate: %w", err)
		}
		result.Computed += len(values)

		if p.cfg.DryRun {
			result.Skipped += len(batch)
			return 0, nil
		}

		words := make([]domain.Word, len(batch))
		for i, t := range batch {
			src := source
			if t.source != "" {
				src = t.source
			}
			words[i] = domain.NewWord(t.text, src, values[i])
		}
		return p.repo.BulkUpsert(ctx, words)
	})
	result.Inserted = inserted
	if err != nil {
		result.Err = fmt.Errorf("upsert words: %w", err)
	}

	return result
}

type pendingTerm struct {
	text       string
	normalized string
	source     string
}

// prepare validates and deduplicates terms. Rejected terms are counted as
// errors and logged with their line number.
func (p *Pipeline) prepare(terms []wordlist.Term, result *PhaseResult) []pendingTerm {
	seen := make(map[string]bool, len(terms))
	pending := make([]pendingTerm, 0, len(terms))

	for _, t := range terms {
		if err := p.calc.Validate(t.Text); err != nil {
			result.Errors++
			p.log.Warn("term rejected", slog.Int("line", t.Line), slog.String("error", err.Error()))
			continue
		}

		normalized := domain.NormalizeText(t.Text)
		if normalized == "" || seen[normalized] {
			result.Skipped++
			continue
		}
		seen[normalized] = true

		pending = append(pending, pendingTerm{
			text:       t.Text,
			normalized: normalized,
			source:     t.Source,
		})
	}
	return pending
}

func (p *Pipeline) dropExisting(ctx context.Context, pending []pendingTerm, result *PhaseResult) ([]pendingTerm, error) {
	texts := make([]string, len(pending))
	for i, t := range pending {
		texts[i] = t.normalized
	}

	existing, err := batchedLookup(ctx, p.repo, texts, p.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	kept := pending[:0]
	for _, t := range pending {
		if existing[t.normalized] {
			result.Skipped++
			continue
		}
		kept = append(kept, t)
	}
	return kept, nil
}

// batchProcess splits items into batches and processes each via fn.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// batchedLookup splits a large text slice into chunks and calls ExistingTexts.
func batchedLookup(ctx context.Context, repo WordBulkRepo, texts []string, batchSize int) (map[string]bool, error) {
	if len(texts) == 0 {
		return make(map[string]bool), nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	result := make(map[string]bool, len(texts))
	for i := 0; i < len(texts); i += batchSize {
		end := min(i+batchSize, len(texts))
		batch, err := repo.ExistingTexts(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		maps.Copy(result, batch)
	}
	return result, nil
}
