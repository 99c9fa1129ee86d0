package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/heartmarshall/gematria/internal/domain"
	"github.com/heartmarshall/gematria/internal/gematria"
)

// mockRepo records calls to verify pipeline behavior.
type mockRepo struct {
	mu sync.Mutex

	upserted      []domain.Word
	upsertCalls   int
	existing      map[string]bool
	lookupBatches int

	bulkUpsertErr    error
	existingTextsErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{existing: make(map[string]bool)}
}

func (m *mockRepo) BulkUpsert(_ context.Context, words []domain.Word) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if m.bulkUpsertErr != nil {
		return 0, m.bulkUpsertErr
	}
	m.upserted = append(m.upserted, words...)
	return len(words), nil
}

func (m *mockRepo) ExistingTexts(_ context.Context, texts []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupBatches++
	if m.existingTextsErr != nil {
		return nil, m.existingTextsErr
	}
	found := make(map[string]bool)
	for _, t := range texts {
		if m.existing[t] {
			found[t] = true
		}
	}
	return found, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// createTempFile creates a temporary file with the given content for testing.
func createTempFile(t *testing.T, prefix, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), prefix+"_*")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if content != "" {
		if _, err := f.WriteString(content); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
	f.Close()
	return f.Name()
}

func TestPipeline_WordlistAndCSV(t *testing.T) {
	wl := createTempFile(t, "words", "# header comment\nLove\nlove\n\nשלום\n")
	csvPath := createTempFile(t, "terms", "text,source\nλογος,nt\nhello world,\n")

	repo := newMockRepo()
	cfg := Config{WordlistPath: wl, CSVPath: csvPath, BatchSize: 2, Workers: 2}

	p := NewPipeline(testLogger(), repo, gematria.New(), cfg)
	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := p.Results()
	w := results[PhaseWordlist]
	if w.Read != 3 || w.Computed != 2 || w.Inserted != 2 || w.Skipped != 1 || w.Errors != 0 {
		t.Errorf("wordlist result = %+v", w)
	}
	c := results[PhaseCSV]
	if c.Read != 2 || c.Inserted != 2 {
		t.Errorf("csv result = %+v", c)
	}
	if p.HasErrors() {
		t.Error("expected no errors")
	}

	if len(repo.upserted) != 4 {
		t.Fatalf("upserted %d words, want 4", len(repo.upserted))
	}

	byText := make(map[string]domain.Word)
	for _, w := range repo.upserted {
		byText[w.TextNormalized] = w
	}
	if got := byText["love"]; got.Source != PhaseWordlist || got.Values.Value(gematria.English) != 54 {
		t.Errorf("love = %+v", got)
	}
	if got := byText["שלום"]; got.Values.Value(gematria.HebrewFull) != 376 {
		t.Errorf("shalom hebrew_full = %d, want 376", got.Values.Value(gematria.HebrewFull))
	}
	if got := byText["λογος"]; got.Source != "nt" || got.Values.Value(gematria.Greek) != 373 {
		t.Errorf("logos = %+v", got)
	}
	if got := byText["hello world"]; got.Source != PhaseCSV {
		t.Errorf("hello world source = %q, want %q", got.Source, PhaseCSV)
	}
}

func TestPipeline_ConfiguredSource(t *testing.T) {
	wl := createTempFile(t, "words", "alpha\n")

	repo := newMockRepo()
	p := NewPipeline(testLogger(), repo, gematria.New(), Config{WordlistPath: wl, Source: "bible"})
	if err := p.Run(context.Background(), []string{PhaseWordlist}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.upserted) != 1 || repo.upserted[0].Source != "bible" {
		t.Errorf("upserted = %+v", repo.upserted)
	}
}

func TestPipeline_DryRunNoRepoWrites(t *testing.T) {
	wl := createTempFile(t, "words", "one\ntwo\nthree\n")

	repo := newMockRepo()
	cfg := Config{WordlistPath: wl, DryRun: true, BatchSize: 100}

	p := NewPipeline(testLogger(), repo, gematria.New(), cfg)
	if err := p.Run(context.Background(), []string{PhaseWordlist}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.upsertCalls != 0 {
		t.Errorf("expected no repo writes in dry run, got %d calls", repo.upsertCalls)
	}
	r := p.Results()[PhaseWordlist]
	if r.Computed != 3 || r.Skipped != 3 || r.Inserted != 0 {
		t.Errorf("dry run result = %+v", r)
	}
}

func TestPipeline_RejectedTermsCounted(t *testing.T) {
	wl := createTempFile(t, "words", "short\nmuch too long\n\xff\xfe\n")

	repo := newMockRepo()
	p := NewPipeline(testLogger(), repo, gematria.New(gematria.WithMaxLength(6)), Config{WordlistPath: wl})
	if err := p.Run(context.Background(), []string{PhaseWordlist}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := p.Results()[PhaseWordlist]
	if r.Errors != 2 || r.Inserted != 1 {
		t.Errorf("result = %+v, want 2 errors and 1 insert", r)
	}
	if !p.HasErrors() {
		t.Error("expected HasErrors to report rejected terms")
	}
}

func TestPipeline_SkipExisting(t *testing.T) {
	wl := createTempFile(t, "words", "old\nnew\nOLD\n")

	repo := newMockRepo()
	repo.existing["old"] = true
	cfg := Config{WordlistPath: wl, SkipExisting: true, BatchSize: 1}

	p := NewPipeline(testLogger(), repo, gematria.New(), cfg)
	if err := p.Run(context.Background(), []string{PhaseWordlist}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.upserted) != 1 || repo.upserted[0].TextNormalized != "new" {
		t.Errorf("upserted = %+v, want only new", repo.upserted)
	}
	r := p.Results()[PhaseWordlist]
	if r.Skipped != 2 {
		t.Errorf("skipped = %d, want 2 (duplicate + existing)", r.Skipped)
	}
	if repo.lookupBatches != 2 {
		t.Errorf("lookup batches = %d, want 2", repo.lookupBatches)
	}
}

func TestPipeline_ErrorIsolation(t *testing.T) {
	wl := createTempFile(t, "words", "alpha\n")
	csvPath := createTempFile(t, "terms", "beta\n")

	repo := newMockRepo()
	repo.bulkUpsertErr = errors.New("db error")

	p := NewPipeline(testLogger(), repo, gematria.New(), Config{WordlistPath: wl, CSVPath: csvPath})
	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("pipeline should not return fatal error, got: %v", err)
	}

	results := p.Results()
	for _, phase := range []string{PhaseWordlist, PhaseCSV} {
		r, ok := results[phase]
		if !ok {
			t.Fatalf("expected %s phase to be attempted", phase)
		}
		if !errors.Is(r.Err, repo.bulkUpsertErr) {
			t.Errorf("%s err = %v, want db error", phase, r.Err)
		}
	}
	if !p.HasErrors() {
		t.Error("expected HasErrors")
	}
}

func TestPipeline_MissingPath(t *testing.T) {
	csvPath := createTempFile(t, "terms", "beta\n")

	p := NewPipeline(testLogger(), newMockRepo(), gematria.New(), Config{CSVPath: csvPath})
	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := p.Results()
	if results[PhaseWordlist].Err == nil {
		t.Error("expected wordlist phase to fail without a path")
	}
	if results[PhaseCSV].Err != nil || results[PhaseCSV].Inserted != 1 {
		t.Errorf("csv result = %+v", results[PhaseCSV])
	}
}

func TestPipeline_PhaseFilter(t *testing.T) {
	csvPath := createTempFile(t, "terms", "beta\n")

	p := NewPipeline(testLogger(), newMockRepo(), gematria.New(), Config{CSVPath: csvPath})
	if err := p.Run(context.Background(), []string{PhaseCSV}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := p.Results()
	if _, ok := results[PhaseWordlist]; ok {
		t.Error("wordlist should NOT run when filter is csv only")
	}
	if _, ok := results[PhaseCSV]; !ok {
		t.Error("expected csv phase to run")
	}

	if err := p.Run(context.Background(), []string{"wiktionary"}); err == nil {
		t.Error("expected error for unknown phase")
	}
}

func TestPipeline_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(testLogger(), newMockRepo(), gematria.New(), Config{})
	if err := p.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestBatchProcess(t *testing.T) {
	items := make([]int, 7)
	for i := range items {
		items[i] = i
	}

	var batches [][]int
	total, err := batchProcess(items, 3, func(batch []int) (int, error) {
		batches = append(batches, batch)
		return len(batch), nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 {
		t.Errorf("expected total 7, got %d", total)
	}
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 3 {
		t.Errorf("expected first batch size 3, got %d", len(batches[0]))
	}
	if len(batches[2]) != 1 {
		t.Errorf("expected last batch size 1, got %d", len(batches[2]))
	}
}

func TestBatchProcess_EmptySlice(t *testing.T) {
	total, err := batchProcess([]int{}, 10, func(batch []int) (int, error) {
		t.Fatal("should not be called for empty input")
		return 0, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Errorf("expected 0, got %d", total)
	}
}

func TestBatchProcess_ErrorStops(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	callCount := 0
	_, err := batchProcess(items, 2, func(batch []int) (int, error) {
		callCount++
		if callCount == 2 {
			return 0, fmt.Errorf("batch error")
		}
		return len(batch), nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if callCount != 2 {
		t.Errorf("expected 2 calls before error, got %d", callCount)
	}
}

func TestBatchedLookup(t *testing.T) {
	repo := newMockRepo()
	repo.existing = map[string]bool{"apple": true, "cherry": true}

	result, err := batchedLookup(context.Background(), repo, []string{"apple", "banana", "cherry"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 || !result["apple"] || !result["cherry"] {
		t.Errorf("unexpected result: %v", result)
	}
	if repo.lookupBatches != 2 {
		t.Errorf("expected 2 lookup batches, got %d", repo.lookupBatches)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SEEDER_WORDLIST_PATH", "/data/words.txt")
	t.Setenv("SEEDER_DRY_RUN", "true")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.WordlistPath != "/data/words.txt" || !cfg.DryRun {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.BatchSize != 500 || cfg.Workers != 8 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := createTempFile(t, "seeder", "csv_path: terms.csv\nbatch_size: 50\n")
	yamlPath := path + ".yaml"
	if err := os.Rename(path, yamlPath); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(yamlPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CSVPath != "terms.csv" || cfg.BatchSize != 50 {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := LoadConfig(yamlPath + ".missing"); err == nil {
		t.Error("expected error for missing file")
	}
}
