// Package catalog computes gematria values and keeps the word catalog used
// for reverse lookups.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/gematria/internal/config"
	"github.com/heartmarshall/gematria/internal/domain"
	"github.com/heartmarshall/gematria/internal/gematria"
)

type wordRepo interface {
	Upsert(ctx context.Context, w domain.Word) (*domain.Word, error)
	GetByText(ctx context.Context, normalized string) (*domain.Word, error)
	FindByValue(ctx context.Context, f domain.ValueFilter) ([]domain.Word, error)
	CountByValue(ctx context.Context, method gematria.MethodID, value int64) (int, error)
	FindRelated(ctx context.Context, f domain.RelatedFilter) ([]domain.Word, error)
}

type calculator interface {
	CalculateAll(text string) (gematria.Result, error)
	Calculate(id gematria.MethodID, text string) (int64, error)
	Methods() []gematria.MethodSpec
}

// Service implements catalog operations on top of the gematria engine.
type Service struct {
	log    *slog.Logger
	engine calculator
	words  wordRepo
	cfg    config.CatalogConfig
}

// NewService creates a new catalog service. An empty cfg.RelatedMethods
// means every method is compared by Related.
func NewService(logger *slog.Logger, engine calculator, words wordRepo, cfg config.CatalogConfig) *Service {
	if len(cfg.RelatedMethods) == 0 {
		cfg.RelatedMethods = gematria.AllMethods()
	}
	return &Service{
		log:    logger.With("service", "catalog"),
		engine: engine,
		words:  words,
		cfg:    cfg,
	}
}

// LookupResult is one page of a reverse lookup.
type LookupResult struct {
	Method gematria.MethodID
	Value  int64
	Words  []domain.Word
	Total  int
}

// RelatedResult holds the reference term's values and the words sharing
// at least one of them.
type RelatedResult struct {
	Values  gematria.Result
	Methods []gematria.MethodID
	Words   []domain.Word
}

// Methods returns the method catalog in canonical order.
func (s *Service) Methods() []gematria.MethodSpec {
	return s.engine.Methods()
}

// Calculate returns every method's value for text.
func (s *Service) Calculate(ctx context.Context, text string) (gematria.Result, error) {
	if err := ctx.Err(); err != nil {
		return gematria.Result{}, err
	}

	res, err := s.engine.CalculateAll(text)
	if err != nil {
		return gematria.Result{}, inputError(err)
	}
	return res, nil
}

// CalculateMethod returns one method's value for text. methodKey accepts a
// method key ("hebrew_full") or name ("HebrewFull").
func (s *Service) CalculateMethod(ctx context.Context, methodKey, text string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	id, err := parseMethod(methodKey)
	if err != nil {
		return 0, err
	}

	v, err := s.engine.Calculate(id, text)
	if err != nil {
		return 0, inputError(err)
	}
	return v, nil
}

// SaveWord normalizes text, computes its values and stores it. Saving an
// existing term refreshes its values and source.
func (s *Service) SaveWord(ctx context.Context, text, source string) (*domain.Word, error) {
	normalized := domain.NormalizeText(text)
	if normalized == "" {
		return nil, domain.NewValidationError("text", "required")
	}
	source = strings.TrimSpace(source)

	values, err := s.engine.CalculateAll(normalized)
	if err != nil {
		return nil, inputError(err)
	}

	w := domain.NewWord(strings.TrimSpace(text), source, values)
	saved, err := s.words.Upsert(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("upsert word: %w", err)
	}

	s.log.InfoContext(ctx, "word saved",
		slog.String("word_id", saved.ID.String()),
		slog.String("text", saved.TextNormalized),
		slog.String("source", saved.Source),
	)

	return saved, nil
}

// GetWord returns the stored word for text.
func (s *Service) GetWord(ctx context.Context, text string) (*domain.Word, error) {
	normalized := domain.NormalizeText(text)
	if normalized == "" {
		return nil, domain.NewValidationError("text", "required")
	}
	return s.words.GetByText(ctx, normalized)
}

// Lookup returns stored words whose value under methodKey equals value.
// Limit is clamped to [1, MaxLimit] with 0 meaning DefaultLimit.
func (s *Service) Lookup(ctx context.Context, methodKey string, value int64, limit, offset int) (*LookupResult, error) {
	id, err := parseMethod(methodKey)
	if err != nil {
		return nil, err
	}

	var errs []domain.FieldError
	if value < 0 {
		errs = append(errs, domain.FieldError{Field: "value", Message: "must be >= 0"})
	}
	if offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	words, err := s.words.FindByValue(ctx, domain.ValueFilter{
		Method: id,
		Value:  value,
		Limit:  s.clampLimit(limit),
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("find by value: %w", err)
	}

	total, err := s.words.CountByValue(ctx, id, value)
	if err != nil {
		return nil, fmt.Errorf("count by value: %w", err)
	}

	return &LookupResult{Method: id, Value: value, Words: words, Total: total}, nil
}

// Related computes text's values and returns stored words sharing at least
// one of them under methodKeys. With no keys the configured default
// methods are used. The term itself is never part of the result.
func (s *Service) Related(ctx context.Context, text string, methodKeys []string, limit int) (*RelatedResult, error) {
	normalized := domain.NormalizeText(text)
	if normalized == "" {
		return nil, domain.NewValidationError("text", "required")
	}

	methods := s.cfg.RelatedMethods
	if len(methodKeys) > 0 {
		methods = make([]gematria.MethodID, 0, len(methodKeys))
		for _, key := range methodKeys {
			id, err := parseMethod(key)
			if err != nil {
				return nil, err
			}
			methods = append(methods, id)
		}
	}

	values, err := s.engine.CalculateAll(normalized)
	if err != nil {
		return nil, inputError(err)
	}

	words, err := s.words.FindRelated(ctx, domain.RelatedFilter{
		Values:      values,
		Methods:     methods,
		ExcludeText: normalized,
		Limit:       s.clampLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("find related: %w", err)
	}

	return &RelatedResult{Values: values, Methods: methods, Words: words}, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

func parseMethod(key string) (gematria.MethodID, error) {
	if strings.TrimSpace(key) == "" {
		return 0, domain.NewValidationError("method", "required")
	}
	id, err := gematria.ParseMethodID(strings.TrimSpace(key))
	if err != nil {
		return 0, domain.NewValidationError("method", fmt.Sprintf("unknown method %q", key))
	}
	return id, nil
}

// inputError turns engine input errors into validation errors and passes
// anything else through.
func inputError(err error) error {
	var inErr *gematria.InputError
	if errors.As(err, &inErr) {
		return domain.NewValidationError("text", inErr.Error())
	}
	return err
}
