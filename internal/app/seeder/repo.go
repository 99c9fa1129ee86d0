// Package seeder loads term lists into the word catalog.
package seeder

import (
	"context"

	"github.com/heartmarshall/gematria/internal/domain"
	"github.com/heartmarshall/gematria/internal/gematria"
)

// WordBulkRepo is the batch repository contract consumed by the pipeline.
// Implemented by word.Repo.
type WordBulkRepo interface {
	BulkUpsert(ctx context.Context, words []domain.Word) (int, error)
	ExistingTexts(ctx context.Context, normalized []string) (map[string]bool, error)
}

// Calculator evaluates terms. Implemented by *gematria.Engine.
type Calculator interface {
	Validate(text string) error
	CalculateBatch(ctx context.Context, texts []string, workers int) ([]gematria.Result, error)
}
