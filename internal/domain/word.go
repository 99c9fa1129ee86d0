package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gematria/internal/gematria"
)

// Word is a catalog term stored together with its gematria values so it
// can be found again by value.
type Word struct {
	ID             uuid.UUID
	Text           string
	TextNormalized string
	Source         string
	Values         gematria.Result
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewWord builds an unsaved Word for text with values already computed
// from its normalized form.
func NewWord(text, source string, values gematria.Result) Word {
	return Word{
		Text:           text,
		TextNormalized: NormalizeText(text),
		Source:         source,
		Values:         values,
	}
}
