package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/gematria/internal/domain"
	"github.com/heartmarshall/gematria/internal/gematria"
)

// UniqueSuffix returns a short random string for non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedWord inserts text with the values computed by the default engine and
// returns the stored word. The caller is responsible for making text unique.
func SeedWord(t *testing.T, pool *pgxpool.Pool, text, source string) domain.Word {
	t.Helper()

	normalized := domain.NormalizeText(text)
	values, err := gematria.Default().CalculateAll(normalized)
	if err != nil {
		t.Fatalf("testhelper: SeedWord calculate: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	w := domain.Word{
		ID:             uuid.New(),
		Text:           text,
		TextNormalized: normalized,
		Source:         source,
		Values:         values,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	v := values.Array()
	_, err = pool.Exec(context.Background(),
		`INSERT INTO words (id, text, text_normalized, source,
			jewish_gematria, english_gematria, simple_gematria, latin_gematria, greek_gematria,
			hebrew_full, hebrew_musafi, hebrew_katan, hebrew_ordinal, hebrew_atbash,
			hebrew_kidmi, hebrew_perati, hebrew_shemi, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		w.ID, w.Text, w.TextNormalized, w.Source,
		v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8], v[9], v[10], v[11], v[12],
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWord insert: %v", err)
	}

	return w
}
