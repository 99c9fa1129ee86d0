// Package word implements the word catalog repository on PostgreSQL.
// Every word row carries one bigint column per gematria method, named after
// the method key, so reverse lookups hit a plain b-tree index.
package word

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/gematria/internal/adapter/postgres"
	"github.com/heartmarshall/gematria/internal/domain"
	"github.com/heartmarshall/gematria/internal/gematria"
)

const (
	table  = "words"
	entity = "word"

	// maxBulkRows keeps a multi-row insert under the 65535 bind parameter
	// limit of the extended protocol.
	maxBulkRows = 1000
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var (
	methodColumns = buildMethodColumns()
	insertColumns = append([]string{"id", "text", "text_normalized", "source"}, methodColumns...)
	selectColumns = append(append([]string{}, insertColumns...), "created_at", "updated_at")
	upsertSuffix  = buildUpsertSuffix()
)

func buildMethodColumns() []string {
	cols := make([]string, 0, gematria.MethodCount)
	for _, id := range gematria.AllMethods() {
		cols = append(cols, id.Key())
	}
	return cols
}

func buildUpsertSuffix() string {
	sets := make([]string, 0, len(methodColumns)+3)
	sets = append(sets, "text = EXCLUDED.text", "source = EXCLUDED.source")
	for _, c := range methodColumns {
		sets = append(sets, c+" = EXCLUDED."+c)
	}
	sets = append(sets, "updated_at = now()")
	return "ON CONFLICT (text_normalized) DO UPDATE SET " + strings.Join(sets, ", ")
}

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	db  postgres.Querier
	txm *postgres.TxManager
}

// New creates a new word repository. db is normally a *pgxpool.Pool.
func New(db postgres.Querier, txm *postgres.TxManager) *Repo {
	return &Repo{db: db, txm: txm}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert inserts w or, when its normalized text already exists, refreshes
// the stored text, source and values. The stored row is returned; its ID is
// the original one on conflict.
func (r *Repo) Upsert(ctx context.Context, w domain.Word) (*domain.Word, error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	query, args, err := psql.Insert(table).
		Columns(insertColumns...).
		Values(rowValues(w)...).
		Suffix(upsertSuffix + " RETURNING " + strings.Join(selectColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	stored, err := scanWord(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, entity, w.TextNormalized)
	}
	return stored, nil
}

// BulkUpsert writes words with multi-row upserts and returns the number of
// rows inserted or updated. Words repeating a normalized text within the
// call are collapsed to the last occurrence, since one statement cannot
// touch the same row twice. Inputs spanning several statements are written
// in one transaction, so a failed call leaves the catalog unchanged.
func (r *Repo) BulkUpsert(ctx context.Context, words []domain.Word) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}

	words = dedupeByText(words)
	if len(words) <= maxBulkRows {
		return r.bulkUpsert(ctx, words)
	}

	var affected int
	err := r.txm.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		affected, err = r.bulkUpsert(ctx, words)
		return err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (r *Repo) bulkUpsert(ctx context.Context, words []domain.Word) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var affected int
	for start := 0; start < len(words); start += maxBulkRows {
		end := min(start+maxBulkRows, len(words))

		ins := psql.Insert(table).Columns(insertColumns...)
		for _, w := range words[start:end] {
			if w.ID == uuid.Nil {
				w.ID = uuid.New()
			}
			ins = ins.Values(rowValues(w)...)
		}

		query, args, err := ins.Suffix(upsertSuffix).ToSql()
		if err != nil {
			return affected, fmt.Errorf("build bulk upsert: %w", err)
		}

		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return affected, postgres.MapError(err, entity, fmt.Sprintf("batch[%d:%d]", start, end))
		}
		affected += int(tag.RowsAffected())
	}

	return affected, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByText returns the word stored under normalized text.
func (r *Repo) GetByText(ctx context.Context, normalized string) (*domain.Word, error) {
	query, args, err := psql.Select(selectColumns...).
		From(table).
		Where(squirrel.Eq{"text_normalized": normalized}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get by text: %w", err)
	}

	w, err := scanWord(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, entity, normalized)
	}
	return w, nil
}

// ExistingTexts reports which of the normalized texts are already stored.
func (r *Repo) ExistingTexts(ctx context.Context, normalized []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(normalized) == 0 {
		return found, nil
	}

	query, args, err := psql.Select("text_normalized").
		From(table).
		Where(squirrel.Eq{"text_normalized": normalized}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build existing texts: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, entity, "existing")
	}
	texts, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, postgres.MapError(err, entity, "existing")
	}
	for _, t := range texts {
		found[t] = true
	}
	return found, nil
}

// FindByValue returns words whose value under f.Method equals f.Value,
// ordered by normalized text.
func (r *Repo) FindByValue(ctx context.Context, f domain.ValueFilter) ([]domain.Word, error) {
	if !f.Method.Valid() {
		return nil, fmt.Errorf("%w: %v", gematria.ErrUnknownMethod, f.Method)
	}

	query, args, err := psql.Select(selectColumns...).
		From(table).
		Where(squirrel.Eq{f.Method.Key(): f.Value}).
		OrderBy("text_normalized").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find by value: %w", err)
	}

	return r.queryWords(ctx, query, args, fmt.Sprintf("%s=%d", f.Method.Key(), f.Value))
}

// CountByValue returns the number of words whose value under method equals
// value.
func (r *Repo) CountByValue(ctx context.Context, method gematria.MethodID, value int64) (int, error) {
	if !method.Valid() {
		return 0, fmt.Errorf("%w: %v", gematria.ErrUnknownMethod, method)
	}

	query, args, err := psql.Select("count(*)").
		From(table).
		Where(squirrel.Eq{method.Key(): value}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count by value: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, entity, fmt.Sprintf("%s=%d", method.Key(), value))
	}
	return n, nil
}

// FindRelated returns words sharing the reference value under at least one
// of f.Methods. A method whose reference value is its identity (0, or 1 for
// the product method) is ignored: it only means the method's script was
// absent from the term, and would match every such word.
func (r *Repo) FindRelated(ctx context.Context, f domain.RelatedFilter) ([]domain.Word, error) {
	or := squirrel.Or{}
	for _, m := range f.Methods {
		if !m.Valid() {
			return nil, fmt.Errorf("%w: %v", gematria.ErrUnknownMethod, m)
		}
		if v := f.Values.Value(m); v != m.Identity() {
			or = append(or, squirrel.Eq{m.Key(): v})
		}
	}
	if len(or) == 0 {
		return []domain.Word{}, nil
	}

	sel := psql.Select(selectColumns...).
		From(table).
		Where(or).
		OrderBy("text_normalized").
		Limit(uint64(f.Limit))
	if f.ExcludeText != "" {
		sel = sel.Where(squirrel.NotEq{"text_normalized": f.ExcludeText})
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find related: %w", err)
	}

	return r.queryWords(ctx, query, args, f.Values.Input)
}

// ListAfter returns up to c.Limit words with an ID greater than c.AfterID,
// in ID order. Pass uuid.Nil to start from the beginning.
func (r *Repo) ListAfter(ctx context.Context, c domain.PageCursor) ([]domain.Word, error) {
	query, args, err := psql.Select(selectColumns...).
		From(table).
		Where(squirrel.Gt{"id": c.AfterID}).
		OrderBy("id").
		Limit(uint64(c.Limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list after: %w", err)
	}

	return r.queryWords(ctx, query, args, c.AfterID)
}

// Count returns the number of stored words.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n)
	if err != nil {
		return 0, postgres.MapError(err, entity, "count")
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) queryWords(ctx context.Context, query string, args []any, key any) ([]domain.Word, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	defer rows.Close()

	words := make([]domain.Word, 0)
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, postgres.MapError(err, entity, key)
		}
		words = append(words, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	return words, nil
}

func rowValues(w domain.Word) []any {
	values := w.Values.Array()
	args := make([]any, 0, len(insertColumns))
	args = append(args, w.ID, w.Text, w.TextNormalized, w.Source)
	for _, v := range values {
		args = append(args, v)
	}
	return args
}

func scanWord(row pgx.Row) (*domain.Word, error) {
	var (
		w      domain.Word
		values [gematria.MethodCount]int64
	)

	dest := make([]any, 0, len(selectColumns))
	dest = append(dest, &w.ID, &w.Text, &w.TextNormalized, &w.Source)
	for i := range values {
		dest = append(dest, &values[i])
	}
	dest = append(dest, &w.CreatedAt, &w.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	w.Values = gematria.ResultFromValues(w.TextNormalized, values)
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return &w, nil
}

func dedupeByText(words []domain.Word) []domain.Word {
	last := make(map[string]int, len(words))
	for i, w := range words {
		last[w.TextNormalized] = i
	}
	if len(last) == len(words) {
		return words
	}

	out := make([]domain.Word, 0, len(last))
	for i, w := range words {
		if last[w.TextNormalized] == i {
			out = append(out, w)
		}
	}
	return out
}
