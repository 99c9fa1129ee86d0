package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gematria/internal/domain"
	"github.com/heartmarshall/gematria/internal/gematria"
	"github.com/heartmarshall/gematria/internal/service/catalog"
)

type catalogServiceMock struct {
	CalculateFunc       func(ctx context.Context, text string) (gematria.Result, error)
	CalculateMethodFunc func(ctx context.Context, methodKey, text string) (int64, error)
	SaveWordFunc        func(ctx context.Context, text, source string) (*domain.Word, error)
	GetWordFunc         func(ctx context.Context, text string) (*domain.Word, error)
	LookupFunc          func(ctx context.Context, methodKey string, value int64, limit, offset int) (*catalog.LookupResult, error)
	RelatedFunc         func(ctx context.Context, text string, methodKeys []string, limit int) (*catalog.RelatedResult, error)
}

func (m *catalogServiceMock) Calculate(ctx context.Context, text string) (gematria.Result, error) {
	return m.CalculateFunc(ctx, text)
}

func (m *catalogServiceMock) CalculateMethod(ctx context.Context, methodKey, text string) (int64, error) {
	return m.CalculateMethodFunc(ctx, methodKey, text)
}

func (m *catalogServiceMock) SaveWord(ctx context.Context, text, source string) (*domain.Word, error) {
	return m.SaveWordFunc(ctx, text, source)
}

func (m *catalogServiceMock) GetWord(ctx context.Context, text string) (*domain.Word, error) {
	return m.GetWordFunc(ctx, text)
}

func (m *catalogServiceMock) Lookup(ctx context.Context, methodKey string, value int64, limit, offset int) (*catalog.LookupResult, error) {
	return m.LookupFunc(ctx, methodKey, value, limit, offset)
}

func (m *catalogServiceMock) Related(ctx context.Context, text string, methodKeys []string, limit int) (*catalog.RelatedResult, error) {
	return m.RelatedFunc(ctx, text, methodKeys, limit)
}

func (m *catalogServiceMock) Methods() []gematria.MethodSpec {
	return gematria.Default().Methods()
}

func newTestCatalogHandler(svc catalogService) *CatalogHandler {
	return NewCatalogHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustWord(t *testing.T, text string) domain.Word {
	t.Helper()
	norm := domain.NormalizeText(text)
	res, err := gematria.Default().CalculateAll(norm)
	require.NoError(t, err)
	w := domain.NewWord(text, "test", res)
	w.ID = uuid.New()
	return w
}

func TestCatalogHandler_Calculate_AllMethods(t *testing.T) {
	t.Parallel()

	h := newTestCatalogHandler(&catalogServiceMock{
		CalculateFunc: func(_ context.Context, text string) (gematria.Result, error) {
			return gematria.Default().CalculateAll(text)
		},
	})

	rec := httptest.NewRecorder()
	h.Calculate(rec, httptest.NewRequest(http.MethodGet, "/api/calculate?text=LOVE", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Input  string           `json:"input"`
		Values map[string]int64 `json:"values"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "LOVE", body.Input)
	assert.Len(t, body.Values, gematria.MethodCount)
	assert.Equal(t, int64(54), body.Values["english_gematria"])
}

func TestCatalogHandler_Calculate_SingleMethod(t *testing.T) {
	t.Parallel()

	var gotKey string
	h := newTestCatalogHandler(&catalogServiceMock{
		CalculateMethodFunc: func(_ context.Context, methodKey, text string) (int64, error) {
			gotKey = methodKey
			return gematria.Default().Calculate(gematria.English, text)
		},
	})

	rec := httptest.NewRecorder()
	h.Calculate(rec, httptest.NewRequest(http.MethodGet, "/api/calculate?text=HELLO&method=english_gematria", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "english_gematria", gotKey)

	var body methodValueResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, methodValueResponse{Input: "HELLO", Method: "english_gematria", Value: 52}, body)
}

func TestCatalogHandler_Calculate_ValidationError(t *testing.T) {
	t.Parallel()

	h := newTestCatalogHandler(&catalogServiceMock{
		CalculateMethodFunc: func(context.Context, string, string) (int64, error) {
			return 0, domain.NewValidationError("method", "unknown method")
		},
	})

	rec := httptest.NewRecorder()
	h.Calculate(rec, httptest.NewRequest(http.MethodGet, "/api/calculate?text=x&method=bogus", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "method")
}

func TestCatalogHandler_SaveWord(t *testing.T) {
	t.Parallel()

	var gotText, gotSource string
	h := newTestCatalogHandler(&catalogServiceMock{
		SaveWordFunc: func(_ context.Context, text, source string) (*domain.Word, error) {
			gotText, gotSource = text, source
			w := mustWord(t, text)
			w.Source = source
			return &w, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/words", strings.NewReader(`{"text":"Shalom","source":"manual"}`))
	rec := httptest.NewRecorder()
	h.SaveWord(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Shalom", gotText)
	assert.Equal(t, "manual", gotSource)

	var body wordResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Shalom", body.Text)
	assert.Equal(t, "shalom", body.TextNormalized)
	assert.Equal(t, "manual", body.Source)
	assert.Len(t, body.Values, gematria.MethodCount)
	assert.NotEmpty(t, body.ID)
}

func TestCatalogHandler_SaveWord_BadBody(t *testing.T) {
	t.Parallel()

	h := newTestCatalogHandler(&catalogServiceMock{})

	rec := httptest.NewRecorder()
	h.SaveWord(rec, httptest.NewRequest(http.MethodPost, "/api/words", strings.NewReader(`{not json`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogHandler_GetWord(t *testing.T) {
	t.Parallel()

	h := newTestCatalogHandler(&catalogServiceMock{
		GetWordFunc: func(_ context.Context, text string) (*domain.Word, error) {
			if text != "love" {
				return nil, domain.ErrNotFound
			}
			w := mustWord(t, text)
			return &w, nil
		},
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/words/{text}", h.GetWord)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/words/love", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body wordResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(54), body.Values["english_gematria"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/words/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandler_Lookup(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	h := newTestCatalogHandler(&catalogServiceMock{
		LookupFunc: func(_ context.Context, methodKey string, value int64, limit, offset int) (*catalog.LookupResult, error) {
			gotLimit, gotOffset = limit, offset
			id, err := gematria.ParseMethodID(methodKey)
			require.NoError(t, err)
			return &catalog.LookupResult{
				Method: id,
				Value:  value,
				Words:  []domain.Word{mustWord(t, "love")},
				Total:  7,
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Lookup(rec, httptest.NewRequest(http.MethodGet, "/api/words?method=english_gematria&value=54&limit=1&offset=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gotLimit)
	assert.Equal(t, 3, gotOffset)

	var body lookupResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "english_gematria", body.Method)
	assert.Equal(t, int64(54), body.Value)
	assert.Equal(t, 7, body.Total)
	assert.Equal(t, 3, body.Offset)
	require.Len(t, body.Words, 1)
	assert.Equal(t, "love", body.Words[0].TextNormalized)
}

func TestCatalogHandler_Lookup_BadParams(t *testing.T) {
	t.Parallel()

	h := newTestCatalogHandler(&catalogServiceMock{})
	for _, target := range []string{
		"/api/words?method=english_gematria",
		"/api/words?method=english_gematria&value=abc",
		"/api/words?method=english_gematria&value=1&limit=x",
		"/api/words?method=english_gematria&value=1&offset=1.5",
	} {
		rec := httptest.NewRecorder()
		h.Lookup(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestCatalogHandler_Related(t *testing.T) {
	t.Parallel()

	var gotMethods []string
	h := newTestCatalogHandler(&catalogServiceMock{
		RelatedFunc: func(_ context.Context, text string, methodKeys []string, limit int) (*catalog.RelatedResult, error) {
			gotMethods = methodKeys
			res, err := gematria.Default().CalculateAll(text)
			require.NoError(t, err)
			return &catalog.RelatedResult{
				Values:  res,
				Methods: []gematria.MethodID{gematria.English, gematria.Simple},
				Words:   []domain.Word{mustWord(t, "love")},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Related(rec, httptest.NewRequest(http.MethodGet, "/api/related?text=LOVE&methods=english_gematria,+simple_gematria,", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"english_gematria", "simple_gematria"}, gotMethods)

	var body relatedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "LOVE", body.Input)
	assert.Equal(t, []string{"english_gematria", "simple_gematria"}, body.Methods)
	assert.Equal(t, int64(54), body.Values["english_gematria"])
	assert.Len(t, body.Words, 1)
}

func TestCatalogHandler_Methods(t *testing.T) {
	t.Parallel()

	h := newTestCatalogHandler(&catalogServiceMock{})

	rec := httptest.NewRecorder()
	h.Methods(rec, httptest.NewRequest(http.MethodGet, "/api/methods", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body []methodResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, gematria.MethodCount)
	assert.Equal(t, gematria.Jewish.Key(), body[0].Key)
	for i, m := range body {
		assert.Equal(t, i, m.ID)
		assert.NotEmpty(t, m.Kind)
		assert.NotEmpty(t, m.Script)
	}
}

func TestHandleError_StatusMapping(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("text", "too long"), http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"already exists", domain.ErrAlreadyExists, http.StatusConflict},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"internal", errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			handleError(log, rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "db exploded")
		})
	}
}
