//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/gematria/internal/adapter/postgres"
	"github.com/heartmarshall/gematria/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/gematria/internal/adapter/postgres/word"
	"github.com/heartmarshall/gematria/internal/app"
	"github.com/heartmarshall/gematria/internal/config"
	"github.com/heartmarshall/gematria/internal/gematria"
	"github.com/heartmarshall/gematria/internal/service/catalog"
	"github.com/heartmarshall/gematria/internal/transport/middleware"
	"github.com/heartmarshall/gematria/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the application router backed by a real
// PostgreSQL container (shared via testhelper). writesPerMinute of 0
// disables the write limiter.
func setupTestServer(t *testing.T, writesPerMinute int) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	engine := gematria.New()
	svc := catalog.NewService(logger, engine, word.New(pool, postgres.NewTxManager(pool)), config.CatalogConfig{
		DefaultLimit: 20,
		MaxLimit:     200,
	})

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	handler := app.NewRouter(logger, app.Handlers{
		Catalog: rest.NewCatalogHandler(svc, logger),
		Health:  rest.NewHealthHandler(pool, engine, "test-version"),
	}, config.CORSConfig{
		AllowedOrigins: "*",
		AllowedMethods: "GET,POST,OPTIONS",
		AllowedHeaders: "Content-Type,X-Request-Id",
		MaxAge:         86400,
	}, limiter.Limit(writesPerMinute))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Client: srv.Client(), Pool: pool}
}

// getJSON issues a GET and decodes the body into a generic map or slice.
func (ts *testServer) getJSON(t *testing.T, path string, query url.Values) (int, any) {
	t.Helper()

	target := ts.URL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	resp, err := ts.Client.Get(target)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return resp.StatusCode, body
}

// saveWord POSTs a word and returns status + decoded body.
func (ts *testServer) saveWord(t *testing.T, text, source string) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"text": text, "source": source})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	resp, err := ts.Client.Post(ts.URL+"/api/words", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post word: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode word: %v", err)
	}
	return resp.StatusCode, body
}

// lookupContains pages through a reverse lookup until it finds normalized.
func (ts *testServer) lookupContains(t *testing.T, method string, value int64, normalized string) bool {
	t.Helper()

	for offset := 0; ; offset += 200 {
		status, body := ts.getJSON(t, "/api/words", url.Values{
			"method": {method},
			"value":  {strconv.FormatInt(value, 10)},
			"limit":  {"200"},
			"offset": {strconv.Itoa(offset)},
		})
		if status != http.StatusOK {
			t.Fatalf("lookup status %d: %v", status, body)
		}

		page := body.(map[string]any)
		words := page["words"].([]any)
		for _, w := range words {
			if w.(map[string]any)["textNormalized"] == normalized {
				return true
			}
		}
		if len(words) == 0 || offset+len(words) >= int(page["total"].(float64)) {
			return false
		}
	}
}
