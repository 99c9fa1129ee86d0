package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/gematria/internal/domain"
	"github.com/heartmarshall/gematria/internal/gematria"
	"github.com/heartmarshall/gematria/internal/service/catalog"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

type catalogService interface {
	Calculate(ctx context.Context, text string) (gematria.Result, error)
	CalculateMethod(ctx context.Context, methodKey, text string) (int64, error)
	SaveWord(ctx context.Context, text, source string) (*domain.Word, error)
	GetWord(ctx context.Context, text string) (*domain.Word, error)
	Lookup(ctx context.Context, methodKey string, value int64, limit, offset int) (*catalog.LookupResult, error)
	Related(ctx context.Context, text string, methodKeys []string, limit int) (*catalog.RelatedResult, error)
	Methods() []gematria.MethodSpec
}

// CatalogHandler serves the calculation and word catalog endpoints.
type CatalogHandler struct {
	svc catalogService
	log *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(svc catalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: logger.With("handler", "catalog")}
}

type saveWordRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type methodValueResponse struct {
	Input  string `json:"input"`
	Method string `json:"method"`
	Value  int64  `json:"value"`
}

type wordResponse struct {
	ID             string           `json:"id"`
	Text           string           `json:"text"`
	TextNormalized string           `json:"textNormalized"`
	Source         string           `json:"source"`
	Values         map[string]int64 `json:"values"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type lookupResponse struct {
	Method string         `json:"method"`
	Value  int64          `json:"value"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Words  []wordResponse `json:"words"`
}

type relatedResponse struct {
	Input   string           `json:"input"`
	Values  map[string]int64 `json:"values"`
	Methods []string         `json:"methods"`
	Words   []wordResponse   `json:"words"`
}

type methodResponse struct {
	ID     int    `json:"id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Script string `json:"script"`
}

// Calculate handles GET /api/calculate?text=...[&method=key].
// Without method every value is returned.
func (h *CatalogHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("text")

	if method := q.Get("method"); method != "" {
		v, err := h.svc.CalculateMethod(r.Context(), method, text)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, methodValueResponse{Input: text, Method: method, Value: v})
		return
	}

	res, err := h.svc.Calculate(r.Context(), text)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SaveWord handles POST /api/words.
func (h *CatalogHandler) SaveWord(w http.ResponseWriter, r *http.Request) {
	var req saveWordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.svc.SaveWord(r.Context(), req.Text, req.Source)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWordResponse(*saved))
}

// GetWord handles GET /api/words/{text}.
func (h *CatalogHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	word, err := h.svc.GetWord(r.Context(), r.PathValue("text"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWordResponse(*word))
}

// Lookup handles GET /api/words?method=key&value=n&limit=&offset=.
func (h *CatalogHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	value, err := strconv.ParseInt(q.Get("value"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "value must be an integer")
		return
	}
	limit, ok := intParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	offset, ok := intParam(w, q.Get("offset"), "offset")
	if !ok {
		return
	}

	res, err := h.svc.Lookup(r.Context(), q.Get("method"), value, limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lookupResponse{
		Method: res.Method.Key(),
		Value:  res.Value,
		Total:  res.Total,
		Offset: offset,
		Words:  toWordResponses(res.Words),
	})
}

// Related handles GET /api/related?text=...&methods=a,b&limit=.
func (h *CatalogHandler) Related(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, ok := intParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}

	var methods []string
	for _, m := range strings.Split(q.Get("methods"), ",") {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}

	res, err := h.svc.Related(r.Context(), q.Get("text"), methods, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	keys := make([]string, len(res.Methods))
	for i, m := range res.Methods {
		keys[i] = m.Key()
	}
	writeJSON(w, http.StatusOK, relatedResponse{
		Input:   res.Values.Input,
		Values:  res.Values.Columns(),
		Methods: keys,
		Words:   toWordResponses(res.Words),
	})
}

// Methods handles GET /api/methods.
func (h *CatalogHandler) Methods(w http.ResponseWriter, _ *http.Request) {
	specs := h.svc.Methods()
	out := make([]methodResponse, len(specs))
	for i, s := range specs {
		out[i] = methodResponse{
			ID:     int(s.ID),
			Key:    s.ID.Key(),
			Name:   s.ID.String(),
			Kind:   s.Kind.String(),
			Script: s.Script.String(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func intParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return n, true
}

func toWordResponse(w domain.Word) wordResponse {
	return wordResponse{
		ID:             w.ID.String(),
		Text:           w.Text,
		TextNormalized: w.TextNormalized,
		Source:         w.Source,
		Values:         w.Values.Columns(),
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

func toWordResponses(words []domain.Word) []wordResponse {
	out := make([]wordResponse, len(words))
	for i, w := range words {
		out[i] = toWordResponse(w)
	}
	return out
}
