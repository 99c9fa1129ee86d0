package gematria

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength bounds the rune count of a single input.
const DefaultMaxLength = 10_000

// Engine evaluates every method against its bound table. An Engine is
// immutable after New returns.
type Engine struct {
	registry  *Registry
	specs     [methodCount]MethodSpec
	tables    [methodCount]*AlphabetTable
	maxLength int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxLength sets the maximum input length in runes. n <= 0 disables the guard.
func WithMaxLength(n int) Option {
	return func(e *Engine) { e.maxLength = n }
}

// WithRegistry binds the engine to r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// New creates an Engine with the thirteen built-in methods.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:  DefaultRegistry(),
		specs:     methodSpecs,
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	for i, spec := range e.specs {
		e.tables[i] = e.registry.Table(spec.Script)
	}
	return e
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the process-wide Engine with default options.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// MaxLength returns the configured rune limit, 0 if unlimited.
func (e *Engine) MaxLength() int {
	if e.maxLength < 0 {
		return 0
	}
	return e.maxLength
}

// Methods returns the method bindings in MethodID order.
func (e *Engine) Methods() []MethodSpec {
	out := make([]MethodSpec, methodCount)
	copy(out, e.specs[:])
	return out
}

// Registry returns the alphabet registry the engine reads from.
func (e *Engine) Registry() *Registry { return e.registry }

// Validate returns an *InputError if text would be rejected by CalculateAll.
func (e *Engine) Validate(text string) error {
	if !utf8.ValidString(text) {
		return &InputError{Reason: "invalid UTF-8"}
	}
	if e.maxLength > 0 {
		if n := utf8.RuneCountInString(text); n > e.maxLength {
			return &InputError{Reason: "input too long", Length: n, Max: e.maxLength}
		}
	}
	return nil
}

// CalculateAll evaluates all methods. The only failure is an *InputError.
func (e *Engine) CalculateAll(text string) (Result, error) {
	if err := e.Validate(text); err != nil {
		return Result{}, err
	}

	in := normalize(text)
	res := Result{Input: in.text}
	for i := range e.specs {
		res.values[i] = e.eval(MethodID(i), in)
	}
	return res, nil
}

// Calculate evaluates a single method. It returns the same value as
// CalculateAll(text).Value(id).
func (e *Engine) Calculate(id MethodID, text string) (int64, error) {
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMethod, id)
	}
	if err := e.Validate(text); err != nil {
		return 0, err
	}
	return e.eval(id, normalize(text)), nil
}

func (e *Engine) eval(id MethodID, in normalized) int64 {
	spec, table := e.specs[id], e.tables[id]
	if table == nil {
		return spec.Kind.identity()
	}
	if spec.Script.latin() {
		return evaluate(spec, table, in.upper)
	}
	return evaluate(spec, table, in.runes)
}

// normalized is the input prepared once per call for every method.
type normalized struct {
	text  string // NFC form
	runes []rune // NFC form, for Hebrew and Greek tables
	upper []rune // raw input with ASCII letters uppercased, for Latin tables
}

// normalize applies NFC for the Hebrew and Greek tables only. Latin tables
// see the caller's runes with a-z uppercased, so a base letter followed by
// a combining mark keeps its value instead of composing into a rune the
// table does not hold.
func normalize(text string) normalized {
	nfc := norm.NFC.String(text)
	upper := []rune(text)
	for i, r := range upper {
		if r >= 'a' && r <= 'z' {
			upper[i] = r - ('a' - 'A')
		}
	}
	return normalized{text: nfc, runes: []rune(nfc), upper: upper}
}
