// Package gematria computes numeral encodings of text under a fixed set of
// alphabets. It performs no I/O: tables are built once and only read after
// that, so an Engine can be shared freely between goroutines.
package gematria

import (
	"cmp"
	"iter"
	"slices"
	"sync"
)

// Script identifies an alphabet table.
type Script uint8

const (
	ScriptEnglish Script = iota
	ScriptJewish
	ScriptHebrew
	ScriptGreek
	ScriptLatin23

	scriptCount
)

var scriptNames = [scriptCount]string{
	ScriptEnglish: "english",
	ScriptJewish:  "jewish",
	ScriptHebrew:  "hebrew",
	ScriptGreek:   "greek",
	ScriptLatin23: "latin23",
}

func (s Script) String() string {
	if s < scriptCount {
		return scriptNames[s]
	}
	return "unknown"
}

// latin reports whether the script is written with ASCII letters and
// therefore expects uppercased input.
func (s Script) latin() bool {
	return s == ScriptEnglish || s == ScriptJewish || s == ScriptLatin23
}

// LetterEntry describes a single character of an alphabet.
type LetterEntry struct {
	Char     rune
	Value    int64
	Position int    // 1-based ordinal position
	Name     string // spelled-out letter name, empty if the script has none
}

// SpecialSequence is a multi-character run valued as a unit.
type SpecialSequence struct {
	Seq   string
	Value int64
}

// AlphabetTable is the immutable metadata of one script.
type AlphabetTable struct {
	script    Script
	letters   []LetterEntry
	index     map[rune]int
	reversal  map[rune]rune
	sequences []sequence
}

type sequence struct {
	runes []rune
	value int64
}

func newTable(script Script, letters []LetterEntry, reversal map[rune]rune, seqs []SpecialSequence) *AlphabetTable {
	t := &AlphabetTable{
		script:   script,
		letters:  letters,
		index:    make(map[rune]int, len(letters)),
		reversal: reversal,
	}
	for i, l := range letters {
		t.index[l.Char] = i
	}

	for _, s := range seqs {
		t.sequences = append(t.sequences, sequence{runes: []rune(s.Seq), value: s.Value})
	}
	// Longest first; equal lengths keep declaration order.
	slices.SortStableFunc(t.sequences, func(a, b sequence) int {
		return cmp.Compare(len(b.runes), len(a.runes))
	})

	return t
}

// Script returns the script this table describes.
func (t *AlphabetTable) Script() Script { return t.script }

// Lookup returns the entry for ch.
func (t *AlphabetTable) Lookup(ch rune) (LetterEntry, bool) {
	i, ok := t.index[ch]
	if !ok {
		return LetterEntry{}, false
	}
	return t.letters[i], true
}

// Letters yields the table's entries in declaration order.
func (t *AlphabetTable) Letters() iter.Seq[LetterEntry] {
	return func(yield func(LetterEntry) bool) {
		for _, l := range t.letters {
			if !yield(l) {
				return
			}
		}
	}
}

// Len returns the number of entries, including alternate forms.
func (t *AlphabetTable) Len() int { return len(t.letters) }

// Reverse returns the Atbash partner of ch.
func (t *AlphabetTable) Reverse(ch rune) (rune, bool) {
	r, ok := t.reversal[ch]
	return r, ok
}

// Sequences returns the special sequences, longest first.
func (t *AlphabetTable) Sequences() []SpecialSequence {
	out := make([]SpecialSequence, len(t.sequences))
	for i, s := range t.sequences {
		out[i] = SpecialSequence{Seq: string(s.runes), Value: s.value}
	}
	return out
}

// value returns the numeric value of ch, or 0 if ch is not in the table.
func (t *AlphabetTable) value(ch rune) int64 {
	if i, ok := t.index[ch]; ok {
		return t.letters[i].Value
	}
	return 0
}

// Registry holds one AlphabetTable per script.
type Registry struct {
	tables [scriptCount]*AlphabetTable
}

// NewRegistry builds a fresh registry from the built-in tables.
func NewRegistry() *Registry {
	return &Registry{
		tables: [scriptCount]*AlphabetTable{
			ScriptEnglish: englishTable(),
			ScriptJewish:  jewishTable(),
			ScriptHebrew:  hebrewTable(),
			ScriptGreek:   greekTable(),
			ScriptLatin23: latin23Table(),
		},
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry, building it on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Table returns the table for script, or nil for an unknown script.
func (r *Registry) Table(script Script) *AlphabetTable {
	if script >= scriptCount {
		return nil
	}
	return r.tables[script]
}

// Lookup returns the metadata of ch in script.
func (r *Registry) Lookup(script Script, ch rune) (LetterEntry, bool) {
	t := r.Table(script)
	if t == nil {
		return LetterEntry{}, false
	}
	return t.Lookup(ch)
}

// Letters yields every entry of script. The sequence is empty for an unknown script.
func (r *Registry) Letters(script Script) iter.Seq[LetterEntry] {
	t := r.Table(script)
	if t == nil {
		return func(func(LetterEntry) bool) {}
	}
	return t.Letters()
}
