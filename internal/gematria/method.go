package gematria

import (
	"fmt"
	"strings"
)

// MethodID identifies one of the thirteen encodings. The numeric order is
// stable and is the order results are reported in.
type MethodID uint8

const (
	Jewish MethodID = iota
	English
	Simple
	Latin
	Greek
	HebrewFull
	HebrewMusafi
	HebrewKatan
	HebrewOrdinal
	HebrewAtbash
	HebrewKidmi
	HebrewPerati
	HebrewShemi

	methodCount
)

// MethodCount is the number of methods every Result carries.
const MethodCount = int(methodCount)

type methodName struct {
	name string // e.g. "HebrewKatan"
	key  string // persistence column, e.g. "hebrew_katan"
}

var methodNames = [methodCount]methodName{
	Jewish:        {"Jewish", "jewish_gematria"},
	English:       {"English", "english_gematria"},
	Simple:        {"Simple", "simple_gematria"},
	Latin:         {"Latin", "latin_gematria"},
	Greek:         {"Greek", "greek_gematria"},
	HebrewFull:    {"HebrewFull", "hebrew_full"},
	HebrewMusafi:  {"HebrewMusafi", "hebrew_musafi"},
	HebrewKatan:   {"HebrewKatan", "hebrew_katan"},
	HebrewOrdinal: {"HebrewOrdinal", "hebrew_ordinal"},
	HebrewAtbash:  {"HebrewAtbash", "hebrew_atbash"},
	HebrewKidmi:   {"HebrewKidmi", "hebrew_kidmi"},
	HebrewPerati:  {"HebrewPerati", "hebrew_perati"},
	HebrewShemi:   {"HebrewShemi", "hebrew_shemi"},
}

func (m MethodID) String() string {
	if m.Valid() {
		return methodNames[m].name
	}
	return fmt.Sprintf("MethodID(%d)", uint8(m))
}

// Key returns the stable snake_case identifier used for storage columns
// and API parameters.
func (m MethodID) Key() string {
	if m.Valid() {
		return methodNames[m].key
	}
	return ""
}

// Valid reports whether m is one of the defined methods.
func (m MethodID) Valid() bool { return m < methodCount }

// AllMethods returns every MethodID in stable order.
func AllMethods() []MethodID {
	ids := make([]MethodID, methodCount)
	for i := range ids {
		ids[i] = MethodID(i)
	}
	return ids
}

// ParseMethodID resolves a column key ("hebrew_katan") or a method name
// ("HebrewKatan"), ignoring case.
func ParseMethodID(s string) (MethodID, error) {
	s = strings.TrimSpace(s)
	for i, n := range methodNames {
		if strings.EqualFold(s, n.key) || strings.EqualFold(s, n.name) {
			return MethodID(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownMethod, s)
}

// AlgorithmKind is the family of algorithm a method evaluates with.
type AlgorithmKind uint8

const (
	DirectSum AlgorithmKind = iota
	SpecialSequenceSum
	Reduced
	Cumulative
	Product
	Ordinal
	Atbash
	Musafi
	Shemi
)

var kindNames = [...]string{
	DirectSum:          "direct_sum",
	SpecialSequenceSum: "special_sequence_sum",
	Reduced:            "reduced",
	Cumulative:         "cumulative",
	Product:            "product",
	Ordinal:            "ordinal",
	Atbash:             "atbash",
	Musafi:             "musafi",
	Shemi:              "shemi",
}

func (k AlgorithmKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("AlgorithmKind(%d)", uint8(k))
}

// identity is the value of an evaluation with no recognized characters.
func (k AlgorithmKind) identity() int64 {
	if k == Product {
		return 1
	}
	return 0
}

// Identity returns the value m reports when the text holds none of its
// letters: 1 for the product method, 0 otherwise. Invalid ids report 0.
func (m MethodID) Identity() int64 {
	if !m.Valid() {
		return 0
	}
	return methodSpecs[m].Kind.identity()
}

// Params holds per-method tuning beyond the table binding.
type Params struct {
	// MusafiOffset is added once per recognized letter by the Musafi kind.
	MusafiOffset int64
}

// MethodSpec binds a method to its algorithm and alphabet.
type MethodSpec struct {
	ID     MethodID
	Kind   AlgorithmKind
	Script Script
	Params Params
}

// defaultMusafiOffset is the per-letter addend of HebrewMusafi.
const defaultMusafiOffset = 1000

// methodSpecs is indexed by MethodID.
var methodSpecs = [methodCount]MethodSpec{
	Jewish:        {ID: Jewish, Kind: DirectSum, Script: ScriptJewish},
	English:       {ID: English, Kind: DirectSum, Script: ScriptEnglish},
	Simple:        {ID: Simple, Kind: Ordinal, Script: ScriptEnglish},
	Latin:         {ID: Latin, Kind: SpecialSequenceSum, Script: ScriptLatin23},
	Greek:         {ID: Greek, Kind: DirectSum, Script: ScriptGreek},
	HebrewFull:    {ID: HebrewFull, Kind: DirectSum, Script: ScriptHebrew},
	HebrewMusafi:  {ID: HebrewMusafi, Kind: Musafi, Script: ScriptHebrew, Params: Params{MusafiOffset: defaultMusafiOffset}},
	HebrewKatan:   {ID: HebrewKatan, Kind: Reduced, Script: ScriptHebrew},
	HebrewOrdinal: {ID: HebrewOrdinal, Kind: Ordinal, Script: ScriptHebrew},
	HebrewAtbash:  {ID: HebrewAtbash, Kind: Atbash, Script: ScriptHebrew},
	HebrewKidmi:   {ID: HebrewKidmi, Kind: Cumulative, Script: ScriptHebrew},
	HebrewPerati:  {ID: HebrewPerati, Kind: Product, Script: ScriptHebrew},
	HebrewShemi:   {ID: HebrewShemi, Kind: Shemi, Script: ScriptHebrew},
}

// Specs returns a copy of the method bindings in MethodID order.
func Specs() []MethodSpec {
	out := make([]MethodSpec, methodCount)
	copy(out, methodSpecs[:])
	return out
}
