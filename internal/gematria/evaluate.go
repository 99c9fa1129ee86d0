package gematria

import (
	"math"
	"slices"
)

// evaluate runs spec's algorithm over text. Characters missing from t are
// skipped, so evaluate never fails.
func evaluate(spec MethodSpec, t *AlphabetTable, text []rune) int64 {
	switch spec.Kind {
	case DirectSum:
		return directSum(t, text)
	case SpecialSequenceSum:
		return sequenceSum(t, text)
	case Reduced:
		return reducedSum(t, text)
	case Cumulative:
		return cumulativeSum(t, text)
	case Product:
		return product(t, text)
	case Ordinal:
		return ordinalSum(t, text)
	case Atbash:
		return atbashSum(t, text)
	case Musafi:
		return musafiSum(t, text, spec.Params.MusafiOffset)
	case Shemi:
		return shemiSum(t, text)
	}
	return spec.Kind.identity()
}

func directSum(t *AlphabetTable, text []rune) int64 {
	var total int64
	for _, ch := range text {
		total += t.value(ch)
	}
	return total
}

// sequenceSum scans left to right, consuming the longest special sequence
// that starts at the current position and falling back to a single letter.
func sequenceSum(t *AlphabetTable, text []rune) int64 {
	var total int64
	for i := 0; i < len(text); {
		n, v := matchSequence(t.sequences, text[i:])
		if n > 0 {
			total += v
			i += n
			continue
		}
		total += t.value(text[i])
		i++
	}
	return total
}

// matchSequence returns the length and value of the first sequence that
// prefixes text. seqs must be ordered longest first.
func matchSequence(seqs []sequence, text []rune) (int, int64) {
	for _, s := range seqs {
		if len(s.runes) <= len(text) && slices.Equal(text[:len(s.runes)], s.runes) {
			return len(s.runes), s.value
		}
	}
	return 0, 0
}

func reducedSum(t *AlphabetTable, text []rune) int64 {
	var total int64
	for _, ch := range text {
		if v := t.value(ch); v > 0 {
			total += reduceDigits(v)
		}
	}
	return total
}

// reduceDigits repeatedly sums the decimal digits of v until one digit remains.
func reduceDigits(v int64) int64 {
	for v >= 10 {
		var s int64
		for ; v > 0; v /= 10 {
			s += v % 10
		}
		v = s
	}
	return v
}

func cumulativeSum(t *AlphabetTable, text []rune) int64 {
	var running, total int64
	for _, ch := range text {
		if e, ok := t.Lookup(ch); ok {
			running += e.Value
			total += running
		}
	}
	return total
}

// product multiplies the values of recognized letters. It starts from 1 and
// saturates at math.MaxInt64 instead of wrapping.
func product(t *AlphabetTable, text []rune) int64 {
	result := int64(1)
	for _, ch := range text {
		e, ok := t.Lookup(ch)
		if !ok || e.Value == 0 {
			continue
		}
		if result > math.MaxInt64/e.Value {
			return math.MaxInt64
		}
		result *= e.Value
	}
	return result
}

func ordinalSum(t *AlphabetTable, text []rune) int64 {
	var total int64
	for _, ch := range text {
		if e, ok := t.Lookup(ch); ok {
			total += int64(e.Position)
		}
	}
	return total
}

func atbashSum(t *AlphabetTable, text []rune) int64 {
	var total int64
	for _, ch := range text {
		if partner, ok := t.Reverse(ch); ok {
			total += t.value(partner)
		}
	}
	return total
}

func musafiSum(t *AlphabetTable, text []rune, offset int64) int64 {
	var total, count int64
	for _, ch := range text {
		if e, ok := t.Lookup(ch); ok {
			total += e.Value
			count++
		}
	}
	return total + offset*count
}

func shemiSum(t *AlphabetTable, text []rune) int64 {
	var total int64
	for _, ch := range text {
		e, ok := t.Lookup(ch)
		if !ok {
			continue
		}
		for _, n := range e.Name {
			total += t.value(n)
		}
	}
	return total
}
