package gematria

import (
	"bytes"
	"encoding/json"
	"iter"
	"strconv"
)

// Result holds every method's value for one input. It is a plain value:
// equal inputs produce Results that compare equal with ==.
type Result struct {
	// Input is the NFC-normalized text the values were computed from.
	Input  string
	values [methodCount]int64
}

// Value returns the value computed by id, or 0 for an invalid id.
func (r Result) Value(id MethodID) int64 {
	if !id.Valid() {
		return 0
	}
	return r.values[id]
}

// Values returns a fresh map holding all thirteen methods.
func (r Result) Values() map[MethodID]int64 {
	m := make(map[MethodID]int64, methodCount)
	for id, v := range r.All() {
		m[id] = v
	}
	return m
}

// Columns returns the values keyed by MethodID.Key.
func (r Result) Columns() map[string]int64 {
	m := make(map[string]int64, methodCount)
	for id, v := range r.All() {
		m[id.Key()] = v
	}
	return m
}

// All yields every method and its value in MethodID order.
func (r Result) All() iter.Seq2[MethodID, int64] {
	return func(yield func(MethodID, int64) bool) {
		for i, v := range r.values {
			if !yield(MethodID(i), v) {
				return
			}
		}
	}
}

// ResultFromColumns rebuilds a Result from stored column values. Missing
// columns keep their zero value.
func ResultFromColumns(input string, cols map[string]int64) Result {
	r := Result{Input: input}
	for i := range r.values {
		r.values[i] = cols[MethodID(i).Key()]
	}
	return r
}

// ResultFromValues builds a Result from values in MethodID order.
func ResultFromValues(input string, values [MethodCount]int64) Result {
	return Result{Input: input, values: values}
}

// Array returns the values in MethodID order.
func (r Result) Array() [MethodCount]int64 { return r.values }

// MarshalJSON encodes the values object with keys in MethodID order, so
// the encoding of equal Results is byte-identical.
func (r Result) MarshalJSON() ([]byte, error) {
	input, err := json.Marshal(r.Input)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"input":`)
	buf.Write(input)
	buf.WriteString(`,"values":{`)
	for id, v := range r.All() {
		if id > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(id.Key())
		buf.WriteString(`":`)
		buf.WriteString(strconv.FormatInt(v, 10))
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
