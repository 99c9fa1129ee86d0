// Package csvlist parses CSV term lists. The first column holds the term and
// an optional "source" column overrides the source recorded for the row. A
// header row is recognized when its first cell is "text", "word" or "term".
package csvlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/heartmarshall/gematria/internal/app/seeder/wordlist"
)

var headerNames = map[string]bool{"text": true, "word": true, "term": true}

// Parse reads the CSV term list at path.
func Parse(path string) ([]wordlist.Term, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return parse(f)
}

func parse(r io.Reader) ([]wordlist.Term, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	var (
		terms     []wordlist.Term
		sourceCol = -1
		first     = true
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if len(record) > 0 {
				record[0] = strings.TrimPrefix(record[0], "\ufeff")
			}
			if len(record) > 0 && headerNames[strings.ToLower(strings.TrimSpace(record[0]))] {
				for i, col := range record {
					if strings.EqualFold(strings.TrimSpace(col), "source") {
						sourceCol = i
					}
				}
				continue
			}
		}

		if len(record) == 0 {
			continue
		}
		text := strings.TrimSpace(record[0])
		if text == "" {
			continue
		}

		term := wordlist.Term{Line: line, Text: text}
		if sourceCol > 0 && sourceCol < len(record) {
			term.Source = strings.TrimSpace(record[sourceCol])
		}
		terms = append(terms, term)
	}

	return terms, nil
}
