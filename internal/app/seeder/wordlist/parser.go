// Package wordlist parses plain-text term lists: one term per line, blank
// lines and lines starting with '#' ignored.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Term is one entry read from a source file.
type Term struct {
	Line   int
	Text   string
	Source string
}

// maxLineBytes bounds a single line; long phrases and verses fit easily.
const maxLineBytes = 1 << 20

// Parse reads the term list at path.
func Parse(path string) ([]Term, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	return parse(f)
}

func parse(r io.Reader) ([]Term, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var terms []Term
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		terms = append(terms, Term{Line: line, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", line+1, err)
	}

	return terms, nil
}
