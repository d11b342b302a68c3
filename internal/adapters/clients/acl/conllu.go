package acl

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jsamuelsen/derdiedas/internal/domain"
)

// CoNLL-U columns.
const (
	colID = iota
	colForm
	colLemma
	colUPOS
	colXPOS
	colFeats
	conlluMinColumns
)

// ParseCoNLLU reads tokens from UDPipe's CoNLL-U output in reading order.
//
// A multiword token such as "zum" (zu + dem) is returned once with its
// surface form and the tags of its last syntactic word; the component words
// are skipped so every token text occurs in the input. Empty nodes (IDs like
// "5.1") are skipped.
func ParseCoNLLU(data string) ([]domain.Token, error) {
	var tokens []domain.Token

	// Last syntactic word ID covered by the current multiword token.
	skipThrough := 0
	pending := -1

	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if line == "" {
			skipThrough, pending = 0, -1
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) < conlluMinColumns {
			return nil, fmt.Errorf("conllu line %d: expected 10 columns, got %d", lineNo, len(cols))
		}

		id := cols[colID]

		if strings.Contains(id, ".") {
			continue
		}

		if start, end, ok := strings.Cut(id, "-"); ok {
			var first, last int
			if _, err := fmt.Sscanf(start+" "+end, "%d %d", &first, &last); err != nil {
				return nil, fmt.Errorf("conllu line %d: bad range %q", lineNo, id)
			}

			tokens = append(tokens, domain.Token{Text: cols[colForm]})
			skipThrough, pending = last, len(tokens)-1

			continue
		}

		var n int
		if _, err := fmt.Sscanf(id, "%d", &n); err != nil {
			return nil, fmt.Errorf("conllu line %d: bad id %q", lineNo, id)
		}

		word := domain.Token{
			Text:  cols[colForm],
			Lemma: cols[colLemma],
			POS:   cols[colUPOS],
			Morph: domain.ParseFeats(cols[colFeats]),
		}

		if n <= skipThrough {
			surface := &tokens[pending]
			surface.Lemma, surface.POS, surface.Morph = word.Lemma, word.POS, word.Morph

			continue
		}

		tokens = append(tokens, word)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading conllu: %w", err)
	}

	return tokens, nil
}
