package domain

import (
	"fmt"
	"html"
	"strings"
)

// SpanKind tells how a span was produced.
type SpanKind int

const (
	// SpanPlain is untouched input text.
	SpanPlain SpanKind = iota
	// SpanMarker is a classified determiner or pronoun.
	SpanMarker
	// SpanNoun is a noun colored after its article (opt-in).
	SpanNoun
)

// String returns the lowercase name used in JSON.
func (k SpanKind) String() string {
	switch k {
	case SpanMarker:
		return "marker"
	case SpanNoun:
		return "noun"
	default:
		return "plain"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SpanKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Span is a contiguous range of the input text. Start and End are byte offsets.
type Span struct {
	Text   string
	Start  int
	End    int
	Kind   SpanKind
	Gender Gender
}

// Color returns the span's display color, or "" when it is uncolored.
func (s Span) Color() string {
	if s.Kind == SpanPlain {
		return ""
	}

	return s.Gender.Color()
}

// Annotation is the result of an annotation pass. Its spans cover Text exactly.
type Annotation struct {
	Text  string
	Spans []Span
}

// AnnotateOptions tunes an annotation pass.
type AnnotateOptions struct {
	// ColorNouns also colors nouns, with the gender of the preceding
	// article or, failing that, their own tagged gender.
	ColorNouns bool
}

// Annotate builds spans over text from tagger output using the default lexicon.
func Annotate(text string, tokens []Token, opts AnnotateOptions) *Annotation {
	return DefaultLexicon().Annotate(text, tokens, opts)
}

// Annotate builds spans over text from tagger output.
//
// Tokens are located in text by forward search, so any whitespace the tagger
// dropped stays in plain spans between them. A token that cannot be found
// after the current position is skipped. Joining the span texts always
// reproduces text.
func (l *Lexicon) Annotate(text string, tokens []Token, opts AnnotateOptions) *Annotation {
	a := &Annotation{Text: text}
	if text == "" {
		return a
	}

	var (
		cursor  int
		carried Gender
	)

	for _, tok := range tokens {
		if tok.Text == "" {
			continue
		}

		idx := strings.Index(text[cursor:], tok.Text)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(tok.Text)

		if start > cursor {
			a.appendPlain(text, cursor, start)
		}

		span := Span{Text: tok.Text, Start: start, End: end}

		switch g := l.Classify(tok); {
		case g.Known():
			span.Kind = SpanMarker
			span.Gender = g
			if tok.POS != POSPronoun {
				carried = g
			}
		case opts.ColorNouns && tok.IsNoun():
			if carried == Unknown {
				carried = nounGender(tok.Morph)
			}
			if carried != Unknown {
				span.Kind = SpanNoun
				span.Gender = carried
			}
		}

		if tok.IsNoun() || tok.IsPunctuation() {
			carried = Unknown
		}

		a.Spans = append(a.Spans, span)
		cursor = end
	}

	if cursor < len(text) {
		a.appendPlain(text, cursor, len(text))
	}

	return a
}

func (a *Annotation) appendPlain(text string, start, end int) {
	a.Spans = append(a.Spans, Span{Text: text[start:end], Start: start, End: end})
}

func nounGender(m Morph) Gender {
	if m.IsPlural() {
		return Plural
	}

	if gs := m.Genders(); len(gs) == 1 {
		return gs[0]
	}

	return Unknown
}

// String joins the span texts. It equals Text for every well-formed annotation.
func (a *Annotation) String() string {
	var b strings.Builder
	b.Grow(len(a.Text))
	for _, s := range a.Spans {
		b.WriteString(s.Text)
	}

	return b.String()
}

// Counts returns how many colored spans carry each classification.
func (a *Annotation) Counts() map[Gender]int {
	counts := make(map[Gender]int, len(genders))
	for _, s := range a.Spans {
		if s.Kind != SpanPlain {
			counts[s.Gender]++
		}
	}

	return counts
}

// Markup renders the annotation as HTML. Plain text is escaped; colored spans
// get a gender class and an inline color. Line breaks become <br>.
func (a *Annotation) Markup() string {
	var b strings.Builder
	b.Grow(len(a.Text) * 2)

	for _, s := range a.Spans {
		escaped := strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br>\n")
		if s.Kind == SpanPlain {
			b.WriteString(escaped)
			continue
		}

		weight := 700
		if s.Kind == SpanNoun {
			weight = 600
		}

		fmt.Fprintf(&b, `<span class="gender-%s" style="color: %s; font-weight: %d">%s</span>`,
			s.Gender, s.Color(), weight, escaped)
	}

	return b.String()
}
