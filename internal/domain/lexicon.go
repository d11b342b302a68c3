package domain

import (
	"slices"
	"strings"
	"sync"
)

// Lexicon is the fixed table of German determiners and pronouns, keyed by
// lowercase surface form. It is immutable once built.
type Lexicon struct {
	sets     map[Gender]map[string]struct{}
	fallback map[string]Gender
}

// NewLexicon builds the German function-word table.
//
// A form may belong to several sets ("die" is feminine singular and plural).
// For every such form the fallback table names the reading used when the
// tagger gives no deciding feature.
func NewLexicon() *Lexicon {
	words := map[Gender][]string{
		Masculine: {
			"der", "den", "dem", "des",
			"ein", "einen", "einem", "eines", "einer",
			"kein", "keinen", "keinem", "keines", "keiner",
			"dieser", "diesen", "diesem", "dieses",
			"jener", "jenen", "jenem", "jenes",
			"welcher", "welchen", "welchem", "welches",
			"er", "ihn", "ihm",
		},
		Feminine: {
			"die", "der",
			"eine", "einer",
			"keine", "keiner",
			"diese", "dieser",
			"jene", "jener",
			"welche", "welcher",
			"sie", "ihr",
		},
		Neuter: {
			"das", "dem", "des",
			"ein", "einem", "eines",
			"kein", "keinem", "keines",
			"dieses", "diesem",
			"jenes", "jenem",
			"welches", "welchem",
			"es", "ihm",
		},
		Plural: {
			"die", "den", "der",
			"keine", "keinen", "keiner",
			"diese", "diesen", "dieser",
			"jene", "jenen", "jener",
			"welche", "welchen", "welcher",
			"sie", "ihnen", "ihr",
		},
	}

	sets := make(map[Gender]map[string]struct{}, len(words))
	for g, list := range words {
		set := make(map[string]struct{}, len(list))
		for _, w := range list {
			set[w] = struct{}{}
		}
		sets[g] = set
	}

	return &Lexicon{
		sets: sets,
		fallback: map[string]Gender{
			// die/sie/ihr read as plural unless the tagger says singular.
			"die": Plural, "sie": Plural, "ihr": Plural,
			"keine": Plural, "diese": Plural, "jene": Plural, "welche": Plural,

			"der": Masculine, "den": Masculine, "dem": Masculine, "des": Masculine,
			"ein": Masculine, "einem": Masculine, "eines": Masculine,
			"kein": Masculine, "keinen": Masculine, "keinem": Masculine, "keines": Masculine,
			"dieser": Masculine, "diesen": Masculine, "diesem": Masculine,
			"jener": Masculine, "jenen": Masculine, "jenem": Masculine,
			"welcher": Masculine, "welchen": Masculine, "welchem": Masculine,
			"ihm": Masculine,

			"einer": Feminine, "keiner": Feminine,

			"dieses": Neuter, "jenes": Neuter, "welches": Neuter,
		},
	}
}

var defaultLexicon = sync.OnceValue(NewLexicon)

// DefaultLexicon returns the shared, read-only German lexicon.
func DefaultLexicon() *Lexicon {
	return defaultLexicon()
}

// Candidates returns every classification the word may carry, in
// Masculine, Feminine, Neuter, Plural order.
func (l *Lexicon) Candidates(word string) []Gender {
	w := strings.ToLower(word)

	var out []Gender
	for _, g := range genders {
		if _, ok := l.sets[g][w]; ok {
			out = append(out, g)
		}
	}

	return out
}

// Contains reports whether the word is in any set.
func (l *Lexicon) Contains(word string) bool {
	return len(l.Candidates(word)) > 0
}

// Fallback returns the default reading of an ambiguous word.
func (l *Lexicon) Fallback(word string) (Gender, bool) {
	g, ok := l.fallback[strings.ToLower(word)]
	return g, ok
}

// Ambiguous lists the forms that belong to more than one set, sorted.
func (l *Lexicon) Ambiguous() []string {
	seen := make(map[string]int)
	for _, set := range l.sets {
		for w := range set {
			seen[w]++
		}
	}

	var out []string
	for w, n := range seen {
		if n > 1 {
			out = append(out, w)
		}
	}
	slices.Sort(out)

	return out
}
