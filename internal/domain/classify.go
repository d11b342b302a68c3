package domain

import "slices"

// Classify assigns a classification to a single token using the default lexicon.
func Classify(tok Token) Gender {
	return DefaultLexicon().Classify(tok)
}

// Classify assigns a classification to a single token.
//
// Words outside the lexicon are Unknown. Otherwise the candidate sets are
// narrowed by the tagged features in this order:
//
//  1. Number=Plur selects Plural when the word can be plural.
//  2. Number=Sing removes Plural.
//  3. A Gender feature intersecting the remaining candidates keeps only those.
//
// A single remaining candidate wins. If several remain, the word's fallback
// is used when it is still a candidate, else the first in display order.
func (l *Lexicon) Classify(tok Token) Gender {
	candidates := l.Candidates(tok.Text)

	switch len(candidates) {
	case 0:
		return Unknown
	case 1:
		return candidates[0]
	}

	if tok.Morph.IsPlural() && slices.Contains(candidates, Plural) {
		return Plural
	}

	if tok.Morph.IsSingular() {
		candidates = without(candidates, Plural)
	}

	if tagged := intersect(candidates, tok.Morph.Genders()); len(tagged) > 0 {
		candidates = tagged
	}

	if len(candidates) == 1 {
		return candidates[0]
	}

	if fb, ok := l.Fallback(tok.Text); ok && slices.Contains(candidates, fb) {
		return fb
	}

	return candidates[0]
}

func without(gs []Gender, drop Gender) []Gender {
	out := make([]Gender, 0, len(gs))
	for _, g := range gs {
		if g != drop {
			out = append(out, g)
		}
	}

	return out
}

func intersect(a, b []Gender) []Gender {
	var out []Gender
	for _, g := range a {
		if slices.Contains(b, g) {
			out = append(out, g)
		}
	}

	return out
}
