package domain

import (
	"slices"
	"strings"
)

// Universal part-of-speech tags the annotator inspects.
const (
	POSDeterminer  = "DET"
	POSPronoun     = "PRON"
	POSNoun        = "NOUN"
	POSProperNoun  = "PROPN"
	POSPunctuation = "PUNCT"
)

// Morphological feature values (Universal Dependencies spelling).
const (
	FeatMasculine = "Masc"
	FeatFeminine  = "Fem"
	FeatNeuter    = "Neut"
	FeatSingular  = "Sing"
	FeatPlural    = "Plur"
)

// Token is a word unit produced by the NLP pipeline.
type Token struct {
	// Text is the surface form exactly as it appears in the input.
	Text string

	// Lemma is the dictionary base form.
	Lemma string

	// POS is the universal part-of-speech tag.
	POS string

	// Morph holds the morphological features, if the tagger produced any.
	Morph Morph
}

// Morph holds the morphological features of a token.
// Each feature may carry several values (e.g. Gender=Masc,Neut).
type Morph struct {
	Gender []string
	Number []string
	Case   []string
}

// ParseFeats parses a UD feature string such as "Case=Nom|Gender=Masc|Number=Sing".
// Unknown features are ignored. "_" and "" yield an empty Morph.
func ParseFeats(feats string) Morph {
	var m Morph
	if feats == "" || feats == "_" {
		return m
	}

	for pair := range strings.SplitSeq(feats, "|") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		values := strings.Split(value, ",")
		switch name {
		case "Gender":
			m.Gender = values
		case "Number":
			m.Number = values
		case "Case":
			m.Case = values
		}
	}

	return m
}

// IsPlural reports whether the tagger marked the token plural only.
func (m Morph) IsPlural() bool {
	return slices.Contains(m.Number, FeatPlural) && !slices.Contains(m.Number, FeatSingular)
}

// IsSingular reports whether the tagger marked the token singular only.
func (m Morph) IsSingular() bool {
	return slices.Contains(m.Number, FeatSingular) && !slices.Contains(m.Number, FeatPlural)
}

// Genders maps the tagged gender values to classifications.
func (m Morph) Genders() []Gender {
	out := make([]Gender, 0, len(m.Gender))
	for _, v := range m.Gender {
		switch v {
		case FeatMasculine:
			out = append(out, Masculine)
		case FeatFeminine:
			out = append(out, Feminine)
		case FeatNeuter:
			out = append(out, Neuter)
		}
	}

	return out
}

// Empty reports whether no gender or number features are present.
func (m Morph) Empty() bool {
	return len(m.Gender) == 0 && len(m.Number) == 0
}

// IsNoun reports whether the token is tagged as a common noun.
func (t Token) IsNoun() bool {
	return t.POS == POSNoun
}

// IsPunctuation reports whether the token is punctuation, by tag or by shape.
func (t Token) IsPunctuation() bool {
	if t.POS == POSPunctuation {
		return true
	}

	return strings.Trim(t.Text, ",.!?;:") == "" && t.Text != ""
}
