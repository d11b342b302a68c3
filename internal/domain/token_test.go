package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFeats(t *testing.T) {
	tests := []struct {
		name     string
		feats    string
		expected Morph
	}{
		{"empty", "", Morph{}},
		{"underscore", "_", Morph{}},
		{
			name:     "full",
			feats:    "Case=Nom|Definite=Def|Gender=Masc|Number=Sing|PronType=Art",
			expected: Morph{Gender: []string{"Masc"}, Number: []string{"Sing"}, Case: []string{"Nom"}},
		},
		{
			name:     "multi valued",
			feats:    "Case=Dat|Gender=Masc,Neut|Number=Sing",
			expected: Morph{Gender: []string{"Masc", "Neut"}, Number: []string{"Sing"}, Case: []string{"Dat"}},
		},
		{"malformed pair ignored", "Gender|Number=Plur", Morph{Number: []string{"Plur"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFeats(tt.feats))
		})
	}
}

func TestMorph_Number(t *testing.T) {
	assert.True(t, ParseFeats("Number=Plur").IsPlural())
	assert.False(t, ParseFeats("Number=Plur").IsSingular())
	assert.True(t, ParseFeats("Number=Sing").IsSingular())
	assert.False(t, ParseFeats("Number=Plur,Sing").IsPlural())
	assert.False(t, ParseFeats("Number=Plur,Sing").IsSingular())
	assert.True(t, ParseFeats("").Empty())
	assert.False(t, ParseFeats("Gender=Fem").Empty())
}

func TestMorph_Genders(t *testing.T) {
	assert.Equal(t, []Gender{Masculine, Neuter}, ParseFeats("Gender=Masc,Neut").Genders())
	assert.Empty(t, ParseFeats("Number=Plur").Genders())
}

func TestToken_Kinds(t *testing.T) {
	assert.True(t, Token{Text: "Haus", POS: POSNoun}.IsNoun())
	assert.False(t, Token{Text: "Berlin", POS: POSProperNoun}.IsNoun())
	assert.True(t, Token{Text: ",", POS: POSPunctuation}.IsPunctuation())
	assert.True(t, Token{Text: "?!"}.IsPunctuation())
	assert.False(t, Token{Text: ""}.IsPunctuation())
	assert.False(t, Token{Text: "-"}.IsPunctuation())
}
