package domain

import (
	"slices"
	"strings"
)

// Language is an ISO 639-1 code.
type Language string

const (
	German  Language = "de"
	English Language = "en"
	Spanish Language = "es"
)

// SourceLanguage is the language of every input text.
const SourceLanguage = German

// targetLanguages are the supported translation targets in display order.
var targetLanguages = [...]Language{English, Spanish}

// TargetLanguages returns the supported translation targets.
func TargetLanguages() []Language {
	return slices.Clone(targetLanguages[:])
}

// Name returns the English name of the language.
func (l Language) Name() string {
	switch l {
	case German:
		return "German"
	case English:
		return "English"
	case Spanish:
		return "Spanish"
	default:
		return string(l)
	}
}

// ParseLanguage resolves a target code or English name, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, l := range targetLanguages {
		if v == string(l) || v == strings.ToLower(l.Name()) {
			return l, nil
		}
	}

	return "", NewUnsupportedLanguageError(s)
}

func supportedCodes() string {
	codes := make([]string, 0, len(targetLanguages))
	for _, l := range targetLanguages {
		codes = append(codes, string(l))
	}

	return strings.Join(codes, ", ")
}

// TranslationRequest is one batch sent to a translation backend.
// The backend must return exactly one result per segment, in order.
type TranslationRequest struct {
	Segments []string
	Source   Language
	Target   Language
}

// Translation is the result of translating a text.
type Translation struct {
	Source Language
	Target Language
	Input  string
	Text   string
}
