package domain

import (
	"strings"
	"unicode"
)

const (
	maxSpeakerBytes = 40
	maxSpeakerWords = 4
)

// DialogueLine is one input line split into the parts that survive
// translation verbatim and the part that is translated.
//
// Speaker + Lead + Body + Trail is the original line.
type DialogueLine struct {
	// Speaker is the "Name:" prefix including the whitespace after the colon.
	Speaker string
	// Lead is leading whitespace before Body.
	Lead string
	// Body is the text to translate.
	Body string
	// Trail is trailing whitespace after Body, including any "\r".
	Trail string
}

// Translatable reports whether the line has text for the translation backend.
func (l DialogueLine) Translatable() bool {
	return l.Body != ""
}

// Render rebuilds the line around a translated body.
func (l DialogueLine) Render(body string) string {
	return l.Speaker + l.Lead + body + l.Trail
}

// String returns the original line.
func (l DialogueLine) String() string {
	return l.Render(l.Body)
}

// ParseLines splits text on "\n" and detects a speaker prefix on each line.
func ParseLines(text string) []DialogueLine {
	raw := strings.Split(text, "\n")
	lines := make([]DialogueLine, 0, len(raw))
	for _, r := range raw {
		lines = append(lines, ParseLine(r))
	}

	return lines
}

// ParseLine splits a single line (without "\n").
//
// A speaker prefix is a label of one to four words, at most 40 bytes, that
// does not start with whitespace, followed by a colon, at least one blank and
// some text. "10:30", "http://" and a lone "Name:" are not prefixes.
func ParseLine(line string) DialogueLine {
	var dl DialogueLine

	rest := line
	if speaker, ok := speakerPrefix(line); ok {
		dl.Speaker = speaker
		rest = line[len(speaker):]
	}

	body := strings.TrimLeftFunc(rest, unicode.IsSpace)
	dl.Lead = rest[:len(rest)-len(body)]

	trimmed := strings.TrimRightFunc(body, unicode.IsSpace)
	dl.Trail = body[len(trimmed):]
	dl.Body = trimmed

	return dl
}

func speakerPrefix(line string) (string, bool) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 || colon > maxSpeakerBytes {
		return "", false
	}

	name := line[:colon]
	if strings.TrimLeftFunc(name, unicode.IsSpace) != name {
		return "", false
	}

	if n := len(strings.Fields(name)); n == 0 || n > maxSpeakerWords {
		return "", false
	}

	after := line[colon+1:]
	utterance := strings.TrimLeft(after, " \t")
	if len(utterance) == len(after) || strings.TrimSpace(utterance) == "" {
		return "", false
	}

	return line[:len(line)-len(utterance)], true
}

// JoinLines reassembles rendered lines with "\n".
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
