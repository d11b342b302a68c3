package domain

// Gender is the grammatical gender/number classification of a token.
type Gender int

const (
	// Unknown marks tokens that are not recognized gender markers.
	Unknown Gender = iota
	// Masculine marks der/ein/er forms.
	Masculine
	// Feminine marks die/eine/sie forms in singular context.
	Feminine
	// Neuter marks das/ein/es forms.
	Neuter
	// Plural marks plural determiners and pronouns.
	Plural
)

// Display colors, one per classification. Unknown has none.
const (
	ColorMasculine = "#3B82F6"
	ColorFeminine  = "#EC4899"
	ColorNeuter    = "#22C55E"
	ColorPlural    = "#F97316"
)

// genders lists the classifications that carry a color, in display order.
var genders = [...]Gender{Masculine, Feminine, Neuter, Plural}

// String returns the lowercase name used in JSON and CSS classes.
func (g Gender) String() string {
	switch g {
	case Masculine:
		return "masculine"
	case Feminine:
		return "feminine"
	case Neuter:
		return "neuter"
	case Plural:
		return "plural"
	default:
		return "unknown"
	}
}

// Color returns the display color, or "" for Unknown.
func (g Gender) Color() string {
	switch g {
	case Masculine:
		return ColorMasculine
	case Feminine:
		return ColorFeminine
	case Neuter:
		return ColorNeuter
	case Plural:
		return ColorPlural
	default:
		return ""
	}
}

// Known reports whether g is one of the four colored classifications.
func (g Gender) Known() bool {
	return g.Color() != ""
}

// MarshalText implements encoding.TextMarshaler.
func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// ParseGender is the inverse of Gender.String. Unrecognized names yield Unknown.
func ParseGender(s string) Gender {
	for _, g := range genders {
		if g.String() == s {
			return g
		}
	}

	return Unknown
}

// LegendEntry is one row of the color legend.
type LegendEntry struct {
	Gender  Gender
	Label   string
	Article string
	Color   string
}

// Legend returns the color legend in display order.
func Legend() []LegendEntry {
	articles := map[Gender]string{
		Masculine: "der",
		Feminine:  "die",
		Neuter:    "das",
		Plural:    "die",
	}
	labels := map[Gender]string{
		Masculine: "Masculine",
		Feminine:  "Feminine",
		Neuter:    "Neuter",
		Plural:    "Plural",
	}

	entries := make([]LegendEntry, 0, len(genders))
	for _, g := range genders {
		entries = append(entries, LegendEntry{
			Gender:  g,
			Label:   labels[g],
			Article: articles[g],
			Color:   g.Color(),
		})
	}

	return entries
}

// Examples are sample sentences offered by the user interfaces.
func Examples() []string {
	return []string{
		"Der Hund spielt mit der Katze.",
		"Die Frau liest das Buch.",
		"Das Kind isst einen Apfel.",
		"Die Kinder spielen im Garten.",
		"Der Mann kauft eine Blume für die Frau.",
	}
}
