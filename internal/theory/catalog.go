package theory

import "slices"

// NamedScale is a catalog entry
type NamedScale struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Category string `json:"category"`
	ID       string `json:"id"`
}

// NamedTuning is a catalog entry
type NamedTuning struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Scale categories in display order
const (
	CategoryPentatonic = "Pentatonic"
	CategoryMajorModes = "Major Modes"
	CategoryArpeggios  = "Arpeggios"
	CategoryBlues      = "Blues"
	CategoryVarious    = "Various"
)

var scaleCatalog = []NamedScale{
	{"major-pentatonic", "Major", CategoryPentatonic, "1-2-3-5-6"},
	{"minor-pentatonic", "Minor", CategoryPentatonic, "1-b3-4-5-b7"},

	{"ionian", "Ionian", CategoryMajorModes, "1-2-3-4-5-6-7"},
	{"dorian", "Dorian", CategoryMajorModes, "1-2-b3-4-5-6-b7"},
	{"phrygian", "Phrygian", CategoryMajorModes, "1-b2-b3-4-5-b6-b7"},
	{"lydian", "Lydian", CategoryMajorModes, "1-2-3-#4-5-6-7"},
	{"mixolydian", "Mixolydian", CategoryMajorModes, "1-2-3-4-5-6-b7"},
	{"aeolian", "Aeolian", CategoryMajorModes, "1-2-b3-4-5-b6-b7"},
	{"locrian", "Locrian", CategoryMajorModes, "1-b2-b3-4-b5-b6-b7"},

	{"major-arpeggio", "Major", CategoryArpeggios, "1-3-5"},
	{"minor-arpeggio", "Minor", CategoryArpeggios, "1-b3-5"},
	{"major7-arpeggio", "Major7", CategoryArpeggios, "1-3-5-7"},
	{"minor7-arpeggio", "Minor7", CategoryArpeggios, "1-b3-5-b7"},
	{"dominant7-arpeggio", "Dominant", CategoryArpeggios, "1-3-5-b7"},

	{"major-blues", "Major", CategoryBlues, "1-2-b3-3-5-6"},
	{"minor-blues", "Minor", CategoryBlues, "1-b3-4-b5-5-b7"},

	{"roots", "Roots", CategoryVarious, "1"},
	{"roots-fifths", "Roots + Fifths", CategoryVarious, "1-5"},
	{"chromatic", "Chromatic", CategoryVarious, "1-b2-2-b3-3-4-b5-5-b6-6-b7-7"},
}

var tuningCatalog = []NamedTuning{
	{"e-standard", "E Standard", "E-A-D-G-B-E"},
	{"eb-standard", "Eb Standard", "Eb-Ab-Db-Gb-Bb-Eb"},
	{"d-standard", "D Standard", "D-G-C-F-A-D"},
	{"c-standard", "C Standard", "C-F-Bb-Eb-G-C"},
	{"b-standard", "B Standard", "B-E-A-D-F#-B"},
	{"dropped-d", "Dropped D", "D-A-D-G-B-E"},
	{"dropped-c", "Dropped C", "C-G-C-F-A-D"},
	{"dropped-b", "Dropped B", "B-F#-B-E-G#-C#"},
}

// rootOptions are the selectable roots in circle-of-fifths order
var rootOptions = []string{"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#"}

// Scales returns the scale catalog in display order
func Scales() []NamedScale {
	return slices.Clone(scaleCatalog)
}

// Tunings returns the tuning catalog in display order
func Tunings() []NamedTuning {
	return slices.Clone(tuningCatalog)
}

// Roots returns the selectable root notes
func Roots() []Note {
	notes := make([]Note, len(rootOptions))
	for i, id := range rootOptions {
		notes[i] = MustParseNote(id)
	}
	return notes
}

// LookupScale resolves a catalog slug or a raw scale identifier
func LookupScale(nameOrID string) (Scale, error) {
	for _, s := range scaleCatalog {
		if s.Slug == nameOrID {
			return MustParseScale(s.ID), nil
		}
	}
	return ParseScale(nameOrID)
}

// LookupTuning resolves a catalog slug or a raw tuning identifier
func LookupTuning(nameOrID string) (Tuning, error) {
	for _, t := range tuningCatalog {
		if t.Slug == nameOrID {
			return MustParseTuning(t.ID), nil
		}
	}
	return ParseTuning(nameOrID)
}

// ScaleName returns the display name of a scale id, or "" when it is not cataloged
func ScaleName(id string) string {
	for _, s := range scaleCatalog {
		if s.ID != id {
			continue
		}
		switch s.Category {
		case CategoryPentatonic, CategoryBlues:
			return s.Name + " " + s.Category
		case CategoryArpeggios:
			return s.Name + " Arpeggio"
		default:
			return s.Name
		}
	}
	return ""
}
