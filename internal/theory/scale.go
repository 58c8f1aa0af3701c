package theory

import (
	"slices"
	"strings"
)

const idSeparator = "-"

// Scale is an ordered list of degrees, e.g. "1-b3-4-5-b7"
type Scale struct {
	degrees []ScaleDegree
}

// ParseScale parses a dash-separated list of degree identifiers
func ParseScale(id string) (Scale, error) {
	parts := strings.Split(id, idSeparator)
	degrees := make([]ScaleDegree, 0, len(parts))
	for _, part := range parts {
		d, err := ParseScaleDegree(part)
		if err != nil {
			return Scale{}, invalidIdentifier("scale", id)
		}
		degrees = append(degrees, d)
	}
	return Scale{degrees: degrees}, nil
}

// MustParseScale panics on error
func MustParseScale(id string) Scale {
	s, err := ParseScale(id)
	if err != nil {
		panic(err)
	}
	return s
}

// ID joins the degree identifiers in declared order
func (s Scale) ID() string {
	ids := make([]string, len(s.degrees))
	for i, d := range s.degrees {
		ids[i] = d.ID()
	}
	return strings.Join(ids, idSeparator)
}

func (s Scale) String() string {
	return s.ID()
}

// Degrees returns a copy in declared order
func (s Scale) Degrees() []ScaleDegree {
	return slices.Clone(s.degrees)
}

func (s Scale) Len() int {
	return len(s.degrees)
}

// DegreeByValue returns the first declared degree with the given interval
func (s Scale) DegreeByValue(value int) (ScaleDegree, bool) {
	value = Mod(value, PitchClasses)
	for _, d := range s.degrees {
		if d.Value() == value {
			return d, true
		}
	}
	return ScaleDegree{}, false
}

// Contains reports whether any declared degree has the same interval as d
func (s Scale) Contains(d ScaleDegree) bool {
	_, ok := s.DegreeByValue(d.Value())
	return ok
}

func (s Scale) MarshalText() ([]byte, error) {
	return []byte(s.ID()), nil
}

func (s *Scale) UnmarshalText(text []byte) error {
	parsed, err := ParseScale(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
