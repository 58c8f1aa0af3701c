package theory

import (
	"regexp"
	"strconv"
)

var degreeIDPattern = regexp.MustCompile(`^(b|bb|#|##)?([1-7])$`)

// degreeValues maps degree numbers 1..7 to semitones above the root
var degreeValues = [8]int{0, 0, 2, 4, 5, 7, 9, 11}

var defaultDegreeIDs = [PitchClasses]string{"1", "b2", "2", "b3", "3", "4", "b5", "5", "b6", "6", "b7", "7"}

// ScaleDegree is an interval above the root named by number and accidental
type ScaleDegree struct {
	number     int
	accidental Accidental
}

// ParseScaleDegree parses identifiers such as "1", "b3" or "#4".
// The root degree takes no accidental.
func ParseScaleDegree(id string) (ScaleDegree, error) {
	m := degreeIDPattern.FindStringSubmatch(id)
	if m == nil {
		return ScaleDegree{}, invalidIdentifier("scale degree", id)
	}

	accidental, _ := parseAccidental(m[1])
	number, _ := strconv.Atoi(m[2])
	if number == 1 && accidental != Natural {
		return ScaleDegree{}, invalidIdentifier("scale degree", id)
	}

	return ScaleDegree{number: number, accidental: accidental}, nil
}

// MustParseScaleDegree panics on error
func MustParseScaleDegree(id string) ScaleDegree {
	d, err := ParseScaleDegree(id)
	if err != nil {
		panic(err)
	}
	return d
}

// DefaultScaleDegree returns the conventional name for an interval:
// 1 b2 2 b3 3 4 b5 5 b6 6 b7 7.
func DefaultScaleDegree(value int) ScaleDegree {
	return MustParseScaleDegree(defaultDegreeIDs[Mod(value, PitchClasses)])
}

// Value returns semitones above the root in [0, 12)
func (d ScaleDegree) Value() int {
	return Mod(degreeValues[d.Number()]+d.accidental.Offset(), PitchClasses)
}

// Number returns 1..7; the zero value reads as the root
func (d ScaleDegree) Number() int {
	if d.number == 0 {
		return 1
	}
	return d.number
}

func (d ScaleDegree) Accidental() Accidental {
	return d.accidental
}

// NaturalDegree drops the accidental
func (d ScaleDegree) NaturalDegree() ScaleDegree {
	return ScaleDegree{number: d.Number()}
}

func (d ScaleDegree) ID() string {
	return d.accidental.ID() + strconv.Itoa(d.Number())
}

func (d ScaleDegree) String() string {
	return d.ID()
}

// Text renders the degree with musical glyphs, e.g. "♭3"
func (d ScaleDegree) Text() string {
	return d.accidental.Text() + strconv.Itoa(d.Number())
}

// Equal reports identical identifiers; "#4" and "b5" are not equal
func (d ScaleDegree) Equal(other ScaleDegree) bool {
	return d.ID() == other.ID()
}

func (d ScaleDegree) MarshalText() ([]byte, error) {
	return []byte(d.ID()), nil
}

func (d *ScaleDegree) UnmarshalText(text []byte) error {
	parsed, err := ParseScaleDegree(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
