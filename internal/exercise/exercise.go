// Package exercise implements fretboard quizzes: the learner is asked where a
// note or scale degree lies and answers by marking positions.
package exercise

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/theory"
)

// Kind identifies an exercise type
type Kind string

const (
	KindMarkNote           Kind = "mark-note"
	KindMarkDegree         Kind = "mark-degree"
	KindMarkDegreeOnString Kind = "mark-degree-on-string"
)

// Kinds lists the available exercise types
func Kinds() []Kind {
	return []Kind{KindMarkNote, KindMarkDegree, KindMarkDegreeOnString}
}

// DisplayName turns a kind into a title such as "Mark Degree On String"
func (k Kind) DisplayName() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(k), "-", " "))
}

// ErrNoQuestion is returned when the fret window holds nothing to ask about
var ErrNoQuestion = errors.NewStd("no question available in the fret window")

// Window is the fret range answers are graded against
type Window struct {
	FirstFret   int  `json:"first_fret"`
	LastFret    int  `json:"last_fret"`
	OpenStrings bool `json:"open_strings"`
}

// Question is one quiz prompt
type Question struct {
	Text   string             `json:"text"`
	Note   theory.Note        `json:"note"`
	Degree theory.ScaleDegree `json:"degree"`
	String *int               `json:"string,omitempty"`
}

// Controller drives one exercise. It is not safe for concurrent use.
type Controller interface {
	Kind() Kind
	Name() string
	// NextQuestion picks a new question, avoiding the previous answer when
	// another is available.
	NextQuestion() (Question, error)
	// AnswerKey returns the positions that answer the current question
	AnswerKey() (*fretboard.Data, error)
	// Validate grades a selection against the answer key
	Validate(selection *fretboard.Data) (bool, error)
}

// New creates an exercise controller. A nil rng uses a randomly seeded source.
func New(kind Kind, ctx *fretboard.Context, window Window, rng *rand.Rand) (Controller, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	b := base{ctx: ctx, window: window, rng: rng}

	switch kind {
	case KindMarkNote:
		return &MarkNote{base: b, current: ctx.Root()}, nil
	case KindMarkDegree:
		return &MarkDegree{base: b, current: firstDegree(ctx)}, nil
	case KindMarkDegreeOnString:
		return &MarkDegreeOnString{base: b, current: firstDegree(ctx)}, nil
	default:
		return nil, errors.Newf("unknown exercise kind %q", kind).
			Component("exercise").
			Category(errors.CategoryValidation).
			Context("kind", string(kind)).
			Build()
	}
}

func firstDegree(ctx *fretboard.Context) theory.ScaleDegree {
	if degrees := ctx.Scale().Degrees(); len(degrees) > 0 {
		return degrees[0]
	}
	return theory.DefaultScaleDegree(0)
}

type base struct {
	ctx    *fretboard.Context
	window Window
	rng    *rand.Rand
}

func (b *base) clip(d *fretboard.Data) {
	d.Clip(b.window.FirstFret, b.window.LastFret, b.window.OpenStrings)
}

func (b *base) validate(key func() (*fretboard.Data, error), selection *fretboard.Data) (bool, error) {
	correct, err := key()
	if err != nil {
		return false, err
	}
	return selection.Equal(correct), nil
}

// pick returns a random element whose key differs from avoid. When every
// element matches avoid the whole list is used.
func pick[T any](rng *rand.Rand, items []T, avoid int, key func(T) int) (T, bool) {
	candidates := slices.DeleteFunc(slices.Clone(items), func(item T) bool { return key(item) == avoid })
	if len(candidates) == 0 {
		candidates = items
	}
	if len(candidates) == 0 {
		var zero T
		return zero, false
	}
	return candidates[rng.IntN(len(candidates))], true
}

func noQuestion(kind Kind) error {
	return errors.New(ErrNoQuestion).
		Component("exercise").
		Category(errors.CategoryValidation).
		Context("kind", string(kind)).
		Build()
}

// Ordinal renders a 0-based string index as "1st", "2nd", "3rd", "4th"...
func Ordinal(index int) string {
	n := index + 1
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
