package exercise

import (
	"fmt"

	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/theory"
)

// MarkNote asks for every position of a scale note
type MarkNote struct {
	base
	current theory.Note
}

func (e *MarkNote) Kind() Kind   { return KindMarkNote }
func (e *MarkNote) Name() string { return KindMarkNote.DisplayName() }

func (e *MarkNote) NextQuestion() (Question, error) {
	var notes []theory.Note
	for _, d := range e.ctx.Scale().Degrees() {
		n, err := e.ctx.NoteByScaleDegree(d)
		if err != nil {
			return Question{}, err
		}
		notes = append(notes, n)
	}

	n, ok := pick(e.rng, notes, e.current.PitchClass(), theory.Note.PitchClass)
	if !ok {
		return Question{}, noQuestion(e.Kind())
	}
	e.current = n

	return Question{
		Text:   fmt.Sprintf("Where do you find the note %s?", n.Text()),
		Note:   n,
		Degree: e.ctx.ScaleDegreeByValue(n.PitchClass() - e.ctx.Root().PitchClass()),
	}, nil
}

func (e *MarkNote) AnswerKey() (*fretboard.Data, error) {
	correct := fretboard.NewData(e.ctx)
	if err := correct.SetNote(e.current); err != nil {
		return nil, err
	}
	e.clip(correct)
	return correct, nil
}

func (e *MarkNote) Validate(selection *fretboard.Data) (bool, error) {
	return e.validate(e.AnswerKey, selection)
}

// MarkDegree asks for every position of a scale degree
type MarkDegree struct {
	base
	current theory.ScaleDegree
}

func (e *MarkDegree) Kind() Kind   { return KindMarkDegree }
func (e *MarkDegree) Name() string { return KindMarkDegree.DisplayName() }

func (e *MarkDegree) NextQuestion() (Question, error) {
	d, ok := pick(e.rng, e.ctx.Scale().Degrees(), e.current.Value(), theory.ScaleDegree.Value)
	if !ok {
		return Question{}, noQuestion(e.Kind())
	}
	e.current = d

	n, err := e.ctx.NoteByScaleDegree(d)
	if err != nil {
		return Question{}, err
	}

	return Question{
		Text:   fmt.Sprintf("In the key of %s, where do you find the %s?", e.ctx.Root().Text(), d.Text()),
		Note:   n,
		Degree: d,
	}, nil
}

func (e *MarkDegree) AnswerKey() (*fretboard.Data, error) {
	correct := fretboard.NewData(e.ctx)
	if err := correct.SetDegree(e.current); err != nil {
		return nil, err
	}
	e.clip(correct)
	return correct, nil
}

func (e *MarkDegree) Validate(selection *fretboard.Data) (bool, error) {
	return e.validate(e.AnswerKey, selection)
}

// MarkDegreeOnString asks for a scale degree on a single string
type MarkDegreeOnString struct {
	base
	current       theory.ScaleDegree
	currentString int
}

func (e *MarkDegreeOnString) Kind() Kind   { return KindMarkDegreeOnString }
func (e *MarkDegreeOnString) Name() string { return KindMarkDegreeOnString.DisplayName() }

type stringDegrees struct {
	str     int
	degrees []theory.ScaleDegree
}

func (e *MarkDegreeOnString) NextQuestion() (Question, error) {
	var candidates []stringDegrees
	for s := range e.ctx.StringCount() {
		data := fretboard.NewData(e.ctx)
		if err := data.SetScale(); err != nil {
			return Question{}, err
		}
		data.Filter(func(entry fretboard.Entry) bool { return entry.Position.String == s })
		e.clip(data)

		if !data.IsEmpty() {
			candidates = append(candidates, stringDegrees{str: s, degrees: data.Degrees()})
		}
	}

	choice, ok := pick(e.rng, candidates, e.currentString, func(c stringDegrees) int { return c.str })
	if !ok {
		return Question{}, noQuestion(e.Kind())
	}
	e.currentString = choice.str
	e.current = choice.degrees[e.rng.IntN(len(choice.degrees))]

	n, err := e.ctx.NoteByScaleDegree(e.current)
	if err != nil {
		return Question{}, err
	}

	str := e.currentString
	return Question{
		Text: fmt.Sprintf("In the key of %s, where do you find the %s on the %s string?",
			e.ctx.Root().Text(), e.current.Text(), Ordinal(e.currentString)),
		Note:   n,
		Degree: e.current,
		String: &str,
	}, nil
}

func (e *MarkDegreeOnString) AnswerKey() (*fretboard.Data, error) {
	correct := fretboard.NewData(e.ctx)
	if err := correct.SetDegree(e.current); err != nil {
		return nil, err
	}
	correct.Filter(func(entry fretboard.Entry) bool { return entry.Position.String == e.currentString })
	e.clip(correct)
	return correct, nil
}

func (e *MarkDegreeOnString) Validate(selection *fretboard.Data) (bool, error) {
	return e.validate(e.AnswerKey, selection)
}
