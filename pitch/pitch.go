package pitch

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Class is a pitch class in 12-tone equal temperament, 0 (C) through 11 (B).
// All arithmetic happens on the integer; names are only a view.
type Class int

const NumClasses = 12

var Names = [NumClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var FlatNames = [NumClasses]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var flatToSharp = map[string]string{
	"Db": "C#",
	"Eb": "D#",
	"Gb": "F#",
	"Ab": "G#",
	"Bb": "A#",
}

var ErrUnknownNote = errors.New("unknown note")

type UnknownNoteError struct {
	Name string
}

func (e *UnknownNoteError) Error() string {
	return fmt.Sprintf("unknown note %q", e.Name)
}

func (e *UnknownNoteError) Unwrap() error {
	return ErrUnknownNote
}

// Normalize maps one of the 12 sharp spellings or the 5 common flat
// spellings to its pitch class. The letter is case-insensitive and the
// flat may be written as "b" or "♭".
func Normalize(name string) (Class, error) {
	spelled, ok := canonicalSpelling(name)
	if !ok {
		return 0, &UnknownNoteError{Name: name}
	}
	if sharp, ok := flatToSharp[spelled]; ok {
		spelled = sharp
	}
	for i, n := range Names {
		if n == spelled {
			return Class(i), nil
		}
	}
	return 0, &UnknownNoteError{Name: name}
}

// canonicalSpelling uppercases the letter and rewrites the flat glyph so
// "eb", "E♭" and "Eb" all come out as "Eb".
func canonicalSpelling(name string) (string, bool) {
	name = strings.TrimSpace(name)
	runes := []rune(name)
	if len(runes) == 0 || len(runes) > 2 {
		return "", false
	}
	letter := unicode.ToUpper(runes[0])
	if letter < 'A' || letter > 'G' {
		return "", false
	}
	if len(runes) == 1 {
		return string(letter), true
	}
	switch runes[1] {
	case '#':
		return string(letter) + "#", true
	case 'b', '♭':
		return string(letter) + "b", true
	}
	return "", false
}

// SharpSpelling rewrites a flat spelling to its sharp enharmonic, which is
// what MIDI and sample-based targets key on.
func SharpSpelling(name string) (string, error) {
	pc, err := Normalize(name)
	if err != nil {
		return "", err
	}
	return pc.Name(), nil
}

func (pc Class) Name() string {
	return Names[pc.mod()]
}

func (pc Class) FlatName() string {
	return FlatNames[pc.mod()]
}

func (pc Class) String() string {
	return pc.Name()
}

func (pc Class) mod() int {
	return ((int(pc) % NumClasses) + NumClasses) % NumClasses
}

func ToName(pc Class) string {
	return pc.Name()
}

// Transpose returns (pc + semitones) mod 12, never negative.
func Transpose(pc Class, semitones int) Class {
	return Class(((int(pc)+semitones)%NumClasses + NumClasses) % NumClasses)
}

// Diff is the upward distance in semitones from one class to another.
func Diff(from, to Class) int {
	return (int(to) - int(from) + NumClasses) % NumClasses
}

// MIDINote returns the MIDI note number for pc in the given octave, C4 = 60.
func MIDINote(pc Class, octave int) int {
	return (octave+1)*NumClasses + pc.mod()
}

func FromMIDI(note int) (Class, int) {
	return Transpose(0, note), note/NumClasses - 1
}

func NamesOf(classes []Class) []string {
	res := make([]string, 0, len(classes))
	for _, pc := range classes {
		res = append(res, pc.Name())
	}
	return res
}

func ParseAll(names []string) ([]Class, error) {
	res := make([]Class, 0, len(names))
	for _, n := range names {
		pc, err := Normalize(n)
		if err != nil {
			return nil, err
		}
		res = append(res, pc)
	}
	return res, nil
}
