package chord

import (
	"strings"

	"github.com/jsphweid/chordex/pitch"
	"github.com/jsphweid/chordex/quality"
)

// Parsed is a chord name broken into its parts.
type Parsed struct {
	Root         pitch.Class
	RootSpelling string
	Suffix       string
	Quality      quality.Quality
	Inversion    int
	Bass         *pitch.Class
}

func (p Parsed) Instance() Instance {
	// Parse only hands out known qualities and in-range inversions
	c, _ := New(p.RootSpelling, p.Quality, p.Inversion)
	return c
}

// IsNoChord reports the labels transcription uses for silence.
func IsNoChord(name string) bool {
	switch strings.TrimSpace(name) {
	case "", "N", "X", "N.C.", "NC":
		return true
	}
	return false
}

// SplitRoot separates the root ("F#", "Bb", "E♭") from the rest of a chord
// name. ok is false when the name does not start with a note letter.
func SplitRoot(name string) (root, rest string, ok bool) {
	if name == "" {
		return "", "", false
	}
	letter := name[0]
	if (letter < 'A' || letter > 'G') && (letter < 'a' || letter > 'g') {
		return "", "", false
	}
	n := 1
	if len(name) > 1 {
		switch {
		case name[1] == '#' || name[1] == 'b':
			n = 2
		case strings.HasPrefix(name[1:], "♭"):
			n = 1 + len("♭")
		}
	}
	return name[:n], name[n:], true
}

// transcription labels look like "C:maj" or "A:min7"
var labelQualities = map[string]string{
	"maj":  "",
	"min":  "m",
	"dim":  "dim",
	"aug":  "aug",
	"7":    "7",
	"maj7": "maj7",
	"min7": "m7",
	"dim7": "dim7",
	"sus2": "sus2",
	"sus4": "sus4",
}

// Parse reads "<root><suffix>[/<bass>|/<inversion>]", e.g. "Cm", "F#maj7",
// "C/E", "Dbm7/secondinversion" or the "A:min" form transcription emits.
func Parse(name string) (Parsed, error) {
	name = strings.TrimSpace(name)
	if head, label, found := strings.Cut(name, ":"); found {
		if mapped, ok := labelQualities[label]; ok {
			name = head + mapped
		}
	}

	main, slash, hasSlash := strings.Cut(name, "/")
	rootText, suffix, ok := SplitRoot(main)
	if !ok {
		return Parsed{}, &pitch.UnknownNoteError{Name: name}
	}
	// a lowercase "b" right after the letter could also be the start of a
	// suffix, but no suffix starts with "b", so it is always a flat
	root, err := pitch.Normalize(rootText)
	if err != nil {
		return Parsed{}, err
	}
	q, err := quality.ParseSuffix(suffix)
	if err != nil {
		return Parsed{}, err
	}

	res := Parsed{
		Root:         root,
		RootSpelling: spelled(rootText),
		Suffix:       suffix,
		Quality:      q,
	}
	if !hasSlash {
		return res, nil
	}

	if inversion, ok := parseInversionSuffix(slash); ok {
		intervals, _ := quality.Intervals(q)
		if err := CheckInversion(len(intervals), inversion); err != nil {
			return Parsed{}, err
		}
		res.Inversion = inversion
		return res, nil
	}

	bass, err := pitch.Normalize(slash)
	if err != nil {
		return Parsed{}, err
	}
	res.Bass = &bass
	return res, nil
}

func parseInversionSuffix(s string) (int, bool) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for i := 1; i < len(inversionNames); i++ {
		if NameSuffix(i)[1:] == s {
			return i, true
		}
	}
	return 0, false
}
