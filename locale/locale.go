// Package locale renders note and chord names in English letter names or
// French solfège.
package locale

import (
	"fmt"
	"strings"

	"github.com/jsphweid/chordex/pitch"
	"github.com/jsphweid/chordex/quality"
	"golang.org/x/text/unicode/norm"
)

type Language string

const (
	English Language = "en"
	French  Language = "fr"
)

var ErrUnknownLanguage = fmt.Errorf("unknown language")

func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", English:
		return English, nil
	case French:
		return French, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

var solfege = [pitch.NumClasses]string{"Do", "Do#", "Ré", "Ré#", "Mi", "Fa", "Fa#", "Sol", "Sol#", "La", "La#", "Si"}

// flats only exist for the black keys
var solfegeFlats = map[pitch.Class]string{
	1:  "Ré♭",
	3:  "Mi♭",
	6:  "Sol♭",
	8:  "La♭",
	10: "Si♭",
}

// "ré" is matched after NFC normalization; "re" covers ASCII input
var syllables = []struct {
	name   string
	letter string
}{
	{"sol", "G"},
	{"do", "C"},
	{"ré", "D"},
	{"re", "D"},
	{"mi", "E"},
	{"fa", "F"},
	{"la", "A"},
	{"si", "B"},
}

func LocalizeClass(pc pitch.Class, lang Language) string {
	if lang == French {
		return solfege[pitch.Transpose(pc, 0)]
	}
	return pitch.ToName(pc)
}

// LocalizeFlat uses the flat spelling where one exists.
func LocalizeFlat(pc pitch.Class, lang Language) string {
	pc = pitch.Transpose(pc, 0)
	if lang == French {
		if name, ok := solfegeFlats[pc]; ok {
			return name
		}
		return solfege[pc]
	}
	return pc.FlatName()
}

// splitRoot reads a leading English or French note name off s. flat reports
// whether it was spelled with a flat. "Faug" is F augmented, not Fa with a
// stray suffix, so an English root wins when the remainder is a known
// quality.
func splitRoot(s string) (pc pitch.Class, rest string, flat bool, ok bool) {
	english, remainder, foundEnglish := splitEnglish(s)
	if foundEnglish {
		if _, err := quality.ParseSuffix(remainder); err == nil {
			return englishRoot(english, remainder)
		}
	}
	if pc, rest, flat, ok := splitFrench(s); ok {
		return pc, rest, flat, true
	}
	if foundEnglish {
		return englishRoot(english, remainder)
	}
	return 0, s, false, false
}

func englishRoot(root, rest string) (pitch.Class, string, bool, bool) {
	pc, err := pitch.Normalize(root)
	if err != nil {
		return 0, root + rest, false, false
	}
	return pc, rest, len(root) > 1 && root[1] != '#', true
}

func splitFrench(s string) (pitch.Class, string, bool, bool) {
	letter, n := "", 0
	lower := strings.ToLower(s)
	for _, syl := range syllables {
		if strings.HasPrefix(lower, syl.name) {
			letter, n = syl.letter, len(syl.name)
			break
		}
	}
	if letter == "" {
		return 0, s, false, false
	}

	rest := s[n:]
	accidental := ""
	switch {
	case strings.HasPrefix(rest, "#"):
		accidental, rest = "#", rest[1:]
	case strings.HasPrefix(rest, "♭"):
		accidental, rest = "b", rest[len("♭"):]
	case strings.HasPrefix(rest, "b"):
		accidental, rest = "b", rest[1:]
	}
	pc, err := pitch.Normalize(letter + accidental)
	if err != nil {
		// Fa♭ and friends are not in the spelling set
		return 0, s, false, false
	}
	return pc, rest, accidental == "b", true
}

func splitEnglish(s string) (root, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	c := s[0]
	if (c < 'A' || c > 'G') && (c < 'a' || c > 'g') {
		return "", "", false
	}
	n := 1
	switch {
	case len(s) > 1 && (s[1] == '#' || s[1] == 'b'):
		n = 2
	case strings.HasPrefix(s[1:], "♭"):
		n = 1 + len("♭")
	}
	if _, err := pitch.Normalize(s[:n]); err != nil {
		// "Cb" and "Fb" fall back to the bare letter
		n = 1
	}
	return s[:n], s[n:], true
}

// Parse reads an English or French note name.
func Parse(name string) (pitch.Class, error) {
	s := norm.NFC.String(strings.TrimSpace(name))
	pc, rest, _, ok := splitRoot(s)
	if !ok || rest != "" {
		return 0, &pitch.UnknownNoteError{Name: name}
	}
	return pc, nil
}

// Localize renders a note or chord name in lang. The root, and a slash bass
// note if there is one, are translated; the quality suffix is kept as
// written. Flat spellings stay flat.
func Localize(name string, lang Language) (string, error) {
	s := norm.NFC.String(strings.TrimSpace(name))
	if s == "" {
		return "", &pitch.UnknownNoteError{Name: name}
	}
	main, slash, hasSlash := strings.Cut(s, "/")
	out, err := localizeRoot(main, lang)
	if err != nil {
		return "", err
	}
	if !hasSlash {
		return out, nil
	}
	if bass, err := localizeRoot(slash, lang); err == nil {
		if _, err := Parse(slash); err == nil {
			return out + "/" + bass, nil
		}
	}
	return out + "/" + slash, nil
}

func localizeRoot(s string, lang Language) (string, error) {
	pc, rest, flat, ok := splitRoot(s)
	if !ok {
		return "", &pitch.UnknownNoteError{Name: s}
	}
	if flat {
		return LocalizeFlat(pc, lang) + rest, nil
	}
	return LocalizeClass(pc, lang) + rest, nil
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', '-', '|':
		return true
	}
	return false
}

// LocalizeProgression translates each chord of a progression and keeps the
// separators between them. Tokens that are not chords pass through.
func LocalizeProgression(s string, lang Language) string {
	var sb strings.Builder
	var token strings.Builder
	flush := func() {
		if token.Len() == 0 {
			return
		}
		t := token.String()
		if out, err := Localize(t, lang); err == nil {
			sb.WriteString(out)
		} else {
			sb.WriteString(t)
		}
		token.Reset()
	}
	for _, r := range s {
		if isSeparator(r) {
			flush()
			sb.WriteRune(r)
			continue
		}
		token.WriteRune(r)
	}
	flush()
	return sb.String()
}

func Description(q quality.Quality, lang Language) string {
	if lang == French {
		return q.DescriptionFr()
	}
	return q.Description()
}
