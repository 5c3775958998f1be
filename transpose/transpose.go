// Package transpose moves chord progressions between keys while keeping
// every chord's quality suffix as written.
package transpose

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jsphweid/chordex/chord"
	"github.com/jsphweid/chordex/locale"
	"github.com/jsphweid/chordex/model"
	"github.com/jsphweid/chordex/pitch"
)

// what may follow a root for a token to count as a chord: "m7", "sus4",
// "maj9", "7(b9)", "-7"
var chordSuffix = regexp.MustCompile(`^(?:maj|min|dim|aug|sus|add|m|M|°|ø|Δ|\+|-|:|[0-9]|b|#|♭|\(|\))*$`)

// KeyIndex reads a key name such as "C", "F#", "Bbm" or "Lam".
func KeyIndex(key string) (pitch.Class, error) {
	k := strings.TrimSpace(key)
	for _, minor := range []string{"min", "m"} {
		if trimmed, ok := strings.CutSuffix(k, minor); ok && trimmed != "" {
			if pc, err := locale.Parse(trimmed); err == nil {
				return pc, nil
			}
		}
	}
	pc, err := locale.Parse(k)
	if err != nil {
		return 0, &pitch.UnknownNoteError{Name: key}
	}
	return pc, nil
}

// Semitones is how far toKey sits above fromKey, in 0..11.
func Semitones(fromKey, toKey string) (int, error) {
	from, err := KeyIndex(fromKey)
	if err != nil {
		return 0, err
	}
	to, err := KeyIndex(toKey)
	if err != nil {
		return 0, err
	}
	return pitch.Diff(from, to), nil
}

func TransposeChordString(input, fromKey, toKey string) (string, error) {
	diff, err := Semitones(fromKey, toKey)
	if err != nil {
		return input, err
	}
	return Shift(input, diff), nil
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == '|' || r == '[' || r == ']'
}

// splitsAt reports whether runes[i] ends the current token. Parentheses
// opened inside a token ("A7(b9)") belong to it, and a hyphen before a
// digit is a suffix ("C-7"), not a joint ("C-G").
func splitsAt(runes []rune, i int, inToken bool, depth int) bool {
	switch r := runes[i]; {
	case isSeparator(r):
		return true
	case r == '(':
		return !inToken
	case r == ')':
		return depth == 0
	case r == '-':
		return i+1 >= len(runes) || !unicode.IsDigit(runes[i+1])
	}
	return false
}

// Shift moves every chord token in input by semitones. Anything that does
// not look like a chord, and every separator, is copied through.
func Shift(input string, semitones int) string {
	diff := int(pitch.Transpose(0, semitones))
	if diff == 0 {
		return input
	}

	runes := []rune(input)
	var sb strings.Builder
	sb.Grow(len(input))
	start, depth := -1, 0
	for i, r := range runes {
		if splitsAt(runes, i, start >= 0, depth) {
			if start >= 0 {
				tok, _ := shiftToken(string(runes[start:i]), diff)
				sb.WriteString(tok)
				start, depth = -1, 0
			}
			sb.WriteRune(r)
			continue
		}
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tok, _ := shiftToken(string(runes[start:]), diff)
		sb.WriteString(tok)
	}
	return sb.String()
}

// shiftToken returns tok unchanged and false when it is not a chord.
func shiftToken(tok string, diff int) (string, bool) {
	main, bass, hasSlash := strings.Cut(tok, "/")
	root, rest, ok := chord.SplitRoot(main)
	if !ok || !chordSuffix.MatchString(rest) {
		return tok, false
	}
	shifted, ok := shiftNote(root, diff)
	if !ok {
		return tok, false
	}
	out := shifted + rest
	if !hasSlash {
		return out, true
	}
	if b, ok := shiftNote(bass, diff); ok {
		return out + "/" + b, true
	}
	// "/firstinversion" and friends carry no pitch
	return out + "/" + bass, true
}

// shiftNote spells the result with sharps and keeps the case of the
// original letter.
func shiftNote(note string, diff int) (string, bool) {
	pc, err := pitch.Normalize(note)
	if err != nil {
		return "", false
	}
	name := pitch.ToName(pitch.Transpose(pc, diff))
	if unicode.IsLower(rune(note[0])) {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	return name, true
}

// TransposeChord shifts a single chord name. On error the original name is
// returned so callers never leave a gap.
func TransposeChord(name string, semitones int) (string, error) {
	if _, err := chord.Parse(name); err != nil {
		return name, err
	}
	out, _ := shiftToken(strings.TrimSpace(name), int(pitch.Transpose(0, semitones)))
	return out, nil
}

// TransposeAll shifts each chord independently. Failed chords keep their
// original spelling and are counted in the summary.
func TransposeAll(chords []string, semitones int) ([]string, model.Summary) {
	res := make([]string, len(chords))
	summary := model.Summary{Total: len(chords)}
	for i, c := range chords {
		if chord.IsNoChord(c) {
			res[i] = c
			summary.Unchanged++
			continue
		}
		out, err := TransposeChord(c, semitones)
		res[i] = out
		if err != nil {
			summary.Fail(err)
			continue
		}
		summary.Succeeded++
	}
	return res, summary
}
