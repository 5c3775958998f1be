package chord

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/chordex/pitch"
	"github.com/jsphweid/chordex/quality"
)

// Instance is one voicing of a chord: a root, a quality and an inversion,
// with Notes in left-to-right playing order.
type Instance struct {
	Root         pitch.Class
	RootSpelling string
	Quality      quality.Quality
	Inversion    int
	Notes        []pitch.Class
}

var ErrInversionOutOfRange = errors.New("inversion out of range")

type InversionOutOfRangeError struct {
	Inversion int
	NoteCount int
}

func (e *InversionOutOfRangeError) Error() string {
	return fmt.Sprintf("inversion %d out of range for %d-note chord", e.Inversion, e.NoteCount)
}

func (e *InversionOutOfRangeError) Unwrap() error {
	return ErrInversionOutOfRange
}

// CanonicalOrder rotates notes left by inversion. Inversion 0, negative
// inversions and inversions at or past the note count leave the order as
// is; CheckInversion reports the last two.
func CanonicalOrder(notes []pitch.Class, inversion int) []pitch.Class {
	res := make([]pitch.Class, 0, len(notes))
	if inversion <= 0 || inversion >= len(notes) {
		return append(res, notes...)
	}
	res = append(res, notes[inversion:]...)
	return append(res, notes[:inversion]...)
}

func CheckInversion(noteCount, inversion int) error {
	if inversion < 0 || (inversion > 0 && inversion >= noteCount) {
		return &InversionOutOfRangeError{Inversion: inversion, NoteCount: noteCount}
	}
	return nil
}

// MaxInversion is the highest inversion the catalog generates. Only
// four-note chords get a third inversion.
func MaxInversion(noteCount int) int {
	switch {
	case noteCount <= 1:
		return 0
	case noteCount == 4:
		return 3
	default:
		return min(noteCount-1, 2)
	}
}

func RootPosition(root pitch.Class, intervals []int) []pitch.Class {
	notes := make([]pitch.Class, 0, len(intervals))
	for _, interval := range intervals {
		notes = append(notes, pitch.Transpose(root, interval))
	}
	return notes
}

// New builds an instance from a root spelling ("C#", "Db"), a quality and an
// inversion index.
func New(rootSpelling string, q quality.Quality, inversion int) (Instance, error) {
	root, err := pitch.Normalize(rootSpelling)
	if err != nil {
		return Instance{}, err
	}
	intervals, err := quality.Intervals(q)
	if err != nil {
		return Instance{}, err
	}
	if err := CheckInversion(len(intervals), inversion); err != nil {
		return Instance{}, err
	}
	return Instance{
		Root:         root,
		RootSpelling: spelled(rootSpelling),
		Quality:      q,
		Inversion:    inversion,
		Notes:        CanonicalOrder(RootPosition(root, intervals), inversion),
	}, nil
}

// spelled keeps the caller's accidental but fixes the letter's case.
func spelled(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return root
	}
	return strings.ToUpper(root[:1]) + strings.ReplaceAll(root[1:], "♭", "b")
}

// RootName is the chord name without an inversion suffix, e.g. "C#m7".
func (c Instance) RootName() string {
	return c.RootSpelling + c.Quality.Suffix()
}

// Name includes the inversion suffix, e.g. "C#m7/firstinversion".
func (c Instance) Name() string {
	return c.RootName() + NameSuffix(c.Inversion)
}

func (c Instance) NoteNames() []string {
	return pitch.NamesOf(c.Notes)
}

func (c Instance) FingerPositions() []int {
	return FingerPositions(len(c.Notes), c.Inversion)
}

func (c Instance) KeySignature() string {
	return KeySignature(c.RootSpelling)
}

// Voicing returns MIDI note numbers with the root in the given octave and
// the inverted notes raised an octave, in playing order.
func (c Instance) Voicing(octave int) ([]int, error) {
	intervals, err := quality.Intervals(c.Quality)
	if err != nil {
		return nil, err
	}
	base := pitch.MIDINote(c.Root, octave)
	k := c.Inversion
	if k < 0 || k >= len(intervals) {
		k = 0
	}
	res := make([]int, 0, len(intervals))
	for _, interval := range intervals[k:] {
		res = append(res, base+interval)
	}
	for _, interval := range intervals[:k] {
		res = append(res, base+interval+12)
	}
	return res, nil
}

var inversionNames = []string{"Root Position", "First Inversion", "Second Inversion", "Third Inversion", "Fourth Inversion"}

func InversionName(inversion int) string {
	if inversion >= 0 && inversion < len(inversionNames) {
		return inversionNames[inversion]
	}
	return fmt.Sprintf("Inversion %d", inversion)
}

var inversionNamesFr = []string{"Position fondamentale", "Premier renversement", "Deuxième renversement", "Troisième renversement", "Quatrième renversement"}

func InversionNameFr(inversion int) string {
	if inversion >= 0 && inversion < len(inversionNamesFr) {
		return inversionNamesFr[inversion]
	}
	return fmt.Sprintf("Renversement %d", inversion)
}

// NameSuffix is "" for root position and "/firstinversion" style otherwise.
func NameSuffix(inversion int) string {
	if inversion == 0 {
		return ""
	}
	return "/" + strings.ToLower(strings.ReplaceAll(InversionName(inversion), " ", ""))
}

func FingerPositions(noteCount, inversion int) []int {
	switch noteCount {
	case 3:
		if inversion == 1 {
			return []int{1, 2, 5}
		}
		return []int{1, 3, 5}
	case 4:
		if inversion == 1 {
			return []int{1, 2, 4, 5}
		}
		return []int{1, 2, 3, 5}
	case 5:
		return []int{1, 2, 3, 4, 5}
	}
	res := make([]int, noteCount)
	for i := range res {
		res[i] = i + 1
	}
	return res
}

// KeySignature is the root's letter with its accidental stripped.
func KeySignature(rootSpelling string) string {
	s := spelled(rootSpelling)
	if s == "" {
		return s
	}
	return s[:1]
}

// Key is an order-independent identifier for a set of pitch classes,
// e.g. "0-4-7".
func Key(notes []pitch.Class) string {
	sorted := make([]int, 0, len(notes))
	seen := make(map[pitch.Class]bool)
	for _, n := range notes {
		n = pitch.Transpose(n, 0)
		if !seen[n] {
			seen[n] = true
			sorted = append(sorted, int(n))
		}
	}
	sort.Ints(sorted)
	var sb strings.Builder
	for i, n := range sorted {
		if i > 0 {
			sb.WriteString("-")
		}
		fmt.Fprintf(&sb, "%d", n)
	}
	return sb.String()
}

// Identify lists every catalog chord whose note set matches notes. The
// first note is taken as the bass and picks the inversion.
func Identify(notes []pitch.Class) []Instance {
	if len(notes) == 0 {
		return nil
	}
	want := Key(notes)
	bass := pitch.Transpose(notes[0], 0)

	var res []Instance
	for root := pitch.Class(0); root < pitch.NumClasses; root++ {
		for _, q := range quality.All() {
			intervals, _ := quality.Intervals(q)
			rootPos := RootPosition(root, intervals)
			if Key(rootPos) != want {
				continue
			}
			for k, n := range rootPos {
				if n != bass || k > MaxInversion(len(rootPos)) {
					continue
				}
				res = append(res, Instance{
					Root:         root,
					RootSpelling: root.Name(),
					Quality:      q,
					Inversion:    k,
					Notes:        CanonicalOrder(rootPos, k),
				})
				break
			}
		}
	}
	return res
}
