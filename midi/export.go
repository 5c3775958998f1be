package midi

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/chordex/chord"
	"github.com/jsphweid/chordex/logger"
	"github.com/jsphweid/chordex/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	TicksPerQuarter = 480
	DefaultTempo    = 120.0

	chordChannel = 0
	bassChannel  = 1
	chordOctave  = 4
	// any key works for the silent filler; middle C keeps it in range
	fillerKey = 60
	bassBase  = 48
)

type Options struct {
	Tempo         float64
	TimeSignature string
	Quantized     bool
	IncludeBass   bool
}

// Bucket is a note value, measured in quarter notes.
type Bucket struct {
	Name  string
	Beats float64
}

var buckets = []Bucket{
	{"whole", 4},
	{"half", 2},
	{"quarter", 1},
	{"eighth", 0.5},
	{"sixteenth", 0.25},
	{"thirty-second", 0.125},
}

// DurationBucket picks the longest note value that fits in beats.
func DurationBucket(beats float64) Bucket {
	for _, b := range buckets[:len(buckets)-1] {
		if beats >= b.Beats {
			return b
		}
	}
	return buckets[len(buckets)-1]
}

func (b Bucket) Ticks() uint32 {
	return uint32(b.Beats * TicksPerQuarter)
}

type placement struct {
	start, end uint32
	keys       []uint8
	bass       uint8
}

type exporter struct {
	opts  Options
	beats []float64
}

func (e *exporter) ticks(seconds float64) uint32 {
	if seconds <= 0 {
		return 0
	}
	return uint32(math.Round(seconds * e.opts.Tempo / 60 * TicksPerQuarter))
}

// snap moves t to the nearest beat, or to the tempo grid without beats.
func (e *exporter) snap(t float64) float64 {
	if len(e.beats) == 0 {
		grid := 60 / e.opts.Tempo
		return math.Round(t/grid) * grid
	}
	i := sort.SearchFloat64s(e.beats, t)
	switch {
	case i == 0:
		return e.beats[0]
	case i == len(e.beats):
		return e.beats[i-1]
	case t-e.beats[i-1] <= e.beats[i]-t:
		return e.beats[i-1]
	default:
		return e.beats[i]
	}
}

// ToMidi renders chord segments as a type 1 MIDI file. A chord that cannot
// be encoded is logged, counted in the summary and left out; the rest of
// the file is still written.
func ToMidi(chords []model.ChordSegment, beats []model.BeatPosition, opts Options) ([]byte, model.Summary, error) {
	if opts.Tempo <= 0 {
		opts.Tempo = DefaultTempo
	}
	e := &exporter{opts: opts}
	for _, b := range beats {
		e.beats = append(e.beats, b.Time)
	}
	sort.Float64s(e.beats)

	segments := make([]model.ChordSegment, len(chords))
	copy(segments, chords)
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartTime < segments[j].StartTime
	})

	placed, summary := e.place(segments)

	num, denom := meter(opts.TimeSignature)
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("Chords"))
	tr.Add(0, smf.MetaTempo(opts.Tempo))
	tr.Add(0, smf.MetaMeter(num, denom))
	writeNotes(&tr, placed, chordChannel, !opts.Quantized, func(p placement) []uint8 { return p.keys })
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	if err := s.Add(tr); err != nil {
		return nil, summary, err
	}

	if opts.IncludeBass {
		var bass smf.Track
		bass.Add(0, smf.MetaTrackSequenceName("Bass"))
		writeNotes(&bass, placed, bassChannel, !opts.Quantized, func(p placement) []uint8 { return []uint8{p.bass} })
		bass.Close(0)
		if err := s.Add(bass); err != nil {
			return nil, summary, err
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, summary, fmt.Errorf("writing midi: %w", err)
	}
	return buf.Bytes(), summary, nil
}

func (e *exporter) place(segments []model.ChordSegment) ([]placement, model.Summary) {
	var res []placement
	summary := model.Summary{Total: len(segments)}
	var cursor uint32

	for i, seg := range segments {
		if chord.IsNoChord(seg.Chord) {
			summary.Unchanged++
			continue
		}
		keys, bass, err := encode(seg.Chord)
		if err != nil {
			logger.Warn("Skipping chord in MIDI export", logger.Fields{"chord": seg.Chord, "start": seg.StartTime, "error": err.Error()})
			summary.Fail(err)
			continue
		}

		var start, length uint32
		if e.opts.Quantized {
			from, to := e.snap(seg.StartTime), e.snap(seg.EndTime)
			if to <= from {
				from, to = seg.StartTime, seg.EndTime
			}
			start = max(e.ticks(from), cursor)
			length = DurationBucket((to - from) * e.opts.Tempo / 60).Ticks()
		} else {
			start = max(e.ticks(seg.StartTime), cursor)
			length = DurationBucket(seg.Duration() * e.opts.Tempo / 60).Ticks()
			if i+1 < len(segments) {
				if next := e.ticks(segments[i+1].StartTime); next > start && start+length > next {
					length = next - start
				}
			}
		}

		p := placement{start: start, end: start + length, keys: keys, bass: bass}
		res = append(res, p)
		cursor = p.end
		summary.Succeeded++
	}
	return res, summary
}

// encode voices the chord with its root in octave 4 and returns the keys
// plus a bass key one octave below the root.
func encode(name string) ([]uint8, uint8, error) {
	parsed, err := chord.Parse(name)
	if err != nil {
		return nil, 0, &model.ExportEncodingError{Chord: name, Target: "midi", Err: err}
	}
	voicing, err := parsed.Instance().Voicing(chordOctave)
	if err != nil {
		return nil, 0, &model.ExportEncodingError{Chord: name, Target: "midi", Err: err}
	}
	keys := make([]uint8, 0, len(voicing))
	for _, n := range voicing {
		if n < 0 || n > 127 {
			return nil, 0, &model.ExportEncodingError{Chord: name, Target: "midi", Err: fmt.Errorf("key %d out of range", n)}
		}
		keys = append(keys, uint8(n))
	}
	return keys, uint8(bassBase + int(parsed.Root)), nil
}

// writeNotes appends placements in order. With fill set, the gap before
// each placement is covered by a zero-velocity note so the file carries
// the silence explicitly.
func writeNotes(tr *smf.Track, placed []placement, ch uint8, fill bool, keysOf func(placement) []uint8) {
	var cursor uint32
	for _, p := range placed {
		delta := p.start - cursor
		if fill && delta > 0 {
			tr.Add(0, midi.NoteOn(ch, fillerKey, 0))
			tr.Add(delta, midi.NoteOff(ch, fillerKey))
			delta = 0
		}
		keys := keysOf(p)
		for i, k := range keys {
			if i > 0 {
				delta = 0
			}
			tr.Add(delta, midi.NoteOn(ch, k, velocity))
		}
		for i, k := range keys {
			d := uint32(0)
			if i == 0 {
				d = p.end - p.start
			}
			tr.Add(d, midi.NoteOff(ch, k))
		}
		cursor = p.end
	}
}

const velocity = 90

// meter reads "3/4"; anything unreadable is 4/4.
func meter(sig string) (uint8, uint8) {
	n, d, ok := strings.Cut(strings.TrimSpace(sig), "/")
	if !ok {
		return 4, 4
	}
	num, err1 := strconv.Atoi(n)
	denom, err2 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || num <= 0 || num > 32 || denom <= 0 || denom > 32 || denom&(denom-1) != 0 {
		return 4, 4
	}
	return uint8(num), uint8(denom)
}
