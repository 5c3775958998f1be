// Package sampler plays chords on a MIDI output. Each Sampler is owned by
// its caller: create it with New, play with it, and Close it when done.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jsphweid/chordex/chord"
	"github.com/jsphweid/chordex/locale"
	"github.com/jsphweid/chordex/pitch"
	"gitlab.com/gomidi/midi/v2"
)

var ErrClosed = errors.New("sampler is closed")

// Sender is satisfied by drivers.Out.
type Sender interface {
	Send(data []byte) error
}

type Options struct {
	Octave   int
	Velocity uint8
	Channel  uint8
}

func (o Options) withDefaults() Options {
	if o.Octave == 0 {
		o.Octave = 4
	}
	if o.Velocity == 0 {
		o.Velocity = 90
	}
	return o
}

type Sampler struct {
	mu     sync.Mutex
	out    Sender
	opts   Options
	cache  map[string][]uint8
	held   map[uint8]bool
	closed bool
}

func New(out Sender, opts Options) *Sampler {
	return &Sampler{
		out:   out,
		opts:  opts.withDefaults(),
		cache: make(map[string][]uint8),
		held:  make(map[uint8]bool),
	}
}

// Voicing returns the keys PlayChord would press for name. French names
// are accepted. Results are cached per sampler.
func (s *Sampler) Voicing(name string) ([]uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.voicing(name)
}

func (s *Sampler) voicing(name string) ([]uint8, error) {
	if keys, ok := s.cache[name]; ok {
		return slices.Clone(keys), nil
	}

	english, err := locale.Localize(name, locale.English)
	if err != nil {
		return nil, err
	}
	parsed, err := chord.Parse(english)
	if err != nil {
		return nil, err
	}
	notes, err := parsed.Instance().Voicing(s.opts.Octave)
	if err != nil {
		return nil, err
	}
	keys, err := toKeys(notes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	s.cache[name] = keys
	return slices.Clone(keys), nil
}

func toKeys(notes []int) ([]uint8, error) {
	keys := make([]uint8, 0, len(notes))
	for _, n := range notes {
		if n < 0 || n > 127 {
			return nil, fmt.Errorf("key %d out of range", n)
		}
		keys = append(keys, uint8(n))
	}
	return keys, nil
}

// PlayChord releases whatever is sounding and presses the chord.
func (s *Sampler) PlayChord(name string) ([]uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	keys, err := s.voicing(name)
	if err != nil {
		return nil, err
	}
	return keys, s.press(keys)
}

// PlayNotes presses note names as stored in the catalog ("E", "G", "C"),
// each one above the last, starting in the sampler's octave.
func (s *Sampler) PlayNotes(names []string) ([]uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	var notes []int
	for _, name := range names {
		pc, err := locale.Parse(name)
		if err != nil {
			return nil, err
		}
		n := pitch.MIDINote(pc, s.opts.Octave)
		for len(notes) > 0 && n <= notes[len(notes)-1] {
			n += 12
		}
		notes = append(notes, n)
	}
	keys, err := toKeys(notes)
	if err != nil {
		return nil, err
	}
	return keys, s.press(keys)
}

// PlayChordFor holds the chord for d, or until ctx is done.
func (s *Sampler) PlayChordFor(ctx context.Context, name string, d time.Duration) error {
	if _, err := s.PlayChord(name); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		s.Release()
		return ctx.Err()
	case <-timer.C:
		return s.Release()
	}
}

func (s *Sampler) press(keys []uint8) error {
	if err := s.releaseLocked(); err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.out.Send(midi.NoteOn(s.opts.Channel, k, s.opts.Velocity)); err != nil {
			return err
		}
		s.held[k] = true
	}
	return nil
}

// Release lifts every held key.
func (s *Sampler) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.releaseLocked()
}

func (s *Sampler) releaseLocked() error {
	keys := make([]uint8, 0, len(s.held))
	for k := range s.held {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		if err := s.out.Send(midi.NoteOff(s.opts.Channel, k)); err != nil {
			return err
		}
		delete(s.held, k)
	}
	return nil
}

// Close releases held keys and drops the cache. The output itself belongs
// to the caller and stays open.
func (s *Sampler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	err := s.releaseLocked()
	s.closed = true
	s.cache = nil
	return err
}

// Sample is a recorded piano note and the pitch shift needed to reach the
// requested key from it.
type Sample struct {
	Note  string
	File  string
	Shift int
}

// recorded every minor third: C, D#, F#, A
var samplePitches = []pitch.Class{0, 3, 6, 9}

// SampleFor picks the closest recorded Salamander sample for a MIDI key.
func SampleFor(key int) Sample {
	pc, _ := pitch.FromMIDI(key)
	best, bestDist := key, pitch.NumClasses
	for _, sp := range samplePitches {
		// the sample below the key, then the one above it
		if down := pitch.Diff(sp, pc); down < bestDist {
			best, bestDist = key-down, down
		}
		if up := pitch.Diff(pc, sp); up < bestDist {
			best, bestDist = key+up, up
		}
	}
	samplePC, octave := pitch.FromMIDI(best)
	name := samplePC.Name() + strconv.Itoa(octave)
	return Sample{
		Note:  name,
		File:  strings.ReplaceAll(name, "#", "s") + ".mp3",
		Shift: key - best,
	}
}
