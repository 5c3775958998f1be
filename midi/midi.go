package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("Error reading midi file... %w", err)
	}
	return ReadMidiBytes(dat)
}

func ReadMidiBytes(dat []byte) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("Error parsing midi file... %v", r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.New("Error parsing midi file... " + err.Error())
	}
	return res, nil
}

// Sounding is the set of keys held down from Tick until the next change.
type Sounding struct {
	Tick int64
	Keys []uint8
}

type reducedEvent struct {
	tick      int64
	isNoteOff bool
	key       uint8
}

// Chords replays every track and returns each distinct set of held keys in
// tick order. Zero velocity note-ons count as releases, so silence fillers
// never show up.
func Chords(s *smf.SMF) []Sounding {
	var events []reducedEvent
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				events = append(events, reducedEvent{tick: absTicks, key: key})
			case event.Message.GetNoteEnd(&channel, &key):
				events = append(events, reducedEvent{tick: absTicks, isNoteOff: true, key: key})
			}
		}
	}

	// smaller ticks first, then note offs
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].isNoteOff && !events[j].isNoteOff
	})

	var res []Sounding
	pressed := make(map[uint8]int)
	for i, evt := range events {
		if evt.isNoteOff {
			if pressed[evt.key] > 1 {
				pressed[evt.key]--
			} else {
				delete(pressed, evt.key)
			}
		} else {
			pressed[evt.key]++
		}
		// only snapshot once every event at this tick is applied
		if i+1 < len(events) && events[i+1].tick == evt.tick {
			continue
		}
		if len(pressed) == 0 {
			continue
		}
		keys := make([]uint8, 0, len(pressed))
		for k := range pressed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })
		res = append(res, Sounding{Tick: evt.tick, Keys: keys})
	}
	return res
}

type TrackSummary struct {
	Name    string
	Events  int
	NoteOns int
	Ticks   int64
}

// Summary is the tempo plus one entry per track.
type Summary struct {
	TicksPerQuarter int
	Tempo           float64
	Meter           string
	Tracks          []TrackSummary
}

func Inspect(s *smf.SMF) Summary {
	var res Summary
	if ticks, ok := s.TimeFormat.(smf.MetricTicks); ok {
		res.TicksPerQuarter = int(ticks.Resolution())
	}
	for _, track := range s.Tracks {
		var ts TrackSummary
		for _, event := range track {
			ts.Events++
			ts.Ticks += int64(event.Delta)

			var bpm float64
			var num, denom uint8
			var channel, key, velocity uint8
			var name string
			switch {
			case event.Message.GetMetaTempo(&bpm):
				if res.Tempo == 0 {
					res.Tempo = bpm
				}
			case event.Message.GetMetaMeter(&num, &denom):
				if res.Meter == "" {
					res.Meter = fmt.Sprintf("%d/%d", num, denom)
				}
			case event.Message.GetMetaTrackName(&name):
				ts.Name = name
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				ts.NoteOns++
			}
		}
		res.Tracks = append(res.Tracks, ts)
	}
	return res
}
