package midi

import (
	"errors"
	"testing"

	"github.com/jsphweid/chordex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

type rawEvent struct {
	tick int64
	msg  []byte
}

func rawEvents(t *testing.T, track smf.Track) []rawEvent {
	t.Helper()
	var res []rawEvent
	var abs int64
	for _, ev := range track {
		abs += int64(ev.Delta)
		res = append(res, rawEvent{tick: abs, msg: []byte(ev.Message)})
	}
	return res
}

func isNoteOn(msg []byte) bool {
	return len(msg) == 3 && msg[0]&0xF0 == 0x90
}

func isNoteOff(msg []byte) bool {
	return len(msg) == 3 && msg[0]&0xF0 == 0x80
}

// soundingNotes returns key -> [start, end) for every audible note
func soundingNotes(t *testing.T, track smf.Track) map[uint8][2]int64 {
	t.Helper()
	res := map[uint8][2]int64{}
	open := map[uint8]int64{}
	for _, ev := range rawEvents(t, track) {
		switch {
		case isNoteOn(ev.msg) && ev.msg[2] > 0:
			open[ev.msg[1]] = ev.tick
		case isNoteOff(ev.msg) || isNoteOn(ev.msg):
			if start, ok := open[ev.msg[1]]; ok {
				res[ev.msg[1]] = [2]int64{start, ev.tick}
				delete(open, ev.msg[1])
			}
		}
	}
	return res
}

func export(t *testing.T, chords []model.ChordSegment, beats []model.BeatPosition, opts Options) (*smf.SMF, model.Summary) {
	t.Helper()
	data, summary, err := ToMidi(chords, beats, opts)
	require.NoError(t, err)
	s, err := ReadMidiBytes(data)
	require.NoError(t, err)
	return s, summary
}

func TestSingleMinorChord(t *testing.T) {
	s, summary := export(t, []model.ChordSegment{{StartTime: 0, EndTime: 2, Chord: "Cm"}}, nil, Options{Tempo: 120})

	assert := assert.New(t)
	assert.Equal(1, summary.Succeeded)
	require.Len(t, s.Tracks, 1)

	notes := soundingNotes(t, s.Tracks[0])
	assert.Equal(map[uint8][2]int64{
		60: {0, 1920},
		63: {0, 1920},
		67: {0, 1920},
	}, notes)

	info := Inspect(s)
	assert.Equal(TicksPerQuarter, info.TicksPerQuarter)
	assert.InDelta(120, info.Tempo, 0.01)
	assert.Equal("4/4", info.Meter)
	assert.Equal("Chords", info.Tracks[0].Name)
	assert.Equal(3, info.Tracks[0].NoteOns)

	sounding := Chords(s)
	require.Len(t, sounding, 1)
	assert.Equal([]uint8{60, 63, 67}, sounding[0].Keys)
}

func TestDurationBucket(t *testing.T) {
	tests := []struct {
		beats float64
		want  string
	}{
		{6, "whole"},
		{4, "whole"},
		{3.9, "half"},
		{2, "half"},
		{1.2, "quarter"},
		{0.5, "eighth"},
		{0.3, "sixteenth"},
		{0.2, "thirty-second"},
		{0, "thirty-second"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DurationBucket(tt.beats).Name, tt.beats)
	}
	assert.Equal(t, uint32(1920), DurationBucket(4).Ticks())
	assert.Equal(t, uint32(60), DurationBucket(0.1).Ticks())
}

func TestTimeAlignedSilenceIsFilled(t *testing.T) {
	chords := []model.ChordSegment{
		{StartTime: 0, EndTime: 1, Chord: "C"},
		{StartTime: 2, EndTime: 3, Chord: "G"},
	}
	s, _ := export(t, chords, nil, Options{Tempo: 120})

	var fillers []rawEvent
	for _, ev := range rawEvents(t, s.Tracks[0]) {
		if isNoteOn(ev.msg) && ev.msg[2] == 0 {
			fillers = append(fillers, ev)
		}
	}
	// one second of silence at 120 bpm is two beats
	require.Len(t, fillers, 1)
	assert.Equal(t, int64(960), fillers[0].tick)

	notes := soundingNotes(t, s.Tracks[0])
	assert.Equal(t, [2]int64{1920, 2880}, notes[67])
	assert.Equal(t, [2]int64{1920, 2880}, notes[71])
	assert.Equal(t, [2]int64{0, 960}, notes[64])
}

func TestTimeAlignedLeadingSilence(t *testing.T) {
	s, _ := export(t, []model.ChordSegment{{StartTime: 0.5, EndTime: 1.5, Chord: "F"}}, nil, Options{Tempo: 120})

	notes := soundingNotes(t, s.Tracks[0])
	assert.Equal(t, [2]int64{480, 1440}, notes[65])

	events := rawEvents(t, s.Tracks[0])
	var sawFiller bool
	for _, ev := range events {
		if isNoteOn(ev.msg) && ev.msg[2] == 0 {
			sawFiller = true
			assert.Equal(t, int64(0), ev.tick)
		}
	}
	assert.True(t, sawFiller)
}

func TestTimeAlignedNeverOverlapsNext(t *testing.T) {
	// 1.9s is 3.8 beats, which buckets to a half note, but the next chord
	// starts after one beat
	chords := []model.ChordSegment{
		{StartTime: 0, EndTime: 1.9, Chord: "Am"},
		{StartTime: 0.5, EndTime: 2.5, Chord: "D"},
	}
	s, _ := export(t, chords, nil, Options{Tempo: 120})

	notes := soundingNotes(t, s.Tracks[0])
	assert.Equal(t, [2]int64{0, 480}, notes[76])
	assert.Equal(t, [2]int64{480, 2400}, notes[62])
	// A is in both chords: released by Am at 480, struck again by D
	assert.Equal(t, [2]int64{480, 2400}, notes[69])
}

func TestQuantizedSnapsToBeats(t *testing.T) {
	beats := []model.BeatPosition{{Time: 0}, {Time: 0.52, Beat: 2}, {Time: 1.01, Beat: 3}, {Time: 1.49, Beat: 4}, {Time: 2.02, Beat: 1, Downbeat: true}}
	chords := []model.ChordSegment{
		{StartTime: 0.03, EndTime: 0.98, Chord: "C"},
		{StartTime: 1.05, EndTime: 1.95, Chord: "F"},
	}
	s, summary := export(t, chords, beats, Options{Tempo: 120, Quantized: true})
	assert.Equal(t, 2, summary.Succeeded)

	notes := soundingNotes(t, s.Tracks[0])
	// 0 -> 1.01 is about two beats, a half note
	assert.Equal(t, [2]int64{0, 960}, notes[60])
	// snapped to 1.01s, and 1.01 -> 2.02 is another half note
	assert.Equal(t, [2]int64{970, 1930}, notes[65])

	for _, ev := range rawEvents(t, s.Tracks[0]) {
		if isNoteOn(ev.msg) {
			assert.NotZero(t, ev.msg[2], "quantized output has no fillers")
		}
	}
}

func TestQuantizedWithoutBeatsUsesTempoGrid(t *testing.T) {
	s, _ := export(t, []model.ChordSegment{{StartTime: 0.26, EndTime: 1.2, Chord: "E"}}, nil, Options{Tempo: 120, Quantized: true})

	notes := soundingNotes(t, s.Tracks[0])
	// 0.26 snaps to 0.5, 1.2 snaps to 1.0: one beat
	assert.Equal(t, [2]int64{480, 960}, notes[64])
}

func TestBassTrack(t *testing.T) {
	chords := []model.ChordSegment{
		{StartTime: 0, EndTime: 2, Chord: "Ebmaj7"},
		{StartTime: 2, EndTime: 4, Chord: "C/E"},
	}
	s, _ := export(t, chords, nil, Options{Tempo: 120, IncludeBass: true})
	require.Len(t, s.Tracks, 2)

	bass := soundingNotes(t, s.Tracks[1])
	assert.Equal(t, map[uint8][2]int64{
		51: {0, 1920},
		48: {1920, 3840},
	}, bass)
	assert.Equal(t, "Bass", Inspect(s).Tracks[1].Name)
}

func TestMalformedChordsAreSkipped(t *testing.T) {
	chords := []model.ChordSegment{
		{StartTime: 0, EndTime: 1, Chord: "C"},
		{StartTime: 1, EndTime: 2, Chord: "Hdim"},
		{StartTime: 2, EndTime: 3, Chord: "N"},
		{StartTime: 3, EndTime: 4, Chord: "G7"},
	}
	s, summary := export(t, chords, nil, Options{})

	assert := assert.New(t)
	assert.Equal(4, summary.Total)
	assert.Equal(2, summary.Succeeded)
	assert.Equal(1, summary.Unchanged)
	require.Equal(t, 1, summary.Failed)
	assert.True(errors.Is(summary.Errors[0], model.ErrExportEncoding))

	var encErr *model.ExportEncodingError
	require.True(t, errors.As(summary.Errors[0], &encErr))
	assert.Equal("Hdim", encErr.Chord)

	notes := soundingNotes(t, s.Tracks[0])
	assert.Equal([2]int64{2880, 3840}, notes[67])
	assert.InDelta(DefaultTempo, Inspect(s).Tempo, 0.01)
}

func TestTimeSignature(t *testing.T) {
	s, _ := export(t, nil, nil, Options{Tempo: 90, TimeSignature: "3/4"})
	info := Inspect(s)
	assert.Equal(t, "3/4", info.Meter)
	assert.InDelta(t, 90, info.Tempo, 0.01)

	n, d := meter("7/5")
	assert.Equal(t, uint8(4), n)
	assert.Equal(t, uint8(4), d)
}

func TestReadMidiBytesRejectsGarbage(t *testing.T) {
	_, err := ReadMidiBytes([]byte("not a midi file"))
	assert.Error(t, err)
}
