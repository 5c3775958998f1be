package sampler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOut struct {
	mu   sync.Mutex
	msgs [][]byte
	err  error
}

func (f *fakeOut) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, append([]byte(nil), data...))
	return nil
}

func (f *fakeOut) keys(status byte) []uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []uint8
	for _, m := range f.msgs {
		if m[0]&0xF0 == status {
			res = append(res, m[1])
		}
	}
	return res
}

func TestPlayChord(t *testing.T) {
	out := &fakeOut{}
	s := New(out, Options{})
	defer s.Close()

	keys, err := s.PlayChord("Cm")
	require.NoError(t, err)
	assert.Equal(t, []uint8{60, 63, 67}, keys)
	assert.Equal(t, []uint8{60, 63, 67}, out.keys(0x90))

	require.NoError(t, s.Release())
	assert.Equal(t, []uint8{60, 63, 67}, out.keys(0x80))
}

func TestPlayChordReleasesPrevious(t *testing.T) {
	out := &fakeOut{}
	s := New(out, Options{Octave: 3})

	_, err := s.PlayChord("G")
	require.NoError(t, err)
	_, err = s.PlayChord("Lam")
	require.NoError(t, err)

	assert.Equal(t, []uint8{55, 59, 62, 57, 60, 64}, out.keys(0x90))
	assert.Equal(t, []uint8{55, 59, 62}, out.keys(0x80))
}

func TestPlayNotesStacksUpwards(t *testing.T) {
	out := &fakeOut{}
	s := New(out, Options{})

	keys, err := s.PlayNotes([]string{"E", "G", "C"})
	require.NoError(t, err)
	assert.Equal(t, []uint8{64, 67, 72}, keys)

	_, err = s.PlayNotes([]string{"E", "Q"})
	assert.Error(t, err)
}

func TestVoicingIsCachedPerSampler(t *testing.T) {
	a := New(&fakeOut{}, Options{})
	b := New(&fakeOut{}, Options{Octave: 5})

	first, err := a.Voicing("F#7")
	require.NoError(t, err)
	again, err := a.Voicing("F#7")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Len(t, a.cache, 1)

	other, err := b.Voicing("F#7")
	require.NoError(t, err)
	assert.Equal(t, first[0]+12, other[0])

	_, err = a.Voicing("Hm")
	assert.Error(t, err)
}

func TestVoicingCannotBeChangedByCaller(t *testing.T) {
	s := New(&fakeOut{}, Options{})
	keys, err := s.Voicing("C")
	require.NoError(t, err)
	keys[0] = 0

	played, err := s.PlayChord("C")
	require.NoError(t, err)
	assert.Equal(t, []uint8{60, 64, 67}, played)
	played[1] = 0

	again, err := s.Voicing("C")
	require.NoError(t, err)
	assert.Equal(t, []uint8{60, 64, 67}, again)
}

func TestClose(t *testing.T) {
	out := &fakeOut{}
	s := New(out, Options{})
	_, err := s.PlayChord("D")
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Equal(t, []uint8{62, 66, 69}, out.keys(0x80))
	require.NoError(t, s.Close())

	_, err = s.PlayChord("D")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Release(), ErrClosed)
	_, err = s.Voicing("D")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSendErrorsSurface(t *testing.T) {
	out := &fakeOut{err: errors.New("port gone")}
	s := New(out, Options{})
	_, err := s.PlayChord("C")
	assert.EqualError(t, err, "port gone")
}

func TestPlayChordFor(t *testing.T) {
	out := &fakeOut{}
	s := New(out, Options{})

	require.NoError(t, s.PlayChordFor(context.Background(), "E", time.Millisecond))
	assert.Equal(t, []uint8{64, 68, 71}, out.keys(0x80))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.PlayChordFor(ctx, "A", time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []uint8{64, 68, 71, 69, 73, 76}, out.keys(0x80))
}

func TestSampleFor(t *testing.T) {
	tests := []struct {
		key  int
		want Sample
	}{
		{60, Sample{"C4", "C4.mp3", 0}},
		{61, Sample{"C4", "C4.mp3", 1}},
		{62, Sample{"D#4", "Ds4.mp3", -1}},
		{63, Sample{"D#4", "Ds4.mp3", 0}},
		{66, Sample{"F#4", "Fs4.mp3", 0}},
		{68, Sample{"A4", "A4.mp3", -1}},
		{70, Sample{"A4", "A4.mp3", 1}},
		{71, Sample{"C5", "C5.mp3", -1}},
		{48, Sample{"C3", "C3.mp3", 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SampleFor(tt.key), tt.key)
	}
}
