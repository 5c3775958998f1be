package chord

import (
	"testing"

	"github.com/jsphweid/chordex/pitch"
	"github.com/jsphweid/chordex/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		root      pitch.Class
		spelling  string
		quality   quality.Quality
		inversion int
	}{
		{"C", 0, "C", quality.Major, 0},
		{"Cm", 0, "C", quality.Minor, 0},
		{"F#maj7", 6, "F#", quality.Major7, 0},
		{"Bbm7", 10, "Bb", quality.Minor7, 0},
		{"E♭dim7", 3, "Eb", quality.Diminished7, 0},
		{"Dbm7/secondinversion", 1, "Db", quality.Minor7, 2},
		{"G7/thirdinversion", 7, "G", quality.Dominant7, 3},
		{"A:min", 9, "A", quality.Minor, 0},
		{"C:maj", 0, "C", quality.Major, 0},
		{"  Asus4 ", 9, "A", quality.Sus4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.root, got.Root)
			assert.Equal(t, tt.spelling, got.RootSpelling)
			assert.Equal(t, tt.quality, got.Quality)
			assert.Equal(t, tt.inversion, got.Inversion)
			assert.Nil(t, got.Bass)
		})
	}
}

func TestParseSlashBass(t *testing.T) {
	got, err := Parse("C/E")
	require.NoError(t, err)
	require.NotNil(t, got.Bass)
	assert.Equal(t, pitch.Class(4), *got.Bass)
	assert.Equal(t, quality.Major, got.Quality)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("H7")
	assert.ErrorIs(t, err, pitch.ErrUnknownNote)

	_, err = Parse("Cm7b5")
	assert.ErrorIs(t, err, quality.ErrUnknownQuality)

	_, err = Parse("C/thirdinversion")
	assert.ErrorIs(t, err, ErrInversionOutOfRange)

	_, err = Parse("C/Q")
	assert.ErrorIs(t, err, pitch.ErrUnknownNote)
}

func TestParsedInstance(t *testing.T) {
	p, err := Parse("Am/firstinversion")
	require.NoError(t, err)
	c := p.Instance()
	assert.Equal(t, []string{"C", "E", "A"}, c.NoteNames())
	assert.Equal(t, "Am/firstinversion", c.Name())
}

func TestIsNoChord(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsNoChord("N"))
	assert.True(IsNoChord(" "))
	assert.False(IsNoChord("Am"))
}

func TestSplitRoot(t *testing.T) {
	root, rest, ok := SplitRoot("Ebmaj7")
	require.True(t, ok)
	assert.Equal(t, "Eb", root)
	assert.Equal(t, "maj7", rest)

	_, _, ok = SplitRoot("maj7")
	assert.False(t, ok)
}
