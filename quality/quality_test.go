package quality

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervals(t *testing.T) {
	tests := []struct {
		quality Quality
		want    []int
	}{
		{Major, []int{0, 4, 7}},
		{Minor, []int{0, 3, 7}},
		{Diminished7, []int{0, 3, 6, 9}},
		{Major9, []int{0, 4, 7, 11, 14}},
		{Add9, []int{0, 4, 7, 14}},
	}

	for _, tt := range tests {
		t.Run(string(tt.quality), func(t *testing.T) {
			got, err := Intervals(tt.quality)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntervalsReturnsCopy(t *testing.T) {
	got, err := Intervals(Major)
	require.NoError(t, err)
	got[1] = 3

	again, err := Intervals(Major)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 7}, again)
}

func TestUnknownQuality(t *testing.T) {
	got, err := Intervals(Quality("major13"))
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownQuality))
}

func TestAllQualitiesAreWellFormed(t *testing.T) {
	all := All()
	assert.Len(t, all, 16)
	for _, q := range all {
		intervals, err := Intervals(q)
		require.NoError(t, err)
		assert.Equal(t, 0, intervals[0], q)
		assert.IsIncreasing(t, intervals, q)
		assert.Equal(t, Family(len(intervals)), q.Family())
		assert.NotEmpty(t, q.Description())
		assert.NotEmpty(t, q.DescriptionFr())
		assert.Contains(t, []Difficulty{Easy, Medium, Hard}, q.Difficulty())
	}
}

func TestFamilies(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Triad, Sus2.Family())
	assert.Equal(Seventh, Major6.Family())
	assert.Equal(Seventh, Add9.Family())
	assert.Equal(Ninth, Minor9.Family())
}

func TestParseSuffix(t *testing.T) {
	tests := map[string]Quality{
		"":     Major,
		"m":    Minor,
		"min":  Minor,
		"MIN":  Minor,
		"7":    Dominant7,
		"maj7": Major7,
		"Maj7": Major7,
		"M7":   Major7,
		"m7":   Minor7,
		"6":    Major6,
		"m6":   Minor6,
		"dim7": Diminished7,
		"°":    Diminished,
		"sus4": Sus4,
		"add9": Add9,
		"9":    Dominant9,
	}
	for suffix, want := range tests {
		t.Run(suffix, func(t *testing.T) {
			got, err := ParseSuffix(suffix)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseSuffixRejectsUnknown(t *testing.T) {
	for _, suffix := range []string{"m7b5", "13", "M6", "majj7", "7sus4"} {
		_, err := ParseSuffix(suffix)
		assert.ErrorIs(t, err, ErrUnknownQuality, suffix)
	}
}

func TestParse(t *testing.T) {
	q, err := Parse(" Dominant7 ")
	require.NoError(t, err)
	assert.Equal(t, Dominant7, q)

	_, err = Parse("power")
	assert.ErrorIs(t, err, ErrUnknownQuality)
}
