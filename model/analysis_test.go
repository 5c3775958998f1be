package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDropsMalformedSegments(t *testing.T) {
	bad := 1.5
	a := Analysis{
		Chords: []ChordSegment{
			{StartTime: 0, EndTime: 2, Chord: "C"},
			{StartTime: 2, EndTime: 2, Chord: "F"},
			{StartTime: 2, EndTime: 4, Chord: "G", Confidence: &bad},
			{StartTime: math.NaN(), EndTime: 4, Chord: "G"},
			{StartTime: 4, EndTime: 6, Chord: "??"},
			{StartTime: 6, EndTime: 8, Chord: "Am"},
		},
		Beats: []BeatPosition{{Time: 1, Beat: 2}, {Time: 0.5, Beat: 1}, {Time: -1}},
		Tempo: 120,
	}

	check := func(c string) error {
		if c == "??" {
			return errors.New("unparseable")
		}
		return nil
	}
	got, problems := a.Validate(check)

	assert := assert.New(t)
	assert.Len(problems, 5)
	assert.Equal([]ChordSegment{
		{StartTime: 0, EndTime: 2, Chord: "C"},
		{StartTime: 6, EndTime: 8, Chord: "Am"},
	}, got.Chords)
	assert.Equal([]BeatPosition{{Time: 0.5, Beat: 1}, {Time: 1, Beat: 2}}, got.Beats)
	assert.Equal(120.0, got.Tempo)
	// the input is not mutated
	assert.Len(a.Chords, 6)
}

func TestExportEncodingErrorMatches(t *testing.T) {
	cause := errors.New("boom")
	err := error(&ExportEncodingError{Chord: "Cx", Target: "midi", Err: cause})

	assert.True(t, errors.Is(err, ErrExportEncoding))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "Cx")
}

func TestSummary(t *testing.T) {
	var s Summary
	s.Total = 2
	s.Succeeded = 1
	s.Fail(errors.New("x"))
	s.Merge(Summary{Total: 1, Unchanged: 1})

	assert.Equal(t, "total=3 succeeded=1 unchanged=1 failed=1", s.String())
	assert.Len(t, s.Errors, 1)
}
