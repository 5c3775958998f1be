package model

import (
	"fmt"
	"math"
	"sort"
)

// Analysis is what the transcription service returns for one audio file.
// It is untrusted until Validate has run.
type Analysis struct {
	Chords        []ChordSegment `json:"chords"`
	Beats         []BeatPosition `json:"beats"`
	Tempo         float64        `json:"tempo"`
	Key           string         `json:"key"`
	TimeSignature string         `json:"timeSignature"`
	Duration      float64        `json:"duration"`
}

// Validate drops malformed segments and beats and returns the cleaned copy
// along with one error per dropped item. checkChord may be nil.
func (a Analysis) Validate(checkChord func(string) error) (Analysis, []error) {
	var problems []error
	res := a
	res.Chords = make([]ChordSegment, 0, len(a.Chords))
	for i, s := range a.Chords {
		if err := validateSegment(s); err != nil {
			problems = append(problems, fmt.Errorf("chord %d: %w", i, err))
			continue
		}
		if checkChord != nil {
			if err := checkChord(s.Chord); err != nil {
				problems = append(problems, fmt.Errorf("chord %d: %w", i, err))
				continue
			}
		}
		res.Chords = append(res.Chords, s)
	}

	res.Beats = make([]BeatPosition, 0, len(a.Beats))
	for i, b := range a.Beats {
		if !finite(b.Time) || b.Time < 0 {
			problems = append(problems, fmt.Errorf("beat %d: invalid time %v", i, b.Time))
			continue
		}
		res.Beats = append(res.Beats, b)
	}
	sort.SliceStable(res.Beats, func(i, j int) bool {
		return res.Beats[i].Time < res.Beats[j].Time
	})

	if !finite(res.Tempo) || res.Tempo < 0 {
		problems = append(problems, fmt.Errorf("invalid tempo %v", res.Tempo))
		res.Tempo = 0
	}
	return res, problems
}

func validateSegment(s ChordSegment) error {
	if !finite(s.StartTime) || !finite(s.EndTime) || s.StartTime < 0 {
		return fmt.Errorf("invalid time span [%v, %v]", s.StartTime, s.EndTime)
	}
	if s.EndTime <= s.StartTime {
		return fmt.Errorf("end %v is not after start %v", s.EndTime, s.StartTime)
	}
	if s.Confidence != nil && (*s.Confidence < 0 || *s.Confidence > 1) {
		return fmt.Errorf("confidence %v outside [0,1]", *s.Confidence)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
