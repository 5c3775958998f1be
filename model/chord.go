package model

import (
	"errors"
	"fmt"
)

// ChordSegment is one chord over a time span, as produced by transcription
// or a catalog lookup.
type ChordSegment struct {
	StartTime  float64  `json:"startTime"`
	EndTime    float64  `json:"endTime"`
	Chord      string   `json:"chord"`
	Confidence *float64 `json:"confidence,omitempty"`
}

func (s ChordSegment) Duration() float64 {
	return s.EndTime - s.StartTime
}

type BeatPosition struct {
	Time     float64 `json:"time"`
	Beat     int     `json:"beat"`
	Downbeat bool    `json:"downbeat"`
}

// CatalogRow is the persisted form of one chord voicing.
type CatalogRow struct {
	ID              string   `json:"id,omitempty" gorm:"primaryKey;type:varchar(64)"`
	ChordName       string   `json:"chord_name" gorm:"index;not null"`
	KeySignature    string   `json:"key_signature"`
	Difficulty      string   `json:"difficulty"`
	Notes           []string `json:"notes" gorm:"serializer:json"`
	FingerPositions []int    `json:"finger_positions" gorm:"serializer:json"`
	Description     string   `json:"description"`
	Inversion       int      `json:"inversion"`
	RootName        string   `json:"root_name" gorm:"index"`
	ChordType       string   `json:"chord_type"`
	RootNote        string   `json:"root_note"`
	Intervals       []int    `json:"intervals" gorm:"serializer:json"`
	ChordNameFr     string   `json:"chord_name_fr,omitempty"`
	DescriptionFr   string   `json:"description_fr,omitempty"`
}

func (CatalogRow) TableName() string {
	return "piano_chords"
}

var ErrExportEncoding = errors.New("export encoding failed")

// ExportEncodingError is a chord that could not be mapped to an export
// target.
type ExportEncodingError struct {
	Chord  string
	Target string
	Err    error
}

func (e *ExportEncodingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot encode chord %q for %s", e.Chord, e.Target)
	}
	return fmt.Sprintf("cannot encode chord %q for %s: %v", e.Chord, e.Target, e.Err)
}

func (e *ExportEncodingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExportEncoding}
	}
	return []error{ErrExportEncoding, e.Err}
}
