package export

import (
	"bytes"
	"testing"

	"github.com/jsphweid/chordex/config"
	"github.com/jsphweid/chordex/locale"
	"github.com/jsphweid/chordex/logger"
	"github.com/jsphweid/chordex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(chords ...model.ChordSegment) model.ExportRequestBody {
	return model.ExportRequestBody{
		Analysis: model.Analysis{Chords: chords},
		Title:    "My Song",
	}
}

func seg(start, end float64, name string) model.ChordSegment {
	return model.ChordSegment{StartTime: start, EndTime: end, Chord: name}
}

func TestPrepareFillsDefaults(t *testing.T) {
	req, problems, err := Prepare(request(seg(0, 2, "C"), seg(2, 1, "G"), seg(2, 4, "Hm")),
		config.DefaultFile().Export, logger.Fields{})
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Len(problems, 2)
	assert.Len(req.Chords, 1)
	assert.Equal(120.0, req.Tempo)
	assert.Equal("4/4", req.TimeSignature)
	assert.Equal("en", req.Language)
}

func TestPrepareKeepsRequestValues(t *testing.T) {
	in := request(seg(0, 2, "N"), seg(2, 4, "Am"))
	in.Tempo = 90
	in.TimeSignature = "3/4"
	in.Language = "fr"

	req, problems, err := Prepare(in, config.DefaultFile().Export, nil)
	require.NoError(t, err)
	assert.Empty(t, problems)
	assert.Len(t, req.Chords, 2)
	assert.Equal(t, 90.0, req.Tempo)
	assert.Equal(t, "3/4", req.TimeSignature)
	assert.Equal(t, "fr", req.Language)
}

func TestPrepareNothingLeft(t *testing.T) {
	_, problems, err := Prepare(request(seg(0, 1, "Q7")), config.DefaultFile().Export, nil)
	assert.ErrorIs(t, err, ErrNoChords)
	assert.Len(t, problems, 1)
}

func TestMIDI(t *testing.T) {
	req, _, err := Prepare(request(seg(0, 2, "C"), seg(2, 4, "G7")), config.DefaultFile().Export, nil)
	require.NoError(t, err)

	res, err := MIDI(req)
	require.NoError(t, err)
	assert.Equal(t, "My_Song_chords.mid", res.Filename)
	assert.Equal(t, MidiContentType, res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("MThd")))
	assert.Equal(t, 2, res.Summary.Succeeded)
}

func TestMIDIFilenameWithoutTitle(t *testing.T) {
	name := midiFilename("")
	assert.Regexp(t, `^chords_[0-9a-f]{8}\.mid$`, name)
}

func TestPDF(t *testing.T) {
	req := request(seg(0, 2, "C"), seg(2, 4, "Dm"))
	req.Language = string(locale.French)
	req.Timed = true

	res, err := PDF(req, "chordex")
	require.NoError(t, err)
	assert.Equal(t, "My_Song_chords.pdf", res.Filename)
	assert.Equal(t, PdfContentType, res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("%PDF")))
	assert.Equal(t, 2, res.Summary.Succeeded)
}

func TestPDFUnknownLanguage(t *testing.T) {
	req := request(seg(0, 2, "C"))
	req.Language = "de"
	_, err := PDF(req, "chordex")
	assert.ErrorIs(t, err, locale.ErrUnknownLanguage)
}
