// Package export turns a transcription analysis into downloadable MIDI and
// PDF files. The HTTP server and the CLI share it.
package export

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/jsphweid/chordex/chord"
	"github.com/jsphweid/chordex/config"
	"github.com/jsphweid/chordex/locale"
	"github.com/jsphweid/chordex/logger"
	"github.com/jsphweid/chordex/midi"
	"github.com/jsphweid/chordex/model"
	"github.com/jsphweid/chordex/pdf"
)

const (
	MidiContentType = "audio/midi"
	PdfContentType  = "application/pdf"
)

var ErrNoChords = errors.New("no chords to export")

type Result struct {
	Filename    string
	ContentType string
	Data        []byte
	Summary     model.Summary
}

// CheckChord accepts rests and anything chord.Parse can read.
func CheckChord(name string) error {
	if chord.IsNoChord(name) {
		return nil
	}
	_, err := chord.Parse(name)
	return err
}

// Prepare validates the analysis and fills tempo, time signature and
// language from defaults when the request leaves them out. Dropped entries
// are logged and returned; ErrNoChords means nothing usable is left.
func Prepare(req model.ExportRequestBody, defaults config.ExportConfig, fields logger.Fields) (model.ExportRequestBody, []error, error) {
	clean, problems := req.Analysis.Validate(CheckChord)
	for _, p := range problems {
		logger.Warn("Dropping malformed analysis entry", merge(fields, logger.Fields{"error": p.Error()}))
	}

	req.Analysis = clean
	if req.Tempo <= 0 {
		req.Tempo = defaults.Tempo
	}
	if req.TimeSignature == "" {
		req.TimeSignature = defaults.TimeSignature
	}
	if req.Language == "" {
		req.Language = defaults.Language
	}
	if len(clean.Chords) == 0 {
		return req, problems, ErrNoChords
	}
	return req, problems, nil
}

func merge(a, b logger.Fields) logger.Fields {
	res := make(logger.Fields, len(a)+len(b))
	for k, v := range a {
		res[k] = v
	}
	for k, v := range b {
		res[k] = v
	}
	return res
}

// MIDI expects a request that went through Prepare.
func MIDI(req model.ExportRequestBody) (Result, error) {
	data, summary, err := midi.ToMidi(req.Chords, req.Beats, midi.Options{
		Tempo:         req.Tempo,
		TimeSignature: req.TimeSignature,
		Quantized:     req.Quantized,
		IncludeBass:   req.IncludeBass,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Filename:    midiFilename(req.Title),
		ContentType: MidiContentType,
		Data:        data,
		Summary:     summary,
	}, nil
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]`)

func midiFilename(title string) string {
	if title == "" {
		return "chords_" + uuid.New().String()[:8] + ".mid"
	}
	return unsafeFilename.ReplaceAllString(title, "_") + "_chords.mid"
}

// PDF expects a request that went through Prepare.
func PDF(req model.ExportRequestBody, product string) (Result, error) {
	lang, err := locale.ParseLanguage(req.Language)
	if err != nil {
		return Result{}, err
	}
	meta := pdf.Metadata{
		Title:         req.Title,
		Artist:        req.Artist,
		Key:           req.Key,
		Tempo:         req.Tempo,
		TimeSignature: req.TimeSignature,
	}
	opts := pdf.Options{
		IncludeLyrics: req.IncludeLyrics,
		Lyrics:        req.Lyrics,
		Language:      lang,
		Product:       product,
	}

	var out *pdf.Export
	if req.Timed {
		out, err = pdf.ToPdfTimed(req.Chords, meta, opts)
	} else {
		out, err = pdf.ToPdf(req.Chords, meta, opts)
	}
	if err != nil {
		return Result{}, err
	}

	summary := model.Summary{Total: len(req.Chords)}
	for _, p := range out.Document.Problems {
		summary.Fail(p)
		logger.Warn("Chord name approximated in PDF", logger.Fields{"error": p.Error()})
	}
	summary.Succeeded = summary.Total - summary.Failed
	return Result{
		Filename:    out.Document.Filename,
		ContentType: PdfContentType,
		Data:        out.Data,
		Summary:     summary,
	}, nil
}
