package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jsphweid/chordex/locale"
	"github.com/jsphweid/chordex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// every rune is 2mm wide at 10pt
func fixedWidth(text string, f Font) float64 {
	return float64(len([]rune(text))) * f.Size / 5
}

func segments(names ...string) []model.ChordSegment {
	res := make([]model.ChordSegment, len(names))
	for i, n := range names {
		res[i] = model.ChordSegment{StartTime: float64(i), EndTime: float64(i + 1), Chord: n}
	}
	return res
}

func textsOf(doc *Document, kind Kind) []Text {
	var res []Text
	for _, p := range doc.Pages {
		for _, t := range p.Texts {
			if t.Kind == kind {
				res = append(res, t)
			}
		}
	}
	return res
}

func TestHeader(t *testing.T) {
	doc := Layout(segments("C", "G"), Metadata{
		Title:         "Let It Be",
		Artist:        "The Beatles",
		Key:           "C",
		Tempo:         72,
		TimeSignature: "4/4",
	}, Options{}, fixedWidth)

	require.Len(t, doc.Pages, 1)
	texts := doc.Pages[0].Texts

	assert := assert.New(t)
	assert.Equal(Text{Kind: KindTitle, X: 15, Y: 15, Font: titleFont, Text: "Let It Be"}, texts[0])
	assert.Equal(Text{Kind: KindArtist, X: 15, Y: 25, Font: artistFont, Text: "by The Beatles"}, texts[1])
	assert.Equal("Key: C • Tempo: 72 BPM • Time: 4/4", texts[2].Text)
	assert.Equal(33.0, texts[2].Y)
	assert.Equal([]Rule{{X1: 15, Y1: 41, X2: 195, Y2: 41, Width: 0.5}}, doc.Pages[0].Rules)
	assert.Equal(Text{Kind: KindHeading, X: 15, Y: 51, Font: headingFont, Text: "Chord Progression:"}, texts[3])
	assert.Equal(Text{Kind: KindChords, X: 15, Y: 59, Font: bodyFont, Text: "C G"}, texts[4])
	assert.Equal("Let_It_Be_chords.pdf", doc.Filename)
}

func TestWrapsAtUsableWidth(t *testing.T) {
	// "Am7 " is 8mm, so 21 fit in the 170mm line and the 22nd wraps
	names := make([]string, 30)
	for i := range names {
		names[i] = "Am7"
	}
	doc := Layout(segments(names...), Metadata{}, Options{}, fixedWidth)

	lines := textsOf(doc, KindChords)
	require.Len(t, lines, 2)
	assert.Equal(t, 21, strings.Count(lines[0].Text, "Am7"))
	assert.Equal(t, 9, strings.Count(lines[1].Text, "Am7"))
	assert.Equal(t, lines[0].Y+chordLineHeight, lines[1].Y)
	for _, l := range lines {
		assert.LessOrEqual(t, fixedWidth(l.Text, bodyFont), ContentWidth-10)
	}
}

func TestPagination(t *testing.T) {
	// one chord per line: each is wider than half the usable width
	long := strings.Repeat("x", 50)
	names := make([]string, 80)
	for i := range names {
		names[i] = "C" + long
	}
	doc := Layout(segments(names...), Metadata{Title: "Long"}, Options{Product: "Songbook"}, fixedWidth)

	require.Greater(t, len(doc.Pages), 1)
	for _, p := range doc.Pages {
		for _, txt := range p.Texts {
			if txt.Kind == KindChords {
				assert.LessOrEqual(t, txt.Y, PageHeight-Margin+chordLineHeight)
			}
		}
	}

	footers := textsOf(doc, KindFooter)
	require.Len(t, footers, len(doc.Pages))
	for i, f := range footers {
		assert.Equal(t, fmt.Sprintf("Songbook | Page %d of %d", i+1, len(doc.Pages)), f.Text)
		assert.Equal(t, PageHeight-10, f.Y)
		assert.Equal(t, footerFont, f.Font)
	}
	assert.Len(t, textsOf(doc, KindChords), 80)
}

func TestLyrics(t *testing.T) {
	doc := Layout(segments("C"), Metadata{}, Options{IncludeLyrics: true, Lyrics: "line one\nline two"}, fixedWidth)

	lyrics := textsOf(doc, KindLyrics)
	require.Len(t, lyrics, 2)
	assert.Equal(t, "line one", lyrics[0].Text)
	assert.Equal(t, lyrics[0].Y+6, lyrics[1].Y)

	doc = Layout(segments("C"), Metadata{}, Options{IncludeLyrics: false, Lyrics: "ignored"}, fixedWidth)
	assert.Empty(t, textsOf(doc, KindLyrics))
}

func TestRestsAreSkipped(t *testing.T) {
	doc := Layout(segments("C", "N", "G", "X"), Metadata{}, Options{}, fixedWidth)
	assert.Equal(t, "C G", textsOf(doc, KindChords)[0].Text)
}

func TestFrenchChordNames(t *testing.T) {
	doc := Layout(segments("C", "Bbm", "F#7"), Metadata{}, Options{Language: locale.French}, fixedWidth)

	assert.Equal(t, "Do Sibm Fa#7", textsOf(doc, KindChords)[0].Text)
	assert.Empty(t, doc.Problems)
}

func TestUnencodableNamesAreReported(t *testing.T) {
	doc := Layout(segments("C", "G♭7", "D☃"), Metadata{}, Options{}, fixedWidth)

	assert.Equal(t, "C Gb7 D?", textsOf(doc, KindChords)[0].Text)
	require.Len(t, doc.Problems, 1)
	assert.True(t, errors.Is(doc.Problems[0], model.ErrExportEncoding))
}

func TestLayoutTimed(t *testing.T) {
	chords := []model.ChordSegment{
		{StartTime: 0, EndTime: 2.04, Chord: "Am"},
		{StartTime: 2.04, EndTime: 3, Chord: "N"},
		{StartTime: 3, EndTime: 4.5, Chord: "F"},
	}
	doc := LayoutTimed(chords, Metadata{}, Options{}, fixedWidth)

	names := textsOf(doc, KindChord)
	times := textsOf(doc, KindTime)
	require.Len(t, names, 2)
	require.Len(t, times, 2)

	assert := assert.New(t)
	assert.Equal("Am", names[0].Text)
	assert.Equal("(0.0s - 2.0s)", times[0].Text)
	assert.Equal(Margin+20, times[0].X)
	assert.Equal(names[0].Y, times[0].Y)
	assert.Equal("(3.0s - 4.5s)", times[1].Text)
	assert.Equal(names[0].Y+6, names[1].Y)
	assert.Equal("chordex | Page 1 of 1", textsOf(doc, KindFooter)[0].Text)
}

func TestLayoutTimedPaginates(t *testing.T) {
	names := make([]string, 100)
	for i := range names {
		names[i] = "G"
	}
	doc := LayoutTimed(segments(names...), Metadata{}, Options{}, fixedWidth)

	assert.Greater(t, len(doc.Pages), 2)
	assert.Len(t, textsOf(doc, KindChord), 100)
	for _, txt := range textsOf(doc, KindChord) {
		assert.LessOrEqual(t, txt.Y, PageHeight-Margin)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "chords.pdf", Filename(""))
	assert.Equal(t, "Don_t_Stop_chords.pdf", Filename("Don't Stop"))
}

type recorder struct {
	pages int
	texts []string
	fonts []Font
	lines int
}

func (r *recorder) AddPage()                                   { r.pages++ }
func (r *recorder) SetFont(family, style string, size float64) { r.fonts = append(r.fonts, Font{family, style, size}) }
func (r *recorder) Text(x, y float64, s string)                { r.texts = append(r.texts, s) }
func (r *recorder) SetLineWidth(float64)                       {}
func (r *recorder) Line(x1, y1, x2, y2 float64)                { r.lines++ }
func (r *recorder) GetStringWidth(s string) float64            { return float64(len(s)) }

func TestDraw(t *testing.T) {
	doc := Layout(segments("C", "G"), Metadata{Title: "T"}, Options{}, fixedWidth)

	var r recorder
	Draw(&r, doc, strings.ToUpper)

	assert.Equal(t, 1, r.pages)
	assert.Equal(t, 1, r.lines)
	assert.Equal(t, []string{"T", "CHORD PROGRESSION:", "C G", "CHORDEX | PAGE 1 OF 1"}, r.texts)
	assert.Equal(t, titleFont, r.fonts[0])
}

func TestToPdf(t *testing.T) {
	out, err := ToPdf(segments("C", "Am", "F", "G"), Metadata{Title: "Demo", Key: "C", Tempo: 120}, Options{Language: locale.French})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF-")))
	assert.Equal(t, "Do Lam Fa Sol", textsOf(out.Document, KindChords)[0].Text)

	timed, err := ToPdfTimed(segments("C"), Metadata{}, Options{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(timed.Data, []byte("%PDF-")))
}

func TestMeasureUsesFontMetrics(t *testing.T) {
	measure := Measure()
	narrow := measure("iiii", bodyFont)
	wide := measure("WWWW", bodyFont)
	assert.Greater(t, wide, narrow)
	assert.Greater(t, measure("WWWW", titleFont), wide)
}
