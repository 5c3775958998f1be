// Package pdf lays out chord sheets on A4 pages and renders them with gofpdf.
package pdf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jsphweid/chordex/chord"
	"github.com/jsphweid/chordex/locale"
	"github.com/jsphweid/chordex/logger"
	"github.com/jsphweid/chordex/model"
	"golang.org/x/text/encoding/charmap"
)

// A4 portrait, in millimetres
const (
	PageWidth    = 210.0
	PageHeight   = 297.0
	Margin       = 15.0
	ContentWidth = PageWidth - 2*Margin

	chordLineHeight = 6.0
	footerOffset    = 10.0
	timeColumn      = 20.0
	separatorWidth  = 0.5
)

type Kind string

const (
	KindTitle   Kind = "title"
	KindArtist  Kind = "artist"
	KindMeta    Kind = "meta"
	KindHeading Kind = "heading"
	KindChords  Kind = "chords"
	KindChord   Kind = "chord"
	KindTime    Kind = "time"
	KindLyrics  Kind = "lyrics"
	KindFooter  Kind = "footer"
)

type Font struct {
	Family string
	Style  string
	Size   float64
}

var (
	titleFont   = Font{"Helvetica", "B", 20}
	artistFont  = Font{"Helvetica", "", 14}
	metaFont    = Font{"Helvetica", "", 10}
	headingFont = Font{"Helvetica", "B", 12}
	bodyFont    = Font{"Helvetica", "", 10}
	timedFont   = Font{"Helvetica", "B", 9}
	timeFont    = Font{"Helvetica", "", 8}
	footerFont  = Font{"Helvetica", "I", 8}
)

type Text struct {
	Kind Kind
	X, Y float64
	Font Font
	Text string
}

type Rule struct {
	X1, Y1, X2, Y2 float64
	Width          float64
}

type Page struct {
	Texts []Text
	Rules []Rule
}

// Document is a finished layout. Problems lists chords whose names had to
// be approximated for the PDF character set.
type Document struct {
	Filename string
	Pages    []Page
	Problems []error
}

type Metadata struct {
	Title         string
	Artist        string
	Key           string
	Tempo         float64
	TimeSignature string
}

type Options struct {
	IncludeLyrics bool
	Lyrics        string
	Language      locale.Language
	Product       string
}

// Measurer returns the rendered width of text in millimetres.
type Measurer func(text string, f Font) float64

type layout struct {
	doc     *Document
	y       float64
	measure Measurer
}

func (l *layout) page() *Page {
	return &l.doc.Pages[len(l.doc.Pages)-1]
}

func (l *layout) newPage() {
	l.doc.Pages = append(l.doc.Pages, Page{})
	l.y = Margin
}

// breakIfFull starts a new page once y has run into the bottom margin.
func (l *layout) breakIfFull() {
	if l.y > PageHeight-Margin {
		l.newPage()
	}
}

func (l *layout) text(kind Kind, x float64, f Font, s string) {
	p := l.page()
	p.Texts = append(p.Texts, Text{Kind: kind, X: x, Y: l.y, Font: f, Text: s})
}

func (l *layout) header(meta Metadata) {
	if meta.Title != "" {
		l.text(KindTitle, Margin, titleFont, l.encode(meta.Title))
		l.y += 10
	}
	if meta.Artist != "" {
		l.text(KindArtist, Margin, artistFont, l.encode("by "+meta.Artist))
		l.y += 8
	}

	var parts []string
	if meta.Key != "" {
		parts = append(parts, "Key: "+meta.Key)
	}
	if meta.Tempo > 0 {
		parts = append(parts, "Tempo: "+strconv.FormatFloat(meta.Tempo, 'f', -1, 64)+" BPM")
	}
	if meta.TimeSignature != "" {
		parts = append(parts, "Time: "+meta.TimeSignature)
	}
	if len(parts) > 0 {
		l.text(KindMeta, Margin, metaFont, l.encode(strings.Join(parts, " • ")))
		l.y += 8
	}

	p := l.page()
	p.Rules = append(p.Rules, Rule{X1: Margin, Y1: l.y, X2: PageWidth - Margin, Y2: l.y, Width: separatorWidth})
	l.y += 10
}

func (l *layout) footers(product string) {
	if product == "" {
		product = "chordex"
	}
	total := len(l.doc.Pages)
	for i := range l.doc.Pages {
		p := &l.doc.Pages[i]
		p.Texts = append(p.Texts, Text{
			Kind: KindFooter,
			X:    Margin,
			Y:    PageHeight - footerOffset,
			Font: footerFont,
			Text: l.encode(fmt.Sprintf("%s | Page %d of %d", product, i+1, total)),
		})
	}
}

func (l *layout) lyrics(opts Options) {
	if !opts.IncludeLyrics || opts.Lyrics == "" {
		return
	}
	l.breakIfFull()
	l.text(KindHeading, Margin, headingFont, "Lyrics:")
	l.y += 8
	for _, line := range strings.Split(opts.Lyrics, "\n") {
		l.breakIfFull()
		l.text(KindLyrics, Margin, bodyFont, l.encode(line))
		l.y += chordLineHeight
	}
}

// Layout places chord names left to right, wrapping when a line would run
// past the usable width and breaking pages at the bottom margin. Every page
// gets a "<product> | Page N of M" footer.
func Layout(chords []model.ChordSegment, meta Metadata, opts Options, measure Measurer) *Document {
	l := &layout{doc: &Document{Filename: Filename(meta.Title)}, measure: measure}
	l.newPage()
	l.header(meta)

	l.text(KindHeading, Margin, headingFont, "Chord Progression:")
	l.y += 8

	maxWidth := ContentWidth - 10
	var line strings.Builder
	var lineWidth float64
	for _, name := range l.names(chords, opts.Language) {
		token := name + " "
		w := l.measure(token, bodyFont)
		if lineWidth+w > maxWidth && line.Len() > 0 {
			l.text(KindChords, Margin, bodyFont, strings.TrimSpace(line.String()))
			l.y += chordLineHeight
			line.Reset()
			line.WriteString(token)
			lineWidth = w
			l.breakIfFull()
			continue
		}
		line.WriteString(token)
		lineWidth += w
	}
	if rest := strings.TrimSpace(line.String()); rest != "" {
		l.text(KindChords, Margin, bodyFont, rest)
		l.y += 10
	}

	l.lyrics(opts)
	l.footers(opts.Product)
	return l.doc
}

// LayoutTimed puts one chord per line with its time span next to it.
func LayoutTimed(chords []model.ChordSegment, meta Metadata, opts Options, measure Measurer) *Document {
	l := &layout{doc: &Document{Filename: Filename(meta.Title)}, measure: measure}
	l.newPage()
	l.header(meta)

	l.text(KindHeading, Margin, headingFont, "Chord Progression (with timing):")
	l.y += 8

	for _, seg := range chords {
		if chord.IsNoChord(seg.Chord) {
			continue
		}
		l.breakIfFull()
		l.text(KindChord, Margin, timedFont, l.encode(l.localize(seg.Chord, opts.Language)))
		l.text(KindTime, Margin+timeColumn, timeFont, fmt.Sprintf("(%.1fs - %.1fs)", seg.StartTime, seg.EndTime))
		l.y += chordLineHeight
	}

	l.lyrics(opts)
	l.footers(opts.Product)
	return l.doc
}

func (l *layout) names(chords []model.ChordSegment, lang locale.Language) []string {
	res := make([]string, 0, len(chords))
	for _, seg := range chords {
		if chord.IsNoChord(seg.Chord) {
			continue
		}
		res = append(res, l.encode(l.localize(seg.Chord, lang)))
	}
	return res
}

func (l *layout) localize(name string, lang locale.Language) string {
	if lang == "" || lang == locale.English {
		return strings.TrimSpace(name)
	}
	out, err := locale.Localize(name, lang)
	if err != nil {
		logger.Warn("Keeping chord name untranslated", logger.Fields{"chord": name, "language": string(lang)})
		return strings.TrimSpace(name)
	}
	return out
}

var glyphs = strings.NewReplacer("♭", "b", "♯", "#", "♮", "", "Δ", "maj", "ø", "m7b5")

// encode makes s printable with the core fonts, which only carry
// Windows-1252. Anything else becomes '?' and is reported.
func (l *layout) encode(s string) string {
	s = glyphs.Replace(s)
	enc := charmap.Windows1252.NewEncoder()
	if _, err := enc.String(s); err == nil {
		return s
	}

	var sb strings.Builder
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('?')
		}
	}
	l.doc.Problems = append(l.doc.Problems, &model.ExportEncodingError{
		Chord:  s,
		Target: "pdf",
		Err:    fmt.Errorf("not representable in Windows-1252"),
	})
	return sb.String()
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]`)

func Filename(title string) string {
	if title == "" {
		return "chords.pdf"
	}
	return unsafeFilename.ReplaceAllString(title, "_") + "_chords.pdf"
}
