package pdf

import (
	"bytes"
	"fmt"

	"github.com/jsphweid/chordex/model"
	"github.com/jung-kurt/gofpdf"
)

// Canvas is the part of *gofpdf.Fpdf a layout is drawn with.
type Canvas interface {
	AddPage()
	SetFont(familyStr, styleStr string, size float64)
	Text(x, y float64, txtStr string)
	SetLineWidth(width float64)
	Line(x1, y1, x2, y2 float64)
	GetStringWidth(s string) float64
}

var _ Canvas = (*gofpdf.Fpdf)(nil)

func newFpdf() (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, 0)
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

// Draw replays doc onto c. tr converts UTF-8 to the canvas encoding.
func Draw(c Canvas, doc *Document, tr func(string) string) {
	for _, page := range doc.Pages {
		c.AddPage()
		for _, r := range page.Rules {
			c.SetLineWidth(r.Width)
			c.Line(r.X1, r.Y1, r.X2, r.Y2)
		}
		for _, t := range page.Texts {
			c.SetFont(t.Font.Family, t.Font.Style, t.Font.Size)
			c.Text(t.X, t.Y, tr(t.Text))
		}
	}
}

func Render(doc *Document) ([]byte, error) {
	pdf, tr := newFpdf()
	Draw(pdf, doc, tr)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Measure uses the core font metrics gofpdf renders with.
func Measure() Measurer {
	pdf, tr := newFpdf()
	return func(text string, f Font) float64 {
		pdf.SetFont(f.Family, f.Style, f.Size)
		return pdf.GetStringWidth(tr(text))
	}
}

type Export struct {
	Data     []byte
	Document *Document
}

// ToPdf lays chords out as a wrapped progression and renders the result.
func ToPdf(chords []model.ChordSegment, meta Metadata, opts Options) (*Export, error) {
	return export(Layout(chords, meta, opts, Measure()))
}

// ToPdfTimed renders one chord per line with start and end times.
func ToPdfTimed(chords []model.ChordSegment, meta Metadata, opts Options) (*Export, error) {
	return export(LayoutTimed(chords, meta, opts, Measure()))
}

func export(doc *Document) (*Export, error) {
	data, err := Render(doc)
	if err != nil {
		return nil, err
	}
	return &Export{Data: data, Document: doc}, nil
}
