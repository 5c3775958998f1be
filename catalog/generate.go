// Package catalog builds, repairs and dumps the piano chord catalog.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jsphweid/chordex/chord"
	"github.com/jsphweid/chordex/locale"
	"github.com/jsphweid/chordex/model"
	"github.com/jsphweid/chordex/pitch"
	"github.com/jsphweid/chordex/quality"
	"golang.org/x/sync/errgroup"
)

// DefaultRoots are the root spellings a full build covers. Enharmonic
// pairs are both present so either spelling can be looked up.
var DefaultRoots = []string{"C", "C#", "Db", "D", "D#", "Eb", "E", "F", "F#", "Gb", "G", "G#", "Ab", "A", "A#", "Bb", "B"}

// ids are stable across builds so upserts line up with earlier dumps
var rowNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("chordex/piano_chords"))

func RowID(chordName string) string {
	return uuid.NewSHA1(rowNamespace, []byte(chordName)).String()
}

// Generate builds every inversion of every root x quality pair. Pairs are
// built concurrently, but the result is always root-major, quality-minor,
// inversion ascending. Only an unknown root or quality fails the batch.
func Generate(ctx context.Context, roots []string, qualities []quality.Quality, workers int) ([]model.CatalogRow, error) {
	for _, r := range roots {
		if _, err := pitch.Normalize(r); err != nil {
			return nil, err
		}
	}
	for _, q := range qualities {
		if _, err := quality.Intervals(q); err != nil {
			return nil, err
		}
	}

	slots := make([][]model.CatalogRow, len(roots)*len(qualities))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for ri, root := range roots {
		for qi, q := range qualities {
			slot := ri*len(qualities) + qi
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rows, err := Rows(root, q)
				if err != nil {
					return fmt.Errorf("%s%s: %w", root, q.Suffix(), err)
				}
				slots[slot] = rows
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var res []model.CatalogRow
	for _, rows := range slots {
		res = append(res, rows...)
	}
	return res, nil
}

// Rows builds the catalog rows for one root and quality, one per inversion.
func Rows(root string, q quality.Quality) ([]model.CatalogRow, error) {
	intervals, err := quality.Intervals(q)
	if err != nil {
		return nil, err
	}
	res := make([]model.CatalogRow, 0, chord.MaxInversion(len(intervals))+1)
	for k := 0; k <= chord.MaxInversion(len(intervals)); k++ {
		c, err := chord.New(root, q, k)
		if err != nil {
			return nil, err
		}
		res = append(res, Row(c))
	}
	return res, nil
}

func Row(c chord.Instance) model.CatalogRow {
	intervals, _ := quality.Intervals(c.Quality)
	name := c.Name()
	nameFr, err := locale.Localize(name, locale.French)
	if err != nil {
		nameFr = name
	}
	return model.CatalogRow{
		ID:              RowID(name),
		ChordName:       name,
		KeySignature:    c.KeySignature(),
		Difficulty:      string(c.Quality.Difficulty()),
		Notes:           c.NoteNames(),
		FingerPositions: c.FingerPositions(),
		Description:     c.Quality.Description() + " - " + chord.InversionName(c.Inversion),
		Inversion:       c.Inversion,
		RootName:        c.RootName(),
		ChordType:       string(c.Quality),
		RootNote:        c.RootSpelling,
		Intervals:       intervals,
		ChordNameFr:     nameFr,
		DescriptionFr:   c.Quality.DescriptionFr() + " - " + chord.InversionNameFr(c.Inversion),
	}
}

// Select resolves configured root and quality names, falling back to the
// full set when a list is empty.
func Select(roots, qualities []string) ([]string, []quality.Quality, error) {
	if len(roots) == 0 {
		roots = DefaultRoots
	}
	res := make([]quality.Quality, 0, len(qualities))
	for _, tag := range qualities {
		q, err := quality.Parse(tag)
		if err != nil {
			return nil, nil, err
		}
		res = append(res, q)
	}
	if len(res) == 0 {
		res = quality.All()
	}
	return roots, res, nil
}
