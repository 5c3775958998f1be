package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/jsphweid/chordex/chord"
	"github.com/jsphweid/chordex/logger"
	"github.com/jsphweid/chordex/model"
	"github.com/jsphweid/chordex/pitch"
	"github.com/jsphweid/chordex/quality"
	"golang.org/x/sync/errgroup"
)

// Store is the part of a catalog store repair needs.
type Store interface {
	ListChords(ctx context.Context) ([]model.CatalogRow, error)
	UpdateNotes(ctx context.Context, id string, notes []string) error
}

// Repair recomputes a row's notes from its root, chord type and inversion.
// changed is false when the stored notes were already right, so running it
// twice never changes anything. An out-of-range inversion leaves the row as
// is and returns the error.
func Repair(row model.CatalogRow) (model.CatalogRow, bool, error) {
	root, q, err := rowChord(row)
	if err != nil {
		return row, false, err
	}
	intervals, _ := quality.Intervals(q)
	if err := chord.CheckInversion(len(intervals), row.Inversion); err != nil {
		return row, false, fmt.Errorf("%s: %w", row.ChordName, err)
	}

	want := pitch.NamesOf(chord.CanonicalOrder(chord.RootPosition(root, intervals), row.Inversion))
	if slices.Equal(want, row.Notes) {
		return row, false, nil
	}
	row.Notes = want
	return row, true, nil
}

// rowChord prefers the explicit root_note and chord_type columns and falls
// back to parsing chord_name for rows that predate them.
func rowChord(row model.CatalogRow) (pitch.Class, quality.Quality, error) {
	root, rootErr := pitch.Normalize(row.RootNote)
	q, qualityErr := quality.Parse(row.ChordType)
	if rootErr == nil && qualityErr == nil {
		return root, q, nil
	}

	name := row.ChordName
	if name == "" {
		name = row.RootName
	}
	parsed, err := chord.Parse(name)
	if err != nil {
		return 0, "", fmt.Errorf("row %s: %w", row.ID, err)
	}
	if rootErr == nil {
		parsed.Root = root
	}
	if qualityErr == nil {
		parsed.Quality = q
	}
	return parsed.Root, parsed.Quality, nil
}

// RepairAll repairs every stored row. Each row is handled by exactly one
// worker. Bad rows and failed writes are counted, not fatal; only a failed
// read or a cancelled context stops the run.
func RepairAll(ctx context.Context, store Store, workers int) (model.Summary, error) {
	rows, err := store.ListChords(ctx)
	if err != nil {
		return model.Summary{}, fmt.Errorf("listing chords: %w", err)
	}

	type outcome struct {
		changed bool
		err     error
	}
	outcomes := make([]outcome, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, row := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fixed, changed, err := Repair(row)
			if err != nil {
				logger.Warn("Skipping chord row", logger.Fields{"id": row.ID, "chord": row.ChordName, "error": err.Error()})
				outcomes[i] = outcome{err: err}
				return nil
			}
			if !changed {
				return nil
			}
			if err := store.UpdateNotes(ctx, row.ID, fixed.Notes); err != nil {
				logger.Error("Failed to update chord notes", err, logger.Fields{"id": row.ID, "chord": row.ChordName})
				outcomes[i] = outcome{err: fmt.Errorf("updating %s: %w", row.ChordName, err)}
				return nil
			}
			logger.Debug("Repaired chord notes", logger.Fields{"chord": row.ChordName, "notes": fixed.Notes})
			outcomes[i] = outcome{changed: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Summary{}, err
	}

	summary := model.Summary{Total: len(rows)}
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			summary.Fail(o.err)
		case o.changed:
			summary.Succeeded++
		default:
			summary.Unchanged++
		}
	}
	return summary, nil
}
