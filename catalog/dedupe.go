package catalog

import (
	"fmt"
	"sort"

	"github.com/jsphweid/chordex/model"
)

// Dedupe keeps one row per root name and inversion. Rows are visited in
// inversion then chord name order and the first one wins, unless a later
// duplicate is in root position and the kept one is not.
func Dedupe(rows []model.CatalogRow) (keep, remove []model.CatalogRow) {
	sorted := make([]model.CatalogRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Inversion != sorted[j].Inversion {
			return sorted[i].Inversion < sorted[j].Inversion
		}
		return sorted[i].ChordName < sorted[j].ChordName
	})

	index := make(map[string]int)
	for _, row := range sorted {
		key := dedupeKey(row)
		i, seen := index[key]
		if !seen {
			index[key] = len(keep)
			keep = append(keep, row)
			continue
		}
		if row.Inversion == 0 && keep[i].Inversion != 0 {
			remove = append(remove, keep[i])
			keep[i] = row
			continue
		}
		remove = append(remove, row)
	}
	return keep, remove
}

func dedupeKey(row model.CatalogRow) string {
	name := row.RootName
	if name == "" {
		name = row.ChordName
	}
	return fmt.Sprintf("%s_%d", name, row.Inversion)
}

func IDs(rows []model.CatalogRow) []string {
	res := make([]string, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.ID)
	}
	return res
}
