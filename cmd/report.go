package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsphweid/chordex/catalog"
	"github.com/jsphweid/chordex/model"
	"github.com/jsphweid/chordex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a catalog report",
	Long: `Summarizes the stored catalog: rows per quality, difficulty and inversion,
rows whose notes need repair and duplicate rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		rows, err := store.ListChords(ctx)
		if err != nil {
			return err
		}
		fmt.Println(report(rows))
		return nil
	},
}

type catalogReport struct {
	total        int
	byType       map[string]int
	byDifficulty map[string]int
	byInversion  map[int]int
	noteCounts   []int
	needsRepair  int
	broken       int
	duplicates   int
}

func analyzeCatalog(rows []model.CatalogRow) catalogReport {
	r := catalogReport{
		total:        len(rows),
		byType:       make(map[string]int),
		byDifficulty: make(map[string]int),
		byInversion:  make(map[int]int),
	}
	for _, row := range rows {
		r.byType[row.ChordType]++
		r.byDifficulty[row.Difficulty]++
		r.byInversion[row.Inversion]++
		r.noteCounts = append(r.noteCounts, len(row.Notes))

		_, changed, err := catalog.Repair(row)
		switch {
		case err != nil:
			r.broken++
		case changed:
			r.needsRepair++
		}
	}
	_, remove := catalog.Dedupe(rows)
	r.duplicates = len(remove)
	return r
}

func report(rows []model.CatalogRow) string {
	r := analyzeCatalog(rows)

	lines := []string{headerStyle.Render("Catalog"), row("Rows", r.total)}
	if r.total > 0 {
		lines = append(lines, row("Avg notes/chord", fmt.Sprintf("%.2f", float64(util.Sum(r.noteCounts))/float64(r.total))))
	}
	lines = append(lines, "", headerStyle.Render("By type"))
	for _, k := range util.GetKeys(r.byType) {
		lines = append(lines, row(k, r.byType[k]))
	}
	lines = append(lines, "", headerStyle.Render("By difficulty"))
	for _, k := range util.GetKeys(r.byDifficulty) {
		lines = append(lines, row(k, r.byDifficulty[k]))
	}
	lines = append(lines, "", headerStyle.Render("By inversion"))
	for _, k := range util.GetKeys(r.byInversion) {
		lines = append(lines, row(fmt.Sprint(k), r.byInversion[k]))
	}

	lines = append(lines, "", headerStyle.Render("Health"))
	lines = append(lines,
		row("Needs repair", count(r.needsRepair)),
		row("Unreadable", count(r.broken)),
		row("Duplicates", count(r.duplicates)),
	)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func count(n int) string {
	if n > 0 {
		return badStyle.Render(fmt.Sprint(n))
	}
	return goodStyle.Render("0")
}
