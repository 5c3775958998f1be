package cmd

import (
	"fmt"

	"github.com/jsphweid/chordex/catalog"
	"github.com/spf13/cobra"
)

var dedupeDryRun bool

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "only list the rows that would be removed")
	rootCmd.AddCommand(dedupeCmd)
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Removes duplicate catalog rows",
	Long:  `Keeps one row per chord and inversion, preferring root position, and deletes the rest.`,
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
		keep, remove := catalog.Dedupe(rows)
		for _, r := range remove {
			fmt.Println(badStyle.Render("- " + r.ChordName + " (" + r.ID + ")"))
		}
		fmt.Println(row("Keeping", len(keep)))
		fmt.Println(row("Removing", len(remove)))
		if dedupeDryRun || len(remove) == 0 {
			return nil
		}
		return store.DeleteChords(ctx, catalog.IDs(remove))
	},
}
