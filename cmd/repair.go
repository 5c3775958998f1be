package cmd

import (
	"fmt"

	"github.com/jsphweid/chordex/catalog"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(repairCmd)
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Fixes stored note orders",
	Long: `Recomputes every stored chord's notes from its root, type and inversion and
writes back the rows whose note order was wrong.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := catalog.RepairAll(ctx, store, cfg.Workers)
		if err != nil {
			return err
		}
		fmt.Println(summaryLine(summary, summary.Failed))
		for _, e := range summary.Errors {
			fmt.Println(badStyle.Render("  " + e.Error()))
		}
		return nil
	},
}
