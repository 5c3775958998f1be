package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/chordex/transpose"
	"github.com/spf13/cobra"
)

var (
	transposeFrom string
	transposeTo   string
)

func init() {
	transposeCmd.Flags().StringVar(&transposeFrom, "from", "C", "key the progression is in")
	transposeCmd.Flags().StringVar(&transposeTo, "to", "C", "key to move it to")
	rootCmd.AddCommand(transposeCmd)
}

var transposeCmd = &cobra.Command{
	Use:     "transpose [progression]",
	Short:   "Transposes a chord progression",
	Example: `  chordex transpose --from C --to Eb "C Am F G7"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := transpose.TransposeChordString(strings.Join(args, " "), transposeFrom, transposeTo)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}
