package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/chordex/locale"
	"github.com/spf13/cobra"
)

var localizeLanguage string

func init() {
	localizeCmd.Flags().StringVarP(&localizeLanguage, "lang", "l", "fr", "target language (en, fr)")
	rootCmd.AddCommand(localizeCmd)
}

var localizeCmd = &cobra.Command{
	Use:     "localize [progression]",
	Short:   "Renders chord names in English or French",
	Example: `  chordex localize -l fr "C - Am - Dm7 - G"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := locale.ParseLanguage(localizeLanguage)
		if err != nil {
			return err
		}
		fmt.Println(locale.LocalizeProgression(strings.Join(args, " "), lang))
		return nil
	},
}
