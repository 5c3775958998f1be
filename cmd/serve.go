package cmd

import (
	"github.com/jsphweid/chordex/db"
	"github.com/jsphweid/chordex/server"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the HTTP API",
	Long:  `Serves transposition, localization, chord lookup and MIDI/PDF export over HTTP on PORT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := db.Open(ctx, cfg)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}
		return server.New(cfg, fileCfg.Export, store).ListenAndServe(ctx)
	},
}
