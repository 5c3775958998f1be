package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jsphweid/chordex/catalog"
	"github.com/jsphweid/chordex/constants"
	"github.com/jsphweid/chordex/db"
	"github.com/jsphweid/chordex/logger"
	"github.com/jsphweid/chordex/util"
	"github.com/spf13/cobra"
)

var (
	generateSQL   bool
	generateJSON  bool
	generateStore bool
)

func init() {
	generateCmd.Flags().BoolVar(&generateSQL, "sql", true, "write "+constants.CatalogSQLFile+" to the output dir")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "write "+constants.CatalogJSONFile+" to the output dir")
	generateCmd.Flags().BoolVar(&generateStore, "store", false, "upsert the catalog into CATALOG_STORE")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates the piano chord catalog",
	Long: `Generates every chord voicing for the configured roots and qualities and
writes it as a SQL dump, a JSON dump and/or into the catalog store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(cmd.Context())
	},
}

func generate(ctx context.Context) error {
	roots, qualities, err := catalog.Select(fileCfg.Catalog.Roots, fileCfg.Catalog.Qualities)
	if err != nil {
		return err
	}
	rows, err := catalog.Generate(ctx, roots, qualities, cfg.Workers)
	if err != nil {
		return err
	}
	logger.Info("Generated chord catalog", logger.Fields{"rows": len(rows), "roots": len(roots), "qualities": len(qualities)})

	if generateSQL {
		var buf bytes.Buffer
		if err := catalog.WriteSQL(&buf, rows); err != nil {
			return err
		}
		path, err := util.WriteOutput(cfg.OutPath, constants.CatalogSQLFile, buf.Bytes())
		if err != nil {
			return err
		}
		fmt.Println(row("SQL dump", path))
	}
	if generateJSON {
		var buf bytes.Buffer
		if err := catalog.WriteJSON(&buf, rows); err != nil {
			return err
		}
		path, err := util.WriteOutput(cfg.OutPath, constants.CatalogJSONFile, buf.Bytes())
		if err != nil {
			return err
		}
		fmt.Println(row("JSON dump", path))
	}
	if generateStore {
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.UpsertChords(ctx, rows); err != nil {
			return fmt.Errorf("storing catalog: %w", err)
		}
		fmt.Println(row("Stored rows", len(rows)))
	}
	return nil
}

// openStore opens CATALOG_STORE and fails when it is "none".
func openStore(ctx context.Context) (db.Store, error) {
	store, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("no catalog store configured, set CATALOG_STORE")
	}
	return store, nil
}
