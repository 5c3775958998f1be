package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jsphweid/chordex/export"
	"github.com/jsphweid/chordex/logger"
	"github.com/jsphweid/chordex/model"
	"github.com/jsphweid/chordex/util"
	"github.com/spf13/cobra"
)

var exportReq model.ExportRequestBody

func init() {
	for _, c := range []*cobra.Command{exportMidiCmd, exportPdfCmd} {
		c.Flags().StringVar(&exportReq.Title, "title", "", "song title")
		c.Flags().StringVar(&exportReq.Artist, "artist", "", "artist name")
		exportCmd.AddCommand(c)
	}
	exportMidiCmd.Flags().BoolVar(&exportReq.Quantized, "quantized", false, "snap chords to the beat grid")
	exportMidiCmd.Flags().BoolVar(&exportReq.IncludeBass, "bass", false, "add a bass track")
	exportPdfCmd.Flags().BoolVar(&exportReq.Timed, "timed", false, "one chord per line with its time span")
	exportPdfCmd.Flags().StringVar(&exportReq.Language, "lang", "", "chord name language (en, fr)")
	exportPdfCmd.Flags().StringVar(&exportReq.Lyrics, "lyrics", "", "file with lyrics to print under the chords")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports an analysis as MIDI or PDF",
}

var exportMidiCmd = &cobra.Command{
	Use:   "midi [analysis.json]",
	Short: "Writes a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readExportRequest(args[0])
		if err != nil {
			return err
		}
		res, err := export.MIDI(req)
		if err != nil {
			return err
		}
		return writeExport(res)
	},
}

var exportPdfCmd = &cobra.Command{
	Use:   "pdf [analysis.json]",
	Short: "Writes a PDF chord sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readExportRequest(args[0])
		if err != nil {
			return err
		}
		res, err := export.PDF(req, cfg.ProductName)
		if err != nil {
			return err
		}
		return writeExport(res)
	},
}

// readExportRequest reads the analysis file and applies the flags on top.
func readExportRequest(path string) (model.ExportRequestBody, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ExportRequestBody{}, err
	}
	req := exportReq
	if err := json.Unmarshal(data, &req.Analysis); err != nil {
		return req, fmt.Errorf("reading analysis %s: %w", path, err)
	}
	if req.Lyrics != "" {
		lyrics, err := os.ReadFile(req.Lyrics)
		if err != nil {
			return req, err
		}
		req.Lyrics = string(lyrics)
		req.IncludeLyrics = true
	}

	req, _, err = export.Prepare(req, fileCfg.Export, logger.Fields{"file": path})
	return req, err
}

func writeExport(res export.Result) error {
	path, err := util.WriteOutput(cfg.OutPath, res.Filename, res.Data)
	if err != nil {
		return err
	}
	fmt.Println(row("Wrote", path))
	fmt.Println(summaryLine(res.Summary, res.Summary.Failed))
	return nil
}
