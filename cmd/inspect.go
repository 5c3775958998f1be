package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsphweid/chordex/chord"
	"github.com/jsphweid/chordex/midi"
	"github.com/jsphweid/chordex/pitch"
	"github.com/jsphweid/chordex/util"
	"github.com/spf13/cobra"
)

var inspectMax int

func init() {
	inspectCmd.Flags().IntVar(&inspectMax, "max", 0, "inspect at most this many files (0 means all)")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file.mid | dir]",
	Short: "Inspects MIDI files",
	Long:  `Prints the tracks of each MIDI file and names the chords it plays.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := util.GatherAllMidiPaths(args[0], inspectMax)
		if err != nil {
			return err
		}
		for _, path := range paths {
			out, err := inspect(path)
			if err != nil {
				fmt.Println(badStyle.Render(path + ": " + err.Error()))
				continue
			}
			fmt.Println(out)
		}
		return nil
	},
}

func inspect(path string) (string, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return "", err
	}
	info := midi.Inspect(s)

	lines := []string{
		headerStyle.Render(path),
		row("Ticks/quarter", info.TicksPerQuarter),
		row("Tempo", fmt.Sprintf("%.1f BPM", info.Tempo)),
		row("Meter", info.Meter),
	}
	for i, tr := range info.Tracks {
		lines = append(lines, row(fmt.Sprintf("Track %d", i), fmt.Sprintf("%q events=%d notes=%d ticks=%d", tr.Name, tr.Events, tr.NoteOns, tr.Ticks)))
	}

	for _, sounding := range midi.Chords(s) {
		lines = append(lines, row(fmt.Sprintf("@%d", sounding.Tick), describeKeys(sounding.Keys)))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)), nil
}

// describeKeys lists the held notes and any catalog chord they spell.
func describeKeys(keys []uint8) string {
	notes := make([]pitch.Class, 0, len(keys))
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		pc, octave := pitch.FromMIDI(int(k))
		notes = append(notes, pc)
		names = append(names, fmt.Sprintf("%s%d", pc.Name(), octave))
	}
	desc := strings.Join(names, " ")

	var matches []string
	for _, c := range chord.Identify(notes) {
		matches = append(matches, c.Name())
	}
	if len(matches) > 0 {
		desc += "  " + goodStyle.Render(strings.Join(matches, ", "))
	}
	return desc
}
