package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsphweid/chordex/sampler"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var (
	playPort     int
	playDuration time.Duration
	playOctave   int
	playList     bool
)

func init() {
	playCmd.Flags().IntVar(&playPort, "port", 0, "MIDI out port number")
	playCmd.Flags().DurationVar(&playDuration, "duration", time.Second, "how long each chord is held")
	playCmd.Flags().IntVar(&playOctave, "octave", 4, "octave of the chord root")
	playCmd.Flags().BoolVar(&playList, "list", false, "list MIDI out ports and exit")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:     "play [chord...]",
	Short:   "Plays chords on a MIDI output",
	Example: `  chordex play --port 1 C Am Dm7 G7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.CloseDriver()
		if playList {
			fmt.Println(midi.GetOutPorts())
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("no chords to play")
		}

		out, err := midi.OutPort(playPort)
		if err != nil {
			return fmt.Errorf("can't find MIDI out port %d: %w", playPort, err)
		}
		if err := out.Open(); err != nil {
			return err
		}
		defer out.Close()

		s := sampler.New(out, sampler.Options{Octave: playOctave})
		defer s.Close()

		ctx := cmd.Context()
		for _, name := range args {
			keys, err := s.Voicing(name)
			if err != nil {
				fmt.Println(badStyle.Render(name + ": " + err.Error()))
				continue
			}
			fmt.Println(row(name, describeSamples(keys)))
			if err := s.PlayChordFor(ctx, name, playDuration); err != nil {
				return err
			}
		}
		return nil
	},
}

func describeSamples(keys []uint8) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		sample := sampler.SampleFor(int(k))
		parts = append(parts, fmt.Sprintf("%d→%s%+d", k, sample.File, sample.Shift))
	}
	return strings.Join(parts, " ")
}
