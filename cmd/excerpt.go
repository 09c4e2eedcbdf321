package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsphweid/harmonline/midi"
	"github.com/jsphweid/harmonline/rational"
)

func init() {
	excerptCmd.Flags().String("from", "0", "start of the excerpt, in whole notes")
	excerptCmd.Flags().Int("notes", 10, "note starts to keep per track; 0 keeps all")
	rootCmd.AddCommand(excerptCmd)
}

var excerptCmd = &cobra.Command{
	Use:   "excerpt <in.mid> <out.mid>",
	Short: "Cuts a short excerpt out of a MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromText, _ := cmd.Flags().GetString("from")
		notes, _ := cmd.Flags().GetInt("notes")
		from, err := rational.Parse(fromText)
		if err != nil {
			return err
		}

		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		ex, err := midi.Excerpt(s, from, notes)
		if err != nil {
			return err
		}
		if err := ex.WriteFile(args[1]); err != nil {
			return err
		}
		slog.Info("wrote excerpt", "path", args[1], "from", from, "tracks", len(ex.Tracks))
		return nil
	},
}
