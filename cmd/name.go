package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/harmonline/model"
)

func init() {
	nameCmd.Flags().Int("root", 0, "name the chord on this root class instead of guessing")
	nameCmd.Flags().Bool("shells", false, "also try roots that are not sounding")
	nameCmd.Flags().String("key", "", `spell the root in this key, e.g. "Bb" or "F#m"`)
	nameCmd.Flags().Bool("likelihoods", false, "list every candidate root by certainty")
	nameCmd.Flags().StringP("format", "o", formatYAML, "yaml, json or text")
	rootCmd.AddCommand(nameCmd)
}

var nameCmd = &cobra.Command{
	Use:   "name <pitches...>",
	Short: "Names a chord",
	Long: `Names the chord formed by the given pitches. Pitches are integers with
middle C = 0 or names with an octave such as C4 or Bb3.`,
	Example: `  harmonline name 0 4 7 10
  harmonline name C4 Eb4 Gb4 A4 --likelihoods --key Eb`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pitches, err := parsePitches(args)
		if err != nil {
			return err
		}
		key, _ := cmd.Flags().GetString("key")
		format, _ := cmd.Flags().GetString("format")
		var root *int
		if cmd.Flags().Changed("root") {
			r, _ := cmd.Flags().GetInt("root")
			root = &r
		}

		if all, _ := cmd.Flags().GetBool("likelihoods"); all {
			res, err := likelihoods(model.LikelihoodsRequest{Pitches: pitches, Root: root, Key: key})
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), res, format)
		}

		shells, _ := cmd.Flags().GetBool("shells")
		res, err := nameChord(model.NameRequest{Pitches: pitches, Root: root, Shells: shells, Key: key})
		if err != nil {
			return err
		}
		if format == "text" {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), res.Name)
			return err
		}
		return output(cmd.OutOrStdout(), res, format)
	},
}
