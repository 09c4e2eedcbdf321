package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/harmonline/model"
)

func init() {
	spellCmd.Flags().String("key", "", "spell in this key")
	spellCmd.Flags().StringSlice("ref", nil, `named reference pitches, e.g. "0=C,4=E,7=G"`)
	spellCmd.Flags().StringP("format", "o", formatYAML, "yaml or json")
	rootCmd.AddCommand(spellCmd)
}

var spellCmd = &cobra.Command{
	Use:   "spell <pitches...>",
	Short: "Spells pitches",
	Long: `Gives every pitch a letter name. With --ref the names follow the
named reference chord the pitches move from; otherwise they follow the key.`,
	Example: `  harmonline spell 10 --ref 0=C,4=E,7=G
  harmonline spell 1 5 8 --key Ab`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pitches, err := parsePitches(args)
		if err != nil {
			return err
		}
		key, _ := cmd.Flags().GetString("key")
		refs, _ := cmd.Flags().GetStringSlice("ref")
		format, _ := cmd.Flags().GetString("format")

		req := model.SpellRequest{Pitches: pitches, Key: key}
		for _, ref := range refs {
			np, err := parseNamedPitch(ref)
			if err != nil {
				return err
			}
			req.Reference = append(req.Reference, np)
		}
		res, err := spellPitches(req)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), res, format)
	},
}

func parseNamedPitch(s string) (model.NamedPitch, error) {
	p, name, ok := strings.Cut(s, "=")
	if !ok {
		return model.NamedPitch{}, fmt.Errorf("reference %q is not pitch=name", s)
	}
	pitch, err := parsePitch(p)
	if err != nil {
		return model.NamedPitch{}, err
	}
	return model.NamedPitch{Pitch: pitch, Name: name}, nil
}
