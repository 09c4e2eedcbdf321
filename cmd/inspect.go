package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jsphweid/harmonline/midi"
	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/pitch"
	"github.com/jsphweid/harmonline/rational"
	"github.com/jsphweid/harmonline/score"
	"github.com/jsphweid/harmonline/spell"
	"github.com/jsphweid/harmonline/util"
)

func init() {
	inspectCmd.Flags().Int("staff", 0, "staff index")
	inspectCmd.Flags().String("from", "0", "first time to show, in whole notes, e.g. 3/4")
	inspectCmd.Flags().Int("limit", 0, "show at most this many changes; 0 shows all")
	inspectCmd.Flags().StringP("format", "o", formatYAML, "yaml or json")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects the harmonic timeline of a MIDI file",
	Long: `Imports a MIDI file and prints the delta of one staff at every time
anything on it changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		staffIdx, _ := cmd.Flags().GetInt("staff")
		fromText, _ := cmd.Flags().GetString("from")
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")

		from, err := rational.Parse(fromText)
		if err != nil {
			return err
		}
		sc, err := midi.ImportFile(args[0])
		if err != nil {
			return err
		}
		views, err := inspect(sc, staffIdx, from, limit)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), views, format)
	},
}

type deltaView struct {
	At      rational.Rational `json:"at" yaml:"at"`
	Measure int               `json:"measure" yaml:"measure"`
	Meter   string            `json:"meter,omitempty" yaml:"meter,omitempty"`
	Key     string            `json:"key,omitempty" yaml:"key,omitempty"`
	Chord   string            `json:"chord,omitempty" yaml:"chord,omitempty"`
	Clef    string            `json:"clef,omitempty" yaml:"clef,omitempty"`
	Changed []model.Kind      `json:"changed,omitempty" yaml:"changed,omitempty"`
	Voices  []voiceView       `json:"voices" yaml:"voices"`
}

type voiceView struct {
	Voice    string   `json:"voice" yaml:"voice"`
	Pitches  []int    `json:"pitches" yaml:"pitches"`
	Attacked []string `json:"attacked,omitempty" yaml:"attacked,omitempty"`
}

func inspect(sc *score.Score, staffIdx int, from rational.Rational, limit int) ([]deltaView, error) {
	st, err := sc.Staff(staffIdx)
	if err != nil {
		return nil, err
	}
	views := []deltaView{}
	for d := range st.Forward(from) {
		v, err := viewOf(sc, st, d)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
		if limit > 0 && len(views) == limit {
			break
		}
	}
	return views, nil
}

func viewOf(sc *score.Score, st *score.Staff, d score.StaffDelta) (deltaView, error) {
	m, err := sc.MeasureAt(d.At)
	if err != nil {
		return deltaView{}, err
	}
	v := deltaView{
		At:      d.At,
		Measure: m.Index,
		Chord:   d.ChordName,
		Changed: util.GetKeysSorted(d.Changed),
	}
	if ts, ok := d.TimeSignature(); ok {
		v.Meter = ts.String()
	}
	if k, ok := d.Key(); ok {
		v.Key = k.Name()
	}
	if c, ok := d.Clef(); ok {
		v.Clef = c.String()
	}

	voices := st.Voices()
	for i, vd := range d.Voices {
		vv := voiceView{Voice: voices[i].Name, Pitches: []int{}}
		if vd.Established != nil {
			vv.Pitches = vd.Established.Pitches()
		}
		if vd.Changed != nil {
			names := vd.Changed.NoteNames()
			for j, p := range vd.Changed.Pitches() {
				name := "?"
				if names != nil {
					name = spell.NameWithOctave(names[j], p, pitch.Default)
				}
				vv.Attacked = append(vv.Attacked, name)
			}
		}
		v.Voices = append(v.Voices, vv)
	}
	return v, nil
}
