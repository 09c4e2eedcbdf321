package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/jsphweid/harmonline/chord"
	"github.com/jsphweid/harmonline/midi"
	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/pitch"
	"github.com/jsphweid/harmonline/rational"
	"github.com/jsphweid/harmonline/score"
)

func init() {
	reportCmd.Flags().StringP("format", "o", formatYAML, "yaml or json")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file.mid>",
	Short: "Reports the chords of a MIDI file",
	Long: `Imports a MIDI file, names the chord sounding across all staves at
every change and summarizes how often each chord occurs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		sc, err := midi.ImportFile(args[0])
		if err != nil {
			return err
		}
		rep, err := analyze(sc)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), rep, format)
	},
}

type chordCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type progressionStep struct {
	At      rational.Rational `json:"at" yaml:"at"`
	Measure int               `json:"measure" yaml:"measure"`
	Chord   string            `json:"chord" yaml:"chord"`
}

type scoreReport struct {
	NumStaves   int               `json:"num_staves" yaml:"num_staves"`
	NumVoices   int               `json:"num_voices" yaml:"num_voices"`
	NumChanges  int               `json:"num_changes" yaml:"num_changes"`
	NumMeasures int               `json:"num_measures" yaml:"num_measures"`
	Chords      []chordCount      `json:"chords" yaml:"chords"`
	Progression []progressionStep `json:"progression" yaml:"progression"`
}

// analyze names the union of every sounding voice at each change of the
// score, in the key of the first staff. Repeated chords are reported once.
func analyze(sc *score.Score) (scoreReport, error) {
	var rep scoreReport
	rep.NumStaves = len(sc.Staves())
	for _, st := range sc.Staves() {
		rep.NumVoices += len(st.Voices())
	}
	times := sc.OverallRhythm()
	rep.NumChanges = len(times)
	rep.Chords = []chordCount{}
	rep.Progression = []progressionStep{}
	if len(times) > 0 {
		last, err := sc.MeasureAt(times[len(times)-1])
		if err != nil {
			return rep, err
		}
		rep.NumMeasures = last.Index + 1
	}

	namer := &chord.Namer{Registry: registry, IncludeShells: cfg.IncludeShells}
	counts := make(map[string]int)
	prev := ""
	for _, t := range times {
		c := model.NewChord(pitch.Default)
		var key *model.Key
		for i, st := range sc.Staves() {
			if k, ok := st.Keys().ValueAt(t); ok && i == 0 {
				key = k
			}
			for _, v := range st.Voices() {
				if ps, ok := v.Realization().ValueAt(t); ok {
					c.AddAll(ps.Pitches()...)
				}
			}
		}
		if c.Len() == 0 {
			prev = ""
			continue
		}
		name, err := namer.GuessRootAndName(c).Label(key)
		if err != nil {
			return rep, err
		}
		if name == prev {
			continue
		}
		prev = name
		counts[name]++
		m, err := sc.MeasureAt(t)
		if err != nil {
			return rep, err
		}
		rep.Progression = append(rep.Progression, progressionStep{At: t, Measure: m.Index, Chord: name})
	}

	for name, n := range counts {
		rep.Chords = append(rep.Chords, chordCount{Name: name, Count: n})
	}
	sort.Slice(rep.Chords, func(i, j int) bool {
		if rep.Chords[i].Count != rep.Chords[j].Count {
			return rep.Chords[i].Count > rep.Chords[j].Count
		}
		return rep.Chords[i].Name < rep.Chords[j].Name
	})
	return rep, nil
}
