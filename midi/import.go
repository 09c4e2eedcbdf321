package midi

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/rational"
	"github.com/jsphweid/harmonline/score"
)

// middleC is the MIDI key number stored as pitch 0.
const middleC = 60

type noteEvent struct {
	ticks int64
	off   bool
	key   uint8
}

type timedKey struct {
	ticks int64
	key   *model.Key
}

// Import builds a score from s. Meter and key signature events from any
// track go to the shared meter and to every staff's key timeline; each
// track that sounds notes becomes a staff with one voice, whose realization
// changes at every tick where the set of held keys changes.
func Import(s *smf.SMF) (*score.Score, error) {
	tf, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || tf == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTimeFormat, s.TimeFormat)
	}
	// a whole note, the unit of score time, is four quarters
	whole := 4 * int64(tf)
	at := func(ticks int64) rational.Rational {
		return rational.MustNew(ticks, whole)
	}

	sc := score.New()
	var (
		keys   []timedKey
		tracks [][]noteEvent
		names  []string
	)
	for i, track := range s.Tracks {
		var (
			absTicks int64
			notes    []noteEvent
			name     string
		)
		for _, ev := range track {
			absTicks += int64(ev.Delta)
			var (
				ch, key, vel, num, denom uint8
				isMajor, isFlat          bool
				text                     string
			)
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				notes = append(notes, noteEvent{ticks: absTicks, key: key})
			case ev.Message.GetNoteEnd(&ch, &key):
				notes = append(notes, noteEvent{ticks: absTicks, off: true, key: key})
			case ev.Message.GetMetaMeter(&num, &denom):
				ts, err := model.NewTimeSignature(int(num), int(denom))
				if err != nil {
					return nil, fmt.Errorf("track %d: %w", i, err)
				}
				if _, _, err := sc.Meter().Put(at(absTicks), ts); err != nil {
					return nil, err
				}
			case ev.Message.GetMetaKey(&key, &num, &isMajor, &isFlat):
				fifths := int(num)
				if isFlat {
					fifths = -fifths
				}
				k, err := model.KeyFromFifths(fifths, isMajor)
				if err != nil {
					return nil, fmt.Errorf("track %d: %w", i, err)
				}
				keys = append(keys, timedKey{ticks: absTicks, key: k})
			case ev.Message.GetMetaTrackName(&text):
				name = text
			}
		}
		if len(notes) == 0 {
			continue
		}
		if name == "" {
			name = fmt.Sprintf("track %d", i+1)
		}
		tracks = append(tracks, notes)
		names = append(names, name)
	}

	for i, notes := range tracks {
		st := sc.AddStaff(names[i])
		for _, tk := range keys {
			if _, _, err := st.Keys().Put(at(tk.ticks), tk.key); err != nil {
				return nil, err
			}
		}
		v := st.AddVoice("1")
		if err := realize(v, notes, at); err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
	}
	return sc, nil
}

// realize writes the held-key set after every tick that has note events.
// Note offs sort before note ons at the same tick so a repeated key sounds
// again.
func realize(v *score.Voice, notes []noteEvent, at func(int64) rational.Rational) error {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].ticks != notes[j].ticks {
			return notes[i].ticks < notes[j].ticks
		}
		return notes[i].off && !notes[j].off
	})

	held := make(map[uint8]int)
	sounding := false
	for i, n := range notes {
		if n.off {
			if held[n.key] > 1 {
				held[n.key]--
			} else {
				delete(held, n.key)
			}
		} else {
			held[n.key]++
		}
		if i+1 < len(notes) && notes[i+1].ticks == n.ticks {
			continue
		}

		t := at(n.ticks)
		if len(held) == 0 {
			if sounding {
				if err := v.Realization().PutEnd(t); err != nil {
					return err
				}
			}
			sounding = false
			continue
		}
		ps := model.NewPitchSet()
		for key := range held {
			ps.Add(int(key) - middleC)
		}
		if _, _, err := v.Realization().Put(t, ps); err != nil {
			return err
		}
		sounding = true
	}
	return nil
}
