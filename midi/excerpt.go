package midi

import (
	"fmt"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/harmonline/rational"
	"github.com/jsphweid/harmonline/util"
)

type placed struct {
	ticks int64
	msg   smf.Message
}

// Excerpt copies s from time from onwards, keeping at most maxNotes note
// starts per track. Meta events earlier than from are moved to the start so
// the excerpt keeps its meter, key and track names. Notes already sounding at
// from are dropped, and every kept note is released. maxNotes <= 0 keeps all.
func Excerpt(s *smf.SMF, from rational.Rational, maxNotes int) (*smf.SMF, error) {
	tf, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || tf == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTimeFormat, s.TimeFormat)
	}
	if from.Sign() < 0 {
		return nil, fmt.Errorf("excerpt from %v: negative time", from)
	}
	offset := from.Times(rational.FromInt(4 * int64(tf))).Floor()

	res := smf.New()
	res.TimeFormat = s.TimeFormat
	for i, track := range s.Tracks {
		events := excerptTrack(track, offset, maxNotes)
		var out smf.Track
		var last int64
		for _, ev := range events {
			out.Add(uint32(ev.ticks-last), ev.msg)
			last = ev.ticks
		}
		out.Close(0)
		if err := res.Add(out); err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
	}
	return res, nil
}

func excerptTrack(track smf.Track, offset int64, maxNotes int) []placed {
	var (
		res      []placed
		absTicks int64
		started  int
		held     = map[uint16]int{}
	)
	for _, ev := range track {
		absTicks += int64(ev.Delta)
		if isEndOfTrack(ev.Message) {
			continue
		}
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteStart(&ch, &key, &vel):
			if absTicks < offset || (maxNotes > 0 && started >= maxNotes) {
				continue
			}
			started++
			held[heldKey(ch, key)]++
			res = append(res, placed{absTicks - offset, ev.Message})
		case ev.Message.GetNoteEnd(&ch, &key):
			k := heldKey(ch, key)
			if held[k] == 0 {
				continue
			}
			held[k]--
			res = append(res, placed{absTicks - offset, ev.Message})
		default:
			if absTicks < offset {
				res = append(res, placed{0, ev.Message})
			} else if maxNotes <= 0 || started < maxNotes {
				res = append(res, placed{absTicks - offset, ev.Message})
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].ticks < res[j].ticks })

	// release whatever the cut left sounding
	var end int64
	if len(res) > 0 {
		end = res[len(res)-1].ticks
	}
	for _, k := range util.GetKeysSorted(held) {
		for n := held[k]; n > 0; n-- {
			res = append(res, placed{end, smf.Message(gomidi.NoteOff(uint8(k>>8), uint8(k)))})
		}
	}
	return res
}

// heldKey orders by channel, then key.
func heldKey(ch, key uint8) uint16 {
	return uint16(ch)<<8 | uint16(key)
}

// isEndOfTrack matches the FF 2F meta event; Close writes a fresh one.
func isEndOfTrack(msg smf.Message) bool {
	return len(msg) >= 2 && msg[0] == 0xFF && msg[1] == 0x2F
}
