package score

import (
	"github.com/google/uuid"

	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/rational"
	"github.com/jsphweid/harmonline/rhythm"
)

// Voice is one melodic line. Its realization timeline holds what sounds;
// its own chord, scale and key timelines override the staff's where set.
type Voice struct {
	ID   uuid.UUID
	Name string

	realization *rhythm.Map[*model.PitchSet]
	chords      *rhythm.Map[*model.Chord]
	scales      *rhythm.Map[*model.Scale]
	keys        *rhythm.Map[*model.Key]
}

func newVoice(s *Score, name string) *Voice {
	return &Voice{
		ID:          uuid.New(),
		Name:        name,
		realization: newTimeline[*model.PitchSet](s),
		chords:      newTimeline[*model.Chord](s),
		scales:      newTimeline[*model.Scale](s),
		keys:        newTimeline[*model.Key](s),
	}
}

func (v *Voice) Realization() *rhythm.Map[*model.PitchSet] { return v.realization }
func (v *Voice) Chords() *rhythm.Map[*model.Chord]         { return v.chords }
func (v *Voice) Scales() *rhythm.Map[*model.Scale]         { return v.scales }
func (v *Voice) Keys() *rhythm.Map[*model.Key]             { return v.keys }

func (v *Voice) collect(set map[rational.Rational]struct{}) {
	collect(set, v.realization)
	collect(set, v.chords)
	collect(set, v.scales)
	collect(set, v.keys)
}

type nextAttacker interface {
	FirstAttackAfter(t rational.Rational) (rational.Rational, bool)
}

func (v *Voice) timelines() []nextAttacker {
	return []nextAttacker{v.realization, v.chords, v.scales, v.keys}
}

// NextChangeAfter returns the earliest attack strictly after t in any of
// the voice's timelines.
func (v *Voice) NextChangeAfter(t rational.Rational) (rational.Rational, bool) {
	var (
		best  rational.Rational
		found bool
	)
	for _, m := range v.timelines() {
		if at, ok := m.FirstAttackAfter(t); ok && (!found || at.Less(best)) {
			best, found = at, true
		}
	}
	return best, found
}

// ChangeCursor answers NextChangeAfter for callers stepping through a voice
// in order. Each answer leaves the cursor positioned at the returned time,
// so asking again from there is cheap; any other time, or a mutation of
// the voice, restarts it from scratch. It is not safe for concurrent use.
type ChangeCursor struct {
	cursors []peeker
}

type peeker interface {
	Peek(t rational.Rational) (rational.Rational, bool)
	Advance(t rational.Rational)
}

func (v *Voice) ChangeCursor() *ChangeCursor {
	return &ChangeCursor{cursors: []peeker{
		v.realization.Cursor(),
		v.chords.Cursor(),
		v.scales.Cursor(),
		v.keys.Cursor(),
	}}
}

func (c *ChangeCursor) Next(t rational.Rational) (rational.Rational, bool) {
	var (
		best  rational.Rational
		found bool
	)
	for _, cur := range c.cursors {
		if at, ok := cur.Peek(t); ok && (!found || at.Less(best)) {
			best, found = at, true
		}
	}
	if found {
		for _, cur := range c.cursors {
			cur.Advance(best)
		}
	}
	return best, found
}
