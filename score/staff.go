package score

import (
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/rational"
	"github.com/jsphweid/harmonline/rhythm"
)

// Staff holds the harmonic timelines shared by its voices.
type Staff struct {
	ID   uuid.UUID
	Name string

	score  *Score
	keys   *rhythm.Map[*model.Key]
	chords *rhythm.Map[*model.Chord]
	scales *rhythm.Map[*model.Scale]
	clefs  *rhythm.Map[model.Clef]
	voices []*Voice
}

func newStaff(s *Score, name string) *Staff {
	return &Staff{
		ID:     uuid.New(),
		Name:   name,
		score:  s,
		keys:   newTimeline[*model.Key](s),
		chords: newTimeline[*model.Chord](s),
		scales: newTimeline[*model.Scale](s),
		clefs:  newTimeline[model.Clef](s),
	}
}

func (st *Staff) Keys() *rhythm.Map[*model.Key]     { return st.keys }
func (st *Staff) Chords() *rhythm.Map[*model.Chord] { return st.chords }
func (st *Staff) Scales() *rhythm.Map[*model.Scale] { return st.scales }
func (st *Staff) Clefs() *rhythm.Map[model.Clef]    { return st.clefs }

func (st *Staff) AddVoice(name string) *Voice {
	v := newVoice(st.score, name)
	st.voices = append(st.voices, v)
	return v
}

func (st *Staff) Voice(i int) (*Voice, error) {
	if i < 0 || i >= len(st.voices) {
		return nil, fmt.Errorf("%w: voice %d of %d", ErrIndexOutOfRange, i, len(st.voices))
	}
	return st.voices[i], nil
}

func (st *Staff) Voices() []*Voice {
	return slices.Clone(st.voices)
}

func (st *Staff) RemoveVoice(i int) error {
	if _, err := st.Voice(i); err != nil {
		return err
	}
	st.voices = slices.Delete(st.voices, i, i+1)
	return nil
}

func (st *Staff) SwapVoices(i, j int) error {
	if _, err := st.Voice(i); err != nil {
		return err
	}
	if _, err := st.Voice(j); err != nil {
		return err
	}
	st.voices[i], st.voices[j] = st.voices[j], st.voices[i]
	return nil
}

func (st *Staff) collect(set map[rational.Rational]struct{}) {
	collect(set, st.keys)
	collect(set, st.chords)
	collect(set, st.scales)
	collect(set, st.clefs)
	for _, v := range st.voices {
		v.collect(set)
	}
}

// Rhythm is the sorted union of the attacks that can change this staff's
// delta, meter included.
func (st *Staff) Rhythm() []rational.Rational {
	set := make(map[rational.Rational]struct{})
	collect(set, st.score.meter)
	st.collect(set)
	return sortedTimes(set)
}

// Forward yields the delta at every attack of Rhythm at or after from.
func (st *Staff) Forward(from rational.Rational) iter.Seq[StaffDelta] {
	return func(yield func(StaffDelta) bool) {
		times := st.Rhythm()
		i, _ := slices.BinarySearchFunc(times, from, rational.Rational.Cmp)
		for ; i < len(times); i++ {
			if !yield(st.DeltaAt(times[i])) {
				return
			}
		}
	}
}

// Backward yields the delta at every attack of Rhythm at or before from,
// latest first.
func (st *Staff) Backward(from rational.Rational) iter.Seq[StaffDelta] {
	return func(yield func(StaffDelta) bool) {
		times := st.Rhythm()
		i, found := slices.BinarySearchFunc(times, from, rational.Rational.Cmp)
		if !found {
			i--
		}
		for ; i >= 0; i-- {
			if !yield(st.DeltaAt(times[i])) {
				return
			}
		}
	}
}
