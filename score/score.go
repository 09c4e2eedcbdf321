// Package score layers the harmonic timelines of a piece: one shared meter,
// staves with key, chord, scale and clef timelines, and voices with their
// sounding pitch sets.
package score

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/rational"
	"github.com/jsphweid/harmonline/rhythm"
)

var ErrIndexOutOfRange = errors.New("score: index out of range")

type Option func(*Score)

// WithPickup allows attacks up to r before time zero.
func WithPickup(r rational.Rational) Option {
	return func(s *Score) {
		if r.Sign() > 0 {
			s.pickup = r
		}
	}
}

func WithRegistry(reg *model.Registry) Option {
	return func(s *Score) {
		s.registry = reg
	}
}

type Score struct {
	meter    *rhythm.Map[model.TimeSignature]
	staves   []*Staff
	pickup   rational.Rational
	registry *model.Registry
}

func New(opts ...Option) *Score {
	s := &Score{}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = model.NewRegistry()
	}
	s.meter = newTimeline[model.TimeSignature](s)
	return s
}

func newTimeline[V any](s *Score) *rhythm.Map[V] {
	return rhythm.New[V](rhythm.WithLowerBound(s.pickup.Neg()))
}

func (s *Score) Pickup() rational.Rational { return s.pickup }

func (s *Score) Registry() *model.Registry { return s.registry }

// Meter is the time-signature timeline shared by every staff.
func (s *Score) Meter() *rhythm.Map[model.TimeSignature] { return s.meter }

func (s *Score) AddStaff(name string) *Staff {
	st := newStaff(s, name)
	s.staves = append(s.staves, st)
	return st
}

func (s *Score) Staff(i int) (*Staff, error) {
	if i < 0 || i >= len(s.staves) {
		return nil, fmt.Errorf("%w: staff %d of %d", ErrIndexOutOfRange, i, len(s.staves))
	}
	return s.staves[i], nil
}

func (s *Score) Staves() []*Staff {
	return slices.Clone(s.staves)
}

func (s *Score) RemoveStaff(i int) error {
	if _, err := s.Staff(i); err != nil {
		return err
	}
	s.staves = slices.Delete(s.staves, i, i+1)
	return nil
}

func (s *Score) SwapStaves(i, j int) error {
	if _, err := s.Staff(i); err != nil {
		return err
	}
	if _, err := s.Staff(j); err != nil {
		return err
	}
	s.staves[i], s.staves[j] = s.staves[j], s.staves[i]
	return nil
}

// OverallRhythm is the sorted union of every attack in the meter and in all
// staff and voice timelines.
func (s *Score) OverallRhythm() []rational.Rational {
	set := make(map[rational.Rational]struct{})
	collect(set, s.meter)
	for _, st := range s.staves {
		st.collect(set)
	}
	return sortedTimes(set)
}

// Measure locates a time in the meter. The pickup, if any, is measure -1.
type Measure struct {
	Index     int
	Start     rational.Rational
	Signature model.TimeSignature
}

// MeasureAt finds the measure containing t. Without any time signature the
// piece is read in common time; a signature change always starts a new
// measure, cutting short the one it interrupts.
func (s *Score) MeasureAt(t rational.Rational) (Measure, error) {
	ts, ok := s.meter.ValueAt(rational.Zero)
	if !ok {
		ts = model.CommonTime
	}
	if t.Sign() < 0 {
		if t.Less(s.pickup.Neg()) {
			return Measure{}, fmt.Errorf("%w: %s", rhythm.ErrInvalidTime, t)
		}
		return Measure{Index: -1, Start: s.pickup.Neg(), Signature: ts}, nil
	}

	index, start := 0, rational.Zero
	for {
		length := ts.MeasureLength()
		next, hasNext := s.meter.FirstAttackAfter(start)
		if !hasNext || t.Less(next) {
			n := mustDiv(t.Minus(start), length).Floor()
			return Measure{
				Index:     index + int(n),
				Start:     start.Plus(length.Times(rational.FromInt(n))),
				Signature: ts,
			}, nil
		}
		span := mustDiv(next.Minus(start), length)
		n := span.Floor()
		if span != rational.FromInt(n) {
			n++
		}
		index += int(n)
		start = next
		if v, ok := s.meter.ValueAt(next); ok {
			ts = v
		}
	}
}

// mustDiv divides by a measure length, which is never zero.
func mustDiv(a, b rational.Rational) rational.Rational {
	q, err := a.Div(b)
	if err != nil {
		panic(err)
	}
	return q
}

type attackSource interface {
	Keys() iter.Seq[rational.Rational]
}

func collect(set map[rational.Rational]struct{}, m attackSource) {
	for t := range m.Keys() {
		set[t] = struct{}{}
	}
}

func sortedTimes(set map[rational.Rational]struct{}) []rational.Rational {
	times := make([]rational.Rational, 0, len(set))
	for t := range set {
		times = append(times, t)
	}
	slices.SortFunc(times, rational.Rational.Cmp)
	return times
}
