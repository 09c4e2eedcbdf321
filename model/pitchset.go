package model

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/jsphweid/harmonline/rational"
)

// PitchSet is a set of absolute pitches, middle C = 0, kept in ascending
// order. It optionally caches one spelled name per pitch and the tie
// sub-onsets used by renderers.
type PitchSet struct {
	pitches   []int
	noteNames []string
	subPulses []rational.Rational
}

func NewPitchSet(pitches ...int) *PitchSet {
	s := &PitchSet{}
	for _, p := range pitches {
		s.Add(p)
	}
	return s
}

func (*PitchSet) Kind() Kind { return KindPitchSet }

func (s *PitchSet) index(p int) (int, bool) {
	i := sort.SearchInts(s.pitches, p)
	return i, i < len(s.pitches) && s.pitches[i] == p
}

// Add inserts p and reports whether the set changed. Any cached names are
// dropped when it does.
func (s *PitchSet) Add(p int) bool {
	i, found := s.index(p)
	if found {
		return false
	}
	s.pitches = slices.Insert(s.pitches, i, p)
	s.noteNames = nil
	return true
}

func (s *PitchSet) Remove(p int) bool {
	i, found := s.index(p)
	if !found {
		return false
	}
	s.pitches = slices.Delete(s.pitches, i, i+1)
	s.noteNames = nil
	return true
}

func (s *PitchSet) Contains(p int) bool {
	_, found := s.index(p)
	return found
}

func (s *PitchSet) Len() int { return len(s.pitches) }

// Pitches returns a copy in ascending order.
func (s *PitchSet) Pitches() []int {
	return slices.Clone(s.pitches)
}

func (s *PitchSet) Lowest() (int, bool) {
	if len(s.pitches) == 0 {
		return 0, false
	}
	return s.pitches[0], true
}

// NoteNames returns the cached names, or nil when none are set.
func (s *PitchSet) NoteNames() []string {
	return slices.Clone(s.noteNames)
}

func (s *PitchSet) HasNoteNames() bool { return s.noteNames != nil }

// SetNoteNames installs one name per pitch in ascending order; nil clears
// the cache.
func (s *PitchSet) SetNoteNames(names []string) error {
	if names == nil {
		s.noteNames = nil
		return nil
	}
	if len(names) != len(s.pitches) {
		return fmt.Errorf("model: %d note names for %d pitches", len(names), len(s.pitches))
	}
	s.noteNames = slices.Clone(names)
	return nil
}

// NameOf returns the cached name of pitch p.
func (s *PitchSet) NameOf(p int) (string, bool) {
	i, found := s.index(p)
	if !found || s.noteNames == nil {
		return "", false
	}
	return s.noteNames[i], true
}

// AddSubPulse marks a tie sub-onset at t.
func (s *PitchSet) AddSubPulse(t rational.Rational) {
	i := sort.Search(len(s.subPulses), func(i int) bool {
		return !s.subPulses[i].Less(t)
	})
	if i < len(s.subPulses) && s.subPulses[i] == t {
		return
	}
	s.subPulses = slices.Insert(s.subPulses, i, t)
}

func (s *PitchSet) SubPulses() []rational.Rational {
	return slices.Clone(s.subPulses)
}

func (s *PitchSet) Clone() *PitchSet {
	return &PitchSet{
		pitches:   slices.Clone(s.pitches),
		noteNames: slices.Clone(s.noteNames),
		subPulses: slices.Clone(s.subPulses),
	}
}

// Equal compares membership only.
func (s *PitchSet) Equal(o *PitchSet) bool {
	return slices.Equal(s.pitches, o.pitches)
}

func (s *PitchSet) String() string {
	parts := make([]string, len(s.pitches))
	for i, p := range s.pitches {
		if s.noteNames != nil {
			parts[i] = fmt.Sprintf("%d:%s", p, s.noteNames[i])
		} else {
			parts[i] = fmt.Sprint(p)
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}
