// Package spell assigns letter names to pitch sets, either from a key or by
// carrying the spelling of an adjacent, already named set across a
// harmonic transition.
package spell

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/pitch"
)

var ErrUnspellableMotion = errors.New("spell: no valid spelling for motion")

// FillNames names every pitch of target relative to reference, which must
// already be named. Classes shared with the reference keep the reference's
// name. Any other class takes the letter one step away from its nearest
// reference neighbour, moving up from the neighbour below or down from the
// neighbour above. Targets that already carry names are left alone.
//
// Names are installed only when every pitch could be spelled.
func FillNames(target, reference *model.PitchSet, m pitch.Modulus) error {
	if err := m.CheckHeptatonic(); err != nil {
		return err
	}
	if target.HasNoteNames() {
		return nil
	}

	refNames := make(map[int]pitch.Letter)
	refSpelled := make(map[int]string)
	for _, p := range reference.Pitches() {
		name, ok := reference.NameOf(p)
		if !ok {
			continue
		}
		name = stripOctave(name)
		l, _, err := pitch.ParseName(name)
		if err != nil {
			return fmt.Errorf("%w: reference %s", ErrUnspellableMotion, err)
		}
		pc := m.Class(p)
		refNames[pc] = l
		refSpelled[pc] = name
	}
	if len(refNames) == 0 {
		return fmt.Errorf("%w: reference has no names", ErrUnspellableMotion)
	}
	refClasses := make([]int, 0, len(refNames))
	for pc := range refNames {
		refClasses = append(refClasses, pc)
	}
	slices.Sort(refClasses)

	byClass := make(map[int]string)
	taken := make(map[pitch.Letter]bool)
	var open []openClass
	for _, pc := range classesOf(target, m) {
		if name, ok := refSpelled[pc]; ok {
			byClass[pc] = name
			taken[refNames[pc]] = true
			continue
		}
		from, dir := neighbour(refClasses, pc)
		cands := candidates(refNames[from].Step(dir), dir, pc)
		if len(cands) == 0 {
			return fmt.Errorf("%w: class %d from %s", ErrUnspellableMotion, pc, refSpelled[from])
		}
		open = append(open, openClass{pc: pc, cands: cands})
	}

	picks, ok := distinctLetters(open, taken)
	if !ok {
		picks = greedyLetters(open, taken)
	}
	for i, oc := range open {
		byClass[oc.pc] = picks[i].name
	}
	return install(target, m, byClass)
}

// FillChordNames spells c against an already named ref.
func FillChordNames(c, ref *model.Chord) error {
	return FillNames(c.Set(), ref.Set(), c.Modulus())
}

// FillNamesFromKey names every pitch of target by the key's own rule.
func FillNamesFromKey(target *model.PitchSet, key *model.Key) error {
	if target.HasNoteNames() {
		return nil
	}
	m := key.Modulus()
	byClass := make(map[int]string)
	for _, pc := range classesOf(target, m) {
		name, err := key.NoteName(pc)
		if err != nil {
			return err
		}
		byClass[pc] = name
	}
	return install(target, m, byClass)
}

func FillChordFromKey(c *model.Chord, key *model.Key) error {
	return FillNamesFromKey(c.Set(), key)
}

// NameWithOctave appends the octave of p to a pitch-class name, counting
// middle C's octave as 4.
func NameWithOctave(name string, p int, m pitch.Modulus) string {
	return fmt.Sprintf("%s%d", stripOctave(name), m.Octave(p)+4)
}

func classesOf(s *model.PitchSet, m pitch.Modulus) []int {
	var classes []int
	for _, p := range s.Pitches() {
		classes = append(classes, m.Class(p))
	}
	slices.Sort(classes)
	return slices.Compact(classes)
}

func install(target *model.PitchSet, m pitch.Modulus, byClass map[int]string) error {
	pitches := target.Pitches()
	names := make([]string, len(pitches))
	for i, p := range pitches {
		names[i] = byClass[m.Class(p)]
	}
	return target.SetNoteNames(names)
}

// neighbour picks the reference class to step from and the letter
// direction. refClasses is sorted and never contains pc. Neighbours are
// searched within one octave without wrapping; on equal distance the upper
// one wins.
func neighbour(refClasses []int, pc int) (from, dir int) {
	i, _ := slices.BinarySearch(refClasses, pc)
	hasFloor, hasCeiling := i > 0, i < len(refClasses)
	switch {
	case !hasCeiling:
		return refClasses[i-1], 1
	case !hasFloor:
		return refClasses[i], -1
	}
	floor, ceiling := refClasses[i-1], refClasses[i]
	if pc-floor < ceiling-pc {
		return floor, 1
	}
	return ceiling, -1
}

type candidate struct {
	letter pitch.Letter
	name   string
}

type openClass struct {
	pc    int
	cands []candidate
}

// candidates lists the single-accidental names of pc, starting at letter
// start and moving by dir through all seven letters.
func candidates(start pitch.Letter, dir, pc int) []candidate {
	var res []candidate
	for i := 0; i < pitch.NumLetters; i++ {
		l := start.Step(i * dir)
		if name, ok := pitch.TryName(l, pc, false); ok {
			res = append(res, candidate{letter: l, name: name})
		}
	}
	return res
}

// distinctLetters searches, classes in order and candidates in order, for a
// pick per class whose letters differ from each other and from taken.
func distinctLetters(open []openClass, taken map[pitch.Letter]bool) ([]candidate, bool) {
	used := maps.Clone(taken)
	if len(open)+len(used) > pitch.NumLetters {
		return nil, false
	}
	picks := make([]candidate, len(open))
	var walk func(i int) bool
	walk = func(i int) bool {
		if i == len(open) {
			return true
		}
		for _, c := range open[i].cands {
			if used[c.letter] {
				continue
			}
			used[c.letter] = true
			picks[i] = c
			if walk(i + 1) {
				return true
			}
			delete(used, c.letter)
		}
		return false
	}
	return picks, walk(0)
}

// greedyLetters picks, class by class, the first candidate whose letter is
// still free, or the first candidate when none is.
func greedyLetters(open []openClass, taken map[pitch.Letter]bool) []candidate {
	used := maps.Clone(taken)
	picks := make([]candidate, len(open))
	for i, oc := range open {
		picks[i] = oc.cands[0]
		for _, c := range oc.cands {
			if !used[c.letter] {
				picks[i] = c
				break
			}
		}
		used[picks[i].letter] = true
	}
	return picks
}

func stripOctave(name string) string {
	return strings.TrimRight(name, "-0123456789")
}
