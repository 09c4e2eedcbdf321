package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/harmonline/pitch"
)

var ErrRootMismatch = errors.New("model: key root name does not match root class")

var (
	majorSteps = []int{0, 2, 4, 5, 7, 9, 11}
	minorSteps = []int{0, 2, 3, 5, 7, 8, 10}

	majorByFifths = []string{"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#"}
	minorByFifths = []string{"Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#"}
)

// Key is a Scale that knows the spelled name of its root, which lets it
// name every class unambiguously.
type Key struct {
	Scale
	rootLetter pitch.Letter
	rootAcc    int
}

// NewKey builds a key on a 12-step modulus from a root name and the scale's
// intervals above the root.
func NewKey(rootName string, intervals ...int) (*Key, error) {
	letter, acc, err := pitch.ParseName(rootName)
	if err != nil {
		return nil, err
	}
	root := pitch.ClassOf(letter, acc)
	k := &Key{rootLetter: letter, rootAcc: acc}
	k.modulus = pitch.Default
	for _, iv := range intervals {
		k.Add(root + iv)
	}
	k.Add(root)
	k.SetRoot(root)
	return k, nil
}

func NewMajorKey(rootName string) (*Key, error) {
	return NewKey(rootName, majorSteps...)
}

func NewMinorKey(rootName string) (*Key, error) {
	return NewKey(rootName, minorSteps...)
}

// ParseKey reads "C", "Bb" or "F#" as a major key and a trailing "m", as
// in "Am" or "Ebm", as minor.
func ParseKey(name string) (*Key, error) {
	if len(name) > 1 && strings.HasSuffix(name, "m") {
		return NewMinorKey(strings.TrimSuffix(name, "m"))
	}
	return NewMajorKey(name)
}

// KeyFromFifths builds the key with the given signature, -7 (seven flats)
// through 7 (seven sharps).
func KeyFromFifths(fifths int, major bool) (*Key, error) {
	if fifths < -7 || fifths > 7 {
		return nil, fmt.Errorf("model: key signature %d out of range", fifths)
	}
	if major {
		return NewMajorKey(majorByFifths[fifths+7])
	}
	return NewMinorKey(minorByFifths[fifths+7])
}

// DefaultKey is C major, used wherever no reference key is set.
func DefaultKey() *Key {
	k, _ := NewMajorKey("C")
	return k
}

func (*Key) Kind() Kind { return KindKey }

func (k *Key) RootName() string {
	return pitch.Name(k.rootLetter, k.rootAcc)
}

// Name is the root name, suffixed "m" when the key has a minor third.
func (k *Key) Name() string {
	root, _ := k.Root()
	if k.Contains(root+3) && !k.Contains(root+4) {
		return k.RootName() + "m"
	}
	return k.RootName()
}

// SetRootName keeps the root name and root class in agreement.
func (k *Key) SetRootName(name string) error {
	letter, acc, err := pitch.ParseName(name)
	if err != nil {
		return err
	}
	if root, ok := k.Root(); ok && pitch.ClassOf(letter, acc) != root {
		return fmt.Errorf("%s is not class %d: %w", name, root, ErrRootMismatch)
	}
	k.rootLetter, k.rootAcc = letter, acc
	return nil
}

// Validate checks the root name against the root class.
func (k *Key) Validate() error {
	root, ok := k.Root()
	if !ok {
		return fmt.Errorf("key %s has no root: %w", k.RootName(), ErrRootMismatch)
	}
	if pitch.ClassOf(k.rootLetter, k.rootAcc) != root {
		return fmt.Errorf("key %s, root class %d: %w", k.RootName(), root, ErrRootMismatch)
	}
	return nil
}

func (k *Key) Clone() *Key {
	return &Key{Scale: *k.Scale.Clone(), rootLetter: k.rootLetter, rootAcc: k.rootAcc}
}

func (k *Key) prefersFlats() bool {
	return pitch.Fifths(k.rootLetter, k.rootAcc) < 0
}

// NoteName spells class pc. In a seven-note key the letter is found by
// counting scale degrees up from the root along C D E F G A B; classes
// outside the scale take the letter of the degree below (sharp keys) or
// above (flat keys). Other scales spell by nearest letter.
func (k *Key) NoteName(pc int) (string, error) {
	if err := k.modulus.CheckHeptatonic(); err != nil {
		return "", err
	}
	pc = k.modulus.Class(pc)
	root, _ := k.Root()
	if pc == root {
		return k.RootName(), nil
	}

	classes := k.Classes()
	if len(classes) == pitch.NumLetters {
		ivs := make([]int, len(classes))
		for i, c := range classes {
			ivs[i] = k.modulus.Up(root, c)
		}
		sort.Ints(ivs)
		target := k.modulus.Up(root, pc)
		degree := sort.Search(len(ivs), func(i int) bool { return ivs[i] > target }) - 1
		if degree < 0 {
			return k.chromaticName(pc), nil
		}
		if ivs[degree] == target {
			// remote keys need double accidentals on members, e.g. F## in G# major
			if name, ok := pitch.TryName(k.rootLetter.Step(degree), pc, true); ok {
				return name, nil
			}
		} else {
			degrees := []int{degree}
			if degree+1 < len(ivs) {
				if k.prefersFlats() {
					degrees = []int{degree + 1, degree}
				} else {
					degrees = append(degrees, degree+1)
				}
			}
			for _, d := range degrees {
				if name, ok := pitch.TryName(k.rootLetter.Step(d), pc, false); ok {
					return name, nil
				}
			}
		}
	}
	return k.chromaticName(pc), nil
}

func (k *Key) chromaticName(pc int) string {
	for l := pitch.C; l <= pitch.B; l++ {
		if l.Natural() == pc {
			return l.String()
		}
	}
	for l := pitch.C; l <= pitch.B; l++ {
		if k.prefersFlats() && pitch.AccidentalsFor(l, pc) == -1 {
			return pitch.Name(l, -1)
		}
		if !k.prefersFlats() && pitch.AccidentalsFor(l, pc) == 1 {
			return pitch.Name(l, 1)
		}
	}
	// unreachable for 12 steps: every class is a natural or one away from one
	return fmt.Sprint(pc)
}

// NoteNameWithOctave appends the octave number, counting middle C's octave
// as 4.
func (k *Key) NoteNameWithOctave(p int) (string, error) {
	name, err := k.NoteName(p)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", name, k.modulus.Octave(p)+4), nil
}
