package model

import (
	"slices"

	"github.com/jsphweid/harmonline/pitch"
)

// Chord is a set of pitch classes under a modulus with an optional root.
// Adding 14 to a 12-step chord stores 2; octave-separated pitches are the
// same member.
type Chord struct {
	modulus pitch.Modulus
	classes PitchSet
	root    int
	hasRoot bool
}

func NewChord(m pitch.Modulus, pitches ...int) *Chord {
	c := &Chord{modulus: m}
	c.AddAll(pitches...)
	return c
}

func (*Chord) Kind() Kind { return KindChord }

func (c *Chord) Modulus() pitch.Modulus { return c.modulus }

func (c *Chord) Add(p int) bool {
	return c.classes.Add(c.modulus.Class(p))
}

func (c *Chord) AddAll(pitches ...int) {
	for _, p := range pitches {
		c.Add(p)
	}
}

func (c *Chord) Remove(p int) bool {
	return c.classes.Remove(c.modulus.Class(p))
}

func (c *Chord) Contains(p int) bool {
	return c.classes.Contains(c.modulus.Class(p))
}

func (c *Chord) Len() int { return c.classes.Len() }

// Classes returns the member classes in ascending order.
func (c *Chord) Classes() []int { return c.classes.Pitches() }

// Root returns the root class, which need not be a member.
func (c *Chord) Root() (int, bool) { return c.root, c.hasRoot }

func (c *Chord) SetRoot(p int) {
	c.root = c.modulus.Class(p)
	c.hasRoot = true
}

func (c *Chord) ClearRoot() { c.hasRoot = false }

// Set exposes the class set, whose name cache holds the chord's spelling.
func (c *Chord) Set() *PitchSet { return &c.classes }

func (c *Chord) NoteNames() []string { return c.classes.NoteNames() }

// NameOf returns the spelled name of p's class.
func (c *Chord) NameOf(p int) (string, bool) {
	return c.classes.NameOf(c.modulus.Class(p))
}

func (c *Chord) Clone() *Chord {
	out := *c
	out.classes = *c.classes.Clone()
	return &out
}

func (c *Chord) Equal(o *Chord) bool {
	return c.modulus.Steps() == o.modulus.Steps() &&
		c.hasRoot == o.hasRoot &&
		(!c.hasRoot || c.root == o.root) &&
		slices.Equal(c.classes.pitches, o.classes.pitches)
}

func (c *Chord) String() string { return c.classes.String() }

// Scale is a Chord holding a scale's classes; it differs only in its Kind.
type Scale struct {
	Chord
}

func NewScale(m pitch.Modulus, pitches ...int) *Scale {
	s := &Scale{}
	s.modulus = m
	s.AddAll(pitches...)
	return s
}

func (*Scale) Kind() Kind { return KindScale }

func (s *Scale) Clone() *Scale {
	return &Scale{Chord: *s.Chord.Clone()}
}

// Chromatic is the scale holding every class of m.
func Chromatic(m pitch.Modulus) *Scale {
	s := NewScale(m)
	for p := 0; p < m.Steps(); p++ {
		s.Add(p)
	}
	return s
}
