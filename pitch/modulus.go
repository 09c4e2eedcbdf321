// Package pitch holds integer pitch arithmetic: the octave modulus that folds
// pitches into pitch classes, and the seven-letter naming used to spell them.
//
// Pitches are semitone offsets from middle C (0). A pitch class is a pitch
// reduced into [0, OctaveSteps).
package pitch

import (
	"errors"
	"fmt"

	"github.com/jsphweid/harmonline/util"
)

var ErrUnsupportedModulus = errors.New("pitch: letter naming requires a 12-step modulus")

// Modulus is the number of distinct pitch classes in an octave.
type Modulus struct {
	OctaveSteps int
}

// Default is the twelve-tone equal-tempered octave.
var Default = Modulus{OctaveSteps: 12}

func NewModulus(steps int) (Modulus, error) {
	if steps <= 0 {
		return Modulus{}, fmt.Errorf("pitch: octave steps must be positive, got %d", steps)
	}
	return Modulus{OctaveSteps: steps}, nil
}

// steps treats the zero Modulus as Default.
func (m Modulus) steps() int {
	if m.OctaveSteps <= 0 {
		return Default.OctaveSteps
	}
	return m.OctaveSteps
}

func (m Modulus) Steps() int { return m.steps() }

func (m Modulus) Class(p int) int {
	return util.FloorMod(p, m.steps())
}

// Octave is p / steps rounded down, so pitches below middle C have negative
// octaves.
func (m Modulus) Octave(p int) int {
	return util.FloorDiv(p, m.steps())
}

// Up is the ascending interval from class a to class b, in [0, steps).
func (m Modulus) Up(a, b int) int {
	return util.FloorMod(b-a, m.steps())
}

// Distance is the shorter way around the octave between two classes.
func (m Modulus) Distance(a, b int) int {
	up := m.Up(a, b)
	down := m.Up(b, a)
	return util.Min(up, down)
}

// CheckHeptatonic fails unless letter names are defined for m.
func (m Modulus) CheckHeptatonic() error {
	if m.steps() != 12 {
		return fmt.Errorf("%d steps: %w", m.steps(), ErrUnsupportedModulus)
	}
	return nil
}
