package pitch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/harmonline/util"
)

var ErrInvalidNoteName = errors.New("pitch: invalid note name")

// Letter is one of the seven natural note letters, C = 0 through B = 6.
type Letter int

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

const NumLetters = 7

var naturals = [NumLetters]int{0, 2, 4, 5, 7, 9, 11}

// position of each natural on the circle of fifths, C = 0
var letterFifths = [NumLetters]int{0, 2, 4, -1, 1, 3, 5}

func (l Letter) norm() Letter {
	return Letter(util.FloorMod(int(l), NumLetters))
}

func (l Letter) String() string {
	return string("CDEFGAB"[l.norm()])
}

// Natural is the 12-step pitch class of the unaltered letter.
func (l Letter) Natural() int {
	return naturals[l.norm()]
}

// Step moves n positions along C D E F G A B, wrapping.
func (l Letter) Step(n int) Letter {
	return Letter(int(l) + n).norm()
}

// Accidental renders a signed accidental count: 1 "#", 2 "##", -1 "b", -2 "bb".
func Accidental(n int) string {
	switch {
	case n > 0:
		return strings.Repeat("#", n)
	case n < 0:
		return strings.Repeat("b", -n)
	}
	return ""
}

func Name(l Letter, accidentals int) string {
	return l.String() + Accidental(accidentals)
}

// ParseName reads names like "C", "bb", "F#", "Ebb" and "Fx".
func ParseName(s string) (Letter, int, error) {
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty", ErrInvalidNoteName)
	}
	idx := strings.IndexByte("CDEFGAB", strings.ToUpper(s[:1])[0])
	if idx < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNoteName, s)
	}
	acc := 0
	for _, r := range s[1:] {
		switch r {
		case '#':
			acc++
		case 'x':
			acc += 2
		case 'b':
			acc--
		default:
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNoteName, s)
		}
	}
	return Letter(idx), acc, nil
}

// ClassOf is the 12-step pitch class a spelled name sounds.
func ClassOf(l Letter, accidentals int) int {
	return util.FloorMod(l.Natural()+accidentals, 12)
}

// ClassOfName parses name and returns its pitch class.
func ClassOfName(name string) (int, error) {
	l, acc, err := ParseName(name)
	if err != nil {
		return 0, err
	}
	return ClassOf(l, acc), nil
}

// Fifths is the signed circle-of-fifths position of a spelled name: C 0,
// G 1, F -1, Bb -2, F# 6.
func Fifths(l Letter, accidentals int) int {
	return letterFifths[l.norm()] + 7*accidentals
}

// AccidentalsFor is the signed accidental count that makes letter l sound
// class pc, chosen in [-5, 6].
func AccidentalsFor(l Letter, pc int) int {
	diff := util.FloorMod(pc-l.Natural(), 12)
	if diff > 6 {
		diff -= 12
	}
	return diff
}

// TryName spells class pc under letter l with the fewest accidentals. It
// reports false when that needs more than one accidental, or more than two
// with allowDouble.
func TryName(l Letter, pc int, allowDouble bool) (string, bool) {
	acc := AccidentalsFor(l, pc)
	limit := 1
	if allowDouble {
		limit = 2
	}
	if util.Abs(acc) > limit {
		return "", false
	}
	return Name(l, acc), true
}
