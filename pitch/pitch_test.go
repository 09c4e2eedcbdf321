package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassAndOctave(t *testing.T) {
	assert := assert.New(t)
	m := Default
	assert.Equal(0, m.Class(12))
	assert.Equal(11, m.Class(-1))
	assert.Equal(-1, m.Octave(-1))
	assert.Equal(1, m.Octave(13))
	assert.Equal(3, m.Up(7, 10))
	assert.Equal(9, m.Up(10, 7))
	assert.Equal(2, m.Distance(10, 0))
}

func TestZeroModulusActsAsDefault(t *testing.T) {
	var m Modulus
	assert.Equal(t, 12, m.Steps())
	assert.NoError(t, m.CheckHeptatonic())
}

func TestNonTwelveModulusRejectsLetters(t *testing.T) {
	m, err := NewModulus(19)
	require.NoError(t, err)
	assert.ErrorIs(t, m.CheckHeptatonic(), ErrUnsupportedModulus)
	assert.Equal(t, 18, m.Class(-1))

	_, err = NewModulus(0)
	assert.Error(t, err)
}

func TestLetterStep(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(A, G.Step(1))
	assert.Equal(B, C.Step(-1))
	assert.Equal(C, B.Step(1))
	assert.Equal("F", F.String())
}

func TestParseName(t *testing.T) {
	cases := []struct {
		in     string
		letter Letter
		acc    int
		class  int
	}{
		{"C", C, 0, 0},
		{"Bb", B, -1, 10},
		{"f#", F, 1, 6},
		{"Cb", C, -1, 11},
		{"Fx", F, 2, 7},
		{"Ebb", E, -2, 2},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			l, acc, err := ParseName(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.letter, l)
			assert.Equal(t, c.acc, acc)
			assert.Equal(t, c.class, ClassOf(l, acc))
		})
	}

	for _, bad := range []string{"", "H", "C?"} {
		_, _, err := ParseName(bad)
		assert.ErrorIs(t, err, ErrInvalidNoteName, bad)
	}
}

func TestTryName(t *testing.T) {
	assert := assert.New(t)

	name, ok := TryName(A, 10, false)
	assert.True(ok)
	assert.Equal("A#", name)

	name, ok = TryName(B, 10, false)
	assert.True(ok)
	assert.Equal("Bb", name)

	_, ok = TryName(G, 10, false)
	assert.False(ok)

	name, ok = TryName(C, 10, true)
	assert.True(ok)
	assert.Equal("Cbb", name)

	name, ok = TryName(B, 0, false)
	assert.True(ok)
	assert.Equal("B#", name)
}

func TestFifths(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, Fifths(C, 0))
	assert.Equal(-2, Fifths(B, -1))
	assert.Equal(6, Fifths(F, 1))
	assert.Equal(-1, Fifths(F, 0))
}
