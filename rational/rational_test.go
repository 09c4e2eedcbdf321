package rational

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroDenominatorFails(t *testing.T) {
	_, err := New(1, 0)
	assert.ErrorIs(t, err, ErrInvalidRational)
}

func TestReducedFormIsCanonical(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(MustNew(1, 2), MustNew(2, 4))
	assert.True(MustNew(1, 2) == MustNew(-3, -6))
	assert.Equal(MustNew(-1, 2), MustNew(1, -2))
	assert.Equal(Zero, MustNew(0, 7))
	assert.Equal(int64(1), Zero.Den())

	seen := map[Rational]bool{MustNew(2, 4): true}
	assert.True(seen[MustNew(1, 2)])
}

func TestPlusMinusRoundTrip(t *testing.T) {
	values := []Rational{
		Zero, One, MustNew(1, 3), MustNew(-5, 8), MustNew(7, 12), FromInt(-4),
	}
	for _, a := range values {
		for _, b := range values {
			t.Run(fmt.Sprintf("%v,%v", a, b), func(t *testing.T) {
				assert.Equal(t, a, a.Plus(b).Minus(b))
			})
		}
	}
}

func TestArithmetic(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(MustNew(5, 6), MustNew(1, 2).Plus(MustNew(1, 3)))
	assert.Equal(MustNew(1, 6), MustNew(1, 2).Minus(MustNew(1, 3)))
	assert.Equal(MustNew(3, 8), MustNew(3, 4).Times(MustNew(1, 2)))
	assert.Equal(MustNew(-1, 4), MustNew(1, 4).Neg())

	q, err := MustNew(3, 4).Div(MustNew(3, 8))
	require.NoError(t, err)
	assert.Equal(FromInt(2), q)

	_, err = One.Div(Zero)
	assert.ErrorIs(err, ErrInvalidRational)
}

func TestOrdering(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-1, MustNew(1, 3).Cmp(MustNew(1, 2)))
	assert.Equal(1, MustNew(-1, 3).Cmp(MustNew(-1, 2)))
	assert.Equal(0, MustNew(2, 6).Cmp(MustNew(1, 3)))
	assert.True(MustNew(-1, 4).Less(Zero))
	assert.Equal(MustNew(1, 3), Min(MustNew(1, 2), MustNew(1, 3)))
	assert.Equal(MustNew(1, 2), Max(MustNew(1, 2), MustNew(1, 3)))
}

func TestFloorAndFloat(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(int64(1), MustNew(3, 2).Floor())
	assert.Equal(int64(-2), MustNew(-3, 2).Floor())
	assert.Equal(int64(-1), FromInt(-1).Floor())
	assert.InDelta(0.375, MustNew(3, 8).Float64(), 1e-12)
}

func TestParseAndString(t *testing.T) {
	cases := map[string]Rational{
		"3/2":   MustNew(3, 2),
		" 4 ":   FromInt(4),
		"-2/8":  MustNew(-1, 4),
		"0/5":   Zero,
		"6 / 4": MustNew(3, 2),
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("1/0")
	assert.ErrorIs(t, err, ErrInvalidRational)
	_, err = Parse("x")
	assert.Error(t, err)

	assert.Equal(t, "3/2", MustNew(3, 2).String())
	assert.Equal(t, "-1", FromInt(-1).String())
}

func TestTextMarshaling(t *testing.T) {
	var r Rational
	require.NoError(t, r.UnmarshalText([]byte("5/10")))
	assert.Equal(t, MustNew(1, 2), r)
	b, err := r.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1/2", string(b))
}

func recoverErr(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}

func TestLargeDenominatorsStayExact(t *testing.T) {
	assert := assert.New(t)

	c := MustNew(3, 1<<31+1)
	d := MustNew(1, 1<<31+3)
	assert.Equal(c, c.Plus(d).Minus(d))
	assert.Equal(d, d.Minus(c).Plus(c))

	// intermediate products overflow, the result does not
	assert.Equal(MustNew(6148914691236517205, 2), MustNew(math.MaxInt64, 3).Plus(MustNew(1, 6)))
	assert.Equal(One, MustNew(1<<62, 3).Times(MustNew(3, 1<<62)))
	q, err := MustNew(1<<62, 3).Div(MustNew(1<<62, 3))
	require.NoError(t, err)
	assert.Equal(One, q)

	assert.Equal(1, MustNew(math.MaxInt64, 3).Cmp(MustNew(math.MaxInt64-1, 3)))
	assert.Equal(-1, MustNew(1, 1<<32+3).Cmp(MustNew(1, 1<<32+1)))
	assert.Equal(1, MustNew(1<<40, 1<<32+1).Cmp(MustNew(1<<40, 1<<32+3)))
}

func TestUnrepresentableResultPanics(t *testing.T) {
	err := recoverErr(func() {
		MustNew(1, 1<<32+1).Plus(MustNew(1, 1<<32+3))
	})
	assert.ErrorIs(t, err, ErrOverflow)

	err = recoverErr(func() {
		MustNew(1, 1<<40).Times(MustNew(1, 1<<40+1))
	})
	assert.ErrorIs(t, err, ErrOverflow)

	err = recoverErr(func() {
		FromInt(math.MinInt64).Neg()
	})
	assert.ErrorIs(t, err, ErrOverflow)
}
