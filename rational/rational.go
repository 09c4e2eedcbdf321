// Package rational implements exact fractions used as the time coordinate of
// every timeline. Time is measured in whole notes: 1/4 is a quarter note.
package rational

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	"github.com/jsphweid/harmonline/util"
)

var (
	ErrInvalidRational = errors.New("rational: zero denominator")
	ErrOverflow        = errors.New("rational: result does not fit in int64")
)

// Rational is an immutable fraction kept in lowest terms with a positive
// denominator. The zero value is 0/1. Equal values have equal
// representations, so Rationals can be compared with == and used as map keys.
type Rational struct {
	num int64
	// denominator minus one, so the zero value reads as 0/1
	denm1 int64
}

var (
	Zero = Rational{}
	One  = FromInt(1)
)

func New(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, fmt.Errorf("%d/%d: %w", num, den, ErrInvalidRational)
	}
	return reduced(num, den), nil
}

// MustNew is New for constant arguments; it panics on a zero denominator.
func MustNew(num, den int64) Rational {
	r, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

func FromInt(n int64) Rational {
	return Rational{num: n}
}

func reduced(num, den int64) Rational {
	if den < 0 {
		num, den = -num, -den
	}
	if g := util.GCD(num, den); g > 1 {
		num /= g
		den /= g
	}
	if num == 0 {
		den = 1
	}
	return Rational{num: num, denm1: den - 1}
}

// Parse accepts "n", "n/d" and surrounding whitespace.
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	numStr, denStr, hasDen := strings.Cut(s, "/")
	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse rational %q: %w", s, err)
	}
	if !hasDen {
		return FromInt(num), nil
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse rational %q: %w", s, err)
	}
	return New(num, den)
}

func (r Rational) Num() int64 { return r.num }
func (r Rational) Den() int64 { return r.denm1 + 1 }

// Arithmetic that outgrows int64 part way through is redone with math/big.
// A result that still does not fit panics with ErrOverflow.

func (r Rational) Plus(o Rational) Rational {
	if res, ok := r.sum(o, 1); ok {
		return res
	}
	return fromBig(new(big.Rat).Add(r.big(), o.big()), "+", r, o)
}

func (r Rational) Minus(o Rational) Rational {
	if res, ok := r.sum(o, -1); ok {
		return res
	}
	return fromBig(new(big.Rat).Sub(r.big(), o.big()), "-", r, o)
}

func (r Rational) Times(o Rational) Rational {
	// cross-reduce first so the products stay small
	g1 := util.GCD(r.num, o.Den())
	g2 := util.GCD(o.num, r.Den())
	num, ok1 := mul(r.num/g1, o.num/g2)
	den, ok2 := mul(r.Den()/g2, o.Den()/g1)
	if ok1 && ok2 {
		return reduced(num, den)
	}
	return fromBig(new(big.Rat).Mul(r.big(), o.big()), "*", r, o)
}

func (r Rational) Div(o Rational) (Rational, error) {
	if o.num == 0 {
		return Rational{}, fmt.Errorf("%v / %v: %w", r, o, ErrInvalidRational)
	}
	if o.num == math.MinInt64 {
		return fromBig(new(big.Rat).Quo(r.big(), o.big()), "/", r, o), nil
	}
	inv := reduced(o.Den(), o.num)
	return r.Times(inv), nil
}

func (r Rational) Neg() Rational {
	if r.num == math.MinInt64 {
		panic(fmt.Errorf("-(%v): %w", r, ErrOverflow))
	}
	return Rational{num: -r.num, denm1: r.denm1}
}

// Cmp returns -1, 0 or +1. It is exact for every pair of values.
func (r Rational) Cmp(o Rational) int {
	lhs, ok1 := mul(r.num, o.Den())
	rhs, ok2 := mul(o.num, r.Den())
	if !ok1 || !ok2 {
		return r.big().Cmp(o.big())
	}
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	}
	return 0
}

// sum adds sign*o to r over the least common denominator, reporting false
// when an intermediate value overflows.
func (r Rational) sum(o Rational, sign int64) (Rational, bool) {
	g := util.GCD(r.Den(), o.Den())
	rf, of := o.Den()/g, r.Den()/g
	a, ok1 := mul(r.num, rf)
	b, ok2 := mul(o.num, of)
	den, ok3 := mul(r.Den(), rf)
	if !ok1 || !ok2 || !ok3 || b == math.MinInt64 {
		return Rational{}, false
	}
	num, ok := add(a, sign*b)
	if !ok {
		return Rational{}, false
	}
	return reduced(num, den), true
}

func (r Rational) big() *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(r.num), big.NewInt(r.Den()))
}

// fromBig converts x back, panicking with ErrOverflow when it does not fit.
func fromBig(x *big.Rat, op string, r, o Rational) Rational {
	num, den := x.Num(), x.Denom()
	if !num.IsInt64() || !den.IsInt64() || num.Int64() == math.MinInt64 {
		panic(fmt.Errorf("%v %s %v: %w", r, op, o, ErrOverflow))
	}
	return reduced(num.Int64(), den.Int64())
}

// mul multiplies, reporting false on overflow or a MinInt64 result. The
// magnitude of MinInt64 wraps to itself, which as uint64 is still right.
func mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(uint64(util.Abs(a)), uint64(util.Abs(b)))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	if (a < 0) != (b < 0) {
		return -int64(lo), true
	}
	return int64(lo), true
}

func add(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) || c == math.MinInt64 {
		return 0, false
	}
	return c, true
}

func (r Rational) Less(o Rational) bool  { return r.Cmp(o) < 0 }
func (r Rational) Equal(o Rational) bool { return r == o }

func (r Rational) Sign() int {
	switch {
	case r.num < 0:
		return -1
	case r.num > 0:
		return 1
	}
	return 0
}

// Floor returns the greatest integer not above r.
func (r Rational) Floor() int64 {
	return util.FloorDiv(r.num, r.Den())
}

// Float64 is lossy; it is meant for the rendering boundary only.
func (r Rational) Float64() float64 {
	return float64(r.num) / float64(r.Den())
}

func (r Rational) String() string {
	if r.Den() == 1 {
		return strconv.FormatInt(r.num, 10)
	}
	return fmt.Sprintf("%d/%d", r.num, r.Den())
}

// MarshalText renders the same form Parse reads, so Rationals can appear in
// JSON and YAML output.
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rational) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func Min(a, b Rational) Rational {
	if b.Less(a) {
		return b
	}
	return a
}

func Max(a, b Rational) Rational {
	if a.Less(b) {
		return b
	}
	return a
}
