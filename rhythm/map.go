// Package rhythm provides Map, the sparse step-function timeline every
// musical attribute is stored in. A value put at time t holds until the next
// key; there is no interpolation.
package rhythm

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/jsphweid/harmonline/rational"
)

var ErrInvalidTime = errors.New("rhythm: time before timeline lower bound")

type entry[V any] struct {
	at    rational.Rational
	value V
	// end marks a removal attack: nothing holds from here on
	end bool
}

// Map is an ordered mapping from time to V with "last attack" reads.
type Map[V any] struct {
	entries []entry[V]
	lower   rational.Rational
	bounded bool
	version uint64
}

type Option func(*options)

type options struct {
	lower   rational.Rational
	bounded bool
}

// WithLowerBound rejects attacks earlier than r.
func WithLowerBound(r rational.Rational) Option {
	return func(o *options) {
		o.lower = r
		o.bounded = true
	}
}

func New[V any](opts ...Option) *Map[V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Map[V]{lower: o.lower, bounded: o.bounded}
}

func (m *Map[V]) Len() int { return len(m.entries) }

// Version changes on every mutation.
func (m *Map[V]) Version() uint64 { return m.version }

// search returns the index of the first entry at or after t.
func (m *Map[V]) search(t rational.Rational) int {
	return sort.Search(len(m.entries), func(i int) bool {
		return !m.entries[i].at.Less(t)
	})
}

// upper returns the index of the first entry strictly after t.
func (m *Map[V]) upper(t rational.Rational) int {
	return sort.Search(len(m.entries), func(i int) bool {
		return t.Less(m.entries[i].at)
	})
}

func (m *Map[V]) check(t rational.Rational) error {
	if m.bounded && t.Less(m.lower) {
		return fmt.Errorf("put at %v, lower bound %v: %w", t, m.lower, ErrInvalidTime)
	}
	return nil
}

func (m *Map[V]) set(e entry[V]) (prev V, had bool) {
	m.version++
	i := m.search(e.at)
	if i < len(m.entries) && m.entries[i].at == e.at {
		old := m.entries[i]
		m.entries[i] = e
		if old.end {
			return prev, false
		}
		return old.value, true
	}
	m.entries = append(m.entries, entry[V]{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = e
	return prev, false
}

// Put stores v at t and returns the value previously attacked exactly at t.
func (m *Map[V]) Put(t rational.Rational, v V) (prev V, had bool, err error) {
	if err := m.check(t); err != nil {
		return prev, false, err
	}
	prev, had = m.set(entry[V]{at: t, value: v})
	return prev, had, nil
}

// PutEnd stores a removal attack at t: ValueAt reports nothing from t until
// the next key.
func (m *Map[V]) PutEnd(t rational.Rational) error {
	if err := m.check(t); err != nil {
		return err
	}
	m.set(entry[V]{at: t, end: true})
	return nil
}

// Remove deletes the key at t entirely, so the previous attack holds through.
func (m *Map[V]) Remove(t rational.Rational) (prev V, had bool) {
	i := m.search(t)
	if i >= len(m.entries) || m.entries[i].at != t {
		return prev, false
	}
	m.version++
	old := m.entries[i]
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	if old.end {
		return prev, false
	}
	return old.value, true
}

// ValueAt returns the value of the greatest key <= t.
func (m *Map[V]) ValueAt(t rational.Rational) (v V, ok bool) {
	i := m.upper(t) - 1
	if i < 0 || m.entries[i].end {
		return v, false
	}
	return m.entries[i].value, true
}

// ChangeAt returns the value only when a key is exactly t.
func (m *Map[V]) ChangeAt(t rational.Rational) (v V, ok bool) {
	i := m.search(t)
	if i >= len(m.entries) || m.entries[i].at != t || m.entries[i].end {
		return v, false
	}
	return m.entries[i].value, true
}

// IsEndAt reports whether a removal attack sits exactly at t.
func (m *Map[V]) IsEndAt(t rational.Rational) bool {
	i := m.search(t)
	return i < len(m.entries) && m.entries[i].at == t && m.entries[i].end
}

// HasAttackAt reports any key, value or end, exactly at t.
func (m *Map[V]) HasAttackAt(t rational.Rational) bool {
	i := m.search(t)
	return i < len(m.entries) && m.entries[i].at == t
}

func (m *Map[V]) LastAttackBefore(t rational.Rational) (rational.Rational, bool) {
	i := m.search(t) - 1
	if i < 0 {
		return rational.Rational{}, false
	}
	return m.entries[i].at, true
}

// LastAttackAtOrBefore is the key whose value ValueAt(t) reads.
func (m *Map[V]) LastAttackAtOrBefore(t rational.Rational) (rational.Rational, bool) {
	i := m.upper(t) - 1
	if i < 0 {
		return rational.Rational{}, false
	}
	return m.entries[i].at, true
}

func (m *Map[V]) FirstAttackAfter(t rational.Rational) (rational.Rational, bool) {
	i := m.upper(t)
	if i >= len(m.entries) {
		return rational.Rational{}, false
	}
	return m.entries[i].at, true
}

func (m *Map[V]) FirstAttackAtOrAfter(t rational.Rational) (rational.Rational, bool) {
	i := m.search(t)
	if i >= len(m.entries) {
		return rational.Rational{}, false
	}
	return m.entries[i].at, true
}

// KeysInRange yields keys in [lo, hi) in ascending order. The sequence reads
// the map lazily and can be ranged over more than once.
func (m *Map[V]) KeysInRange(lo, hi rational.Rational) iter.Seq[rational.Rational] {
	return func(yield func(rational.Rational) bool) {
		for i := m.search(lo); i < len(m.entries); i++ {
			at := m.entries[i].at
			if !at.Less(hi) {
				return
			}
			if !yield(at) {
				return
			}
		}
	}
}

// Keys yields every key, end markers included, in ascending order.
func (m *Map[V]) Keys() iter.Seq[rational.Rational] {
	return func(yield func(rational.Rational) bool) {
		for i := 0; i < len(m.entries); i++ {
			if !yield(m.entries[i].at) {
				return
			}
		}
	}
}

// All yields (key, value) for every value attack, skipping end markers.
func (m *Map[V]) All() iter.Seq2[rational.Rational, V] {
	return func(yield func(rational.Rational, V) bool) {
		for i := 0; i < len(m.entries); i++ {
			if m.entries[i].end {
				continue
			}
			if !yield(m.entries[i].at, m.entries[i].value) {
				return
			}
		}
	}
}

func (m *Map[V]) keyAt(i int) (rational.Rational, bool) {
	if i < 0 || i >= len(m.entries) {
		return rational.Rational{}, false
	}
	return m.entries[i].at, true
}

// Cursor walks the keys of a Map in ascending order, remembering its
// position between calls. It is invalidated by any mutation of the map and
// restarts cold when that happens.
type Cursor[V any] struct {
	m       *Map[V]
	idx     int
	version uint64
	last    rational.Rational
	warm    bool
}

func (m *Map[V]) Cursor() *Cursor[V] {
	return &Cursor[V]{m: m}
}

// Peek returns the first key strictly after t. When t equals the time of the
// previous Peek or Advance and the map is unchanged, the cached position is
// reused instead of searching.
func (c *Cursor[V]) Peek(t rational.Rational) (rational.Rational, bool) {
	if !c.warm || c.version != c.m.version || c.last != t {
		c.idx = c.m.upper(t)
		c.version = c.m.version
		c.last = t
		c.warm = true
	}
	return c.m.keyAt(c.idx)
}

// Advance moves the cursor's cached time forward to t. It is cheap when t
// is at or before the key Peek last returned.
func (c *Cursor[V]) Advance(t rational.Rational) {
	if c.warm && c.version == c.m.version && !t.Less(c.last) {
		at, ok := c.m.keyAt(c.idx)
		switch {
		case !ok || t.Less(at):
			c.last = t
			return
		case at == t:
			c.idx++
			c.last = t
			return
		}
	}
	c.warm = false
	c.Peek(t)
}
