package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/pitch"
	"github.com/jsphweid/harmonline/rational"
	"github.com/jsphweid/harmonline/rhythm"
)

func r(num, den int64) rational.Rational {
	return rational.MustNew(num, den)
}

func mustPut[V any](t *testing.T, m *rhythm.Map[V], at rational.Rational, v V) {
	t.Helper()
	_, _, err := m.Put(at, v)
	require.NoError(t, err)
}

// cadence is C major: a C triad from 0 and G7 from 1 on the staff, with one
// voice sounding C-E-G, then Bb, then B-D until an end at 2.
func cadence(t *testing.T) (*Score, *Staff, *Voice) {
	t.Helper()
	s := New()
	mustPut(t, s.Meter(), rational.Zero, model.CommonTime)

	st := s.AddStaff("upper")
	key, err := model.NewMajorKey("C")
	require.NoError(t, err)
	mustPut(t, st.Keys(), rational.Zero, key)
	mustPut(t, st.Chords(), rational.Zero, model.NewChord(pitch.Default, 0, 4, 7))
	mustPut(t, st.Chords(), r(1, 1), model.NewChord(pitch.Default, 7, 11, 2, 5))
	mustPut(t, st.Clefs(), rational.Zero, model.TrebleClef)

	v := st.AddVoice("soprano")
	mustPut(t, v.Realization(), rational.Zero, model.NewPitchSet(0, 4, 7))
	mustPut(t, v.Realization(), r(1, 2), model.NewPitchSet(10))
	mustPut(t, v.Realization(), r(1, 1), model.NewPitchSet(11, 14))
	require.NoError(t, v.Realization().PutEnd(r(2, 1)))
	return s, st, v
}

func TestStaffAndVoiceIndexing(t *testing.T) {
	s := New()
	a := s.AddStaff("a")
	b := s.AddStaff("b")
	assert.NotEqual(t, a.ID, b.ID)

	_, err := s.Staff(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, s.SwapStaves(0, -1), ErrIndexOutOfRange)

	require.NoError(t, s.SwapStaves(0, 1))
	first, err := s.Staff(0)
	require.NoError(t, err)
	assert.Equal(t, "b", first.Name)

	require.NoError(t, s.RemoveStaff(0))
	assert.Equal(t, []*Staff{a}, s.Staves())

	v1, v2 := a.AddVoice("1"), a.AddVoice("2")
	require.NoError(t, a.SwapVoices(0, 1))
	assert.Equal(t, []*Voice{v2, v1}, a.Voices())
	require.NoError(t, a.RemoveVoice(1))
	assert.Equal(t, []*Voice{v2}, a.Voices())
	assert.ErrorIs(t, a.RemoveVoice(1), ErrIndexOutOfRange)
}

func TestPickupBoundsTimelines(t *testing.T) {
	s := New(WithPickup(r(1, 4)))
	st := s.AddStaff("")
	_, _, err := st.Chords().Put(r(-1, 4), model.NewChord(pitch.Default, 7))
	assert.NoError(t, err)
	_, _, err = st.Chords().Put(r(-1, 2), model.NewChord(pitch.Default, 7))
	assert.ErrorIs(t, err, rhythm.ErrInvalidTime)

	_, _, err = New().AddStaff("").Chords().Put(r(-1, 4), model.NewChord(pitch.Default, 7))
	assert.ErrorIs(t, err, rhythm.ErrInvalidTime)
}

func TestOverallRhythm(t *testing.T) {
	s, _, _ := cadence(t)
	lower := s.AddStaff("lower")
	mustPut(t, lower.Clefs(), r(3, 2), model.BassClef)

	assert.Equal(t, []rational.Rational{
		rational.Zero, r(1, 2), r(1, 1), r(3, 2), r(2, 1),
	}, s.OverallRhythm())

	require.NoError(t, s.RemoveStaff(1))
	assert.Equal(t, []rational.Rational{
		rational.Zero, r(1, 2), r(1, 1), r(2, 1),
	}, s.OverallRhythm())
}

func TestDeltaAt(t *testing.T) {
	_, st, v := cadence(t)

	d := st.DeltaAt(rational.Zero)
	assert.Equal(t, "C", d.ChordName)
	assert.True(t, d.IsChanged(model.KindChord))
	assert.True(t, d.IsChanged(model.KindTimeSignature))
	ts, ok := d.TimeSignature()
	require.True(t, ok)
	assert.Equal(t, model.CommonTime, ts)
	clef, ok := d.Clef()
	require.True(t, ok)
	assert.Equal(t, model.TrebleClef, clef)
	require.Len(t, d.Voices, 1)
	assert.Equal(t, v.ID, d.Voices[0].VoiceID)
	assert.Equal(t, []string{"C", "E", "G"}, d.Voices[0].Changed.NoteNames())

	d = st.DeltaAt(r(1, 2))
	assert.Equal(t, "C", d.ChordName)
	assert.False(t, d.IsChanged(model.KindChord))
	assert.False(t, d.IsChanged(model.KindKey))
	_, ok = d.Key()
	assert.True(t, ok)
	assert.Equal(t, []string{"A#"}, d.Voices[0].Changed.NoteNames())

	d = st.DeltaAt(r(3, 4))
	assert.Nil(t, d.Voices[0].Changed)
	assert.Equal(t, []int{10}, d.Voices[0].Established.Pitches())

	d = st.DeltaAt(r(1, 1))
	assert.Equal(t, "G7", d.ChordName)
	assert.True(t, d.IsChanged(model.KindChord))
	assert.Equal(t, []string{"B", "D"}, d.Voices[0].Changed.NoteNames())

	d = st.DeltaAt(r(2, 1))
	assert.Nil(t, d.Voices[0].Established)
	assert.Nil(t, d.Voices[0].Changed)
	assert.Empty(t, d.Changed)
}

func TestDeltaLeavesTimelinesUnnamed(t *testing.T) {
	_, st, v := cadence(t)
	st.DeltaAt(r(1, 2))

	ps, ok := v.Realization().ValueAt(r(1, 2))
	require.True(t, ok)
	assert.False(t, ps.HasNoteNames())
	c, ok := st.Chords().ValueAt(r(1, 2))
	require.True(t, ok)
	assert.Nil(t, c.NoteNames())
}

func TestDeltaReturnsCopies(t *testing.T) {
	_, st, v := cadence(t)
	stored, ok := v.Realization().ValueAt(r(3, 4))
	require.True(t, ok)

	d := st.DeltaAt(r(3, 4))
	est := d.Voices[0].Established
	require.NotNil(t, est)
	assert.NotSame(t, stored, est)
	require.NoError(t, est.SetNoteNames([]string{"Bb"}))
	assert.False(t, stored.HasNoteNames())

	d = st.DeltaAt(r(1, 2))
	assert.Same(t, d.Voices[0].Changed, d.Voices[0].Established)
	assert.Equal(t, []string{"A#"}, d.Voices[0].Established.NoteNames())
}

func TestVoiceKeyOverridesStaff(t *testing.T) {
	s := New()
	st := s.AddStaff("")
	cMajor, err := model.NewMajorKey("C")
	require.NoError(t, err)
	fMajor, err := model.NewMajorKey("F")
	require.NoError(t, err)
	mustPut(t, st.Keys(), rational.Zero, cMajor)

	v := st.AddVoice("")
	mustPut(t, v.Keys(), rational.Zero, fMajor)
	mustPut(t, v.Realization(), rational.Zero, model.NewPitchSet(10, 12))

	d := st.DeltaAt(rational.Zero)
	assert.Equal(t, "", d.ChordName)
	vd := d.Voices[0]
	assert.Same(t, fMajor, vd.Key)
	assert.Equal(t, []string{"Bb", "C"}, vd.Changed.NoteNames())
}

func TestForwardAndBackward(t *testing.T) {
	_, st, _ := cadence(t)

	var at []rational.Rational
	for d := range st.Forward(r(1, 4)) {
		at = append(at, d.At)
	}
	assert.Equal(t, []rational.Rational{r(1, 2), r(1, 1), r(2, 1)}, at)

	at = nil
	for d := range st.Backward(r(1, 1)) {
		at = append(at, d.At)
	}
	assert.Equal(t, []rational.Rational{r(1, 1), r(1, 2), rational.Zero}, at)

	at = nil
	for d := range st.Forward(rational.Zero) {
		at = append(at, d.At)
		if len(at) == 2 {
			break
		}
	}
	assert.Equal(t, []rational.Rational{rational.Zero, r(1, 2)}, at)
}

func TestChangeCursorMatchesPureQuery(t *testing.T) {
	_, st, v := cadence(t)
	mustPut(t, v.Chords(), r(3, 4), model.NewChord(pitch.Default, 10, 2, 5))
	require.NoError(t, st.RemoveVoice(0))

	c := v.ChangeCursor()
	at := r(-1, 1)
	var walked []rational.Rational
	for {
		next, ok := c.Next(at)
		pure, pureOK := v.NextChangeAfter(at)
		require.Equal(t, pureOK, ok)
		if !ok {
			break
		}
		assert.Equal(t, pure, next)
		walked = append(walked, next)
		at = next
	}
	assert.Equal(t, []rational.Rational{
		rational.Zero, r(1, 2), r(3, 4), r(1, 1), r(2, 1),
	}, walked)

	// out of order and after a mutation the answers still agree
	for _, q := range []rational.Rational{r(1, 1), rational.Zero} {
		next, ok := c.Next(q)
		pure, _ := v.NextChangeAfter(q)
		assert.True(t, ok)
		assert.Equal(t, pure, next)
	}
	mustPut(t, v.Realization(), r(1, 4), model.NewPitchSet(2))
	next, ok := c.Next(rational.Zero)
	assert.True(t, ok)
	assert.Equal(t, r(1, 4), next)
}

func TestMeasureAt(t *testing.T) {
	s := New(WithPickup(r(1, 4)))
	threeFour, err := model.NewTimeSignature(3, 4)
	require.NoError(t, err)
	mustPut(t, s.Meter(), rational.Zero, model.CommonTime)
	mustPut(t, s.Meter(), r(5, 2), threeFour)

	cases := []struct {
		at    rational.Rational
		index int
		start rational.Rational
	}{
		{r(-1, 8), -1, r(-1, 4)},
		{rational.Zero, 0, rational.Zero},
		{r(9, 4), 2, r(2, 1)},
		// the 3/4 change cuts measure 2 short
		{r(5, 2), 3, r(5, 2)},
		{r(13, 4), 4, r(13, 4)},
		{r(4, 1), 5, r(4, 1)},
	}
	for _, tc := range cases {
		m, err := s.MeasureAt(tc.at)
		require.NoError(t, err, tc.at)
		assert.Equal(t, tc.index, m.Index, tc.at)
		assert.Equal(t, tc.start, m.Start, tc.at)
	}

	_, err = s.MeasureAt(r(-1, 1))
	assert.ErrorIs(t, err, rhythm.ErrInvalidTime)

	m, err := New().MeasureAt(r(5, 2))
	require.NoError(t, err)
	assert.Equal(t, Measure{Index: 2, Start: r(2, 1), Signature: model.CommonTime}, m)
}
