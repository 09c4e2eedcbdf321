package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/harmonline/rational"
)

func TestExcerptFromOffset(t *testing.T) {
	ex, err := Excerpt(twoBars(t), rational.MustNew(1, 4), 0)
	require.NoError(t, err)

	sc, err := Import(ex)
	require.NoError(t, err)
	require.Len(t, sc.Staves(), 1)
	st := sc.Staves()[0]
	assert.Equal(t, "piano", st.Name)
	key, ok := st.Keys().ValueAt(rational.Zero)
	require.True(t, ok)
	assert.Equal(t, "G", key.RootName())

	v, err := st.Voice(0)
	require.NoError(t, err)
	ps, ok := v.Realization().ChangeAt(rational.MustNew(1, 8))
	require.True(t, ok)
	assert.Equal(t, []int{11}, ps.Pitches())
	assert.True(t, v.Realization().IsEndAt(rational.MustNew(1, 4)))
	assert.Equal(t, 2, v.Realization().Len())
}

func TestExcerptLimitsNotes(t *testing.T) {
	ex, err := Excerpt(twoBars(t), rational.Zero, 2)
	require.NoError(t, err)

	sc, err := Import(ex)
	require.NoError(t, err)
	v, err := sc.Staves()[0].Voice(0)
	require.NoError(t, err)

	ps, ok := v.Realization().ChangeAt(rational.Zero)
	require.True(t, ok)
	assert.Equal(t, []int{0, 4}, ps.Pitches())
	assert.True(t, v.Realization().IsEndAt(rational.MustNew(1, 4)))
	assert.Equal(t, 2, v.Realization().Len())
}

func TestExcerptRejectsBadInput(t *testing.T) {
	_, err := Excerpt(twoBars(t), rational.MustNew(-1, 4), 0)
	assert.Error(t, err)

	s := smf.New()
	s.TimeFormat = smf.SMPTE30(4)
	_, err = Excerpt(s, rational.Zero, 0)
	assert.ErrorIs(t, err, ErrUnsupportedTimeFormat)
}

func TestExcerptReleasesInKeyOrder(t *testing.T) {
	s := smf.New()
	var track smf.Track
	track.Add(0, gomidi.NoteOn(1, 67, 100))
	track.Add(0, gomidi.NoteOn(0, 64, 100))
	track.Add(0, gomidi.NoteOn(0, 60, 100))
	track.Add(0, gomidi.NoteOn(0, 72, 100))
	track.Close(0)
	require.NoError(t, s.Add(track))

	for i := 0; i < 20; i++ {
		ex, err := Excerpt(s, rational.Zero, 0)
		require.NoError(t, err)

		var released [][2]uint8
		for _, ev := range ex.Tracks[0] {
			var ch, key uint8
			if ev.Message.GetNoteEnd(&ch, &key) {
				released = append(released, [2]uint8{ch, key})
			}
		}
		assert.Equal(t, [][2]uint8{{0, 60}, {0, 64}, {0, 72}, {1, 67}}, released)
	}
}
