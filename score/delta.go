package score

import (
	"github.com/google/uuid"

	"github.com/jsphweid/harmonline/chord"
	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/rational"
	"github.com/jsphweid/harmonline/spell"
)

// StaffDelta is the layered state of one staff at one time: what holds
// there and what is attacked exactly there.
type StaffDelta struct {
	At          rational.Rational
	StaffID     uuid.UUID
	Established map[model.Kind]model.Element
	Changed     map[model.Kind]model.Element
	// ChordName labels the established chord, empty when there is none.
	ChordName string
	Voices    []VoiceDelta
}

// VoiceDelta is the state of one voice. Changed pitch sets are spelled
// against the chord in effect, or the key when there is no chord.
type VoiceDelta struct {
	VoiceID     uuid.UUID
	Established *model.PitchSet
	Changed     *model.PitchSet
	Chord       *model.Chord
	Scale       *model.Scale
	Key         *model.Key
}

func (d StaffDelta) Key() (*model.Key, bool) {
	return element[*model.Key](d.Established, model.KindKey)
}

func (d StaffDelta) Chord() (*model.Chord, bool) {
	return element[*model.Chord](d.Established, model.KindChord)
}

func (d StaffDelta) Scale() (*model.Scale, bool) {
	return element[*model.Scale](d.Established, model.KindScale)
}

func (d StaffDelta) Clef() (model.Clef, bool) {
	return element[model.Clef](d.Established, model.KindClef)
}

func (d StaffDelta) TimeSignature() (model.TimeSignature, bool) {
	return element[model.TimeSignature](d.Established, model.KindTimeSignature)
}

func (d StaffDelta) IsChanged(k model.Kind) bool {
	_, ok := d.Changed[k]
	return ok
}

func element[T model.Element](m map[model.Kind]model.Element, k model.Kind) (T, bool) {
	e, ok := m[k].(T)
	return e, ok
}

type layer[V model.Element] interface {
	ValueAt(t rational.Rational) (V, bool)
	ChangeAt(t rational.Rational) (V, bool)
}

func record[V model.Element](d *StaffDelta, k model.Kind, m layer[V]) {
	if v, ok := m.ValueAt(d.At); ok {
		d.Established[k] = v
	}
	if v, ok := m.ChangeAt(d.At); ok {
		d.Changed[k] = v
	}
}

// DeltaAt builds the staff's delta at t. Stored pitch sets and chords are
// never modified; spelled values are copies.
func (st *Staff) DeltaAt(t rational.Rational) StaffDelta {
	d := StaffDelta{
		At:          t,
		StaffID:     st.ID,
		Established: make(map[model.Kind]model.Element),
		Changed:     make(map[model.Kind]model.Element),
	}
	record[model.TimeSignature](&d, model.KindTimeSignature, st.score.meter)
	record[*model.Key](&d, model.KindKey, st.keys)
	record[*model.Chord](&d, model.KindChord, st.chords)
	record[*model.Scale](&d, model.KindScale, st.scales)
	record[model.Clef](&d, model.KindClef, st.clefs)

	key, _ := d.Key()
	if c, ok := d.Chord(); ok {
		d.ChordName = st.chordName(c, key)
	}

	for _, v := range st.voices {
		d.Voices = append(d.Voices, v.deltaAt(t, d))
	}
	return d
}

func (st *Staff) chordName(c *model.Chord, key *model.Key) string {
	if c.Modulus().CheckHeptatonic() != nil {
		return ""
	}
	namer := &chord.Namer{Registry: st.score.registry}
	var nm chord.Naming
	if root, ok := c.Root(); ok {
		nm = namer.NameForRoot(c, root)
	} else {
		nm = namer.GuessRootAndName(c)
	}
	label, err := nm.Label(key)
	if err != nil {
		return ""
	}
	return label
}

func (v *Voice) deltaAt(t rational.Rational, staff StaffDelta) VoiceDelta {
	vd := VoiceDelta{VoiceID: v.ID}
	vd.Chord, _ = staff.Chord()
	vd.Scale, _ = staff.Scale()
	vd.Key, _ = staff.Key()
	if c, ok := v.chords.ValueAt(t); ok {
		vd.Chord = c
	}
	if s, ok := v.scales.ValueAt(t); ok {
		vd.Scale = s
	}
	if k, ok := v.keys.ValueAt(t); ok {
		vd.Key = k
	}

	if ps, ok := v.realization.ChangeAt(t); ok {
		vd.Changed = spelled(ps, vd.Chord, vd.Key)
		vd.Established = vd.Changed
	} else if ps, ok := v.realization.ValueAt(t); ok {
		vd.Established = ps.Clone()
	}
	return vd
}

// spelled names a copy of ps from the chord when it can, then from the key.
// It returns the copy unnamed when neither yields a spelling.
func spelled(ps *model.PitchSet, c *model.Chord, key *model.Key) *model.PitchSet {
	out := ps.Clone()
	if out.HasNoteNames() {
		return out
	}
	if key == nil {
		key = model.DefaultKey()
	}
	if c != nil {
		ref := c.Clone()
		if !ref.Set().HasNoteNames() && spell.FillChordFromKey(ref, key) != nil {
			ref = nil
		}
		if ref != nil && spell.FillNames(out, ref.Set(), c.Modulus()) == nil {
			return out
		}
	}
	// only a key outside a heptatonic modulus fails here, and its sets
	// have no letter names to give
	_ = spell.FillNamesFromKey(out, key)
	return out
}
