package model

import (
	"fmt"

	"github.com/jsphweid/harmonline/rational"
)

// Kind tags the type of musical object a timeline entry holds, so consumers
// switch on it instead of inspecting concrete types.
type Kind int

const (
	KindPitchSet Kind = iota + 1
	KindChord
	KindScale
	KindKey
	KindTimeSignature
	KindClef
)

func (k Kind) String() string {
	switch k {
	case KindPitchSet:
		return "pitch_set"
	case KindChord:
		return "chord"
	case KindScale:
		return "scale"
	case KindKey:
		return "key"
	case KindTimeSignature:
		return "time_signature"
	case KindClef:
		return "clef"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind key YAML and JSON maps by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Element is anything a timeline can hold.
type Element interface {
	Kind() Kind
}

type TimeSignature struct {
	Numerator   int `json:"numerator" yaml:"numerator"`
	Denominator int `json:"denominator" yaml:"denominator"`
}

var CommonTime = TimeSignature{Numerator: 4, Denominator: 4}

func NewTimeSignature(num, den int) (TimeSignature, error) {
	if num <= 0 || den <= 0 {
		return TimeSignature{}, fmt.Errorf("time signature %d/%d: both parts must be positive", num, den)
	}
	return TimeSignature{Numerator: num, Denominator: den}, nil
}

func (TimeSignature) Kind() Kind { return KindTimeSignature }

// MeasureLength is the length of one bar in whole notes.
func (ts TimeSignature) MeasureLength() rational.Rational {
	if ts.Denominator <= 0 {
		return CommonTime.MeasureLength()
	}
	return rational.MustNew(int64(ts.Numerator), int64(ts.Denominator))
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// Clef places the pitch Pitch on staff line Line (1 = bottom line).
type Clef struct {
	Name  string `json:"name" yaml:"name"`
	Line  int    `json:"line" yaml:"line"`
	Pitch int    `json:"pitch" yaml:"pitch"`
}

var (
	TrebleClef = Clef{Name: "treble", Line: 2, Pitch: 7}
	BassClef   = Clef{Name: "bass", Line: 4, Pitch: -7}
	AltoClef   = Clef{Name: "alto", Line: 3, Pitch: 0}
	TenorClef  = Clef{Name: "tenor", Line: 4, Pitch: 0}
)

func (Clef) Kind() Kind { return KindClef }

func (c Clef) String() string { return c.Name }
