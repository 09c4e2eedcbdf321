// Package midi turns Standard MIDI Files and live MIDI input into pitch
// sets and scores.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/harmonline/score"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// smf can panic on malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("parsing midi file %s: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parsing midi file %s: %w", filepath, err)
	}
	return res, nil
}

// ImportFile reads the file at path and imports it.
func ImportFile(path string) (*score.Score, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return Import(s)
}

var ErrUnsupportedTimeFormat = errors.New("midi: only metric tick time formats are supported")
