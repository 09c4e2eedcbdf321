package midi

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/jsphweid/harmonline/model"
)

// HeldKeys tracks the keys currently held on a MIDI input and reports the
// held set once input settles, so a chord struck as several messages is
// reported once.
type HeldKeys struct {
	mu       sync.Mutex
	held     map[uint8]struct{}
	debounce func(f func())
	onChange func(*model.PitchSet)
}

func NewHeldKeys(settle time.Duration, onChange func(*model.PitchSet)) *HeldKeys {
	return &HeldKeys{
		held:     make(map[uint8]struct{}),
		debounce: debounce.New(settle),
		onChange: onChange,
	}
}

// Handle applies one message; anything but note starts and ends is ignored.
func (h *HeldKeys) Handle(msg gomidi.Message) {
	var ch, key, vel uint8
	h.mu.Lock()
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		h.held[key] = struct{}{}
	case msg.GetNoteEnd(&ch, &key):
		delete(h.held, key)
	default:
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()
	h.debounce(h.emit)
}

// Snapshot returns the held keys as pitches, middle C = 0.
func (h *HeldKeys) Snapshot() *model.PitchSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	ps := model.NewPitchSet()
	for key := range h.held {
		ps.Add(int(key) - middleC)
	}
	return ps
}

func (h *HeldKeys) emit() {
	if h.onChange != nil {
		h.onChange(h.Snapshot())
	}
}

// Listen feeds the input port with the given number into h until ctx is
// done. A driver must be registered by the caller.
func Listen(ctx context.Context, port int, h *HeldKeys) error {
	in, err := gomidi.InPort(port)
	if err != nil {
		return fmt.Errorf("opening midi input %d: %w", port, err)
	}
	slog.Info("listening", "port", in.String())

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		h.Handle(msg)
	}, gomidi.HandleError(func(err error) {
		slog.Warn("midi input error", "port", in.String(), "err", err)
	}))
	if err != nil {
		return fmt.Errorf("listening to %s: %w", in.String(), err)
	}
	defer stop()

	<-ctx.Done()
	return nil
}
