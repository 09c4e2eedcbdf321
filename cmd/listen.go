package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/jsphweid/harmonline/chord"
	"github.com/jsphweid/harmonline/live"
	"github.com/jsphweid/harmonline/midi"
	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/pitch"
	"github.com/jsphweid/harmonline/spell"
)

var (
	chordStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")).Width(12)
	notesStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

func init() {
	listenCmd.Flags().Int("port", -1, "MIDI input port number; overrides the config")
	listenCmd.Flags().String("ws", "", "also push updates to websocket clients on this address")
	listenCmd.Flags().String("key", "", "key to spell the first chord in")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Names chords played on a MIDI input",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		if port < 0 {
			port = cfg.Listen.Port
		}
		wsAddr, _ := cmd.Flags().GetString("ws")
		if wsAddr == "" {
			wsAddr = cfg.Listen.WSAddr
		}
		keyName, _ := cmd.Flags().GetString("key")
		key, err := keyOrDefault(keyName)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		defer gomidi.CloseDriver()

		var hub *live.Hub
		if wsAddr != "" {
			hub = live.NewHub()
			defer hub.Close()
			srv := &http.Server{Addr: wsAddr, Handler: hub}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("websocket server stopped", "addr", wsAddr, "err", err)
				}
			}()
			defer srv.Shutdown(context.Background())
			slog.Info("pushing updates", "addr", wsAddr)
		}

		ln := newLiveNamer(key)
		out := cmd.OutOrStdout()
		held := midi.NewHeldKeys(cfg.Settle(), func(ps *model.PitchSet) {
			update, err := ln.update(ps)
			if err != nil {
				slog.Warn("could not name chord", "pitches", ps.Pitches(), "err", err)
				return
			}
			fmt.Fprintln(out, render(update))
			if hub != nil {
				if err := hub.Broadcast(update); err != nil {
					slog.Warn("broadcast failed", "err", err)
				}
			}
		})
		return midi.Listen(ctx, port, held)
	},
}

// liveNamer names each chord played and spells it from the previous one,
// so notes held across a change keep their names.
type liveNamer struct {
	key   *model.Key
	namer *chord.Namer
	prev  *model.Chord
}

func newLiveNamer(key *model.Key) *liveNamer {
	return &liveNamer{key: key, namer: &chord.Namer{Registry: registry, IncludeShells: cfg.IncludeShells}}
}

func (ln *liveNamer) update(ps *model.PitchSet) (model.LiveUpdate, error) {
	update := model.LiveUpdate{Pitches: []model.NamedPitch{}}
	if ps.Len() == 0 {
		return update, nil
	}
	c := model.NewChord(pitch.Default, ps.Pitches()...)
	var err error
	if ln.prev != nil {
		err = spell.FillChordNames(c, ln.prev)
	} else {
		err = spell.FillChordFromKey(c, ln.key)
	}
	if err != nil {
		return update, err
	}
	ln.prev = c

	for _, p := range ps.Pitches() {
		name, _ := c.NameOf(p)
		update.Pitches = append(update.Pitches, model.NamedPitch{Pitch: p, Name: spell.NameWithOctave(name, p, pitch.Default)})
	}
	nm := ln.namer.GuessRootAndName(c)
	if rootName, ok := c.NameOf(nm.Root); ok {
		update.Chord = rootName + nm.Suffix
	} else if update.Chord, err = nm.Label(ln.key); err != nil {
		return update, err
	}
	update.Buckets, err = ln.namer.RootLikelihoodsAndNames(nil, c, ln.key)
	return update, err
}

func render(update model.LiveUpdate) string {
	if len(update.Pitches) == 0 {
		return notesStyle.Render("-")
	}
	names := make([]string, len(update.Pitches))
	for i, np := range update.Pitches {
		names[i] = np.Name
	}
	return chordStyle.Render(update.Chord) + notesStyle.Render(strings.Join(names, " "))
}
