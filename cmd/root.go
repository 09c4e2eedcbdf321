package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/harmonline/config"
	"github.com/jsphweid/harmonline/constants"
)

var (
	cfg        = config.Default()
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "harmonline",
	Short: "Chord naming and spelling over harmonic timelines",
	Long: `harmonline names chords, spells pitches and walks the harmonic
timelines of MIDI files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", constants.GetConfigPath(), "YAML config file (env HARMONLINE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error; overrides the config")
}

func setup() error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	level, err := loaded.SlogLevel()
	if err != nil {
		return err
	}
	cfg = loaded
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	slog.Debug("config loaded", "path", configPath, "key", cfg.Key)
	return nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
