// Package cli implements the fxchain command line: offline rendering,
// distortion analysis, live playback and an HTTP control server for
// effect chains.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/cwbudde/algo-fx/dsp/effectchain"
	"github.com/spf13/cobra"
)

// AudioOutput plays a stream of little-endian float32 mono samples.
type AudioOutput interface {
	Play(ctx context.Context, r io.Reader) error
	Close() error
}

// AudioOpener opens an output device at the given sample rate.
type AudioOpener func(sampleRate int) (AudioOutput, error)

var errNoAudio = errors.New("no audio output available")

// Config wires platform dependencies into the commands.
type Config struct {
	Version   string
	OpenAudio AudioOpener
}

type app struct {
	cfg Config

	logLevel   string
	logFormat  string
	presetPath string

	logger   *slog.Logger
	registry *effectchain.Registry
}

// NewRootCmd returns the fxchain command tree.
func NewRootCmd(cfg Config) *cobra.Command {
	a := &app{cfg: cfg, registry: effectchain.DefaultRegistry()}

	root := &cobra.Command{
		Use:   "fxchain",
		Short: "Run audio through a real-time effects chain",
		Long: `fxchain processes mono audio through a chain of compressors, EQ,
exciter, tube saturator and output transformer, in 128-sample blocks.

Chains are described by YAML presets; without --preset the built-in
default chain is used (see "fxchain presets").`,
		Version:      cfg.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
			if err != nil {
				return err
			}

			a.logger = logger

			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")
	flags.StringVarP(&a.presetPath, "preset", "p", "", "chain preset YAML file (default: built-in chain)")

	root.AddCommand(
		newRenderCmd(a),
		newAnalyzeCmd(a),
		newPlayCmd(a),
		newServeCmd(a),
		newPresetsCmd(a),
	)

	return root
}

func (a *app) loadPreset() (*effectchain.Preset, error) {
	if a.presetPath == "" {
		return effectchain.DefaultPreset(), nil
	}

	return effectchain.LoadPresetFile(a.presetPath)
}

// buildChain builds the preset's chain. A positive sampleRate overrides the
// preset's.
func (a *app) buildChain(sampleRate float64) (*effectchain.Chain, error) {
	p, err := a.loadPreset()
	if err != nil {
		return nil, err
	}

	opts := []effectchain.Option{effectchain.WithLogger(a.logger)}
	if sampleRate > 0 {
		opts = append(opts, effectchain.WithSampleRate(sampleRate))
	}

	return p.Build(a.registry, opts...)
}

func (a *app) openAudio(sampleRate int) (AudioOutput, error) {
	if a.cfg.OpenAudio == nil {
		return nil, errNoAudio
	}

	return a.cfg.OpenAudio(sampleRate)
}
