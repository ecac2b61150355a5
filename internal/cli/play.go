package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"
)

func newPlayCmd(a *app) *cobra.Command {
	var loop bool

	cmd := &cobra.Command{
		Use:   "play <in.wav>",
		Short: "Play a WAV file through the chain",
		Long: `Play processes a WAV file through the chain in real time and sends it
to the default audio device. On a terminal a live level and gain
reduction meter is shown.

Examples:
  fxchain play vocal.wav
  fxchain play --preset master.yaml --loop mix.wav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.play(cmd, args[0], loop); err != nil {
				return fmt.Errorf("play: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&loop, "loop", false, "repeat the file until interrupted")

	return cmd
}

func (a *app) play(cmd *cobra.Command, path string, loop bool) error {
	samples, info, err := readWAV(path)
	if err != nil {
		return err
	}

	chain, err := a.buildChain(float64(info.sampleRate))
	if err != nil {
		return err
	}

	out, err := a.openAudio(info.sampleRate)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stream := processedStream(ctx, chain, samples, loop)
	defer stream.Close()

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		runMeter(ctx, cmd.OutOrStdout(), chain)
	}()

	a.logger.Info("playing",
		slog.String("input", path),
		slog.Int("sampleRate", info.sampleRate),
		slog.Bool("loop", loop))

	err = out.Play(ctx, stream)

	cancel()
	wg.Wait()

	return err
}
