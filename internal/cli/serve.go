package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-fx/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		noAudio bool
	)

	cmd := &cobra.Command{
		Use:   "serve [in.wav]",
		Short: "Loop a WAV file through the chain with HTTP parameter control",
		Long: `Serve plays a WAV file through the chain in a loop and exposes the
chain over HTTP:

  GET /stages                       list stages and parameters
  GET /stages/{id}                  one stage
  PUT /stages/{id}/params/{name}    set a parameter (body: number or name)
  PUT /stages/{id}/bypass           bypass a stage (body: true or false)
  GET /meters                       levels and gain reduction
  GET /preset                       the current chain as a YAML preset

Examples:
  fxchain serve --addr :8080 loop.wav
  curl -X PUT -d -24 localhost:8080/stages/comp/params/thresholdDB`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !noAudio {
				return errors.New("serve: an input file is required unless --no-audio is set")
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			if err := a.serve(cmd.Context(), addr, path, noAudio); err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "serve the control API without playback")

	return cmd
}

func (a *app) serve(ctx context.Context, addr, path string, noAudio bool) error {
	sampleRate := 0
	var samples []float32

	if path != "" {
		var (
			info wavInfo
			err  error
		)

		samples, info, err = readWAV(path)
		if err != nil {
			return err
		}

		sampleRate = info.sampleRate
	}

	chain, err := a.buildChain(float64(sampleRate))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !noAudio {
		out, err := a.openAudio(sampleRate)
		if err != nil {
			return err
		}
		defer out.Close()

		stream := processedStream(ctx, chain, samples, true)
		defer stream.Close()

		go func() {
			if err := out.Play(ctx, stream); err != nil {
				a.logger.Error("playback stopped", slog.Any("error", err))
			}
		}()
	}

	return server.New(chain, a.logger).Run(ctx, addr)
}
