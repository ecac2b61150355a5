// Command fxchain runs mono audio through a real-time effects chain.
//
// Usage:
//
//	fxchain [command] [flags]
//
// Examples:
//
//	fxchain render vocal.wav vocal-fx.wav
//	fxchain analyze --preset tube.yaml --freq 440
//	fxchain play --loop mix.wav
//	fxchain serve --addr :8080 loop.wav
//	fxchain presets > master.yaml
//
// Build with -tags headless to leave out the audio device backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-fx/internal/audio"
	"github.com/cwbudde/algo-fx/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := cli.NewRootCmd(cli.Config{
		Version:   version,
		OpenAudio: openAudio,
	})

	err := root.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func openAudio(sampleRate int) (cli.AudioOutput, error) {
	p, err := audio.Open(sampleRate)
	if err != nil {
		return nil, err
	}

	return p, nil
}
