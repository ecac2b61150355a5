//go:build !headless

package audio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

const pollInterval = 20 * time.Millisecond

// Player owns the process-wide oto context.
type Player struct {
	ctx *oto.Context
}

// Open creates the output context for mono float32 samples at sampleRate.
// Only one Player may exist per process.
func Open(sampleRate int) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio: open output: %w", err)
	}
	<-ready

	return &Player{ctx: ctx}, nil
}

// Play streams little-endian float32 samples from r until r is drained or
// ctx is cancelled.
func (p *Player) Play(ctx context.Context, r io.Reader) error {
	player := p.ctx.NewPlayer(r)
	defer player.Close()

	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return nil
		case <-ticker.C:
			if !player.IsPlaying() {
				return nil
			}
		}
	}
}

// Close suspends the output device.
func (p *Player) Close() error {
	return p.ctx.Suspend()
}
