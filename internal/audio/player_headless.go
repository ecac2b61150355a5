//go:build headless

package audio

import (
	"context"
	"io"
)

// Player is a stand-in for builds without an audio backend.
type Player struct{}

// Open always fails with ErrUnavailable.
func Open(int) (*Player, error) {
	return nil, ErrUnavailable
}

// Play always fails with ErrUnavailable.
func (p *Player) Play(context.Context, io.Reader) error {
	return ErrUnavailable
}

// Close does nothing.
func (p *Player) Close() error { return nil }
