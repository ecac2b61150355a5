// Package audio plays mono float32 sample streams on the default output
// device.
package audio

import "errors"

// ErrUnavailable is returned by Open in builds without an audio backend.
var ErrUnavailable = errors.New("audio: no output backend in this build")
