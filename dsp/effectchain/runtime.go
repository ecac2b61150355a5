package effectchain

import (
	"errors"

	"github.com/cwbudde/algo-fx/dsp/block"
)

var (
	// ErrUnknownEffect is returned when a stage references an unregistered effect type.
	ErrUnknownEffect = errors.New("unknown effect type")
	// ErrUnknownParam is returned when setting a parameter an effect does not have.
	ErrUnknownParam = errors.New("unknown parameter")
	// ErrUnknownStage is returned when addressing a stage ID the chain does not have.
	ErrUnknownStage = errors.New("unknown stage")
)

// Effect is the per-stage processing and parameter contract.
//
// ProcessBlock and Reset run on the audio goroutine. Set and Params may be
// called concurrently from control goroutines.
type Effect interface {
	block.Processor
	// Set changes one parameter in its engineering unit. Enumerations take
	// their index, switches take 0 or 1.
	Set(name string, v float64) error
	// Params returns the current value of every parameter.
	Params() map[string]float64
	// Reset clears filter and envelope history.
	Reset()
}

// TextParams is an optional interface for effects with named enumeration
// parameters, such as a compressor's ratio mode.
type TextParams interface {
	SetText(name, value string) error
	Texts() map[string]string
}

// GainReducer is an optional interface for effects that meter gain
// reduction in dB.
type GainReducer interface {
	GainReduction() float64
}
