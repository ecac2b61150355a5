package param

import (
	"math"
	"sync/atomic"
)

// Float is a float32 that can be written by one goroutine and read by
// others without tearing.
type Float struct {
	bits atomic.Uint32
}

// Load returns the stored value.
func (f *Float) Load() float32 {
	return math.Float32frombits(f.bits.Load())
}

// Store sets the value.
func (f *Float) Store(v float32) {
	f.bits.Store(math.Float32bits(v))
}
