// Package param publishes coefficient sets from control goroutines to the
// audio goroutine.
//
// A [Published] value is read with a single atomic load per block, so a
// block is always processed with one complete coefficient set: the last one
// whose update finished. Writers are serialized by a mutex and never block
// the reader. [Float] carries a single float32 meter value the other way.
package param
