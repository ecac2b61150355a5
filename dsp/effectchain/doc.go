// Package effectchain builds ordered chains of effects from a registry of
// named factories and YAML presets.
//
// A [Chain] processes blocks through its stages in order, ping-ponging
// between two preallocated scratch buffers. Stage parameters and bypass
// flags may be changed from control goroutines while the audio goroutine
// processes; each effect publishes parameter changes atomically, so a
// block always sees one consistent parameter set per stage.
package effectchain
