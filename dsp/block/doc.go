// Package block carries audio between a host and a processor in fixed
// 128-sample blocks.
//
// A [Host] hands out blocks: Receive yields read-only input, Allocate a
// zeroed output block. [Update] runs one [Processor] step: if either block
// is unavailable it releases whatever it obtained and skips silently,
// otherwise it processes, transmits the output and releases both.
//
// [StreamHost] and [SliceHost] adapt io streams of little-endian float32
// samples and in-memory slices to the Host contract for offline rendering
// and playback. [Pool] recycles blocks without GC pressure.
package block
