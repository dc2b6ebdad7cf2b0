// SPDX-License-Identifier: MIT
/*
Package source provides the sample-source collaborators that feed the
scope core: the serial RAM reader, live audio capture, in-memory
buffers, and device enumeration.

Every source exposes the same addressed block-read surface the hardware
bus reader offers: a readiness query plus ReadBlock over a wrapping
address space. The core never learns which physical source filled the
capture buffer.
*/
package source

import "errors"

// ErrNotReady is returned when a source is used before initialization
// or after Close.
var ErrNotReady = errors.New("source: not ready")

// SampleSource supplies raw 8-bit amplitude samples from an addressable
// store. Reads are blocking with a fixed cost per byte; timeouts and
// cancellation belong to the caller.
type SampleSource interface {
	// Ready reports whether the source can serve reads.
	Ready() bool

	// ReadBlock fills buf with samples starting at addr and returns the
	// number of bytes read. Addresses wrap around the source's address
	// space.
	ReadBlock(addr uint32, buf []byte) (int, error)

	// Close releases the underlying device or buffer.
	Close() error
}
