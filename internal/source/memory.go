// SPDX-License-Identifier: MIT
package source

// MemorySource serves samples from an in-memory buffer with the same
// wrapping address space semantics as the hardware reader. It backs the
// synthetic waveform generators, WAV file input and tests.
type MemorySource struct {
	data  []byte
	ready bool
}

// NewMemorySource wraps data as an addressable sample store. The
// source aliases the slice; it does not copy.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{data: data, ready: len(data) > 0}
}

// Ready reports whether the source holds any samples.
func (s *MemorySource) Ready() bool {
	return s.ready
}

// ReadBlock fills buf starting at addr, wrapping around the end of the
// buffer. It always fills buf completely for a non-empty source.
func (s *MemorySource) ReadBlock(addr uint32, buf []byte) (int, error) {
	if !s.ready {
		return 0, ErrNotReady
	}

	pos := int(addr) % len(s.data)
	filled := 0
	for filled < len(buf) {
		n := copy(buf[filled:], s.data[pos:])
		filled += n
		pos = (pos + n) % len(s.data)
	}
	return filled, nil
}

// Close marks the source as unusable.
func (s *MemorySource) Close() error {
	s.ready = false
	s.data = nil
	return nil
}

var _ SampleSource = (*MemorySource)(nil)
