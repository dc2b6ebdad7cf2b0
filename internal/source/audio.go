// SPDX-License-Identifier: MIT
package source

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	applog "scope/internal/log"
)

// AudioSource captures live samples from an audio input device and
// exposes them through the addressed block-read surface. Incoming int32
// frames are quantized to the scope's 8-bit amplitude range and written
// into a ring buffer that stands in for capture RAM.
type AudioSource struct {
	stream *portaudio.Stream

	mu    sync.Mutex
	ring  []byte
	head  int
	ready bool
}

// NewAudioSource opens an input stream on the given device and starts
// filling a ringSize-byte capture ring. Initialize must have been
// called first.
func NewAudioSource(deviceID int, sampleRate float64, framesPerBuffer, ringSize int) (*AudioSource, error) {
	if ringSize <= 0 {
		ringSize = DefaultRAMSize
	}

	device, err := inputDevice(deviceID)
	if err != nil {
		return nil, err
	}

	s := &AudioSource{ring: make([]byte, ringSize)}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: 1,
			Device:   device,
			Latency:  device.DefaultHighInputLatency,
		},
		FramesPerBuffer: framesPerBuffer,
		SampleRate:      sampleRate,
	}

	stream, err := portaudio.OpenStream(params, s.capture)
	if err != nil {
		return nil, fmt.Errorf("source: open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("source: start audio stream: %w", err)
	}

	s.stream = stream
	s.ready = true
	applog.Infof("AudioSource: capturing from %q at %.0f Hz into %d byte ring", device.Name, sampleRate, ringSize)
	return s, nil
}

// capture is the stream callback. It quantizes each signed 32-bit
// sample to the unsigned 8-bit amplitude domain and advances the ring
// head.
func (s *AudioSource) capture(in []int32) {
	s.mu.Lock()
	for _, sample := range in {
		s.ring[s.head] = byte(int(sample>>24) + 128)
		s.head = (s.head + 1) % len(s.ring)
	}
	s.mu.Unlock()
}

// Ready reports whether the stream is running.
func (s *AudioSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// ReadBlock copies samples from the capture ring starting at addr,
// wrapping around the ring size.
func (s *AudioSource) ReadBlock(addr uint32, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return 0, ErrNotReady
	}

	pos := int(addr) % len(s.ring)
	filled := 0
	for filled < len(buf) {
		n := copy(buf[filled:], s.ring[pos:])
		filled += n
		pos = (pos + n) % len(s.ring)
	}
	return filled, nil
}

// Close stops and closes the audio stream.
func (s *AudioSource) Close() error {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return nil
	}
	s.ready = false
	s.mu.Unlock()

	if err := s.stream.Stop(); err != nil {
		s.stream.Close()
		return fmt.Errorf("source: stop audio stream: %w", err)
	}
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("source: close audio stream: %w", err)
	}
	return nil
}

var _ SampleSource = (*AudioSource)(nil)
