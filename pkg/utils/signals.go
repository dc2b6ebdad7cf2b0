// SPDX-License-Identifier: MIT
// Package utils holds shared test helpers: synthetic waveform
// generators in the scope's 8-bit amplitude domain and a mock
// transport. The generators also back the synth sample source.
package utils

import "math"

// GenerateSine returns size samples of a sine wave centered at 128
// with the given period in samples.
func GenerateSine(size int, samplesPerCycle float64) []byte {
	buf := make([]byte, size)
	for i := range buf {
		v := math.Sin(2 * math.Pi * float64(i) / samplesPerCycle)
		buf[i] = byte(math.Round(127.5 + v*127.5))
	}
	return buf
}

// GenerateRamp returns size samples climbing linearly from 0 and
// wrapping at 256.
func GenerateRamp(size int) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(i)
	}
	return buf
}

// GenerateSquare returns size samples alternating between 0 and 255
// every half period.
func GenerateSquare(size int, samplesPerCycle float64) []byte {
	buf := make([]byte, size)
	half := samplesPerCycle / 2
	for i := range buf {
		if math.Mod(float64(i), samplesPerCycle) < half {
			buf[i] = 255
		}
	}
	return buf
}

// MockTransport records everything sent through it for inspection.
type MockTransport struct {
	Sent []any
}

// Send stores the payload instead of transmitting.
func (m *MockTransport) Send(data any) error {
	m.Sent = append(m.Sent, data)
	return nil
}

// Close is a no-op.
func (m *MockTransport) Close() error {
	return nil
}
