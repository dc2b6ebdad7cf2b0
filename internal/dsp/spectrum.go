// SPDX-License-Identifier: MIT
package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"scope/internal/render"
	"scope/pkg/bitint"
)

// Spectrum computes the magnitude spectrum of a capture buffer and
// renders it into the output matrix, giving the scope a frequency-domain
// display mode alongside the waveform trace.
//
// All working buffers are pre-allocated at construction; Process runs
// without allocations.
type Spectrum struct {
	size   int
	fftObj *fourier.FFT

	input  []float64    // centered, windowed input samples
	coeffs []complex128 // FFT output
	mags   []float64    // magnitude per bin
	window []float64    // Hann window coefficients
}

// NewSpectrum creates a spectrum analyzer for capture buffers of up to
// size samples. The FFT length is rounded up to the next power of two,
// with a minimum of two so the window denominator stays non-zero;
// shorter inputs are zero-padded.
func NewSpectrum(size int) *Spectrum {
	n := bitint.NextPowerOfTwo(size)
	if n < 2 {
		n = 2
	}

	window := make([]float64, n)
	for i := range n {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	bins := n/2 + 1
	return &Spectrum{
		size:   n,
		fftObj: fourier.NewFFT(n),
		input:  make([]float64, n),
		coeffs: make([]complex128, bins),
		mags:   make([]float64, bins),
		window: window,
	}
}

// Size returns the FFT length in samples.
func (s *Spectrum) Size() int { return s.size }

// Process computes the magnitude spectrum of the sample buffer. Samples
// are centered around the 128 midpoint and Hann-windowed before the
// transform; input beyond the FFT length is ignored, shorter input is
// zero-padded.
func (s *Spectrum) Process(samples []byte) {
	for i := range s.size {
		if i < len(samples) {
			s.input[i] = (float64(samples[i]) - 128.0) / 128.0 * s.window[i]
		} else {
			s.input[i] = 0
		}
	}

	s.fftObj.Coefficients(s.coeffs, s.input)
	for i := range s.coeffs {
		s.mags[i] = cmplx.Abs(s.coeffs[i])
	}
}

// Magnitudes returns the magnitude per frequency bin from the most
// recent Process call. The slice aliases internal state and is only
// valid until the next call.
func (s *Spectrum) Magnitudes() []float64 {
	return s.mags
}

// PeakBin returns the bin index with the largest magnitude, skipping
// the DC bin.
func (s *Spectrum) PeakBin() int {
	peak := 1
	for i := 2; i < len(s.mags); i++ {
		if s.mags[i] > s.mags[peak] {
			peak = i
		}
	}
	return peak
}

// Render draws the magnitude spectrum into the matrix as a connected
// trace, bins resampled across the full width and normalized to the
// strongest bin. The matrix is cleared first, mirroring the waveform
// path.
func (s *Spectrum) Render(m *render.Matrix) bool {
	if !m.Valid() {
		return false
	}
	m.Clear()

	if len(s.mags) < 2 {
		return false
	}

	max := 0.0
	for _, v := range s.mags {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1 // flat spectrum still renders a baseline
	}

	prevY := s.binY(0, max)
	for x := 1; x < render.Width; x++ {
		bin := x * (len(s.mags) - 1) / (render.Width - 1)
		y := s.binY(bin, max)
		render.DrawLine(m, x-1, prevY, x, y, traceValue)
		prevY = y
	}
	return true
}

func (s *Spectrum) binY(bin int, max float64) int {
	y := int(math.Round(float64(render.Height-1) - s.mags[bin]/max*float64(render.Height-1)))
	if y < 0 {
		y = 0
	}
	if y > render.Height-1 {
		y = render.Height - 1
	}
	return y
}
