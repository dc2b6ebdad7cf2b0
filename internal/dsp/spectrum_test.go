// SPDX-License-Identifier: MIT
package dsp

import (
	"math"
	"testing"

	"scope/internal/render"
	"scope/pkg/utils"
)

func TestNewSpectrumRoundsToPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{1024, 1024},
		{1000, 1024},
		{4097, 8192},
	}

	for _, tt := range tests {
		if got := NewSpectrum(tt.in).Size(); got != tt.want {
			t.Errorf("NewSpectrum(%d).Size() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// A single-sample analyzer must still produce a finite window: the FFT
// length clamps to two so the Hann denominator never reaches zero.
func TestNewSpectrumMinimumSize(t *testing.T) {
	for _, size := range []int{-1, 0, 1} {
		s := NewSpectrum(size)
		if s.Size() != 2 {
			t.Errorf("NewSpectrum(%d).Size() = %d, want 2", size, s.Size())
		}

		s.Process([]byte{255})
		for i, v := range s.Magnitudes() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("NewSpectrum(%d) magnitude[%d] = %v, want finite", size, i, v)
			}
		}
	}
}

func TestSpectrumPeakBin(t *testing.T) {
	// 64 full cycles inside a 4096-sample window land in bin 64.
	s := NewSpectrum(4096)
	s.Process(utils.GenerateSine(4096, 64))

	if got := s.PeakBin(); got != 64 {
		t.Errorf("PeakBin() = %d, want 64", got)
	}
}

func TestSpectrumShortInputZeroPadded(t *testing.T) {
	s := NewSpectrum(4096)
	s.Process(utils.GenerateSine(2048, 64))

	// Half the window carries 32 cycles; the peak stays near bin 64 even
	// with spectral leakage from the padding edge.
	peak := s.PeakBin()
	if peak < 60 || peak > 68 {
		t.Errorf("PeakBin() = %d, want near 64", peak)
	}
}

func TestSpectrumRender(t *testing.T) {
	s := NewSpectrum(4096)
	s.Process(utils.GenerateSine(4096, 64))
	m := render.NewMatrix()

	if !s.Render(m) {
		t.Fatal("Render returned false")
	}

	lit := false
	for y := 0; y < render.Height && !lit; y++ {
		for x := 0; x < render.Width; x++ {
			if m.At(x, y) != 0 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("Render produced an empty matrix")
	}

	if s.Render(&render.Matrix{}) {
		t.Error("Render returned true for a zero-value matrix")
	}
}

func TestSpectrumFlatInput(t *testing.T) {
	s := NewSpectrum(1024)
	flat := make([]byte, 1024)
	for i := range flat {
		flat[i] = 128
	}
	s.Process(flat)

	m := render.NewMatrix()
	if !s.Render(m) {
		t.Error("Render returned false for a flat spectrum")
	}
}

func TestSpectrumProcessNoAllocations(t *testing.T) {
	s := NewSpectrum(4096)
	data := utils.GenerateSine(4096, 64)

	allocs := testing.AllocsPerRun(50, func() {
		s.Process(data)
	})
	if allocs != 0 {
		t.Errorf("Process allocated %v times per run, want 0", allocs)
	}
}

func BenchmarkSpectrumProcess(b *testing.B) {
	s := NewSpectrum(4096)
	data := utils.GenerateSine(4096, 64)

	b.ReportAllocs()
	for b.Loop() {
		s.Process(data)
	}
}
