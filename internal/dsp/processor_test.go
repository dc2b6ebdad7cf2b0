// SPDX-License-Identifier: MIT
package dsp

import (
	"testing"

	"scope/internal/render"
)

func rampSamples(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

func litColumns(m *render.Matrix) int {
	cols := 0
	for x := 0; x < render.Width; x++ {
		for y := 0; y < render.Height; y++ {
			if m.At(x, y) != 0 {
				cols++
				break
			}
		}
	}
	return cols
}

func TestProcessorDefaults(t *testing.T) {
	p := NewProcessor()

	if p.TriggerMode() != TriggerOff {
		t.Errorf("TriggerMode() = %v, want %v", p.TriggerMode(), TriggerOff)
	}
	if p.TriggerLevel() != DefaultTriggerLevel {
		t.Errorf("TriggerLevel() = %d, want %d", p.TriggerLevel(), DefaultTriggerLevel)
	}
	if p.AmplitudeScale() != DefaultAmplitudeScale {
		t.Errorf("AmplitudeScale() = %v, want %v", p.AmplitudeScale(), DefaultAmplitudeScale)
	}
	if p.SamplesPerPixel() != DefaultSamplesPerPixel {
		t.Errorf("SamplesPerPixel() = %d, want %d", p.SamplesPerPixel(), DefaultSamplesPerPixel)
	}
}

func TestProcessorSetterRejection(t *testing.T) {
	p := NewProcessor()

	p.SetAmplitudeScale(2.5)
	p.SetAmplitudeScale(0)
	p.SetAmplitudeScale(-1)
	if p.AmplitudeScale() != 2.5 {
		t.Errorf("AmplitudeScale() = %v after invalid sets, want 2.5", p.AmplitudeScale())
	}

	p.SetTimeScale(4)
	p.SetTimeScale(0)
	p.SetTimeScale(-3)
	if p.SamplesPerPixel() != 4 {
		t.Errorf("SamplesPerPixel() = %d after invalid sets, want 4", p.SamplesPerPixel())
	}
}

func TestProcessorAdjustAmplitude(t *testing.T) {
	p := NewProcessor()

	if got := p.AdjustAmplitude(0.5); got != 1.5 {
		t.Errorf("AdjustAmplitude(0.5) = %v, want 1.5", got)
	}
	// Dropping to zero or below keeps the previous gain.
	if got := p.AdjustAmplitude(-1.5); got != 1.5 {
		t.Errorf("AdjustAmplitude(-1.5) = %v, want 1.5", got)
	}
}

func TestProcessRampFillsWidth(t *testing.T) {
	p := NewProcessor()
	m := render.NewMatrix()

	if !p.Process(rampSamples(1024), m) {
		t.Fatal("Process returned false for a full ramp buffer")
	}
	if got := litColumns(m); got != render.Width {
		t.Errorf("lit columns = %d, want %d", got, render.Width)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	p := NewProcessor()
	m := render.NewMatrix()

	if p.Process(nil, m) {
		t.Error("Process(nil) returned true")
	}
	if p.Process([]byte{}, m) {
		t.Error("Process(empty) returned true")
	}
}

func TestProcessInvalidMatrix(t *testing.T) {
	p := NewProcessor()

	if p.Process(rampSamples(100), &render.Matrix{}) {
		t.Error("Process returned true for a zero-value matrix")
	}
}

// A failing Process call must still leave the matrix cleared, never a
// stale trace from the previous frame.
func TestProcessClearsOnFailure(t *testing.T) {
	p := NewProcessor()
	m := render.NewMatrix()

	if !p.Process(rampSamples(1024), m) {
		t.Fatal("setup Process failed")
	}
	if litColumns(m) == 0 {
		t.Fatal("setup produced an empty matrix")
	}

	if p.Process(nil, m) {
		t.Fatal("Process(nil) returned true")
	}
	if got := litColumns(m); got != 0 {
		t.Errorf("matrix has %d lit columns after failed Process, want 0", got)
	}
}

func TestProcessTriggerAlignment(t *testing.T) {
	// Flat at 10 for 100 samples, then a rising step to 200.
	data := make([]byte, 1024)
	for i := range data {
		if i < 100 {
			data[i] = 10
		} else {
			data[i] = 200
		}
	}

	p := NewProcessor()
	p.SetTrigger(TriggerRising, 128)
	m := render.NewMatrix()

	if !p.Process(data, m) {
		t.Fatal("Process returned false")
	}

	trig := p.LastTrigger()
	if !trig.Detected || trig.Position != 100 {
		t.Fatalf("LastTrigger() = %+v, want detected at 100", trig)
	}

	// Aligned on the step, column 0 starts at the high level.
	wantY := MapY(200, 1.0)
	if m.At(0, wantY) == 0 {
		t.Errorf("column 0 not lit at y=%d after trigger alignment", wantY)
	}
}

func TestProcessTriggerMissKeepsPosition(t *testing.T) {
	p := NewProcessor()
	p.SetTrigger(TriggerRising, 128)
	m := render.NewMatrix()

	step := []byte{10, 10, 200, 200, 200, 200}
	if !p.Process(step, m) {
		t.Fatal("Process returned false")
	}
	if trig := p.LastTrigger(); !trig.Detected || trig.Position != 2 {
		t.Fatalf("LastTrigger() = %+v, want detected at 2", trig)
	}

	// No crossing in this buffer: Detected drops, Position stays.
	flat := []byte{10, 10, 10, 10}
	if !p.Process(flat, m) {
		t.Fatal("Process returned false for flat buffer")
	}
	if trig := p.LastTrigger(); trig.Detected || trig.Position != 2 {
		t.Errorf("LastTrigger() = %+v, want not detected with position 2", trig)
	}
}

func TestProcessTimeScaleDecimation(t *testing.T) {
	p := NewProcessor()
	p.SetTimeScale(4)
	m := render.NewMatrix()

	// 4096 samples at 4 samples/pixel cover 1024 columns, capped at 800.
	if !p.Process(rampSamples(4096), m) {
		t.Fatal("Process returned false")
	}
	if got := litColumns(m); got != render.Width {
		t.Errorf("lit columns = %d, want %d", got, render.Width)
	}

	// 100 samples only cover 25 columns.
	if !p.Process(rampSamples(100), m) {
		t.Fatal("Process returned false")
	}
	if got := litColumns(m); got != 25 {
		t.Errorf("lit columns = %d, want 25", got)
	}
}

func TestProcessTooFewSamplesAfterTrigger(t *testing.T) {
	p := NewProcessor()
	p.SetTimeScale(16)
	m := render.NewMatrix()

	// 8 samples at 16 samples/pixel fill zero columns.
	if p.Process(rampSamples(8), m) {
		t.Error("Process returned true with no columns to fill")
	}
}

// The hot path must not allocate: the processor works entirely on the
// caller's buffer and matrix.
func TestProcessNoAllocations(t *testing.T) {
	p := NewProcessor()
	p.SetTrigger(TriggerRising, 128)
	m := render.NewMatrix()
	data := rampSamples(4096)

	allocs := testing.AllocsPerRun(100, func() {
		p.Process(data, m)
	})
	if allocs != 0 {
		t.Errorf("Process allocated %v times per run, want 0", allocs)
	}
}

func BenchmarkProcess(b *testing.B) {
	p := NewProcessor()
	p.SetTrigger(TriggerRising, 128)
	m := render.NewMatrix()
	data := rampSamples(4096)

	b.ReportAllocs()
	for b.Loop() {
		p.Process(data, m)
	}
}
