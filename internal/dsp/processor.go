// SPDX-License-Identifier: MIT
package dsp

import "scope/internal/render"

// Default configuration values for a freshly constructed Processor.
const (
	DefaultTriggerLevel    = 128 // mid-scale
	DefaultAmplitudeScale  = 1.0
	DefaultSamplesPerPixel = 1
)

// Trace intensity written for every rasterized cell. The rasterizer keeps
// intensity as a parameter, but the processor always draws at full
// brightness.
const traceValue = 255

// TriggerResult records the outcome of the trigger search performed by
// the most recent Process call.
type TriggerResult struct {
	Detected bool
	Position int
}

// Processor owns the scope configuration and drives one capture buffer
// through trigger search, decimation, amplitude mapping and
// rasterization into the output matrix.
//
// A Processor is not safe for concurrent use: the caller must ensure
// that only one Process call is in flight per instance and that the
// setters are not invoked during a call.
type Processor struct {
	triggerMode     TriggerMode
	triggerLevel    byte
	amplitudeScale  float64
	samplesPerPixel int

	lastTrigger TriggerResult
}

// NewProcessor returns a Processor with the power-on defaults: trigger
// off at mid-scale level, unity amplitude, one sample per pixel.
func NewProcessor() *Processor {
	return &Processor{
		triggerMode:     TriggerOff,
		triggerLevel:    DefaultTriggerLevel,
		amplitudeScale:  DefaultAmplitudeScale,
		samplesPerPixel: DefaultSamplesPerPixel,
	}
}

// SetTrigger configures the trigger mode and level.
func (p *Processor) SetTrigger(mode TriggerMode, level byte) {
	p.triggerMode = mode
	p.triggerLevel = level
}

// SetAmplitudeScale configures the vertical gain. Non-positive values
// are rejected and the previous scale is retained.
func (p *Processor) SetAmplitudeScale(scale float64) {
	if scale > 0 {
		p.amplitudeScale = scale
	}
}

// SetTimeScale configures how many samples each horizontal pixel
// represents. Values below one are rejected and the previous setting is
// retained.
func (p *Processor) SetTimeScale(samplesPerPixel int) {
	if samplesPerPixel >= 1 {
		p.samplesPerPixel = samplesPerPixel
	}
}

// TriggerMode returns the configured trigger mode.
func (p *Processor) TriggerMode() TriggerMode { return p.triggerMode }

// TriggerLevel returns the configured trigger level.
func (p *Processor) TriggerLevel() byte { return p.triggerLevel }

// AmplitudeScale returns the configured vertical gain.
func (p *Processor) AmplitudeScale() float64 { return p.amplitudeScale }

// SamplesPerPixel returns the configured time scale.
func (p *Processor) SamplesPerPixel() int { return p.samplesPerPixel }

// LastTrigger returns the trigger outcome of the most recent Process
// call. Position keeps its previous value across calls that do not
// detect a trigger.
func (p *Processor) LastTrigger() TriggerResult { return p.lastTrigger }

// CycleTrigger advances the trigger mode to the next front-panel
// position and returns the new mode.
func (p *Processor) CycleTrigger() TriggerMode {
	p.triggerMode = p.triggerMode.Next()
	return p.triggerMode
}

// AdjustAmplitude adds delta to the amplitude scale, subject to the
// same positivity rule as SetAmplitudeScale, and returns the resulting
// scale.
func (p *Processor) AdjustAmplitude(delta float64) float64 {
	p.SetAmplitudeScale(p.amplitudeScale + delta)
	return p.amplitudeScale
}

// Process renders one capture buffer into the matrix and reports
// success. The matrix is cleared on every call, including failing ones,
// so the display never shows a stale or partial trace.
//
// Failure cases: empty input, an invalid matrix, or too few samples
// after trigger alignment to fill a single pixel column. Failures are
// reported through the return value only; Process never panics.
func (p *Processor) Process(input []byte, m *render.Matrix) bool {
	if !m.Valid() {
		return false
	}
	m.Clear()

	if len(input) == 0 {
		return false
	}

	start := 0
	p.lastTrigger.Detected = false
	if p.triggerMode != TriggerOff {
		if pos, ok := FindTrigger(input, p.triggerMode, p.triggerLevel); ok {
			start = pos
			p.lastTrigger = TriggerResult{Detected: true, Position: pos}
		}
	}

	fill := pixelsToFill(len(input), start, p.samplesPerPixel)
	if fill == 0 {
		return false
	}

	// Column 0 anchors on the raw sample at the trigger point; every
	// following column is the decimated average of its sample run.
	prevY := MapY(input[start], p.amplitudeScale)
	for x := 1; x < fill; x++ {
		sampleIndex := start + x*p.samplesPerPixel
		if sampleIndex >= len(input) {
			break
		}

		y := MapY(decimate(input, sampleIndex, p.samplesPerPixel), p.amplitudeScale)
		render.DrawLine(m, x-1, prevY, x, y, traceValue)
		prevY = y
	}

	return true
}
