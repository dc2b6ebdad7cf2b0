// SPDX-License-Identifier: MIT
/*
Package scope wires the capture pipeline together: a sample source
feeds the dsp processor, the rendered matrix goes out to transports and
optionally to a WAV recorder.

The Engine serializes all access to the processor and matrix with its
own mutex; the dsp core itself stays lock-free per its contract. The
front-panel command surface (trigger cycling, address cycling,
amplitude adjustment) maps onto Engine methods.
*/
package scope

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"scope/internal/capture"
	"scope/internal/config"
	"scope/internal/dsp"
	applog "scope/internal/log"
	"scope/internal/render"
	"scope/internal/source"
	"scope/internal/transport"
)

// ErrProcessFailed reports that the processor rejected the capture
// buffer: empty input or too few samples after trigger alignment.
var ErrProcessFailed = errors.New("scope: processing failed")

// Display modes.
const (
	ModeWave     = "wave"
	ModeSpectrum = "spectrum"
)

// Engine owns one capture pipeline instance.
type Engine struct {
	cfg *config.Config
	src source.SampleSource

	mu         sync.Mutex
	proc       *dsp.Processor
	spectrum   *dsp.Spectrum
	matrix     *render.Matrix
	captureBuf []byte
	addr       uint32
	seq        uint32
	mode       string

	recorder   *capture.Recorder
	transports []transport.Transport

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	runMu    sync.Mutex
}

// NewEngine builds an engine around an already-opened sample source,
// applying the initial trigger and display settings from cfg.
func NewEngine(cfg *config.Config, src source.SampleSource) (*Engine, error) {
	if src == nil || !src.Ready() {
		return nil, fmt.Errorf("scope: sample source is not ready")
	}

	mode, ok := dsp.ParseTriggerMode(cfg.Trigger.Mode)
	if !ok {
		return nil, fmt.Errorf("scope: unknown trigger mode %q", cfg.Trigger.Mode)
	}
	if cfg.Capture.Mode != ModeWave && cfg.Capture.Mode != ModeSpectrum {
		return nil, fmt.Errorf("scope: unknown display mode %q", cfg.Capture.Mode)
	}

	proc := dsp.NewProcessor()
	proc.SetTrigger(mode, byte(cfg.Trigger.Level))
	proc.SetAmplitudeScale(cfg.Display.AmplitudeScale)
	proc.SetTimeScale(cfg.Display.SamplesPerPixel)

	return &Engine{
		cfg:        cfg,
		src:        src,
		proc:       proc,
		spectrum:   dsp.NewSpectrum(cfg.Capture.BlockSize),
		matrix:     render.NewMatrix(),
		captureBuf: make([]byte, cfg.Capture.BlockSize),
		addr:       cfg.Capture.Address,
		mode:       cfg.Capture.Mode,
	}, nil
}

// AddTransport registers a transport that receives one Frame per
// processed capture.
func (e *Engine) AddTransport(t transport.Transport) {
	e.mu.Lock()
	e.transports = append(e.transports, t)
	e.mu.Unlock()
}

// StartRecording begins appending captured blocks to a WAV file.
func (e *Engine) StartRecording(filename string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recorder != nil {
		return fmt.Errorf("scope: already recording")
	}
	r, err := capture.StartRecorder(filename, int(e.cfg.Source.SampleRate))
	if err != nil {
		return err
	}
	e.recorder = r
	applog.Infof("Engine: recording to %s", filename)
	return nil
}

// StopRecording finalizes the recording file, if one is open.
func (e *Engine) StopRecording() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recorder == nil {
		return nil
	}
	err := e.recorder.Close()
	e.recorder = nil
	return err
}

// CaptureFrame performs one unit of work: read a block from the source,
// record it if enabled, process it into the matrix and publish the
// resulting frame.
func (e *Engine) CaptureFrame() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.src.ReadBlock(e.addr, e.captureBuf)
	if err != nil {
		return fmt.Errorf("scope: capture read: %w", err)
	}
	block := e.captureBuf[:n]

	if e.recorder != nil {
		if err := e.recorder.Write(block); err != nil {
			applog.Warnf("Engine: recording write failed: %v", err)
		}
	}

	ok := false
	switch e.mode {
	case ModeSpectrum:
		e.spectrum.Process(block)
		ok = e.spectrum.Render(e.matrix)
	default:
		ok = e.proc.Process(block, e.matrix)
	}
	if !ok {
		return ErrProcessFailed
	}

	e.seq++
	e.publishLocked()
	return nil
}

// publishLocked sends the current frame to every transport. Callers
// hold e.mu.
func (e *Engine) publishLocked() {
	if len(e.transports) == 0 {
		return
	}

	trace := make([]uint16, render.Width)
	e.traceIntoLocked(trace)
	trig := e.proc.LastTrigger()

	frame := transport.Frame{
		Seq:             e.seq,
		TimestampNs:     time.Now().UnixNano(),
		Width:           render.Width,
		Height:          render.Height,
		TriggerDetected: trig.Detected,
		TriggerPosition: trig.Position,
		Trace:           trace,
	}
	for _, t := range e.transports {
		if err := t.Send(frame); err != nil {
			applog.Warnf("Engine: transport send failed: %v", err)
		}
	}
}

// traceIntoLocked extracts the topmost lit pixel per column into dst.
// Columns without a lit pixel are marked transport.EmptyColumn.
func (e *Engine) traceIntoLocked(dst []uint16) {
	for x := 0; x < render.Width && x < len(dst); x++ {
		dst[x] = transport.EmptyColumn
		for y := 0; y < render.Height; y++ {
			if e.matrix.At(x, y) != 0 {
				dst[x] = uint16(y)
				break
			}
		}
	}
}

// TraceInto implements udp.TraceSource: it fills dst with the latest
// trace and returns the matching frame metadata.
func (e *Engine) TraceInto(dst []uint16) (transport.TraceInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.traceIntoLocked(dst)
	trig := e.proc.LastTrigger()
	return transport.TraceInfo{
		Seq:             e.seq,
		TimestampNs:     time.Now().UnixNano(),
		TriggerDetected: trig.Detected,
		TriggerPosition: uint32(trig.Position),
	}, nil
}

// SavePNG writes the current matrix to a grayscale PNG file.
func (e *Engine) SavePNG(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return render.SavePNG(path, e.matrix)
}

// LastTrigger returns the trigger outcome of the most recent frame.
func (e *Engine) LastTrigger() dsp.TriggerResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.proc.LastTrigger()
}

// CycleTriggerMode advances the trigger mode, mirroring the front-panel
// trigger button, and returns the new mode.
func (e *Engine) CycleTriggerMode() dsp.TriggerMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	mode := e.proc.CycleTrigger()
	applog.Infof("Engine: trigger mode now %s", mode)
	return mode
}

// SetTriggerLevel updates the trigger level, keeping the current mode.
func (e *Engine) SetTriggerLevel(level byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.proc.SetTrigger(e.proc.TriggerMode(), level)
}

// AdjustAmplitude nudges the vertical gain by delta and returns the
// resulting scale. Adjustments that would make the scale non-positive
// are ignored.
func (e *Engine) AdjustAmplitude(delta float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	scale := e.proc.AdjustAmplitude(delta)
	applog.Infof("Engine: amplitude scale now %.2f", scale)
	return scale
}

// SetTimeScale updates the samples-per-pixel setting. Values below one
// are ignored.
func (e *Engine) SetTimeScale(samplesPerPixel int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.proc.SetTimeScale(samplesPerPixel)
}

// CycleAddress advances the capture start address by step, wrapping
// around the source address space, and returns the new address.
func (e *Engine) CycleAddress(step uint32) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	size := e.cfg.Source.RAMSize
	if size == 0 {
		size = config.DefaultRAMSize
	}
	e.addr = (e.addr + step) % size
	applog.Infof("Engine: capture address now 0x%06x", e.addr)
	return e.addr
}

// SetDisplayMode switches between the waveform and spectrum displays.
func (e *Engine) SetDisplayMode(mode string) error {
	if mode != ModeWave && mode != ModeSpectrum {
		return fmt.Errorf("scope: unknown display mode %q", mode)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
	return nil
}

// Run starts the periodic capture loop. Frames that fail to process
// are logged and skipped; the loop only stops via Stop or Close.
func (e *Engine) Run() {
	e.runMu.Lock()
	if e.ticker != nil {
		e.runMu.Unlock()
		applog.Warnf("Engine: Run called but already running")
		return
	}

	e.ticker = time.NewTicker(e.cfg.Capture.FrameInterval)
	e.doneChan = make(chan struct{})
	e.stopOnce = sync.Once{}

	ticker := e.ticker
	doneChan := e.doneChan
	e.runMu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		applog.Infof("Engine: capture loop started (interval %s)", e.cfg.Capture.FrameInterval)
		for {
			select {
			case <-ticker.C:
				if err := e.CaptureFrame(); err != nil {
					applog.Warnf("Engine: frame skipped: %v", err)
				}
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop halts the capture loop and waits for it to exit. Idempotent.
func (e *Engine) Stop() {
	e.runMu.Lock()
	if e.ticker == nil {
		e.runMu.Unlock()
		return
	}
	e.stopOnce.Do(func() {
		close(e.doneChan)
		e.ticker.Stop()
		e.ticker = nil
	})
	e.runMu.Unlock()

	e.wg.Wait()
	applog.Infof("Engine: capture loop stopped")
}

// Close stops the loop, finalizes any recording, closes transports and
// releases the sample source.
func (e *Engine) Close() error {
	e.Stop()

	var firstErr error
	if err := e.StopRecording(); err != nil {
		firstErr = err
	}

	e.mu.Lock()
	transports := e.transports
	e.transports = nil
	e.mu.Unlock()

	for _, t := range transports {
		if err := t.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := e.src.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
