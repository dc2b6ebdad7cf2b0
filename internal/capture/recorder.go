// SPDX-License-Identifier: MIT
/*
Package capture handles persistence of raw sample buffers: recording
captured blocks to WAV files and loading WAV files back as sample
buffers for offline processing.

The scope's amplitude domain is unsigned 8-bit, which maps directly to
8-bit PCM, so recordings round-trip without rescaling.
*/
package capture

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const recordBitDepth = 8

// Recorder appends captured sample blocks to a mono 8-bit WAV file.
// Write and Close are safe to call from different goroutines than the
// one that created the Recorder.
type Recorder struct {
	file      *os.File
	encoder   *wav.Encoder
	sampleBuf *audio.IntBuffer
	recording int32
}

// StartRecorder creates filename and returns a Recorder writing mono
// 8-bit PCM at the given sample rate.
func StartRecorder(filename string, sampleRate int) (*Recorder, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("capture: create recording file: %w", err)
	}

	r := &Recorder{
		file:    file,
		encoder: wav.NewEncoder(file, sampleRate, recordBitDepth, 1, 1),
		sampleBuf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 1,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: recordBitDepth,
		},
	}
	atomic.StoreInt32(&r.recording, 1)
	return r, nil
}

// Recording reports whether the recorder still accepts writes.
func (r *Recorder) Recording() bool {
	return atomic.LoadInt32(&r.recording) == 1
}

// Write appends one captured block to the file.
func (r *Recorder) Write(samples []byte) error {
	if atomic.LoadInt32(&r.recording) == 0 {
		return fmt.Errorf("capture: recorder is closed")
	}

	if cap(r.sampleBuf.Data) < len(samples) {
		r.sampleBuf.Data = make([]int, len(samples))
	}
	r.sampleBuf.Data = r.sampleBuf.Data[:len(samples)]
	for i, s := range samples {
		r.sampleBuf.Data[i] = int(s)
	}

	if err := r.encoder.Write(r.sampleBuf); err != nil {
		return fmt.Errorf("capture: write recording block: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the file. Close is
// idempotent.
func (r *Recorder) Close() error {
	if !atomic.CompareAndSwapInt32(&r.recording, 1, 0) {
		return nil
	}

	if err := r.encoder.Close(); err != nil {
		r.file.Close()
		return fmt.Errorf("capture: finalize recording: %w", err)
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("capture: close recording file: %w", err)
	}
	return nil
}
