// SPDX-License-Identifier: MIT
package scope

import (
	"fmt"

	"scope/internal/capture"
	"scope/internal/config"
	"scope/internal/source"
	"scope/pkg/utils"
)

// Frames per buffer for live audio capture; small enough to keep the
// ring fresh between frames.
const audioFramesPerBuffer = 512

// OpenSource builds the sample source selected by cfg.Source.Kind.
// For "audio", source.Initialize must already have been called.
func OpenSource(cfg *config.Config) (source.SampleSource, error) {
	s := cfg.Source
	switch s.Kind {
	case "serial":
		if s.SerialPort == "" {
			return nil, fmt.Errorf("scope: serial source needs a port (--port)")
		}
		return source.OpenRAMReader(s.SerialPort, s.BaudRate, s.RAMSize)

	case "audio":
		return source.NewAudioSource(s.DeviceID, s.SampleRate, audioFramesPerBuffer, int(s.RAMSize))

	case "wav":
		if s.WAVPath == "" {
			return nil, fmt.Errorf("scope: wav source needs a file (--wav)")
		}
		samples, err := capture.LoadWAV(s.WAVPath)
		if err != nil {
			return nil, err
		}
		return source.NewMemorySource(samples), nil

	case "synth":
		size := int(s.RAMSize)
		if size <= 0 {
			size = config.DefaultRAMSize
		}
		var samples []byte
		switch s.SynthWave {
		case "sine":
			samples = utils.GenerateSine(size, s.SynthCycle)
		case "ramp":
			samples = utils.GenerateRamp(size)
		case "square":
			samples = utils.GenerateSquare(size, s.SynthCycle)
		default:
			return nil, fmt.Errorf("scope: unknown synth waveform %q", s.SynthWave)
		}
		return source.NewMemorySource(samples), nil

	default:
		return nil, fmt.Errorf("scope: unknown source kind %q", s.Kind)
	}
}
