// SPDX-License-Identifier: MIT
package capture

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// LoadWAV reads a WAV file and converts its first channel to the
// scope's unsigned 8-bit amplitude domain. Higher bit depths are
// truncated to their most significant byte and re-centered.
func LoadWAV(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("capture: %s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("capture: decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || len(buf.Data) == 0 {
		return nil, fmt.Errorf("capture: %s contains no samples", path)
	}

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	samples := make([]byte, frames)

	shift := uint(0)
	signed := true
	switch buf.SourceBitDepth {
	case 8:
		// 8-bit PCM is already unsigned.
		signed = false
	case 16:
		shift = 8
	case 24:
		shift = 16
	case 32:
		shift = 24
	default:
		return nil, fmt.Errorf("capture: unsupported bit depth %d in %s", buf.SourceBitDepth, path)
	}

	for i := 0; i < frames; i++ {
		v := buf.Data[i*channels] >> shift
		if signed {
			v += 128
		}
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		samples[i] = byte(v)
	}

	return samples, nil
}
