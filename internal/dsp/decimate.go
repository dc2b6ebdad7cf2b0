// SPDX-License-Identifier: MIT
package dsp

import "scope/internal/render"

// pixelsToFill returns how many horizontal pixels the samples from
// start onward can cover at the given time scale, capped at the matrix
// width.
func pixelsToFill(length, start, samplesPerPixel int) int {
	n := (length - start) / samplesPerPixel
	if n > render.Width {
		n = render.Width
	}
	return n
}

// decimate reduces the run of up to samplesPerPixel samples beginning
// at index to a single averaged value. The run is truncated at the end
// of the buffer; an empty run falls back to the sample at index.
func decimate(data []byte, index, samplesPerPixel int) byte {
	var sum uint32
	count := 0
	for i := 0; i < samplesPerPixel && index+i < len(data); i++ {
		sum += uint32(data[index+i])
		count++
	}
	if count == 0 {
		return data[index]
	}
	return byte(sum / uint32(count))
}
