// SPDX-License-Identifier: MIT
package dsp

import (
	"math"

	"scope/internal/render"
)

// MapY converts an 8-bit sample to a vertical pixel coordinate after
// applying the amplitude scale. The scaled value is clamped to the
// 0-255 range before mapping, so large scales saturate at the top row
// (y=0) and scales near zero sink to the bottom row (y=Height-1).
func MapY(sample byte, scale float64) int {
	scaled := float64(sample) * scale
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 255 {
		scaled = 255
	}

	// y axis is inverted: 255 maps to the top of the matrix.
	y := int(math.Round(float64(render.Height-1) - (scaled/255.0)*float64(render.Height-1)))
	if y < 0 {
		y = 0
	}
	if y > render.Height-1 {
		y = render.Height - 1
	}
	return y
}
