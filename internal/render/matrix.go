// SPDX-License-Identifier: MIT
/*
Package render implements the fixed-size output surface of the scope:
an 800x600 single-channel intensity matrix plus the line rasterizer
that connects waveform points into a continuous trace.

The matrix is row-major with y=0 as the top row. Cell values run from
0 (background) to 255 (drawn trace). All writes go through bounds-checked
accessors so the drawing code never has to carry its own range checks.
*/
package render

// Output surface dimensions. The display collaborator consumes exactly
// this geometry, so the values are fixed at compile time.
const (
	Width  = 800
	Height = 600
)

// Matrix is a flat, caller-owned Width x Height intensity buffer.
// The zero value is not usable; construct with NewMatrix or Wrap.
type Matrix struct {
	pix []byte
}

// NewMatrix allocates a cleared Width x Height matrix.
func NewMatrix() *Matrix {
	return &Matrix{pix: make([]byte, Width*Height)}
}

// Wrap builds a Matrix over caller-owned memory. The buffer must hold
// exactly Width*Height bytes; anything else returns false.
func Wrap(buf []byte) (*Matrix, bool) {
	if len(buf) != Width*Height {
		return nil, false
	}
	return &Matrix{pix: buf}, true
}

// Valid reports whether the matrix backing store has the declared geometry.
func (m *Matrix) Valid() bool {
	return m != nil && len(m.pix) == Width*Height
}

// At returns the intensity at (x, y), or 0 for out-of-range coordinates.
func (m *Matrix) At(x, y int) byte {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0
	}
	return m.pix[y*Width+x]
}

// Set writes the intensity at (x, y). Out-of-range coordinates are ignored.
func (m *Matrix) Set(x, y int, v byte) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	m.pix[y*Width+x] = v
}

// Clear resets every cell to the background value.
func (m *Matrix) Clear() {
	clear(m.pix)
}

// Pix exposes the row-major backing store for the display collaborator.
// The slice aliases the matrix; the caller must not resize it.
func (m *Matrix) Pix() []byte {
	return m.pix
}
