// SPDX-License-Identifier: MIT
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// WritePNG encodes the matrix as an 8-bit grayscale PNG.
func WritePNG(w io.Writer, m *Matrix) error {
	if !m.Valid() {
		return fmt.Errorf("render: cannot encode invalid matrix")
	}

	img := &image.Gray{
		Pix:    m.pix,
		Stride: Width,
		Rect:   image.Rect(0, 0, Width, Height),
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: png encode failed: %w", err)
	}
	return nil
}

// SavePNG writes the matrix to a grayscale PNG file at path.
func SavePNG(path string, m *Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	if err := WritePNG(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
