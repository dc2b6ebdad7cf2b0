// SPDX-License-Identifier: MIT
package render

import (
	"bytes"
	"image/png"
	"testing"
)

func TestWritePNG(t *testing.T) {
	m := NewMatrix()
	DrawLine(m, 0, 0, Width-1, Height-1, 255)

	var buf bytes.Buffer
	if err := WritePNG(&buf, m); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != Width || bounds.Dy() != Height {
		t.Errorf("decoded size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), Width, Height)
	}

	if err := WritePNG(&buf, &Matrix{}); err == nil {
		t.Error("WritePNG accepted a zero-value matrix")
	}
}
