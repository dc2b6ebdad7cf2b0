// SPDX-License-Identifier: MIT
package render

// DrawLine rasterizes the segment (x1,y1)-(x2,y2) into the matrix using
// the integer Bresenham algorithm, writing value to every traversed cell.
//
// A segment is drawn only when both endpoints lie inside the matrix; if
// either endpoint is out of range the whole segment is skipped rather
// than clipped. The waveform loop only ever produces in-range endpoints,
// so partial clipping would hide a bug instead of handling a case.
func DrawLine(m *Matrix, x1, y1, x2, y2 int, value byte) {
	if x1 < 0 || x1 >= Width || x2 < 0 || x2 >= Width ||
		y1 < 0 || y1 >= Height || y2 < 0 || y2 >= Height {
		return
	}

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx - dy

	x, y := x1, y1
	for {
		m.Set(x, y, value)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
