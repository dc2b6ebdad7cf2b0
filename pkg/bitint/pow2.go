// SPDX-License-Identifier: MIT
// Package bitint provides power-of-two helpers used to size FFT
// windows for the spectrum display mode. All operations are O(1),
// allocation-free and branch only on the sign check.
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of two >= size. Exact
// powers of two are preserved; non-positive input yields 1.
//
// The size-1 subtraction keeps exact powers from doubling: for 8,
// bits.Len64(7) is 3 and 1<<3 is 8 again.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len64(uint64(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of two. Powers of
// two have a single set bit, so n&(n-1) clears it to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
