// SPDX-License-Identifier: MIT
package source

import "testing"

func TestMemorySourceReadBlock(t *testing.T) {
	s := NewMemorySource([]byte{1, 2, 3, 4, 5})

	buf := make([]byte, 3)
	n, err := s.ReadBlock(1, buf)
	if err != nil || n != 3 {
		t.Fatalf("ReadBlock = (%d, %v), want (3, nil)", n, err)
	}
	if buf[0] != 2 || buf[1] != 3 || buf[2] != 4 {
		t.Errorf("ReadBlock filled % d, want [2 3 4]", buf)
	}
}

func TestMemorySourceWraparound(t *testing.T) {
	s := NewMemorySource([]byte{10, 20, 30})

	// A read larger than the store wraps and keeps filling.
	buf := make([]byte, 7)
	n, err := s.ReadBlock(2, buf)
	if err != nil || n != 7 {
		t.Fatalf("ReadBlock = (%d, %v), want (7, nil)", n, err)
	}
	want := []byte{30, 10, 20, 30, 10, 20, 30}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf = % d, want % d", buf, want)
		}
	}

	// Addresses beyond the store wrap as well.
	var b [1]byte
	if _, err := s.ReadBlock(4, b[:]); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if b[0] != 20 {
		t.Errorf("wrapped read = %d, want 20", b[0])
	}
}

func TestMemorySourceClose(t *testing.T) {
	s := NewMemorySource([]byte{1})
	if !s.Ready() {
		t.Fatal("Ready() = false for non-empty source")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if s.Ready() {
		t.Error("Ready() = true after Close")
	}
	if _, err := s.ReadBlock(0, make([]byte, 1)); err != ErrNotReady {
		t.Errorf("ReadBlock after Close = %v, want ErrNotReady", err)
	}
}

func TestMemorySourceEmpty(t *testing.T) {
	s := NewMemorySource(nil)
	if s.Ready() {
		t.Error("Ready() = true for empty source")
	}
	if _, err := s.ReadBlock(0, make([]byte, 1)); err != ErrNotReady {
		t.Errorf("ReadBlock = %v, want ErrNotReady", err)
	}
}
