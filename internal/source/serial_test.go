// SPDX-License-Identifier: MIT
package source

import (
	"encoding/binary"
	"fmt"
	"testing"
	"time"

	"go.bug.st/serial"
)

func TestEncodeReadCommand(t *testing.T) {
	tests := []struct {
		addr uint32
		want [4]byte
	}{
		{0x000000, [4]byte{cmdRead, 0x00, 0x00, 0x00}},
		{0x000001, [4]byte{cmdRead, 0x00, 0x00, 0x01}},
		{0x0100FF, [4]byte{cmdRead, 0x01, 0x00, 0xFF}},
		{0xABCDEF, [4]byte{cmdRead, 0xAB, 0xCD, 0xEF}},
	}

	for _, tt := range tests {
		var dst [1 + addrBytes]byte
		encodeReadCommand(dst[:], tt.addr)
		if dst != tt.want {
			t.Errorf("encodeReadCommand(%#06x) = % x, want % x", tt.addr, dst, tt.want)
		}
	}
}

// fakePort emulates the bus bridge: a write of a read command positions
// the stream, subsequent reads serve memory content from there.
type fakePort struct {
	mem      []byte
	pos      int
	commands [][]byte
	closed   bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	if len(b) != 1+addrBytes || b[0] != cmdRead {
		return 0, fmt.Errorf("fakePort: malformed command % x", b)
	}
	cmd := make([]byte, len(b))
	copy(cmd, b)
	p.commands = append(p.commands, cmd)

	var addr [4]byte
	copy(addr[1:], b[1:])
	p.pos = int(binary.BigEndian.Uint32(addr[:]))
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	n := copy(b, p.mem[p.pos:])
	p.pos += n
	return n, nil
}

func (p *fakePort) Close() error                       { p.closed = true; return nil }
func (p *fakePort) SetMode(*serial.Mode) error         { return nil }
func (p *fakePort) SetDTR(bool) error                  { return nil }
func (p *fakePort) SetRTS(bool) error                  { return nil }
func (p *fakePort) SetReadTimeout(time.Duration) error { return nil }
func (p *fakePort) ResetInputBuffer() error            { return nil }
func (p *fakePort) ResetOutputBuffer() error           { return nil }
func (p *fakePort) Drain() error                       { return nil }
func (p *fakePort) Break(time.Duration) error          { return nil }

func (p *fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) { return nil, nil }

var _ serial.Port = (*fakePort)(nil)

func newTestReader(size uint32) (*RAMReader, *fakePort) {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = byte(i)
	}
	port := &fakePort{mem: mem}
	return &RAMReader{port: port, size: size, ready: true}, port
}

func TestRAMReaderReadBlock(t *testing.T) {
	r, port := newTestReader(1024)

	buf := make([]byte, 16)
	n, err := r.ReadBlock(100, buf)
	if err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if n != 16 {
		t.Fatalf("ReadBlock returned %d bytes, want 16", n)
	}
	for i, v := range buf {
		if v != byte(100+i) {
			t.Fatalf("buf[%d] = %d, want %d", i, v, byte(100+i))
		}
	}

	if len(port.commands) != 1 {
		t.Fatalf("bridge saw %d commands, want 1", len(port.commands))
	}
	want := []byte{cmdRead, 0x00, 0x00, 0x64}
	if string(port.commands[0]) != string(want) {
		t.Errorf("command = % x, want % x", port.commands[0], want)
	}
}

func TestRAMReaderAddressWrap(t *testing.T) {
	r, port := newTestReader(256)

	// Address beyond the device size wraps around.
	var b [1]byte
	if _, err := r.ReadBlock(256+10, b[:]); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if b[0] != 10 {
		t.Errorf("wrapped read = %d, want 10", b[0])
	}
	if got := port.commands[len(port.commands)-1]; got[3] != 10 {
		t.Errorf("command address byte = %d, want 10", got[3])
	}
}

func TestRAMReaderSizeClamp(t *testing.T) {
	r, _ := newTestReader(256)

	// A read that would run past the end is clamped to the remaining space.
	buf := make([]byte, 100)
	n, err := r.ReadBlock(200, buf)
	if err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if n != 56 {
		t.Errorf("ReadBlock returned %d bytes, want 56", n)
	}
}

func TestRAMReaderReadByte(t *testing.T) {
	r, _ := newTestReader(256)

	b, err := r.ReadByte(42)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if b != 42 {
		t.Errorf("ReadByte(42) = %d, want 42", b)
	}
}

func TestRAMReaderClose(t *testing.T) {
	r, port := newTestReader(256)

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !port.closed {
		t.Error("Close did not close the port")
	}
	if r.Ready() {
		t.Error("Ready() = true after Close")
	}
	if _, err := r.ReadBlock(0, make([]byte, 1)); err != ErrNotReady {
		t.Errorf("ReadBlock after Close = %v, want ErrNotReady", err)
	}
	// Second Close is a no-op.
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestRAMReaderEmptyBuffer(t *testing.T) {
	r, port := newTestReader(256)

	n, err := r.ReadBlock(0, nil)
	if err != nil || n != 0 {
		t.Errorf("ReadBlock(nil) = (%d, %v), want (0, nil)", n, err)
	}
	if len(port.commands) != 0 {
		t.Error("empty read issued a bus command")
	}
}
