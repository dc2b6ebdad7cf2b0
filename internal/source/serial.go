// SPDX-License-Identifier: MIT
package source

import (
	"fmt"
	"io"

	"go.bug.st/serial"

	applog "scope/internal/log"
)

// Read command protocol of the external RAM: a fixed command byte
// followed by a big-endian 24-bit address, after which the device
// streams data bytes.
const (
	cmdRead   = 0x03
	addrBytes = 3

	// DefaultRAMSize is the vendor-defined address space of the capture
	// RAM. Addresses wrap around this size.
	DefaultRAMSize = 64 * 1024

	// DefaultBaudRate matches the bus bridge's fixed UART speed.
	DefaultBaudRate = 115200
)

// RAMReader reads capture memory over a serial bus bridge. It is the
// Go-side counterpart of the firmware's SPI RAM reader: same command
// byte, same big-endian 24-bit addressing, same size clamping.
type RAMReader struct {
	port   serial.Port
	size   uint32
	ready  bool
	cmdBuf [1 + addrBytes]byte
}

// OpenRAMReader opens the serial port and returns a ready RAMReader.
// size is the device address space in bytes; zero selects
// DefaultRAMSize.
func OpenRAMReader(portName string, baudRate int, size uint32) (*RAMReader, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	if size == 0 {
		size = DefaultRAMSize
	}

	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("source: open serial port %s: %w", portName, err)
	}

	applog.Infof("RAMReader: opened %s (%d baud, %d byte address space)", portName, baudRate, size)
	return &RAMReader{port: port, size: size, ready: true}, nil
}

// Ready reports whether the reader has an open port.
func (r *RAMReader) Ready() bool {
	return r.ready
}

// encodeReadCommand fills dst with the read command for addr: the
// command byte followed by the most significant address byte first.
func encodeReadCommand(dst []byte, addr uint32) {
	dst[0] = cmdRead
	for i := 0; i < addrBytes; i++ {
		dst[1+i] = byte(addr >> (8 * (addrBytes - 1 - i)))
	}
}

// ReadByte reads the single sample at addr.
func (r *RAMReader) ReadByte(addr uint32) (byte, error) {
	var b [1]byte
	if _, err := r.ReadBlock(addr, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBlock issues one read transaction starting at addr and fills buf
// from the device's response. The address wraps around the device size
// and the read length is clamped to the remaining space, mirroring the
// bus protocol.
func (r *RAMReader) ReadBlock(addr uint32, buf []byte) (int, error) {
	if !r.ready {
		return 0, ErrNotReady
	}
	if len(buf) == 0 {
		return 0, nil
	}

	addr %= r.size
	n := len(buf)
	if remaining := int(r.size - addr); n > remaining {
		n = remaining
	}

	encodeReadCommand(r.cmdBuf[:], addr)
	if _, err := r.port.Write(r.cmdBuf[:]); err != nil {
		return 0, fmt.Errorf("source: write read command: %w", err)
	}

	read, err := io.ReadFull(r.port, buf[:n])
	if err != nil {
		return read, fmt.Errorf("source: read %d bytes at 0x%06x: %w", n, addr, err)
	}
	return read, nil
}

// Close shuts the serial port down. Further reads return ErrNotReady.
func (r *RAMReader) Close() error {
	if !r.ready {
		return nil
	}
	r.ready = false
	if err := r.port.Close(); err != nil {
		return fmt.Errorf("source: close serial port: %w", err)
	}
	return nil
}

var _ SampleSource = (*RAMReader)(nil)
