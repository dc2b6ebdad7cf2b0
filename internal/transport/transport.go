// SPDX-License-Identifier: MIT
// Package transport publishes rendered frames to display clients. The
// WebSocket transport broadcasts JSON frames; the udp subpackage packs
// binary trace packets for low-latency consumers.
package transport

// Transport defines a generic interface for sending display updates.
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(data any) error
	Close() error
}

// Frame is one display update derived from a processed capture: the
// trace column heights plus the trigger outcome that aligned them.
type Frame struct {
	Seq             uint32   `json:"seq"`
	TimestampNs     int64    `json:"timestamp_ns"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	TriggerDetected bool     `json:"trigger_detected"`
	TriggerPosition int      `json:"trigger_position"`
	Trace           []uint16 `json:"trace"`
}

// EmptyColumn marks a trace column with no lit pixel.
const EmptyColumn = 0xFFFF

// TraceInfo carries the frame metadata alongside an extracted trace.
type TraceInfo struct {
	Seq             uint32
	TimestampNs     int64
	TriggerDetected bool
	TriggerPosition uint32
}
