// SPDX-License-Identifier: MIT
// Package udp publishes rendered traces as compact binary packets for
// display clients that cannot afford JSON decoding per frame.
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	applog "scope/internal/log"
	"scope/internal/render"
	"scope/internal/transport"
)

// TraceSource yields the latest rendered trace. The engine implements
// it; dst receives one column height per matrix column.
type TraceSource interface {
	TraceInto(dst []uint16) (transport.TraceInfo, error)
}

// Publisher periodically fetches the latest trace, packs it into the
// binary packet format below and sends it through a Sender. Start and
// Stop manage the publishing goroutine.
type Publisher struct {
	sender   *Sender
	source   TraceSource
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex

	// Pre-allocated buffers for the packing hot path.
	traceBuffer  []uint16
	packetBuffer *bytes.Buffer
}

// NewPublisher creates a Publisher sending one packet per interval.
// Non-positive intervals default to 33ms.
func NewPublisher(interval time.Duration, sender *Sender, source TraceSource) (*Publisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("udp: publisher needs a sender")
	}
	if source == nil {
		return nil, fmt.Errorf("udp: publisher needs a trace source")
	}
	if interval <= 0 {
		interval = 33 * time.Millisecond
		applog.Warnf("Publisher: invalid interval, defaulting to %s", interval)
	}

	return &Publisher{
		sender:       sender,
		source:       source,
		interval:     interval,
		traceBuffer:  make([]uint16, render.Width),
		packetBuffer: new(bytes.Buffer),
	}, nil
}

// Start launches the publishing goroutine. Calling Start on a running
// publisher is a no-op.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("Publisher: Start called but already running")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Infof("Publisher: started (interval %s)", p.interval)
		for {
			select {
			case <-ticker.C:
				p.buildAndSendPacket()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the goroutine to exit and waits for it. Idempotent.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	applog.Infof("Publisher: stopped")
	return nil
}

/*
Trace packet layout (big-endian):

	sequence   uint32    frame sequence number
	timestamp  int64     nanoseconds since epoch
	detected   uint8     1 when the trigger matched
	position   uint32    trigger sample offset
	count      uint16    number of columns (N)
	columns    N*uint16  topmost lit y per column, 0xFFFF when empty
*/
func (p *Publisher) buildAndSendPacket() {
	info, err := p.source.TraceInto(p.traceBuffer)
	if err != nil {
		applog.Errorf("Publisher: fetch trace: %v", err)
		return
	}

	detected := uint8(0)
	if info.TriggerDetected {
		detected = 1
	}

	p.packetBuffer.Reset()
	err = binary.Write(p.packetBuffer, binary.BigEndian, info.Seq)
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, info.TimestampNs)
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, detected)
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, info.TriggerPosition)
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, uint16(len(p.traceBuffer)))
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, p.traceBuffer)
	}
	if err != nil {
		applog.Errorf("Publisher: pack packet: %v", err)
		return
	}

	if err := p.sender.Send(p.packetBuffer.Bytes()); err != nil {
		applog.Debugf("Publisher: send failed: %v", err)
		return
	}
	applog.Debugf("Publisher: sent frame %d (%d bytes)", info.Seq, p.packetBuffer.Len())
}

// Close stops the publisher; it satisfies io.Closer for the engine's
// shutdown list.
func (p *Publisher) Close() error {
	return p.Stop()
}
