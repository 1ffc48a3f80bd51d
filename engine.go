// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Engine executes the individual master primitives.
//
// Every primitive busy-waits for the interrupt flag until the deadline it is
// given expires. Non-Success outcomes are returned as-is; the only recovery
// done here is the stop following a NACK.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	h       Hardware
	clk     clock.Clock
	timeout time.Duration
}

// NewEngine returns an Engine driving h.
//
// timeout of 0 means DefaultTimeout. clk may be nil, in which case the
// wall clock is used.
func NewEngine(h Hardware, clk clock.Clock, timeout time.Duration) *Engine {
	if clk == nil {
		clk = clock.New()
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Engine{h: h, clk: clk, timeout: timeout}
}

// Hardware returns the driven peripheral.
func (e *Engine) Hardware() Hardware {
	return e.h
}

// SetTimeout sets the timeout used by Deadline.
func (e *Engine) SetTimeout(d time.Duration) {
	e.timeout = d
}

// DisableTimeout is a shorthand for SetTimeout(NoTimeout).
func (e *Engine) DisableTimeout() {
	e.timeout = NoTimeout
}

// Timeout returns the configured timeout.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

// Deadline returns a deadline starting now.
func (e *Engine) Deadline() Deadline {
	return NewDeadline(e.clk.Now(), e.timeout)
}

// SignalStart requests a start, or a repeated start when the bus is held.
func (e *Engine) SignalStart(d Deadline) Status {
	Arm(e.h, IntFlag|Start, 0)
	if !e.await(d) {
		return Timeout
	}
	return decode(e.h.Status(), CodeStart, CodeRepStart)
}

// SignalStopStart requests a stop immediately followed by a start, for
// devices that do not support repeated start.
func (e *Engine) SignalStopStart(d Deadline) Status {
	Arm(e.h, IntFlag|Stop|Start, 0)
	if !e.await(d) {
		return Timeout
	}
	return decode(e.h.Status(), CodeStart, CodeRepStart)
}

// SignalStop releases the bus. It does not wait.
func (e *Engine) SignalStop() {
	SignalStop(e.h)
}

// AcceptBusLost releases the interrupt flag after an arbitration loss
// without a stop; the bus belongs to the winning master.
func (e *Engine) AcceptBusLost() {
	AcknowledgeStatus(e.h)
}

// AddressForWriting sends SLA+W. Only the lower 7 bits of addr are used.
func (e *Engine) AddressForWriting(d Deadline, addr uint8) Status {
	return e.address(d, addr<<1, CodeMTSlaACK)
}

// AddressForReading sends SLA+R. Only the lower 7 bits of addr are used.
func (e *Engine) AddressForReading(d Deadline, addr uint8) Status {
	return e.address(d, addr<<1|1, CodeMRSlaACK)
}

func (e *Engine) address(d Deadline, sla byte, ok Code) Status {
	e.h.SetData(sla)
	Arm(e.h, IntFlag, 0)
	if !e.await(d) {
		return Timeout
	}
	s := decode(e.h.Status(), ok)
	if s == AddressNACK {
		e.SignalStop()
	}
	return s
}

// SendByte sends one byte.
func (e *Engine) SendByte(d Deadline, b byte) Status {
	e.h.SetData(b)
	Arm(e.h, IntFlag, 0)
	if !e.await(d) {
		return Timeout
	}
	s := decode(e.h.Status(), CodeMTDataACK)
	if s == DataNACK {
		e.SignalStop()
	}
	return s
}

// Send sends w, stopping at the first byte that did not succeed.
func (e *Engine) Send(d Deadline, w []byte) Status {
	for _, b := range w {
		if s := e.SendByte(d, b); s != Success {
			return s
		}
	}
	return Success
}

// ReceiveByte receives a single byte, signaling it is the last one.
func (e *Engine) ReceiveByte(d Deadline) (byte, Status) {
	var b [1]byte
	s := e.Receive(d, b[:])
	return b[0], s
}

// Receive fills r. Every byte is acknowledged except the last one.
//
// The Ack bit is restored to its value on entry unless the deadline
// expired, in which case the pending byte is left untouched.
func (e *Engine) Receive(d Deadline, r []byte) Status {
	if len(r) == 0 {
		return Success
	}
	ack := e.h.Control() & Ack
	for i := range r {
		ok := CodeMRDataACK
		if i == len(r)-1 {
			ok = CodeMRDataNACK
			Arm(e.h, IntFlag, Ack)
		} else {
			Arm(e.h, IntFlag|Ack, 0)
		}
		if !e.await(d) {
			return Timeout
		}
		if s := decode(e.h.Status(), ok); s != Success {
			e.restoreAck(ack)
			return s
		}
		r[i] = e.h.Data()
	}
	e.restoreAck(ack)
	return Success
}

func (e *Engine) restoreAck(ack Control) {
	if e.h.Control()&Ack == ack {
		return
	}
	if ack != 0 {
		setBits(e.h, Ack)
	} else {
		clearBits(e.h, Ack)
	}
}

// await polls the interrupt flag. It returns false when d expired.
func (e *Engine) await(d Deadline) bool {
	for e.h.Control()&IntFlag == 0 && !d.Expired(e.clk.Now()) {
	}
	return !d.Expired(e.clk.Now())
}
