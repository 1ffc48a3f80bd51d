// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

import (
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
)

// BusLostBehaviour selects what a composite operation does when another
// master wins arbitration.
type BusLostBehaviour int8

const (
	// Abort releases the interrupt flag and returns BusLost.
	Abort BusLostBehaviour = iota
	// RetryWithinTimeout restarts the operation with the original deadline.
	RetryWithinTimeout
	// RetryExtendingTimeout restarts the operation with a new deadline.
	RetryExtendingTimeout
)

func (b BusLostBehaviour) String() string {
	switch b {
	case Abort:
		return "Abort"
	case RetryWithinTimeout:
		return "RetryWithinTimeout"
	case RetryExtendingTimeout:
		return "RetryExtendingTimeout"
	default:
		return "BusLostBehaviour(" + strconv.Itoa(int(b)) + ")"
	}
}

// Opts configures a Master.
type Opts struct {
	// Timeout bounds a whole composite operation. 0 means DefaultTimeout,
	// NoTimeout disables it.
	Timeout time.Duration
	// BusLost is the arbitration loss policy.
	BusLost BusLostBehaviour
	// Clock is used to compute deadlines. nil means the wall clock.
	Clock clock.Clock
}

// DefaultOpts is the recommended configuration.
var DefaultOpts = Opts{
	Timeout: DefaultTimeout,
	BusLost: Abort,
}

// Master runs composite transactions over an Engine and applies the
// arbitration loss policy.
//
// Only BusLost is retried. Every other non-Success status is returned to
// the caller immediately with the bus left as the Engine left it.
//
// A Master is not safe for concurrent use; see Bus for a locked wrapper.
type Master struct {
	e       *Engine
	busLost BusLostBehaviour
}

// New returns a Master driving h.
//
// opts may be nil, in which case DefaultOpts is used.
func New(h Hardware, opts *Opts) *Master {
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Master{
		e:       NewEngine(h, opts.Clock, opts.Timeout),
		busLost: opts.BusLost,
	}
}

// Engine returns the underlying Engine, to issue primitives directly.
func (m *Master) Engine() *Engine {
	return m.e
}

// SetBusLostBehaviour changes the arbitration loss policy.
func (m *Master) SetBusLostBehaviour(b BusLostBehaviour) {
	m.busLost = b
}

// BusLostBehaviour returns the arbitration loss policy.
func (m *Master) BusLostBehaviour() BusLostBehaviour {
	return m.busLost
}

// SetTimeout sets the timeout of composite operations.
func (m *Master) SetTimeout(d time.Duration) {
	m.e.SetTimeout(d)
}

// DisableTimeout removes the timeout of composite operations.
func (m *Master) DisableTimeout() {
	m.e.DisableTimeout()
}

// SignalStop releases the bus.
func (m *Master) SignalStop() {
	m.e.SignalStop()
}

// ClearError leaves the bus error state reported as Error.
func (m *Master) ClearError() {
	ClearError(m.e.h)
}

// Send writes w to the device at addr: start, SLA+W, data, then stop if
// requested.
func (m *Master) Send(addr uint8, w []byte, stop bool) Status {
	return m.run(stop, func(d Deadline) Status {
		if s := m.e.SignalStart(d); s != Success {
			return s
		}
		if s := m.e.AddressForWriting(d, addr); s != Success {
			return s
		}
		return m.e.Send(d, w)
	})
}

// SendByte writes a single byte to the device at addr.
func (m *Master) SendByte(addr uint8, b byte, stop bool) Status {
	w := [1]byte{b}
	return m.Send(addr, w[:], stop)
}

// Receive fills r from the device at addr: start, SLA+R, data, then stop
// if requested.
func (m *Master) Receive(addr uint8, r []byte, stop bool) Status {
	return m.run(stop, func(d Deadline) Status {
		if s := m.e.SignalStart(d); s != Success {
			return s
		}
		if s := m.e.AddressForReading(d, addr); s != Success {
			return s
		}
		return m.e.Receive(d, r)
	})
}

// ReceiveByte reads a single byte from the device at addr.
func (m *Master) ReceiveByte(addr uint8, stop bool) (byte, Status) {
	var r [1]byte
	s := m.Receive(addr, r[:], stop)
	return r[0], s
}

// ReceiveRegister writes reg to the device at addr then reads r back.
//
// When repeatStart is false a stop-start is used between the two parts,
// for devices that do not support repeated start.
func (m *Master) ReceiveRegister(addr, reg uint8, r []byte, repeatStart, stop bool) Status {
	return m.run(stop, func(d Deadline) Status {
		if s := m.e.SignalStart(d); s != Success {
			return s
		}
		if s := m.e.AddressForWriting(d, addr); s != Success {
			return s
		}
		if s := m.e.SendByte(d, reg); s != Success {
			return s
		}
		var s Status
		if repeatStart {
			s = m.e.SignalStart(d)
		} else {
			s = m.e.SignalStopStart(d)
		}
		if s != Success {
			return s
		}
		if s := m.e.AddressForReading(d, addr); s != Success {
			return s
		}
		return m.e.Receive(d, r)
	})
}

// ReceiveRegisterByte reads the single byte register reg.
func (m *Master) ReceiveRegisterByte(addr, reg uint8, repeatStart, stop bool) (byte, Status) {
	var r [1]byte
	s := m.ReceiveRegister(addr, reg, r[:], repeatStart, stop)
	return r[0], s
}

// Tx writes w then reads r with a repeated start in between. Either may be
// empty; when both are, the device is only addressed.
func (m *Master) Tx(addr uint8, w, r []byte, stop bool) Status {
	return m.run(stop, func(d Deadline) Status {
		if s := m.e.SignalStart(d); s != Success {
			return s
		}
		if len(w) != 0 || len(r) == 0 {
			if s := m.e.AddressForWriting(d, addr); s != Success {
				return s
			}
			if s := m.e.Send(d, w); s != Success {
				return s
			}
			if len(r) == 0 {
				return Success
			}
			if s := m.e.SignalStart(d); s != Success {
				return s
			}
		}
		if s := m.e.AddressForReading(d, addr); s != Success {
			return s
		}
		return m.e.Receive(d, r)
	})
}

// run executes tx under a single deadline, restarting it on BusLost as
// configured.
func (m *Master) run(stop bool, tx func(d Deadline) Status) Status {
	d := m.e.Deadline()
	for {
		s := tx(d)
		if s == Success {
			if stop {
				m.e.SignalStop()
			}
			return Success
		}
		if s != BusLost {
			return s
		}
		switch m.busLost {
		case RetryExtendingTimeout:
			d = m.e.Deadline()
		case RetryWithinTimeout:
		default:
			m.e.AcceptBusLost()
			return BusLost
		}
	}
}
