// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

import (
	"fmt"
	"sync"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
)

// BusOpts configures a Bus.
type BusOpts struct {
	// CPU is the peripheral clock. 0 means 16MHz.
	CPU physic.Frequency
	// SCL and SDA are the bus pins, if known. nil means gpio.INVALID.
	SCL gpio.PinIO
	SDA gpio.PinIO
}

// Bus exposes a Master as a periph i2c bus.
//
// Transactions are serialized. On a failure that leaves the bus held
// (Timeout, Unknown, Error) the bus is stopped before returning.
type Bus struct {
	name string
	cpu  physic.Frequency
	scl  gpio.PinIO
	sda  gpio.PinIO

	mu sync.Mutex
	m  *Master
}

// NewBus returns a Bus named name over m.
//
// opts may be nil.
func NewBus(name string, m *Master, opts *BusOpts) *Bus {
	b := &Bus{name: name, cpu: 16 * physic.MegaHertz, scl: gpio.INVALID, sda: gpio.INVALID, m: m}
	if opts != nil {
		if opts.CPU != 0 {
			b.cpu = opts.CPU
		}
		if opts.SCL != nil {
			b.scl = opts.SCL
		}
		if opts.SDA != nil {
			b.sda = opts.SDA
		}
	}
	return b
}

func (b *Bus) String() string {
	return b.name
}

// Close implements i2c.BusCloser. It releases the bus.
func (b *Bus) Close() error {
	return b.Halt()
}

// Halt implements conn.Resource. It sends a stop condition.
func (b *Bus) Halt() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m.SignalStop()
	return nil
}

// Duplex implements conn.Conn.
func (b *Bus) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return fmt.Errorf("twi: invalid address %#x; only 7 bit addresses are supported", addr)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.m.Tx(uint8(addr), w, r, true)
	switch s {
	case Success:
		return nil
	case Timeout, Unknown:
		b.m.SignalStop()
	case Error:
		b.m.ClearError()
	}
	return fmt.Errorf("twi: %s: %#02x: %w", b.name, addr, s.Err())
}

// SetSpeed implements i2c.Bus.
//
// It requires the hardware to implement BitRater.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	twbr, ps, err := BitRate(b.cpu, f)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	br, ok := b.m.e.h.(BitRater)
	if !ok {
		return fmt.Errorf("twi: %s: bit rate is not programmable", b.name)
	}
	return br.SetBitRate(twbr, ps)
}

// SCL implements i2c.Pins.
func (b *Bus) SCL() gpio.PinIO {
	return b.scl
}

// SDA implements i2c.Pins.
func (b *Bus) SDA() gpio.PinIO {
	return b.sda
}

// ActivatePullup enables the internal pull-ups of SCL and SDA.
func (b *Bus) ActivatePullup() error {
	for _, p := range []gpio.PinIO{b.scl, b.sda} {
		if p == gpio.INVALID {
			continue
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return fmt.Errorf("twi: %s: %v", b.name, err)
		}
	}
	return nil
}

var _ i2c.BusCloser = &Bus{}
var _ i2c.Pins = &Bus{}
