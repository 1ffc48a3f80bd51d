// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twisim

import (
	"errors"

	"periph.io/x/twi"
)

var (
	// ErrNotAddressed is returned when this device does not acknowledge the
	// remote master.
	ErrNotAddressed = errors.New("twisim: address not acknowledged")
	// ErrStretched is returned when the interrupt handler did not release an
	// event, holding the bus.
	ErrStretched = errors.New("twisim: interrupt was not released")
	// ErrBusy is returned when the local master holds the bus.
	ErrBusy = errors.New("twisim: bus is busy")
	// errNoHandler is returned when no interrupt handler is registered.
	errNoHandler = errors.New("twisim: no interrupt handler")
)

// SetAddress changes the own slave address.
func (s *Sim) SetAddress(addr uint8, generalCall bool) {
	s.mu.Lock()
	s.own = addr & 0x7F
	s.gcall = generalCall
	s.mu.Unlock()
}

// RemoteWrite acts as another master writing w to addr.
//
// It returns the number of bytes this device acknowledged. The transfer
// ends at the first declined byte.
func (s *Sim) RemoteWrite(addr uint8, w []byte) (int, error) {
	code, err := s.remoteAddress(addr, false)
	if err != nil {
		return 0, err
	}
	ack, err := s.raise(OpSlaveAddress, addr<<1, code, true)
	if err != nil {
		return 0, err
	}
	gc := code == twi.CodeSRGCallACK
	n := 0
	for _, b := range w {
		c := twi.CodeSRDataNACK
		switch {
		case ack && gc:
			c = twi.CodeSRGCallDataACK
		case ack:
			c = twi.CodeSRDataACK
		case gc:
			c = twi.CodeSRGCallDataNACK
		}
		if !ack {
			// The device stops recognizing the transfer; the handler gets
			// the declined byte and no stop.
			_, err := s.raise(OpSlaveWrite, b, c, false)
			s.idle()
			return n, err
		}
		if ack, err = s.raise(OpSlaveWrite, b, c, true); err != nil {
			return n, err
		}
		n++
	}
	_, err = s.raise(OpSlaveStop, 0, twi.CodeSRStop, false)
	s.idle()
	return n, err
}

// RemoteRead acts as another master reading n bytes from addr.
//
// The remote master acknowledges every byte but the last. Once the device
// marks a byte as last, the remainder reads as 0xFF.
func (s *Sim) RemoteRead(addr uint8, n int) ([]byte, error) {
	if _, err := s.remoteAddress(addr, true); err != nil {
		return nil, err
	}
	more, err := s.raise(OpSlaveAddress, addr<<1|1, twi.CodeSTSlaACK, true)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b := s.Data()
		out = append(out, b)
		switch {
		case i == n-1:
			_, err = s.raise(OpSlaveRead, b, twi.CodeSTDataNACK, false)
		case !more:
			_, err = s.raise(OpSlaveRead, b, twi.CodeSTLastData, false)
			for len(out) < n {
				out = append(out, 0xFF)
			}
			i = n
		default:
			more, err = s.raise(OpSlaveRead, b, twi.CodeSTDataACK, true)
			if err != nil {
				return out, err
			}
		}
	}
	s.idle()
	return out, err
}

// remoteAddress checks this device would acknowledge addr and returns the
// matching status code.
func (s *Sim) remoteAddress(addr uint8, read bool) (twi.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isr == nil {
		return 0, errNoHandler
	}
	if s.flag {
		return 0, ErrStretched
	}
	if s.state != stIdle || s.busy {
		return 0, ErrBusy
	}
	addr &= 0x7F
	if s.ctrl&twi.Enable == 0 || s.ctrl&twi.Ack == 0 {
		return 0, ErrNotAddressed
	}
	switch {
	case addr == s.own && read:
		return twi.CodeSTSlaACK, nil
	case addr == s.own:
		return twi.CodeSRSlaACK, nil
	case addr == 0 && s.gcall && !read:
		return twi.CodeSRGCallACK, nil
	default:
		return 0, ErrNotAddressed
	}
}

// raise reports code to the interrupt handler and returns the Ack bit it
// left. With mustRelease, an unreleased event is ErrStretched.
func (s *Sim) raise(op Op, b byte, code twi.Code, mustRelease bool) (bool, error) {
	s.mu.Lock()
	s.state = stSlave
	s.status = code
	if op == OpSlaveWrite {
		s.data = b
	}
	s.flag = true
	s.events = append(s.events, Event{Op: op, Byte: b, Code: code})
	isr := s.isr
	s.mu.Unlock()

	isr()

	s.mu.Lock()
	defer s.mu.Unlock()
	if mustRelease && s.flag {
		s.state = stIdle
		return false, ErrStretched
	}
	return s.ctrl&twi.Ack != 0, nil
}

func (s *Sim) idle() {
	s.mu.Lock()
	s.state = stIdle
	s.mu.Unlock()
}
