// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package slave

import (
	"sync"

	"go.uber.org/atomic"
	"periph.io/x/twi"
)

// Transmitter sends a buffer to a master reading from this device.
//
// Once the buffer was sent, further requests are declined until
// TransmitDataAgain or TransmitData re-arms it.
type Transmitter struct {
	h twi.Hardware

	// mu guards buf and n. It stands for masking the interrupt.
	mu  sync.Mutex
	buf []byte
	n   int

	count atomic.Int64
	done  atomic.Bool
}

// NewTransmitter returns a Transmitter sending buf.
func NewTransmitter(h twi.Hardware, buf []byte) *Transmitter {
	t := &Transmitter{h: h}
	t.TransmitData(buf)
	return t
}

// TransmitDataAgain sends the same buffer on the next request.
func (t *Transmitter) TransmitDataAgain() {
	t.mu.Lock()
	t.set(0)
	t.mu.Unlock()
}

// TransmitData sends buf on the next request.
//
// buf must not be modified until IsDataTransmitted returns true.
func (t *Transmitter) TransmitData(buf []byte) {
	t.mu.Lock()
	t.buf = buf
	t.set(0)
	t.mu.Unlock()
}

// IsDataTransmitted reports whether the whole buffer was sent.
func (t *Transmitter) IsDataTransmitted() bool {
	return t.done.Load()
}

// Transmitted returns the number of bytes sent in the current transfer.
func (t *Transmitter) Transmitted() int {
	return int(t.count.Load())
}

// ServeInterrupt handles the current hardware event.
//
// It returns false for the events it does not act on: the master declining
// data or requesting more than was marked last.
func (t *Transmitter) ServeInterrupt() bool {
	switch DecodeBasic(t.h.Status()) {
	case AddressedAsTransmitter:
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.n < len(t.buf) {
			t.set(0)
		}
		t.emit()
		return true
	case NextDataAccepted:
		t.mu.Lock()
		defer t.mu.Unlock()
		t.emit()
		return true
	default:
		return false
	}
}

// emit must be called with mu held.
func (t *Transmitter) emit() {
	if t.n < len(t.buf) {
		SendData(t.h, t.buf[t.n])
		t.set(t.n + 1)
		return
	}
	DeclineNextData(t.h)
}

// set must be called with mu held.
func (t *Transmitter) set(n int) {
	t.n = n
	t.count.Store(int64(n))
	t.done.Store(n == len(t.buf))
}
