// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package slave

import (
	"sync"

	"go.uber.org/atomic"
	"periph.io/x/twi"
)

// Receiver stores the bytes written by a master into a buffer.
//
// ServeInterrupt advances it by one hardware event. Once the buffer is
// full, further bytes are declined until ReceiveNextData or
// ReceiveNextDataInto re-arms it.
type Receiver struct {
	h twi.Hardware

	// mu guards buf and n. It stands for masking the interrupt.
	mu  sync.Mutex
	buf []byte
	n   int

	count atomic.Int64
	done  atomic.Bool
}

// NewReceiver returns a Receiver filling buf. buf may be nil, in which case
// everything is declined until ReceiveNextDataInto is called.
func NewReceiver(h twi.Hardware, buf []byte) *Receiver {
	r := &Receiver{h: h}
	r.ReceiveNextDataInto(buf)
	return r
}

// ReceiveNextData receives the next transfer into the same buffer.
func (r *Receiver) ReceiveNextData() {
	r.mu.Lock()
	r.set(0)
	r.mu.Unlock()
}

// ReceiveNextDataInto receives the next transfer into buf.
func (r *Receiver) ReceiveNextDataInto(buf []byte) {
	r.mu.Lock()
	r.buf = buf
	r.set(0)
	r.mu.Unlock()
}

// IsDataAvailable reports whether the buffer is full.
func (r *Receiver) IsDataAvailable() bool {
	return r.done.Load()
}

// Received returns the number of bytes stored in the current transfer.
func (r *Receiver) Received() int {
	return int(r.count.Load())
}

// Buffer returns the bound buffer. Only read it once IsDataAvailable
// returns true.
func (r *Receiver) Buffer() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf
}

// ServeInterrupt handles the current hardware event.
//
// It returns false for the events it does not act on; the hardware already
// reflects the terminal state of those.
func (r *Receiver) ServeInterrupt() bool {
	switch DecodeBasic(r.h.Status()) {
	case AddressedAsReceiver:
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.n < len(r.buf) {
			AcceptNextData(r.h)
			r.set(0)
		} else {
			DeclineNextData(r.h)
		}
		return true
	case DataAccepted:
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.n >= len(r.buf) {
			DeclineNextData(r.h)
			return true
		}
		r.buf[r.n] = r.h.Data()
		r.set(r.n + 1)
		if r.n < len(r.buf) {
			AcceptNextData(r.h)
		} else {
			DeclineNextData(r.h)
		}
		return true
	default:
		return false
	}
}

// set must be called with mu held.
func (r *Receiver) set(n int) {
	r.n = n
	r.count.Store(int64(n))
	r.done.Store(n == len(r.buf))
}
