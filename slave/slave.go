// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package slave implements the interrupt driven slave side of the TWI
// peripheral.
//
// Every function here is meant to be called from the interrupt handler and
// never waits. Receiver and Transmitter fill or drain a caller supplied
// buffer across repeated interrupts; Device combines them.
package slave

import "periph.io/x/twi"

// AcceptNextData releases the current event, acknowledging the next byte.
func AcceptNextData(h twi.Hardware) {
	twi.Arm(h, twi.IntFlag|twi.Ack, 0)
}

// DeclineNextData releases the current event, not acknowledging the next
// byte.
func DeclineNextData(h twi.Hardware) {
	twi.Arm(h, twi.IntFlag, twi.Ack)
}

// Data returns the last received byte.
func Data(h twi.Hardware) byte {
	return h.Data()
}

// SendData sends b to the master, expecting more to be requested.
func SendData(h twi.Hardware, b byte) {
	h.SetData(b)
	twi.Arm(h, twi.IntFlag|twi.Ack, 0)
}

// SendLastData sends b to the master as the last byte.
func SendLastData(h twi.Hardware, b byte) {
	h.SetData(b)
	twi.Arm(h, twi.IntFlag, twi.Ack)
}

// Release ends a terminal event (stop, declined or last data) and keeps
// the own address recognized. A bus error is cleared.
func Release(h twi.Hardware) {
	if twi.IsErrored(h) {
		twi.ClearError(h)
		return
	}
	if h.Control()&twi.IntFlag == 0 {
		return
	}
	AcceptNextData(h)
}
