// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package slave

import "periph.io/x/twi"

// Device dispatches interrupts to a Receiver and a Transmitter.
//
// Events neither acts on are released with Release so the own address
// stays recognized. Either machine may be nil.
type Device struct {
	H  twi.Hardware
	Rx *Receiver
	Tx *Transmitter
}

// ServeInterrupt is meant to be called from the interrupt handler.
func (d *Device) ServeInterrupt() {
	if d.Rx != nil && d.Rx.ServeInterrupt() {
		return
	}
	if d.Tx != nil && d.Tx.ServeInterrupt() {
		return
	}
	switch DecodeBasic(d.H.Status()) {
	case AddressedAsReceiver, DataAccepted:
		// No receiver.
		DeclineNextData(d.H)
	case AddressedAsTransmitter, NextDataAccepted:
		// No transmitter.
		SendLastData(d.H, 0xFF)
	case NoStatus:
	default:
		Release(d.H)
	}
}
