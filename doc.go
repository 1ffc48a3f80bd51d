// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package twi drives the two-wire interface peripheral of AVR
// microcontrollers in master mode.
//
// The peripheral is accessed through the Hardware interface, one method per
// register. Engine issues the individual bus primitives, each bounded by a
// Deadline so a stuck bus cannot block forever. Master composes them into
// whole transactions and applies a BusLostBehaviour when another master wins
// arbitration. Bus exposes a Master as a periph.io i2c.Bus.
//
// Slave mode lives in package slave; package twisim simulates the
// peripheral.
//
// Status codes
//
// After every bus event the peripheral reports a Code. Engine maps it to a
// Status relative to the primitive that was issued: the expected code is
// Success and failures are classified as AddressNACK, DataNACK, BusLost,
// AddressedAsSlave, Error or Unknown.
//
// Control register
//
// Writing IntFlag starts the next bus action. Arm writes the new control
// value while keeping the Ack, WriteCollision, Enable and IntEnable bits.
package twi // import "periph.io/x/twi"
