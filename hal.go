// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

// Control is the peripheral control register.
//
// The bit layout follows the AVR TWCR register.
type Control uint8

// Control bits.
const (
	// IntFlag is set by the hardware when the current bus event completed.
	// Writing it starts the next operation. Writing 0 has no effect.
	IntFlag Control = 1 << 7
	// Ack enables acknowledge generation.
	Ack Control = 1 << 6
	// Start requests a (repeated) start condition.
	Start Control = 1 << 5
	// Stop requests a stop condition. The hardware clears it once executed.
	Stop Control = 1 << 4
	// WriteCollision is set when the data register is written while busy.
	WriteCollision Control = 1 << 3
	// Enable enables the peripheral.
	Enable Control = 1 << 2
	// IntEnable enables the interrupt.
	IntEnable Control = 1 << 0
)

// preserved are the bits carried over by Arm.
const preserved = Ack | WriteCollision | Enable | IntEnable

// Hardware is the register interface of one peripheral instance.
//
// Register setup (address, prescaler, pins) and enabling the interrupt are
// the responsibility of the implementation's owner.
type Hardware interface {
	// Status returns the raw status register. The prescaler bits are
	// included; see StatusMask.
	Status() Code
	// Control returns the control register.
	Control() Control
	// SetControl writes the control register as-is.
	SetControl(c Control)
	// Data returns the data register.
	Data() byte
	// SetData writes the data register.
	SetData(b byte)
}

// BitRater is implemented by hardware whose bit rate generator can be
// programmed.
type BitRater interface {
	SetBitRate(twbr uint8, ps Prescaler) error
}

// Arm writes set to the control register, keeping the Ack, WriteCollision,
// Enable and IntEnable bits as they are unless listed in clear.
//
// Start and Stop are never carried over.
func Arm(h Hardware, set, clear Control) {
	h.SetControl(set | h.Control()&preserved&^clear)
}

// setBits sets bits without touching the interrupt flag.
func setBits(h Hardware, c Control) {
	h.SetControl(h.Control()&^IntFlag | c)
}

// clearBits clears bits without touching the interrupt flag.
func clearBits(h Hardware, c Control) {
	h.SetControl(h.Control() &^ (c | IntFlag))
}
