// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

import (
	"fmt"

	"periph.io/x/periph/conn/physic"
)

// Prescaler is the bit rate prescaler.
type Prescaler uint8

// Prescaler values.
const (
	X1  Prescaler = 0
	X4  Prescaler = 1
	X16 Prescaler = 2
	X64 Prescaler = 3
)

// Factor returns the division factor, 4^p.
func (p Prescaler) Factor() int64 {
	return 1 << (2 * uint(p&3))
}

func (p Prescaler) String() string {
	return fmt.Sprintf("x%d", p.Factor())
}

// Frequency returns the SCL frequency generated from cpu.
//
// SCL = CPU / (16 + 2 * TWBR * 4^ps).
func Frequency(cpu physic.Frequency, twbr uint8, ps Prescaler) physic.Frequency {
	return cpu / physic.Frequency(16+2*int64(twbr)*ps.Factor())
}

// BitRate returns the smallest prescaler and its matching TWBR value
// generating at most scl from cpu.
func BitRate(cpu, scl physic.Frequency) (uint8, Prescaler, error) {
	if scl <= 0 || cpu <= 0 {
		return 0, 0, fmt.Errorf("twi: invalid speed %s with clock %s", scl, cpu)
	}
	// Ceiling, so the generated frequency never exceeds scl.
	div := int64((cpu + scl - 1) / scl)
	if div < 16 {
		return 0, 0, fmt.Errorf("twi: invalid speed %s; maximum supported clock is %s", scl, cpu/16)
	}
	for ps := X1; ps <= X64; ps++ {
		f := 2 * ps.Factor()
		twbr := (div - 16 + f - 1) / f
		if twbr <= 255 {
			return uint8(twbr), ps, nil
		}
	}
	return 0, 0, fmt.Errorf("twi: invalid speed %s; minimum supported clock is %s", scl, Frequency(cpu, 255, X64))
}
