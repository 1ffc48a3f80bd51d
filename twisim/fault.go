// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twisim

import (
	"time"

	"periph.io/x/twi"
)

// Fault alters the next master operation matching Op.
//
// Faults are consumed in order; only the head of the queue is considered.
type Fault struct {
	Op Op
	// Code is reported instead of the normal outcome. The operation has no
	// effect on the targets.
	Code twi.Code
	// Keep keeps the normal outcome; only Delay applies.
	Keep bool
	// Delay is added to the operation latency.
	Delay time.Duration
	// Stuck means the operation never completes.
	Stuck bool
}

// ArbitrationLost makes op lose arbitration after delay.
func ArbitrationLost(op Op, delay time.Duration) Fault {
	return Fault{Op: op, Code: twi.CodeArbLost, Delay: delay}
}

// AddressedAsSlave makes op lose arbitration to a master addressing this
// device.
func AddressedAsSlave(op Op) Fault {
	return Fault{Op: op, Code: twi.CodeSRArbLostSlaACK}
}

// BusError makes op fail with a bus error.
func BusError(op Op) Fault {
	return Fault{Op: op, Code: twi.CodeBusError}
}

// Stall makes op never complete.
func Stall(op Op) Fault {
	return Fault{Op: op, Stuck: true}
}

// Slow delays op by d without changing its outcome.
func Slow(op Op, d time.Duration) Fault {
	return Fault{Op: op, Keep: true, Delay: d}
}
