// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

// SignalStop sends a stop condition, releasing the bus.
func SignalStop(h Hardware) {
	Arm(h, IntFlag|Stop, 0)
}

// AcknowledgeStatus releases the interrupt flag without any other action.
//
// Check the status before calling it.
func AcknowledgeStatus(h Hardware) {
	Arm(h, IntFlag, 0)
}

// IsErrored reports whether the peripheral is in the bus error state.
func IsErrored(h Hardware) bool {
	return h.Status()&StatusMask == CodeBusError
}

// ClearError leaves the bus error state. Check IsErrored before calling it.
func ClearError(h Hardware) {
	Arm(h, IntFlag|Stop, 0)
}

// ClearErrorIfSet clears the bus error state if set and reports whether it
// was.
func ClearErrorIfSet(h Hardware) bool {
	if !IsErrored(h) {
		return false
	}
	ClearError(h)
	return true
}
