// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

import (
	"math"
	"time"
)

// NoTimeout disables the deadline of master operations.
//
// With it a primitive waits for the hardware forever.
const NoTimeout time.Duration = math.MaxInt64

// DefaultTimeout is used when Opts.Timeout is 0.
const DefaultTimeout = 25 * time.Millisecond

// Deadline bounds the busy-wait of master primitives.
//
// The zero value expires immediately.
type Deadline struct {
	start   time.Time
	timeout time.Duration
}

// NewDeadline returns a deadline timeout after start.
func NewDeadline(start time.Time, timeout time.Duration) Deadline {
	return Deadline{start: start, timeout: timeout}
}

// Expired reports whether now is past the deadline.
func (d Deadline) Expired(now time.Time) bool {
	if d.timeout == NoTimeout {
		return false
	}
	return now.Sub(d.start) > d.timeout
}

// Start returns the time the deadline was computed from.
func (d Deadline) Start() time.Time {
	return d.start
}
