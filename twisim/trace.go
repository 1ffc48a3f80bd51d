// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twisim

import (
	"fmt"

	"periph.io/x/twi"
)

// Op is a bus operation recorded by the simulator.
type Op uint8

// Bus operations.
const (
	// OpAny only matches faults; it is never recorded.
	OpAny Op = iota
	OpStart
	OpRepeatedStart
	OpStop
	OpAddress
	OpWrite
	OpRead
	// Operations of the remote master, with this device as slave.
	OpSlaveAddress
	OpSlaveWrite
	OpSlaveRead
	OpSlaveStop
)

var opNames = [...]string{
	OpAny:           "Any",
	OpStart:         "Start",
	OpRepeatedStart: "RepeatedStart",
	OpStop:          "Stop",
	OpAddress:       "Address",
	OpWrite:         "Write",
	OpRead:          "Read",
	OpSlaveAddress:  "SlaveAddress",
	OpSlaveWrite:    "SlaveWrite",
	OpSlaveRead:     "SlaveRead",
	OpSlaveStop:     "SlaveStop",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Event is one recorded operation.
type Event struct {
	Op Op
	// Byte is the address byte (SLA+R/W) or the data byte.
	Byte byte
	// Code is the status the operation completed with.
	Code twi.Code
}

func (e Event) String() string {
	switch e.Op {
	case OpStart, OpRepeatedStart, OpStop, OpSlaveStop:
		return fmt.Sprintf("%s > %s", e.Op, e.Code)
	default:
		return fmt.Sprintf("%s %#02x > %s", e.Op, e.Byte, e.Code)
	}
}

// Count returns the number of events of op in events.
func Count(events []Event, op Op) int {
	n := 0
	for _, e := range events {
		if e.Op == op {
			n++
		}
	}
	return n
}
