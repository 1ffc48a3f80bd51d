// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

import (
	"errors"
	"strconv"
)

// Status is the outcome of a master operation.
type Status int8

// Master outcomes.
const (
	// Success means the operation completed.
	Success Status = iota
	// AddressNACK means no device acknowledged the address. The bus was
	// stopped.
	AddressNACK
	// DataNACK means the device refused a byte. The bus was stopped.
	DataNACK
	// BusLost means another master won arbitration. The bus was not stopped.
	BusLost
	// AddressedAsSlave means another master won arbitration and addressed
	// this device. Check slave.Decode for more information.
	AddressedAsSlave
	// Timeout means the deadline expired before the hardware completed. The
	// bus state is unchanged.
	Timeout
	// Error means the hardware reported a bus error. It must be cleared with
	// ClearError.
	Error
	// Unknown means the hardware reported an unexpected code.
	Unknown
)

var statusNames = [...]string{
	Success:          "Success",
	AddressNACK:      "AddressNACK",
	DataNACK:         "DataNACK",
	BusLost:          "BusLost",
	AddressedAsSlave: "AddressedAsSlave",
	Timeout:          "Timeout",
	Error:            "Error",
	Unknown:          "Unknown",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// Errors returned by Status.Err.
var (
	ErrAddressNACK      = errors.New("twi: address not acknowledged")
	ErrDataNACK         = errors.New("twi: data not acknowledged")
	ErrBusLost          = errors.New("twi: arbitration lost")
	ErrAddressedAsSlave = errors.New("twi: arbitration lost, addressed as slave")
	ErrTimeout          = errors.New("twi: timeout")
	ErrBusError         = errors.New("twi: bus error")
	ErrUnknown          = errors.New("twi: unexpected status")
)

var statusErrs = [...]error{
	AddressNACK:      ErrAddressNACK,
	DataNACK:         ErrDataNACK,
	BusLost:          ErrBusLost,
	AddressedAsSlave: ErrAddressedAsSlave,
	Timeout:          ErrTimeout,
	Error:            ErrBusError,
	Unknown:          ErrUnknown,
}

// Err returns nil on Success and the matching Err* value otherwise.
func (s Status) Err() error {
	if s == Success {
		return nil
	}
	if s > 0 && int(s) < len(statusErrs) {
		return statusErrs[s]
	}
	return ErrUnknown
}

// StatusOf returns the Status carried by err.
//
// It returns Success for nil and Unknown for errors not produced by
// Status.Err.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	for s := AddressNACK; s <= Unknown; s++ {
		if errors.Is(err, statusErrs[s]) {
			return s
		}
	}
	return Unknown
}

// masterSuccess lists the codes that complete a master primitive.
var masterSuccess = []Code{
	CodeStart, CodeRepStart,
	CodeMTSlaACK, CodeMTDataACK,
	CodeMRSlaACK, CodeMRDataACK, CodeMRDataNACK,
}

// MasterStatus maps a raw code to a master outcome regardless of which
// primitive produced it.
//
// Slave and miscellaneous codes that are not failures map to Unknown.
func MasterStatus(c Code) Status {
	return decode(c, masterSuccess...)
}

// decode maps c to a Status, treating the codes in ok as Success.
func decode(c Code, ok ...Code) Status {
	c &= StatusMask
	for _, o := range ok {
		if c == o {
			return Success
		}
	}
	switch c {
	case CodeMTSlaNACK, CodeMRSlaNACK:
		return AddressNACK
	case CodeMTDataNACK:
		return DataNACK
	case CodeArbLost:
		return BusLost
	case CodeSRArbLostSlaACK, CodeSRArbLostGCallACK, CodeSTArbLostSlaACK:
		return AddressedAsSlave
	case CodeBusError:
		return Error
	default:
		return Unknown
	}
}
