// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package slave

import (
	"strconv"

	"periph.io/x/twi"
)

// Status is the detailed slave status.
//
// It distinguishes direct addressing, general call addressing and
// addressing after a lost arbitration. Basic projects it to the coarse
// classification.
type Status uint8

// Detailed slave statuses.
const (
	StatusNoInfo Status = iota
	StatusBusError
	StatusStop
	// Receiver.
	StatusDirectReceiver
	StatusArbLostDirectReceiver
	StatusGeneralCallReceiver
	StatusArbLostGeneralCallReceiver
	StatusDirectDataAccepted
	StatusDirectDataDeclined
	StatusGeneralCallDataAccepted
	StatusGeneralCallDataDeclined
	// Transmitter.
	StatusDirectTransmitter
	StatusArbLostDirectTransmitter
	StatusNextDataAccepted
	StatusNextDataDeclined
	StatusMoreDataRequest
	StatusUnknown
)

// Basic is the coarse slave status, sufficient for reactive handling.
type Basic uint8

// Basic slave statuses.
const (
	NoStatus Basic = iota
	Error
	SignalReceived
	// Receiver.
	AddressedAsReceiver
	DataAccepted
	DataDeclined
	// Transmitter.
	AddressedAsTransmitter
	NextDataAccepted
	NextDataDeclined
	MoreDataRequest
	Unknown
)

type info struct {
	code  twi.Code
	name  string
	basic Basic
}

// statuses is the single mapping from hardware codes; Decode and Basic are
// both derived from it.
var statuses = [...]info{
	StatusNoInfo:                     {twi.CodeNoInfo, "NoInfo", NoStatus},
	StatusBusError:                   {twi.CodeBusError, "BusError", Error},
	StatusStop:                       {twi.CodeSRStop, "Stop", SignalReceived},
	StatusDirectReceiver:             {twi.CodeSRSlaACK, "DirectReceiver", AddressedAsReceiver},
	StatusArbLostDirectReceiver:      {twi.CodeSRArbLostSlaACK, "ArbLostDirectReceiver", AddressedAsReceiver},
	StatusGeneralCallReceiver:        {twi.CodeSRGCallACK, "GeneralCallReceiver", AddressedAsReceiver},
	StatusArbLostGeneralCallReceiver: {twi.CodeSRArbLostGCallACK, "ArbLostGeneralCallReceiver", AddressedAsReceiver},
	StatusDirectDataAccepted:         {twi.CodeSRDataACK, "DirectDataAccepted", DataAccepted},
	StatusDirectDataDeclined:         {twi.CodeSRDataNACK, "DirectDataDeclined", DataDeclined},
	StatusGeneralCallDataAccepted:    {twi.CodeSRGCallDataACK, "GeneralCallDataAccepted", DataAccepted},
	StatusGeneralCallDataDeclined:    {twi.CodeSRGCallDataNACK, "GeneralCallDataDeclined", DataDeclined},
	StatusDirectTransmitter:          {twi.CodeSTSlaACK, "DirectTransmitter", AddressedAsTransmitter},
	StatusArbLostDirectTransmitter:   {twi.CodeSTArbLostSlaACK, "ArbLostDirectTransmitter", AddressedAsTransmitter},
	StatusNextDataAccepted:           {twi.CodeSTDataACK, "NextDataAccepted", NextDataAccepted},
	StatusNextDataDeclined:           {twi.CodeSTDataNACK, "NextDataDeclined", NextDataDeclined},
	StatusMoreDataRequest:            {twi.CodeSTLastData, "MoreDataRequest", MoreDataRequest},
	StatusUnknown:                    {0xFF, "Unknown", Unknown},
}

var byCode = func() map[twi.Code]Status {
	m := make(map[twi.Code]Status, len(statuses))
	for s := StatusNoInfo; s < StatusUnknown; s++ {
		m[statuses[s].code] = s
	}
	return m
}()

// Decode returns the detailed status for a raw code.
//
// Codes that are not slave codes map to StatusUnknown.
func Decode(c twi.Code) Status {
	if s, ok := byCode[c&twi.StatusMask]; ok {
		return s
	}
	return StatusUnknown
}

// DecodeBasic is a shorthand for Decode(c).Basic().
func DecodeBasic(c twi.Code) Basic {
	return Decode(c).Basic()
}

// Basic projects s to the coarse classification.
func (s Status) Basic() Basic {
	if int(s) < len(statuses) {
		return statuses[s].basic
	}
	return Unknown
}

// GeneralCall reports whether s relates to the general call address.
func (s Status) GeneralCall() bool {
	switch s {
	case StatusGeneralCallReceiver, StatusArbLostGeneralCallReceiver,
		StatusGeneralCallDataAccepted, StatusGeneralCallDataDeclined:
		return true
	}
	return false
}

// ArbitrationLost reports whether the device was addressed while its own
// master transaction lost arbitration.
func (s Status) ArbitrationLost() bool {
	switch s {
	case StatusArbLostDirectReceiver, StatusArbLostGeneralCallReceiver, StatusArbLostDirectTransmitter:
		return true
	}
	return false
}

func (s Status) String() string {
	if int(s) < len(statuses) {
		return statuses[s].name
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

var basicNames = [...]string{
	NoStatus:               "NoStatus",
	Error:                  "Error",
	SignalReceived:         "SignalReceived",
	AddressedAsReceiver:    "AddressedAsReceiver",
	DataAccepted:           "DataAccepted",
	DataDeclined:           "DataDeclined",
	AddressedAsTransmitter: "AddressedAsTransmitter",
	NextDataAccepted:       "NextDataAccepted",
	NextDataDeclined:       "NextDataDeclined",
	MoreDataRequest:        "MoreDataRequest",
	Unknown:                "Unknown",
}

func (b Basic) String() string {
	if int(b) < len(basicNames) {
		return basicNames[b]
	}
	return "Basic(" + strconv.Itoa(int(b)) + ")"
}
