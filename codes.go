// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

import "strconv"

// Code is a raw status code reported by the peripheral after a bus event.
type Code uint8

// StatusMask removes the prescaler bits from a status register value.
const StatusMask Code = 0xF8

// Status codes as defined by the AVR TWI peripheral.
const (
	// Master.
	CodeStart      Code = 0x08
	CodeRepStart   Code = 0x10
	CodeMTSlaACK   Code = 0x18
	CodeMTSlaNACK  Code = 0x20
	CodeMTDataACK  Code = 0x28
	CodeMTDataNACK Code = 0x30
	// CodeArbLost is reported for both transmitter and receiver.
	CodeArbLost    Code = 0x38
	CodeMRSlaACK   Code = 0x40
	CodeMRSlaNACK  Code = 0x48
	CodeMRDataACK  Code = 0x50
	CodeMRDataNACK Code = 0x58

	// Slave transmitter.
	CodeSTSlaACK        Code = 0xA8
	CodeSTArbLostSlaACK Code = 0xB0
	CodeSTDataACK       Code = 0xB8
	CodeSTDataNACK      Code = 0xC0
	CodeSTLastData      Code = 0xC8

	// Slave receiver.
	CodeSRSlaACK          Code = 0x60
	CodeSRArbLostSlaACK   Code = 0x68
	CodeSRGCallACK        Code = 0x70
	CodeSRArbLostGCallACK Code = 0x78
	CodeSRDataACK         Code = 0x80
	CodeSRDataNACK        Code = 0x88
	CodeSRGCallDataACK    Code = 0x90
	CodeSRGCallDataNACK   Code = 0x98
	CodeSRStop            Code = 0xA0

	// Miscellaneous.
	CodeNoInfo   Code = 0xF8
	CodeBusError Code = 0x00
)

var codeNames = map[Code]string{
	CodeStart:             "START",
	CodeRepStart:          "REP_START",
	CodeMTSlaACK:          "MT_SLA_ACK",
	CodeMTSlaNACK:         "MT_SLA_NACK",
	CodeMTDataACK:         "MT_DATA_ACK",
	CodeMTDataNACK:        "MT_DATA_NACK",
	CodeArbLost:           "ARB_LOST",
	CodeMRSlaACK:          "MR_SLA_ACK",
	CodeMRSlaNACK:         "MR_SLA_NACK",
	CodeMRDataACK:         "MR_DATA_ACK",
	CodeMRDataNACK:        "MR_DATA_NACK",
	CodeSTSlaACK:          "ST_SLA_ACK",
	CodeSTArbLostSlaACK:   "ST_ARB_LOST_SLA_ACK",
	CodeSTDataACK:         "ST_DATA_ACK",
	CodeSTDataNACK:        "ST_DATA_NACK",
	CodeSTLastData:        "ST_LAST_DATA",
	CodeSRSlaACK:          "SR_SLA_ACK",
	CodeSRArbLostSlaACK:   "SR_ARB_LOST_SLA_ACK",
	CodeSRGCallACK:        "SR_GCALL_ACK",
	CodeSRArbLostGCallACK: "SR_ARB_LOST_GCALL_ACK",
	CodeSRDataACK:         "SR_DATA_ACK",
	CodeSRDataNACK:        "SR_DATA_NACK",
	CodeSRGCallDataACK:    "SR_GCALL_DATA_ACK",
	CodeSRGCallDataNACK:   "SR_GCALL_DATA_NACK",
	CodeSRStop:            "SR_STOP",
	CodeNoInfo:            "NO_INFO",
	CodeBusError:          "BUS_ERROR",
}

func (c Code) String() string {
	if s, ok := codeNames[c&StatusMask]; ok {
		return s
	}
	return "Code(0x" + strconv.FormatUint(uint64(c), 16) + ")"
}
