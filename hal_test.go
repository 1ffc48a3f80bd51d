// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArm(t *testing.T) {
	r := &regs{ctrl: IntFlag | Ack | Enable | IntEnable | Start}
	Arm(r, IntFlag|Stop, 0)
	if diff := cmp.Diff([]Control{IntFlag | Stop | Ack | Enable | IntEnable}, r.writes); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	r.writes = nil
	Arm(r, IntFlag, Ack)
	if diff := cmp.Diff([]Control{IntFlag | Enable | IntEnable}, r.writes); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestSetClearBits(t *testing.T) {
	r := &regs{ctrl: IntFlag | Enable}
	setBits(r, Ack)
	clearBits(r, Enable)
	if diff := cmp.Diff([]Control{Enable | Ack, Ack}, r.writes); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestCore(t *testing.T) {
	r := &regs{ctrl: Enable, status: CodeBusError | 2}
	if !IsErrored(r) {
		t.Fatal("expected error")
	}
	if !ClearErrorIfSet(r) {
		t.Fatal("expected error")
	}
	r.status = CodeNoInfo
	if ClearErrorIfSet(r) {
		t.Fatal("unexpected error")
	}
	SignalStop(r)
	AcknowledgeStatus(r)
	want := []Control{IntFlag | Stop | Enable, IntFlag | Stop | Enable, IntFlag | Enable}
	if diff := cmp.Diff(want, r.writes); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

//

// regs is a register file that records control writes.
type regs struct {
	ctrl   Control
	status Code
	data   byte
	writes []Control
}

func (r *regs) Status() Code {
	return r.status
}

func (r *regs) Control() Control {
	return r.ctrl
}

func (r *regs) SetControl(c Control) {
	r.writes = append(r.writes, c)
	r.ctrl = c
}

func (r *regs) Data() byte {
	return r.data
}

func (r *regs) SetData(b byte) {
	r.data = b
}
