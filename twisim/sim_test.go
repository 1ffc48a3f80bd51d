// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twisim

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/twi"
)

func TestMemoryPageWrap(t *testing.T) {
	m := NewMemory(32, 8)
	if !m.Addressed(false) {
		t.Fatal("not addressed")
	}
	for _, b := range []byte{0x06, 1, 2, 3, 4} {
		if !m.Write(b) {
			t.Fatal("nack")
		}
	}
	m.Stop()
	got := m.Bytes()[:10]
	want := []byte{3, 4, 0xFF, 0xFF, 0xFF, 0xFF, 1, 2, 0xFF, 0xFF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMemoryReadWrap(t *testing.T) {
	m := NewMemory(4, 0)
	m.Load(0, []byte{1, 2, 3, 4})
	m.Addressed(false)
	m.Write(3)
	m.Stop()
	m.Addressed(true)
	var got []byte
	for i := 0; i < 3; i++ {
		got = append(got, m.Read())
	}
	if diff := cmp.Diff([]byte{4, 1, 2}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestSimLatency(t *testing.T) {
	s := New(&Opts{Latency: 40 * time.Microsecond, Tick: 10 * time.Microsecond})
	start := s.Clock().Now()
	twi.Arm(s, twi.IntFlag|twi.Start, 0)
	polls := 0
	for s.Control()&twi.IntFlag == 0 {
		polls++
	}
	if polls != 3 {
		t.Fatalf("%d polls", polls)
	}
	if d := s.Clock().Now().Sub(start); d != 40*time.Microsecond {
		t.Fatal(d)
	}
	if c := s.Status(); c != twi.CodeStart {
		t.Fatalf("%s", c)
	}
}

func TestSimWriteCollision(t *testing.T) {
	s := New(nil)
	twi.Arm(s, twi.IntFlag|twi.Start, 0)
	s.SetData(0x42)
	if s.Control()&twi.WriteCollision == 0 {
		t.Fatal("expected write collision")
	}
	if s.Data() == 0x42 {
		t.Fatal("data written while busy")
	}
}

func TestSimPrescalerBits(t *testing.T) {
	s := New(nil)
	if err := s.SetBitRate(10, twi.X64); err != nil {
		t.Fatal(err)
	}
	if c := s.Status(); c != twi.CodeNoInfo|3 {
		t.Fatalf("%#x", byte(c))
	}
	if twbr, ps := s.BitRate(); twbr != 10 || ps != twi.X64 {
		t.Fatalf("%d, %s", twbr, ps)
	}
}

func TestSimFaultOrder(t *testing.T) {
	s := New(nil)
	s.Attach(0x10, NewMemory(8, 0))
	// The head fault does not match the start; it stays queued.
	s.Inject(BusError(OpWrite))
	twi.Arm(s, twi.IntFlag|twi.Start, 0)
	for s.Control()&twi.IntFlag == 0 {
	}
	s.SetData(0x20)
	twi.Arm(s, twi.IntFlag, 0)
	for s.Control()&twi.IntFlag == 0 {
	}
	s.SetData(0x00)
	twi.Arm(s, twi.IntFlag, 0)
	for s.Control()&twi.IntFlag == 0 {
	}
	want := []Event{
		{Op: OpStart, Code: twi.CodeStart},
		{Op: OpAddress, Byte: 0x20, Code: twi.CodeMTSlaACK},
		{Op: OpWrite, Byte: 0x00, Code: twi.CodeBusError},
	}
	if diff := cmp.Diff(want, s.Events()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	s.ClearEvents()
	if len(s.Events()) != 0 {
		t.Fatal("not cleared")
	}
}

func TestEventString(t *testing.T) {
	data := []struct {
		e    Event
		want string
	}{
		{Event{Op: OpStart, Code: twi.CodeStart}, "Start > START"},
		{Event{Op: OpAddress, Byte: 0xA1, Code: twi.CodeMRSlaNACK}, "Address 0xa1 > MR_SLA_NACK"},
		{Event{Op: Op(42), Byte: 0x15}, "Op(42) 0x15 > BUS_ERROR"},
	}
	for i, line := range data {
		if s := line.e.String(); s != line.want {
			t.Fatalf("#%d: %q != %q", i, s, line.want)
		}
	}
}

func TestRemoteBusy(t *testing.T) {
	s := New(&Opts{Address: 0x0A})
	if _, err := s.RemoteWrite(0x0A, nil); err != errNoHandler {
		t.Fatal(err)
	}
	s.SetInterrupt(func() {})
	twi.Arm(s, twi.IntFlag|twi.Start, 0)
	for s.Control()&twi.IntFlag == 0 {
	}
	// The local master holds the flag.
	if _, err := s.RemoteRead(0x0A, 1); err != ErrStretched {
		t.Fatal(err)
	}
	twi.AcknowledgeStatus(s)
	if _, err := s.RemoteRead(0x0A, 1); err != ErrBusy {
		t.Fatal(err)
	}
}
