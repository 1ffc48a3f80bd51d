// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package slave_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/twi"
	"periph.io/x/twi/twisim"
)

func TestTransmitter(t *testing.T) {
	s, d := setup(nil, []byte{0xB0, 0xB1})
	r, err := s.RemoteRead(own, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0xB0, 0xB1}, r); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if !d.Tx.IsDataTransmitted() {
		t.Fatal("expected transmitted")
	}
	want := []twisim.Event{
		{Op: twisim.OpSlaveAddress, Byte: own<<1 | 1, Code: twi.CodeSTSlaACK},
		{Op: twisim.OpSlaveRead, Byte: 0xB0, Code: twi.CodeSTDataACK},
		{Op: twisim.OpSlaveRead, Byte: 0xB1, Code: twi.CodeSTDataNACK},
	}
	if diff := cmp.Diff(want, s.Events()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	// Same bytes again.
	d.Tx.TransmitDataAgain()
	if d.Tx.IsDataTransmitted() || d.Tx.Transmitted() != 0 {
		t.Fatal("not reset")
	}
	s.ClearEvents()
	if r, err = s.RemoteRead(own, 2); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0xB0, 0xB1}, r); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.Events()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestTransmitterShortRead(t *testing.T) {
	s, d := setup(nil, []byte{1, 2, 3})
	if r, err := s.RemoteRead(own, 1); err != nil || r[0] != 1 {
		t.Fatalf("%v, %v", r, err)
	}
	if d.Tx.IsDataTransmitted() {
		t.Fatal("unexpected transmitted")
	}
	// The interrupted transfer restarts from the beginning.
	r, err := s.RemoteRead(own, 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{1, 2, 3}, r); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if !d.Tx.IsDataTransmitted() {
		t.Fatal("expected transmitted")
	}
}

func TestTransmitterLongRead(t *testing.T) {
	s, d := setup(nil, []byte{0x11})
	d.Tx.TransmitData([]byte{0x21, 0x22})
	r, err := s.RemoteRead(own, 4)
	if err != nil {
		t.Fatal(err)
	}
	if r[0] != 0x21 || r[1] != 0x22 || r[3] != 0xFF {
		t.Fatalf("%x", r)
	}
	ev := s.Events()
	if c := ev[len(ev)-1].Code; c != twi.CodeSTLastData {
		t.Fatalf("%s", c)
	}
	if n := d.Tx.Transmitted(); n != 2 {
		t.Fatal(n)
	}
}

func TestTransmitterNone(t *testing.T) {
	// Without a transmitter, Device answers 0xFF.
	s, d := setup(nil, nil)
	d.Tx = nil
	r, err := s.RemoteRead(own, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0xFF, 0xFF}, r); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
