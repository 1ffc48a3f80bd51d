// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twisim

import (
	"testing"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/twi"
)

func TestDriver(t *testing.T) {
	d := &driver{}
	if s := d.String(); s != "twisim" {
		t.Fatal(s)
	}
	if ok, err := d.Init(); !ok || err != nil {
		t.Fatalf("Init() = %t, %v", ok, err)
	}
	all := All()
	if len(all) != 1 {
		t.Fatalf("%d simulators", len(all))
	}
	if Master(all[0]) == nil {
		t.Fatal("no master")
	}
	b, err := i2creg.Open(BusName)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	e := i2c.Dev{Bus: b, Addr: EEPROMAddress}
	if _, err := e.Write([]byte{0x00, 0x12, 0x34}); err != nil {
		t.Fatal(err)
	}
	r := make([]byte, 2)
	if err := e.Tx([]byte{0x00}, r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0x12 || r[1] != 0x34 {
		t.Fatalf("%x", r)
	}
	if err := b.Tx(0x33, nil, nil); twi.StatusOf(err) != twi.AddressNACK {
		t.Fatal(err)
	}
}
