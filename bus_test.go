// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twi_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/twi"
	"periph.io/x/twi/twisim"
)

func TestBusTx(t *testing.T) {
	_, m, mem := setup(t, nil)
	b := twi.NewBus("TWI0", m, nil)
	if s := b.String(); s != "TWI0" {
		t.Fatal(s)
	}
	if d := b.Duplex(); d != conn.Half {
		t.Fatal(d)
	}
	d := i2c.Dev{Bus: b, Addr: 0x50}
	if _, err := d.Write([]byte{0x04, 9, 8}); err != nil {
		t.Fatal(err)
	}
	r := make([]byte, 2)
	if err := d.Tx([]byte{0x04}, r); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{9, 8}, r); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{9, 8}, mem.Bytes()[4:6]); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestBusTxErr(t *testing.T) {
	_, m, _ := setup(t, nil)
	b := twi.NewBus("TWI0", m, nil)
	if err := b.Tx(0x80, nil, nil); err == nil {
		t.Fatal("10 bit address")
	}
	err := b.Tx(0x33, []byte{1}, nil)
	if !errors.Is(err, twi.ErrAddressNACK) {
		t.Fatalf("unexpected error %v", err)
	}
	if s := twi.StatusOf(err); s != twi.AddressNACK {
		t.Fatal(s)
	}
}

func TestBusTxTimeoutRecovers(t *testing.T) {
	s, m, _ := setup(t, &twi.Opts{Timeout: 100 * time.Microsecond})
	b := twi.NewBus("TWI0", m, nil)
	s.Inject(twisim.Stall(twisim.OpAddress))
	if err := b.Tx(0x50, []byte{0}, nil); twi.StatusOf(err) != twi.Timeout {
		t.Fatalf("unexpected error %v", err)
	}
	ev := s.Events()
	if ev[len(ev)-1].Op != twisim.OpStop {
		t.Fatalf("the bus was not released: %v", ev)
	}
	if err := b.Tx(0x50, []byte{0}, nil); err != nil {
		t.Fatal(err)
	}
}

func TestBusTxErrorRecovers(t *testing.T) {
	s, m, _ := setup(t, nil)
	b := twi.NewBus("TWI0", m, nil)
	s.Inject(twisim.BusError(twisim.OpWrite))
	if err := b.Tx(0x50, []byte{0}, nil); !errors.Is(err, twi.ErrBusError) {
		t.Fatalf("unexpected error %v", err)
	}
	if twi.IsErrored(s) {
		t.Fatal("bus error state was not cleared")
	}
	if err := b.Tx(0x50, []byte{0}, nil); err != nil {
		t.Fatal(err)
	}
}

func TestBusSetSpeed(t *testing.T) {
	s, m, _ := setup(t, nil)
	b := twi.NewBus("TWI0", m, &twi.BusOpts{CPU: 8 * physic.MegaHertz})
	if err := b.SetSpeed(100 * physic.KiloHertz); err != nil {
		t.Fatal(err)
	}
	if twbr, ps := s.BitRate(); twbr != 32 || ps != twi.X1 {
		t.Fatalf("%d, %s", twbr, ps)
	}
	if err := b.SetSpeed(physic.MegaHertz); err == nil {
		t.Fatal("too fast")
	}
}

func TestBusSetSpeedNotProgrammable(t *testing.T) {
	s, _, _ := setup(t, nil)
	b := twi.NewBus("TWI0", twi.New(fixedRate{s}, &twi.Opts{Clock: s.Clock()}), nil)
	if err := b.SetSpeed(100 * physic.KiloHertz); err == nil {
		t.Fatal("expected failure")
	}
}

func TestBusPins(t *testing.T) {
	_, m, _ := setup(t, nil)
	b := twi.NewBus("TWI0", m, nil)
	if p := b.SCL(); p != gpio.INVALID {
		t.Fatal(p)
	}
	if err := b.ActivatePullup(); err != nil {
		t.Fatal(err)
	}
	scl := &gpiotest.Pin{N: "SCL"}
	sda := &gpiotest.Pin{N: "SDA"}
	b = twi.NewBus("TWI0", m, &twi.BusOpts{SCL: scl, SDA: sda})
	if b.SCL() != scl || b.SDA() != sda {
		t.Fatal("unexpected pins")
	}
	if err := b.ActivatePullup(); err != nil {
		t.Fatal(err)
	}
	if scl.P != gpio.PullUp || sda.P != gpio.PullUp {
		t.Fatalf("%s, %s", scl.P, sda.P)
	}
}

//

// fixedRate hides the bit rate generator of the simulator.
type fixedRate struct {
	twi.Hardware
}
