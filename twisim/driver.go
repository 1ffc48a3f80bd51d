// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twisim

import (
	"sync"

	"periph.io/x/periph"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/twi"
)

// BusName is the name the simulated bus is registered as.
const BusName = "TWI-SIM"

// Addresses of the devices attached to the registered simulator.
const (
	// EEPROMAddress is a 256 bytes memory with 8 bytes pages.
	EEPROMAddress = 0x50
	// RTCAddress is a 64 bytes register file.
	RTCAddress = 0x68
	// OwnAddress is the slave address of the simulated peripheral.
	OwnAddress = 0x0A
)

// All returns the simulators registered by the driver.
func All() []*Sim {
	mu.Lock()
	defer mu.Unlock()
	out := make([]*Sim, len(all))
	copy(out, all)
	return out
}

// Master returns the master driving s when s was registered by the driver.
func Master(s *Sim) *twi.Master {
	mu.Lock()
	defer mu.Unlock()
	return masters[s]
}

//

var (
	mu      sync.Mutex
	all     []*Sim
	masters = map[*Sim]*twi.Master{}
)

// register creates a simulator with its devices and registers its bus.
//
// Must be called with mu held.
func register(name string) error {
	s := New(&Opts{Name: name, Address: OwnAddress, GeneralCall: true})
	s.Attach(EEPROMAddress, NewMemory(256, 8))
	s.Attach(RTCAddress, NewMemory(64, 0))
	m := twi.New(s, &twi.Opts{Timeout: twi.DefaultTimeout, BusLost: twi.RetryWithinTimeout, Clock: s.Clock()})
	b := twi.NewBus(name, m, nil)
	opener := func() (i2c.BusCloser, error) {
		return b, nil
	}
	if err := i2creg.Register(name, nil, -1, opener); err != nil {
		return err
	}
	all = append(all, s)
	masters[s] = m
	return nil
}

// driver implements periph.Driver.
type driver struct {
}

func (d *driver) String() string {
	return "twisim"
}

func (d *driver) Prerequisites() []string {
	return nil
}

func (d *driver) After() []string {
	return nil
}

func (d *driver) Init() (bool, error) {
	mu.Lock()
	defer mu.Unlock()
	return true, register(BusName)
}

func init() {
	periph.MustRegister(&driver{})
}

var _ periph.Driver = &driver{}
