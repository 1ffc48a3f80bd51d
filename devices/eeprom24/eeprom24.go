// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package eeprom24 drives 24Cxx serial EEPROMs.
//
// Dev is an io.ReadWriteSeeker over the memory array. Memories larger than
// 256 bytes use consecutive device addresses, one per 256 bytes block.
// Writes are split on page boundaries.
package eeprom24 // import "periph.io/x/twi/devices/eeprom24"

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"periph.io/x/periph/conn/i2c"
)

// Opts describes the memory.
type Opts struct {
	// Size is the capacity in bytes.
	Size int
	// PageSize is the write page size; it must be a power of two.
	PageSize int
	// WriteDelay is the time to wait after each page write.
	WriteDelay time.Duration
	// Clock is used for WriteDelay. nil means the wall clock.
	Clock clock.Clock
}

// Conf24C02 is a 256 bytes memory with 8 bytes pages.
var Conf24C02 = Opts{Size: 256, PageSize: 8, WriteDelay: 5 * time.Millisecond}

// Dev is a handle to a 24Cxx EEPROM.
type Dev struct {
	b    i2c.Bus
	addr uint16
	opts Opts
	clk  clock.Clock
	p    int
}

// New returns a Dev for the memory at addr.
func New(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Conf24C02
	}
	if opts.Size <= 0 {
		return nil, errors.New("eeprom24: invalid size")
	}
	if opts.PageSize <= 0 || opts.PageSize&(opts.PageSize-1) != 0 {
		return nil, fmt.Errorf("eeprom24: invalid page size %d; must be a power of two", opts.PageSize)
	}
	if last := int(addr) + (opts.Size-1)>>8; addr > 0x7F || last > 0x7F {
		return nil, fmt.Errorf("eeprom24: invalid address %#x; only 7 bit addresses are supported", addr)
	}
	d := &Dev{b: b, addr: addr, opts: *opts, clk: opts.Clock}
	if d.clk == nil {
		d.clk = clock.New()
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("24C(%d)@%#02x", d.opts.Size, d.addr)
}

// Read implements io.Reader. It returns io.EOF at the end of the array.
func (d *Dev) Read(b []byte) (int, error) {
	if d.p >= d.opts.Size {
		return 0, io.EOF
	}
	n := 0
	for n < len(b) && d.p < d.opts.Size {
		// A read does not cross a 256 bytes block.
		l := len(b) - n
		if rem := 256 - d.p&0xFF; l > rem {
			l = rem
		}
		if rem := d.opts.Size - d.p; l > rem {
			l = rem
		}
		if err := d.dev().Tx([]byte{byte(d.p)}, b[n:n+l]); err != nil {
			return n, err
		}
		d.p += l
		n += l
	}
	return n, nil
}

// Write implements io.Writer. It returns io.EOF when b does not fit.
func (d *Dev) Write(b []byte) (int, error) {
	n := 0
	for n < len(b) && d.p < d.opts.Size {
		l := len(b) - n
		if rem := d.opts.PageSize - d.p&(d.opts.PageSize-1); l > rem {
			l = rem
		}
		w := make([]byte, 1+l)
		w[0] = byte(d.p)
		copy(w[1:], b[n:n+l])
		if err := d.dev().Tx(w, nil); err != nil {
			return n, err
		}
		if d.opts.WriteDelay > 0 {
			d.clk.Sleep(d.opts.WriteDelay)
		}
		d.p += l
		n += l
	}
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

// Seek implements io.Seeker.
func (d *Dev) Seek(offset int64, whence int) (int64, error) {
	var p int64
	switch whence {
	case io.SeekStart:
		p = offset
	case io.SeekCurrent:
		p = int64(d.p) + offset
	case io.SeekEnd:
		p = int64(d.opts.Size) + offset
	default:
		return int64(d.p), errors.New("eeprom24: invalid whence")
	}
	if p < 0 || p > int64(d.opts.Size) {
		return int64(d.p), fmt.Errorf("eeprom24: invalid position %d", p)
	}
	d.p = int(p)
	return p, nil
}

// dev returns the device handling the block at the current position.
func (d *Dev) dev() *i2c.Dev {
	return &i2c.Dev{Bus: d.b, Addr: d.addr + uint16(d.p>>8)}
}

var _ io.ReadWriteSeeker = &Dev{}
var _ fmt.Stringer = &Dev{}
