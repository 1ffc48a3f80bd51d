// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen shows the outcome of the last bus transactions on the
// terminal using ANSI color codes.
//
// Each transaction is one colored block, newest on the right.
package screen // import "periph.io/x/twi/devices/screen"

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/twi"
)

// Colors maps each status to the color of its block.
var Colors = map[twi.Status]color.NRGBA{
	twi.Success:          {0x00, 0xC0, 0x00, 0xFF},
	twi.AddressNACK:      {0x60, 0x60, 0x60, 0xFF},
	twi.DataNACK:         {0xC0, 0xC0, 0x00, 0xFF},
	twi.BusLost:          {0xFF, 0x80, 0x00, 0xFF},
	twi.AddressedAsSlave: {0x00, 0x80, 0xFF, 0xFF},
	twi.Timeout:          {0xFF, 0x00, 0xFF, 0xFF},
	twi.Error:            {0xFF, 0x00, 0x00, 0xFF},
	twi.Unknown:          {0xFF, 0xFF, 0xFF, 0xFF},
}

// Dev is a strip of the last l transaction outcomes.
type Dev struct {
	w    io.Writer
	hist []twi.Status
	l    int
	buf  bytes.Buffer
}

// New returns a Dev of l blocks that writes to w.
//
// w may be nil, in which case the console is used.
func New(w io.Writer, l int) *Dev {
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{w: w, l: l, hist: make([]twi.Status, 0, l)}
}

func (d *Dev) String() string {
	return "Screen"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Record appends s to the strip and redraws it.
func (d *Dev) Record(s twi.Status) error {
	if d.l <= 0 {
		return nil
	}
	if len(d.hist) == d.l {
		copy(d.hist, d.hist[1:])
		d.hist = d.hist[:d.l-1]
	}
	d.hist = append(d.hist, s)
	return d.refresh()
}

// RecordErr records the status carried by err, as returned by twi.Bus.
func (d *Dev) RecordErr(err error) error {
	return d.Record(twi.StatusOf(err))
}

// History returns the recorded statuses, oldest first.
func (d *Dev) History() []twi.Status {
	return append([]twi.Status(nil), d.hist...)
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < d.l; i++ {
		c := color.NRGBA{A: 0xFF}
		if j := i - (d.l - len(d.hist)); j >= 0 {
			c = Colors[d.hist[j]]
		}
		_, _ = io.WriteString(&d.buf, ansi256.Default.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ fmt.Stringer = &Dev{}
