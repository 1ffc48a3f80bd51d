// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maruel/ansi256"
	"periph.io/x/twi"
)

func TestRecord(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, 3)
	if s := d.String(); s != "Screen" {
		t.Fatal(s)
	}
	for _, s := range []twi.Status{twi.Success, twi.AddressNACK, twi.BusLost, twi.Timeout} {
		if err := d.Record(s); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]twi.Status{twi.AddressNACK, twi.BusLost, twi.Timeout}, d.History()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	out := buf.String()
	last := out[strings.LastIndex(out, "\r"):]
	want := "\r\033[0m" + ansi256.Default.Block(Colors[twi.AddressNACK]) + ansi256.Default.Block(Colors[twi.BusLost]) + ansi256.Default.Block(Colors[twi.Timeout]) + "\033[0m "
	if last != want {
		t.Fatalf("%q != %q", last, want)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
}

func TestRecordErr(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, 2)
	if err := d.RecordErr(nil); err != nil {
		t.Fatal(err)
	}
	if err := d.RecordErr(twi.Error.Err()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]twi.Status{twi.Success, twi.Error}, d.History()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestColors(t *testing.T) {
	for s := twi.Success; s <= twi.Unknown; s++ {
		if _, ok := Colors[s]; !ok {
			t.Fatalf("no color for %s", s)
		}
	}
}
