// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// twi runs transactions on a TWI bus.
//
// Commands:
//
//  scan                      list the acknowledging addresses
//  read <addr> <reg> <n>     read n bytes starting at register reg
//  write <addr> <reg> <b>... write bytes starting at register reg
//  dump <addr>               read a whole 24C02 EEPROM
//  slave                     exchange data with the simulated peripheral
//                            acting as a slave
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strconv"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/twi"
	"periph.io/x/twi/devices/eeprom24"
	"periph.io/x/twi/devices/screen"
	"periph.io/x/twi/hostextra"
	"periph.io/x/twi/slave"
	"periph.io/x/twi/twisim"
)

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(v), nil
}

func parseBytes(args []string) ([]byte, error) {
	out := make([]byte, len(args))
	for i, a := range args {
		b, err := parseByte(a)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func scan(b i2c.Bus, s *screen.Dev) error {
	found := 0
	for addr := uint16(0x08); addr < 0x78; addr++ {
		err := b.Tx(addr, nil, nil)
		if s != nil {
			if err := s.RecordErr(err); err != nil {
				return err
			}
		}
		switch twi.StatusOf(err) {
		case twi.Success:
			fmt.Printf("%#02x\n", addr)
			found++
		case twi.AddressNACK:
		default:
			return err
		}
	}
	log.Printf("found %d devices", found)
	return nil
}

func read(b i2c.Bus, args []string) error {
	if len(args) != 3 {
		return errors.New("read needs <addr> <reg> <n>")
	}
	v, err := parseBytes(args[:2])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[2])
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid count %q", args[2])
	}
	d := i2c.Dev{Bus: b, Addr: uint16(v[0])}
	r := make([]byte, n)
	if err := d.Tx(v[1:], r); err != nil {
		return err
	}
	fmt.Printf("%x\n", r)
	return nil
}

func write(b i2c.Bus, args []string) error {
	if len(args) < 3 {
		return errors.New("write needs <addr> <reg> <byte>...")
	}
	v, err := parseBytes(args)
	if err != nil {
		return err
	}
	d := i2c.Dev{Bus: b, Addr: uint16(v[0])}
	_, err = d.Write(v[1:])
	return err
}

func dump(b i2c.Bus, args []string) error {
	if len(args) != 1 {
		return errors.New("dump needs <addr>")
	}
	addr, err := parseByte(args[0])
	if err != nil {
		return err
	}
	e, err := eeprom24.New(b, uint16(addr), &eeprom24.Conf24C02)
	if err != nil {
		return err
	}
	buf := make([]byte, 16)
	for off := 0; ; off += len(buf) {
		n, err := io.ReadFull(e, buf)
		if n != 0 {
			fmt.Printf("%04x: %x\n", off, buf[:n])
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// slaveDemo serves a remote master with the simulated peripheral.
func slaveDemo() error {
	all := twisim.All()
	if len(all) == 0 {
		return errors.New("no simulated peripheral")
	}
	s := all[0]
	d := &slave.Device{
		H:  s,
		Rx: slave.NewReceiver(s, make([]byte, 4)),
		Tx: slave.NewTransmitter(s, []byte("pong")),
	}
	s.SetInterrupt(d.ServeInterrupt)
	defer s.SetInterrupt(nil)

	n, err := s.RemoteWrite(twisim.OwnAddress, []byte("ping!"))
	if err != nil {
		return err
	}
	log.Printf("remote master wrote %d bytes", n)
	if d.Rx.IsDataAvailable() {
		fmt.Printf("received: %q\n", d.Rx.Buffer()[:d.Rx.Received()])
	}
	r, err := s.RemoteRead(twisim.OwnAddress, 4)
	if err != nil {
		return err
	}
	fmt.Printf("sent: %q (%d bytes served, done=%t)\n", r, d.Tx.Transmitted(), d.Tx.IsDataTransmitted())
	for _, e := range s.Events() {
		log.Printf("%s", e)
	}
	return nil
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	name := flag.String("b", twisim.BusName, "I²C bus to use")
	hz := flag.Int64("hz", 0, "I²C bus speed in Hz")
	strip := flag.Int("screen", 0, "show the outcome of the last transactions as a strip of this length")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() == 0 {
		return errors.New("specify a command, try -help")
	}

	if _, err := hostextra.Init(); err != nil {
		return err
	}
	if flag.Arg(0) == "slave" {
		return slaveDemo()
	}

	b, err := i2creg.Open(*name)
	if err != nil {
		return err
	}
	defer b.Close()
	if *hz != 0 {
		if err := b.SetSpeed(physic.Frequency(*hz) * physic.Hertz); err != nil {
			return err
		}
	}
	log.Printf("using %s", b)

	args := flag.Args()[1:]
	switch flag.Arg(0) {
	case "scan":
		var s *screen.Dev
		if *strip > 0 {
			s = screen.New(nil, *strip)
			defer s.Halt()
		}
		return scan(b, s)
	case "read":
		return read(b, args)
	case "write":
		return write(b, args)
	case "dump":
		return dump(b, args)
	default:
		return fmt.Errorf("unknown command %q, try -help", flag.Arg(0))
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "twi: %s.\n", err)
		os.Exit(1)
	}
}
