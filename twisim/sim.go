// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package twisim simulates the TWI peripheral at the register level.
//
// Sim implements twi.Hardware. Master operations are carried out against
// the attached targets and complete after a simulated latency on a mock
// clock, so deadlines behave deterministically. Faults can be queued to
// lose arbitration, stall or report a bus error. RemoteWrite and RemoteRead
// act as another master addressing this device, driving the registered
// interrupt handler one event at a time.
package twisim

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"periph.io/x/twi"
)

// Opts configures a Sim.
type Opts struct {
	// Name is returned by String.
	Name string
	// Address is the own slave address.
	Address uint8
	// GeneralCall enables recognition of the general call address.
	GeneralCall bool
	// Latency is the time a bus operation takes. 0 means 10µs.
	Latency time.Duration
	// Tick is the time spent by each poll of the control register while an
	// operation is pending. 0 means Latency.
	Tick time.Duration
	// Clock is advanced while operations are pending. nil means a new mock.
	Clock *clock.Mock
}

type state uint8

const (
	stIdle state = iota
	stStarted
	stTransmit
	stReceive
	stNACKed
	stError
	stSlave
)

// Sim is a simulated peripheral.
type Sim struct {
	name    string
	clk     *clock.Mock
	latency time.Duration
	tick    time.Duration

	mu      sync.Mutex
	own     uint8
	gcall   bool
	ctrl    twi.Control
	flag    bool
	status  twi.Code
	data    byte
	twbr    uint8
	ps      twi.Prescaler
	busy    bool
	stuck   bool
	due     time.Time
	extra   time.Duration
	pending twi.Code
	state   state
	cur     Target
	targets map[uint8]Target
	faults  []Fault
	events  []Event
	isr     func()
}

// New returns a Sim with the peripheral enabled and acknowledging its own
// address.
//
// opts may be nil.
func New(opts *Opts) *Sim {
	if opts == nil {
		opts = &Opts{}
	}
	s := &Sim{
		name:    opts.Name,
		clk:     opts.Clock,
		latency: opts.Latency,
		tick:    opts.Tick,
		own:     opts.Address & 0x7F,
		gcall:   opts.GeneralCall,
		ctrl:    twi.Enable | twi.Ack,
		status:  twi.CodeNoInfo,
		targets: map[uint8]Target{},
	}
	if s.name == "" {
		s.name = "twisim"
	}
	if s.clk == nil {
		s.clk = clock.NewMock()
	}
	if s.latency == 0 {
		s.latency = 10 * time.Microsecond
	}
	if s.tick == 0 {
		s.tick = s.latency
	}
	return s
}

func (s *Sim) String() string {
	return s.name
}

// Clock returns the simulated clock.
func (s *Sim) Clock() *clock.Mock {
	return s.clk
}

// Attach connects t at addr, replacing any previous target.
func (s *Sim) Attach(addr uint8, t Target) {
	s.mu.Lock()
	s.targets[addr&0x7F] = t
	s.mu.Unlock()
}

// Detach disconnects the target at addr.
func (s *Sim) Detach(addr uint8) {
	s.mu.Lock()
	delete(s.targets, addr&0x7F)
	s.mu.Unlock()
}

// Inject queues faults.
func (s *Sim) Inject(f ...Fault) {
	s.mu.Lock()
	s.faults = append(s.faults, f...)
	s.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (s *Sim) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// ClearEvents discards the recorded events.
func (s *Sim) ClearEvents() {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
}

// SetInterrupt registers the interrupt handler used in slave mode.
func (s *Sim) SetInterrupt(isr func()) {
	s.mu.Lock()
	s.isr = isr
	s.mu.Unlock()
}

// BitRate returns the last programmed bit rate.
func (s *Sim) BitRate() (uint8, twi.Prescaler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.twbr, s.ps
}

// SetBitRate implements twi.BitRater.
func (s *Sim) SetBitRate(twbr uint8, ps twi.Prescaler) error {
	s.mu.Lock()
	s.twbr = twbr
	s.ps = ps
	s.mu.Unlock()
	return nil
}

// Status implements twi.Hardware.
func (s *Sim) Status() twi.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status | twi.Code(s.ps&3)
}

// Control implements twi.Hardware.
//
// While an operation is pending, each call advances the clock by one tick.
func (s *Sim) Control() twi.Control {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		if s.stuck || s.clk.Now().Before(s.due) {
			s.clk.Add(s.tick)
		}
		if !s.stuck && !s.clk.Now().Before(s.due) {
			s.busy = false
			s.flag = true
			s.status = s.pending
		}
	}
	c := s.ctrl
	if s.flag {
		c |= twi.IntFlag
	}
	return c
}

// SetControl implements twi.Hardware.
func (s *Sim) SetControl(c twi.Control) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl = c &^ twi.IntFlag
	if c&twi.IntFlag == 0 {
		return
	}
	s.flag = false
	s.busy = false
	s.stuck = false
	if s.state == stSlave {
		// Interrupt released; the remote master continues.
		return
	}
	if c&twi.Stop != 0 {
		s.stop()
		s.ctrl &^= twi.Stop
		if c&twi.Start == 0 {
			return
		}
	}
	if c&twi.Start != 0 {
		s.start()
		return
	}
	switch s.state {
	case stStarted:
		s.address()
	case stTransmit:
		s.write()
	case stReceive:
		s.read(c&twi.Ack != 0)
	case stError:
		s.schedule(s.latency, twi.CodeBusError)
	}
}

// Data implements twi.Hardware.
func (s *Sim) Data() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// SetData implements twi.Hardware.
func (s *Sim) SetData(b byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		s.ctrl |= twi.WriteCollision
		return
	}
	s.ctrl &^= twi.WriteCollision
	s.data = b
}

// stop must be called with mu held.
func (s *Sim) stop() {
	if s.cur != nil {
		s.cur.Stop()
		s.cur = nil
	}
	s.state = stIdle
	s.status = twi.CodeNoInfo
	s.events = append(s.events, Event{Op: OpStop, Code: twi.CodeNoInfo})
}

// start must be called with mu held.
func (s *Sim) start() {
	op, code := OpStart, twi.CodeStart
	switch s.state {
	case stStarted, stTransmit, stReceive, stNACKed:
		op, code = OpRepeatedStart, twi.CodeRepStart
		if s.cur != nil {
			s.cur.Stop()
			s.cur = nil
		}
	case stError:
		s.schedule(s.latency, twi.CodeBusError)
		s.events = append(s.events, Event{Op: OpStart, Code: twi.CodeBusError})
		return
	}
	if f, ok := s.fault(op); ok {
		s.inject(f, op, 0)
		return
	}
	s.issue(op, 0, code)
	s.state = stStarted
}

// address must be called with mu held.
func (s *Sim) address() {
	sla := s.data
	read := sla&1 != 0
	if f, ok := s.fault(OpAddress); ok {
		s.inject(f, OpAddress, sla)
		return
	}
	t := s.targets[sla>>1]
	ok := t != nil && t.Addressed(read)
	code := twi.CodeMTSlaNACK
	switch {
	case ok && read:
		code = twi.CodeMRSlaACK
	case ok:
		code = twi.CodeMTSlaACK
	case read:
		code = twi.CodeMRSlaNACK
	}
	s.issue(OpAddress, sla, code)
	switch {
	case !ok:
		s.state = stNACKed
	case read:
		s.cur, s.state = t, stReceive
	default:
		s.cur, s.state = t, stTransmit
	}
}

// write must be called with mu held.
func (s *Sim) write() {
	b := s.data
	if f, ok := s.fault(OpWrite); ok {
		s.inject(f, OpWrite, b)
		return
	}
	code := twi.CodeMTDataNACK
	if s.cur.Write(b) {
		code = twi.CodeMTDataACK
	}
	s.issue(OpWrite, b, code)
}

// read must be called with mu held.
func (s *Sim) read(ack bool) {
	if f, ok := s.fault(OpRead); ok {
		s.inject(f, OpRead, 0)
		return
	}
	s.data = s.cur.Read()
	code := twi.CodeMRDataNACK
	if ack {
		code = twi.CodeMRDataACK
	}
	s.issue(OpRead, s.data, code)
}

// issue records op and schedules its completion with code.
//
// Must be called with mu held.
func (s *Sim) issue(op Op, b byte, code twi.Code) {
	s.schedule(s.latency, code)
	s.events = append(s.events, Event{Op: op, Byte: b, Code: code})
}

// fault pops the head fault if it matches op. Delay-only faults are
// consumed here and only postpone the next completion.
//
// Must be called with mu held.
func (s *Sim) fault(op Op) (Fault, bool) {
	if len(s.faults) == 0 {
		return Fault{}, false
	}
	f := s.faults[0]
	if f.Op != OpAny && f.Op != op {
		return Fault{}, false
	}
	s.faults = s.faults[1:]
	if f.Keep {
		s.extra += f.Delay
		return Fault{}, false
	}
	return f, true
}

// inject applies f in place of op.
//
// Must be called with mu held.
func (s *Sim) inject(f Fault, op Op, b byte) {
	if f.Stuck {
		s.busy = true
		s.stuck = true
		s.status = twi.CodeNoInfo
		s.events = append(s.events, Event{Op: op, Byte: b, Code: twi.CodeNoInfo})
		return
	}
	s.schedule(s.latency+f.Delay, f.Code)
	s.events = append(s.events, Event{Op: op, Byte: b, Code: f.Code})
	switch f.Code & twi.StatusMask {
	case twi.CodeArbLost, twi.CodeSRArbLostSlaACK, twi.CodeSRArbLostGCallACK, twi.CodeSTArbLostSlaACK:
		if s.cur != nil {
			s.cur.Stop()
			s.cur = nil
		}
		s.state = stIdle
	case twi.CodeBusError:
		s.state = stError
	case twi.CodeMTSlaNACK, twi.CodeMRSlaNACK:
		s.state = stNACKed
	}
}

// schedule must be called with mu held.
func (s *Sim) schedule(delay time.Duration, code twi.Code) {
	s.busy = true
	s.stuck = false
	s.due = s.clk.Now().Add(delay + s.extra)
	s.extra = 0
	s.pending = code
	s.status = twi.CodeNoInfo
}

var _ twi.Hardware = &Sim{}
var _ twi.BitRater = &Sim{}
