// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twisim

import "sync"

// Target is a device attached to the simulated bus.
type Target interface {
	// Addressed is called when the master sends the target's address; it
	// returns whether the address is acknowledged.
	Addressed(read bool) bool
	// Write receives a byte and returns whether it is acknowledged.
	Write(b byte) bool
	// Read returns the next byte.
	Read() byte
	// Stop ends the transaction, on stop or repeated start.
	Stop()
}

// Memory is a register-pointer memory, like a 24C02 EEPROM.
//
// The first byte written after the address sets the pointer. Writes wrap
// within a page when PageSize is set; reads wrap at the end of the memory.
type Memory struct {
	mu       sync.Mutex
	mem      []byte
	pageSize int
	ptr      int
	ptrSet   bool
}

// NewMemory returns a Memory of size bytes filled with 0xFF. size must be
// at most 256. pageSize must be 0 or a power of two.
func NewMemory(size, pageSize int) *Memory {
	m := &Memory{mem: make([]byte, size), pageSize: pageSize}
	for i := range m.mem {
		m.mem[i] = 0xFF
	}
	return m
}

// Bytes returns a copy of the content.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.mem...)
}

// Load writes p at offset off, bypassing the bus.
func (m *Memory) Load(off int, p []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.mem[off:], p)
}

// Addressed implements Target.
func (m *Memory) Addressed(read bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !read {
		m.ptrSet = false
	}
	return len(m.mem) != 0
}

// Write implements Target.
func (m *Memory) Write(b byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ptrSet {
		m.ptr = int(b) % len(m.mem)
		m.ptrSet = true
		return true
	}
	m.mem[m.ptr] = b
	if m.pageSize > 0 {
		base := m.ptr &^ (m.pageSize - 1)
		m.ptr = base | (m.ptr+1)&(m.pageSize-1)
	} else {
		m.ptr = (m.ptr + 1) % len(m.mem)
	}
	return true
}

// Read implements Target.
func (m *Memory) Read() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.mem[m.ptr]
	m.ptr = (m.ptr + 1) % len(m.mem)
	return b
}

// Stop implements Target.
func (m *Memory) Stop() {
	m.mu.Lock()
	m.ptrSet = false
	m.mu.Unlock()
}

var _ Target = &Memory{}
