package emu

import (
	"maps"
	"slices"
)

// Word is one data memory location.
type Word struct {
	Addr  uint32
	Value int32
}

// Memory is a sparse, word-addressed data memory. Locations that were never
// written read as zero.
type Memory struct {
	data map[uint32]int32
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{data: make(map[uint32]int32)}
}

// Read returns the word stored at addr.
func (m *Memory) Read(addr uint32) int32 {
	return m.data[addr]
}

// Write stores a word at addr.
func (m *Memory) Write(addr uint32, value int32) {
	m.data[addr] = value
}

// Len returns the number of populated locations.
func (m *Memory) Len() int {
	return len(m.data)
}

// Words returns every populated location sorted by address.
func (m *Memory) Words() []Word {
	addrs := slices.Sorted(maps.Keys(m.data))

	words := make([]Word, len(addrs))
	for i, addr := range addrs {
		words[i] = Word{Addr: addr, Value: m.data[addr]}
	}
	return words
}

// Clone returns an independent copy of the memory.
func (m *Memory) Clone() *Memory {
	return &Memory{data: maps.Clone(m.data)}
}
