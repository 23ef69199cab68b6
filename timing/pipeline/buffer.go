package pipeline

import (
	"errors"
	"fmt"

	"github.com/sarchlab/ooosim/insts"
)

var (
	// ErrCapacityExceeded is returned when enqueueing into a full buffer.
	ErrCapacityExceeded = errors.New("buffer capacity exceeded")
	// ErrEmptyBuffer is returned when dequeueing from an empty buffer.
	ErrEmptyBuffer = errors.New("buffer is empty")
	// ErrIndexOutOfRange is returned by RemoveAt for a missing position.
	ErrIndexOutOfRange = errors.New("buffer index out of range")
)

// Entry is an instruction travelling through the pipeline.
type Entry struct {
	// Inst is the decoded instruction.
	Inst *insts.Instruction

	// PC is the address the instruction was fetched from.
	PC uint32

	// Result is the value computed by a functional unit (or loaded from
	// memory) that writeback commits.
	Result int32
}

// Buffer is a fixed-capacity FIFO of entries with positional removal.
type Buffer struct {
	name     string
	capacity int
	entries  []*Entry
}

// NewBuffer creates an empty buffer holding at most capacity entries.
func NewBuffer(name string, capacity int) *Buffer {
	return &Buffer{
		name:     name,
		capacity: capacity,
		entries:  make([]*Entry, 0, capacity),
	}
}

// Name returns the buffer's label.
func (b *Buffer) Name() string {
	return b.name
}

// Capacity returns the maximum number of entries.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Len returns the number of entries held.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// IsFull reports whether the buffer is at capacity.
func (b *Buffer) IsFull() bool {
	return len(b.entries) >= b.capacity
}

// IsEmpty reports whether the buffer holds nothing.
func (b *Buffer) IsEmpty() bool {
	return len(b.entries) == 0
}

// At returns the entry at position i without removing it.
func (b *Buffer) At(i int) *Entry {
	return b.entries[i]
}

// Front returns the oldest entry, or nil when empty.
func (b *Buffer) Front() *Entry {
	if b.IsEmpty() {
		return nil
	}
	return b.entries[0]
}

// Entries returns the held entries in order. The slice must not be
// modified.
func (b *Buffer) Entries() []*Entry {
	return b.entries
}

// Enqueue appends an entry.
func (b *Buffer) Enqueue(e *Entry) error {
	if b.IsFull() {
		return fmt.Errorf("%s: %w", b.name, ErrCapacityExceeded)
	}
	b.entries = append(b.entries, e)
	return nil
}

// Dequeue removes and returns the oldest entry.
func (b *Buffer) Dequeue() (*Entry, error) {
	if b.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", b.name, ErrEmptyBuffer)
	}
	e := b.entries[0]
	b.entries[0] = nil
	b.entries = b.entries[1:]
	return e, nil
}

// RemoveAt removes and returns the entry at position i, keeping the
// relative order of the rest.
func (b *Buffer) RemoveAt(i int) (*Entry, error) {
	if i < 0 || i >= len(b.entries) {
		return nil, fmt.Errorf("%s[%d]: %w", b.name, i, ErrIndexOutOfRange)
	}
	e := b.entries[i]
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
	return e, nil
}

// Clear drops every entry.
func (b *Buffer) Clear() {
	clear(b.entries)
	b.entries = b.entries[:0]
}

// Latch is a double-buffered stage boundary. Producers write into the
// write side during a cycle; consumers read the read side, which only sees
// those writes after Advance at the end of the cycle.
type Latch struct {
	write *Buffer
	read  *Buffer
}

// NewLatch creates a latch whose two sides each hold capacity entries.
func NewLatch(name string, capacity int) *Latch {
	return &Latch{
		write: NewBuffer(name+" (staging)", capacity),
		read:  NewBuffer(name, capacity),
	}
}

// Write returns the side producers stage into this cycle.
func (l *Latch) Write() *Buffer {
	return l.write
}

// Read returns the side consumers drain this cycle.
func (l *Latch) Read() *Buffer {
	return l.read
}

// Len returns the total number of entries on both sides.
func (l *Latch) Len() int {
	return l.write.Len() + l.read.Len()
}

// IsEmpty reports whether both sides are empty.
func (l *Latch) IsEmpty() bool {
	return l.write.IsEmpty() && l.read.IsEmpty()
}

// Advance moves every staged entry, in order, behind the read side's
// remaining entries and clears the write side.
func (l *Latch) Advance() error {
	for _, e := range l.write.entries {
		if err := l.read.Enqueue(e); err != nil {
			return err
		}
	}
	l.write.Clear()
	return nil
}

// Reset empties both sides.
func (l *Latch) Reset() {
	l.write.Clear()
	l.read.Clear()
}
