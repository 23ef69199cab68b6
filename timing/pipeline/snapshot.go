package pipeline

import (
	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/insts"
)

// QueueView is a read-only copy of one stage queue.
type QueueView struct {
	Name     string
	Capacity int
	Entries  []*insts.Instruction
}

// Slot returns the instruction at position i, or nil when the slot is
// empty.
func (q QueueView) Slot(i int) *insts.Instruction {
	if i < 0 || i >= len(q.Entries) {
		return nil
	}
	return q.Entries[i]
}

// Snapshot is the observable pipeline state at the end of a cycle.
type Snapshot struct {
	Cycle  uint64
	Halted bool
	PC     uint32

	// Waiting and Executed are the IF unit slots; nil when empty.
	Waiting  *insts.Instruction
	Executed *insts.Instruction

	PreIssue QueueView
	PreALU1  QueueView
	PreMem   QueueView
	PostMem  QueueView
	PreALU2  QueueView
	PostALU2 QueueView
	PreALU3  QueueView
	PostALU3 QueueView

	Registers [emu.NumRegs]int32
	Data      []emu.Word
}

// Queues returns the stage queues in pipeline order.
func (s *Snapshot) Queues() []QueueView {
	return []QueueView{
		s.PreIssue,
		s.PreALU1,
		s.PreMem,
		s.PostMem,
		s.PreALU2,
		s.PostALU2,
		s.PreALU3,
		s.PostALU3,
	}
}

// Snapshot captures the current state. Between cycles every latch write
// side is empty, so only read sides are reported.
func (p *Pipeline) Snapshot() Snapshot {
	return Snapshot{
		Cycle:     p.cycle,
		Halted:    p.halted,
		PC:        p.pc,
		Waiting:   front(p.waiting),
		Executed:  front(p.executed),
		PreIssue:  view(p.preIssue.Read()),
		PreALU1:   view(p.preALU1.Read()),
		PreMem:    view(p.preMem.Read()),
		PostMem:   view(p.postMem.Read()),
		PreALU2:   view(p.preALU2.Read()),
		PostALU2:  view(p.postALU2.Read()),
		PreALU3:   view(p.preALU3.Read()),
		PostALU3:  view(p.postALU3.Read()),
		Registers: p.regFile.X,
		Data:      p.memory.Words(),
	}
}

func front(b *Buffer) *insts.Instruction {
	if e := b.Front(); e != nil {
		return e.Inst
	}
	return nil
}

func view(b *Buffer) QueueView {
	v := QueueView{
		Name:     b.Name(),
		Capacity: b.Capacity(),
		Entries:  make([]*insts.Instruction, 0, b.Len()),
	}
	for _, e := range b.Entries() {
		v.Entries = append(v.Entries, e.Inst)
	}
	return v
}
