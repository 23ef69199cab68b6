package pipeline

import "fmt"

// executeMemoryUnit runs ALU1. Loads read data memory here; stores only
// pass through, their write happens in the memory stage.
func (p *Pipeline) executeMemoryUnit() error {
	in := p.preALU1.Read()
	out := p.preMem.Write()

	if in.IsEmpty() || out.IsFull() {
		return nil
	}

	e, err := in.Dequeue()
	if err != nil {
		return err
	}

	if e.Inst.IsLoad() {
		value, ok := p.lsu.Load(e.Inst)
		if !ok {
			return fmt.Errorf("cannot load for %s", e.Inst)
		}
		e.Result = value
	}

	return out.Enqueue(e)
}

// executeALU runs ALU2 or ALU3 between the given latches.
func (p *Pipeline) executeALU(in, out *Latch) error {
	if in.Read().IsEmpty() || out.Write().IsFull() {
		return nil
	}

	e, err := in.Read().Dequeue()
	if err != nil {
		return err
	}

	e.Result, err = p.alu.Execute(e.Inst)
	if err != nil {
		return err
	}

	return out.Write().Enqueue(e)
}

// accessMemory completes stores and forwards loads to writeback.
func (p *Pipeline) accessMemory() error {
	in := p.preMem.Read()
	if in.IsEmpty() {
		return nil
	}

	e := in.Front()

	if e.Inst.IsStore() {
		if _, err := in.Dequeue(); err != nil {
			return err
		}
		if !p.lsu.Store(e.Inst) {
			return fmt.Errorf("cannot store for %s", e.Inst)
		}
		p.retire(e)
		p.stats.Stores++
		p.event(e, "store")
		return nil
	}

	if p.postMem.Write().IsFull() {
		return nil
	}

	if _, err := in.Dequeue(); err != nil {
		return err
	}
	return p.postMem.Write().Enqueue(e)
}

// writeback commits at most one result from each of Post-MEM, Post-ALU2
// and Post-ALU3, then ends the cycle by advancing every latch.
func (p *Pipeline) writeback() error {
	for _, l := range []*Latch{p.postMem, p.postALU2, p.postALU3} {
		if l.Read().IsEmpty() {
			continue
		}

		e, err := l.Read().Dequeue()
		if err != nil {
			return err
		}

		rd, ok := e.Inst.Dest()
		if !ok {
			return fmt.Errorf("%s has no destination", e.Inst)
		}
		p.regFile.WriteReg(rd, e.Result)
		p.retire(e)
		p.event(e, "commit")
	}

	p.alu2Ready = p.preALU2.Write().IsEmpty()
	p.alu3Ready = p.preALU3.Write().IsEmpty()

	for _, l := range p.latches() {
		if err := l.Advance(); err != nil {
			return err
		}
	}

	return nil
}
