package pipeline

// issue scans the read side of the issue queue in program order and
// dispatches every instruction that is free of hazards to its unit.
//
// An instruction is held when its unit's input queue is full, when it
// conflicts with the active set or with an earlier instruction still in the
// queue, or when its unit already accepted an instruction. ALU2 and ALU3
// idle for the cycle after accepting one. Loads and stores leave in program
// order, one per cycle, and a load waits while any store is in flight.
func (p *Pipeline) issue() error {
	queue := p.preIssue.Read()

	inputs := map[FunctionalUnit]*Buffer{
		UnitMemory:     p.preALU1.Read(),
		UnitArithmetic: p.preALU2.Read(),
		UnitLogical:    p.preALU3.Read(),
	}
	targets := map[FunctionalUnit]*Latch{
		UnitMemory:     p.preALU1,
		UnitArithmetic: p.preALU2,
		UnitLogical:    p.preALU3,
	}
	ready := map[FunctionalUnit]bool{
		UnitMemory:     true,
		UnitArithmetic: p.alu2Ready,
		UnitLogical:    p.alu3Ready,
	}
	memoryBlocked := false

	for i := 0; i < queue.Len(); {
		e := queue.At(i)
		inst := e.Inst

		if inst.IsInert() {
			if _, err := queue.RemoveAt(i); err != nil {
				return err
			}
			p.stats.Retired++
			p.event(e, "drop inert")
			continue
		}

		unit := UnitFor(inst)

		switch {
		case p.hazardUnit.StructuralHazard(inst, inputs), !ready[unit]:
			p.stats.StructuralStalls++
		case p.hazardUnit.DataHazard(inst, queue.Entries()[:i], p.active):
			p.stats.DataStalls++
		case inst.IsMemory() && memoryBlocked, inst.IsLoad() && p.storeInFlight():
			p.stats.StructuralStalls++
		default:
			if _, err := queue.RemoveAt(i); err != nil {
				return err
			}
			if err := targets[unit].Write().Enqueue(e); err != nil {
				return err
			}
			p.active = append(p.active, e)
			ready[unit] = false
			p.stats.Issued++
			p.event(e, "issue to "+unit.String())

			continue
		}

		if inst.IsMemory() {
			memoryBlocked = true
		}
		i++
	}

	return nil
}

func (p *Pipeline) storeInFlight() bool {
	for _, e := range p.active {
		if e.Inst.IsStore() {
			return true
		}
	}
	return false
}
