package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// fetch runs the IF unit.
//
// The executed slot is emptied first. A branch parked in the waiting slot
// blocks all fetching until its operands are free of hazards, at which
// point it is resolved. Otherwise up to FetchWidth instructions are taken
// from the PC: branches are resolved immediately (or parked) and end the
// cycle, other instructions join the issue queue.
func (p *Pipeline) fetch() error {
	if !p.executed.IsEmpty() {
		if _, err := p.executed.Dequeue(); err != nil {
			return err
		}
	}

	if !p.waiting.IsEmpty() {
		return p.releaseWaiting()
	}

	for n := 0; n < p.config.FetchWidth; n++ {
		word, ok := p.source.Word(p.pc)
		if !ok {
			return fmt.Errorf("%w %d", ErrNoInstruction, p.pc)
		}

		e := &Entry{Inst: p.decoder.Decode(word), PC: p.pc}

		if e.Inst.IsBreak() {
			// BREAK only leaves once every earlier instruction has
			// committed; until then fetch stalls on it.
			if p.Drained() {
				if err := p.executed.Enqueue(e); err != nil {
					return err
				}
				p.stats.Fetched++
				p.stopping = true
				p.event(e, "fetch break")
			}
			return nil
		}

		if p.preIssue.Len() >= p.preIssue.Read().Capacity() {
			return nil
		}

		p.stats.Fetched++

		if e.Inst.IsBranch() {
			return p.fetchBranch(e)
		}

		if e.Inst.IsInert() {
			p.logger.WithField("pc", e.PC).Warnf("undefined instruction word %#08x", word)
		}

		if err := p.preIssue.Write().Enqueue(e); err != nil {
			return err
		}
		p.event(e, "fetch")
		p.pc += 4
	}

	return nil
}

func (p *Pipeline) fetchBranch(e *Entry) error {
	hazard := p.hazardUnit.DataHazard(e.Inst,
		p.active,
		p.preIssue.Read().Entries(),
		p.preIssue.Write().Entries(),
	)

	if hazard {
		p.event(e, "defer branch")
		return p.waiting.Enqueue(e)
	}

	return p.resolveBranch(e)
}

func (p *Pipeline) releaseWaiting() error {
	e := p.waiting.Front()

	if p.hazardUnit.DataHazard(e.Inst, p.active, p.preIssue.Read().Entries()) {
		p.stats.WaitCycles++
		return nil
	}

	if _, err := p.waiting.Dequeue(); err != nil {
		return err
	}
	p.event(e, "release branch")

	return p.resolveBranch(e)
}

func (p *Pipeline) resolveBranch(e *Entry) error {
	if err := p.executed.Enqueue(e); err != nil {
		return err
	}

	next, taken := p.branchUnit.Resolve(e.Inst, e.PC)
	p.pc = next

	p.stats.BranchesResolved++
	p.stats.Retired++
	if taken {
		p.stats.BranchesTaken++
	}

	p.logger.WithFields(logrus.Fields{
		"cycle": p.cycle,
		"pc":    e.PC,
		"inst":  e.Inst.String(),
		"taken": taken,
		"next":  next,
	}).Debug("resolve branch")

	return nil
}
