// Package report renders simulator output: the disassembly listing of a
// program and the per-cycle pipeline trace.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/insts"
	"github.com/sarchlab/ooosim/loader"
	"github.com/sarchlab/ooosim/timing/pipeline"
)

// WriteDisassembly writes one line per program word:
// "<bits>\t<address>\t<instruction>" for code and
// "<bits>\t<address>\t<value>" for data.
func WriteDisassembly(w io.Writer, prog *loader.Program) error {
	decoder := insts.NewDecoder()

	var sb strings.Builder
	for _, l := range prog.Lines {
		if l.Data {
			fmt.Fprintf(&sb, "%s\t%d\t%d\n", l.Bits, l.Addr, int32(l.Word))
			continue
		}
		fmt.Fprintf(&sb, "%s\t%d\t%s\n", l.Bits, l.Addr, decoder.Decode(l.Word))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write disassembly: %w", err)
	}
	return nil
}

// TraceWriter writes the state of every cycle. It implements
// core.Recorder.
type TraceWriter struct {
	w       io.Writer
	started bool
}

// NewTraceWriter creates a trace writer on w.
func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{w: w}
}

// Record writes one cycle. Cycles are separated by a newline; the last
// cycle is not newline-terminated.
func (t *TraceWriter) Record(snap *pipeline.Snapshot) error {
	var sb strings.Builder
	if t.started {
		sb.WriteString("\n")
	}
	t.started = true

	FormatCycle(&sb, snap)

	if _, err := io.WriteString(t.w, sb.String()); err != nil {
		return fmt.Errorf("failed to write cycle %d: %w", snap.Cycle, err)
	}
	return nil
}

// FormatCycle renders a snapshot without a trailing newline.
func FormatCycle(sb *strings.Builder, snap *pipeline.Snapshot) {
	sb.WriteString(strings.Repeat("-", 20))
	fmt.Fprintf(sb, "\nCycle %d:\n\n", snap.Cycle)

	sb.WriteString("IF Unit:\n")
	fmt.Fprintf(sb, "\tWaiting:%s\n", bracket(snap.Waiting))
	fmt.Fprintf(sb, "\tExecuted:%s\n", bracket(snap.Executed))

	writeList(sb, snap.PreIssue)
	writeList(sb, snap.PreALU1)
	for _, q := range []pipeline.QueueView{
		snap.PreMem,
		snap.PostMem,
		snap.PreALU2,
		snap.PostALU2,
		snap.PreALU3,
		snap.PostALU3,
	} {
		if q.Capacity == 1 {
			fmt.Fprintf(sb, "%s Queue:%s\n", q.Name, bracket(q.Slot(0)))
		} else {
			writeList(sb, q)
		}
	}
	sb.WriteString("\n")

	writeRegisters(sb, snap.Registers)
	sb.WriteString("\n")
	writeData(sb, snap.Data)
}

func bracket(inst *insts.Instruction) string {
	if inst == nil {
		return ""
	}
	return " [" + inst.String() + "]"
}

func writeList(sb *strings.Builder, q pipeline.QueueView) {
	fmt.Fprintf(sb, "%s Queue:\n", q.Name)
	for i := 0; i < q.Capacity; i++ {
		fmt.Fprintf(sb, "\tEntry %d:%s\n", i, bracket(q.Slot(i)))
	}
}

const perRow = 8

func writeRegisters(sb *strings.Builder, regs [emu.NumRegs]int32) {
	sb.WriteString("Registers")
	for i, v := range regs {
		if i%perRow == 0 {
			fmt.Fprintf(sb, "\nx%02d:", i)
		}
		fmt.Fprintf(sb, "\t%d", v)
	}
}

func writeData(sb *strings.Builder, data []emu.Word) {
	sb.WriteString("Data")
	for i, w := range data {
		if i%perRow == 0 {
			fmt.Fprintf(sb, "\n%d:", w.Addr)
		}
		fmt.Fprintf(sb, "\t%d", w.Value)
	}
}
