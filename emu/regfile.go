// Package emu provides the architectural state of the simulated machine and a
// functional, one-instruction-at-a-time emulator.
package emu

// NumRegs is the number of general-purpose registers.
const NumRegs = 32

// RegFile represents the integer register file.
// All 32 registers are general purpose and start at zero; x0 is not wired
// to zero.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	X [NumRegs]int32
}

// ReadReg reads a register value. Out-of-range indices return 0.
func (r *RegFile) ReadReg(reg uint8) int32 {
	if int(reg) >= NumRegs {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to out-of-range indices are
// ignored.
func (r *RegFile) WriteReg(reg uint8, value int32) {
	if int(reg) >= NumRegs {
		return
	}
	r.X[reg] = value
}
