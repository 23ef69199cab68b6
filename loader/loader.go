// Package loader reads programs in the simulator's text format: one
// 32-character binary word per line, most significant bit first.
//
// Words up to and including the first BREAK are instructions, placed at
// consecutive word addresses from the base address. Every word after BREAK
// is a two's-complement data value stored at its own address.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/ooosim/emu"
	"github.com/sarchlab/ooosim/insts"
)

// WordBits is the number of binary digits on every non-blank line.
const WordBits = 32

// ErrMalformedLine is returned for a line that is not a 32-digit binary
// word.
var ErrMalformedLine = errors.New("malformed program line")

// Line is one word of the input file.
type Line struct {
	// Bits is the line's text with surrounding whitespace removed.
	Bits string
	// Addr is the byte address of the word.
	Addr uint32
	// Word is the parsed value.
	Word uint32
	// Data is true for words following BREAK.
	Data bool
}

// Program is a parsed input file.
type Program struct {
	// Base is the address of the first word.
	Base uint32
	// Lines holds every word in file order.
	Lines []Line

	code map[uint32]uint32
}

// Word returns the instruction word at addr. Data words are not
// instructions.
func (p *Program) Word(addr uint32) (uint32, bool) {
	w, ok := p.code[addr]
	return w, ok
}

// Data returns the data segment in address order.
func (p *Program) Data() []emu.Word {
	var data []emu.Word
	for _, l := range p.Lines {
		if l.Data {
			data = append(data, emu.Word{Addr: l.Addr, Value: int32(l.Word)})
		}
	}
	return data
}

// NewMemory returns a data memory initialised with the data segment.
func (p *Program) NewMemory() *emu.Memory {
	mem := emu.NewMemory()
	for _, w := range p.Data() {
		mem.Write(w.Addr, w.Value)
	}
	return mem
}

// Load reads the program file at path.
func Load(path string, base uint32) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Parse(f, base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return prog, nil
}

// Parse reads a program from r. Blank lines are skipped.
func Parse(r io.Reader, base uint32) (*Program, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if len(text) != WordBits || strings.Trim(text, "01") != "" {
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrMalformedLine, text)
		}
		words = append(words, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	return build(base, words), nil
}

// FromWords builds a program from already encoded words.
func FromWords(base uint32, words ...uint32) *Program {
	bits := make([]string, len(words))
	for i, w := range words {
		bits[i] = fmt.Sprintf("%032b", w)
	}
	return build(base, bits)
}

func build(base uint32, bits []string) *Program {
	prog := &Program{
		Base: base,
		code: make(map[uint32]uint32),
	}

	decoder := insts.NewDecoder()
	data := false
	addr := base

	for _, b := range bits {
		// Validated by the caller.
		w, _ := strconv.ParseUint(b, 2, 32)
		word := uint32(w)

		prog.Lines = append(prog.Lines, Line{Bits: b, Addr: addr, Word: word, Data: data})

		if !data {
			prog.code[addr] = word
			data = decoder.Decode(word).IsBreak()
		}
		addr += 4
	}

	return prog
}
