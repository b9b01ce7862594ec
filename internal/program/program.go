// Package program represents an assembled R16 program.
package program

import (
	"strings"

	"github.com/retroenv/reasm/internal/symbols"
)

// Instruction is a single encoded instruction of the program.
type Instruction struct {
	Address  uint16 // address the instruction is located at
	Offset   int    // offset of the first byte in the program code
	Line     int    // source line, 0 for generated instructions
	Mnemonic string
	Operands []string // operands as written in the source
	Bytes    []byte   // opcode byte followed by all operand bytes
}

// Source returns the instruction formatted as assembly source.
func (i Instruction) Source() string {
	if len(i.Operands) == 0 {
		return i.Mnemonic
	}
	return i.Mnemonic + " " + strings.Join(i.Operands, ", ")
}

// Segment marks the code offset at which an ORG directive set a new origin.
type Segment struct {
	Offset int
	Origin uint16
}

// Program defines an assembled program.
type Program struct {
	Code         []byte
	Segments     []Segment // origins in code offset order, the first one starts at offset 0
	Instructions []Instruction
	Labels       []symbols.Label // label definitions in definition order
}

// New creates a new empty program with an origin of 0.
func New() *Program {
	return &Program{
		Segments: []Segment{{Offset: 0, Origin: 0}},
	}
}

// Origin returns the origin of the first segment.
func (p *Program) Origin() uint16 {
	return p.Segments[0].Origin
}

// SetOrigin sets a new origin starting at the given code offset.
// An origin set at the same offset as the previous one replaces it.
func (p *Program) SetOrigin(offset int, origin uint16) {
	last := &p.Segments[len(p.Segments)-1]
	if last.Offset == offset {
		last.Origin = origin
		return
	}
	p.Segments = append(p.Segments, Segment{Offset: offset, Origin: origin})
}

// OriginAt returns the origin that is in effect at the given code offset.
func (p *Program) OriginAt(offset int) uint16 {
	origin := p.Segments[0].Origin
	for _, segment := range p.Segments {
		if segment.Offset > offset {
			break
		}
		origin = segment.Origin
	}
	return origin
}

// Aliases returns a map of label names to the address of their first definition.
func (p *Program) Aliases() map[string]uint16 {
	aliases := make(map[string]uint16, len(p.Labels))
	for _, label := range p.Labels {
		if _, ok := aliases[label.Name]; ok {
			continue
		}
		aliases[label.Name] = label.Address
	}
	return aliases
}
