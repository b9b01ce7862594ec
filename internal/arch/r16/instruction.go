package r16

import (
	"strings"

	"github.com/retroenv/retrogolib/set"
)

// OperandKind defines the encoding of a single instruction operand.
type OperandKind uint8

const (
	RegisterOperand OperandKind = iota + 1 // register index, 1 byte
	ValueOperand                           // immediate or hex value, 2 bytes little-endian
	ByteOperand                            // immediate or hex value truncated to 1 byte
	AddressOperand                         // memory address written as [a], 2 bytes little-endian
	LabelOperand                           // jump target label, 2 bytes little-endian
)

var operandKindNames = map[OperandKind]string{
	RegisterOperand: "register",
	ValueOperand:    "value",
	ByteOperand:     "byte",
	AddressOperand:  "address",
	LabelOperand:    "label",
}

// String returns the name of the operand kind.
func (k OperandKind) String() string {
	if name, ok := operandKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Size returns the number of bytes that the operand occupies in the encoded instruction.
func (k OperandKind) Size() int {
	switch k {
	case RegisterOperand, ByteOperand:
		return 1
	case ValueOperand, AddressOperand, LabelOperand:
		return 2
	default:
		return 0
	}
}

// Form is a single encoding variant of an instruction, identified by the
// kinds of its operands.
type Form struct {
	Opcode   byte
	Operands []OperandKind
}

// Size returns the size in bytes of an instruction encoded with this form,
// including the opcode byte.
func (f Form) Size() int {
	size := 1
	for _, kind := range f.Operands {
		size += kind.Size()
	}
	return size
}

// Name returns a short description of the operand shape, for example
// "register, register, value".
func (f Form) Name() string {
	if len(f.Operands) == 0 {
		return "none"
	}
	names := make([]string, len(f.Operands))
	for i, kind := range f.Operands {
		names[i] = kind.String()
	}
	return strings.Join(names, ", ")
}

// Instruction defines an instruction mnemonic with all its encoding forms.
type Instruction struct {
	Name  string
	Forms []Form

	Destination bool // the first operand is a destination register
	Jump        bool // the instruction transfers control to a label
}

// Arity returns the number of operands that the instruction expects.
// All forms of an instruction share the same arity.
func (ins *Instruction) Arity() int {
	if len(ins.Forms) == 0 {
		return 0
	}
	return len(ins.Forms[0].Operands)
}

// Match returns the form whose operand kinds match the given kinds.
func (ins *Instruction) Match(kinds []OperandKind) (Form, bool) {
	for _, form := range ins.Forms {
		if len(form.Operands) != len(kinds) {
			continue
		}
		matched := true
		for i, kind := range form.Operands {
			if kind != kinds[i] && (kind != ByteOperand || kinds[i] != ValueOperand) {
				matched = false
				break
			}
		}
		if matched {
			return form, true
		}
	}
	return Form{}, false
}

var (
	reg   = RegisterOperand
	val   = ValueOperand
	addr  = AddressOperand
	label = LabelOperand
)

// alu creates an arithmetic or logic instruction with a destination register
// and two source operands that can each be a register or a value.
func alu(name string, r, i, ri, ir byte) *Instruction {
	return &Instruction{
		Name:        name,
		Destination: true,
		Forms: []Form{
			{Opcode: r, Operands: []OperandKind{reg, reg, reg}},
			{Opcode: ri, Operands: []OperandKind{reg, reg, val}},
			{Opcode: ir, Operands: []OperandKind{reg, val, reg}},
			{Opcode: i, Operands: []OperandKind{reg, val, val}},
		},
	}
}

// compare creates a compare instruction. Comparing two values is not
// encodable as the result would be known at assembly time.
func compare(name string, r, ri, ir byte) *Instruction {
	return &Instruction{
		Name: name,
		Forms: []Form{
			{Opcode: r, Operands: []OperandKind{reg, reg}},
			{Opcode: ri, Operands: []OperandKind{reg, val}},
			{Opcode: ir, Operands: []OperandKind{val, reg}},
		},
	}
}

func jump(name string, opcode byte) *Instruction {
	return &Instruction{
		Name: name,
		Jump: true,
		Forms: []Form{
			{Opcode: opcode, Operands: []OperandKind{label}},
		},
	}
}

func unaryRegister(name string, opcode byte) *Instruction {
	return &Instruction{
		Name:        name,
		Destination: true,
		Forms: []Form{
			{Opcode: opcode, Operands: []OperandKind{reg}},
		},
	}
}

// Instructions of the R16 CPU.
var (
	Mov = &Instruction{
		Name:        "MOV",
		Destination: true,
		Forms: []Form{
			{Opcode: MovIm, Operands: []OperandKind{reg, val}},
			{Opcode: MovR, Operands: []OperandKind{reg, reg}},
			{Opcode: MovA, Operands: []OperandKind{reg, addr}},
			{Opcode: MovAddrIm, Operands: []OperandKind{addr, val}},
			{Opcode: MovAddrR, Operands: []OperandKind{addr, reg}},
			{Opcode: MovAddrA, Operands: []OperandKind{addr, addr}},
		},
	}

	Add = alu("ADD", AddR, AddI, AddRI, AddIR)
	Sub = alu("SUB", SubR, SubI, SubRI, SubIR)
	Mul = alu("MUL", MulR, MulI, MulRI, MulIR)
	Div = alu("DIV", DivR, DivI, DivRI, DivIR)
	Adc = alu("ADC", AdcR, AdcI, AdcRI, AdcIR)
	Sbc = alu("SBC", SbcR, SbcI, SbcRI, SbcIR)
	And = alu("AND", AndR, AndI, AndRI, AndIR)
	Or  = alu("OR", OrR, OrI, OrRI, OrIR)
	Xor = alu("XOR", XorR, XorI, XorRI, XorIR)
	Shl = alu("SHL", ShlR, ShlI, ShlRI, ShlIR)
	Shr = alu("SHR", ShrR, ShrI, ShrRI, ShrIR)

	Not = &Instruction{
		Name:        "NOT",
		Destination: true,
		Forms: []Form{
			{Opcode: NotR, Operands: []OperandKind{reg, reg}},
		},
	}

	Inc = unaryRegister("INC", IncR)
	Dec = unaryRegister("DEC", DecR)

	Cmp = compare("CMP", CmpR, CmpRI, CmpIR)
	Igt = compare("IGT", IgtR, IgtRI, IgtIR)
	Ilt = compare("ILT", IltR, IltRI, IltIR)
	Ige = compare("IGE", IgeR, IgeRI, IgeIR)
	Ile = compare("ILE", IleR, IleRI, IleIR)

	Jmp = jump("JMP", JmpA)
	Jnz = jump("JNZ", JnzA)
	Jz  = jump("JZ", JzA)
	Jnc = jump("JNC", JncA)
	Jc  = jump("JC", JcA)
	Jns = jump("JNS", JnsA)
	Js  = jump("JS", JsA)

	Push = &Instruction{
		Name: "PUSH",
		Forms: []Form{
			{Opcode: PushImW, Operands: []OperandKind{val}},
			{Opcode: PushR, Operands: []OperandKind{reg}},
		},
	}
	PushB = &Instruction{
		Name: "PUSH.B",
		Forms: []Form{
			{Opcode: PushImB, Operands: []OperandKind{ByteOperand}},
		},
	}
	Pop = &Instruction{
		Name: "POP",
		Forms: []Form{
			{Opcode: PopR, Operands: []OperandKind{reg}},
			{Opcode: PopA, Operands: []OperandKind{addr}},
		},
	}

	Halt = &Instruction{
		Name: "HLT",
		Forms: []Form{
			{Opcode: Hlt},
		},
	}
)

var instructionList = []*Instruction{
	Mov, Add, Sub, Mul, Div, Adc, Sbc, And, Or, Xor, Shl, Shr, Not, Inc, Dec,
	Cmp, Igt, Ilt, Ige, Ile, Jmp, Jnz, Jz, Jnc, Jc, Jns, Js, Push, PushB, Pop, Halt,
}

// Instructions maps all mnemonics to their instruction definition.
var Instructions = buildInstructions()

// Mnemonics contains all instruction mnemonics.
var Mnemonics = buildMnemonics()

func buildInstructions() map[string]*Instruction {
	m := make(map[string]*Instruction, len(instructionList))
	for _, ins := range instructionList {
		m[ins.Name] = ins
	}
	return m
}

func buildMnemonics() set.Set[string] {
	s := set.New[string]()
	for _, ins := range instructionList {
		s.Add(ins.Name)
	}
	return s
}
