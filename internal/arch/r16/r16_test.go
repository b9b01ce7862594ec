package r16

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		expected byte
		valid    bool
	}{
		{"R0", 0x00, true},
		{"R1", 0x01, true},
		{"R9", 0x09, true},
		{"R10", 0x0A, true},
		{"R11", 0x0B, true},
		{"R12", 0, false},
		{"r0", 0, false},
		{"A", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ok := Register(tt.name)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.expected, index)
		})
	}
}

func TestRegisterName(t *testing.T) {
	for i := range byte(RegisterCount) {
		name, ok := RegisterName(i)
		assert.True(t, ok)

		index, ok := Register(name)
		assert.True(t, ok)
		assert.Equal(t, i, index)
	}

	_, ok := RegisterName(RegisterCount)
	assert.False(t, ok)
	assert.True(t, RegisterNames.Contains("R11"))
	assert.False(t, RegisterNames.Contains("R12"))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode   byte
		name     string
		operands []OperandKind
	}{
		{MovIm, "MOV", []OperandKind{RegisterOperand, ValueOperand}},
		{MovR, "MOV", []OperandKind{RegisterOperand, RegisterOperand}},
		{MovAddrA, "MOV", []OperandKind{AddressOperand, AddressOperand}},
		{AddR, "ADD", []OperandKind{RegisterOperand, RegisterOperand, RegisterOperand}},
		{AddI, "ADD", []OperandKind{RegisterOperand, ValueOperand, ValueOperand}},
		{ShrIR, "SHR", []OperandKind{RegisterOperand, ValueOperand, RegisterOperand}},
		{NotR, "NOT", []OperandKind{RegisterOperand, RegisterOperand}},
		{CmpIR, "CMP", []OperandKind{ValueOperand, RegisterOperand}},
		{IleRI, "ILE", []OperandKind{RegisterOperand, ValueOperand}},
		{JcA, "JC", []OperandKind{LabelOperand}},
		{PushImB, "PUSH.B", []OperandKind{ByteOperand}},
		{PopA, "POP", []OperandKind{AddressOperand}},
		{IncR, "INC", []OperandKind{RegisterOperand}},
		{Hlt, "HLT", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := Decode(tt.opcode)
			assert.True(t, ok)
			assert.Equal(t, tt.name, op.Instruction.Name)
			assert.Equal(t, tt.opcode, op.Form.Opcode)
			assert.Equal(t, len(tt.operands), len(op.Form.Operands))
			for i, kind := range tt.operands {
				assert.Equal(t, kind, op.Form.Operands[i])
			}
		})
	}

	_, ok := Decode(0x50)
	assert.False(t, ok)
}

func TestOpcodeTableComplete(t *testing.T) {
	for name, ins := range Instructions {
		assert.True(t, Mnemonics.Contains(name))
		for _, form := range ins.Forms {
			op, ok := Decode(form.Opcode)
			assert.True(t, ok)
			assert.Equal(t, ins, op.Instruction)
			assert.Equal(t, ins.Arity(), len(form.Operands))
		}
	}
}

func TestFormSize(t *testing.T) {
	tests := []struct {
		opcode byte
		size   int
	}{
		{Hlt, 1},
		{IncR, 2},
		{NotR, 3},
		{JmpA, 3},
		{PushImB, 2},
		{MovIm, 4},
		{AddR, 4},
		{AddRI, 5},
		{AddI, 6},
		{MovAddrA, 5},
	}

	for _, tt := range tests {
		op, ok := Decode(tt.opcode)
		assert.True(t, ok)
		assert.Equal(t, tt.size, op.Form.Size())
	}
}

func TestInstructionMatch(t *testing.T) {
	form, ok := Add.Match([]OperandKind{RegisterOperand, ValueOperand, RegisterOperand})
	assert.True(t, ok)
	assert.Equal(t, AddIR, form.Opcode)

	form, ok = PushB.Match([]OperandKind{ValueOperand})
	assert.True(t, ok)
	assert.Equal(t, PushImB, form.Opcode)

	_, ok = Cmp.Match([]OperandKind{ValueOperand, ValueOperand})
	assert.False(t, ok)

	_, ok = Jmp.Match([]OperandKind{ValueOperand})
	assert.False(t, ok)

	assert.Equal(t, "register, value, register", formName(t, AddIR))
	assert.Equal(t, "none", formName(t, Hlt))
}

func formName(t *testing.T, opcode byte) string {
	t.Helper()
	op, ok := Decode(opcode)
	assert.True(t, ok)
	return op.Form.Name()
}
