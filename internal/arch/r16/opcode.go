package r16

// Opcode values of all instructions.
const (
	MovIm     byte = 0x00
	MovR      byte = 0x01
	MovA      byte = 0x02
	MovAddrIm byte = 0x03
	MovAddrR  byte = 0x04
	MovAddrA  byte = 0x05

	AddR  byte = 0x06
	AddI  byte = 0x07
	AddRI byte = 0x08
	AddIR byte = 0x09

	SubR  byte = 0x0A
	SubI  byte = 0x0B
	SubRI byte = 0x0C
	SubIR byte = 0x0D

	AdcR  byte = 0x0E
	AdcI  byte = 0x0F
	AdcRI byte = 0x10
	AdcIR byte = 0x11

	SbcR  byte = 0x12
	SbcI  byte = 0x13
	SbcRI byte = 0x14
	SbcIR byte = 0x15

	MulR  byte = 0x16
	MulI  byte = 0x17
	MulRI byte = 0x18
	MulIR byte = 0x19

	DivR  byte = 0x1A
	DivI  byte = 0x1B
	DivRI byte = 0x1C
	DivIR byte = 0x1D

	AndR  byte = 0x1E
	AndI  byte = 0x1F
	AndRI byte = 0x20
	AndIR byte = 0x21

	OrR  byte = 0x22
	OrI  byte = 0x23
	OrRI byte = 0x24
	OrIR byte = 0x25

	XorR  byte = 0x26
	XorI  byte = 0x27
	XorRI byte = 0x28
	XorIR byte = 0x29

	NotR byte = 0x2A

	ShlR  byte = 0x2B
	ShlI  byte = 0x2C
	ShlRI byte = 0x2D
	ShlIR byte = 0x2E

	ShrR  byte = 0x2F
	ShrI  byte = 0x30
	ShrRI byte = 0x31
	ShrIR byte = 0x32

	CmpR  byte = 0x33
	CmpRI byte = 0x34

	JmpA byte = 0x35
	JnzA byte = 0x36
	JzA  byte = 0x37
	JnsA byte = 0x38
	JsA  byte = 0x39
	JncA byte = 0x3A
	JcA  byte = 0x3B

	PushImW byte = 0x3C
	PushImB byte = 0x3D
	PushR   byte = 0x3E
	PopR    byte = 0x3F
	PopA    byte = 0x40

	IncR byte = 0x41
	DecR byte = 0x42

	CmpIR byte = 0x43

	IgtR  byte = 0x44
	IgtRI byte = 0x45
	IgtIR byte = 0x46

	IltR  byte = 0x47
	IltRI byte = 0x48
	IltIR byte = 0x49

	IgeR  byte = 0x4A
	IgeRI byte = 0x4B
	IgeIR byte = 0x4C

	IleR  byte = 0x4D
	IleRI byte = 0x4E
	IleIR byte = 0x4F

	Hlt byte = 0xFF
)

// Opcode is a decoded opcode byte, linking it to its instruction and operand form.
type Opcode struct {
	Instruction *Instruction
	Form        Form
}

// Opcodes maps every opcode byte to its instruction and form.
// Unused opcode bytes have a nil Instruction.
var Opcodes = buildOpcodes()

// Decode returns the instruction and form for the given opcode byte.
func Decode(opcode byte) (Opcode, bool) {
	op := Opcodes[opcode]
	return op, op.Instruction != nil
}

func buildOpcodes() [256]Opcode {
	var opcodes [256]Opcode
	for _, ins := range instructionList {
		for _, form := range ins.Forms {
			if opcodes[form.Opcode].Instruction != nil {
				panic("duplicate opcode for instruction " + ins.Name)
			}
			opcodes[form.Opcode] = Opcode{
				Instruction: ins,
				Form:        form,
			}
		}
	}
	return opcodes
}
