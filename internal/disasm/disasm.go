// Package disasm converts R16 machine code back into assembly instructions.
package disasm

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/reasm/internal/arch/r16"
	"github.com/retroenv/reasm/internal/program"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

var (
	ErrUnknownOpcode        = errors.New("unknown opcode")
	ErrTruncatedInstruction = errors.New("truncated instruction")
	ErrInvalidRegister      = errors.New("invalid register index")
	ErrAddressOverflow      = errors.New("address exceeds 16 bit address space")
)

// jump references the label operand of a decoded instruction.
type jump struct {
	instruction int // index in the instructions slice
	operand     int
	target      uint16
}

// Disasm implements a linear sweep disassembler.
type Disasm struct {
	logger *log.Logger
	app    *program.Program

	instructions      []program.Instruction
	instructionStarts map[uint16]int // address to code offset, first decoded instruction wins
	jumps             []jump

	branchDestinations set.Set[uint16] // set of all addresses that are jumped to
}

// New creates a new disassembler for the code. The segments define the
// origins of the code, the first segment has to start at offset 0.
func New(logger *log.Logger, code []byte, segments []program.Segment) *Disasm {
	app := program.New()
	if len(segments) > 0 {
		app.Segments = append([]program.Segment(nil), segments...)
	}
	app.Code = code

	return &Disasm{
		logger:             logger,
		app:                app,
		instructionStarts:  make(map[uint16]int),
		branchDestinations: set.New[uint16](),
	}
}

// Process decodes all instructions of the code and returns them as program
// with generated labels for all jump destinations.
func (dis *Disasm) Process(ctx context.Context) (*program.Program, error) {
	if err := dis.decode(ctx); err != nil {
		return nil, err
	}

	dis.processJumpDestinations()

	dis.app.Instructions = dis.instructions
	dis.logger.Debug("Disassembled code",
		log.Int("instructions", len(dis.instructions)),
		log.Int("labels", len(dis.app.Labels)))
	return dis.app, nil
}

func (dis *Disasm) decode(ctx context.Context) error {
	code := dis.app.Code

	for offset := 0; offset < len(code); {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("disassembling: %w", err)
		}

		address, err := dis.addressOf(offset)
		if err != nil {
			return err
		}

		op, ok := r16.Decode(code[offset])
		if !ok {
			return fmt.Errorf("%w 0x%02X at address 0x%04X", ErrUnknownOpcode, code[offset], address)
		}
		size := op.Form.Size()
		if offset+size > len(code) {
			return fmt.Errorf("%w %s at address 0x%04X, %d bytes missing",
				ErrTruncatedInstruction, op.Instruction.Name, address, offset+size-len(code))
		}

		data := code[offset : offset+size]
		operands, err := dis.decodeOperands(op.Form, data[1:])
		if err != nil {
			return fmt.Errorf("decoding %s at address 0x%04X: %w", op.Instruction.Name, address, err)
		}

		if _, ok := dis.instructionStarts[address]; !ok {
			dis.instructionStarts[address] = offset
		}
		dis.instructions = append(dis.instructions, program.Instruction{
			Address:  address,
			Offset:   offset,
			Mnemonic: op.Instruction.Name,
			Operands: operands,
			Bytes:    data,
		})
		offset += size
	}
	return nil
}

// decodeOperands returns the operands as source text. Label operands are
// recorded as jumps and get their text assigned once all labels are known.
func (dis *Disasm) decodeOperands(form r16.Form, data []byte) ([]string, error) {
	operands := make([]string, 0, len(form.Operands))

	for i, kind := range form.Operands {
		switch kind {
		case r16.RegisterOperand:
			name, ok := r16.RegisterName(data[0])
			if !ok {
				return nil, fmt.Errorf("%w %d", ErrInvalidRegister, data[0])
			}
			operands = append(operands, name)

		case r16.ByteOperand:
			operands = append(operands, fmt.Sprintf("0x%02X", data[0]))

		case r16.ValueOperand:
			operands = append(operands, fmt.Sprintf("0x%04X", readWord(data)))

		case r16.AddressOperand:
			operands = append(operands, fmt.Sprintf("[0x%04X]", readWord(data)))

		case r16.LabelOperand:
			target := readWord(data)
			dis.jumps = append(dis.jumps, jump{
				instruction: len(dis.instructions),
				operand:     i,
				target:      target,
			})
			dis.branchDestinations.Add(target)
			operands = append(operands, "")
		}

		data = data[kind.Size():]
	}
	return operands, nil
}

// addressOf returns the address of the code offset.
func (dis *Disasm) addressOf(offset int) (uint16, error) {
	address := int(dis.app.OriginAt(offset)) + offset
	if address > 0xFFFF {
		return 0, fmt.Errorf("%w at code offset %d", ErrAddressOverflow, offset)
	}
	return uint16(address), nil
}

func readWord(data []byte) uint16 {
	return uint16(data[0]) | uint16(data[1])<<8
}
