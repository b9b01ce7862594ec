// Package r16 provides the instruction set definition of the R16 CPU.
//
// # R16 Architecture Overview
//
// R16 is a small register based CPU with a 16 bit address space. It is the
// target of the reasm assembler and disassembler.
//
// # Registers
//
// The CPU has 12 general purpose registers R0 to R11. A register operand is
// encoded as a single byte containing the register index (R0 = 0x00, R11 = 0x0B).
//
// # Instruction Encoding
//
// Every instruction starts with a single opcode byte, followed by its operands
// in source order:
//   - register operand: 1 byte register index
//   - immediate or hex value: 2 bytes, little-endian
//   - memory address [a]: 2 bytes, little-endian
//   - jump target: 2 bytes, little-endian
//
// The opcode byte selects both the instruction and its operand shape, for
// example ADD exists in the four shapes ADD_R (register, register),
// ADD_RI (register, value), ADD_IR (value, register) and ADD_I (value, value).
//
// # Instruction Set
//
//   - Data movement: MOV, PUSH, PUSH.B, POP
//   - Arithmetic: ADD, SUB, MUL, DIV, ADC, SBC, INC, DEC
//   - Logic: AND, OR, XOR, NOT, SHL, SHR
//   - Compare: CMP, IGT, ILT, IGE, ILE
//   - Flow control: JMP, JNZ, JZ, JNC, JC, JNS, JS, HLT
//
// The opcode table has to be kept in sync with the instruction decoder of the
// CPU implementation.
package r16
