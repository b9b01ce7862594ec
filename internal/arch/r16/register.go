package r16

import (
	"fmt"

	"github.com/retroenv/retrogolib/set"
)

// RegisterCount is the number of general purpose registers.
const RegisterCount = 12

// Registers maps register names to their encoded index.
var Registers = buildRegisters()

// RegisterNames contains all register names.
var RegisterNames = buildRegisterNames()

// Register returns the encoded index of the named register.
func Register(name string) (byte, bool) {
	index, ok := Registers[name]
	return index, ok
}

// RegisterName returns the name of the register with the given index.
func RegisterName(index byte) (string, bool) {
	if index >= RegisterCount {
		return "", false
	}
	return fmt.Sprintf("R%d", index), true
}

func buildRegisters() map[string]byte {
	registers := make(map[string]byte, RegisterCount)
	for i := range byte(RegisterCount) {
		registers[fmt.Sprintf("R%d", i)] = i
	}
	return registers
}

func buildRegisterNames() set.Set[string] {
	names := set.New[string]()
	for name := range Registers {
		names.Add(name)
	}
	return names
}
