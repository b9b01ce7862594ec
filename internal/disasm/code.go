package disasm

import (
	"fmt"
	"slices"

	"github.com/retroenv/reasm/internal/symbols"
	"github.com/retroenv/retrogolib/log"
)

const labelNaming = "_label_%04x"

// processJumpDestinations creates a label for every jump destination and
// updates the jumping instructions with the generated label name.
func (dis *Disasm) processJumpDestinations() {
	branchDestinations := make([]uint16, 0, len(dis.branchDestinations))
	for dest := range dis.branchDestinations {
		branchDestinations = append(branchDestinations, dest)
	}
	slices.Sort(branchDestinations)

	names := make(map[uint16]string, len(branchDestinations))
	for _, address := range branchDestinations {
		name := fmt.Sprintf(labelNaming, address)
		names[address] = name

		offset, ok := dis.instructionStarts[address]
		if !ok {
			offset = dis.detachedLabelOffset(address)
			dis.logger.Debug("Jump destination is not an instruction start",
				log.Hex("address", address))
		}

		dis.app.Labels = append(dis.app.Labels, symbols.Label{
			Name:    name,
			Address: address,
			Offset:  offset,
		})
	}

	for _, j := range dis.jumps {
		dis.instructions[j.instruction].Operands[j.operand] = names[j.target]
	}
}

// detachedLabelOffset returns the code offset for a label whose address does
// not match any instruction start. The label is placed with its own origin
// before the first instruction, or after the last one if its address is not
// lower than the code size.
func (dis *Disasm) detachedLabelOffset(address uint16) int {
	end := len(dis.app.Code)
	if int(address) >= end {
		return end
	}
	return 0
}
