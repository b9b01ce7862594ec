// Package verification verifies that the assembled code can be recreated
// from its own disassembly.
package verification

import (
	"context"
	"fmt"
	"strings"

	"github.com/retroenv/reasm/internal/assembler"
	"github.com/retroenv/reasm/internal/disasm"
	"github.com/retroenv/reasm/internal/lexer"
	"github.com/retroenv/reasm/internal/options"
	"github.com/retroenv/reasm/internal/program"
	"github.com/retroenv/reasm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

const maxLoggedMismatches = 10

// VerifyOutput disassembles the code of the program, assembles the generated
// source again and checks that the result matches the input code.
func VerifyOutput(ctx context.Context, logger *log.Logger, app *program.Program) error {
	dis := disasm.New(logger, app.Code, app.Segments)
	disassembled, err := dis.Process(ctx)
	if err != nil {
		return fmt.Errorf("disassembling code: %w", err)
	}

	source := &strings.Builder{}
	if err := writer.New(disassembled, source).WriteSource(); err != nil {
		return fmt.Errorf("writing disassembly: %w", err)
	}
	logger.Debug("Reassembling disassembly", log.Int("size", source.Len()))

	tokens := lexer.Tokenize(source.String())
	asm := assembler.New(logger, options.Assembler{Strict: true})
	reassembled, err := asm.Assemble(tokens)
	if err != nil {
		return fmt.Errorf("reassembling disassembly: %w", err)
	}

	if err := checkBufferEqual(logger, app.Code, reassembled.Code); err != nil {
		return fmt.Errorf("code mismatch: %w", err)
	}
	if err := checkAddressesEqual(app.Instructions, reassembled.Instructions); err != nil {
		return fmt.Errorf("instruction mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < maxLoggedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}

func checkAddressesEqual(input, output []program.Instruction) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched instruction counts, %d != %d", len(input), len(output))
	}
	for i := range input {
		if input[i].Address != output[i].Address {
			return fmt.Errorf("instruction %d address mismatch, expected 0x%04X but got 0x%04X",
				i, input[i].Address, output[i].Address)
		}
	}
	return nil
}
