// Package pipeline orchestrates the assembly and disassembly workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/reasm/internal/assembler"
	"github.com/retroenv/reasm/internal/disasm"
	"github.com/retroenv/reasm/internal/lexer"
	"github.com/retroenv/reasm/internal/loader"
	"github.com/retroenv/reasm/internal/options"
	"github.com/retroenv/reasm/internal/program"
	"github.com/retroenv/reasm/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete assembly workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new assembly pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
	}
}

// Assemble loads the source file of the options and assembles it.
func (p *Pipeline) Assemble(ctx context.Context, opts options.Program, asmOpts options.Assembler) (*program.Program, error) {
	source, err := p.loader.LoadSource(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	return p.AssembleSource(ctx, source, opts, asmOpts)
}

// AssembleSource runs the lexer, the assembler and the optional verification
// on an already loaded source.
func (p *Pipeline) AssembleSource(ctx context.Context, source string, opts options.Program,
	asmOpts options.Assembler) (*program.Program, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("assembling %s: %w", opts.Input, err)
	}

	var lexerOpts []lexer.Option
	if asmOpts.SinglePass {
		lexerOpts = append(lexerOpts, lexer.WithLabelTracking())
	}
	tokens := lexer.New(lexerOpts...).Tokenize(source)

	p.printInfo(opts, asmOpts, len(tokens))

	asm := assembler.New(p.logger, asmOpts)
	app, err := asm.Assemble(tokens)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", opts.Input, err)
	}

	if opts.Verify {
		if err := verification.VerifyOutput(ctx, p.logger, app); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful", log.String("file", opts.Input))
	}

	return app, nil
}

// Disassemble loads the binary file of the options and disassembles it.
func (p *Pipeline) Disassemble(ctx context.Context, opts options.Program) (*program.Program, error) {
	origin, err := ParseOrigin(opts.Origin)
	if err != nil {
		return nil, err
	}

	code, err := p.loader.LoadBinary(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading binary: %w", err)
	}

	if !opts.Quiet {
		p.logger.Info("Disassembling binary",
			log.String("file", opts.Input),
			log.Int("size", len(code)),
			log.Hex("origin", origin))
	}

	dis := disasm.New(p.logger, code, []program.Segment{{Offset: 0, Origin: origin}})
	app, err := dis.Process(ctx)
	if err != nil {
		return nil, fmt.Errorf("disassembling %s: %w", opts.Input, err)
	}
	return app, nil
}

// ParseOrigin parses a hex origin like 0x1000, an empty string returns 0.
func ParseOrigin(s string) (uint16, error) {
	if s == "" {
		return 0, nil
	}
	digits := strings.TrimPrefix(strings.ToLower(s), "0x")
	origin, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid origin '%s': %w", s, err)
	}
	return uint16(origin), nil
}

// printInfo prints information about the file being processed.
func (p *Pipeline) printInfo(opts options.Program, asmOpts options.Assembler, tokens int) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Assembling source",
		log.String("file", opts.Input),
		log.Int("tokens", tokens))
	if asmOpts.SinglePass {
		p.logger.Warn("Single pass mode enabled, labels can only be referenced after their definition")
	}
}
