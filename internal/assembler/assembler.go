// Package assembler translates a token stream into R16 machine code.
package assembler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/retroenv/reasm/internal/arch/r16"
	"github.com/retroenv/reasm/internal/lexer"
	"github.com/retroenv/reasm/internal/options"
	"github.com/retroenv/reasm/internal/program"
	"github.com/retroenv/reasm/internal/symbols"
	"github.com/retroenv/retrogolib/log"
)

const (
	maxAddress = 0xFFFF
	hexDigits  = "0123456789abcdefABCDEF"
)

var labelName = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// Assembler translates token streams into programs.
// It holds no state between calls, every Assemble call is an independent run.
type Assembler struct {
	logger  *log.Logger
	options options.Assembler
}

// New returns a new assembler.
func New(logger *log.Logger, options options.Assembler) *Assembler {
	return &Assembler{
		logger:  logger,
		options: options,
	}
}

// Assemble encodes the token stream into a program.
//
// By default labels are collected in a first pass over all statements so
// that jumps can reference labels that are defined later in the source.
// In single pass mode labels are defined while encoding and only labels
// defined before a jump can be referenced.
func (a *Assembler) Assemble(tokens []lexer.Token) (*program.Program, error) {
	labels := symbols.New(a.options.AllowDuplicateLabels)

	if !a.options.SinglePass {
		collector := &labelCollector{
			run: run{assembler: a, labels: labels},
		}
		if err := collector.walk(tokens, collector.process); err != nil {
			return nil, err
		}
	}

	enc := &encoder{
		run:           run{assembler: a, labels: labels},
		app:           program.New(),
		defineLabels:  a.options.SinglePass,
		warnOnIgnored: true,
	}
	if err := enc.walk(tokens, enc.process); err != nil {
		return nil, err
	}

	enc.app.Labels = labels.Labels()
	a.logger.Debug("Assembly finished",
		log.Int("size", len(enc.app.Code)),
		log.Int("labels", labels.Len()))
	for _, label := range labels.Unused() {
		a.logger.Debug("Label is never referenced",
			log.String("label", label.Name),
			log.Int("line", label.Line))
	}
	return enc.app, nil
}

// run contains the state that both passes track while walking the statements.
type run struct {
	assembler *Assembler
	labels    *symbols.Table

	origin uint16
	size   int // number of bytes emitted so far
}

// walk parses all statements of the token stream and calls the handler for each.
func (r *run) walk(tokens []lexer.Token, handle func(statement) error) error {
	p := newParser(tokens)
	for {
		st, ok, err := p.next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch st.kind {
		case orgStatement:
			if err := r.setOrigin(st); err != nil {
				return err
			}
		case ignoredStatement:
			if r.assembler.options.Strict {
				return syntaxErrorf(st.token.Line, "%w %s", ErrUnexpectedToken, st.token)
			}
		}

		if err := handle(st); err != nil {
			return err
		}
	}
}

func (r *run) setOrigin(st statement) error {
	digits := strings.TrimPrefix(st.value.Text, "0x")
	origin, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return semanticErrorf(st.value.Line, "%w: ORG value '%s' is not a 16 bit hex number",
			ErrInvalidNumber, st.value.Text)
	}
	r.origin = uint16(origin)
	return nil
}

// currentAddress returns the address of the next emitted byte.
func (r *run) currentAddress(line int) (uint16, error) {
	address := int(r.origin) + r.size
	if address > maxAddress {
		return 0, semanticErrorf(line, "%w: 0x%X", ErrAddressOverflow, address)
	}
	return uint16(address), nil
}

// defineLabel adds a label at the current address.
func (r *run) defineLabel(st statement) error {
	name := st.token.Text
	if !labelName.MatchString(name) || r16.Mnemonics.Contains(name) || r16.RegisterNames.Contains(name) ||
		name == "ORG" {

		return semanticErrorf(st.token.Line, "%w name '%s'", ErrInvalidLabel, name)
	}

	address, err := r.currentAddress(st.token.Line)
	if err != nil {
		return err
	}
	label := symbols.Label{
		Name:    name,
		Address: address,
		Offset:  r.size,
		Line:    st.token.Line,
	}
	if err := r.labels.Define(label); err != nil {
		return semanticErrorf(st.token.Line, "%w", err)
	}

	r.assembler.logger.Debug("Label defined",
		log.String("label", name),
		log.Hex("address", address))
	return nil
}

// labelCollector is the first pass that only computes label addresses.
type labelCollector struct {
	run
}

func (c *labelCollector) process(st statement) error {
	switch st.kind {
	case labelStatement:
		return c.defineLabel(st)
	case instructionStatement:
		c.size += st.form.Size()
	}
	return nil
}

// encoder is the pass that emits the instruction bytes.
type encoder struct {
	run

	app           *program.Program
	defineLabels  bool
	warnOnIgnored bool
}

func (e *encoder) process(st statement) error {
	switch st.kind {
	case orgStatement:
		e.app.SetOrigin(e.size, e.origin)

	case labelStatement:
		if e.defineLabels {
			return e.defineLabel(st)
		}

	case instructionStatement:
		return e.encodeInstruction(st)

	case ignoredStatement:
		if e.warnOnIgnored {
			e.assembler.logger.Warn("Ignoring unexpected token",
				log.String("token", st.token.String()),
				log.Int("line", st.token.Line))
		}
	}
	return nil
}

func (e *encoder) encodeInstruction(st statement) error {
	address, err := e.currentAddress(st.token.Line)
	if err != nil {
		return err
	}

	data := make([]byte, 0, st.form.Size())
	data = append(data, st.form.Opcode)

	operands := make([]string, 0, len(st.operands))
	for i, op := range st.operands {
		data, err = e.encodeOperand(data, st.form.Operands[i], op)
		if err != nil {
			return err
		}
		operands = append(operands, op.text)
	}

	e.app.Instructions = append(e.app.Instructions, program.Instruction{
		Address:  address,
		Offset:   e.size,
		Line:     st.token.Line,
		Mnemonic: st.instruction.Name,
		Operands: operands,
		Bytes:    data,
	})
	e.app.Code = append(e.app.Code, data...)
	e.size += len(data)
	return nil
}

func (e *encoder) encodeOperand(data []byte, kind r16.OperandKind, op operand) ([]byte, error) {
	switch kind {
	case r16.RegisterOperand:
		index, ok := r16.Register(op.value.Text)
		if !ok {
			return nil, semanticErrorf(op.value.Line, "%w '%s'", ErrInvalidRegister, op.value.Text)
		}
		return append(data, index), nil

	case r16.ValueOperand:
		value, err := e.value16(op.value)
		if err != nil {
			return nil, err
		}
		return appendUint16(data, value), nil

	case r16.ByteOperand:
		value, wide, err := e.parseValue(op.value)
		if err != nil {
			return nil, err
		}
		if wide || value > 0xFF {
			e.warnTruncated(op.value, 8)
		}
		return append(data, byte(value)), nil

	case r16.AddressOperand:
		var address uint16
		var err error
		if op.value.IsValue() {
			address, err = e.value16(op.value)
		} else {
			address, err = e.resolveLabel(op.value)
		}
		if err != nil {
			return nil, err
		}
		return appendUint16(data, address), nil

	case r16.LabelOperand:
		address, err := e.resolveLabel(op.value)
		if err != nil {
			return nil, err
		}
		return appendUint16(data, address), nil

	default:
		return nil, fmt.Errorf("unsupported operand kind %d", kind)
	}
}

// resolveLabel returns the address of the referenced label.
func (e *encoder) resolveLabel(tok lexer.Token) (uint16, error) {
	label, ok := e.labels.Get(tok.Text)
	if !ok {
		return 0, semanticErrorf(tok.Line, "%w '%s'", ErrInvalidLabel, tok.Text)
	}
	e.labels.MarkUsed(tok.Text)
	return label.Address, nil
}

// value16 returns the literal value truncated to 16 bits.
func (e *encoder) value16(tok lexer.Token) (uint16, error) {
	value, wide, err := e.parseValue(tok)
	if err != nil {
		return 0, err
	}
	if wide || value > 0xFFFF {
		e.warnTruncated(tok, 16)
	}
	return uint16(value), nil
}

// parseValue parses an immediate as decimal and a hex literal as base 16 number.
// Literals wider than 64 bits are returned reduced to 16 bits with wide set.
func (e *encoder) parseValue(tok lexer.Token) (value uint64, wide bool, err error) {
	text, base := tok.Text, 10
	if tok.Kind == lexer.HexLiteral {
		text, base = strings.TrimPrefix(text, "0x"), 16
	}
	if text == "" {
		return 0, false, semanticErrorf(tok.Line, "%w: empty literal %s", ErrInvalidNumber, tok)
	}

	value, err = strconv.ParseUint(text, base, 64)
	switch {
	case err == nil:
		return value, false, nil
	case errors.Is(err, strconv.ErrRange):
		if truncated, ok := truncateLiteral(text, base); ok {
			return truncated, true, nil
		}
		fallthrough
	default:
		return 0, false, semanticErrorf(tok.Line, "%w '%s': %w", ErrInvalidNumber, valueText(tok), err)
	}
}

// truncateLiteral returns the lowest 16 bits of a literal that does not fit
// into 64 bits.
func truncateLiteral(text string, base int) (uint64, bool) {
	if base == 16 {
		if strings.TrimLeft(text, hexDigits) != "" {
			return 0, false
		}
		value, err := strconv.ParseUint(text[len(text)-4:], 16, 16)
		return value, err == nil
	}

	var value uint64
	for _, c := range text {
		if c < '0' || c > '9' {
			return 0, false
		}
		value = (value*10 + uint64(c-'0')) & 0xFFFF
	}
	return value, true
}

func (e *encoder) warnTruncated(tok lexer.Token, bits int) {
	e.assembler.logger.Warn("Value truncated",
		log.String("value", valueText(tok)),
		log.Int("bits", bits),
		log.Int("line", tok.Line))
}

func appendUint16(data []byte, value uint16) []byte {
	return append(data, byte(value), byte(value>>8))
}
