package assembler

import (
	"regexp"

	"github.com/retroenv/reasm/internal/arch/r16"
	"github.com/retroenv/reasm/internal/lexer"
)

type statementKind uint8

const (
	ignoredStatement statementKind = iota
	orgStatement
	labelStatement
	instructionStatement
)

// operand is a parsed instruction operand.
type operand struct {
	kind  r16.OperandKind
	value lexer.Token // register, literal or label name, the inner token for addresses
	text  string      // operand as written in the source
}

// statement is a single parsed top level construct of the token stream.
type statement struct {
	kind  statementKind
	token lexer.Token // first token of the statement

	value       lexer.Token // hex literal of an ORG directive
	instruction *r16.Instruction
	form        r16.Form
	operands    []operand
}

var registerLike = regexp.MustCompile(`^[Rr][0-9]+$`)

// parser splits a token stream into statements.
type parser struct {
	tokens []lexer.Token
	pos    int
}

func newParser(tokens []lexer.Token) *parser {
	return &parser{tokens: tokens}
}

// next returns the next statement, it returns false if all tokens are consumed.
func (p *parser) next() (statement, bool, error) {
	if p.pos >= len(p.tokens) {
		return statement{}, false, nil
	}

	tok := p.tokens[p.pos]
	p.pos++

	var (
		st  statement
		err error
	)
	switch tok.Kind {
	case lexer.OrgDirective:
		st, err = p.parseOrg(tok)
	case lexer.Label:
		st = statement{kind: labelStatement, token: tok}
	case lexer.Opcode:
		st, err = p.parseInstruction(tok)
	default:
		st = statement{kind: ignoredStatement, token: tok}
	}
	return st, true, err
}

func (p *parser) parseOrg(tok lexer.Token) (statement, error) {
	value, err := p.expect(tok, lexer.HexLiteral)
	if err != nil {
		return statement{}, err
	}
	return statement{
		kind:  orgStatement,
		token: tok,
		value: value,
	}, nil
}

func (p *parser) parseInstruction(tok lexer.Token) (statement, error) {
	ins, ok := r16.Instructions[tok.Text]
	if !ok {
		return statement{}, semanticErrorf(tok.Line, "%w: unknown instruction '%s'", ErrUnexpectedToken, tok.Text)
	}
	st := statement{
		kind:        instructionStatement,
		token:       tok,
		instruction: ins,
	}

	arity := ins.Arity()
	for i := range arity {
		if i > 0 {
			if _, err := p.expect(tok, lexer.Comma); err != nil {
				return statement{}, err
			}
		}

		op, err := p.parseOperand(tok)
		if err != nil {
			return statement{}, err
		}
		st.operands = append(st.operands, op)
	}

	form, err := matchForm(tok, ins, st.operands)
	if err != nil {
		return statement{}, err
	}
	st.form = form
	return st, nil
}

func (p *parser) parseOperand(mnemonic lexer.Token) (operand, error) {
	tok, err := p.advance(mnemonic)
	if err != nil {
		return operand{}, err
	}

	switch {
	case tok.Kind == lexer.Register:
		return operand{kind: r16.RegisterOperand, value: tok, text: tok.Text}, nil

	case tok.IsValue():
		return operand{kind: r16.ValueOperand, value: tok, text: valueText(tok)}, nil

	case tok.IsName():
		return operand{kind: r16.LabelOperand, value: tok, text: tok.Text}, nil

	case tok.Kind == lexer.LBracket:
		inner, err := p.advance(tok)
		if err != nil {
			return operand{}, err
		}
		if !inner.IsValue() && !inner.IsName() {
			return operand{}, syntaxErrorf(inner.Line, "%w: expected address in brackets but got %s",
				ErrUnexpectedToken, inner)
		}
		if _, err := p.expect(inner, lexer.RBracket); err != nil {
			return operand{}, err
		}
		text := inner.Text
		if inner.IsValue() {
			text = valueText(inner)
		}
		return operand{kind: r16.AddressOperand, value: inner, text: "[" + text + "]"}, nil

	default:
		return operand{}, syntaxErrorf(tok.Line, "%w: expected %s operand but got %s",
			ErrUnexpectedToken, mnemonic.Text, tok)
	}
}

// advance returns the next token, prev is used for error reporting if the
// end of the token stream is reached.
func (p *parser) advance(prev lexer.Token) (lexer.Token, error) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, syntaxErrorf(prev.Line, "%w after %s", ErrUnexpectedEOF, prev)
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, nil
}

// expect returns the next token if it is of the expected kind.
func (p *parser) expect(prev lexer.Token, kind lexer.Kind) (lexer.Token, error) {
	tok, err := p.advance(prev)
	if err != nil {
		return lexer.Token{}, err
	}
	if tok.Kind != kind {
		return lexer.Token{}, syntaxErrorf(tok.Line, "%w: expected %s but got %s",
			ErrUnexpectedToken, kind, tok)
	}
	return tok, nil
}

// matchForm returns the encoding form of the instruction that matches the
// operand kinds, or an error describing why no form matches.
func matchForm(tok lexer.Token, ins *r16.Instruction, operands []operand) (r16.Form, error) {
	kinds := make([]r16.OperandKind, len(operands))
	for i, op := range operands {
		kinds[i] = op.kind
	}
	if form, ok := ins.Match(kinds); ok {
		return form, nil
	}

	if ins.Destination && !acceptsDestination(ins, kinds[0]) {
		if kinds[0] == r16.LabelOperand && registerLike.MatchString(operands[0].text) {
			return r16.Form{}, semanticErrorf(tok.Line, "%w '%s'", ErrInvalidRegister, operands[0].text)
		}
		return r16.Form{}, semanticErrorf(tok.Line, "invalid %s destination '%s': %w",
			ins.Name, operands[0].text, ErrInvalidDestination)
	}
	if ins.Jump {
		return r16.Form{}, semanticErrorf(tok.Line, "%w '%s'", ErrInvalidLabel, operands[0].text)
	}
	for _, op := range operands {
		if op.kind == r16.LabelOperand && registerLike.MatchString(op.text) {
			return r16.Form{}, semanticErrorf(tok.Line, "%w '%s'", ErrInvalidRegister, op.text)
		}
	}

	shape := r16.Form{Operands: kinds}
	return r16.Form{}, semanticErrorf(tok.Line, "%w for %s: %s", ErrUnsupportedOperands, ins.Name, shape.Name())
}

func acceptsDestination(ins *r16.Instruction, kind r16.OperandKind) bool {
	for _, form := range ins.Forms {
		if form.Operands[0] == kind {
			return true
		}
	}
	return false
}

// valueText returns the literal as written in the source.
func valueText(tok lexer.Token) string {
	if tok.Kind == lexer.Immediate {
		return "#" + tok.Text
	}
	return tok.Text
}
