package lexer

import "fmt"

// Kind represents the type of a token.
type Kind uint8

const (
	Unknown      Kind = iota // word that is neither reserved nor a known label
	Opcode                   // instruction mnemonic
	OrgDirective             // ORG
	Immediate                // #decimal
	HexLiteral               // 0xhex
	Register                 // R0 to R11
	Label                    // label definition or a reference to an already defined label
	Identifier               // word that is resolved by the assembler
	Comma                    // ,
	LParen                   // (
	RParen                   // )
	LBracket                 // [
	RBracket                 // ]
	LBrace                   // {
	RBrace                   // }
)

var kindNames = map[Kind]string{
	Unknown:      "unknown",
	Opcode:       "opcode",
	OrgDirective: "org",
	Immediate:    "immediate",
	HexLiteral:   "hex",
	Register:     "register",
	Label:        "label",
	Identifier:   "identifier",
	Comma:        "comma",
	LParen:       "lparen",
	RParen:       "rparen",
	LBracket:     "lbracket",
	RBracket:     "rbracket",
	LBrace:       "lbrace",
	RBrace:       "rbrace",
}

// String returns the name of the token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Token is a single lexeme of the source, pointing back to its position.
type Token struct {
	Kind   Kind
	Text   string
	Line   int // 1-based source line
	Column int // 1-based byte column in the trimmed line
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

// IsValue returns whether the token is a numeric literal.
func (t Token) IsValue() bool {
	return t.Kind == Immediate || t.Kind == HexLiteral
}

// IsName returns whether the token is a word that can reference a label.
func (t Token) IsName() bool {
	return t.Kind == Label || t.Kind == Identifier || t.Kind == Unknown
}
