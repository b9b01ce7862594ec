// Package lexer converts assembly source text into a flat sequence of tokens.
package lexer

import (
	"strings"

	"github.com/retroenv/reasm/internal/arch/r16"
	"github.com/retroenv/retrogolib/set"
)

const (
	commentChar = ';'
	labelSuffix = ':'
	orgKeyword  = "ORG"
)

var punctuation = map[byte]Kind{
	',': Comma,
	'(': LParen,
	')': RParen,
	'[': LBracket,
	']': RBracket,
	'{': LBrace,
	'}': RBrace,
}

// Lexer tokenizes assembly source text line by line.
type Lexer struct {
	trackLabels bool
}

// Option configures a lexer.
type Option func(*Lexer)

// WithLabelTracking classifies a word as Label only if a definition of that
// label was seen earlier in the source, any other word becomes Unknown.
// This reproduces the classic single pass behavior where a label can only be
// referenced after its definition.
func WithLabelTracking() Option {
	return func(l *Lexer) {
		l.trackLabels = true
	}
}

// New returns a new lexer.
func New(options ...Option) *Lexer {
	l := &Lexer{}
	for _, option := range options {
		option(l)
	}
	return l
}

// Tokenize is a convenience wrapper that tokenizes the source with a new lexer.
func Tokenize(source string, options ...Option) []Token {
	return New(options...).Tokenize(source)
}

// Tokenize returns all tokens of the source in source order. It never fails,
// characters that do not start a token are skipped.
func (l *Lexer) Tokenize(source string) []Token {
	s := &scanner{
		trackLabels: l.trackLabels,
		labels:      set.New[string](),
	}
	for i, line := range strings.Split(source, "\n") {
		s.line = i + 1
		s.tokenizeLine(line)
	}
	return s.tokens
}

// scanner holds the state of a single Tokenize call.
type scanner struct {
	trackLabels bool
	labels      set.Set[string] // label definitions seen so far
	tokens      []Token

	line  int
	text  string
	pos   int
	start int
}

func (s *scanner) tokenizeLine(line string) {
	if idx := strings.IndexByte(line, commentChar); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if strings.IndexByte(line, labelSuffix) == len(line)-1 {
		name := strings.TrimSpace(line[:len(line)-1])
		s.labels.Add(name)
		s.tokens = append(s.tokens, Token{Kind: Label, Text: name, Line: s.line, Column: 1})
		return
	}

	s.text = line
	s.pos = 0
	for s.pos < len(s.text) {
		c := s.text[s.pos]
		s.start = s.pos

		switch {
		case isSpace(c):
			s.pos++

		case c == '#':
			s.pos++
			s.start = s.pos
			s.consume(isDigit)
			s.emit(Immediate)

		case c == '0' && s.pos+1 < len(s.text) && s.text[s.pos+1] == 'x':
			s.pos += 2
			s.consume(isAlphaNumeric)
			s.emit(HexLiteral)

		case isWordStart(c):
			s.consume(isWordChar)
			s.emit(s.classifyWord(s.text[s.start:s.pos]))

		default:
			if kind, ok := punctuation[c]; ok {
				s.pos++
				s.emit(kind)
				continue
			}
			s.pos++
		}
	}
}

func (s *scanner) classifyWord(word string) Kind {
	switch {
	case r16.Mnemonics.Contains(word):
		return Opcode
	case r16.RegisterNames.Contains(word):
		return Register
	case word == orgKeyword:
		return OrgDirective
	case !s.trackLabels:
		return Identifier
	case s.labels.Contains(word):
		return Label
	default:
		return Unknown
	}
}

func (s *scanner) consume(accept func(byte) bool) {
	for s.pos < len(s.text) && accept(s.text[s.pos]) {
		s.pos++
	}
}

func (s *scanner) emit(kind Kind) {
	s.tokens = append(s.tokens, Token{
		Kind:   kind,
		Text:   s.text[s.start:s.pos],
		Line:   s.line,
		Column: s.start + 1,
	})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func isWordStart(c byte) bool {
	return isAlpha(c) || c == '_' || c == '.'
}

func isWordChar(c byte) bool {
	return isAlphaNumeric(c) || c == '_' || c == '.'
}
