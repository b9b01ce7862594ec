package assembler

import (
	"errors"
	"fmt"
)

// Class is the class of an assembly error.
type Class uint8

const (
	SyntaxError   Class = iota + 1 // missing or unexpected token
	SemanticError                  // well formed statement that can not be assembled
)

// String returns the name of the error class.
func (c Class) String() string {
	switch c {
	case SyntaxError:
		return "syntax"
	case SemanticError:
		return "semantic"
	default:
		return "unknown"
	}
}

var (
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrInvalidDestination  = errors.New("invalid destination operand")
	ErrInvalidRegister     = errors.New("invalid register")
	ErrInvalidLabel        = errors.New("invalid label")
	ErrInvalidNumber       = errors.New("invalid number")
	ErrUnsupportedOperands = errors.New("unsupported operand combination")
	ErrAddressOverflow     = errors.New("address exceeds 16 bit address space")
)

// Error is an assembly error that points to the source line that caused it.
type Error struct {
	Class Class
	Line  int
	Err   error
}

// Error returns the error message including the source line.
func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s error: %s", e.Class, e.Err)
	}
	return fmt.Sprintf("line %d: %s error: %s", e.Line, e.Class, e.Err)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

func syntaxErrorf(line int, format string, args ...any) error {
	return &Error{
		Class: SyntaxError,
		Line:  line,
		Err:   fmt.Errorf(format, args...),
	}
}

func semanticErrorf(line int, format string, args ...any) error {
	return &Error{
		Class: SemanticError,
		Line:  line,
		Err:   fmt.Errorf(format, args...),
	}
}
