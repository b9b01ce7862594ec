// Package options contains the program options.
package options

// Commands supported by the program.
const (
	BuildCommand  = "build"
	DisasmCommand = "disasm"
)

// Parameters contains file path options.
type Parameters struct {
	Input   string // source file, or binary file for disasm
	Output  string // output file, - for stdout
	Listing string // optional listing file
	Symbols string // optional symbol file
	Batch   string // glob pattern of files to process
}

// Flags contains behavior options.
type Flags struct {
	Command string
	Origin  string // origin of the binary for disasm, as hex literal
	Verify  bool
	Debug   bool
	Quiet   bool
}

// Program options of the assembler application.
type Program struct {
	Parameters
	Flags
}

// Assembler defines options to control the assembler.
type Assembler struct {
	SinglePass           bool // resolve labels in one pass, forward references fail
	AllowDuplicateLabels bool // first definition of a label wins instead of failing
	Strict               bool // fail on tokens that do not start a statement
}
