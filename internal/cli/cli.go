// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/reasm/internal/config"
	"github.com/retroenv/reasm/internal/fileprocessor"
	"github.com/retroenv/reasm/internal/options"
	"github.com/retroenv/reasm/internal/pipeline"
)

// ParseFlags parses the command line and returns the program and assembler options.
func ParseFlags() (options.Program, options.Assembler, error) {
	var opts options.Program
	var asmOpts options.Assembler

	args := os.Args[1:]
	if len(args) == 0 {
		return opts, asmOpts, &UsageError{msg: "missing subcommand"}
	}

	opts.Command = args[0]
	flags := flag.NewFlagSet(os.Args[0]+" "+opts.Command, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	readOptionFlags(flags, &opts)

	switch opts.Command {
	case options.BuildCommand:
		readAssemblerOptionFlags(flags, &opts, &asmOpts)
	case options.DisasmCommand:
		readDisasmOptionFlags(flags, &opts)
	default:
		return opts, asmOpts, &UsageError{msg: fmt.Sprintf("invalid subcommand: %s", opts.Command)}
	}

	err := flags.Parse(args[1:])
	rest := flags.Args()
	if err != nil || (len(rest) == 0 && opts.Batch == "") {
		msg := "missing input file"
		if err != nil {
			msg = err.Error()
		}
		return opts, asmOpts, &UsageError{flags: flags, command: opts.Command, msg: msg}
	}

	if err := validateArgs(rest); err != nil {
		return opts, asmOpts, err
	}

	if opts.Batch == "" {
		opts.Input = rest[0]
	}

	if err := validateOptionCombinations(opts); err != nil {
		return opts, asmOpts, err
	}
	normalizeOptions(&opts)

	return opts, asmOpts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags   *flag.FlagSet
	command string
	msg     string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("error: %s\n\n", e.msg)
	}

	switch e.command {
	case options.BuildCommand:
		fmt.Printf("usage: reasm build [options] <file to assemble>\n\n")
	case options.DisasmCommand:
		fmt.Printf("usage: reasm disasm [options] <file to disassemble>\n\n")
	default:
		fmt.Printf("usage: reasm <build|disasm> [options] <file>\n\n")
	}

	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
		fmt.Println()
	}
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after input file, please pass the input file as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{
			msg: fmt.Sprintf("unexpected argument %s, only one input file is supported", args[1]),
		}
	}
	return nil
}

// validateOptionCombinations checks for conflicting options.
func validateOptionCombinations(opts options.Program) error {
	if opts.Batch != "" && opts.Output != "" {
		return errors.New("output file can not be set in batch mode, output file names are derived from the input files")
	}
	if opts.Batch != "" && opts.Input != "" {
		return errors.New("input file can not be passed in batch mode")
	}
	if opts.Command == options.DisasmCommand {
		if _, err := pipeline.ParseOrigin(opts.Origin); err != nil {
			return err
		}
	}
	return nil
}

// normalizeOptions sets the default output file names.
func normalizeOptions(opts *options.Program) {
	if opts.Batch != "" || opts.Output != "" {
		return
	}

	switch opts.Command {
	case options.BuildCommand:
		opts.Output = config.DefaultOutputFile
	case options.DisasmCommand:
		opts.Output = fileprocessor.StdoutName
	}
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output file, - for standard output")
	flags.StringVar(&opts.Listing, "l", "", "name of the listing file to write")
	flags.StringVar(&opts.Symbols, "sym", "", "name of the symbol file to write")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically name the output files, for example *.asm")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readAssemblerOptionFlags(flags *flag.FlagSet, opts *options.Program, asmOpts *options.Assembler) {
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated binary by disassembling and reassembling it")
	flags.BoolVar(&asmOpts.SinglePass, "single-pass", false, "resolve labels in a single pass, labels can only be referenced after their definition")
	flags.BoolVar(&asmOpts.AllowDuplicateLabels, "allow-duplicate-labels", false, "allow labels to be defined multiple times, the first definition is used")
	flags.BoolVar(&asmOpts.Strict, "strict", false, "fail on tokens that do not start a statement instead of ignoring them")
}

func readDisasmOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Origin, "org", "0x0000", "address that the binary is loaded at, as hex value")
}
