// Package fileprocessor handles file processing and output writing operations.
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/retroenv/reasm/internal/options"
	"github.com/retroenv/reasm/internal/pipeline"
	"github.com/retroenv/reasm/internal/program"
	"github.com/retroenv/reasm/internal/writer"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Output file extensions.
const (
	BinaryExtension  = ".bin"
	SourceExtension  = ".asm"
	ListingExtension = ".lst"
	SymbolsExtension = ".sym"
)

// StdoutName is the output file name that writes to standard output.
const StdoutName = "-"

const outputFileMode = 0o644

var (
	stdout     io.Writer = os.Stdout
	isTerminal           = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
)

// ProcessFile assembles a single source file and writes the binary and the
// optional listing and symbol files.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, asmOpts options.Assembler) error {
	p := pipeline.New(logger)
	app, err := p.Assemble(ctx, opts, asmOpts)
	if err != nil {
		return err
	}

	err = writeOutput(opts.Output, true, func(w io.Writer) error {
		_, err := w.Write(app.Code)
		return err
	})
	if err != nil {
		return fmt.Errorf("writing binary: %w", err)
	}

	if err := writeListingAndSymbols(opts, app); err != nil {
		return err
	}

	if !opts.Quiet {
		logger.Info("Assembled file",
			log.String("input", opts.Input),
			log.String("output", opts.Output),
			log.Int("size", len(app.Code)))
	}
	return nil
}

// DisassembleFile disassembles a single binary file and writes the assembly source.
func DisassembleFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	p := pipeline.New(logger)
	app, err := p.Disassemble(ctx, opts)
	if err != nil {
		return err
	}

	err = writeOutput(opts.Output, false, func(w io.Writer) error {
		return writer.New(app, w).WriteSource()
	})
	if err != nil {
		return fmt.Errorf("writing source: %w", err)
	}

	if err := writeListingAndSymbols(opts, app); err != nil {
		return err
	}
	return nil
}

// ProcessFiles processes all files concurrently using the passed process function.
// Output file names are derived from the input file names. The first failing
// file cancels the processing of the remaining files.
func ProcessFiles(ctx context.Context, opts options.Program, files []string,
	process func(ctx context.Context, opts options.Program) error) error {

	outputExtension := BinaryExtension
	if opts.Command == options.DisasmCommand {
		outputExtension = SourceExtension
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, file := range files {
		fileOpts := opts
		fileOpts.Input = file
		fileOpts.Output = GenerateOutputFilename(file, outputExtension)
		if opts.Listing != "" {
			fileOpts.Listing = GenerateOutputFilename(file, ListingExtension)
		}
		if opts.Symbols != "" {
			fileOpts.Symbols = GenerateOutputFilename(file, SymbolsExtension)
		}

		g.Go(func() error {
			if err := process(ctx, fileOpts); err != nil {
				return fmt.Errorf("processing %s: %w", file, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// GetFilesToProcess returns list of files to process based on options.
func GetFilesToProcess(opts options.Program) ([]string, error) {
	if opts.Batch == "" {
		return []string{opts.Input}, nil
	}

	matches, err := filepath.Glob(opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("globbing batch pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match batch pattern '%s'", opts.Batch)
	}
	return matches, nil
}

// GenerateOutputFilename generates an output filename for a given input file
// by replacing its extension.
func GenerateOutputFilename(inputFile, extension string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + extension
}

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("reasm", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

func writeListingAndSymbols(opts options.Program, app *program.Program) error {
	if opts.Listing != "" {
		err := writeOutput(opts.Listing, false, func(w io.Writer) error {
			return writer.New(app, w).WriteListing()
		})
		if err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}

	if opts.Symbols != "" {
		err := writeOutput(opts.Symbols, false, func(w io.Writer) error {
			return writer.New(app, w).OutputAliasMap(app.Aliases())
		})
		if err != nil {
			return fmt.Errorf("writing symbols: %w", err)
		}
	}
	return nil
}

// writeOutput writes to standard output or atomically to the named file.
// The file is only replaced if the write function succeeds.
func writeOutput(path string, binary bool, write func(w io.Writer) error) error {
	if path == StdoutName {
		if binary && isTerminal() {
			return errors.New("refusing to write binary output to a terminal, use -o to set an output file")
		}
		return write(stdout)
	}

	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := file.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op after a successful rename
	}()

	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, outputFileMode); err != nil {
		return fmt.Errorf("setting output file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming output file %s: %w", path, err)
	}
	return nil
}
