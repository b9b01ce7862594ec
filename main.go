// Package main implements the main entry point for an assembler for the R16 CPU
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/reasm/internal/cli"
	"github.com/retroenv/reasm/internal/config"
	"github.com/retroenv/reasm/internal/fileprocessor"
	"github.com/retroenv/reasm/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, asmOptions, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	process := func(ctx context.Context, opts options.Program) error {
		if opts.Command == options.DisasmCommand {
			return fileprocessor.DisassembleFile(ctx, logger, opts)
		}
		return fileprocessor.ProcessFile(ctx, logger, opts, asmOptions)
	}

	if err := run(ctx, opts, process); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			os.Exit(1)
		}
		logger.Error("Processing failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options.Program,
	process func(ctx context.Context, opts options.Program) error) error {

	if opts.Batch == "" {
		return process(ctx, opts)
	}

	files, err := fileprocessor.GetFilesToProcess(opts)
	if err != nil {
		return err
	}
	return fileprocessor.ProcessFiles(ctx, opts, files, process)
}
