package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/reasm/internal/config"
	"github.com/retroenv/reasm/internal/fileprocessor"
	"github.com/retroenv/reasm/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func parseArgs(t *testing.T, args ...string) (options.Program, options.Assembler, error) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = append([]string{"reasm"}, args...)
	return ParseFlags()
}

func TestParseFlags_Build(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options.Program
		wantAsm options.Assembler
	}{
		{
			name: "default flags",
			args: []string{"build", "test.asm"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.asm", Output: config.DefaultOutputFile},
				Flags:      options.Flags{Command: options.BuildCommand},
			},
		},
		{
			name: "output files",
			args: []string{"build", "-o", "out.bin", "-l", "out.lst", "-sym", "out.sym", "test.asm"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.asm", Output: "out.bin", Listing: "out.lst", Symbols: "out.sym"},
				Flags:      options.Flags{Command: options.BuildCommand},
			},
		},
		{
			name: "assembler flags",
			args: []string{"build", "-single-pass", "-allow-duplicate-labels", "-strict", "-verify", "test.asm"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.asm", Output: config.DefaultOutputFile},
				Flags:      options.Flags{Command: options.BuildCommand, Verify: true},
			},
			wantAsm: options.Assembler{SinglePass: true, AllowDuplicateLabels: true, Strict: true},
		},
		{
			name: "batch mode",
			args: []string{"build", "-batch", "*.asm", "-q"},
			want: options.Program{
				Parameters: options.Parameters{Batch: "*.asm"},
				Flags:      options.Flags{Command: options.BuildCommand, Quiet: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotAsm, err := parseArgs(t, tt.args...)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAsm, gotAsm)
		})
	}
}

func TestParseFlags_Disasm(t *testing.T) {
	got, _, err := parseArgs(t, "disasm", "-org", "0x8000", "-debug", "test.bin")
	assert.NoError(t, err)
	assert.Equal(t, options.DisasmCommand, got.Command)
	assert.Equal(t, "0x8000", got.Origin)
	assert.Equal(t, "test.bin", got.Input)
	assert.Equal(t, fileprocessor.StdoutName, got.Output)
	assert.True(t, got.Debug)

	got, _, err = parseArgs(t, "disasm", "test.bin")
	assert.NoError(t, err)
	assert.Equal(t, "0x0000", got.Origin)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		usageError bool
		errContain string
	}{
		{
			name:       "missing subcommand",
			args:       nil,
			usageError: true,
			errContain: "missing subcommand",
		},
		{
			name:       "invalid subcommand",
			args:       []string{"run", "test.asm"},
			usageError: true,
			errContain: "invalid subcommand: run",
		},
		{
			name:       "missing input file",
			args:       []string{"build"},
			usageError: true,
			errContain: "missing input file",
		},
		{
			name:       "unknown flag",
			args:       []string{"build", "-unknown", "test.asm"},
			usageError: true,
			errContain: "-unknown",
		},
		{
			name:       "assembler flag for disasm",
			args:       []string{"disasm", "-strict", "test.bin"},
			usageError: true,
			errContain: "-strict",
		},
		{
			name:       "flag after input file",
			args:       []string{"build", "test.asm", "-q"},
			usageError: true,
			errContain: "Potential argument -q",
		},
		{
			name:       "multiple input files",
			args:       []string{"build", "a.asm", "b.asm"},
			usageError: true,
			errContain: "only one input file",
		},
		{
			name:       "output in batch mode",
			args:       []string{"build", "-batch", "*.asm", "-o", "out.bin"},
			errContain: "batch mode",
		},
		{
			name:       "invalid origin",
			args:       []string{"disasm", "-org", "0xZZZZ", "test.bin"},
			errContain: "invalid origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseArgs(t, tt.args...)
			assert.ErrorContains(t, err, tt.errContain)

			var usageErr *UsageError
			assert.Equal(t, tt.usageError, errors.As(err, &usageErr))
		})
	}
}

func TestValidateOptionCombinations(t *testing.T) {
	tests := []struct {
		name        string
		opts        options.Program
		expectError bool
	}{
		{
			name:        "no conflict",
			opts:        options.Program{Parameters: options.Parameters{Input: "a.asm", Output: "a.bin"}},
			expectError: false,
		},
		{
			name:        "batch only",
			opts:        options.Program{Parameters: options.Parameters{Batch: "*.asm"}},
			expectError: false,
		},
		{
			name:        "batch and output conflict",
			opts:        options.Program{Parameters: options.Parameters{Batch: "*.asm", Output: "a.bin"}},
			expectError: true,
		},
		{
			name:        "batch and input conflict",
			opts:        options.Program{Parameters: options.Parameters{Batch: "*.asm", Input: "a.asm"}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptionCombinations(tt.opts)
			if tt.expectError {
				assert.True(t, err != nil)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
