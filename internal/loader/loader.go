// Package loader handles input file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"
)

// StdinName is the input file name that reads from standard input.
const StdinName = "-"

// Loader handles loading input files from disk.
type Loader struct {
	stdin io.Reader
}

// New creates a new input file loader.
func New() *Loader {
	return &Loader{
		stdin: os.Stdin,
	}
}

// LoadSource loads an assembly source file.
func (l *Loader) LoadSource(path string) (string, error) {
	data, err := l.load(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadBinary loads a binary file containing machine code.
func (l *Loader) LoadBinary(path string) ([]byte, error) {
	data, err := l.load(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("binary file %s is empty", path)
	}
	return data, nil
}

func (l *Loader) load(path string) ([]byte, error) {
	if path == StdinName {
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
