// Package writer implements the text outputs of a program: assembly source,
// listing and symbol files.
package writer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/retroenv/reasm/internal/program"
	"github.com/retroenv/reasm/internal/symbols"
)

const listingBytesWidth = 20 // longest instruction is 7 bytes

type lineKind uint8

const (
	originLine lineKind = iota
	labelLine
	instructionLine
)

// line is a single output line of a program in source order.
type line struct {
	kind        lineKind
	origin      uint16
	label       symbols.Label
	instruction program.Instruction
}

// Writer writes the text representations of a program.
type Writer struct {
	app    *program.Program
	writer io.Writer
}

// New creates a new writer.
func New(app *program.Program, writer io.Writer) *Writer {
	return &Writer{
		app:    app,
		writer: writer,
	}
}

// WriteSource writes the program as assembly source that assembles to the same code.
func (w Writer) WriteSource() error {
	for i, l := range w.lines() {
		var err error
		switch l.kind {
		case originLine:
			if i > 0 {
				if _, err = fmt.Fprintln(w.writer); err != nil {
					return fmt.Errorf("writing line: %w", err)
				}
			}
			_, err = fmt.Fprintf(w.writer, "ORG 0x%04X\n", l.origin)
		case labelLine:
			_, err = fmt.Fprintf(w.writer, "%s:\n", l.label.Name)
		case instructionLine:
			_, err = fmt.Fprintf(w.writer, "  %s\n", l.instruction.Source())
		}
		if err != nil {
			return fmt.Errorf("writing source line: %w", err)
		}
	}
	return nil
}

// WriteListing writes every instruction with its address and code bytes,
// interleaved with the origin changes and label definitions.
func (w Writer) WriteListing() error {
	for _, l := range w.lines() {
		var err error
		switch l.kind {
		case originLine:
			_, err = fmt.Fprintf(w.writer, "%4s  %-*s ORG 0x%04X\n", "", listingBytesWidth, "", l.origin)
		case labelLine:
			_, err = fmt.Fprintf(w.writer, "%04X  %-*s %s:\n", l.label.Address, listingBytesWidth, "", l.label.Name)
		case instructionLine:
			ins := l.instruction
			_, err = fmt.Fprintf(w.writer, "%04X  %-*s   %s\n", ins.Address, listingBytesWidth,
				hexBytes(ins.Bytes), ins.Source())
		}
		if err != nil {
			return fmt.Errorf("writing listing line: %w", err)
		}
	}
	return nil
}

// OutputAliasMap outputs all label aliases sorted by name.
func (w Writer) OutputAliasMap(aliases map[string]uint16) error {
	// sort the aliases by name before outputting to avoid random map order
	names := slices.Sorted(maps.Keys(aliases))

	for _, name := range names {
		address := aliases[name]
		if _, err := fmt.Fprintf(w.writer, "%s = 0x%04X\n", name, address); err != nil {
			return fmt.Errorf("writing alias: %w", err)
		}
	}
	return nil
}

// lines returns the program as ordered output lines. An origin line is
// inserted whenever the origin that a label or instruction was placed with
// differs from the previous one.
func (w Writer) lines() []line {
	labels := make(map[int][]symbols.Label)
	for _, label := range w.app.Labels {
		labels[label.Offset] = append(labels[label.Offset], label)
	}

	origin := w.app.Origin()
	lines := []line{{kind: originLine, origin: origin}}

	place := func(address uint16, offset int) {
		o := address - uint16(offset)
		if o == origin {
			return
		}
		origin = o
		lines = append(lines, line{kind: originLine, origin: origin})
	}
	addLabels := func(offset int) {
		for _, label := range labels[offset] {
			place(label.Address, label.Offset)
			lines = append(lines, line{kind: labelLine, label: label})
		}
		delete(labels, offset)
	}

	for _, ins := range w.app.Instructions {
		addLabels(ins.Offset)
		place(ins.Address, ins.Offset)
		lines = append(lines, line{kind: instructionLine, instruction: ins})
	}

	// labels after the last instruction
	for _, offset := range slices.Sorted(maps.Keys(labels)) {
		addLabels(offset)
	}
	return lines
}

func hexBytes(data []byte) string {
	buf := &strings.Builder{}
	for i, b := range data {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%02X", b)
	}
	return buf.String()
}
