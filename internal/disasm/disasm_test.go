package disasm

import (
	"context"
	"errors"
	"testing"

	"github.com/retroenv/reasm/internal/arch/r16"
	"github.com/retroenv/reasm/internal/program"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func disassemble(t *testing.T, code []byte, origin uint16) (*program.Program, error) {
	t.Helper()
	dis := New(log.NewTestLogger(t), code, []program.Segment{{Offset: 0, Origin: origin}})
	return dis.Process(context.Background())
}

func TestDisassemble(t *testing.T) {
	code := []byte{0x00, 0x00, 0x05, 0x00, 0x00, 0x01, 0x0A, 0x00, 0x06, 0x00, 0x00, 0x01, 0xFF}
	app, err := disassemble(t, code, 0)
	assert.NoError(t, err)

	assert.Len(t, app.Instructions, 4)
	assert.Equal(t, "MOV R0, 0x0005", app.Instructions[0].Source())
	assert.Equal(t, "MOV R1, 0x000A", app.Instructions[1].Source())
	assert.Equal(t, "ADD R0, R0, R1", app.Instructions[2].Source())
	assert.Equal(t, "HLT", app.Instructions[3].Source())

	assert.Equal(t, uint16(8), app.Instructions[2].Address)
	assert.Equal(t, 8, app.Instructions[2].Offset)
	assert.Len(t, app.Labels, 0)
}

func TestDisassembleOperandForms(t *testing.T) {
	tests := []struct {
		code     []byte
		expected string
	}{
		{[]byte{r16.MovA, 0x01, 0x00, 0x20}, "MOV R1, [0x2000]"},
		{[]byte{r16.MovAddrA, 0x00, 0x20, 0x00, 0x30}, "MOV [0x2000], [0x3000]"},
		{[]byte{r16.AddIR, 0x00, 0x01, 0x00, 0x02}, "ADD R0, 0x0001, R2"},
		{[]byte{r16.CmpIR, 0x01, 0x00, 0x03}, "CMP 0x0001, R3"},
		{[]byte{r16.PushImB, 0x12}, "PUSH.B 0x12"},
		{[]byte{r16.PopA, 0x34, 0x12}, "POP [0x1234]"},
		{[]byte{r16.DecR, 0x0B}, "DEC R11"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			app, err := disassemble(t, tt.code, 0)
			assert.NoError(t, err)
			assert.Len(t, app.Instructions, 1)
			assert.Equal(t, tt.expected, app.Instructions[0].Source())
		})
	}
}

func TestDisassembleJumpDestinations(t *testing.T) {
	code := []byte{
		r16.IncR, 0x00, // 0x0100
		r16.JnzA, 0x00, 0x01, // 0x0102
		r16.JmpA, 0x00, 0x20, // 0x0105
		r16.JzA, 0x03, 0x01, // 0x0108, into the JNZ instruction
	}
	app, err := disassemble(t, code, 0x0100)
	assert.NoError(t, err)

	assert.Equal(t, "JNZ _label_0100", app.Instructions[1].Source())
	assert.Equal(t, "JMP _label_2000", app.Instructions[2].Source())
	assert.Equal(t, "JZ _label_0103", app.Instructions[3].Source())

	assert.Len(t, app.Labels, 3)
	assert.Equal(t, "_label_0100", app.Labels[0].Name)
	assert.Equal(t, 0, app.Labels[0].Offset)

	assert.Equal(t, "_label_0103", app.Labels[1].Name)
	assert.Equal(t, uint16(0x0103), app.Labels[1].Address)
	assert.Equal(t, len(code), app.Labels[1].Offset)

	assert.Equal(t, "_label_2000", app.Labels[2].Name)
	assert.Equal(t, len(code), app.Labels[2].Offset)
}

func TestDisassembleLowJumpDestination(t *testing.T) {
	code := []byte{r16.JmpA, 0x01, 0x00, r16.Hlt}
	app, err := disassemble(t, code, 0)
	assert.NoError(t, err)

	assert.Len(t, app.Labels, 1)
	assert.Equal(t, uint16(0x0001), app.Labels[0].Address)
	assert.Equal(t, 0, app.Labels[0].Offset)
}

func TestDisassembleSegments(t *testing.T) {
	code := []byte{r16.Hlt, r16.JmpA, 0x00, 0x10}
	segments := []program.Segment{
		{Offset: 0, Origin: 0x1000},
		{Offset: 1, Origin: 0x2000},
	}
	dis := New(log.NewTestLogger(t), code, segments)
	app, err := dis.Process(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, uint16(0x2001), app.Instructions[1].Address)
	assert.Equal(t, "JMP _label_1000", app.Instructions[1].Source())
	assert.Len(t, app.Segments, 2)
}

func TestDisassembleErrors(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		origin uint16
		err    error
	}{
		{"unknown opcode", []byte{r16.Hlt, 0x50}, 0, ErrUnknownOpcode},
		{"truncated instruction", []byte{r16.MovIm, 0x00, 0x01}, 0, ErrTruncatedInstruction},
		{"invalid register", []byte{r16.IncR, 0x0C}, 0, ErrInvalidRegister},
		{"address overflow", []byte{r16.Hlt, r16.Hlt}, 0xFFFF, ErrAddressOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := disassemble(t, tt.code, tt.origin)
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestDisassembleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dis := New(log.NewTestLogger(t), []byte{r16.Hlt}, nil)
	_, err := dis.Process(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
