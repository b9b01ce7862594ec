package program

import (
	"testing"

	"github.com/retroenv/reasm/internal/symbols"
	"github.com/retroenv/retrogolib/assert"
)

func TestProgramSegments(t *testing.T) {
	app := New()
	assert.Equal(t, uint16(0), app.Origin())
	assert.Equal(t, uint16(0), app.OriginAt(4))

	app.SetOrigin(0, 0x1000)
	assert.Equal(t, 1, len(app.Segments))
	assert.Equal(t, uint16(0x1000), app.Origin())

	app.SetOrigin(8, 0x2000)
	assert.Equal(t, 2, len(app.Segments))

	assert.Equal(t, uint16(0x1000), app.OriginAt(7))
	assert.Equal(t, uint16(0x2000), app.OriginAt(8))

	app.SetOrigin(8, 0x3000)
	assert.Equal(t, 2, len(app.Segments))
	assert.Equal(t, uint16(0x3000), app.OriginAt(8))
}

func TestInstructionSource(t *testing.T) {
	ins := Instruction{Mnemonic: "ADD", Operands: []string{"R0", "R1", "#5"}}
	assert.Equal(t, "ADD R0, R1, #5", ins.Source())

	ins = Instruction{Mnemonic: "HLT"}
	assert.Equal(t, "HLT", ins.Source())
}

func TestProgramAliases(t *testing.T) {
	app := New()
	app.Labels = []symbols.Label{
		{Name: "start", Address: 0x1000},
		{Name: "loop", Address: 0x1004},
		{Name: "start", Address: 0x2000},
	}

	aliases := app.Aliases()
	assert.Equal(t, 2, len(aliases))
	assert.Equal(t, uint16(0x1000), aliases["start"])
	assert.Equal(t, uint16(0x1004), aliases["loop"])
}
