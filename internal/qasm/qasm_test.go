package qasm

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

const sample = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
h q[0];
cx q[0], q[1];
rz(pi/2) q[1];
x q[0];
`

func TestParseBasic(t *testing.T) {
	s, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 2, s.NumQubits)
	require.Len(t, s.Gates, 4)
	assert.Equal(t, gate.H, s.Gates[0].Kind)
	assert.Equal(t, gate.CX, s.Gates[1].Kind)
	assert.Equal(t, gate.RZ, s.Gates[2].Kind)
	assert.InDelta(t, math.Pi/2, s.Gates[2].Theta, 1e-9)
	assert.Equal(t, gate.X, s.Gates[3].Kind)
}

func TestParseConcatenatesMultipleRegisters(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg a[1];
qreg b[2];
cx a[0], b[1];
`
	s, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, s.NumQubits)
	require.Len(t, s.Gates, 1)
	assert.Equal(t, 0, s.Gates[0].Q1)
	assert.Equal(t, 2, s.Gates[0].Q2) // b[1] -> offset 1 + 1
}

func TestParseNegativeAngleNormalized(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[1];
rz(-pi/2) q[0];
`
	s, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.InDelta(t, 3*math.Pi/2, s.Gates[0].Theta, 1e-9)
}

func TestParseUnknownMnemonicIsFatal(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[1];
frobnicate q[0];
`
	_, err := Parse(strings.NewReader(src))
	assert.Error(t, err)
}

func TestDumpParseRoundTrip(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewH(0),
		gate.NewCX(0, 1),
		gate.NewRZ(math.Pi/4, 1),
	}, 2)

	dumped := Dump(s)
	parsed, err := Parse(strings.NewReader(dumped))
	require.NoError(t, err)

	assert.Equal(t, s.NumQubits, parsed.NumQubits)
	require.Len(t, parsed.Gates, len(s.Gates))
	for i := range s.Gates {
		assert.Equal(t, s.Gates[i].Kind, parsed.Gates[i].Kind)
		assert.InDelta(t, s.Gates[i].Theta, parsed.Gates[i].Theta, 1e-9)
	}
}
