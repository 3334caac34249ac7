package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQubits(t *testing.T) {
	cases := []struct {
		name string
		g    Gate
		want []int
	}{
		{"identity", NewIdentity(), nil},
		{"h", NewH(2), []int{2}},
		{"cx", NewCX(0, 1), []int{0, 1}},
		{"ccx", NewCCX(0, 1, 2), []int{0, 1, 2}},
		{"rz", NewRZ(3.14, 5), []int{5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.g.Qubits())
		})
	}
}

func TestInterferes(t *testing.T) {
	g := NewCX(0, 1)
	require.True(t, g.Interferes(0))
	require.True(t, g.Interferes(1))
	require.False(t, g.Interferes(2))
}

func TestString(t *testing.T) {
	assert.Equal(t, "cx q[0], q[1]", NewCX(0, 1).String())
	assert.Equal(t, "h q[2]", NewH(2).String())
	assert.Equal(t, "rz(1.5) q[0]", NewRZ(1.5, 0).String())
}
