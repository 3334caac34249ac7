package roqc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

func countNonIdentity(s seq.Sequence) int {
	n := 0
	for _, g := range s.Gates {
		if g.Kind != gate.Identity {
			n++
		}
	}
	return n
}

func TestXPropagationCancelsAcrossCommutingGates(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewX(0),
		gate.NewRZ(math.Pi/4, 1),
		gate.NewX(0),
	}, 2)

	changed := xPropagation(&s, 0, 0)
	assert.True(t, changed)
	assert.Equal(t, 1, countNonIdentity(s))
}

func TestXCancellationSweep(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewX(0),
		gate.NewX(0),
		gate.NewH(1),
	}, 2)

	out := xCancellation(s)
	assert.Equal(t, 1, countNonIdentity(out))
}

func TestHCancellationPattern(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewH(0),
		gate.NewH(0),
	}, 1)
	hPropagation(&s, 0, 0)
	assert.Equal(t, gate.Identity, s.Gates[0].Kind)
	assert.Equal(t, gate.Identity, s.Gates[1].Kind)
}

func TestHRZHBasisFlip(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewH(0),
		gate.NewRZ(1.5*math.Pi, 0),
		gate.NewH(0),
	}, 1)
	hPropagation(&s, 0, 0)
	assert.Equal(t, gate.RZ, s.Gates[0].Kind)
	assert.InDelta(t, 0.5*math.Pi, s.Gates[0].Theta, 1e-9)
}

func TestRZCancellation(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewRZ(0.3, 0),
		gate.NewH(1),
		gate.NewRZ(0.4, 0),
	}, 2)
	ok := singleQubitProp(&s, 0, 0)
	assert.True(t, ok)
	assert.Equal(t, 2, countNonIdentity(s))
	for _, g := range s.Gates {
		if g.Kind == gate.RZ {
			assert.InDelta(t, 0.7, g.Theta, 1e-9)
		}
	}
}

func TestRZBlockedByInterference(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewRZ(0.3, 0),
		gate.NewX(0),
		gate.NewRZ(0.4, 0),
	}, 1)
	ok := singleQubitProp(&s, 0, 0)
	assert.False(t, ok)
	assert.Equal(t, gate.RZ, s.Gates[0].Kind)
	assert.InDelta(t, 0.3, s.Gates[0].Theta, 1e-9)
}

func TestCXCancellation(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewCX(0, 1),
		gate.NewCX(0, 1),
	}, 2)
	ok := twoQubitProp(&s, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, countNonIdentity(s))
}

func TestCXBlockedByInterference(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewCX(0, 1),
		gate.NewX(1),
		gate.NewCX(0, 1),
	}, 2)
	ok := twoQubitProp(&s, 0)
	assert.False(t, ok)
	assert.Equal(t, gate.CX, s.Gates[0].Kind)
	assert.Equal(t, gate.CX, s.Gates[2].Kind)
}

func TestMergeRotationsSameQubitAcrossControlCX(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewRZ(0.1, 0),
		gate.NewCX(0, 1), // 0 is control: identity preserved
		gate.NewRZ(0.2, 0),
	}, 2)
	mergeRotations(&s)
	assert.Equal(t, gate.RZ, s.Gates[0].Kind)
	assert.InDelta(t, 0.3, s.Gates[0].Theta, 1e-9)
	assert.Equal(t, gate.Identity, s.Gates[2].Kind)
}

func TestMergeRotationsBrokenByTargetCX(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewRZ(0.1, 1),
		gate.NewCX(0, 1), // 1 is target: identity changes
		gate.NewRZ(0.2, 1),
	}, 2)
	mergeRotations(&s)
	assert.Equal(t, gate.RZ, s.Gates[0].Kind)
	assert.InDelta(t, 0.1, s.Gates[0].Theta, 1e-9)
	assert.Equal(t, gate.RZ, s.Gates[2].Kind)
	assert.InDelta(t, 0.2, s.Gates[2].Theta, 1e-9)
}

func TestRunAllDefaultOrder(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewX(0),
		gate.NewX(0),
		gate.NewH(1),
		gate.NewH(1),
		gate.NewCX(0, 1),
		gate.NewCX(0, 1),
	}, 2)
	RunAll(&s)
	assert.Equal(t, 0, countNonIdentity(s))
}

func TestCurrentStatsAccumulates(t *testing.T) {
	before := CurrentStats()
	s := seq.New([]gate.Gate{
		gate.NewX(0),
		gate.NewX(0),
	}, 1)
	Routine0(&s)
	after := CurrentStats()
	assert.GreaterOrEqual(t, after.XCancels, before.XCancels)
}
