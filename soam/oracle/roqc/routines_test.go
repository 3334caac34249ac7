package roqc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

// These reproduce spec.md §8's seed scenarios S1-S5 verbatim: each
// gives the exact input gate sequence, the routine it exercises, and
// the exact expected output sequence and before/after gate cost the
// spec names.

func TestSeedS1HHCancellationAcrossCX(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewH(0),
		gate.NewH(0),
		gate.NewCX(0, 1),
	}, 2)
	assert.Equal(t, 3, s.Cost(seq.Gate))

	Routine1(&s)
	s.RemoveIdentities()

	assert.Equal(t, 1, s.Cost(seq.Gate))
	assert.Equal(t, []gate.Gate{gate.NewCX(0, 1)}, s.Gates)
}

func TestSeedS2R0CanIncreaseGateCount(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewX(0),
		gate.NewCX(0, 1),
	}, 2)
	assert.Equal(t, 2, s.Cost(seq.Gate))

	Routine0(&s)
	s.RemoveIdentities()

	assert.Equal(t, 3, s.Cost(seq.Gate))
	assert.Equal(t, []gate.Gate{
		gate.NewCX(0, 1),
		gate.NewX(0),
		gate.NewX(1),
	}, s.Gates)
}

func TestSeedS3RZMergeAcrossHCXH(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewRZ(1, 1),
		gate.NewH(1),
		gate.NewCX(0, 1),
		gate.NewH(1),
		gate.NewRZ(2, 1),
	}, 2)
	assert.Equal(t, 5, s.Cost(seq.Gate))

	Routine2(&s)
	s.RemoveIdentities()

	assert.Equal(t, 4, s.Cost(seq.Gate))
	assert.Equal(t, []gate.Gate{
		gate.NewH(1),
		gate.NewCX(0, 1),
		gate.NewH(1),
		gate.NewRZ(3, 1),
	}, s.Gates)
}

func TestSeedS4CXCancelsAcrossDisjointCX(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewCX(1, 0),
		gate.NewCX(2, 0),
		gate.NewCX(1, 0),
	}, 3)
	assert.Equal(t, 3, s.Cost(seq.Gate))

	Routine3(&s)
	s.RemoveIdentities()

	assert.Equal(t, 1, s.Cost(seq.Gate))
	assert.Equal(t, []gate.Gate{gate.NewCX(2, 0)}, s.Gates)
}

// TestSeedS5RotationMergeAcrossWireRoute reproduces spec.md's S5 and
// the original's create_subcircuit_1 reference case: qubit 1's affine
// state round-trips back to its original basis vector across three
// intervening CX gates, so the two RZ(1,1) gates must merge into
// RZ(2,1) even though a literal per-qubit invalidation check would
// miss it.
func TestSeedS5RotationMergeAcrossWireRoute(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewH(0),         // 0
		gate.NewH(1),         // 1
		gate.NewH(2),         // 2
		gate.NewRZ(1, 1),     // 3
		gate.NewRZ(1, 2),     // 4
		gate.NewCX(1, 0),     // 5
		gate.NewRZ(1, 0),     // 6
		gate.NewCX(1, 2),     // 7
		gate.NewCX(0, 1),     // 8
		gate.NewH(2),         // 9
		gate.NewCX(1, 2),     // 10
		gate.NewCX(0, 1),     // 11
		gate.NewRZ(1, 1),     // 12
		gate.NewH(0),         // 13
		gate.NewH(1),         // 14
	}, 3)
	assert.Equal(t, 15, s.Cost(seq.Gate))

	term, subcircuit := createSubcircuit(&s, 5)
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 11, 12}, subcircuit)
	mergeSubcircuit(&s, subcircuit, term)
	s.RemoveIdentities()

	assert.Equal(t, 14, s.Cost(seq.Gate))
	assert.Equal(t, []gate.Gate{
		gate.NewH(0),
		gate.NewH(1),
		gate.NewH(2),
		gate.NewRZ(2, 1),
		gate.NewRZ(1, 2),
		gate.NewCX(1, 0),
		gate.NewRZ(1, 0),
		gate.NewCX(1, 2),
		gate.NewCX(0, 1),
		gate.NewH(2),
		gate.NewCX(1, 2),
		gate.NewCX(0, 1),
		gate.NewH(0),
		gate.NewH(1),
	}, s.Gates)
}

// TestSeedS5ViaRoutine4 confirms the same result running through the
// public entry point Routine4/mergeRotations uses in DefaultOrder,
// not just the internal subcircuit helpers exercised above.
func TestSeedS5ViaRoutine4(t *testing.T) {
	s := seq.New([]gate.Gate{
		gate.NewH(0), gate.NewH(1), gate.NewH(2),
		gate.NewRZ(1, 1), gate.NewRZ(1, 2),
		gate.NewCX(1, 0), gate.NewRZ(1, 0), gate.NewCX(1, 2), gate.NewCX(0, 1),
		gate.NewH(2),
		gate.NewCX(1, 2), gate.NewCX(0, 1), gate.NewRZ(1, 1),
		gate.NewH(0), gate.NewH(1),
	}, 3)

	Routine4(&s)
	s.RemoveIdentities()

	assert.Equal(t, 14, s.Cost(seq.Gate))
}
