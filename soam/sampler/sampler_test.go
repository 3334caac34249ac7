package sampler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/layer"
	"github.com/kegliz/soamqc/soam/seq"
)

type identityOracle struct{}

func (identityOracle) OptimizeSegment(s seq.Sequence, _ uuid.UUID) seq.Sequence { return s }

type cancelAllOracle struct{}

func (cancelAllOracle) OptimizeSegment(s seq.Sequence, _ uuid.UUID) seq.Sequence {
	return seq.New(nil, s.NumQubits)
}

func buildXPairs(n int) layer.Circuit {
	var gates []gate.Gate
	for i := 0; i < n; i++ {
		gates = append(gates, gate.NewX(0), gate.NewX(0))
	}
	return layer.New(gates, 1, layer.One)
}

func TestSampleFlagsNoViolationsWhenOracleImproves(t *testing.T) {
	circ := buildXPairs(4)
	report := Sample(context.Background(), circ, cancelAllOracle{}, 2, seq.Gate)
	assert.Empty(t, report.Violations)
	assert.Equal(t, circ.Len()-2, report.WindowsChecked)
}

func TestSampleFlagsViolationsWhenOracleDoesNothing(t *testing.T) {
	circ := buildXPairs(4)
	report := Sample(context.Background(), circ, identityOracle{}, 2, seq.Gate)
	assert.NotEmpty(t, report.Violations)
	assert.Equal(t, report.WindowsChecked, len(report.Violations))
}

func TestSampleHandlesShortCircuit(t *testing.T) {
	circ := buildXPairs(1)
	report := Sample(context.Background(), circ, identityOracle{}, 10, seq.Gate)
	assert.Equal(t, 0, report.WindowsChecked)
	assert.Empty(t, report.Violations)
}
