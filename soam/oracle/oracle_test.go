package oracle

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

func TestLocalOracleOptimizesSegment(t *testing.T) {
	o := NewLocal()
	s := seq.New([]gate.Gate{
		gate.NewX(0),
		gate.NewX(0),
		gate.NewH(1),
	}, 2)

	out := o.OptimizeSegment(s, uuid.New())
	assert.Equal(t, 1, out.Cost(seq.Gate))
}

func TestDefaultRegistryHasLocal(t *testing.T) {
	backends := ListBackends()
	assert.Contains(t, backends, "local")

	o, err := Create("local")
	require.NoError(t, err)
	assert.NotNil(t, o)
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("x", func() Interface { return NewLocal() }))
	err := r.Register("x", func() Interface { return NewLocal() })
	assert.Error(t, err)
}

func TestRegistryUnknownBackend(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("missing")
	assert.Error(t, err)
}
