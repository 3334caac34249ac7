package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/soamqc/soam/layer"
	"github.com/kegliz/soamqc/soam/seq"
)

const sampleTOML = `
circuit_path = ["a.qasm", "b.qasm"]
use_soam = [true]
omega = [10, 20]
oracle_name = ["local"]
cost = ["gate"]
layout = ["dense"]
n_threads = [1]
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndExpand(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	cfg, err := Load(path)
	require.NoError(t, err)

	singles := cfg.ToSingleConfigs()
	assert.Len(t, singles, 4) // 2 circuit_path * 2 omega

	for _, s := range singles {
		assert.Contains(t, []string{"a.qasm", "b.qasm"}, s.CircuitPath)
		assert.Equal(t, CostGate, s.Cost)
	}
}

func TestCostMetricConversion(t *testing.T) {
	m, err := CostGate.Metric()
	require.NoError(t, err)
	assert.Equal(t, seq.Gate, m)

	_, err = Cost("bogus").Metric()
	assert.Error(t, err)
}

func TestLayoutConversion(t *testing.T) {
	l, err := LayoutDense.Layout()
	require.NoError(t, err)
	assert.Equal(t, layer.Dense, l)

	_, err = LayoutName("bogus").Layout()
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
