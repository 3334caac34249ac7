package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/soamqc/soam/results"
)

func sampleRows() []results.ConfigResult {
	return []results.ConfigResult{
		{
			Config: "a.qasm omega=10 cost=gate",
			Result: results.Single{
				OriginalDepth: 10, OptimizedDepth: 6,
				OriginalGates: 20, OptimizedGates: 12,
				NRounds: 3, Time: 1.5, OracleTime: 0.9, NSeamsTotal: 7,
			},
		},
		{
			Config: "b.qasm omega=20 cost=depth",
			Result: results.Single{
				OriginalDepth: 8, OptimizedDepth: 8,
				OriginalGates: 16, OptimizedGates: 16,
				NRounds: 1, Time: 0.2, OracleTime: 0.1, NSeamsTotal: 2,
			},
		},
	}
}

func TestWriteTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.toml")
	require.NoError(t, WriteTOML(path, sampleRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc multipleResults
	require.NoError(t, toml.Unmarshal(data, &doc))
	require.Len(t, doc.Results, 2)
	assert.Equal(t, "a.qasm omega=10 cost=gate", doc.Results[0].Config)
	assert.Equal(t, 6, doc.Results[0].Result.OptimizedDepth)
	assert.Equal(t, 2, doc.Results[1].Result.NSeamsTotal)
}

func TestWriteCSVShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	require.NoError(t, WriteCSV(path, sampleRows()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "a.qasm omega=10 cost=gate", records[1][0])
	assert.Equal(t, "12", records[1][3])
}

func TestWriteTOMLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.toml")
	require.NoError(t, WriteTOML(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc multipleResults
	require.NoError(t, toml.Unmarshal(data, &doc))
	assert.Empty(t, doc.Results)
}
