// Package report writes a batch of results.Recorder output to disk:
// the full TOML dump (results/<name>.toml, mirroring write_results)
// plus a flattened CSV table (mirroring analyze.rs's CsvRecord) for
// spreadsheet consumption.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/kegliz/soamqc/soam"
	"github.com/kegliz/soamqc/soam/results"
)

// multipleResults mirrors the original's MultipleResults wrapper so
// the TOML document has a single top-level `results` array, not a
// bare array at the document root.
type multipleResults struct {
	Results []configResult `toml:"results"`
}

type configResult struct {
	Config string          `toml:"config"`
	Result results.Single  `toml:"result"`
}

// WriteTOML serializes rows to path, creating parent directories as
// needed (mirroring write_results's create_dir_all).
func WriteTOML(path string, rows []results.ConfigResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %v", soam.ErrIO, dir, err)
		}
	}

	doc := multipleResults{Results: make([]configResult, len(rows))}
	for i, r := range rows {
		doc.Results[i] = configResult{Config: fmt.Sprint(r.Config), Result: r.Result}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshaling results: %v", soam.ErrIO, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", soam.ErrIO, path, err)
	}
	return nil
}

var csvHeader = []string{
	"config",
	"gates_before_optimization",
	"depth_before_optimization",
	"gates_after_optimization",
	"depth_after_optimization",
	"n_rounds",
	"time",
	"oracle_time",
	"n_seams_total",
}

// WriteCSV flattens rows into the same tabular shape analyze.rs's
// CsvRecord produces: one row per config, config rendered as its
// non-unique-field string.
func WriteCSV(path string, rows []results.ConfigResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %v", soam.ErrIO, dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", soam.ErrIO, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: %v", soam.ErrIO, err)
	}
	for _, r := range rows {
		row := []string{
			fmt.Sprint(r.Config),
			strconv.Itoa(r.Result.OriginalGates),
			strconv.Itoa(r.Result.OriginalDepth),
			strconv.Itoa(r.Result.OptimizedGates),
			strconv.Itoa(r.Result.OptimizedDepth),
			strconv.Itoa(r.Result.NRounds),
			strconv.FormatFloat(r.Result.Time, 'f', -1, 64),
			strconv.FormatFloat(r.Result.OracleTime, 'f', -1, 64),
			strconv.Itoa(r.Result.NSeamsTotal),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: %v", soam.ErrIO, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", soam.ErrIO, err)
	}
	return nil
}
