// Package results implements ResultRecorder: in-process aggregation
// of one optimization run's before/after metrics into the shape
// internal/report serializes to TOML and CSV.
package results

import "time"

// Single is the per-circuit outcome of one scheduler run.
type Single struct {
	OriginalDepth   int     `toml:"original_depth"`
	OptimizedDepth  int     `toml:"optimized_depth"`
	OriginalGates   int     `toml:"original_gates"`
	OptimizedGates  int     `toml:"optimized_gates"`
	NRounds         int     `toml:"n_rounds"`
	Time            float64 `toml:"time"`
	OracleTime      float64 `toml:"oracle_time"`
	NSeamsTotal     int     `toml:"n_seams_total"`
}

// Recorder accumulates one Single per config run into a batch.
type Recorder struct {
	results []ConfigResult
}

// ConfigResult pairs a result with the config (opaque to this
// package) that produced it, so a later report stage can print the
// non-unique config fields alongside each row.
type ConfigResult struct {
	Config any
	Result Single
}

func NewRecorder() *Recorder { return &Recorder{} }

// Record appends one config/result pair.
func (r *Recorder) Record(config any, result Single) {
	r.results = append(r.results, ConfigResult{Config: config, Result: result})
}

// Results returns the accumulated batch.
func (r *Recorder) Results() []ConfigResult { return r.results }

// NewSingle builds a Single from before/after metrics, timed with
// start..now and the oracle-only duration already accumulated by the
// scheduler.
func NewSingle(originalDepth, optimizedDepth, originalGates, optimizedGates, nRounds, nSeamsTotal int, start time.Time, oracleTime time.Duration) Single {
	return Single{
		OriginalDepth:  originalDepth,
		OptimizedDepth: optimizedDepth,
		OriginalGates:  originalGates,
		OptimizedGates: optimizedGates,
		NRounds:        nRounds,
		Time:           time.Since(start).Seconds(),
		OracleTime:     oracleTime.Seconds(),
		NSeamsTotal:    nSeamsTotal,
	}
}
