// Command soamqc runs the SOAM circuit optimizer over every run
// described by a TOML config file, writing a results TOML and CSV
// next to it (configs/<name>.toml -> results/<name>.toml|csv).
//
// Usage: soamqc <config.toml>
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kegliz/soamqc/internal/config"
	"github.com/kegliz/soamqc/internal/logger"
	"github.com/kegliz/soamqc/internal/qasm"
	"github.com/kegliz/soamqc/internal/report"
	"github.com/kegliz/soamqc/internal/server"
	"github.com/kegliz/soamqc/soam/layer"
	"github.com/kegliz/soamqc/soam/oracle"
	"github.com/kegliz/soamqc/soam/results"
	"github.com/kegliz/soamqc/soam/sampler"
	"github.com/kegliz/soamqc/soam/scheduler"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	log := logger.NewLogger(logger.LoggerOptions{})

	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: soamqc <config.toml>")
		return 1
	}
	configPath := args[1]

	multi, err := config.Load(configPath)
	if err != nil {
		log.Error().Err(err).Msg("loading config failed")
		return 1
	}

	recorder := results.NewRecorder()
	for _, single := range multi.ToSingleConfigs() {
		if err := runOne(log, recorder, single); err != nil {
			log.Error().Err(err).Str("circuit_path", single.CircuitPath).Msg("run failed")
			return 1
		}
	}

	resultPath := resultsPathFor(configPath)
	if err := report.WriteTOML(resultPath, recorder.Results()); err != nil {
		log.Error().Err(err).Msg("writing results TOML failed")
		return 1
	}
	csvPath := strings.TrimSuffix(resultPath, filepath.Ext(resultPath)) + ".csv"
	if err := report.WriteCSV(csvPath, recorder.Results()); err != nil {
		log.Error().Err(err).Msg("writing results CSV failed")
		return 1
	}
	return 0
}

// resultsPathFor mirrors write_results's configs -> results path
// substitution: a config at .../configs/x.toml writes to
// .../results/x.toml, falling back to a results.toml sibling when the
// config doesn't live under a configs/ directory.
func resultsPathFor(configPath string) string {
	dir, file := filepath.Split(configPath)
	parent := filepath.Base(filepath.Clean(dir))
	if parent == "configs" {
		return filepath.Join(filepath.Dir(filepath.Clean(dir)), "results", file)
	}
	return filepath.Join(dir, "results.toml")
}

func runOne(log *logger.Logger, recorder *results.Recorder, cfg config.SingleConfig) error {
	runLog := log.SpawnForService(cfg.CircuitPath)

	seq0, err := qasm.ParseFile(cfg.CircuitPath)
	if err != nil {
		return err
	}

	layoutKind, err := cfg.Layout.Layout()
	if err != nil {
		return err
	}
	metric, err := cfg.Cost.Metric()
	if err != nil {
		return err
	}

	circ := layer.New(seq0.Gates, seq0.NumQubits, layoutKind)
	originalDepth, originalGates := circ.Depth(), circ.GateCount()

	o, err := oracle.Create(cfg.OracleName)
	if err != nil {
		return err
	}

	schedCfg := scheduler.Config{
		Omega:   cfg.Omega,
		UseSoam: cfg.UseSoam,
		Cost:    metric,
	}

	var statusApp server.Server
	if cfg.StatusPort != 0 {
		tracker := server.NewTracker()
		schedCfg.OnRound = func(p scheduler.Progress) {
			tracker.Update(server.Progress{
				Round:       p.Round,
				NSeamsTotal: p.NSeamsTotal,
				Cost:        p.Cost,
				Done:        p.Done,
			})
		}
		statusApp = server.NewApp(server.AppOptions{Tracker: tracker, Version: cfg.OracleName})
		go func() {
			if err := statusApp.Listen(cfg.StatusPort, true); err != nil && !errors.Is(err, http.ErrServerClosed) {
				runLog.Warn().Err(err).Msg("status server stopped")
			}
		}()
		defer func() {
			_ = statusApp.Shutdown(context.Background())
		}()
	}

	sched := scheduler.New(schedCfg, o, circ, runLog)

	start := time.Now()
	ctx := context.Background()
	if err := sched.Run(ctx); err != nil {
		return err
	}

	optimized := sched.Circuit()

	sampleReport := sampler.Sample(ctx, optimized, o, cfg.Omega, metric)
	if len(sampleReport.Violations) > 0 {
		runLog.Warn().Int("violations", len(sampleReport.Violations)).Msg("correctness sampler flagged regressions")
	}

	single := results.NewSingle(
		originalDepth, optimized.Depth(),
		originalGates, optimized.GateCount(),
		sched.NRounds, sched.NSeamsTotal,
		start, sched.TimeOracle,
	)
	recorder.Record(cfg, single)

	evalPath := cfg.CircuitPath + ".eval"
	if err := qasm.DumpToFile(optimized.ToSeq(), evalPath); err != nil {
		return err
	}

	return nil
}
