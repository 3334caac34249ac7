// Package scheduler implements SoamScheduler: the segment-overlap-
// and-merge round loop that repeatedly selects a disjoint set of
// seams, dispatches each surrounding omega-window to an oracle in
// parallel, and folds accepted results back into the layered circuit
// and its Fenwick occupancy index.
package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kegliz/soamqc/internal/logger"
	"github.com/kegliz/soamqc/soam/ftree"
	"github.com/kegliz/soamqc/soam/layer"
	"github.com/kegliz/soamqc/soam/oracle"
	"github.com/kegliz/soamqc/soam/seq"
)

// Config carries the per-run knobs a SingleConfig would otherwise
// supply: window half-width, the SOAM on/off switch, and the cost
// metric used for the accept/reject decision.
type Config struct {
	Omega   int
	UseSoam bool
	Cost    seq.Metric

	// OnRound, if set, is called after every round (and once more
	// when the run finishes) with the current progress snapshot. It
	// lets a caller publish progress (e.g. over HTTP) without this
	// package depending on any transport.
	OnRound func(Progress)
}

// Progress is a point-in-time snapshot of an in-flight scheduler run.
type Progress struct {
	Round       int
	NSeamsTotal int
	Cost        int
	Done        bool
}

// Scheduler runs the round loop over one circuit.
type Scheduler struct {
	cfg    Config
	oracle oracle.Interface
	ftree  *ftree.Tree
	circ   layer.Circuit
	layout layer.Layout
	log    *logger.Logger

	NRound      int
	NRounds     int
	NSeamsTotal int
	TimeOracle  time.Duration
}

// New builds a Scheduler over circ, seeding the Fenwick index from
// circ's current occupancy (1 for every non-empty layer). A nil
// logger runs silently.
func New(cfg Config, o oracle.Interface, circ layer.Circuit, log *logger.Logger) *Scheduler {
	occ := make([]int, circ.Len())
	for i := 0; i < circ.Len(); i++ {
		if !circ.IsEmpty(i) {
			occ[i] = 1
		}
	}
	if log == nil {
		log = logger.NewLogger(logger.LoggerOptions{})
	}
	return &Scheduler{
		cfg:    cfg,
		oracle: o,
		ftree:  ftree.New(occ),
		circ:   circ,
		layout: circ.Layout,
		log:    log,
	}
}

// Circuit returns the current (possibly optimized) layered circuit.
func (s *Scheduler) Circuit() layer.Circuit { return s.circ }

func (s *Scheduler) idOfNonEmptyLayer(id int) int      { return s.ftree.PrefixSum(id) }
func (s *Scheduler) reverseIdOfNonEmptyLayer(id int) int { return s.ftree.IndexOf(id) }

// findSeams buckets seams into two parity classes by which
// 2-omega-wide block they fall in, alternating even/odd blocks so
// two selected seams never share an overlapping window, then returns
// whichever class is larger as "selected" (the rest are carried over
// to the next round).
func (s *Scheduler) findSeams(seams []int) (selected, remaining []int) {
	twoOmega := s.cfg.Omega * 2
	blockOf := func(i int) int { return s.idOfNonEmptyLayer(seams[i]) / twoOmega }

	var evenMask, oddMask []bool
	for i := range seams {
		newBlock := i == 0 || blockOf(i)-blockOf(i-1) > 0
		evenMask = append(evenMask, newBlock && blockOf(i)%2 == 0)
		oddMask = append(oddMask, newBlock && blockOf(i)%2 == 1)
	}
	nEven, nOdd := 0, 0
	for i := range seams {
		if evenMask[i] {
			nEven++
		}
		if oddMask[i] {
			nOdd++
		}
	}

	mask := evenMask
	if nOdd > nEven {
		mask = oddMask
	}
	for i, seam := range seams {
		if mask[i] {
			selected = append(selected, seam)
		} else {
			remaining = append(remaining, seam)
		}
	}
	return selected, remaining
}

type taskResult struct {
	newSeams    []int
	treeUpdates []ftree.Delta
	circUpdates []layer.LayerUpdate
}

// PairAndOptimize runs one round: selects a disjoint seam set,
// extracts and optimizes the omega-window around each in parallel,
// accepts results that strictly improve cost without growing, and
// returns the seam set for the next round (new seams from accepted
// windows merged with the seams carried over unselected).
func (s *Scheduler) PairAndOptimize(ctx context.Context, seams []int) ([]int, error) {
	selected, remaining := s.findSeams(seams)
	roundLog := s.log.SpawnForRound(s.NRound, len(selected))
	roundLog.Debug().Int("remaining_seams", len(remaining)).Msg("round started")

	type task struct{ left, right int }
	tasks := make([]task, len(selected))
	for i, seam := range selected {
		center := s.idOfNonEmptyLayer(seam)
		left := center - s.cfg.Omega
		if left < 0 {
			left = 0
		}
		right := center + s.cfg.Omega
		if right > s.circ.Len() {
			right = s.circ.Len()
		}
		tasks[i] = task{
			left:  s.reverseIdOfNonEmptyLayer(left),
			right: s.reverseIdOfNonEmptyLayer(right),
		}
	}

	results := make([]taskResult, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	_ = gctx
	start := time.Now()
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			results[i] = s.optimizeOne(t.left, t.right)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.TimeOracle += time.Since(start)
	s.NRound++

	var circUpdates []layer.LayerUpdate
	var treeUpdates []ftree.Delta
	var newSeams []int
	for _, r := range results {
		circUpdates = append(circUpdates, r.circUpdates...)
		treeUpdates = append(treeUpdates, r.treeUpdates...)
		newSeams = append(newSeams, r.newSeams...)
	}

	if err := s.circ.ParSet(circUpdates); err != nil {
		return nil, err
	}
	s.ftree.AddAtBatch(treeUpdates)
	s.NSeamsTotal += len(newSeams)
	roundLog.Debug().Int("accepted", len(newSeams)/2).Msg("round finished")

	sort.Ints(newSeams)
	return mergeSortedUnique(newSeams, remaining), nil
}

func (s *Scheduler) optimizeOne(left, right int) taskResult {
	before := s.circ.Get(left, right)
	taskID := uuid.New()
	afterSeq := s.oracle.OptimizeSegment(before.ToSeq(), taskID)
	after := layer.New(afterSeq.Gates, before.NumQubits, s.layout)

	if !(after.Cost(s.cfg.Cost) < before.Cost(s.cfg.Cost) && after.Len() <= before.Len()) {
		return taskResult{}
	}

	var circUpdates []layer.LayerUpdate
	var treeUpdates []ftree.Delta
	for i := 0; i < right-left; i++ {
		idx := i + left
		if i < after.Len() {
			circUpdates = append(circUpdates, layer.LayerUpdate{Index: idx, Gates: after.GetOne(i)})
			if s.circ.IsEmpty(idx) {
				treeUpdates = append(treeUpdates, ftree.Delta{Index: idx, Value: 1})
			}
		} else {
			circUpdates = append(circUpdates, layer.LayerUpdate{Index: idx, Gates: nil})
			if !s.circ.IsEmpty(idx) {
				treeUpdates = append(treeUpdates, ftree.Delta{Index: idx, Value: -1})
			}
		}
	}

	return taskResult{
		newSeams:    []int{left, right - 1},
		treeUpdates: treeUpdates,
		circUpdates: circUpdates,
	}
}

// Run drives the round loop to completion: repeated PairAndOptimize
// rounds over a seam set seeded every omega layers, until no seam
// survives a round, or a single oracle pass over the whole circuit
// when SOAM is disabled.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.cfg.UseSoam {
		s.log.Info().Msg("soam disabled, running oracle once over the whole circuit")
		start := time.Now()
		afterSeq := s.oracle.OptimizeSegment(s.circ.ToSeq(), uuid.New())
		s.TimeOracle += time.Since(start)
		s.circ = layer.New(afterSeq.Gates, s.circ.NumQubits, s.layout)
		s.reportProgress(true)
		return nil
	}

	var seams []int
	for i := 0; i <= s.circ.Len()/s.cfg.Omega; i++ {
		seams = append(seams, i*s.cfg.Omega)
	}
	s.NSeamsTotal = len(seams)
	s.log.Info().Int("n_seams", len(seams)).Msg("soam run started")

	var err error
	for len(seams) > 0 {
		s.NRounds++
		seams, err = s.PairAndOptimize(ctx, seams)
		if err != nil {
			return err
		}
		s.reportProgress(false)
	}
	s.log.Info().Int("n_rounds", s.NRounds).Msg("soam run finished")
	s.reportProgress(true)
	return nil
}

// reportProgress publishes a Progress snapshot through Config.OnRound,
// if set.
func (s *Scheduler) reportProgress(done bool) {
	if s.cfg.OnRound == nil {
		return
	}
	s.cfg.OnRound(Progress{
		Round:       s.NRounds,
		NSeamsTotal: s.NSeamsTotal,
		Cost:        s.circ.Cost(s.cfg.Cost),
		Done:        done,
	})
}

// mergeSortedUnique merges two ascending, already-sorted slices and
// drops adjacent duplicates, mirroring itertools::merge().dedup().
func mergeSortedUnique(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)

	deduped := out[:0]
	for k, v := range out {
		if k == 0 || v != deduped[len(deduped)-1] {
			deduped = append(deduped, v)
		}
	}
	return deduped
}
