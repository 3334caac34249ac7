// Package sampler implements CorrectnessSampler: a post-hoc check
// that re-optimizes every omega-window of a finished circuit and
// reports any window whose re-optimized cost regresses, as a signal
// (not a panic) that the oracle's acceptance gate let something bad
// through.
package sampler

import (
	"context"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/kegliz/soamqc/soam/layer"
	"github.com/kegliz/soamqc/soam/oracle"
	"github.com/kegliz/soamqc/soam/seq"
)

// Violation records one window whose re-optimization did not improve
// (or held steady) on cost.
type Violation struct {
	Start, End  int
	BeforeCost  int
	AfterCost   int
}

// Report summarizes a correctness pass.
type Report struct {
	WindowsChecked int
	Violations     []Violation
}

// Sample re-optimizes every [i, i+omega) window of circ in parallel
// and flags any whose re-optimized cost is not strictly lower than
// its pre-check cost.
func Sample(ctx context.Context, circ layer.Circuit, o oracle.Interface, omega int, cost seq.Metric) Report {
	n := circ.Len() - omega
	if n < 0 {
		n = 0
	}

	violations := make(chan Violation, n)
	p := pool.New()
	for i := 0; i < n; i++ {
		i := i
		p.Go(func() {
			slice := circ.Get(i, i+omega)
			afterSeq := o.OptimizeSegment(slice.ToSeq(), uuid.New())
			after := layer.New(afterSeq.Gates, slice.NumQubits, slice.Layout)

			beforeCost := slice.Cost(cost)
			afterCost := after.Cost(cost)
			if afterCost >= beforeCost {
				violations <- Violation{Start: i, End: i + omega, BeforeCost: beforeCost, AfterCost: afterCost}
			}
		})
	}
	p.Wait()
	close(violations)

	report := Report{WindowsChecked: n}
	for v := range violations {
		report.Violations = append(report.Violations, v)
	}
	return report
}
