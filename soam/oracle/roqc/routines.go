// Package roqc implements the peephole rewrite routines (R0-R4) a
// LocalOracle applies to a single extracted window of a circuit.
// Each routine sweeps a window left to right, dispatching to the
// matching propagation/cancellation pair for the gate kind it cares
// about; RunAll composes the routines in DefaultOrder.
package roqc

import (
	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

// Routine identifies one of the five peephole passes.
type Routine int

const (
	R0 Routine = iota // X propagation and cancellation
	R1                // H propagation and cancellation
	R2                // RZ propagation and merging
	R3                // CX propagation and cancellation
	R4                // rotation merge
)

// DefaultOrder is the routine sequence applied per window, chosen to
// let each pass clean up opportunities the previous one exposed
// before the more expensive R4 merge runs once near the end.
var DefaultOrder = []Routine{R0, R1, R3, R2, R3, R2, R1, R4, R3, R2}

// Run applies routine r to s in place.
func Run(r Routine, s *seq.Sequence) {
	switch r {
	case R0:
		Routine0(s)
	case R1:
		Routine1(s)
	case R2:
		Routine2(s)
	case R3:
		Routine3(s)
	case R4:
		Routine4(s)
	}
}

// RunAll applies DefaultOrder to s in place, in order.
func RunAll(s *seq.Sequence) {
	for _, r := range DefaultOrder {
		Run(r, s)
	}
}

// Routine0 propagates and cancels X gates, then sweeps for any
// adjacent-on-the-wire pairs propagation left behind. The index only
// advances when propagation at it didn't change anything: a
// successful propagation can shift a new gate into the slot just
// vacated (an insert/remove pair from the CX case, or a gate sliding
// down after a cancellation), and that slot needs to be examined
// again before moving on.
func Routine0(s *seq.Sequence) {
	for i := 0; i < len(s.Gates); {
		if s.Gates[i].Kind == gate.X {
			if !xPropagation(s, i, s.Gates[i].Q1) {
				i++
			}
		} else {
			i++
		}
	}
	*s = xCancellation(*s)
}

// Routine1 propagates and cancels H gates.
func Routine1(s *seq.Sequence) {
	for i := 0; i < len(s.Gates); i++ {
		if s.Gates[i].Kind == gate.H {
			hPropagation(s, i, s.Gates[i].Q1)
		}
	}
	*s = hCancellation(*s)
}

// Routine2 propagates and merges RZ gates. Rewrites keep the slice
// length: a merge turns two RZ's into one plus an Identity, and
// commutes are in-place shifts.
func Routine2(s *seq.Sequence) {
	for i := 0; i < len(s.Gates); i++ {
		if s.Gates[i].Kind == gate.RZ {
			singleQubitProp(s, i, s.Gates[i].Q1)
		}
	}
}

// Routine3 propagates and cancels CX gates. Rewrites keep the slice
// length: chain moves are in-place shifts, and cancellation replaces
// both CX's with Identity sentinels.
func Routine3(s *seq.Sequence) {
	for i := 0; i < len(s.Gates); i++ {
		if s.Gates[i].Kind == gate.CX {
			twoQubitProp(s, i)
		}
	}
}

// Routine4 runs the rotation merge pass once over the whole window.
func Routine4(s *seq.Sequence) {
	mergeRotations(s)
}

// Stats reports the cumulative loop/cancel counters maintained by
// each routine, for diagnostics (the Go equivalent of the original's
// print_statistics).
type Stats struct {
	XLoops, XCancels   int64
	HLoops, HCancels   int64
	RZLoops, RZCancels int64
	CXLoops, CXCancels int64
}

func CurrentStats() Stats {
	return Stats{
		XLoops: xLoops, XCancels: xCancels,
		HLoops: hLoops, HCancels: hCancels,
		RZLoops: rzLoops, RZCancels: rzCancels,
		CXLoops: cxLoops, CXCancels: cxCancels,
	}
}
