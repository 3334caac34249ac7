package roqc

import (
	"sync/atomic"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

var rzLoops, rzCancels int64

type propagateStatus int

const (
	statusPropagate propagateStatus = iota
	statusCancellation
	statusRevert
)

type shiftInstr struct{ src, dst int }

type propagationResult struct {
	status     propagateStatus
	startIndex int
	shift      shiftInstr
}

// singleQubitProp repeatedly commutes the RZ gate at gIndex (on gQ)
// rightward until it cancels against another RZ, finds no further
// legal commutation, or the window is exhausted. On REVERT it undoes
// every tentative shift it made, in reverse order, leaving the
// sequence exactly as it found it.
func singleQubitProp(s *seq.Sequence, gIndex, gQ int) bool {
	idx := gIndex
	var reversals []shiftInstr
	for {
		res := propagateRZ(s, idx, gQ)
		switch res.status {
		case statusPropagate:
			idx = res.startIndex
			reversals = append(reversals, res.shift)
		case statusCancellation:
			return true
		case statusRevert:
			for i := len(reversals) - 1; i >= 0; i-- {
				s.ShiftLeft(reversals[i].src, reversals[i].dst)
			}
			return false
		}
	}
}

func propagateRZ(s *seq.Sequence, gIndex, gQ int) propagationResult {
	seen := []gate.Gate{s.Gates[gIndex]}
	seenIdx := []int{gIndex}

	cxCheckNeeded := false
	skipCheck := true
	cxControl := 0
	length2Checked := false
	length3Checked := false

	for gi := gIndex + 1; gi < len(s.Gates); gi++ {
		if len(seen) == 4 {
			return propagationResult{status: statusRevert, startIndex: gIndex}
		}
		atomic.AddInt64(&rzLoops, 1)
		g := s.Gates[gi]

		if g.Interferes(gQ) {
			seen = append(seen, g)
			seenIdx = append(seenIdx, gi)
			if g.Kind == gate.CX && g.Q2 == gQ {
				cxCheckNeeded = true
				cxControl = g.Q1
			}
		}

		if !skipCheck && g.Interferes(cxControl) {
			if g.Kind == gate.CX {
				if g.Q2 == gQ && len(seen) == 4 {
					if seen[2].Kind != gate.RZ {
						return propagationResult{status: statusRevert, startIndex: gIndex}
					}
				} else {
					return propagationResult{status: statusRevert, startIndex: gIndex}
				}
			} else {
				return propagationResult{status: statusRevert, startIndex: gIndex}
			}
		}
		if cxCheckNeeded {
			skipCheck = false
		}

		if len(seen) == 2 && seen[0].Kind == gate.RZ && seen[1].Kind == gate.RZ {
			atomic.AddInt64(&rzCancels, 1)
			s.Gates[seenIdx[0]] = gate.NewRZ(seen[0].Theta+seen[1].Theta, gQ)
			s.Gates[seenIdx[1]] = gate.NewIdentity()
			return propagationResult{status: statusCancellation, startIndex: gIndex}
		}

		if !length2Checked && len(seen) == 2 {
			if earlyTerminationLength2(seen) {
				return propagationResult{status: statusRevert, startIndex: gIndex}
			}
			length2Checked = true
		}
		if !length3Checked && len(seen) == 3 {
			if earlyTerminationLength3(seen) {
				return propagationResult{status: statusRevert, startIndex: gIndex}
			}
			length3Checked = true
		}

		switch {
		case kindsEqual(seen, gate.RZ, gate.H, gate.CX, gate.H):
			if seen[2].Q2 == gQ {
				s.ShiftRight(gIndex, seenIdx[3])
				return propagationResult{
					status:     statusPropagate,
					startIndex: seenIdx[3],
					shift:      shiftInstr{gIndex, seenIdx[3]},
				}
			}
		case kindsEqual(seen, gate.RZ, gate.CX, gate.RZ, gate.CX):
			c1, t1 := seen[1].Q1, seen[1].Q2
			c2, t2 := seen[3].Q1, seen[3].Q2
			if c1 == c2 && t1 == t2 && t2 == gQ {
				s.ShiftRight(gIndex, seenIdx[3])
				return propagationResult{
					status:     statusPropagate,
					startIndex: seenIdx[3],
					shift:      shiftInstr{gIndex, seenIdx[3]},
				}
			}
		case kindsEqual(seen, gate.RZ, gate.CX):
			if seen[1].Q1 == gQ {
				s.ShiftRight(gIndex, seenIdx[1])
				return propagationResult{
					status:     statusPropagate,
					startIndex: seenIdx[1],
					shift:      shiftInstr{gIndex, seenIdx[1]},
				}
			}
		}
	}
	return propagationResult{status: statusRevert, startIndex: gIndex}
}

func kindsEqual(gates []gate.Gate, want ...gate.Kind) bool {
	if len(gates) != len(want) {
		return false
	}
	for i, k := range want {
		if gates[i].Kind != k {
			return false
		}
	}
	return true
}

func earlyTerminationLength2(gates []gate.Gate) bool {
	if kindsEqual(gates, gate.RZ, gate.H) || kindsEqual(gates, gate.RZ, gate.CX) {
		return false
	}
	return true
}

func earlyTerminationLength3(gates []gate.Gate) bool {
	if kindsEqual(gates, gate.RZ, gate.H, gate.CX) || kindsEqual(gates, gate.RZ, gate.CX, gate.RZ) {
		return false
	}
	return true
}
