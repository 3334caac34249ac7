package roqc

import (
	"sync/atomic"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

var cxLoops, cxCancels int64

type cxShiftInstr struct {
	chain []int
	end   int
}

type cxPropagationResult struct {
	status     propagateStatus
	startIndex int
	shift      cxShiftInstr
}

// twoQubitProp repeatedly commutes the CX gate at gIndex rightward
// along an "interference chain" of gates that touch neither of its
// two qubits directly, until it cancels against a matching CX, finds
// no further legal move, or is blocked — reverting every tentative
// move on failure.
func twoQubitProp(s *seq.Sequence, gIndex int) bool {
	idx := gIndex
	var reversals []cxShiftInstr
	for {
		res := propagateCX(s, idx)
		switch res.status {
		case statusPropagate:
			idx = res.startIndex
			reversals = append(reversals, res.shift)
		case statusCancellation:
			return true
		case statusRevert:
			for i := len(reversals) - 1; i >= 0; i-- {
				revertChain(s, reversals[i].chain, reversals[i].end)
			}
			return false
		}
	}
}

func propagateCX(s *seq.Sequence, gIndex int) cxPropagationResult {
	g0 := s.Gates[gIndex]
	if g0.Kind != gate.CX {
		panic("roqc: CX propagation on non-CX gate")
	}
	control, target := g0.Q1, g0.Q2

	seenTrgt := []gate.Gate{g0}
	idxTrgt := []int{gIndex}
	seenCtrl := []gate.Gate{g0}
	idxCtrl := []int{gIndex}
	cxCancelViable := true

	for gi := gIndex + 1; gi < len(s.Gates); gi++ {
		atomic.AddInt64(&cxLoops, 1)
		g := s.Gates[gi]

		if g.Interferes(target) {
			seenTrgt = append(seenTrgt, g)
			idxTrgt = append(idxTrgt, gi)
		}
		if g.Interferes(control) {
			seenCtrl = append(seenCtrl, g)
			idxCtrl = append(idxCtrl, gi)

			if g.Kind != gate.CX || g.Q1 != control || g.Q2 != target {
				cxCancelViable = false
			}
		}

		if len(seenTrgt) > 4 {
			return cxPropagationResult{status: statusRevert, startIndex: gIndex}
		}

		if len(seenTrgt) == 2 && kindsEqual(seenTrgt, gate.CX, gate.CX) {
			control2, target2 := seenTrgt[1].Q1, seenTrgt[1].Q2
			if len(idxCtrl) == 2 && control2 == control && target == target2 && cxCancelViable {
				atomic.AddInt64(&cxCancels, 1)
				s.Gates[idxTrgt[0]] = gate.NewIdentity()
				s.Gates[idxTrgt[1]] = gate.NewIdentity()
				return cxPropagationResult{status: statusCancellation, startIndex: gIndex}
			}
		}

		if kindsEqual(seenTrgt, gate.CX, gate.CX) {
			_, target2 := seenTrgt[1].Q1, seenTrgt[1].Q2
			if target2 == target {
				chain := createInterferenceChain(s, gIndex, idxTrgt[1], control, target, seenTrgt[1].Q1)
				if len(chain) > 0 {
					moveChainToBack(s, chain, idxTrgt[1])
					return cxPropagationResult{
						status:     statusPropagate,
						startIndex: idxTrgt[1] - (len(chain) - 1),
						shift:      cxShiftInstr{chain: chain, end: idxTrgt[1]},
					}
				}
			}
		} else if kindsEqual(seenTrgt, gate.CX, gate.H, gate.CX, gate.H) {
			control2, target2 := seenTrgt[2].Q1, seenTrgt[2].Q2
			if target == control2 && control != target2 {
				chain := createInterferenceChain(s, idxTrgt[0], idxTrgt[3], control, target, target2)
				if len(chain) > 0 {
					moveChainToBack(s, chain, idxTrgt[3])
					return cxPropagationResult{
						status:     statusPropagate,
						startIndex: idxTrgt[3] - (len(chain) - 1),
						shift:      cxShiftInstr{chain: chain, end: idxTrgt[3]},
					}
				}
			}
		}

		if kindsEqual(seenCtrl, gate.CX, gate.CX) {
			control2, target2 := seenCtrl[1].Q1, seenCtrl[1].Q2
			if control2 == control {
				chain := createInterferenceChain(s, gIndex, idxCtrl[1], target, control, target2)
				if len(chain) > 0 {
					moveChainToBack(s, chain, idxCtrl[1])
					return cxPropagationResult{
						status:     statusPropagate,
						startIndex: idxCtrl[1] - (len(chain) - 1),
						shift:      cxShiftInstr{chain: chain, end: idxCtrl[1]},
					}
				}
			}
		}
	}
	return cxPropagationResult{status: statusRevert, startIndex: gIndex}
}

// moveChainToBack commutes each interference-chain member rightward
// to endIndex in turn, so the whole chain ends up in the last
// len(chain) slots up to and including endIndex, in its original
// relative order, just after the gate that was at endIndex.
func moveChainToBack(s *seq.Sequence, chain []int, endIndex int) {
	for i, interIndex := range chain {
		s.ShiftRight(interIndex-i, endIndex)
	}
}

func revertChain(s *seq.Sequence, chain []int, endIndex int) {
	for i, interIndex := range chain {
		s.ShiftLeft(interIndex, (endIndex-len(chain))+1+i)
	}
}

// createInterferenceChain walks gates strictly between start and end
// looking for ones that touch neither patternQubit nor the exclusion
// qubit but DO touch a qubit already entangled (via CX) with
// startQubit's interference set; returns the indices of those plus
// start, or nil if the chain is blocked (it reaches patternQubit or
// exclusionQubit).
func createInterferenceChain(s *seq.Sequence, start, end, startQubit, patternQubit, exclusionQubit int) []int {
	chain := []int{start}
	interfering := map[int]bool{startQubit: true}

	for i := start + 1; i < end; i++ {
		g := s.Gates[i]
		if g.Interferes(patternQubit) {
			continue
		}
		if g.Kind == gate.CX {
			if interfering[g.Q1] || interfering[g.Q2] {
				interfering[g.Q1] = true
				interfering[g.Q2] = true
			}
		}

		matched := false
		for q := range interfering {
			if g.Interferes(q) {
				matched = true
				break
			}
		}
		if matched {
			chain = append(chain, i)
			for _, q := range g.Qubits() {
				if q == patternQubit || q == exclusionQubit {
					return nil
				}
			}
		}
	}
	return chain
}
