package roqc

import (
	"math"
	"sync/atomic"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

var hLoops, hCancels int64

// hPropagation scans rightward from an H gate on hQ looking for one
// of five small self-contained patterns it can rewrite in place:
// H-H cancellation, H-RZ(pi/2)-H / H-RZ(3pi/2)-H basis flips, the
// 5-gate H-RZ-CX-RZ-H rotation-through-CNOT identity, and H-CX-H
// control/target swap when the control qubit already carries a
// matching H on each side. Both RZ angle cases of the 3-gate pattern
// (pi/2 and 3pi/2) return after rewriting.
func hPropagation(s *seq.Sequence, hIndex, hQ int) {
	seenIdx := []int{hIndex}
	seenKind := []gate.Kind{gate.H}

	hadBeforeCX := map[int]int{}
	hadAfterCX := map[int]int{}
	invalidQubits := map[int]bool{}
	cxSeen := false

	for gi := hIndex + 1; gi < len(s.Gates); gi++ {
		atomic.AddInt64(&hLoops, 1)
		g := s.Gates[gi]
		firstCX := false

		if g.Interferes(hQ) {
			seenKind = append(seenKind, g.Kind)
			seenIdx = append(seenIdx, gi)
			if g.Kind == gate.CX {
				if !cxSeen {
					firstCX = true
				}
				cxSeen = true
			}
		} else if g.Kind == gate.H {
			if cxSeen {
				if !invalidQubits[g.Q1] {
					if _, ok := hadAfterCX[g.Q1]; !ok {
						hadAfterCX[g.Q1] = gi
					}
				}
			} else {
				hadBeforeCX[g.Q1] = gi
			}
		}

		if !firstCX && g.Kind != gate.H {
			if !cxSeen {
				for q := range hadBeforeCX {
					if g.Interferes(q) {
						delete(hadBeforeCX, q)
					}
				}
			} else {
				for _, q := range g.Qubits() {
					invalidQubits[q] = true
				}
			}
		}

		if len(seenKind) > 5 {
			return
		}

		switch {
		case matchKinds(seenKind, gate.H, gate.H):
			s.Gates[seenIdx[0]] = gate.NewIdentity()
			s.Gates[seenIdx[1]] = gate.NewIdentity()
			return

		case matchKinds(seenKind, gate.H, gate.RZ, gate.H):
			r := s.Gates[seenIdx[1]].Theta
			switch r {
			case 0.5 * math.Pi:
				s.Gates[seenIdx[0]] = gate.NewRZ(1.5*math.Pi, hQ)
				s.Gates[seenIdx[1]] = gate.NewH(hQ)
				s.Gates[seenIdx[2]] = gate.NewRZ(1.5*math.Pi, hQ)
				return
			case 1.5 * math.Pi:
				s.Gates[seenIdx[0]] = gate.NewRZ(0.5*math.Pi, hQ)
				s.Gates[seenIdx[1]] = gate.NewH(hQ)
				s.Gates[seenIdx[2]] = gate.NewRZ(0.5*math.Pi, hQ)
				return
			}

		case matchKinds(seenKind, gate.H, gate.RZ, gate.CX, gate.RZ, gate.H):
			r1 := s.Gates[seenIdx[1]].Theta
			r2 := s.Gates[seenIdx[3]].Theta
			control := s.Gates[seenIdx[2]].Q1
			target := s.Gates[seenIdx[2]].Q2
			if target == hQ && r1 == 1.5*math.Pi && r2 == 0.5*math.Pi {
				s.Gates[seenIdx[1]] = gate.NewRZ(0.5*math.Pi, hQ)
				s.Gates[seenIdx[2]] = gate.NewCX(control, hQ)
				s.Gates[seenIdx[3]] = gate.NewRZ(1.5*math.Pi, hQ)
				removeGate(s, seenIdx[0])
				removeGate(s, seenIdx[4]-1)
			} else if target == hQ && r1 == 0.5*math.Pi && r2 == 1.5*math.Pi {
				s.Gates[seenIdx[1]] = gate.NewRZ(1.5*math.Pi, hQ)
				s.Gates[seenIdx[2]] = gate.NewCX(control, hQ)
				s.Gates[seenIdx[3]] = gate.NewRZ(0.5*math.Pi, hQ)
				removeGate(s, seenIdx[0])
				removeGate(s, seenIdx[4]-1)
			}
			return

		case matchKinds(seenKind, gate.H, gate.CX, gate.H):
			control := s.Gates[seenIdx[1]].Q1
			target := s.Gates[seenIdx[1]].Q2
			if target == hQ {
				_, before := hadBeforeCX[control]
				_, after := hadAfterCX[control]
				if !(before && after) {
					continue
				}
				s.Gates[seenIdx[1]] = gate.NewCX(hQ, control)
				s.Gates[seenIdx[0]] = gate.NewIdentity()
				s.Gates[seenIdx[2]] = gate.NewIdentity()
				s.Gates[hadBeforeCX[control]] = gate.NewIdentity()
				s.Gates[hadAfterCX[control]] = gate.NewIdentity()
				return
			}
		}
	}
}

func matchKinds(seen []gate.Kind, want ...gate.Kind) bool {
	if len(seen) != len(want) {
		return false
	}
	for i := range want {
		if seen[i] != want[i] {
			return false
		}
	}
	return true
}

// hCancellation sweeps once, canceling H-H pairs the same way
// xCancellation cancels X-X pairs.
func hCancellation(s seq.Sequence) seq.Sequence {
	endsWithH := make([]bool, s.NumQubits)
	var out []gate.Gate
	for _, g := range s.Gates {
		if g.Kind == gate.H {
			endsWithH[g.Q1] = !endsWithH[g.Q1]
			continue
		}
		for _, q := range g.Qubits() {
			if endsWithH[q] {
				out = append(out, gate.NewH(q))
				endsWithH[q] = false
			}
		}
		out = append(out, g)
	}
	for q, pending := range endsWithH {
		if pending {
			out = append(out, gate.NewH(q))
		}
	}
	atomic.AddInt64(&hCancels, int64(len(s.Gates)-len(out)))
	return seq.New(out, s.NumQubits)
}
