package roqc

import (
	"math"
	"sync/atomic"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

// xLoops and xCancels are process-scope counters mirroring the
// original's static mut NUM_LOOPS/NUM_CANCELS; they exist purely for
// diagnostics (surfaced by Stats) and are safe under concurrent
// window dispatch since every update goes through atomic ops.
var xLoops, xCancels int64

// xPropagation tries to commute the X gate at xIndex (acting on xQ)
// rightward until it cancels, turns into a phase, or is blocked.
// Returns true if the sequence changed.
func xPropagation(s *seq.Sequence, xIndex, xQ int) bool {
	for gi := xIndex + 1; gi < len(s.Gates); gi++ {
		atomic.AddInt64(&xLoops, 1)
		g := s.Gates[gi]
		switch g.Kind {
		case gate.X:
			if g.Q1 == xQ {
				s.Gates[gi] = gate.NewIdentity()
				s.Gates[xIndex] = gate.NewIdentity()
				return true
			}
		case gate.H:
			if g.Q1 == xQ {
				s.Gates[gi] = gate.NewRZ(math.Pi, g.Q1)
				s.Gates[xIndex] = gate.NewH(xQ)
				return true
			}
		case gate.RZ:
			if g.Q1 == xQ {
				s.Gates[xIndex] = gate.NewRZ(2*math.Pi-g.Theta, g.Q1)
				s.Gates[gi] = gate.NewX(g.Q1)
				return true
			}
		case gate.CX:
			if g.Q1 == xQ {
				insertGate(s, gi+1, gate.NewX(g.Q1))
				insertGate(s, gi+2, gate.NewX(g.Q2))
				removeGate(s, xIndex)
				return true
			}
			if g.Q2 == xQ {
				insertGate(s, gi+1, gate.NewX(g.Q2))
				removeGate(s, xIndex)
				return true
			}
		default:
			if g.Interferes(xQ) {
				return false
			}
		}
	}
	return false
}

// xCancellation sweeps once, canceling adjacent-on-the-wire pairs of
// X gates (an X followed later, with nothing else touching that
// qubit in between, by another X) by tracking an odd/even flag per
// qubit and only emitting a trailing X when the flag is still set
// once a gate that touches the qubit is reached.
func xCancellation(s seq.Sequence) seq.Sequence {
	endsWithX := make([]bool, s.NumQubits)
	var out []gate.Gate
	for _, g := range s.Gates {
		if g.Kind == gate.X {
			endsWithX[g.Q1] = !endsWithX[g.Q1]
			continue
		}
		for _, q := range g.Qubits() {
			if endsWithX[q] {
				out = append(out, gate.NewX(q))
				endsWithX[q] = false
			}
		}
		out = append(out, g)
	}
	for q, pending := range endsWithX {
		if pending {
			out = append(out, gate.NewX(q))
		}
	}
	atomic.AddInt64(&xCancels, int64(len(s.Gates)-len(out)))
	return seq.New(out, s.NumQubits)
}

func insertGate(s *seq.Sequence, index int, g gate.Gate) {
	s.Gates = append(s.Gates, gate.Gate{})
	copy(s.Gates[index+1:], s.Gates[index:])
	s.Gates[index] = g
}

func removeGate(s *seq.Sequence, index int) {
	s.Gates = append(s.Gates[:index], s.Gates[index+1:]...)
}
