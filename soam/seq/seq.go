// Package seq implements LinearSequence: an ordered gate list with the
// shift primitives and identity-removal operations the peephole
// rewriter relies on.
package seq

import (
	"fmt"
	"math"
	"strings"

	"github.com/kegliz/soamqc/soam/gate"
)

// Metric selects a cost function. Depth and Mixed are only meaningful
// on a layered view; a bare Sequence only supports Gate.
type Metric int

const (
	Gate Metric = iota
	Depth
	Mixed
)

// Sequence is an ordered gate list over a fixed qubit count.
type Sequence struct {
	Gates     []gate.Gate
	NumQubits int
}

// New returns a Sequence over the given gates.
func New(gates []gate.Gate, numQubits int) Sequence {
	return Sequence{Gates: gates, NumQubits: numQubits}
}

// Len returns the raw gate count, including Identity sentinels.
func (s Sequence) Len() int { return len(s.Gates) }

// Get returns the sub-sequence [start,end), with Identity sentinels
// filtered out.
func (s Sequence) Get(start, end int) Sequence {
	out := make([]gate.Gate, 0, end-start)
	for _, g := range s.Gates[start:end] {
		if g.Kind != gate.Identity {
			out = append(out, g)
		}
	}
	return Sequence{Gates: out, NumQubits: s.NumQubits}
}

// ToSeq returns a copy with Identity sentinels filtered out.
func (s Sequence) ToSeq() Sequence {
	return s.Get(0, len(s.Gates))
}

// Cost computes the scalar cost under metric m. Only Gate is valid on
// a bare Sequence; Depth/Mixed require a LayeredCircuit view.
func (s Sequence) Cost(m Metric) int {
	switch m {
	case Gate:
		n := 0
		for _, g := range s.Gates {
			if g.Kind != gate.Identity {
				n++
			}
		}
		return n
	default:
		panic(fmt.Sprintf("seq: metric %d is not supported on a bare Sequence", m))
	}
}

// IsEmpty reports whether the gate at id is the Identity sentinel.
func (s Sequence) IsEmpty(id int) bool { return s.Gates[id].Kind == gate.Identity }

// GetOne returns a single-gate slice at id.
func (s Sequence) GetOne(id int) []gate.Gate { return []gate.Gate{s.Gates[id]} }

// ParSet applies disjoint-index updates. Callers guarantee the
// indices in updates are pairwise disjoint; under that contract the
// writes may run concurrently, but since updates here are single
// gates applied in a hot loop, a sequential pass already saturates
// memory bandwidth before synchronization overhead would pay off, so
// this implementation writes directly.
func (s *Sequence) ParSet(updates []IndexUpdate) {
	for _, u := range updates {
		s.Gates[u.Index] = u.Gate
	}
}

// IndexUpdate names a single disjoint write for ParSet.
type IndexUpdate struct {
	Index int
	Gate  gate.Gate
}

// RemoveIdentities filters out Identity sentinels and any RZ whose
// angle is an exact multiple of 2*pi, preserving order.
func (s *Sequence) RemoveIdentities() {
	clean := make([]gate.Gate, 0, len(s.Gates))
	for _, g := range s.Gates {
		switch g.Kind {
		case gate.Identity:
			continue
		case gate.RZ:
			if math.Mod(g.Theta, 2*math.Pi) != 0 {
				clean = append(clean, g)
			}
		default:
			clean = append(clean, g)
		}
	}
	s.Gates = clean
}

// ReduceAngles reduces every RZ angle modulo 2*pi.
func (s *Sequence) ReduceAngles() {
	for i, g := range s.Gates {
		if g.Kind == gate.RZ {
			s.Gates[i].Theta = math.Mod(g.Theta, 2*math.Pi)
		}
	}
}

// ReplaceZGates rewrites every Z(q) as RZ{pi,q} in place.
func (s *Sequence) ReplaceZGates() {
	for i, g := range s.Gates {
		if g.Kind == gate.Z {
			s.Gates[i] = gate.NewRZ(math.Pi, g.Q1)
		}
	}
}

// ShiftRight performs adjacent swaps moving the gate at src to dst,
// O(dst-src) swaps. Used by propagation rewrites to commute a gate
// forward across a window already verified not to interfere.
func (s *Sequence) ShiftRight(src, dst int) {
	for i := src; i < dst; i++ {
		s.Gates[i], s.Gates[i+1] = s.Gates[i+1], s.Gates[i]
	}
}

// ShiftLeft is the inverse of ShiftRight: it reverts a tentative
// forward commute.
func (s *Sequence) ShiftLeft(src, dst int) {
	for i := 0; i < dst-src; i++ {
		s.Gates[dst-i], s.Gates[dst-i-1] = s.Gates[dst-i-1], s.Gates[dst-i]
	}
}

// Dump renders the sequence as OPENQASM 2.0 text over the qelib1
// vocabulary.
func (s Sequence) Dump() string {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n")
	fmt.Fprintf(&b, "qreg q[%d];\n", s.NumQubits)
	for _, g := range s.Gates {
		if g.Kind == gate.Identity {
			continue
		}
		fmt.Fprintf(&b, "%s;\n", g.String())
	}
	return b.String()
}
