package roqc

import (
	"sort"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

// mergeRotations is the Go port of Nam's CNOT-affine rotation merge
// ("Automated optimization of large quantum circuits with continuous
// parameters"): around every CX not already covered by a prior pass,
// it carves out the maximal subcircuit of CX/X/RZ gates bounded by H
// on each wire, assigns each wire a fresh standard-basis WireState,
// and merges every RZ sharing a wire's affine state at the point it
// runs, even across CX gates that touch the wire indirectly.
func mergeRotations(s *seq.Sequence) {
	term := map[int][2]int{}
	gateIndex := 0
	for gateIndex < len(s.Gates) {
		g := s.Gates[gateIndex]
		if g.Kind == gate.CX {
			t1, ok1 := term[g.Q1]
			t2, ok2 := term[g.Q2]
			if ok1 && ok2 && (t1[1] > gateIndex || t2[1] > gateIndex) {
				gateIndex++
				continue
			}
			var subcircuit []int
			term, subcircuit = createSubcircuit(s, gateIndex)
			mergeSubcircuit(s, subcircuit, term)
		}
		gateIndex++
	}
}

// subcircuitSection is the gate-index list explored from one anchor
// wire of a subcircuit, plus the CX gate index that put it on the
// work queue.
type subcircuitSection struct {
	gates  []int
	anchor int
}

// createSubcircuit carves the maximal subcircuit touching the CX at
// startIndex: a breadth-first walk outward along every wire the CX
// (transitively, via further CX gates) touches, stopping on each wire
// at the first H in either direction. It returns each wire's
// termination window (its half of the subcircuit, pruned to where
// both ends of every CX inside it are mutually in range) and the
// sorted, deduplicated set of gate indices the subcircuit covers.
func createSubcircuit(s *seq.Sequence, startIndex int) (map[int][2]int, []int) {
	term := map[int][2]int{}
	seed := s.Gates[startIndex]
	if seed.Kind != gate.CX {
		return term, nil
	}

	sections := map[int]*subcircuitSection{}
	var exploreOrder []int
	queue := [][2]int{{startIndex, seed.Q1}, {startIndex, seed.Q2}}

	for len(queue) > 0 {
		gi, q := queue[0][0], queue[0][1]
		queue = queue[1:]
		if _, seen := sections[q]; seen {
			continue
		}
		sec := &subcircuitSection{gates: []int{gi}, anchor: gi}
		sections[q] = sec
		exploreOrder = append(exploreOrder, q)

		end := expandSubcircuit(s, sec, gi, q, false, &queue)
		start := expandSubcircuit(s, sec, gi, q, true, &queue)
		term[q] = [2]int{start, end}
	}

	for _, sec := range sections {
		sort.Ints(sec.gates)
	}

	var prunedOut []int
	for repeat := true; repeat; {
		repeat = false
		for _, q := range exploreOrder {
			if containsInt(prunedOut, q) {
				continue
			}
			sec, ok := sections[q]
			if !ok {
				continue
			}
			anchor := s.Gates[sec.anchor]
			control, target := anchor.Q1, anchor.Q2

			prune := false
			if control == q {
				other, ok := sections[target]
				if !ok || !containsInt(other.gates, sec.anchor) {
					prune = true
				}
			} else if target == q {
				other, ok := sections[control]
				if !ok || !containsInt(other.gates, sec.anchor) {
					prune = true
				}
			}
			if prune {
				delete(sections, q)
				term[q] = [2]int{len(s.Gates), len(s.Gates)}
				prunedOut = append(prunedOut, q)
				repeat = true
				continue
			}

			if adjustTerminationPoints(s, sec, term) {
				repeat = true
			}
			pruneSectionGates(q, sec, term)
		}
	}

	var subcircuit []int
	for _, sec := range sections {
		subcircuit = append(subcircuit, sec.gates...)
	}
	sort.Ints(subcircuit)
	subcircuit = dedupInts(subcircuit)

	return term, subcircuit
}

// expandSubcircuit walks away from (startIndex, startQubit) in one
// direction, collecting every non-H gate that interferes with
// startQubit into section.gates and queuing the other wire of any CX
// found for its own exploration. It stops at the first H on
// startQubit (without including it) and returns the last interfering
// gate index found, or the circuit boundary if no H is ever reached.
func expandSubcircuit(s *seq.Sequence, sec *subcircuitSection, startIndex, startQubit int, reverse bool, queue *[][2]int) int {
	termination := startIndex

	visit := func(gi int) (stop bool) {
		g := s.Gates[gi]
		if !g.Interferes(startQubit) {
			return false
		}
		if g.Kind == gate.H {
			return true
		}
		termination = gi
		if g.Kind == gate.CX {
			other := g.Q2
			if g.Q1 != startQubit {
				other = g.Q1
			}
			*queue = append(*queue, [2]int{gi, other})
		}
		sec.gates = append(sec.gates, gi)
		return false
	}

	if !reverse {
		for gi := startIndex + 1; gi < len(s.Gates); gi++ {
			if visit(gi) {
				return termination
			}
		}
		return len(s.Gates) - 1
	}
	for gi := startIndex - 1; gi >= 0; gi-- {
		if visit(gi) {
			return termination
		}
	}
	return 0
}

// adjustTerminationPoints walks a wire's section looking for CX gates
// whose other wire's termination window doesn't actually cover this
// gate: if the other wire's window excludes this CX because the CX
// sits before its anchor, the window's start is pushed past it; if it
// sits after, the window's end is pulled back to before it. A CX
// excluded on ITS OWN wire's side instead just gets dropped from the
// section. Reports whether a window changed, so the caller can repeat
// until the whole subcircuit is stable.
func adjustTerminationPoints(s *seq.Sequence, sec *subcircuitSection, term map[int][2]int) bool {
	var toRemove []int
	repeat := false

loop:
	for idx, gi := range sec.gates {
		g := s.Gates[gi]
		if g.Kind != gate.CX {
			continue
		}
		control, target := g.Q1, g.Q2
		ct, tt := term[control], term[target]
		controlOut := gi < ct[0] || gi > ct[1]
		targetOut := gi < tt[0] || gi > tt[1]

		switch {
		case !controlOut && !targetOut:
			// both sides still cover this CX; nothing to adjust
		case controlOut:
			if gi < sec.anchor {
				term[target] = [2]int{gi + 1, tt[1]}
			} else {
				term[target] = [2]int{tt[0], gi - 1}
				repeat = true
				break loop
			}
			repeat = true
		case targetOut:
			toRemove = append(toRemove, idx)
		}
	}

	for i := len(toRemove) - 1; i >= 0; i-- {
		j := toRemove[i]
		sec.gates = append(sec.gates[:j], sec.gates[j+1:]...)
	}
	return repeat
}

// pruneSectionGates drops every gate index outside qubit's current
// termination window.
func pruneSectionGates(qubit int, sec *subcircuitSection, term map[int][2]int) {
	t := term[qubit]
	kept := sec.gates[:0]
	for _, gi := range sec.gates {
		if gi >= t[0] && gi <= t[1] {
			kept = append(kept, gi)
		}
	}
	sec.gates = kept
}

// rotationMerge tracks, for one F2 basis state reached during a
// subcircuit walk, where it first needs an RZ inserted, the angle
// accumulated for it so far, and the wire it belongs to.
type rotationMerge struct {
	location int
	angle    float64
	wire     int
}

// mergeSubcircuit walks subcircuit in gate-index order, giving each
// wire a fresh one-hot WireState over s.NumQubits: CX XORs the
// target's state with the control's, X complements its wire's state,
// and RZ adds its angle into the bucket keyed by its wire's current
// state, deleting the RZ in place. Buckets are reinserted, in reverse
// position order so earlier insertions don't shift later ones, as a
// single merged RZ at the earliest gate index that reached that
// state; buckets that never accumulated a nonzero angle vanish.
func mergeSubcircuit(s *seq.Sequence, subcircuit []int, term map[int][2]int) {
	if len(subcircuit) == 0 {
		return
	}

	n := len(s.Gates)
	start, end := n, -1
	for _, t := range term {
		if t[0] != n && t[0] < start {
			start = t[0]
		}
		if t[1] != n && t[1] > end {
			end = t[1]
		}
	}
	if start > end {
		return
	}

	state := map[int]wireState{}
	merges := map[wireState]*rotationMerge{}
	for wire, t := range term {
		if t[0] == n {
			continue
		}
		ws := newWireState(wire, s.NumQubits)
		state[wire] = ws
		merges[ws] = &rotationMerge{location: t[0], wire: wire}
	}

	window := append([]gate.Gate(nil), s.Gates[start:end+1]...)

	for _, gi := range subcircuit {
		g := s.Gates[gi]
		switch g.Kind {
		case gate.CX:
			control, target := g.Q1, g.Q2
			ws := state[target].xor(state[control])
			state[target] = ws
			if _, ok := merges[ws]; !ok {
				merges[ws] = &rotationMerge{location: gi + 1, wire: target}
			}
		case gate.RZ:
			merges[state[g.Q1]].angle += g.Theta
			window[gi-start] = gate.NewIdentity()
		case gate.X:
			ws := state[g.Q1].flip()
			state[g.Q1] = ws
			if _, ok := merges[ws]; !ok {
				merges[ws] = &rotationMerge{location: gi + 1, wire: g.Q1}
			}
		}
	}

	var toInsert []*rotationMerge
	for _, m := range merges {
		if m.angle != 0 {
			toInsert = append(toInsert, m)
		}
	}
	sort.Slice(toInsert, func(i, j int) bool { return toInsert[i].location > toInsert[j].location })
	for _, m := range toInsert {
		window = insertGateAt(window, m.location-start, gate.NewRZ(m.angle, m.wire))
	}

	window = removeIdentitiesFrom(window)
	for gi := start; gi <= end; gi++ {
		if gi-start >= len(window) {
			s.Gates[gi] = gate.NewIdentity()
		} else {
			s.Gates[gi] = window[gi-start]
		}
	}
}

// wireState is an F2 bit-vector over the circuit's wires, one bit per
// qubit packed as an ASCII '0'/'1' string so values compare and hash
// directly as Go map keys.
type wireState string

func newWireState(wire, numQubits int) wireState {
	b := make([]byte, numQubits)
	for i := range b {
		b[i] = '0'
	}
	b[wire] = '1'
	return wireState(b)
}

func (w wireState) xor(other wireState) wireState {
	out := make([]byte, len(w))
	for i := range out {
		if w[i] != other[i] {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return wireState(out)
}

func (w wireState) flip() wireState {
	out := make([]byte, len(w))
	for i := range out {
		if w[i] == '1' {
			out[i] = '0'
		} else {
			out[i] = '1'
		}
	}
	return wireState(out)
}

func insertGateAt(gates []gate.Gate, pos int, g gate.Gate) []gate.Gate {
	gates = append(gates, gate.Gate{})
	copy(gates[pos+1:], gates[pos:])
	gates[pos] = g
	return gates
}

func removeIdentitiesFrom(gates []gate.Gate) []gate.Gate {
	kept := gates[:0]
	for _, g := range gates {
		if g.Kind != gate.Identity {
			kept = append(kept, g)
		}
	}
	return kept
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func dedupInts(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
