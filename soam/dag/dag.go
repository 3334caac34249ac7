// Package dag implements CommutationDAG: a gate-level dependency
// graph with O(1) priority-ordered insert/delete and the convexify
// operation SOAM uses to carve a replaceable window out of the
// circuit without disturbing its per-qubit operation order.
package dag

import (
	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/layer"
	"github.com/kegliz/soamqc/soam/seq"
)

// QubitPred names, for one qubit a new gate touches, the node
// currently occupying that qubit's frontier (its most recent op).
type QubitPred struct {
	Qubit int
	Pred  NodeID
}

type priorityKey struct {
	Node  NodeID
	Qubit int
}

// DAG is a commutation DAG over a fixed number of qubits, bracketed
// by a start and a final sentinel node so every real gate always has
// a predecessor and a successor on each qubit it touches.
type DAG struct {
	NumQubits int

	arena     *arena
	StartNode NodeID
	FinalNode NodeID

	priorities map[priorityKey]Priority
}

// NewFromSeq builds a DAG from a flat gate sequence.
func NewFromSeq(s seq.Sequence) *DAG { return New(s.Gates, s.NumQubits) }

// New builds a DAG by inserting gates one at a time in sequence
// order, each threaded onto the current per-qubit frontier.
func New(gates []gate.Gate, numQubits int) *DAG {
	a := newArena()

	startVC := make([]NodeID, numQubits)
	startNode := a.addGate(gateNode{isBorder: true})
	for q := range startVC {
		startVC[q] = startNode
	}
	a.nodes[startNode].vectorClock = startVC

	finalVC := make([]NodeID, numQubits)
	finalNode := a.addGate(gateNode{isBorder: true})
	for q := range finalVC {
		finalVC[q] = finalNode
	}
	a.nodes[finalNode].vectorClock = finalVC

	for q := 0; q < numQubits; q++ {
		a.addEdge(startNode, finalNode, q)
	}

	priorities := make(map[priorityKey]Priority, numQubits*2)
	for q := 0; q < numQubits; q++ {
		p := NewPriority()
		priorities[priorityKey{startNode, q}] = p
		priorities[priorityKey{finalNode, q}] = p.InsertAfter()
	}

	d := &DAG{
		NumQubits:  numQubits,
		arena:      a,
		StartNode:  startNode,
		FinalNode:  finalNode,
		priorities: priorities,
	}

	frontier := make([]NodeID, numQubits) // zero value == startNode (node 0)
	for _, g := range gates {
		qubits := g.Qubits()
		indices := make([]QubitPred, len(qubits))
		for i, q := range qubits {
			indices[i] = QubitPred{Qubit: q, Pred: frontier[q]}
		}
		newIdx := d.InsertAt(indices, g)
		for _, q := range qubits {
			frontier[q] = newIdx
		}
	}
	return d
}

func (d *DAG) getPriority(idx NodeID, qubit int) Priority {
	vc := d.arena.nodes[idx].vectorClock[qubit]
	return d.priorities[priorityKey{vc, qubit}]
}

// getNewVectorClock computes idx's vector clock from its current
// predecessors and, for every qubit idx itself touches, allocates a
// fresh priority immediately after the inherited one.
func (d *DAG) getNewVectorClock(idx NodeID) []NodeID {
	predIdx := predNodeList(d.arena, idx)
	newVC := make([]NodeID, d.NumQubits)
	for q := 0; q < d.NumQubits; q++ {
		latest := predIdx[0]
		for _, p := range predIdx {
			if d.getPriority(latest, q).Less(d.getPriority(p, q)) {
				latest = p
			}
		}
		newVC[q] = d.arena.nodes[latest].vectorClock[q]
	}
	for _, q := range d.arena.nodes[idx].gate.Qubits() {
		this := d.getPriority(newVC[q], q)
		d.priorities[priorityKey{idx, q}] = this.InsertAfter()
		newVC[q] = idx
	}
	return newVC
}

// updateVectorClock recomputes idx's vector clock from its current
// predecessors without allocating new priorities; used during the
// BFS fix-up pass after an insert or delete.
func (d *DAG) updateVectorClock(idx NodeID) []NodeID {
	if idx == d.StartNode || idx == d.FinalNode {
		return append([]NodeID(nil), d.arena.nodes[idx].vectorClock...)
	}
	predIdx := predNodeList(d.arena, idx)
	newVC := make([]NodeID, d.NumQubits)
	for q := 0; q < d.NumQubits; q++ {
		latest := predIdx[0]
		for _, p := range predIdx {
			if d.getPriority(latest, q).Less(d.getPriority(p, q)) {
				latest = p
			}
		}
		newVC[q] = d.arena.nodes[latest].vectorClock[q]
	}
	for _, q := range d.arena.nodes[idx].gate.Qubits() {
		newVC[q] = idx
	}
	return newVC
}

func predNodeList(a *arena, id NodeID) []NodeID {
	halves := a.predNeighbors(id)
	out := make([]NodeID, len(halves))
	for i, he := range halves {
		out[i] = he.Node
	}
	return out
}

func vectorClockEqual(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// InsertAt splices g into the DAG, wired onto the named predecessor
// for each qubit it touches, and returns its new NodeID. indices must
// name every qubit g acts on.
func (d *DAG) InsertAt(indices []QubitPred, g gate.Gate) NodeID {
	newIdx := d.arena.addGate(gateNode{gate: g})

	for _, ip := range indices {
		succIdx := d.arena.succNeighborQubit(ip.Pred, ip.Qubit)
		d.arena.removeEdge(ip.Pred, succIdx, ip.Qubit)
		d.arena.addEdge(ip.Pred, newIdx, ip.Qubit)
		d.arena.addEdge(newIdx, succIdx, ip.Qubit)
	}

	d.arena.nodes[newIdx].vectorClock = d.getNewVectorClock(newIdx)

	frontier := map[NodeID]struct{}{}
	for _, he := range d.arena.succNeighbors(newIdx) {
		frontier[he.Node] = struct{}{}
	}
	d.propagateVectorClocks(frontier)

	return newIdx
}

// DeleteAt removes idx, rewiring each of its predecessors directly to
// the corresponding successor on the same qubit.
func (d *DAG) DeleteAt(idx NodeID) {
	qubits := append([]int(nil), d.arena.nodes[idx].gate.Qubits()...)
	predN := d.arena.predNeighbors(idx)
	succN := d.arena.succNeighbors(idx)

	type pair struct {
		Qubit      int
		Pred, Succ NodeID
	}
	pairs := make([]pair, 0, len(qubits))
	for _, q := range qubits {
		var predIdx, succIdx NodeID
		for _, he := range predN {
			if he.Qubit == q {
				predIdx = he.Node
			}
		}
		for _, he := range succN {
			if he.Qubit == q {
				succIdx = he.Node
			}
		}
		pairs = append(pairs, pair{q, predIdx, succIdx})
	}

	d.arena.removeGate(idx)

	frontier := map[NodeID]struct{}{}
	for _, p := range pairs {
		d.arena.addEdge(p.Pred, p.Succ, p.Qubit)
		frontier[p.Succ] = struct{}{}
	}
	d.propagateVectorClocks(frontier)

	for _, q := range qubits {
		delete(d.priorities, priorityKey{idx, q})
	}
}

// propagateVectorClocks runs the BFS fix-up: recompute each frontier
// node's clock, and whenever it changes, add its successors to the
// frontier too. Terminates once no node's clock changes, so a single
// insert/delete only disturbs the nodes actually affected.
func (d *DAG) propagateVectorClocks(frontier map[NodeID]struct{}) {
	for len(frontier) > 0 {
		var idx NodeID
		for k := range frontier {
			idx = k
			break
		}
		delete(frontier, idx)

		newVC := d.updateVectorClock(idx)
		oldVC := d.arena.nodes[idx].vectorClock
		if !vectorClockEqual(newVC, oldVC) {
			d.arena.nodes[idx].vectorClock = newVC
			for _, he := range d.arena.succNeighbors(idx) {
				frontier[he.Node] = struct{}{}
			}
		}
	}
}

func containsNode(indices []NodeID, id NodeID) bool {
	for _, i := range indices {
		if i == id {
			return true
		}
	}
	return false
}

// MakeConvex grows indices one node at a time until the named set is
// convex: no external path re-enters the set after leaving it.
func (d *DAG) MakeConvex(indices []NodeID) []NodeID {
	for {
		next := d.makeConvexAddOne(indices)
		if len(next) == len(indices) {
			return next
		}
		indices = next
	}
}

// makeConvexAddOne adds at most one node: the target of the first
// outgoing edge that shares a qubit with an incoming edge whose
// target (a node of the set) has strictly higher priority on that
// qubit than the outgoing edge's source — i.e. a path leaves and
// later re-enters the set.
func (d *DAG) makeConvexAddOne(indices []NodeID) []NodeID {
	var incoming, outgoing []Edge
	for _, idx := range indices {
		for _, he := range d.arena.predNeighbors(idx) {
			if containsNode(indices, he.Node) {
				continue
			}
			incoming = append(incoming, Edge{Start: he.Node, End: idx, Qubit: he.Qubit})
		}
	}
	for _, idx := range indices {
		for _, he := range d.arena.succNeighbors(idx) {
			if containsNode(indices, he.Node) {
				continue
			}
			outgoing = append(outgoing, Edge{Start: idx, End: he.Node, Qubit: he.Qubit})
		}
	}

	for _, out := range outgoing {
		for _, in := range incoming {
			if out.Qubit == in.Qubit &&
				d.priorities[priorityKey{out.Start, out.Qubit}].Less(d.priorities[priorityKey{in.End, in.Qubit}]) {
				return append(append([]NodeID(nil), indices...), out.End)
			}
		}
	}
	return indices
}

// GetSubgraph returns the gates named by indices, in an order
// consistent with the edges strictly internal to the set.
func (d *DAG) GetSubgraph(indices []NodeID) []gate.Gate {
	sub := newArena()
	mapping := make(map[NodeID]NodeID, len(indices))
	for _, idx := range indices {
		mapping[idx] = sub.addGate(gateNode{gate: d.arena.nodes[idx].gate})
	}
	for _, idx := range indices {
		for _, he := range d.arena.succNeighbors(idx) {
			if containsNode(indices, he.Node) {
				sub.addEdge(mapping[idx], mapping[he.Node], he.Qubit)
			}
		}
	}
	return sub.toGateVec()
}

// GetFrontier returns, for each qubit with an edge entering indices
// from outside, the external predecessor node on that qubit.
func (d *DAG) GetFrontier(indices []NodeID) map[int]NodeID {
	frontier := make(map[int]NodeID)
	for _, idx := range indices {
		for _, he := range d.arena.predNeighbors(idx) {
			if containsNode(indices, he.Node) {
				continue
			}
			frontier[he.Qubit] = he.Node
		}
	}
	return frontier
}

// ReplaceGatesConvex deletes the (convex) nodes named by indices and
// re-inserts newGates in their place, threading each through the
// frontier captured before any deletion happens.
func (d *DAG) ReplaceGatesConvex(indices []NodeID, newGates []gate.Gate) []NodeID {
	frontier := d.GetFrontier(indices)
	for _, idx := range indices {
		d.DeleteAt(idx)
	}

	newIndices := make([]NodeID, 0, len(newGates))
	for _, g := range newGates {
		qubits := g.Qubits()
		indices := make([]QubitPred, len(qubits))
		for i, q := range qubits {
			indices[i] = QubitPred{Qubit: q, Pred: frontier[q]}
		}
		newIdx := d.InsertAt(indices, g)
		for _, q := range qubits {
			frontier[q] = newIdx
		}
		newIndices = append(newIndices, newIdx)
	}
	return newIndices
}

// Depth computes the per-qubit critical-path depth over a topological
// linearization of the DAG.
func (d *DAG) Depth() int {
	gates := d.arena.toGateVec()
	frontier := make([]int, d.NumQubits)
	for _, g := range gates {
		qubits := g.Qubits()
		maxDepth := 0
		for i, q := range qubits {
			if i == 0 || frontier[q] > maxDepth {
				maxDepth = frontier[q]
			}
		}
		for _, q := range qubits {
			frontier[q] = maxDepth + 1
		}
	}
	maxv := 0
	for _, f := range frontier {
		if f > maxv {
			maxv = f
		}
	}
	return maxv
}

// GateCount returns the number of real (non-sentinel) gates.
func (d *DAG) GateCount() int { return d.arena.nodeCount() - 2 }

// Cost computes the scalar cost under metric m. Unlike LayeredCircuit's
// integer Mixed cost, the DAG's Mixed cost is a float blend
// (depth + 0.1*gate_count): it is an informational/secondary figure,
// used for debugging and tests rather than as SoamScheduler's
// acceptance criterion, which always runs against LayeredCircuit.Cost.
func (d *DAG) Cost(m seq.Metric) float64 {
	switch m {
	case seq.Depth:
		return float64(d.Depth())
	case seq.Gate:
		return float64(d.GateCount())
	default: // Mixed
		return float64(d.Depth()) + 0.1*float64(d.GateCount())
	}
}

// Gateset reports Nam unless some real gate is a CCX/CCZ.
func (d *DAG) Gateset() layer.Gateset {
	for _, gn := range d.arena.nodes {
		if gn.isBorder {
			continue
		}
		if gn.gate.Kind == gate.CCX || gn.gate.Kind == gate.CCZ {
			return layer.CliffordT
		}
	}
	return layer.Nam
}

// ToSeq flattens the DAG back into a Sequence in topological order.
func (d *DAG) ToSeq() seq.Sequence {
	return seq.New(d.arena.toGateVec(), d.NumQubits)
}

// NodeCount and EdgeCount expose the arena's raw counts, used by
// tests that cross-check against the Rust port's expected values.
func (d *DAG) NodeCount() int { return d.arena.nodeCount() }
func (d *DAG) EdgeCount() int { return d.arena.edgeCount() }

// ContainsEdge reports whether an edge from src to dst exists on any
// qubit.
func (d *DAG) ContainsEdge(src, dst NodeID) bool { return d.arena.containsEdge(src, dst) }
