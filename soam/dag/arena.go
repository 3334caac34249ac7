package dag

import "github.com/kegliz/soamqc/soam/gate"

// NodeID is stable across passes: once allocated it is never reused,
// even after the node it named is deleted.
type NodeID uint64

// HalfEdge names one endpoint of an edge together with the qubit it
// carries; a node can have at most one outgoing and one incoming edge
// per qubit at any time, since each qubit's history is a single chain.
type HalfEdge struct {
	Qubit int
	Node  NodeID
}

// Edge is a fully-named edge between two nodes on one qubit.
type Edge struct {
	Start, End NodeID
	Qubit      int
}

type gateNode struct {
	gate        gate.Gate
	isBorder    bool
	vectorClock []NodeID
}

// arena is the low-level multigraph: an id-keyed node table plus
// per-qubit adjacency, mirroring the teacher's stable-NodeID map
// idiom (qc/dag/dag.go) generalized from a pure DAG-builder to a
// graph that also supports edge rewiring and node deletion.
type arena struct {
	nextID NodeID
	nodes  map[NodeID]*gateNode
	succ   map[NodeID]map[int]NodeID // node -> qubit -> successor
	pred   map[NodeID]map[int]NodeID // node -> qubit -> predecessor
}

func newArena() *arena {
	return &arena{
		nodes: make(map[NodeID]*gateNode),
		succ:  make(map[NodeID]map[int]NodeID),
		pred:  make(map[NodeID]map[int]NodeID),
	}
}

func (a *arena) addGate(gn gateNode) NodeID {
	id := a.nextID
	a.nextID++
	n := gn
	a.nodes[id] = &n
	a.succ[id] = make(map[int]NodeID)
	a.pred[id] = make(map[int]NodeID)
	return id
}

func (a *arena) removeGate(id NodeID) {
	for q, other := range a.succ[id] {
		delete(a.pred[other], q)
	}
	for q, other := range a.pred[id] {
		delete(a.succ[other], q)
	}
	delete(a.succ, id)
	delete(a.pred, id)
	delete(a.nodes, id)
}

func (a *arena) addEdge(src, dst NodeID, qubit int) {
	a.succ[src][qubit] = dst
	a.pred[dst][qubit] = src
}

func (a *arena) removeEdge(src, dst NodeID, qubit int) {
	if a.succ[src][qubit] == dst {
		delete(a.succ[src], qubit)
	}
	if a.pred[dst][qubit] == src {
		delete(a.pred[dst], qubit)
	}
}

func (a *arena) succNeighbors(id NodeID) []HalfEdge {
	out := make([]HalfEdge, 0, len(a.succ[id]))
	for q, n := range a.succ[id] {
		out = append(out, HalfEdge{Qubit: q, Node: n})
	}
	return out
}

func (a *arena) predNeighbors(id NodeID) []HalfEdge {
	out := make([]HalfEdge, 0, len(a.pred[id]))
	for q, n := range a.pred[id] {
		out = append(out, HalfEdge{Qubit: q, Node: n})
	}
	return out
}

func (a *arena) succNeighborQubit(id NodeID, qubit int) NodeID {
	n, ok := a.succ[id][qubit]
	if !ok {
		panic("dag: no such edge")
	}
	return n
}

func (a *arena) containsEdge(src, dst NodeID) bool {
	for _, n := range a.succ[src] {
		if n == dst {
			return true
		}
	}
	return false
}

func (a *arena) nodeCount() int { return len(a.nodes) }

func (a *arena) edgeCount() int {
	n := 0
	for _, m := range a.succ {
		n += len(m)
	}
	return n
}

// toGateVec returns the non-border gates in a topological order
// consistent with the per-qubit chains (ties broken by ascending
// NodeID, for deterministic output).
func (a *arena) toGateVec() []gate.Gate {
	indeg := make(map[NodeID]int, len(a.nodes))
	for id := range a.nodes {
		indeg[id] = len(a.pred[id])
	}
	var frontier []NodeID
	for id, d := range indeg {
		if d == 0 {
			frontier = append(frontier, id)
		}
	}
	var gates []gate.Gate
	for len(frontier) > 0 {
		minAt := 0
		for i := 1; i < len(frontier); i++ {
			if frontier[i] < frontier[minAt] {
				minAt = i
			}
		}
		id := frontier[minAt]
		frontier[minAt] = frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		gn := a.nodes[id]
		if !gn.isBorder {
			gates = append(gates, gn.gate)
		}
		for _, he := range a.succNeighbors(id) {
			indeg[he.Node]--
			if indeg[he.Node] == 0 {
				frontier = append(frontier, he.Node)
			}
		}
	}
	return gates
}
