// Package layer implements LayeredCircuit: a fixed-width layered view
// of a gate sequence supporting O(1) per-layer access, parallel
// disjoint-index writes, and cost metrics.
package layer

import (
	"context"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
	"golang.org/x/sync/errgroup"
)

// Layout selects how gates are packed into layers.
type Layout int

const (
	// Dense left-packs gates: within a layer no two gates share a
	// qubit, and a gate sits in the lowest-index layer consistent
	// with sequential order.
	Dense Layout = iota
	// One places exactly one gate per layer.
	One
)

// Layer is an unordered multiset of gates occupying one time step.
type Layer struct {
	Gates []gate.Gate
}

// IsEmpty reports whether the layer holds no gates.
func (l Layer) IsEmpty() bool { return len(l.Gates) == 0 }

// Circuit is the layered view of a circuit.
type Circuit struct {
	NumQubits int
	Layers    []Layer
	Layout    Layout
}

// New builds a Circuit from a flat gate list under the given layout.
//
// Dense left-packing: layerIdx[q] tracks the next free layer for
// qubit q; each gate is placed in max(layerIdx[q] : q in qubits(g)),
// then every affected layerIdx[q] advances to that index + 1.
func New(gates []gate.Gate, numQubits int, layout Layout) Circuit {
	switch layout {
	case Dense:
		layerIdx := make([]int, numQubits)
		var layers []Layer
		for _, g := range gates {
			qubits := g.Qubits()
			maxIdx := 0
			for i, q := range qubits {
				if i == 0 || layerIdx[q] > maxIdx {
					maxIdx = layerIdx[q]
				}
			}
			if maxIdx >= len(layers) {
				layers = append(layers, Layer{})
			}
			for _, q := range qubits {
				layerIdx[q] = maxIdx + 1
			}
			layers[maxIdx].Gates = append(layers[maxIdx].Gates, g)
		}
		return Circuit{NumQubits: numQubits, Layers: layers, Layout: Dense}
	default: // One
		layers := make([]Layer, len(gates))
		for i, g := range gates {
			layers[i] = Layer{Gates: []gate.Gate{g}}
		}
		return Circuit{NumQubits: numQubits, Layers: layers, Layout: One}
	}
}

// FromSeq builds a Circuit from a Sequence under the given layout.
func FromSeq(s seq.Sequence, layout Layout) Circuit {
	return New(s.Gates, s.NumQubits, layout)
}

// Len returns the layer count, including empty layers.
func (c Circuit) Len() int { return len(c.Layers) }

// Get returns the sub-circuit over layers [start,end).
func (c Circuit) Get(start, end int) Circuit {
	layers := make([]Layer, end-start)
	copy(layers, c.Layers[start:end])
	return Circuit{NumQubits: c.NumQubits, Layers: layers, Layout: c.Layout}
}

// LayerUpdate names a single disjoint layer write for ParSet.
type LayerUpdate struct {
	Index int
	Gates []gate.Gate
}

// ParSet applies disjoint-index layer rewrites in parallel. The
// scheduler guarantees the indices in updates are pairwise disjoint;
// under that contract this may run unsynchronized concurrent writes.
func (c *Circuit) ParSet(updates []LayerUpdate) error {
	g, _ := errgroup.WithContext(context.Background())
	for _, u := range updates {
		u := u
		g.Go(func() error {
			c.Layers[u.Index] = Layer{Gates: u.Gates}
			return nil
		})
	}
	return g.Wait()
}

// Cost computes the scalar cost under metric m.
func (c Circuit) Cost(m seq.Metric) int {
	switch c.Layout {
	case Dense:
		switch m {
		case seq.Depth:
			return c.Depth()
		case seq.Gate:
			return c.GateCount()
		default: // Mixed
			return 10*c.Depth() + c.GateCount()
		}
	default: // One
		if m == seq.Gate {
			return c.GateCount()
		}
		return 0
	}
}

// ToSeq flattens the layered circuit back into a Sequence.
func (c Circuit) ToSeq() seq.Sequence {
	var gates []gate.Gate
	for _, l := range c.Layers {
		gates = append(gates, l.Gates...)
	}
	return seq.New(gates, c.NumQubits)
}

// IsEmpty reports whether layer id holds no gates.
func (c Circuit) IsEmpty(id int) bool { return c.Layers[id].IsEmpty() }

// GetOne returns the gates in layer id.
func (c Circuit) GetOne(id int) []gate.Gate { return c.Layers[id].Gates }

// GateCount sums the gate count across all layers.
func (c Circuit) GateCount() int {
	n := 0
	for _, l := range c.Layers {
		n += len(l.Gates)
	}
	return n
}

// Depth counts non-empty layers.
func (c Circuit) Depth() int {
	n := 0
	for _, l := range c.Layers {
		if !l.IsEmpty() {
			n++
		}
	}
	return n
}

// GateCountRZ is a weighted gate count: CCZ counts as 13 (its typical
// Clifford+T decomposition size), every other gate as 1.
func (c Circuit) GateCountRZ() int {
	n := 0
	for _, l := range c.Layers {
		for _, g := range l.Gates {
			if g.Kind == gate.CCZ {
				n += 13
			} else {
				n++
			}
		}
	}
	return n
}

// Gateset names a circuit's gate family: Nam, or CliffordT when a
// CCX/CCZ is present (see DetectGateset).
type Gateset int

const (
	Nam Gateset = iota
	CliffordT
)

// DetectGateset scans for CCX/CCZ presence.
func (c Circuit) DetectGateset() Gateset {
	for _, l := range c.Layers {
		for _, g := range l.Gates {
			if g.Kind == gate.CCX || g.Kind == gate.CCZ {
				return CliffordT
			}
		}
	}
	return Nam
}
