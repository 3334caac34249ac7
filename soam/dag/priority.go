package dag

// Priority is an order-maintenance handle: given two priorities drawn
// from insertions into the same list, Less answers "comes before" in
// O(1), and InsertAfter allocates a new priority between this one and
// its current successor in O(1) amortized. This is the list-labeling
// scheme from Bender, Cole, Demaine, Farach-Colton & Zito, "Two
// Simplified Algorithms for Maintaining Order in a List" (ESA 2002):
// nodes carry floating-point labels drawn from a fixed range, and the
// whole list is relabeled with evenly spaced gaps whenever two
// neighbors run out of room between them.
type Priority struct {
	node *priorityNode
}

type priorityNode struct {
	label      float64
	prev, next *priorityNode
}

const relabelGap = 1 << 20

// NewPriority starts a fresh single-element order.
func NewPriority() Priority {
	return Priority{node: &priorityNode{label: 0}}
}

// Less reports whether p comes strictly before other in their shared
// list. Comparing priorities from different lists is meaningless.
func (p Priority) Less(other Priority) bool {
	return p.node.label < other.node.label
}

// Equal reports whether p and other name the same position.
func (p Priority) Equal(other Priority) bool {
	return p.node == other.node
}

// InsertAfter allocates a new priority immediately following p and
// returns it. p itself is unchanged.
func (p Priority) InsertAfter() Priority {
	n := p.node
	if n.next == nil {
		fresh := &priorityNode{label: n.label + relabelGap, prev: n}
		n.next = fresh
		return Priority{node: fresh}
	}
	mid := n.label + (n.next.label-n.label)/2
	if mid == n.label || mid == n.next.label {
		renumber(n)
		mid = n.label + (n.next.label-n.label)/2
	}
	fresh := &priorityNode{label: mid, prev: n, next: n.next}
	n.next.prev = fresh
	n.next = fresh
	return Priority{node: fresh}
}

// renumber walks to the head of the list and reassigns evenly spaced
// labels across the whole chain, restoring room for future inserts.
func renumber(from *priorityNode) {
	head := from
	for head.prev != nil {
		head = head.prev
	}
	label := float64(0)
	for node := head; node != nil; node = node.next {
		node.label = label
		label += relabelGap
	}
}
