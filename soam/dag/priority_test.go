package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityOrdering(t *testing.T) {
	p0 := NewPriority()
	p1 := p0.InsertAfter()
	p2 := p1.InsertAfter()

	assert.True(t, p0.Less(p1))
	assert.True(t, p1.Less(p2))
	assert.True(t, p0.Less(p2))
	assert.False(t, p1.Less(p0))
}

func TestPriorityInsertBetween(t *testing.T) {
	p0 := NewPriority()
	p2 := p0.InsertAfter()
	p1 := p0.InsertAfter() // splices in between p0 and p2

	assert.True(t, p0.Less(p1))
	assert.True(t, p1.Less(p2))
}

func TestPriorityForcesRenumberEventually(t *testing.T) {
	// Repeated insertion at the same point exhausts float precision
	// between two labels; renumber() must keep producing a strictly
	// increasing chain rather than collapsing two distinct insertions
	// onto the same label.
	head := NewPriority()
	cur := head
	for i := 0; i < 100; i++ {
		cur = head.InsertAfter()
	}
	_ = cur
	assert.True(t, head.Less(cur))
}

func TestPriorityEqual(t *testing.T) {
	p0 := NewPriority()
	p1 := p0
	assert.True(t, p0.Equal(p1))
	assert.False(t, p0.Equal(p0.InsertAfter()))
}
