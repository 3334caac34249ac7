package ftree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	lengths := []int{1, 6, 3, 9, 2}
	ft := New(lengths)
	assert.Equal(t, []int{1, 7, 3, 19, 2}, ft.inner)
}

func TestPrefixSum(t *testing.T) {
	ft := New([]int{1, 6, 3, 9, 2})
	cases := map[int]int{0: 0, 1: 1, 2: 7, 3: 10, 4: 19, 5: 21}
	for idx, want := range cases {
		assert.Equal(t, want, ft.PrefixSum(idx), "idx=%d", idx)
	}
}

func TestAddAt(t *testing.T) {
	ft := New([]int{1, 6, 3, 9, 2})
	ft.AddAt(0, 1)
	cases := map[int]int{0: 2, 1: 8, 2: 3, 3: 20, 4: 2}
	for idx, want := range cases {
		assert.Equal(t, want, ft.inner[idx], "idx=%d", idx)
	}
}

func TestIndexOf(t *testing.T) {
	ft := New([]int{1, 6, 3, 9, 2})
	cases := map[int]int{0: 0, 6: 1, 9: 2, 18: 3, 20: 4}
	for sum, want := range cases {
		assert.Equal(t, want, ft.IndexOf(sum), "sum=%d", sum)
	}
}

func TestAddAtBatchMatchesSequential(t *testing.T) {
	lengths := make([]int, 5000)
	for i := range lengths {
		lengths[i] = 1
	}
	cases := []Delta{
		{0, -1}, {1, -1}, {2, -1}, {3, -1}, {4, -1}, {5, -1}, {6, 1}, {4999, -1},
	}

	batch := New(lengths)
	batch.AddAtBatch(append([]Delta(nil), cases...))

	sequential := New(lengths)
	for _, d := range cases {
		sequential.AddAt(d.Index, d.Value)
	}

	assert.Equal(t, sequential.inner, batch.inner)
}

func TestAddAtBatchCoalescesSameKeyBeforeWrite(t *testing.T) {
	ft := New([]int{0, 0, 0, 0})
	// Two deltas target the same cell within one batch; if coalescing
	// happened after (or not at all) one of these would be lost.
	ft.AddAtBatch([]Delta{{0, 1}, {0, 1}})
	assert.Equal(t, 2, ft.PrefixSum(1))
}

func TestZeroHandlingRegression(t *testing.T) {
	// Regression guard for the all-zero-array infinite loop bug the
	// original implementation left commented out: IndexOf must
	// terminate promptly even when no index satisfies the query.
	ft := New([]int{0})
	done := make(chan int, 1)
	go func() { done <- ft.IndexOf(1) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("IndexOf did not terminate on an all-zero array")
	}
}

func TestIndexOfPrefixSumRoundTrip(t *testing.T) {
	ft := New([]int{0, 1, 0, 1, 1, 0, 1})
	occupied := []int{1, 3, 4, 6}
	for _, i := range occupied {
		got := ft.IndexOf(ft.PrefixSum(i+1) - 1)
		require.Equal(t, i, got)
	}
}
