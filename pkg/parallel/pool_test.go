package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeCoversEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n       int
	}{
		{"single worker", 1, 100},
		{"more items than workers", 4, 1003},
		{"fewer items than workers", 8, 3},
		{"one item", 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.workers)
			defer p.Close()

			hits := make([]int32, tt.n)
			p.Range(tt.n, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				require.EqualValues(t, 1, h, "index %d", i)
			}
		})
	}
}

func TestRangeChunksAreContiguous(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var calls atomic.Int32
	var total atomic.Int64
	p.Range(10, func(start, end int) {
		calls.Add(1)
		total.Add(int64(end - start))
		assert.Less(t, start, end)
	})
	assert.LessOrEqual(t, calls.Load(), int32(4))
	assert.EqualValues(t, 10, total.Load())
}

func TestNilPoolRunsInline(t *testing.T) {
	var p *Pool
	assert.Equal(t, 1, p.Workers())

	var got [2]int
	p.Range(7, func(start, end int) { got = [2]int{start, end} })
	assert.Equal(t, [2]int{0, 7}, got)

	p.Close()
}

func TestRangeAfterClose(t *testing.T) {
	p := NewPool(3)
	p.Close()
	p.Close()

	sum := 0
	p.Range(5, func(start, end int) {
		for i := start; i < end; i++ {
			sum += i
		}
	})
	assert.Equal(t, 10, sum)
}

func TestZeroWorkersUsesGOMAXPROCS(t *testing.T) {
	p := NewPool(0)
	defer p.Close()
	assert.GreaterOrEqual(t, p.Workers(), 1)
}

func BenchmarkRange(b *testing.B) {
	p := NewPool(0)
	defer p.Close()
	data := make([]float64, 1<<16)

	for b.Loop() {
		p.Range(len(data), func(start, end int) {
			for i := start; i < end; i++ {
				data[i] = data[i]*0.5 + 1
			}
		})
	}
}

// Phases that need a nested split run their ranges one after another from
// the caller; separate goroutines may share the pool.
func TestRangeFromSeveralCallers(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	const callers, n = 8, 500
	var total atomic.Int64
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				p.Range(n, func(start, end int) {
					total.Add(int64(end - start))
				})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(callers*10*n), total.Load())
}
