package shadow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridInsert(t *testing.T) {
	g := NewGrid(4)

	assert.True(t, g.Insert(0, 0, 0.5, 1))
	assert.True(t, g.Insert(3.99, 3.99, 0.5, 2))
	assert.True(t, g.Insert(1.5, 2.25, 0.5, 3))
	assert.True(t, g.Insert(1.1, 2.9, 0.5, 4))

	tests := []struct {
		name string
		x, y float64
	}{
		{"left", -0.51, 1},
		{"top", 1, -0.6},
		{"right", 4, 1},
		{"bottom", 1, 4},
		{"nan", math.NaN(), 1},
		{"inf", math.Inf(1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, g.Insert(tt.x, tt.y, 0.5, 9))
		})
	}

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 1, g.Count(0, 0))
	assert.Equal(t, 1, g.Count(3, 3))
	assert.Equal(t, 2, g.Count(1, 2))
	assert.Equal(t, 0, g.Count(2, 2))
}

func TestGridInsertEdgeHalfCell(t *testing.T) {
	g := NewGrid(4)

	tests := []struct {
		name   string
		x, y   float64
		bx, by int
	}{
		{"left half cell", -0.5, 1, 0, 1},
		{"top half cell", 2, -0.3, 2, 0},
		{"corner", -0.49, -0.01, 0, 0},
		{"right half cell", 3.5, 3.2, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.Count(tt.bx, tt.by)
			require.True(t, g.Insert(tt.x, tt.y, 0.5, 7))
			assert.Equal(t, before+1, g.Count(tt.bx, tt.by))
		})
	}
	assert.Equal(t, len(tests), g.Len())
}

func TestGridSweepUnlinks(t *testing.T) {
	g := NewGrid(2)
	for i := range 5 {
		require.True(t, g.Insert(0.5, 0.5, float64(i), i))
	}

	var order []int32
	g.sweep(0, func(c *cell) bool {
		order = append(order, c.offset)
		return c.offset%2 == 0
	})
	assert.Equal(t, []int32{0, 1, 2, 3, 4}, order, "insertion order is kept")
	assert.Equal(t, 2, g.Count(0, 0))

	order = order[:0]
	g.sweep(0, func(c *cell) bool {
		order = append(order, c.offset)
		return false
	})
	assert.Equal(t, []int32{1, 3}, order)

	g.sweep(0, func(*cell) bool { return true })
	assert.Equal(t, 0, g.Count(0, 0))
}

func TestGridResetKeepsCapacity(t *testing.T) {
	g := NewGrid(8)
	g.Reset(1000)
	capacity := g.Cap()
	assert.GreaterOrEqual(t, capacity, 1000)

	for i := range 1000 {
		g.Insert(float64(i%8), float64(i/8%8), 0, i)
	}
	assert.Equal(t, capacity, g.Cap(), "reserved samples fit without growing")

	g.Reset(10)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, capacity, g.Cap(), "never shrinks")
	for by := range 8 {
		for bx := range 8 {
			require.Zero(t, g.Count(bx, by))
		}
	}

	g.Reset(5000)
	assert.GreaterOrEqual(t, g.Cap(), 5000)
}

func BenchmarkGridInsert(b *testing.B) {
	g := NewGrid(DefaultSize)
	const n = 640 * 480
	for b.Loop() {
		g.Reset(n)
		for i := range n {
			g.Insert(float64(i%DefaultSize)+0.5, float64(i/DefaultSize%DefaultSize)+0.5, 0.5, i)
		}
	}
}
