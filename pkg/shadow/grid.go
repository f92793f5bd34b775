package shadow

import (
	"math"
	"slices"
)

// nilCell terminates a bucket list.
const nilCell = -1

// cell is one camera depth sample reprojected into light space. Cells live
// in the grid's arena and are chained through next.
type cell struct {
	x, y, z float64
	offset  int32 // camera pixel the sample came from
	next    int32
}

// Grid buckets light-space samples by the integer light pixel they land in.
// Cells are stored in one arena; the first size*size cells are the bucket
// heads and carry no sample. Removing a cell only unlinks it, so the arena
// is reclaimed wholesale by Reset.
type Grid struct {
	size  int
	cells []cell
	tails []int32
}

// NewGrid creates a size x size grid.
func NewGrid(size int) *Grid {
	g := &Grid{
		size:  size,
		tails: make([]int32, size*size),
	}
	g.Reset(0)
	return g
}

// Size returns the number of buckets along each axis.
func (g *Grid) Size() int { return g.size }

// Reset drops every sample and reserves room for samples more. The arena
// grows when needed and is never shrunk.
func (g *Grid) Reset(samples int) {
	heads := g.size * g.size
	g.cells = slices.Grow(g.cells[:0], heads+samples)[:heads]
	for i := range heads {
		g.cells[i] = cell{next: nilCell}
		g.tails[i] = int32(i)
	}
}

// Len returns the number of samples inserted since the last Reset,
// including those unlinked since.
func (g *Grid) Len() int {
	return len(g.cells) - g.size*g.size
}

// Cap returns the number of samples the arena holds without growing.
func (g *Grid) Cap() int {
	return cap(g.cells) - g.size*g.size
}

// Insert appends a sample at light pixel position (x, y) with light depth z.
// Pixel centers sit on integers, so the grid spans [-0.5, size) on each
// axis and the half cell left of or above 0 falls into bucket 0. It reports
// false, storing nothing, when the position is outside the grid. Samples
// sharing a bucket keep insertion order.
func (g *Grid) Insert(x, y, z float64, offset int) bool {
	fx, fy := math.Floor(x), math.Floor(y)
	if !(x >= -0.5 && y >= -0.5 && fx < float64(g.size) && fy < float64(g.size)) {
		return false
	}
	b := int(max(fy, 0))*g.size + int(max(fx, 0))

	idx := int32(len(g.cells))
	g.cells = append(g.cells, cell{x: x, y: y, z: z, offset: int32(offset), next: nilCell})
	g.cells[g.tails[b]].next = idx
	g.tails[b] = idx
	return true
}

// Count returns the number of linked samples in bucket (bx, by).
func (g *Grid) Count(bx, by int) int {
	n := 0
	for c := g.cells[by*g.size+bx].next; c != nilCell; c = g.cells[c].next {
		n++
	}
	return n
}

// sweep calls hit for each linked sample in bucket b and unlinks those for
// which it returns true. Buckets are independent, so sweeps of distinct
// buckets may run concurrently. Insert must not be called again before the
// next Reset, since the tail of a swept bucket may have been unlinked.
func (g *Grid) sweep(b int, hit func(c *cell) bool) {
	prev := int32(b)
	for c := g.cells[prev].next; c != nilCell; c = g.cells[c].next {
		if hit(&g.cells[c]) {
			g.cells[prev].next = g.cells[c].next
		} else {
			prev = c
		}
	}
}
