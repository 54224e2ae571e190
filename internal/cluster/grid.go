// Package cluster groups points into spatial clusters with a
// density-based algorithm over a grid index.
package cluster

import "math"

// gridIndex buckets point indices into square cells of side eps, so a
// neighborhood query only inspects the 3x3 block around a point instead
// of the whole store. Built once per run and discarded; neighbors are
// recomputed by query, never stored as links.
type gridIndex struct {
	eps   float64
	cells map[[2]int][]int
	xs    []float64
	ys    []float64
}

func newGridIndex(xs, ys []float64, eps float64) *gridIndex {
	g := &gridIndex{
		eps:   eps,
		cells: make(map[[2]int][]int, len(xs)),
		xs:    xs,
		ys:    ys,
	}
	for i := range xs {
		g.cells[g.cellOf(xs[i], ys[i])] = append(g.cells[g.cellOf(xs[i], ys[i])], i)
	}
	return g
}

func (g *gridIndex) cellOf(x, y float64) [2]int {
	if g.eps == 0 {
		// Degenerate radius: only exactly co-located points are neighbors,
		// so bucket by coordinate bits. Adding zero collapses -0 onto +0,
		// which are equal and must share a cell.
		return [2]int{int(math.Float64bits(x+0) >> 32), int(math.Float64bits(y+0) >> 32)}
	}
	return [2]int{int(math.Floor(x / g.eps)), int(math.Floor(y / g.eps))}
}

// neighbors returns the indices within eps of point i, itself included,
// using planar Euclidean distance on (lon, lat). The results follow
// cell-then-insertion order, which is stable for a fixed store.
func (g *gridIndex) neighbors(i int) []int {
	x, y := g.xs[i], g.ys[i]
	eps2 := g.eps * g.eps

	if g.eps == 0 {
		var out []int
		for _, j := range g.cells[g.cellOf(x, y)] {
			if g.xs[j] == x && g.ys[j] == y {
				out = append(out, j)
			}
		}
		return out
	}

	center := g.cellOf(x, y)
	var out []int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, j := range g.cells[[2]int{center[0] + dx, center[1] + dy}] {
				ddx, ddy := g.xs[j]-x, g.ys[j]-y
				if ddx*ddx+ddy*ddy <= eps2 {
					out = append(out, j)
				}
			}
		}
	}
	return out
}
