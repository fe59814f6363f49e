package sentinel

import "github.com/go-gl/mathgl/mgl32"

// CellState is a position in the DAG UNBURNED -> BURNING -> BURNED ->
// UNBURNED (via recovery). BARRIER is terminal and never ignites.
type CellState int8

const (
	Unburned CellState = iota
	Burning
	Burned
	Barrier
)

// grid is the flat, row-major backing store for every per-cell field. A
// single contiguous array of primitives per field, not an array of structs
// or nested slices, per spec.md §9 and grounded on ca_ecs.go's
// CellularVolumeComponent (_density/_nextDensity/_temp flat float32 arrays
// addressed through idx3).
type grid struct {
	gw, gh int
	cell   float32

	state    []CellState
	fuel     []float32
	moist    []float32
	burnT    []float32
	tIgnited []float32
	regenT   []float32
	tag      []int
	everBurned []bool
}

func newGrid(gw, gh int, cell float32) *grid {
	n := gw * gh
	g := &grid{
		gw: gw, gh: gh, cell: cell,
		state:      make([]CellState, n),
		fuel:       make([]float32, n),
		moist:      make([]float32, n),
		burnT:      make([]float32, n),
		tIgnited:   make([]float32, n),
		regenT:     make([]float32, n),
		tag:        make([]int, n),
		everBurned: make([]bool, n),
	}
	for i := range g.tIgnited {
		g.tIgnited[i] = float32(posInf)
	}
	return g
}

const posInf = 1e30

// idx returns the flat index for (gx, gy), or -1 if out of bounds, mirroring
// ca_ecs.go's idx3 contract of returning -1 for an out-of-range lookup
// instead of panicking.
func (g *grid) idx(gx, gy int) int {
	if gx < 0 || gx >= g.gw || gy < 0 || gy >= g.gh {
		return -1
	}
	return gy*g.gw + gx
}

func (g *grid) gxgy(i int) (int, int) {
	return i % g.gw, i / g.gw
}

func (g *grid) centerPx(gx, gy int) mgl32.Vec2 {
	return mgl32.Vec2{
		float32(gx)*g.cell + 0.5*g.cell,
		float32(gy)*g.cell + 0.5*g.cell,
	}
}

func (g *grid) cellAreaM2(metersPerPx float32) float32 {
	m := g.cell * metersPerPx
	return m * m
}

// discBounds returns the inclusive grid-cell bounding box covering a disc of
// radius r centered at (x, y), clamped to the grid.
func (g *grid) discBounds(x, y, r float32) (gx0, gx1, gy0, gy1 int) {
	c := g.cell
	gx0 = maxInt(0, int((x-r)/c))
	gx1 = minInt(g.gw-1, int((x+r)/c))
	gy0 = maxInt(0, int((y-r)/c))
	gy1 = minInt(g.gh-1, int((y+r)/c))
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
