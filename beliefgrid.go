package sentinel

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// beliefGrid is a per-sensor, flat row-major probability field over the
// sensor's safe rectangle, always summing to 1. Flat rather than nested,
// per spec.md §9, so the 5-point diffusion stencil is a stride computation
// instead of a slice-of-slices walk.
type beliefGrid struct {
	rect   Rect
	cellPx float32
	nx, ny int
	mass   []float32
}

func newBeliefGrid(rect Rect, cellPx float32) *beliefGrid {
	nx := maxInt(1, int(rect.W/cellPx))
	ny := maxInt(1, int(rect.H/cellPx))
	bg := &beliefGrid{rect: rect, cellPx: cellPx, nx: nx, ny: ny}
	bg.mass = make([]float32, nx*ny)
	bg.resetUniform()
	return bg
}

func (bg *beliefGrid) idx(i, j int) int { return j*bg.nx + i }

func (bg *beliefGrid) resetUniform() {
	n := len(bg.mass)
	if n == 0 {
		return
	}
	u := float32(1) / float32(n)
	for k := range bg.mass {
		bg.mass[k] = u
	}
}

func (bg *beliefGrid) cellCenter(i, j int) mgl32.Vec2 {
	return mgl32.Vec2{
		bg.rect.X + (float32(i)+0.5)*bg.cellPx,
		bg.rect.Y + (float32(j)+0.5)*bg.cellPx,
	}
}

func (bg *beliefGrid) sum() float32 {
	var s float32
	for _, v := range bg.mass {
		s += v
	}
	return s
}

func (bg *beliefGrid) renormalizeOrReset() {
	s := bg.sum()
	if s <= 1e-12 {
		bg.resetUniform()
		return
	}
	inv := 1 / s
	for k := range bg.mass {
		bg.mass[k] *= inv
	}
}

// observationUpdate discounts belief mass inside the disc at (x, y) of
// radius r by (1-detectStrength), renormalizes (or resets to uniform on
// numeric collapse), and diffuses with a 5-point stencil when d > 0.
func (bg *beliefGrid) observationUpdate(x, y, r, detectStrength, diffusion float32) {
	center := mgl32.Vec2{x, y}
	r2 := r * r
	keep := 1 - detectStrength
	for j := 0; j < bg.ny; j++ {
		for i := 0; i < bg.nx; i++ {
			c := bg.cellCenter(i, j)
			if distSq(c, center) <= r2 {
				bg.mass[bg.idx(i, j)] *= keep
			}
		}
	}
	bg.renormalizeOrReset()

	if diffusion > 0 {
		bg.diffuse(diffusion)
		bg.renormalizeOrReset()
	}
}

func (bg *beliefGrid) diffuse(d float32) {
	next := make([]float32, len(bg.mass))
	for j := 0; j < bg.ny; j++ {
		for i := 0; i < bg.nx; i++ {
			self := bg.mass[bg.idx(i, j)]
			sum := self
			count := float32(1)
			for _, off := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				ni, nj := i+off[0], j+off[1]
				if ni < 0 || ni >= bg.nx || nj < 0 || nj >= bg.ny {
					continue
				}
				sum += bg.mass[bg.idx(ni, nj)]
				count++
			}
			mean := sum / count
			next[bg.idx(i, j)] = (1-d)*self + d*mean
		}
	}
	bg.mass = next
}

// gainInDisc sums the belief mass of every cell whose center lies inside the
// disc at (x, y) of radius r.
func (bg *beliefGrid) gainInDisc(x, y, r float32) float32 {
	center := mgl32.Vec2{x, y}
	r2 := r * r
	var gain float32
	for j := 0; j < bg.ny; j++ {
		for i := 0; i < bg.nx; i++ {
			c := bg.cellCenter(i, j)
			if distSq(c, center) <= r2 {
				gain += bg.mass[bg.idx(i, j)]
			}
		}
	}
	return gain
}

// sampleTarget samples K uniformly random points inside the safe rectangle
// and returns the one maximizing gain(pt) - costPerPx*dist(pt, current). A
// degenerate (1-wide or 1-tall) rectangle always targets its center.
func (bg *beliefGrid) sampleTarget(current mgl32.Vec2, footprintR, costPerPx float32, k int, rng *rand.Rand) mgl32.Vec2 {
	// Degenerate per spec.md §4.3 means the safe rectangle itself is <=1px
	// wide or tall, not that it happens to tile into a single belief cell
	// (a rect narrower than 2*mc_cell_px is still a real sector to sample).
	if bg.rect.W <= 1 || bg.rect.H <= 1 {
		return mgl32.Vec2{bg.rect.X + bg.rect.W/2, bg.rect.Y + bg.rect.H/2}
	}

	var best mgl32.Vec2
	bestScore := float32(math32NegInf)
	for n := 0; n < k; n++ {
		pt := mgl32.Vec2{
			bg.rect.X + rng.Float32()*bg.rect.W,
			bg.rect.Y + rng.Float32()*bg.rect.H,
		}
		gain := bg.gainInDisc(pt.X(), pt.Y(), footprintR)
		cost := costPerPx * current.Sub(pt).Len()
		score := gain - cost
		if score > bestScore {
			bestScore = score
			best = pt
		}
	}
	return best
}

const math32NegInf = -1e30
