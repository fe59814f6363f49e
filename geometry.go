package sentinel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Quadrant identifies one of the four screen-space sectors the fleet
// partitions the world into.
type Quadrant int

const (
	QuadTL Quadrant = iota
	QuadTR
	QuadBL
	QuadBR
)

// Rect is an axis-aligned rectangle in world pixels, playing the role
// pygame.Rect plays in the original core/drone.py's quadrant partitioning.
type Rect struct {
	X, Y, W, H float32
}

func (r Rect) Left() float32   { return r.X }
func (r Rect) Right() float32  { return r.X + r.W }
func (r Rect) Top() float32    { return r.Y }
func (r Rect) Bottom() float32 { return r.Y + r.H }

// Contains reports whether pt lies inside r (inclusive).
func (r Rect) Contains(pt mgl32.Vec2) bool {
	return pt.X() >= r.Left() && pt.X() <= r.Right() && pt.Y() >= r.Top() && pt.Y() <= r.Bottom()
}

// Inset shrinks r on all sides by m, matching the "safe rectangle" idea in
// spec.md §4.4 (a sector inset by the footprint radius so the disc stays
// fully inside).
func (r Rect) Inset(m float32) Rect {
	w := r.W - 2*m
	h := r.H - 2*m
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X + m, Y: r.Y + m, W: w, H: h}
}

// Clamp returns the nearest point to pt that lies inside r.
func (r Rect) Clamp(pt mgl32.Vec2) mgl32.Vec2 {
	x := clampf(pt.X(), r.Left(), r.Right())
	y := clampf(pt.Y(), r.Top(), r.Bottom())
	return mgl32.Vec2{x, y}
}

func clampf(v, lo, hi float32) float32 {
	if lo > hi {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// quadrantRects partitions the screen into four rectangles by the screen
// midpoint, the way core/drone.py builds its TL/TR/BL/BR pygame.Rects.
func quadrantRects(screenW, screenH float32) [4]Rect {
	hw, hh := screenW/2, screenH/2
	return [4]Rect{
		QuadTL: {X: 0, Y: 0, W: hw, H: hh},
		QuadTR: {X: hw, Y: 0, W: hw, H: hh},
		QuadBL: {X: 0, Y: hh, W: hw, H: hh},
		QuadBR: {X: hw, Y: hh, W: hw, H: hh},
	}
}

// moveTowards steps currentPos toward targetPos by at most maxStep, landing
// exactly on the target rather than overshooting it. Adapted from the
// teacher's 3D ai_nav_utils.go SteerSeek, collapsed to a direct step since no
// path planning is needed: sensors move straight toward belief-driven
// targets inside their own sector, never through obstacles.
func moveTowards(currentPos, targetPos mgl32.Vec2, maxStep float32) mgl32.Vec2 {
	diff := targetPos.Sub(currentPos)
	dist := diff.Len()
	if dist <= maxStep || dist == 0 {
		return targetPos
	}
	return currentPos.Add(diff.Normalize().Mul(maxStep))
}

func distSq(a, b mgl32.Vec2) float32 {
	d := a.Sub(b)
	return d.X()*d.X() + d.Y()*d.Y()
}

func vecFromAngleDeg(deg float32) mgl32.Vec2 {
	r := float64(deg) * math.Pi / 180.0
	return mgl32.Vec2{float32(math.Cos(r)), float32(math.Sin(r))}
}
