package sentinel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBeliefGrid_SumsToOneAfterConstruction(t *testing.T) {
	bg := newBeliefGrid(Rect{X: 0, Y: 0, W: 160, H: 160}, 16)
	if s := bg.sum(); math.Abs(float64(s)-1) > 1e-6 {
		t.Fatalf("expected initial mass to sum to 1, got %v", s)
	}
}

// Invariant 1: sum(b) == 1 after every update, or uniform. The belief mass
// is stored as float32, so the sum is checked to within 1e-6.
func TestBeliefGrid_SumInvariantAfterUpdates(t *testing.T) {
	bg := newBeliefGrid(Rect{X: 0, Y: 0, W: 160, H: 160}, 16)
	for i := 0; i < 50; i++ {
		x := float32(10 + 5*i%150)
		y := float32(20 + 7*i%150)
		bg.observationUpdate(x, y, 20, 0.7, 0.1)
		if s := bg.sum(); math.Abs(float64(s)-1) > 1e-6 {
			t.Fatalf("tick %d: mass sum drifted to %v", i, s)
		}
	}
}

func TestBeliefGrid_CollapseResetsToUniform(t *testing.T) {
	bg := newBeliefGrid(Rect{X: 0, Y: 0, W: 32, H: 32}, 16) // 2x2 grid
	// Discount every cell in the grid to zero by covering it with a huge
	// detect_strength=1 disc.
	bg.observationUpdate(16, 16, 1000, 1.0, 0)
	if s := bg.sum(); math.Abs(float64(s)-1) > 1e-6 {
		t.Fatalf("expected renormalized/reset mass to sum to 1, got %v", s)
	}
	u := bg.mass[0]
	for _, v := range bg.mass {
		if v != u {
			t.Fatalf("expected uniform collapse reset, got non-uniform mass %v", bg.mass)
		}
	}
}

// Round-trip property: two observation updates at the same position with
// diffusion=0 and strength s are equivalent to one update with strength
// 1-(1-s)^2, up to numerical tolerance.
func TestBeliefGrid_DoubleUpdateEquivalence(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 160, H: 160}
	s := float32(0.4)
	combined := 1 - (1-s)*(1-s)

	bgTwice := newBeliefGrid(rect, 16)
	bgTwice.observationUpdate(80, 80, 30, s, 0)
	bgTwice.observationUpdate(80, 80, 30, s, 0)

	bgOnce := newBeliefGrid(rect, 16)
	bgOnce.observationUpdate(80, 80, 30, combined, 0)

	for i := range bgTwice.mass {
		if math.Abs(float64(bgTwice.mass[i]-bgOnce.mass[i])) > 1e-4 {
			t.Fatalf("cell %d diverged: twice=%v once=%v", i, bgTwice.mass[i], bgOnce.mass[i])
		}
	}
}

func TestBeliefGrid_DegenerateRectTargetsCenter(t *testing.T) {
	rect := Rect{X: 10, Y: 10, W: 1, H: 1}
	bg := newBeliefGrid(rect, 16)
	rng := rand.New(rand.NewSource(1))
	target := bg.sampleTarget(mgl32.Vec2{0, 0}, 10, 0.001, 20, rng)
	want := mgl32.Vec2{rect.X + rect.W/2, rect.Y + rect.H/2}
	if target != want {
		t.Errorf("expected degenerate rect to target center %v, got %v", want, target)
	}
}

func TestBeliefGrid_SampleTargetPrefersHigherMass(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 160, H: 160}
	bg := newBeliefGrid(rect, 16)
	// Discount a 40px disc on the left side (centered at x=20) so the right
	// half holds more of the mass.
	bg.observationUpdate(20, 80, 40, 0.95, 0)

	rng := rand.New(rand.NewSource(42))
	var rightCount, leftCount int
	for i := 0; i < 30; i++ {
		target := bg.sampleTarget(mgl32.Vec2{80, 80}, 10, 0.0001, 80, rng)
		if target.X() > 80 {
			rightCount++
		} else {
			leftCount++
		}
	}
	if rightCount <= leftCount {
		t.Errorf("expected target sampling to favor the higher-mass right half, got right=%d left=%d", rightCount, leftCount)
	}
}
