package sentinel

import (
	"math/rand"
	"testing"
)

func isotropicConfig() *Config {
	cfg := DefaultConfig()
	cfg.ScreenW = 80
	cfg.ScreenH = 80
	cfg.FireCellPx = 8 // GW=GH=10
	cfg.WindSpeed = 0
	cfg.SlopeDeg = 0
	cfg.BurnDuration = 1e9
	cfg.FuelMean = 1.0
	cfg.FuelVar = 0
	cfg.MoistLive = 0.1
	cfg.MoistExt = 0.35
	cfg.SpotChance = 0
	cfg.BarrierDensity = 0
	cfg.R0 = 8.0
	cfg.ROSScale = 0.5
	cfg.KIgnite = 0.6
	return &cfg
}

func newTestFireEngine(cfg *Config, seed int64) *fireEngine {
	rng := rand.New(rand.NewSource(seed))
	return newFireEngine(cfg, rng, NewNopLogger())
}

// S1: isotropic spread.
func TestFireEngine_IsotropicSpread(t *testing.T) {
	cfg := isotropicConfig()

	var totalBurning float64
	const trials = 100
	for trial := 0; trial < trials; trial++ {
		fe := newTestFireEngine(cfg, int64(trial)+1)
		fe.ignite(40, 40, 0)
		fe.advance(1.0)

		burning := 0
		for _, st := range fe.g.state {
			if st == Burning {
				burning++
			}
		}
		totalBurning += float64(burning)
	}
	mean := totalBurning / trials
	if mean <= 3 {
		t.Errorf("expected mean burning cells > 3 over %d trials, got %v", trials, mean)
	}
}

// S2: wind bias. East neighbor ignition rate should exceed west by >= 2x.
func TestFireEngine_WindBias(t *testing.T) {
	cfg := isotropicConfig()
	cfg.WindSpeed = 20
	cfg.WindDirDeg = 0 // east
	cfg.CW = 0.1
	cfg.BW = 1

	var eastIgnited, westIgnited int
	const trials = 200
	for trial := 0; trial < trials; trial++ {
		fe := newTestFireEngine(cfg, int64(trial)+1000)
		fe.ignite(40, 40, 0)
		fe.advance(1.0)

		gx, gy := 5, 5 // center cell at (40,40) with cell=8 -> gx=gy=5
		if fe.g.state[fe.g.idx(gx+1, gy)] == Burning {
			eastIgnited++
		}
		if fe.g.state[fe.g.idx(gx-1, gy)] == Burning {
			westIgnited++
		}
	}
	if westIgnited == 0 {
		if eastIgnited == 0 {
			t.Fatalf("expected some ignition in at least one direction")
		}
	} else if float64(eastIgnited) < 2*float64(westIgnited) {
		t.Errorf("expected east ignitions (%d) >= 2x west ignitions (%d)", eastIgnited, westIgnited)
	}
}

func TestFireEngine_IgniteOutOfBoundsIsNoop(t *testing.T) {
	cfg := isotropicConfig()
	fe := newTestFireEngine(cfg, 1)
	before := fe.userIgnitions
	fe.ignite(-1000, -1000, 5)
	if fe.userIgnitions != before+1 {
		t.Errorf("out-of-bounds ignite should still count as a user ignition")
	}
	for _, st := range fe.g.state {
		if st == Burning {
			t.Fatalf("out-of-bounds ignite must not ignite any cell")
		}
	}
}

func TestFireEngine_ZeroDtIsNoop(t *testing.T) {
	cfg := isotropicConfig()
	fe := newTestFireEngine(cfg, 1)
	fe.ignite(40, 40, 0)
	before := append([]CellState(nil), fe.g.state...)
	simT := fe.simT
	fe.advance(0)
	for i, st := range fe.g.state {
		if st != before[i] {
			t.Fatalf("zero dt tick must not mutate cell state at %d", i)
		}
	}
	if fe.simT != simT {
		t.Errorf("zero dt tick must leave sim_t unchanged, got %v want %v", fe.simT, simT)
	}
}

func TestFireEngine_FrontierMatchesBurningState(t *testing.T) {
	cfg := isotropicConfig()
	cfg.BurnDuration = 2.0
	fe := newTestFireEngine(cfg, 7)
	fe.ignite(40, 40, 16)
	for i := 0; i < 10; i++ {
		fe.advance(0.5)
		frontier := make(map[int]bool, len(fe.active))
		for _, idx := range fe.active {
			frontier[idx] = true
		}
		for idx, st := range fe.g.state {
			if st == Burning && !frontier[idx] {
				t.Fatalf("tick %d: cell %d is BURNING but absent from frontier", i, idx)
			}
			if frontier[idx] && st != Burning {
				t.Fatalf("tick %d: cell %d is in frontier but not BURNING", i, idx)
			}
		}
	}
}

func TestFireEngine_EverBurnedMonotonic(t *testing.T) {
	cfg := isotropicConfig()
	cfg.BurnDuration = 1.0
	cfg.RecoverT = 1.0
	fe := newTestFireEngine(cfg, 3)
	fe.ignite(40, 40, 16)

	prev := append([]bool(nil), fe.g.everBurned...)
	for i := 0; i < 40; i++ {
		fe.advance(0.5)
		for idx, v := range fe.g.everBurned {
			if prev[idx] && !v {
				t.Fatalf("ever_burned[%d] regressed from true to false", idx)
			}
		}
		prev = append([]bool(nil), fe.g.everBurned...)
	}
}

func TestFireEngine_BurningFractionInDisc(t *testing.T) {
	cfg := isotropicConfig()
	cfg.BurnDuration = 1e9
	fe := newTestFireEngine(cfg, 5)
	fe.ignite(40, 40, 20)

	frac, hotspots := fe.burningFractionInDisc(40, 40, 20)
	if frac <= 0 {
		t.Errorf("expected nonzero burning fraction inside freshly ignited disc")
	}
	if len(hotspots) == 0 {
		t.Errorf("expected nonempty hotspot list inside freshly ignited disc")
	}
}
