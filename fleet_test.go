package sentinel

import "testing"

func TestFleet_FourSensorsBoundToDistinctQuadrants(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config must validate: %v", err)
	}
	seeder := NewSeeder(cfg.Seed)
	f := newFleet(&cfg, seeder, NewNopLogger())

	seen := map[Quadrant]bool{}
	for _, s := range f.sensors {
		seen[s.quadrant] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 distinct quadrants, got %d", len(seen))
	}
}

// Invariant 6: distance_accum is monotonically non-decreasing.
func TestFleet_DistanceAccumMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config must validate: %v", err)
	}
	seeder := NewSeeder(cfg.Seed)
	f := newFleet(&cfg, seeder, NewNopLogger())
	fe := newTestFireEngine(&cfg, cfg.Seed)

	prev := f.totalDistance()
	for i := 0; i < 200; i++ {
		f.advance(1.0/30.0, &cfg, fe)
		cur := f.totalDistance()
		for j := range cur {
			if cur[j] < prev[j] {
				t.Fatalf("tick %d: sensor %d distance_accum regressed from %v to %v", i, j, prev[j], cur[j])
			}
		}
		prev = cur
	}
}
