package sentinel

import "github.com/go-gl/mathgl/mgl32"

// fleet runs the four autonomous sensors that partition the world into
// quadrants by the screen midpoint (spec.md §4.4's "four-way partition").
// Each sensor owns its own belief grid and PRNG stream. Sensors share the
// fire engine's incident tracker: a confirmed detection registers (or merges
// into) an incident there, so the first sensor to register near a fire
// creates the incident.
type fleet struct {
	basePos mgl32.Vec2
	sensors [4]*sensor
	log     Logger
}

func newFleet(cfg *Config, seeder *Seeder, log Logger) *fleet {
	basePos := mgl32.Vec2{cfg.ScreenW / 2, cfg.ScreenH / 2}
	f := &fleet{basePos: basePos, log: log}
	for i := 0; i < 4; i++ {
		rng := seeder.Derive()
		f.sensors[i] = newSensor(i, Quadrant(i), cfg, basePos, rng, log)
	}
	return f
}

// advance steps every sensor's state machine against the fire engine, in
// sensor index order, in a plain sequential loop. Incident registration and
// incident-state polling go through the shared incident tracker.
func (f *fleet) advance(dt float32, cfg *Config, fe *fireEngine) {
	for _, s := range f.sensors {
		s.advance(dt, cfg, fe)
	}
}

// SensorSnapshot is the read-only view of one sensor exposed to a driver for
// drawing, per spec.md §6.
type SensorSnapshot struct {
	ID             int
	Position       mgl32.Vec2
	Phase          Phase
	HeldIncidentID int
	EnergyFrac     float32
	DistanceAccum  float32
}

func (f *fleet) snapshots() []SensorSnapshot {
	out := make([]SensorSnapshot, 0, len(f.sensors))
	for _, s := range f.sensors {
		frac := float32(0)
		if s.energyPeriod > 0 {
			frac = s.energyRemaining / s.energyPeriod
		}
		out = append(out, SensorSnapshot{
			ID:             s.id,
			Position:       s.position,
			Phase:          s.phase,
			HeldIncidentID: s.heldIncidentID,
			EnergyFrac:     frac,
			DistanceAccum:  s.distanceAccum,
		})
	}
	return out
}

func (f *fleet) totalDistance() []float32 {
	out := make([]float32, len(f.sensors))
	for i, s := range f.sensors {
		out[i] = s.distanceAccum
	}
	return out
}
