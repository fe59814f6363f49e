package sentinel

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Simulation is the core's single external entry point (spec.md §6's driver
// contract): construction from a Config, a tick(dt) method, read-only
// accessors for drawing, and a run-end summary builder. It owns the fire
// engine (and, through it, the incident tracker as a sub-module) and the
// sensor fleet as two one-way, non-owning relationships — no cycles
// (spec.md §9).
type Simulation struct {
	cfg   Config
	fire  *fireEngine
	fleet *fleet
	log   Logger

	RunID       string
	generatedAt time.Time

	stopped bool
}

// NewSimulation validates cfg and constructs a fresh Simulation. A rejected
// configuration is the only error the core ever returns (spec.md §7); every
// operation past construction is a total function.
func NewSimulation(cfg Config, log Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = NewNopLogger()
	}

	seeder := NewSeeder(cfg.Seed)
	fireRng := seeder.Derive()

	fe := newFireEngine(&cfg, fireRng, log)
	fl := newFleet(&cfg, seeder, log)

	sim := &Simulation{
		cfg:         cfg,
		fire:        fe,
		fleet:       fl,
		log:         log,
		RunID:       uuid.NewString(),
		generatedAt: time.Now(),
	}
	log.Infof("simulation %s constructed: grid %dx%d cells, seed %d", sim.RunID, fe.g.gw, fe.g.gh, cfg.Seed)
	return sim, nil
}

// Config returns the resolved configuration the simulation was constructed
// with (post-Validate defaults applied).
func (sim *Simulation) Config() Config { return sim.cfg }

// IgniteAt is the external ignite_at(x, y, radius) input event. It always
// counts toward user ignitions, and silently clamps/ignores any part of the
// disc outside the world (spec.md §7).
func (sim *Simulation) IgniteAt(x, y, radius float32) {
	sim.fire.igniteAt(x, y, radius)
}

// Tick is the driver's single per-step entry point. It runs, in the order
// spec.md §2/§5 mandates, the fire dynamics update and then the sensor
// fleet update; ignition injection (user events and the caller's background
// ignition sampling) happens before Tick is called, via IgniteAt and
// SampleRandomIgnition. A zero or negative dt is a no-op in every subsystem.
func (sim *Simulation) Tick(dt float32) {
	if sim.stopped {
		return
	}
	sim.fire.advance(dt)
	sim.fleet.advance(dt, &sim.cfg, sim.fire)
}

// SampleRandomIgnition lets the driver sample the background ignition
// arrival process (spec.md §4.1) ahead of Tick.
func (sim *Simulation) SampleRandomIgnition(lambda, dt float32) {
	sim.fire.sampleRandomIgnition(lambda, dt)
}

// Stop finalizes any incident still lacking a final area and marks the
// simulation stopped; further Tick calls are no-ops. Idempotent.
func (sim *Simulation) Stop() {
	if sim.stopped {
		return
	}
	sim.fire.snapshotFinalizeOpenIncidents()
	sim.stopped = true
	sim.log.Infof("simulation %s stopped at sim_t=%.2f", sim.RunID, sim.fire.simT)
}

// SimTime returns the elapsed simulated time.
func (sim *Simulation) SimTime() float32 { return sim.fire.simTime() }

// CellStates is the read-only accessor for drawing the world grid: the flat
// per-cell state array plus its dimensions.
func (sim *Simulation) CellStates() (states []CellState, gw, gh int) {
	return sim.fire.cellStates()
}

// SensorSnapshots is the read-only accessor for drawing sensor positions and
// phases.
func (sim *Simulation) SensorSnapshots() []SensorSnapshot {
	return sim.fleet.snapshots()
}

// IncidentCenters is the read-only accessor for drawing active incident
// markers.
func (sim *Simulation) IncidentCenters() []mgl32.Vec2 {
	return sim.fire.incidentCenters()
}

// LocalMetrics exposes the fire engine's read-only local-statistics query.
func (sim *Simulation) LocalMetrics(x, y, r float32) LocalMetrics {
	return sim.fire.computeLocalMetrics(x, y, r)
}

// GlobalMetrics exposes the fire engine's read-only global-statistics query.
func (sim *Simulation) GlobalMetrics() GlobalMetrics {
	return sim.fire.computeMetrics()
}

// LiveMetrics returns the incrementally-maintained counters a driver can poll
// every tick without paying BuildSummary's per-incident report cost.
func (sim *Simulation) LiveMetrics() Metrics {
	return Metrics{
		DispatchEvents:     sim.fire.inc.dispatchCount,
		ExtinguishedEvents: sim.fire.inc.extinguishedCount,
		UserIgnitions:      sim.fire.userIgnitions,
		UndetectedEpisodes: sim.fire.undetectedEpisodes,
		PerSensorDistance:  sim.fleet.totalDistance(),
	}
}
