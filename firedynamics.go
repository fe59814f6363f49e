package sentinel

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// neighbor offsets and their Euclidean pixel distance, in grid-cell units.
type neighborOffset struct {
	dx, dy int
	distMul float32 // multiple of cell size: 1 for cardinal, sqrt2 for diagonal
}

const sqrt2 float32 = 1.4142135

var eightNeighbors = []neighborOffset{
	{-1, 0, 1}, {1, 0, 1}, {0, -1, 1}, {0, 1, 1},
	{-1, -1, sqrt2}, {1, -1, sqrt2},
	{1, 1, sqrt2}, {-1, 1, sqrt2},
}

// fireEngine advances the world grid: burnout, stochastic wind/slope-biased
// neighbor ignition, ember spotting and amortized burned-cell recovery. It
// owns the incidentTracker as a sub-module (spec.md §9's one-way handle,
// avoiding the sensor<->engine<->incidents ownership cycle the original
// program has).
type fireEngine struct {
	cfg  *Config
	g    *grid
	inc  *incidentTracker
	rng  *rand.Rand
	log  Logger

	simT float32

	windUnit  mgl32.Vec2
	slopeUnit mgl32.Vec2
	tanSlope  float32

	active []int
	newlyIgnitedThisTick []int

	recoverAccum float32

	userIgnitions int

	// episode tracking for the undetected_episodes metric: an episode is a
	// maximal run of ticks with a non-empty active frontier. episodeHasIncident
	// is armed by registerIncident and cleared whenever a fresh episode
	// begins (the tick entered with an empty frontier).
	episodeHasIncident bool
	undetectedEpisodes int
}

func newFireEngine(cfg *Config, rng *rand.Rand, log Logger) *fireEngine {
	gw := int(cfg.ScreenW / cfg.FireCellPx)
	gh := int(cfg.ScreenH / cfg.FireCellPx)
	g := newGrid(gw, gh, cfg.FireCellPx)

	fe := &fireEngine{
		cfg:       cfg,
		g:         g,
		inc:       newIncidentTracker(cfg),
		rng:       rng,
		log:       log,
		windUnit:  vecFromAngleDeg(cfg.WindDirDeg),
		slopeUnit: vecFromAngleDeg(cfg.SlopeDirDeg),
		tanSlope:  float32(math.Tan(float64(cfg.SlopeDeg) * math.Pi / 180.0)),
	}
	fe.initTerrain()
	return fe
}

func (fe *fireEngine) initTerrain() {
	for gy := 0; gy < fe.g.gh; gy++ {
		for gx := 0; gx < fe.g.gw; gx++ {
			i := fe.g.idx(gx, gy)
			jitter := (fe.rng.Float32()*2 - 1) * fe.cfg.FuelVar
			fuel := fe.cfg.FuelMean * (1.0 + jitter)
			if fuel < 0.1 {
				fuel = 0.1
			}
			fe.g.fuel[i] = fuel

			mJit := (fe.rng.Float32()*2 - 1) * 0.05
			moist := fe.cfg.MoistLive + mJit
			if moist < 0 {
				moist = 0
			} else if moist > 1 {
				moist = 1
			}
			fe.g.moist[i] = moist

			if fe.rng.Float32() < fe.cfg.BarrierDensity {
				fe.g.state[i] = Barrier
			}
		}
	}
}

// ignite sets all UNBURNED, flammable cells within radius of (x, y) to
// BURNING. Cells outside the world are silently ignored; out-of-bounds
// ignition is never an error.
func (fe *fireEngine) ignite(x, y, radius float32) {
	fe.userIgnitions++
	gx := int(x / fe.g.cell)
	gy := int(y / fe.g.cell)
	if radius <= 0 {
		fe.igniteCell(gx, gy)
		return
	}
	rCells := int(radius / fe.g.cell)
	r2 := rCells * rCells
	for oy := -rCells; oy <= rCells; oy++ {
		for ox := -rCells; ox <= rCells; ox++ {
			if ox*ox+oy*oy <= r2 {
				fe.igniteCell(gx+ox, gy+oy)
			}
		}
	}
}

// igniteAt is the external driver's ignite_at(x, y, radius) entry point; it
// always counts toward user ignitions.
func (fe *fireEngine) igniteAt(x, y, radius float32) { fe.ignite(x, y, radius) }

func (fe *fireEngine) igniteCell(gx, gy int) {
	i := fe.g.idx(gx, gy)
	if i < 0 {
		return
	}
	if fe.g.state[i] == Unburned && fe.g.fuel[i] > 0 {
		fe.g.state[i] = Burning
		fe.g.burnT[i] = 0
		fe.g.tIgnited[i] = fe.simT
		fe.active = append(fe.active, i)
	}
}

// sampleRandomIgnition ignites one uniformly random cell with probability
// lam*dt, modelling a background Poisson arrival process of new fires.
func (fe *fireEngine) sampleRandomIgnition(lam, dt float32) {
	if fe.rng.Float32() < lam*dt {
		gx := fe.rng.Intn(fe.g.gw)
		gy := fe.rng.Intn(fe.g.gh)
		fe.igniteCell(gx, gy)
	}
}

// advance runs exactly one simulation tick: incident delay countdown,
// burnout/spread/spotting over the active frontier, and amortized recovery.
// Must be called exactly once per tick, after ignition injection.
func (fe *fireEngine) advance(dt float32) {
	if dt <= 0 {
		return
	}
	fe.simT += dt

	enteredWithActive := len(fe.active) > 0
	if !enteredWithActive {
		fe.episodeHasIncident = false
	}

	fe.inc.advance(fe.g, fe.simT, dt)

	next := fe.stepFrontier(dt)
	fe.active = dedupInts(next)

	fe.recoverAccum += dt
	if fe.recoverAccum >= 0.25 {
		fe.advanceRecovery(fe.recoverAccum)
		fe.recoverAccum = 0
	}

	// Episode end: a frontier that started this tick non-empty and ended
	// empty with no registered incident is an undetected fire.
	if enteredWithActive && len(fe.active) == 0 && !fe.episodeHasIncident {
		fe.undetectedEpisodes++
	}
}

func (fe *fireEngine) stepFrontier(dt float32) []int {
	g := fe.g
	var next []int

	for _, i := range fe.active {
		if g.state[i] != Burning {
			continue
		}

		tagged := g.tag[i] != 0 && fe.inc.isLive(g.tag[i])

		if !tagged {
			fe.trySpread(i, dt)
			fe.trySpot(i)
		}

		boost := float32(1)
		if tagged {
			boost = 1 + fe.cfg.QuenchBoost
		}
		g.burnT[i] += dt * boost
		if g.burnT[i] >= fe.cfg.BurnDuration {
			g.state[i] = Burned
			g.everBurned[i] = true
		} else {
			next = append(next, i)
		}
	}

	// cells ignited this tick by trySpread/trySpot are collected in
	// newlyIgnitedThisTick rather than in fe.active (the frontier being
	// stepped), so merge them into the next frontier here.
	next = append(next, fe.newlyIgnitedThisTick...)
	fe.newlyIgnitedThisTick = nil
	return next
}

// trySpread attempts stochastic ignition of each UNBURNED 8-neighbor of a
// BURNING, untagged cell, following the wind/slope-biased Rothermel-inspired
// spread law.
func (fe *fireEngine) trySpread(i int, dt float32) {
	g := fe.g
	gx, gy := g.gxgy(i)
	cx, cy := g.centerPx(gx, gy).X(), g.centerPx(gx, gy).Y()

	for _, nb := range eightNeighbors {
		ni := g.idx(gx+nb.dx, gy+nb.dy)
		if ni < 0 || g.state[ni] != Unburned || g.fuel[ni] <= 0 {
			continue
		}
		nc := g.centerPx(gx+nb.dx, gy+nb.dy)
		dirv := nc.Sub(mgl32.Vec2{cx, cy})
		norm := dirv.Len()
		if norm < 1e-6 {
			continue
		}
		dir := dirv.Mul(1 / norm)

		dry := float32(1) - g.moist[ni]/fe.cfg.MoistExt
		if dry < 0 {
			dry = 0
		}

		cosW := dir.Dot(fe.windUnit)
		if cosW < 0 {
			cosW = 0
		}
		expW := fe.cfg.BW / 2
		if expW < 1 {
			expW = 1
		}
		phiW := fe.cfg.CW * powf(fe.cfg.WindSpeed, fe.cfg.BW) * powf(cosW, expW)

		cosS := dir.Dot(fe.slopeUnit)
		if cosS < 0 {
			cosS = 0
		}
		phiS := fe.cfg.CS * powf(fe.tanSlope, fe.cfg.BS) * cosS * cosS

		R := fe.cfg.ROSScale * fe.cfg.R0 * (1 + phiW + phiS) * g.fuel[ni] * dry

		dpx := nb.distMul * g.cell
		lambda := fe.cfg.KIgnite * R * dt / dpx
		if lambda < 0 {
			lambda = 0
		}
		p := 1 - expf(-lambda)
		if fe.rng.Float32() < p {
			g.state[ni] = Burning
			g.burnT[ni] = 0
			g.tIgnited[ni] = fe.simT
			fe.newlyIgnitedThisTick = append(fe.newlyIgnitedThisTick, ni)
		}
	}
}

// trySpot attempts one ember spot per tick from an untagged BURNING cell,
// landing it a random integer distance downwind.
func (fe *fireEngine) trySpot(i int) {
	if fe.rng.Float32() >= fe.cfg.SpotChance {
		return
	}
	g := fe.g
	gx, gy := g.gxgy(i)
	n := 1 + fe.rng.Intn(fe.cfg.SpotMaxCells)
	dx := signOf(fe.windUnit.X())
	dy := signOf(fe.windUnit.Y())
	ni := g.idx(gx+dx*n, gy+dy*n)
	if ni < 0 || g.state[ni] != Unburned || g.fuel[ni] <= 0 {
		return
	}
	g.state[ni] = Burning
	g.burnT[ni] = 0
	g.tIgnited[ni] = fe.simT
	fe.newlyIgnitedThisTick = append(fe.newlyIgnitedThisTick, ni)
}

func signOf(v float32) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// advanceRecovery regenerates BURNED cells into fresh UNBURNED ones after
// recover_T seconds, amortized so it only runs every >=0.25 simulated
// seconds instead of every tick.
func (fe *fireEngine) advanceRecovery(dt float32) {
	g := fe.g
	for i := range g.state {
		if g.state[i] != Burned {
			continue
		}
		g.regenT[i] += dt
		if g.regenT[i] >= fe.cfg.RecoverT {
			g.state[i] = Unburned
			g.burnT[i] = 0
			g.regenT[i] = 0
			g.tIgnited[i] = posInf
			g.tag[i] = 0

			jitter := (fe.rng.Float32()*2 - 1) * fe.cfg.FuelVar
			fuel := fe.cfg.FuelMean * (1.0 + jitter)
			if fuel < 0.1 {
				fuel = 0.1
			}
			g.fuel[i] = fuel

			mJit := (fe.rng.Float32()*2 - 1) * 0.05
			moist := fe.cfg.MoistLive + mJit
			if moist < 0 {
				moist = 0
			} else if moist > 1 {
				moist = 1
			}
			g.moist[i] = moist
		}
	}
}

// burningFractionInDisc returns the fraction of cells inside the disc that
// are BURNING, and the pixel-space centers of those cells ("hotspots").
// Read-only; used by sensors for detection, never mutates state.
func (fe *fireEngine) burningFractionInDisc(x, y, r float32) (float32, []mgl32.Vec2) {
	g := fe.g
	gx0, gx1, gy0, gy1 := g.discBounds(x, y, r)
	r2 := r * r
	center := mgl32.Vec2{x, y}

	var inside, burning int
	var hotspots []mgl32.Vec2
	for gy := gy0; gy <= gy1; gy++ {
		for gx := gx0; gx <= gx1; gx++ {
			i := g.idx(gx, gy)
			if i < 0 {
				continue
			}
			c := g.centerPx(gx, gy)
			if distSq(c, center) > r2 {
				continue
			}
			inside++
			if g.state[i] == Burning {
				burning++
				hotspots = append(hotspots, c)
			}
		}
	}
	if inside == 0 {
		return 0, nil
	}
	return float32(burning) / float32(inside), hotspots
}

// LocalMetrics is the read-only result of computeLocalMetrics.
type LocalMetrics struct {
	InsideCells  int
	BurningCells int
	BurnedCells  int
	AreaBurningM2 float32
	AreaBurnedM2  float32
	AreaTotalM2   float32
}

func (fe *fireEngine) computeLocalMetrics(x, y, r float32) LocalMetrics {
	g := fe.g
	gx0, gx1, gy0, gy1 := g.discBounds(x, y, r)
	r2 := r * r
	center := mgl32.Vec2{x, y}

	var m LocalMetrics
	for gy := gy0; gy <= gy1; gy++ {
		for gx := gx0; gx <= gx1; gx++ {
			i := g.idx(gx, gy)
			if i < 0 || distSq(g.centerPx(gx, gy), center) > r2 {
				continue
			}
			m.InsideCells++
			switch g.state[i] {
			case Burning:
				m.BurningCells++
			case Burned:
				m.BurnedCells++
			}
		}
	}
	cellArea := g.cellAreaM2(fe.cfg.MetersPerPx)
	m.AreaBurningM2 = float32(m.BurningCells) * cellArea
	m.AreaBurnedM2 = float32(m.BurnedCells) * cellArea
	m.AreaTotalM2 = m.AreaBurningM2 + m.AreaBurnedM2
	return m
}

// GlobalMetrics is the read-only result of computeMetrics.
type GlobalMetrics struct {
	TotalBurnedM2      float32
	TotalScorchedEverM2 float32
	UserIgnitions      int
}

func (fe *fireEngine) computeMetrics() GlobalMetrics {
	g := fe.g
	cellArea := g.cellAreaM2(fe.cfg.MetersPerPx)
	var burned, everBurned int
	for i, st := range g.state {
		if st == Burned || st == Burning {
			burned++
		}
		if g.everBurned[i] {
			everBurned++
		}
	}
	return GlobalMetrics{
		TotalBurnedM2:       float32(burned) * cellArea,
		TotalScorchedEverM2: float32(everBurned) * cellArea,
		UserIgnitions:       fe.userIgnitions,
	}
}

// registerIncident is the read-only-handle entry point sensors use to
// register a confirmed detection against the incident tracker.
func (fe *fireEngine) registerIncident(cx, cy float32) (id int, isNew bool) {
	fe.episodeHasIncident = true
	id, isNew = fe.inc.register(fe.g, fe.simT, cx, cy)
	if isNew && fe.log != nil {
		fe.log.Infof("incident %d registered at (%.1f, %.1f)", id, cx, cy)
	}
	return id, isNew
}

// incidentActiveByID is the read-only-handle query a held sensor polls each
// tick to learn whether its incident is still active.
func (fe *fireEngine) incidentActiveByID(id int) bool {
	return fe.inc.isActive(fe.g, fe.simT, id)
}

// cellStates returns the read-only per-cell state slice for a driver's
// drawing accessors, along with the grid dimensions.
func (fe *fireEngine) cellStates() (states []CellState, gw, gh int) {
	return fe.g.state, fe.g.gw, fe.g.gh
}

func (fe *fireEngine) incidentCenters() []mgl32.Vec2 {
	return fe.inc.activeCenters(fe.g, fe.simT)
}

func (fe *fireEngine) simTime() float32 { return fe.simT }

func (fe *fireEngine) snapshotFinalizeOpenIncidents() {
	fe.inc.snapshotFinalizeOpenIncidents(fe.g, fe.simT)
}

func dedupInts(vals []int) []int {
	if len(vals) < 2 {
		return vals
	}
	seen := make(map[int]bool, len(vals))
	out := vals[:0]
	for _, v := range vals {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func powf(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}

func expf(v float32) float32 {
	return float32(math.Exp(float64(v)))
}
