package sentinel

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Phase is a sensor's position in the
// START -> APPROACH -> SEARCH -> HOLD -> RETURN -> RECHARGE state machine.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseApproach
	PhaseSearch
	PhaseHold
	PhaseReturn
	PhaseRecharge
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "START"
	case PhaseApproach:
		return "APPROACH"
	case PhaseSearch:
		return "SEARCH"
	case PhaseHold:
		return "HOLD"
	case PhaseReturn:
		return "RETURN"
	case PhaseRecharge:
		return "RECHARGE"
	default:
		return "UNKNOWN"
	}
}

var spawnAngles = [4]float32{135, 45, 225, 315}

// sensor is one of the four autonomous aerial units. It exclusively owns its
// belief grid and motion/energy state; the fire engine (and its incident
// sub-module) are reached only through a read-only handle, never owned.
type sensor struct {
	id         int
	quadrant   Quadrant
	safeRect   Rect
	screenRect Rect
	basePos    mgl32.Vec2
	footprintR float32

	position mgl32.Vec2
	phase    Phase

	startTimer float32

	mcTarget    mgl32.Vec2
	replanTimer float32

	energyRemaining float32
	energyPeriod    float32
	rechargeTimer   float32

	heldIncidentID int

	detHold     float32
	detCooldown float32

	distanceAccum float32

	belief *beliefGrid
	rng    *rand.Rand

	log Logger
}

func newSensor(id int, quadrant Quadrant, cfg *Config, basePos mgl32.Vec2, rng *rand.Rand, log Logger) *sensor {
	quads := quadrantRects(cfg.ScreenW, cfg.ScreenH)
	fovRad := float64(cfg.FootprintAngleDeg) * math.Pi / 180.0 / 2.0
	footprintR := cfg.Altitude * float32(math.Tan(fovRad))

	safeRect := quads[quadrant].Inset(footprintR)
	screenRect := Rect{X: 0, Y: 0, W: cfg.ScreenW, H: cfg.ScreenH}.Inset(footprintR)

	ring := 0.66 * cfg.BaseRadius
	ang := spawnAngles[id%4]
	pos := basePos.Add(vecFromAngleDeg(ang).Mul(ring))

	s := &sensor{
		id:         id,
		quadrant:   quadrant,
		safeRect:   safeRect,
		screenRect: screenRect,
		basePos:    basePos,
		footprintR: footprintR,
		position:   pos,
		phase:      PhaseStart,
		startTimer: cfg.StartDelay,
		rng:        rng,
		log:        log,
	}
	s.belief = newBeliefGrid(safeRect, cfg.MCCellPx)
	s.mcTarget = safeRect.Clamp(pos)
	return s
}

// shouldReturnNow implements spec.md §4.4's return-to-base predicate. It is
// never consulted during RETURN or RECHARGE.
func (s *sensor) shouldReturnNow(cfg *Config) bool {
	if s.phase == PhaseReturn || s.phase == PhaseRecharge {
		return false
	}
	if s.energyPeriod <= 0 {
		return false
	}
	if s.energyRemaining/s.energyPeriod <= cfg.ReturnThreshold {
		return true
	}
	distToBase := s.position.Sub(s.basePos).Len()
	timeToBase := distToBase / cfg.Speed
	return s.energyRemaining <= timeToBase+cfg.ReserveSeconds
}

// advance runs one tick of the sensor's state machine against a read-only
// handle to the fire engine (for detection queries and incident lifecycle).
// Detection supersedes a pending low-energy return: HOLD is only entered
// from SEARCH/APPROACH, and once held the incident must end (or energy
// forces RETURN) before SEARCH resumes (spec.md §9 Open Question i).
func (s *sensor) advance(dt float32, cfg *Config, fe *fireEngine) {
	if dt <= 0 {
		return
	}

	if s.phase == PhaseStart {
		if s.startTimer > dt {
			s.startTimer -= dt
			return
		}
		// smooth delay: residual dt carries into the first motion step.
		residual := dt - s.startTimer
		s.startTimer = 0
		s.phase = PhaseApproach
		dt = residual
		if dt <= 0 {
			return
		}
	}

	if s.phase != PhaseRecharge {
		s.energyRemaining -= dt
	}

	if s.detCooldown > 0 {
		s.detCooldown -= dt
	}

	switch s.phase {
	case PhaseRecharge:
		s.rechargeTimer -= dt
		if s.rechargeTimer <= 0 {
			jitter := cfg.JitterFrac * (2*s.rng.Float32() - 1)
			s.energyPeriod = float32(math.Max(2, float64(cfg.WorkT*(1+jitter))))
			s.energyRemaining = s.energyPeriod
			s.phase = PhaseApproach
		}
		return

	case PhaseReturn:
		s.moveTo(s.basePos, cfg.Speed, dt)
		if s.position.Sub(s.basePos).Len() <= 1e-2 {
			s.rechargeTimer = cfg.ChargeT
			s.phase = PhaseRecharge
		}
		return

	case PhaseHold:
		if !fe.incidentActiveByID(s.heldIncidentID) {
			s.phase = PhaseSearch
			s.replanTimer = 0
		}
		if s.shouldReturnNow(cfg) {
			s.phase = PhaseReturn
		}
		return

	case PhaseApproach:
		s.moveTo(s.mcTarget, cfg.Speed, dt)
		s.position = s.screenRect.Clamp(s.position)
		s.belief.observationUpdate(s.position.X(), s.position.Y(), s.footprintR, cfg.MCDetectStrength, cfg.MCDiffusion)
		if s.safeRect.Contains(s.position) {
			s.phase = PhaseSearch
			s.replanTimer = 0
		}

	case PhaseSearch:
		s.replanTimer -= dt
		arriveR := float32(math.Max(2, float64(s.footprintR)))
		if s.position.Sub(s.mcTarget).Len() <= arriveR || s.replanTimer <= 0 {
			s.mcTarget = s.belief.sampleTarget(s.position, s.footprintR, cfg.MCCostPerPx, cfg.MCCandidates, s.rng)
			s.replanTimer = cfg.MCReplanSeconds
		}
		s.moveTo(s.mcTarget, cfg.Speed, dt)
		s.position = s.screenRect.Clamp(s.position)
		s.position = s.safeRect.Clamp(s.position)
		s.belief.observationUpdate(s.position.X(), s.position.Y(), s.footprintR, cfg.MCDetectStrength, cfg.MCDiffusion)
	}

	// Detection is checked before the low-energy return predicate: a
	// confirmed detection this tick must win the race and enter HOLD even if
	// shouldReturnNow would also fire this tick (spec.md §9 Open Question i).
	// Checking RTB only when the sensor is still SEARCH/APPROACH afterward
	// means a same-tick HOLD transition is never overridden back to RETURN.
	if s.phase == PhaseSearch || s.phase == PhaseApproach {
		s.runDetection(dt, cfg, fe)
	}
	if (s.phase == PhaseSearch || s.phase == PhaseApproach) && s.shouldReturnNow(cfg) {
		s.phase = PhaseReturn
	}
}

// moveTo steps the sensor toward target by at most speed*dt and accumulates
// the resulting displacement into distanceAccum (spec.md §4.4's per-tick
// distance accounting).
func (s *sensor) moveTo(target mgl32.Vec2, speed, dt float32) {
	prev := s.position
	next := moveTowards(s.position, target, speed*dt)
	s.position = next
	s.distanceAccum += next.Sub(prev).Len()
}

// runDetection implements the debounced detection predicate: accumulate
// det_hold while the burning fraction in the footprint disc stays above
// det_min_frac, confirm after det_confirm_time, then register an incident
// and enter HOLD.
func (s *sensor) runDetection(dt float32, cfg *Config, fe *fireEngine) {
	if s.phase == PhaseHold || s.detCooldown > 0 {
		return
	}
	frac, hotspots := fe.burningFractionInDisc(s.position.X(), s.position.Y(), s.footprintR)
	if frac >= cfg.DetMinFrac {
		s.detHold += dt
	} else {
		s.detHold = 0
	}
	if s.detHold < cfg.DetConfirmTime {
		return
	}

	s.detHold = 0
	s.detCooldown = cfg.DetCooldownS

	point := s.position
	if len(hotspots) > 0 {
		var sum mgl32.Vec2
		for _, h := range hotspots {
			sum = sum.Add(h)
		}
		point = sum.Mul(1 / float32(len(hotspots)))
	}

	id, _ := fe.registerIncident(point.X(), point.Y())
	s.heldIncidentID = id
	s.phase = PhaseHold
	if s.log != nil {
		s.log.Infof("sensor %d holding over incident %d at (%.1f, %.1f)", s.id, id, point.X(), point.Y())
	}
}
