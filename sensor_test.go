package sentinel

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func sensorTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.ScreenW = 640
	cfg.ScreenH = 480
	cfg.FireCellPx = 8
	cfg.Speed = 80
	cfg.ReturnThreshold = 0.2
	cfg.ReserveSeconds = 3.0
	cfg.DetMinFrac = 0.01
	cfg.DetConfirmTime = 0.5
	cfg.DetCooldownS = 3.0
	return &cfg
}

func newTestSensor(cfg *Config, id int, basePos mgl32.Vec2, seed int64) *sensor {
	rng := rand.New(rand.NewSource(seed))
	return newSensor(id, Quadrant(id%4), cfg, basePos, rng, NewNopLogger())
}

// S6: low-energy RTB. A sensor at distance d from base with
// energy_remaining = d/speed + reserve/2 transitions to RETURN on the next
// tick.
func TestSensor_LowEnergyReturnsToBase(t *testing.T) {
	cfg := sensorTestConfig()
	basePos := mgl32.Vec2{320, 240}
	s := newTestSensor(cfg, 0, basePos, 1)
	s.phase = PhaseSearch
	// Inside the sensor's own safe rectangle, so SEARCH clamping leaves it put.
	s.position = mgl32.Vec2{s.safeRect.Left(), s.safeRect.Top()}
	d := s.position.Sub(basePos).Len()
	s.energyRemaining = d/cfg.Speed + cfg.ReserveSeconds/2
	s.energyPeriod = 2 * s.energyRemaining // ratio threshold alone must not already trigger RETURN

	fe := newTestFireEngine(isotropicConfig(), 2)
	s.advance(0.016, cfg, fe)

	if s.phase != PhaseReturn {
		t.Fatalf("expected sensor to transition to RETURN, got %v", s.phase)
	}
}

func TestSensor_HoldPositionFixed(t *testing.T) {
	cfg := sensorTestConfig()
	basePos := mgl32.Vec2{320, 240}
	s := newTestSensor(cfg, 0, basePos, 3)
	s.phase = PhaseHold
	s.heldIncidentID = 1
	s.energyPeriod = 100
	s.energyRemaining = 100
	pos := s.position

	fe := newTestFireEngine(isotropicConfig(), 4)
	// no incidents registered on fe, so incidentActiveByID(1) is false and
	// the sensor should resume SEARCH, but position must not have moved
	// during the HOLD tick itself.
	s.advance(0.1, cfg, fe)

	if s.position != pos {
		t.Errorf("expected sensor position fixed during HOLD tick, moved from %v to %v", pos, s.position)
	}
}

func TestSensor_StartDelaySmoothResidual(t *testing.T) {
	cfg := sensorTestConfig()
	cfg.StartDelay = 1.0
	basePos := mgl32.Vec2{320, 240}
	s := newTestSensor(cfg, 0, basePos, 5)

	fe := newTestFireEngine(isotropicConfig(), 6)
	s.advance(0.6, cfg, fe) // still within start delay
	if s.phase != PhaseStart {
		t.Fatalf("expected sensor to remain in START, got %v", s.phase)
	}
	posBefore := s.position
	s.advance(0.6, cfg, fe) // elapses mid-frame; residual 0.2s should move the sensor
	if s.phase == PhaseStart {
		t.Fatalf("expected sensor to leave START once start_delay elapses")
	}
	if s.position == posBefore {
		t.Errorf("expected the residual dt to be applied to the first motion step, position did not change")
	}
}

func TestSensor_DetectionDebounce(t *testing.T) {
	cfg := sensorTestConfig()
	cfg.DetMinFrac = 0.01
	cfg.DetConfirmTime = 0.5

	fireCfg := isotropicConfig()
	fireCfg.BurnDuration = 1e9
	fe := newTestFireEngine(fireCfg, 9)
	// ignite a persistent burning disc with burning fraction well above
	// det_min_frac.
	fe.ignite(64, 64, 24)

	basePos := mgl32.Vec2{320, 240}
	s := newTestSensor(cfg, 0, basePos, 10)
	s.phase = PhaseSearch
	s.position = mgl32.Vec2{64, 64}
	s.energyPeriod = 1000
	s.energyRemaining = 1000

	dt := float32(0.1)
	elapsed := float32(0)
	for elapsed < cfg.DetConfirmTime+dt {
		s.runDetection(dt, cfg, fe)
		elapsed += dt
	}

	if s.phase != PhaseHold {
		t.Fatalf("expected sensor to be in HOLD after confirm_time elapses, got %v", s.phase)
	}
}
