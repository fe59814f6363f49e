package sentinel

import "math"

// Config is the single options bundle the core is constructed from. No
// environment variables and no global mutable settings namespace are
// consulted anywhere past this struct; every optional field is resolved to a
// concrete default in Validate, matching spec.md §9's "replace reflective
// defaulting with an explicit configuration record" guidance.
type Config struct {
	// Grid
	ScreenW     float32
	ScreenH     float32
	FireCellPx  float32

	// Fire physics
	ROSScale       float32
	R0             float32
	KIgnite        float32
	WindSpeed      float32
	WindDirDeg     float32
	CW             float32
	BW             float32
	SlopeDeg       float32
	SlopeDirDeg    float32
	CS             float32
	BS             float32
	MoistLive      float32
	MoistExt       float32
	FuelMean       float32
	FuelVar        float32
	BurnDuration   float32
	BarrierDensity float32
	SpotChance     float32
	SpotMaxCells   int
	RecoverT       float32

	// Incidents
	MergeRadius   float32
	MonitorRadius float32
	SuppressRadius float32
	StopDelay     float32
	QuenchBoost   float32

	// Planner
	MCCellPx         float32
	MCCandidates     int
	MCReplanSeconds  float32
	MCCostPerPx      float32
	MCDetectStrength float32
	MCDiffusion      float32

	// Sensors
	Speed             float32
	FootprintAngleDeg float32
	Altitude          float32
	StartDelay        float32
	WorkT             float32
	ChargeT           float32
	JitterFrac        float32
	ReturnThreshold   float32
	ReserveSeconds    float32

	// Station/base geometry. Named explicitly rather than left as an inline
	// constant, per configs/settings.py's cradius field in the original
	// source — spec.md §4.4 only ever references it as "0.66 · base_radius".
	BaseRadius float32

	// Detection
	DetMinFrac     float32
	DetConfirmTime float32
	DetCooldownS   float32

	// RNG
	Seed int64

	// Scale / reporting
	MetersPerPx         float32
	SimToRealMinPerSec  float32
	TargetUAVSpeedKmh   float32

	// Driver convenience: rate of background random ignitions the caller may
	// sample per tick with sample_random_ignition. Not consulted by the core
	// itself (the driver owns the ignition stream), kept here so a single
	// Config round-trips the whole original demo's tuning surface.
	BackgroundIgnitionsPerSecond float32
}

// DefaultConfig returns a configuration matching the original demo's tuning
// (configs/settings.py), not arbitrary placeholder numbers.
func DefaultConfig() Config {
	return Config{
		ScreenW:    1280,
		ScreenH:    720,
		FireCellPx: 8,

		ROSScale:       0.5,
		R0:             8.0,
		KIgnite:        0.6,
		WindSpeed:      8.0,
		WindDirDeg:     25.0,
		CW:             0.045,
		BW:             1.4,
		SlopeDeg:       5.0,
		SlopeDirDeg:    180.0,
		CS:             0.08,
		BS:             2.0,
		MoistLive:      0.18,
		MoistExt:       0.35,
		FuelMean:       1.0,
		FuelVar:        0.25,
		BurnDuration:   18.0,
		BarrierDensity: 0.01,
		SpotChance:     0.0002,
		SpotMaxCells:   10,
		RecoverT:       25.0,

		MergeRadius:    100,
		MonitorRadius:  140,
		SuppressRadius: 90,
		StopDelay:      2.0,
		QuenchBoost:    6.0,

		MCCellPx:         16,
		MCCandidates:     60,
		MCReplanSeconds:  0.7,
		MCCostPerPx:      0.0008,
		MCDetectStrength: 0.85,
		MCDiffusion:      0.06,

		Speed:             80,
		FootprintAngleDeg: 90,
		Altitude:          90,
		StartDelay:        2,
		WorkT:             25.0,
		ChargeT:           3.0,
		JitterFrac:        0.25,
		ReturnThreshold:   0.20,
		ReserveSeconds:    3.0,

		BaseRadius: 48,

		DetMinFrac:     0.010,
		DetConfirmTime: 0.50,
		DetCooldownS:   3.0,

		Seed: 2024,

		MetersPerPx:        0,
		SimToRealMinPerSec: 10.0 / 3.0,
		TargetUAVSpeedKmh:  90.0,

		BackgroundIgnitionsPerSecond: 0.004,
	}
}

// Validate rejects out-of-range or non-finite numerics at construction and
// resolves every optional field to a concrete default, so nothing past this
// point ever needs a "maybe present" branch.
func (c *Config) Validate() error {
	if c.ScreenW <= 0 || !finite(c.ScreenW) {
		return configErrorf("ScreenW", "must be positive and finite")
	}
	if c.ScreenH <= 0 || !finite(c.ScreenH) {
		return configErrorf("ScreenH", "must be positive and finite")
	}
	if c.FireCellPx <= 0 || !finite(c.FireCellPx) {
		return configErrorf("FireCellPx", "must be positive and finite")
	}
	if c.R0 < 0 || !finite(c.R0) {
		return configErrorf("R0", "must be non-negative and finite")
	}
	if c.BurnDuration <= 0 || !finite(c.BurnDuration) {
		return configErrorf("BurnDuration", "must be positive and finite")
	}
	if c.RecoverT <= 0 || !finite(c.RecoverT) {
		return configErrorf("RecoverT", "must be positive and finite")
	}
	if c.SpotChance < 0 || c.SpotChance > 1 {
		return configErrorf("SpotChance", "must be in [0,1]")
	}
	if c.MergeRadius < 0 {
		return configErrorf("MergeRadius", "must be non-negative")
	}
	if c.MonitorRadius <= 0 {
		return configErrorf("MonitorRadius", "must be positive")
	}
	if c.MCCellPx <= 0 {
		return configErrorf("MCCellPx", "must be positive")
	}
	if c.MCCandidates <= 0 {
		c.MCCandidates = 60
	}
	if c.Speed <= 0 || !finite(c.Speed) {
		return configErrorf("Speed", "must be positive and finite")
	}
	if c.WorkT <= 0 {
		c.WorkT = 25.0
	}
	if c.ChargeT <= 0 {
		c.ChargeT = 3.0
	}
	if c.ReturnThreshold < 0 || c.ReturnThreshold > 1 {
		return configErrorf("ReturnThreshold", "must be in [0,1]")
	}
	if c.DetMinFrac < 0 || c.DetMinFrac > 1 {
		return configErrorf("DetMinFrac", "must be in [0,1]")
	}
	if c.DetConfirmTime < 0 {
		return configErrorf("DetConfirmTime", "must be non-negative")
	}
	if c.BaseRadius <= 0 {
		c.BaseRadius = 48
	}
	if c.SimToRealMinPerSec <= 0 {
		c.SimToRealMinPerSec = 10.0 / 3.0
	}

	// Real-world scale calibration: if MetersPerPx isn't set directly,
	// derive it the way core/fire.py's _px_to_m fallback does, from the
	// target UAV cruise speed and the configured pixel speed.
	if c.MetersPerPx <= 0 {
		targetKmh := c.TargetUAVSpeedKmh
		if targetKmh <= 0 {
			targetKmh = 90.0
		}
		c.MetersPerPx = (targetKmh / 3.6) / float32(math.Max(float64(c.Speed), 1e-6))
	}

	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
