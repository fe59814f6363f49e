package sentinel

import "testing"

func TestConfigValidate_RejectsOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScreenW = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected ScreenW=0 to be rejected")
	}

	cfg = DefaultConfig()
	cfg.BurnDuration = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected negative BurnDuration to be rejected")
	}

	cfg = DefaultConfig()
	cfg.SpotChance = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected SpotChance > 1 to be rejected")
	}
}

func TestConfigValidate_DefaultsAndDerivedScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MCCandidates = 0
	cfg.WorkT = 0
	cfg.ChargeT = 0
	cfg.BaseRadius = 0
	cfg.MetersPerPx = 0
	cfg.TargetUAVSpeedKmh = 90
	cfg.Speed = 80

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected resolvable config to validate, got %v", err)
	}
	if cfg.MCCandidates != 60 {
		t.Errorf("expected MCCandidates default 60, got %d", cfg.MCCandidates)
	}
	if cfg.WorkT != 25.0 {
		t.Errorf("expected WorkT default 25, got %v", cfg.WorkT)
	}
	if cfg.BaseRadius != 48 {
		t.Errorf("expected BaseRadius default 48, got %v", cfg.BaseRadius)
	}
	wantScale := (90.0 / 3.6) / 80.0
	if diff := float64(cfg.MetersPerPx) - wantScale; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("expected derived MetersPerPx %v, got %v", wantScale, cfg.MetersPerPx)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}
