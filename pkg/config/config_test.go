package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.Engine.MaxTotalScore != 130 || cfg.Engine.MaxProbability != 85 {
		t.Fatalf("unexpected engine caps: %+v", cfg.Engine)
	}
	if cfg.Engine.Correlation.AnchorSymbol != "BTC" {
		t.Fatalf("unexpected anchor %q", cfg.Engine.Correlation.AnchorSymbol)
	}
}

func TestValidateRejectsBadWeightSum(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Engine.Weights["momentum"] += 0.2
	if err := cfg.Validate(); err == nil {
		t.Fatalf("weights not summing to 1.0 must fail validation")
	}
}

func TestValidateRejectsNegativeWeight(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Engine.Weights["trend"] = -0.08
	cfg.Engine.Weights["momentum"] += 0.16
	if err := cfg.Validate(); err == nil {
		t.Fatalf("negative weight must fail validation")
	}
}

func TestValidateRejectsSidewaysCapAboveMax(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Engine.SidewaysMaxProbability = 90
	if err := cfg.Validate(); err == nil {
		t.Fatalf("sideways cap above max probability must fail")
	}
}

func TestDeadZoneForThinDataSymbol(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Engine.ThinDataSymbols = []string{"pepe", "SHIB"}

	if got := cfg.DeadZoneFor("BTC"); got != cfg.Engine.DeadZone {
		t.Fatalf("normal symbol dead zone %v", got)
	}
	if got := cfg.DeadZoneFor("PEPE"); got != cfg.Engine.WideDeadZone {
		t.Fatalf("thin-data symbol should get the wide zone, got %v", got)
	}
	if got := cfg.DeadZoneFor("shib"); got != cfg.Engine.WideDeadZone {
		t.Fatalf("matching is case-insensitive, got %v", got)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
environment: test
server:
  port: 9090
engine:
  dead_zone: 12
  wide_dead_zone: 18
  correlation:
    anchor_symbol: SOL
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port override lost: %d", cfg.Server.Port)
	}
	if cfg.Engine.DeadZone != 12 || cfg.Engine.Correlation.AnchorSymbol != "SOL" {
		t.Fatalf("engine overrides lost: %+v", cfg.Engine)
	}
	// Unset fields keep their defaults; weights fall back to the table.
	if cfg.Engine.MaxTotalScore != 130 {
		t.Fatalf("default max total lost: %v", cfg.Engine.MaxTotalScore)
	}
	if len(cfg.Engine.Weights) == 0 {
		t.Fatalf("default weights not applied")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatalf("missing file must fail")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("environment: test\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("ANCHOR_SYMBOL", "ETH")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.Correlation.AnchorSymbol != "ETH" {
		t.Fatalf("env anchor override lost: %q", cfg.Engine.Correlation.AnchorSymbol)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("env log level override lost: %q", cfg.Logging.Level)
	}
}
