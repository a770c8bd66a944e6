package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Lobby.MaxVotingSeconds != 30 {
		t.Errorf("MaxVotingSeconds = %d, want 30", cfg.Lobby.MaxVotingSeconds)
	}
	if cfg.Lobby.DefaultTrack != "oval" {
		t.Errorf("DefaultTrack = %s, want oval", cfg.Lobby.DefaultTrack)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.GetAddr() != "0.0.0.0:8080" {
		t.Errorf("GetAddr() = %s", cfg.GetAddr())
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MAX_VOTING_SECONDS", "45")
	t.Setenv("SERVER_PASSWORD", "sekrit")
	t.Setenv("TICK_MILLIS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("Port = %s, want 9999", cfg.Server.Port)
	}
	if cfg.MaxVotingTime() != 45*time.Second {
		t.Errorf("MaxVotingTime() = %v, want 45s", cfg.MaxVotingTime())
	}
	if cfg.Lobby.Password != "sekrit" {
		t.Errorf("Password = %q", cfg.Lobby.Password)
	}
	if cfg.TickInterval() != 10*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 10ms", cfg.TickInterval())
	}
}
