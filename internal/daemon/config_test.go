package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8642 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8642)
	}
	if cfg.Tutor.Addr != "http://127.0.0.1:11434" {
		t.Errorf("Tutor.Addr = %q", cfg.Tutor.Addr)
	}
	if cfg.Tutor.Model != "gpt-oss:20b" {
		t.Errorf("Tutor.Model = %q", cfg.Tutor.Model)
	}
	if err := cfg.Rewards.Validate(); err != nil {
		t.Errorf("default rewards invalid: %v", err)
	}
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("CODEXA_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 8642 {
		t.Errorf("Port = %d, want default", cfg.API.Port)
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CODEXA_HOME", home)

	content := `
[api]
port = 9000

[tutor]
enabled = false

[rewards]
xp_per_correct = 10
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.Tutor.Enabled {
		t.Error("Tutor.Enabled should be overridden to false")
	}
	if cfg.Rewards.XPPerCorrect != 10 {
		t.Errorf("XPPerCorrect = %d, want 10", cfg.Rewards.XPPerCorrect)
	}
	// Untouched reward fields keep their defaults.
	if len(cfg.Rewards.LevelThresholds) == 0 {
		t.Error("level thresholds lost on partial override")
	}
}

func TestLoadConfig_RejectsBrokenRewards(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CODEXA_HOME", home)

	content := `
[rewards]
level_thresholds = [100, 50]
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for non-increasing level thresholds")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("CODEXA_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 7777
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.API.Port != 7777 {
		t.Errorf("Port = %d after round trip, want 7777", loaded.API.Port)
	}
}

func TestNotifyConfigPolicy(t *testing.T) {
	p := NotifyConfig{}.Policy()
	if p.MaxPerDay == 0 || p.QuietStart == "" {
		t.Errorf("empty config should fall back to defaults, got %+v", p)
	}

	p = NotifyConfig{MaxPerDay: 9, QuietStart: "23:00", QuietEnd: "06:00"}.Policy()
	if p.MaxPerDay != 9 || p.QuietStart != "23:00" || p.QuietEnd != "06:00" {
		t.Errorf("overrides not applied: %+v", p)
	}
}
