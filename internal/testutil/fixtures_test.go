package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
)

func TestLoadValidConfig(t *testing.T) {
	cfg, err := LoadConfigFixture(t.TempDir(), "valid_config.toml")
	if err != nil {
		t.Fatalf("LoadConfigFixture() error: %v", err)
	}

	if cfg.WaitTimeout.Duration != 15*time.Minute {
		t.Errorf("WaitTimeout = %s, want 15m", cfg.WaitTimeout.Duration)
	}
	if !cfg.ArchiveLogs {
		t.Error("ArchiveLogs should be true")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	if _, err := LoadConfigFixture(t.TempDir(), "invalid_config.toml"); err == nil {
		t.Error("Invalid config should fail to load")
	}
}

func TestComposeTemplate(t *testing.T) {
	tmpl, err := ComposeTemplate()
	if err != nil {
		t.Fatalf("ComposeTemplate() error: %v", err)
	}
	if tmpl.Path == "" {
		t.Error("Path should be set")
	}
}

func TestMissingFixture(t *testing.T) {
	if _, err := LoadFixture("nope.json"); err == nil {
		t.Error("LoadFixture should fail for a missing fixture")
	}
}

func TestTestEnv(t *testing.T) {
	env := NewTestEnv(t)

	paths := env.GenerateCompose(3, 4)
	if len(paths) != 2 {
		t.Fatalf("GenerateCompose returned %d paths", len(paths))
	}
	env.AssertFileExists(filepath.Join(env.Config.ComposeDir, "docker-compose_3.yml"))
	env.AssertFileNotExists(filepath.Join(env.Config.ComposeDir, "docker-compose_5.yml"))

	env.StartGroup(3)
	env.CompleteGroup(3, 2)

	c := env.App.Controller()
	if err := c.Observe(context.Background(), 3); err != nil {
		t.Fatalf("Observe error: %v", err)
	}
	if got := len(env.Runtime.GetCallsFor("Logs")); got != 3 {
		t.Errorf("Logs calls = %d, want 3", got)
	}

	report, err := c.Stop(context.Background(), batch.Range{Start: 3, End: 4}, true)
	if err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if len(report.Stopped) != 2 {
		t.Errorf("Stopped = %v", report.Stopped)
	}
}
