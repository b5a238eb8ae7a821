package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
	"github.com/ranfuzz/ranfuzz-ctl/internal/runtime"
	"github.com/ranfuzz/ranfuzz-ctl/internal/system"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.LogsDir = t.TempDir()
	cfg.PollInterval = config.Duration{Duration: 1}
	return cfg
}

func TestNew_WithRuntime(t *testing.T) {
	mockRuntime := runtime.NewMockRuntime()

	app, err := New(testConfig(t), WithRuntime(mockRuntime))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if app.Runtime != mockRuntime {
		t.Error("WithRuntime did not set runtime")
	}
	if app.Audit == nil {
		t.Error("Audit should default to a logger under the logs dir")
	}
	if app.Metrics != nil {
		t.Error("Metrics should be nil without a metrics file")
	}
}

func TestNew_WithFileSystem(t *testing.T) {
	fs := system.NewMockFS()

	app, err := New(testConfig(t), WithRuntime(runtime.NewMockRuntime()), WithFileSystem(fs))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if app.FS != fs {
		t.Error("WithFileSystem did not set file system")
	}
}

func TestNew_ConfiguredComposeCommand(t *testing.T) {
	cfg := testConfig(t)
	cfg.ComposeCommand = "docker compose"
	exec := system.NewMockExecutor()

	app, err := New(cfg, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if app.Runtime.Name() != "docker compose" {
		t.Errorf("Runtime.Name() = %q", app.Runtime.Name())
	}

	if err := app.Runtime.Down(context.Background(), app.Layout().Project(1)); err != nil {
		t.Fatal(err)
	}
	cmd, _ := exec.LastCommand()
	if !strings.HasPrefix(cmd.Line(), "docker compose -p srsRAN_1") {
		t.Errorf("command = %q", cmd.Line())
	}
}

func TestController_WiresHooks(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsFile = filepath.Join(t.TempDir(), "out", "ranfuzz.prom")
	rt := runtime.NewMockRuntime()

	app, err := New(cfg, WithRuntime(rt))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	var seen int
	c := app.Controller(func(e batch.Event) { seen++ })
	if _, err := c.Stop(context.Background(), batch.Range{Start: 2, End: 2}, true); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if seen == 0 {
		t.Error("extra hook was not called")
	}

	events, err := app.Audit.Events(2)
	if err != nil {
		t.Fatalf("Events error: %v", err)
	}
	if len(events) != 1 || events[0].Type != "stop" {
		t.Errorf("audit events = %+v", events)
	}

	if err := app.FlushMetrics(); err != nil {
		t.Fatalf("FlushMetrics error: %v", err)
	}
	data, err := os.ReadFile(cfg.MetricsFile)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), "ranfuzz_groups_stopped_total 1") {
		t.Errorf("metrics file:\n%s", data)
	}
}

func TestFlushMetrics_Disabled(t *testing.T) {
	app, err := New(testConfig(t), WithRuntime(runtime.NewMockRuntime()))
	if err != nil {
		t.Fatal(err)
	}
	if err := app.FlushMetrics(); err != nil {
		t.Errorf("FlushMetrics without metrics file = %v", err)
	}
}
