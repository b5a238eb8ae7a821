// Package testutil provides test utilities for integration tests
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ranfuzz/ranfuzz-ctl/internal/app"
	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
	"github.com/ranfuzz/ranfuzz-ctl/internal/runtime"
)

// TestEnv holds the test environment
type TestEnv struct {
	T            *testing.T
	TmpDir       string
	Config       config.Config
	TemplatePath string
	Runtime      *runtime.MockRuntime
	App          *app.App
}

// NewTestEnv creates a new test environment with mock runtime. The
// configuration points at directories under a temp dir and polls fast
// with no cooldown.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()

	cfg := config.Default()
	cfg.ComposeDir = filepath.Join(tmpDir, "compose")
	cfg.LogsDir = filepath.Join(tmpDir, "tests")
	cfg.PollInterval = config.Duration{Duration: time.Millisecond}
	cfg.Cooldown = config.Duration{}

	for _, dir := range []string{cfg.ComposeDir, cfg.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	templatePath, err := WriteFixture(tmpDir, "compose_template.yml")
	if err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}

	env := &TestEnv{
		T:            t,
		TmpDir:       tmpDir,
		Config:       cfg,
		TemplatePath: templatePath,
		Runtime:      runtime.NewMockRuntime(),
	}
	env.App = env.MustApp(cfg)
	return env
}

// NewApp builds an App for cfg backed by the environment's mock runtime.
// It matches the signature commands use to construct their App.
func (e *TestEnv) NewApp(cfg config.Config) (*app.App, error) {
	return app.New(cfg, app.WithRuntime(e.Runtime))
}

// MustApp is NewApp that fails the test on error
func (e *TestEnv) MustApp(cfg config.Config) *app.App {
	e.T.Helper()
	a, err := e.NewApp(cfg)
	if err != nil {
		e.T.Fatalf("Failed to create app: %v", err)
	}
	return a
}

// GenerateCompose writes descriptors for [start, end] into the compose dir
func (e *TestEnv) GenerateCompose(start, end int) []string {
	e.T.Helper()
	paths, err := e.App.Generator().Generate(context.Background(), start, end, e.TemplatePath, e.Config.ComposeDir)
	if err != nil {
		e.T.Fatalf("Failed to generate compose files: %v", err)
	}
	return paths
}

// ProjectName returns the compose project name for index
func (e *TestEnv) ProjectName(index int) string {
	return runtime.NewLayout(e.Config).Project(index).Name
}

// CompleteGroup makes the group's logs contain the completion marker after
// the given number of pending polls
func (e *TestEnv) CompleteGroup(index, pendingPolls int) {
	outputs := make([]string, 0, pendingPolls+1)
	for i := 0; i < pendingPolls; i++ {
		outputs = append(outputs, "srsue  | Attaching UE...\n")
	}
	outputs = append(outputs, "srsue  | "+e.Config.Marker+"\n")
	e.Runtime.SetLogs(e.ProjectName(index), outputs...)
}

// StartGroup marks the group running in the mock runtime
func (e *TestEnv) StartGroup(index int) {
	e.Runtime.Running[e.ProjectName(index)] = true
}

// AssertFileExists checks that a file exists
func (e *TestEnv) AssertFileExists(path string) {
	e.T.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		e.T.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks that a file does not exist
func (e *TestEnv) AssertFileNotExists(path string) {
	e.T.Helper()
	if _, err := os.Stat(path); err == nil {
		e.T.Errorf("Expected file to not exist: %s", path)
	}
}
