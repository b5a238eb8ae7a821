package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ranfuzz/ranfuzz-ctl/internal/app"
	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
	rferrors "github.com/ranfuzz/ranfuzz-ctl/internal/errors"
	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
	"github.com/ranfuzz/ranfuzz-ctl/internal/testutil"
)

// setupTestEnv points the commands at a mock runtime and a config file
// under a temp dir.
func setupTestEnv(t *testing.T) *testutil.TestEnv {
	t.Helper()

	env := testutil.NewTestEnv(t)

	text, err := config.Encode(env.Config)
	if err != nil {
		t.Fatalf("Failed to encode config: %v", err)
	}
	path := filepath.Join(env.TmpDir, "ranfuzz.toml")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	oldNewApp := newApp
	newApp = env.NewApp
	t.Cleanup(func() { newApp = oldNewApp })

	return env
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	c.SilenceUsage = false
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command and returns everything written to
// stdout and stderr, including user messages.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	oldOut, oldErr := logging.Stdout, logging.Stderr
	logging.Stdout, logging.Stderr = &stdout, &stderr
	defer func() {
		logging.Stdout, logging.Stderr = oldOut, oldErr
	}()

	if args == nil {
		args = []string{}
	}

	cmd := rootCmd
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	// Reset args for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)

	return stdout.String(), stderr.String(), err
}

// runWithConfig executes a command against the environment's config file
func runWithConfig(t *testing.T, env *testutil.TestEnv, args ...string) (string, string, error) {
	t.Helper()
	args = append(args, "--config", filepath.Join(env.TmpDir, "ranfuzz.toml"))
	return executeCommand(t, args...)
}

func assertExitCode(t *testing.T, err error, want int) {
	t.Helper()
	if want == rferrors.ExitSuccess {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected exit code %d, got success", want)
	}
	if got := rferrors.GetExitCode(err); got != want {
		t.Fatalf("exit code = %d, want %d (error: %v)", got, want, err)
	}
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	if !strings.Contains(stdout, "ranfuzz-ctl") {
		t.Error("Help output should contain 'ranfuzz-ctl'")
	}
	for _, sub := range []string{"generate", "start", "stop", "stopforce", "fuzz"} {
		if !strings.Contains(stdout, sub) {
			t.Errorf("Help output should list %q", sub)
		}
	}
}

func TestLifecycleHelp_ExitStatus(t *testing.T) {
	tests := []struct {
		command string
		want    []int
	}{
		{"start", []int{rferrors.ExitSuccess, rferrors.ExitGeneralError, rferrors.ExitAddressSpace, rferrors.ExitCommandFailed, rferrors.ExitConfigError}},
		{"stop", []int{rferrors.ExitSuccess, rferrors.ExitGeneralError, rferrors.ExitAddressSpace, rferrors.ExitCommandFailed, rferrors.ExitConfigError, rferrors.ExitWaitTimeout}},
		{"stopforce", []int{rferrors.ExitSuccess, rferrors.ExitGeneralError, rferrors.ExitAddressSpace, rferrors.ExitCommandFailed, rferrors.ExitConfigError}},
		{"fuzz", []int{rferrors.ExitSuccess, rferrors.ExitGeneralError, rferrors.ExitAddressSpace, rferrors.ExitCommandFailed, rferrors.ExitConfigError, rferrors.ExitWaitTimeout}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			stdout, _, err := executeCommand(t, tt.command, "--help")
			if err != nil {
				t.Fatalf("help failed: %v", err)
			}
			if !strings.Contains(stdout, "Exit status:") {
				t.Fatalf("help has no exit status section:\n%s", stdout)
			}
			for _, code := range tt.want {
				if !strings.Contains(stdout, fmt.Sprintf("\n  %d  ", code)) {
					t.Errorf("exit status %d not documented:\n%s", code, stdout)
				}
			}
		})
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"generate missing args", []string{"generate", "0", "1"}},
		{"start missing end", []string{"start", "0"}},
		{"start too many args", []string{"start", "0", "1", "compose/", "extra"}},
		{"stop non-numeric", []string{"stop", "zero", "1"}},
		{"fuzz negative", []string{"fuzz", "-1", "3"}},
		{"subnet non-numeric", []string{"subnet", "ten"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := executeCommand(t, tt.args...)
			assertExitCode(t, err, rferrors.ExitGeneralError)
			if !strings.Contains(stdout+stderr, "Usage:") {
				t.Errorf("usage guide not printed:\n%s%s", stdout, stderr)
			}
		})
	}
}

func TestGenerateCommand(t *testing.T) {
	env := setupTestEnv(t)
	outDir := filepath.Join(env.TmpDir, "generated")

	stdout, _, err := executeCommand(t, "generate", "0", "2", env.TemplatePath, outDir)
	assertExitCode(t, err, rferrors.ExitSuccess)

	for n := 0; n <= 2; n++ {
		env.AssertFileExists(filepath.Join(outDir, fmt.Sprintf("docker-compose_%d.yml", n)))
	}
	env.AssertFileNotExists(filepath.Join(outDir, "docker-compose_3.yml"))

	if !strings.Contains(stdout, "Generated Test# 0000002 | Subnet: 10.0.0.32/28") {
		t.Errorf("progress line missing:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Generated docker-composes [0:2].") {
		t.Errorf("summary line missing:\n%s", stdout)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "docker-compose_1.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "virtual-srsenb1") {
		t.Errorf("descriptor 1 missing container name:\n%s", data)
	}
}

func TestGenerateCommand_Errors(t *testing.T) {
	env := setupTestEnv(t)
	outDir := filepath.Join(env.TmpDir, "generated")

	writeTemplate := func(name, content string) string {
		path := filepath.Join(env.TmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"missing template", []string{"generate", "0", "1", filepath.Join(env.TmpDir, "nope.yml"), outDir}, rferrors.ExitTemplateError},
		{"invalid yaml", []string{"generate", "0", "1", writeTemplate("bad.yml", "services: ["), outDir}, rferrors.ExitTemplateError},
		{"missing service", []string{"generate", "0", "1", writeTemplate("partial.yml", "services:\n  srsepc:\n    image: x\n"), outDir}, rferrors.ExitTemplateError},
		{"beyond address space", []string{"generate", "1048575", "1048576", env.TemplatePath, outDir}, rferrors.ExitAddressSpace},
		{"reversed range", []string{"generate", "5", "2", env.TemplatePath, outDir}, rferrors.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			assertExitCode(t, err, tt.wantCode)
		})
	}
}

func TestStartCommand(t *testing.T) {
	env := setupTestEnv(t)
	composeDir := filepath.Join(env.TmpDir, "other")

	stdout, _, err := runWithConfig(t, env, "start", "0", "3", composeDir)
	assertExitCode(t, err, rferrors.ExitSuccess)

	if got := len(env.Runtime.GetCallsFor("Up")); got != 4 {
		t.Errorf("Up calls = %d, want 4", got)
	}
	if !strings.Contains(stdout, "COMPOSE DIRECTORY SET: "+composeDir) {
		t.Errorf("compose dir announcement missing:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Containers [0:3] Started.") {
		t.Errorf("summary missing:\n%s", stdout)
	}
}

func TestStartCommand_RangeGuard(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := runWithConfig(t, env, "start", "0", "4")
	assertExitCode(t, err, rferrors.ExitGeneralError)
	if !strings.Contains(err.Error(), "try fuzz instead of start") {
		t.Errorf("error = %v", err)
	}
	if calls := env.Runtime.GetCalls(); len(calls) != 0 {
		t.Errorf("runtime should not be called, got %v", calls)
	}

	_, _, err = runWithConfig(t, env, "start", "0", "4", "--batch-size", "5")
	assertExitCode(t, err, rferrors.ExitSuccess)
}

func TestStopCommand(t *testing.T) {
	env := setupTestEnv(t)
	env.CompleteGroup(0, 1)
	env.CompleteGroup(1, 0)

	stdout, _, err := runWithConfig(t, env, "stop", "0", "1")
	assertExitCode(t, err, rferrors.ExitSuccess)

	if got := len(env.Runtime.GetCallsFor("Down")); got != 2 {
		t.Errorf("Down calls = %d, want 2", got)
	}
	if got := len(env.Runtime.GetCallsFor("Logs")); got != 3 {
		t.Errorf("Logs calls = %d, want 3", got)
	}
	if !strings.Contains(stdout, "Containers [0:1] Stopped.") {
		t.Errorf("summary missing:\n%s", stdout)
	}
}

func TestStopCommand_Timeout(t *testing.T) {
	env := setupTestEnv(t)

	_, stderr, err := runWithConfig(t, env, "stop", "0", "0", "--timeout", "20ms")
	assertExitCode(t, err, rferrors.ExitWaitTimeout)

	if got := len(env.Runtime.GetCallsFor("Down")); got != 1 {
		t.Errorf("timed out group should still be torn down, Down calls = %d", got)
	}
	if !strings.Contains(stderr, "did not finish") {
		t.Errorf("timeout warning missing:\n%s", stderr)
	}
}

func TestStopForceCommand(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := runWithConfig(t, env, "stopforce", "2", "3")
	assertExitCode(t, err, rferrors.ExitSuccess)

	if got := len(env.Runtime.GetCallsFor("Logs")); got != 0 {
		t.Errorf("stopforce must not check logs, Logs calls = %d", got)
	}
	if got := len(env.Runtime.GetCallsFor("Down")); got != 2 {
		t.Errorf("Down calls = %d, want 2", got)
	}
	if !strings.Contains(stdout, "FORCE STOPPING tests [2:3].") {
		t.Errorf("banner missing:\n%s", stdout)
	}
}

func TestFuzzCommand(t *testing.T) {
	env := setupTestEnv(t)
	for n := 0; n <= 9; n++ {
		env.CompleteGroup(n, 0)
	}

	stdout, _, err := runWithConfig(t, env, "fuzz", "0", "9")
	assertExitCode(t, err, rferrors.ExitSuccess)

	if got := len(env.Runtime.GetCallsFor("Up")); got != 10 {
		t.Errorf("Up calls = %d, want 10", got)
	}
	if got := len(env.Runtime.GetCallsFor("Down")); got != 10 {
		t.Errorf("Down calls = %d, want 10", got)
	}
	for _, want := range []string{"Fuzzing group 1/3 [0:3]", "Fuzzing group 3/3 [8:9]", "Testing [0:9] Complete."} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestFuzzCommand_CommandFailures(t *testing.T) {
	env := setupTestEnv(t)
	env.CompleteGroup(0, 0)
	env.CompleteGroup(1, 0)
	env.Runtime.SetError("Down", fmt.Errorf("exit status 1"))

	_, _, err := runWithConfig(t, env, "fuzz", "0", "1")
	assertExitCode(t, err, rferrors.ExitCommandFailed)

	if got := len(env.Runtime.GetCallsFor("Down")); got != 2 {
		t.Errorf("failures must not stop the run, Down calls = %d", got)
	}
}

func TestFuzzCommand_ArchiveAndMetrics(t *testing.T) {
	env := setupTestEnv(t)
	env.CompleteGroup(0, 0)
	metricsPath := filepath.Join(env.TmpDir, "metrics", "ranfuzz.prom")

	_, _, err := runWithConfig(t, env, "fuzz", "0", "0", "--archive", "--metrics-file", metricsPath)
	assertExitCode(t, err, rferrors.ExitSuccess)

	env.AssertFileExists(filepath.Join(env.Config.LogsDir, "0.txt"))
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), "ranfuzz_groups_completed_total 1") {
		t.Errorf("metrics:\n%s", data)
	}
}

func TestLogsCommand(t *testing.T) {
	env := setupTestEnv(t)
	env.CompleteGroup(4, 0)

	_, _, err := runWithConfig(t, env, "logs", "4", "5")
	assertExitCode(t, err, rferrors.ExitSuccess)

	data, err := os.ReadFile(filepath.Join(env.Config.LogsDir, "4.txt"))
	if err != nil {
		t.Fatalf("log archive missing: %v", err)
	}
	if !strings.Contains(string(data), env.Config.Marker) {
		t.Errorf("archive = %q", data)
	}
	env.AssertFileExists(filepath.Join(env.Config.LogsDir, "5.txt"))
}

func TestStatusCommand(t *testing.T) {
	env := setupTestEnv(t)
	env.StartGroup(0)
	env.CompleteGroup(0, 0)
	env.StartGroup(1)

	stdout, _, err := runWithConfig(t, env, "status", "0", "2")
	assertExitCode(t, err, rferrors.ExitSuccess)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 5 {
		t.Fatalf("status output has %d lines:\n%s", len(lines), stdout)
	}
	for i, want := range []string{"complete", "running", "stopped"} {
		if !strings.Contains(lines[i+2], want) {
			t.Errorf("line %d = %q, want %q", i+2, lines[i+2], want)
		}
	}
	if !strings.Contains(lines[3], "10.0.0.16/28") {
		t.Errorf("subnet missing: %q", lines[3])
	}
}

func TestSubnetCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "subnet", "16")
	assertExitCode(t, err, rferrors.ExitSuccess)

	for _, want := range []string{"10.0.1.0/28", "10.0.1.3", "10.0.1.5"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}

	_, _, err = executeCommand(t, "subnet", "1048576")
	assertExitCode(t, err, rferrors.ExitAddressSpace)
}

func TestConfigCommand(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := runWithConfig(t, env, "config", "--batch-size", "7", "--timeout", "90s")
	assertExitCode(t, err, rferrors.ExitSuccess)

	for _, want := range []string{"batch_size = 7", `wait_timeout = "1m30s"`, `poll_interval = "1ms"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfigErrors(t *testing.T) {
	env := setupTestEnv(t)

	bad := filepath.Join(env.TmpDir, "bad.toml")
	if err := os.WriteFile(bad, []byte("batch_size = 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := executeCommand(t, "start", "0", "1", "--config", bad)
	assertExitCode(t, err, rferrors.ExitConfigError)

	_, _, err = runWithConfig(t, env, "fuzz", "0", "1", "--batch-size", "0")
	assertExitCode(t, err, rferrors.ExitConfigError)

	_, _, err = executeCommand(t, "start", "0", "1", "--config", filepath.Join(env.TmpDir, "missing.toml"))
	assertExitCode(t, err, rferrors.ExitConfigError)
}

func TestRuntimeSetupFailure(t *testing.T) {
	env := setupTestEnv(t)
	newApp = func(cfg config.Config) (*app.App, error) {
		return nil, fmt.Errorf("no compose command found")
	}

	_, _, err := runWithConfig(t, env, "fuzz", "0", "1")
	assertExitCode(t, err, rferrors.ExitConfigError)
}

func TestRangeChecksBeforeRuntimeSetup(t *testing.T) {
	env := setupTestEnv(t)
	built := 0
	newApp = func(cfg config.Config) (*app.App, error) {
		built++
		return nil, fmt.Errorf("no compose command found")
	}

	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr string
	}{
		{"start over one batch", []string{"start", "0", "9"}, rferrors.ExitGeneralError, "range too large (10 > 4)"},
		{"stop over one batch", []string{"stop", "0", "9"}, rferrors.ExitGeneralError, "range too large"},
		{"stopforce over one batch", []string{"stopforce", "0", "9"}, rferrors.ExitGeneralError, "range too large"},
		{"start past address space", []string{"start", "1048575", "1048576"}, rferrors.ExitAddressSpace, "address space"},
		{"fuzz past address space", []string{"fuzz", "0", "1048576"}, rferrors.ExitAddressSpace, "address space"},
		{"fuzz reversed range", []string{"fuzz", "5", "2"}, rferrors.ExitGeneralError, "before start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runWithConfig(t, env, tt.args...)
			assertExitCode(t, err, tt.want)
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	if built != 0 {
		t.Errorf("runtime set up %d times for invalid ranges", built)
	}
}

func TestConsoleHook_WaitSeconds(t *testing.T) {
	var stdout bytes.Buffer
	oldOut := logging.Stdout
	logging.Stdout = &stdout
	defer func() { logging.Stdout = oldOut }()

	hook := consoleHook()
	for i, elapsed := range []time.Duration{0, 1002 * time.Millisecond, 2 * time.Second} {
		hook(batch.Event{Type: batch.EventWaiting, Index: 3, Attempt: i + 1, Elapsed: elapsed})
	}
	hook(batch.Event{Type: batch.EventCompleted, Index: 3, Elapsed: 2 * time.Second})

	want := "\rWaiting 1s for test completion on container 3" +
		"\rWaiting 2s for test completion on container 3" +
		"\rWaiting 2s for test completion on container 3\n"
	if !strings.HasPrefix(stdout.String(), want) {
		t.Errorf("wait lines = %q, want prefix %q", stdout.String(), want)
	}
}
