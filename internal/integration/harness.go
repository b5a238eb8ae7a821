// Package integration provides a test harness for integration tests
// that require a real Docker Compose installation.
//
// Integration tests are skipped unless the RANFUZZ_INTEGRATION_TESTS
// environment variable is set. These tests require:
// - A running Docker daemon
// - docker-compose or the docker compose plugin
// - Free 10.255.220.0/24 address space for the test networks
package integration

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

// BaseIndex is the first iteration index used by integration tests. Its
// subnets sit at the top of the address space to stay clear of common
// Docker networks.
const BaseIndex = 1048000

// TestHarness provides utilities for integration testing with real containers.
type TestHarness struct {
	t        *testing.T
	tempDir  string
	cfg      config.Config
	app      *app.App
	template string
	projects []int // Track started groups for cleanup
}

// NewHarness creates a new test harness.
// It will skip the test if RANFUZZ_INTEGRATION_TESTS is not set or no
// compose command is available.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()

	if os.Getenv("RANFUZZ_INTEGRATION_TESTS") == "" {
		t.Skip("integration tests disabled (set RANFUZZ_INTEGRATION_TESTS=1 to enable)")
	}

	tempDir := t.TempDir()

	cfg := config.Default()
	cfg.ComposeDir = filepath.Join(tempDir, "compose")
	cfg.LogsDir = filepath.Join(tempDir, "tests")
	cfg.PollInterval = config.Duration{Duration: 500 * time.Millisecond}
	cfg.Cooldown = config.Duration{}
	cfg.WaitTimeout = config.Duration{Duration: 2 * time.Minute}
	if src := os.Getenv("RANFUZZ_LOG_SOURCE"); src != "" {
		cfg.LogSource = src
	}

	a, err := app.New(cfg)
	if err != nil {
		t.Skipf("no compose runtime available: %v", err)
	}

	template := filepath.Join(tempDir, "template.yml")
	if err := os.WriteFile(template, []byte(DefaultTemplate()), 0644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}

	h := &TestHarness{
		t:        t,
		tempDir:  tempDir,
		cfg:      cfg,
		app:      a,
		template: template,
	}

	t.Cleanup(h.Cleanup)

	return h
}

// Config returns the harness configuration.
func (h *TestHarness) Config() config.Config {
	return h.cfg
}

// App returns the application wired to the real runtime.
func (h *TestHarness) App() *app.App {
	return h.app
}

// Project returns the compose project for index.
func (h *TestHarness) Project(index int) runtime.Project {
	return h.app.Layout().Project(index)
}

// Generate writes descriptors for [start, end] and tracks them for cleanup.
func (h *TestHarness) Generate(start, end int) {
	h.t.Helper()

	if _, err := h.app.Generator().Generate(context.Background(), start, end, h.template, h.cfg.ComposeDir); err != nil {
		h.t.Fatalf("Failed to generate compose files: %v", err)
	}
	for n := start; n <= end; n++ {
		h.projects = append(h.projects, n)
	}
}

// Cleanup tears down every tracked group.
func (h *TestHarness) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, n := range h.projects {
		if err := h.app.Runtime.Down(ctx, h.Project(n)); err != nil {
			h.t.Logf("Warning: failed to tear down group %d: %v", n, err)
		}
	}
}

// DefaultTemplate returns a Compose template that mimics the srsRAN
// services with busybox. Each container ignores its generated command and
// logs the default completion marker.
func DefaultTemplate() string {
	return `services:
  srsepc:
    image: busybox:1.36
    container_name: virtual-srsepc
    entrypoint: ["sh", "-c", "echo core up; sleep 300"]
    command: srsepc
    networks:
      corenet:
        ipv4_address: 10.80.95.10
  srsenb:
    image: busybox:1.36
    container_name: virtual-srsenb
    entrypoint: ["sh", "-c", "echo enb up; sleep 300"]
    command: srsenb
    volumes:
      - ./pcaps:/pcaps/
    networks:
      corenet:
        ipv4_address: 10.80.95.11
  srsue:
    image: busybox:1.36
    container_name: virtual-srsue
    entrypoint: ["sh", "-c", "sleep 2; echo 'Network attach successful.'; sleep 300"]
    command: srsue
    network_mode: service:srsenb
    depends_on:
      - srsenb
networks:
  corenet:
    ipam:
      driver: default
      config:
        - subnet: 10.80.95.0/24
`
}
