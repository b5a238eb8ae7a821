// Package integration provides a test harness for integration tests
// that require a real Docker Compose installation.
//
// Integration tests are skipped unless the RANFUZZ_INTEGRATION_TESTS
// environment variable is set. These tests require:
//   - A running Docker daemon
//   - docker-compose or the docker compose plugin
//   - Free 10.255.220.0/24 address space for the test networks
//
// # Test Harness
//
// TestHarness manages test environments:
//
//	func TestMyIntegration(t *testing.T) {
//	    h := integration.NewHarness(t) // Skips if env var not set
//
//	    h.Generate(integration.BaseIndex, integration.BaseIndex+1)
//	    report, err := h.App().Controller().Fuzz(ctx, r)
//
//	    // Cleanup is automatic via t.Cleanup
//	}
//
// The harness template runs busybox containers that log the completion
// marker shortly after start, so a full fuzz cycle finishes in seconds.
//
// # Running Integration Tests
//
//	RANFUZZ_INTEGRATION_TESTS=1 go test -v ./internal/integration/...
//
// Set RANFUZZ_LOG_SOURCE=docker to read logs through the Engine API.
package integration
