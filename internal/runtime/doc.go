// Package runtime drives Docker Compose projects for ranfuzz-ctl.
//
// Each fuzzing iteration n lives in its own compose project, named
// <prefix><n> and described by <compose dir>/docker-compose_<n>.yml.
// Layout maps indexes to Projects.
//
// # Runtime Interface
//
// The Runtime interface covers the lifecycle the batch controller needs:
//   - Up: start a project detached, returning a Handle
//   - Down: remove containers and volumes, blocking
//   - Logs: fetch the project's log output
//   - Status: list the project's containers
//
// ComposeRuntime implements it with the compose CLI. The command is either
// configured (compose_command) or detected, preferring the standalone
// docker-compose binary over the docker compose plugin. Failed commands
// are reported as *CommandError carrying the argument list and exit code.
//
// With log_source = "docker", logs are read from the Docker Engine API by
// DockerLogSource, filtering containers by the compose project label.
//
// # Mock Runtime
//
// For testing, use NewMockRuntime() to create a mock implementation that can
// be configured with log sequences and injected errors and used to verify
// the order of lifecycle calls.
package runtime
