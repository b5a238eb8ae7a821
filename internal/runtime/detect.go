package runtime

import (
	"fmt"
	"os/exec"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
	"github.com/ranfuzz/ranfuzz-ctl/internal/system"
)

// lookPath is swapped out in tests
var lookPath = exec.LookPath

// DetectComposeCommand determines the compose invocation to use.
// A configured command is split with shell quoting rules; otherwise the
// standalone docker-compose binary is preferred over the docker plugin.
func DetectComposeCommand(configured string) ([]string, error) {
	if configured != "" {
		args, err := shellquote.Split(configured)
		if err != nil {
			return nil, fmt.Errorf("invalid compose_command %q: %w", configured, err)
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("compose_command is empty")
		}
		logging.Debug("using configured compose command", "command", args)
		return args, nil
	}

	if _, err := lookPath("docker-compose"); err == nil {
		logging.Debug("detected docker-compose")
		return []string{"docker-compose"}, nil
	}

	if _, err := lookPath("docker"); err == nil {
		logging.Debug("detected docker compose plugin")
		return []string{"docker", "compose"}, nil
	}

	return nil, fmt.Errorf("no compose command found (tried: docker-compose, docker compose)")
}

// New creates a compose Runtime from the run configuration.
func New(cfg config.Config, executor system.CommandExecutor) (Runtime, error) {
	command, err := DetectComposeCommand(cfg.ComposeCommand)
	if err != nil {
		return nil, err
	}

	rt := NewComposeRuntime(command, executor)

	switch cfg.LogSource {
	case config.LogSourceDocker:
		src, err := NewDockerLogSource()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to docker engine: %w", err)
		}
		rt.LogSource = src
	case config.LogSourceCompose, "":
	default:
		return nil, fmt.Errorf("unknown log source: %s", cfg.LogSource)
	}

	logging.Debug("creating runtime", "command", rt.Name(), "log_source", cfg.LogSource)
	return rt, nil
}
