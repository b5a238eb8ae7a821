package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
)

// composeProjectLabel is set by compose on every container it creates.
const composeProjectLabel = "com.docker.compose.project"

var invalidProjectChars = regexp.MustCompile(`[^a-z0-9_-]`)

// NormalizeProjectName returns the project name compose stores in
// container labels.
func NormalizeProjectName(name string) string {
	return invalidProjectChars.ReplaceAllString(strings.ToLower(name), "")
}

// dockerAPI is the subset of the Engine client used for log collection.
type dockerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
}

// DockerLogSource reads project logs through the Docker Engine API
// instead of the compose CLI.
type DockerLogSource struct {
	api dockerAPI
}

// NewDockerLogSource connects to the engine configured by the DOCKER_*
// environment variables.
func NewDockerLogSource() (*DockerLogSource, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &DockerLogSource{api: cli}, nil
}

// Logs returns the stdout and stderr of every container in the project, each
// line prefixed with the container name the way `compose logs` does.
func (s *DockerLogSource) Logs(ctx context.Context, p Project) (string, error) {
	project := NormalizeProjectName(p.Name)
	containers, err := s.api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", composeProjectLabel+"="+project)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list containers for %s: %w", p.Name, err)
	}

	sort.Slice(containers, func(i, j int) bool {
		return containerName(containers[i]) < containerName(containers[j])
	})

	var out strings.Builder
	for _, c := range containers {
		name := containerName(c)
		text, err := s.containerLogs(ctx, c.ID)
		if err != nil {
			return out.String(), fmt.Errorf("failed to read logs of %s: %w", name, err)
		}
		for _, line := range strings.SplitAfter(text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(name)
			out.WriteString("  | ")
			out.WriteString(line)
		}
		if text != "" && !strings.HasSuffix(text, "\n") {
			out.WriteString("\n")
		}
	}

	logging.Debug("collected engine logs", "project", project, "containers", len(containers))
	return out.String(), nil
}

func (s *DockerLogSource) containerLogs(ctx context.Context, id string) (string, error) {
	info, err := s.api.ContainerInspect(ctx, id)
	if err != nil {
		return "", err
	}

	rc, err := s.api.ContainerLogs(ctx, id, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	var buf bytes.Buffer
	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(&buf, rc)
	} else {
		_, err = stdcopy.StdCopy(&buf, &buf, rc)
	}
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func containerName(c types.Container) string {
	if len(c.Names) > 0 {
		return strings.TrimPrefix(c.Names[0], "/")
	}
	if len(c.ID) > 12 {
		return c.ID[:12]
	}
	return c.ID
}

var _ LogSource = (*DockerLogSource)(nil)
