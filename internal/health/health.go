package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ranfuzz/ranfuzz-ctl/internal/runtime"
)

// Status represents the progress of one container group
type Status string

const (
	StatusComplete Status = "complete"
	StatusPending  Status = "pending"
	StatusStopped  Status = "stopped"
)

// CheckResult contains the results of a group check
type CheckResult struct {
	Running    bool
	Complete   bool
	Containers int
}

// CheckCompletion reports whether logs contain the completion marker.
// An empty marker never matches.
func CheckCompletion(logs, marker string) Status {
	if marker != "" && strings.Contains(logs, marker) {
		return StatusComplete
	}
	return StatusPending
}

// Check inspects a project's containers and, when any exist, its logs.
func Check(ctx context.Context, rt runtime.Runtime, p runtime.Project, marker string) (*CheckResult, error) {
	result := &CheckResult{}

	info, err := rt.Status(ctx, p)
	if err != nil {
		return result, err
	}
	result.Running = info.Running()
	result.Containers = len(info.Containers)
	if !result.Running {
		return result, nil
	}

	logs, err := rt.Logs(ctx, p)
	if err != nil {
		return result, err
	}
	result.Complete = CheckCompletion(logs, marker) == StatusComplete
	return result, nil
}

// GetSummary returns a summary status for a project.
// Errors are reported as StatusStopped.
func GetSummary(ctx context.Context, rt runtime.Runtime, p runtime.Project, marker string) Status {
	result, err := Check(ctx, rt, p, marker)
	if err != nil || !result.Running {
		return StatusStopped
	}
	if result.Complete {
		return StatusComplete
	}
	return StatusPending
}

// FormatDuration renders an elapsed wait in a compact form.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}
