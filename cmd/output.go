package cmd

import (
	"math"
	"time"

	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
	"github.com/ranfuzz/ranfuzz-ctl/internal/health"
	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
)

// consoleHook prints controller events as user messages. Wait attempts
// share one rewritten line per group.
func consoleHook() batch.Hook {
	waiting := false
	endWait := func() {
		if waiting {
			logging.UserProgressDone()
			waiting = false
		}
	}

	return func(e batch.Event) {
		if e.Type != batch.EventWaiting || e.Err != nil {
			endWait()
		}

		switch e.Type {
		case batch.EventPhase:
			if e.Total == 0 {
				return
			}
			switch e.Phase {
			case batch.PhasePending:
				logHeader("Fuzzing group %d/%d %s", e.Batch.Number, e.Total, e.Batch.Range)
			case batch.PhaseStarting:
				logInfo("Starting group %d %s", e.Batch.Number, e.Batch.Range)
			case batch.PhaseStopping:
				logInfo("Stopping group %d %s", e.Batch.Number, e.Batch.Range)
			}
		case batch.EventStartRequest:
			logInfo("requested to start container %d", e.Index)
		case batch.EventWaiting:
			if e.Err != nil {
				logWarning("log check for container %d failed: %v", e.Index, e.Err)
				return
			}
			logging.UserProgress("Waiting %ds for test completion on container %d", waitedSeconds(e.Elapsed), e.Index)
			waiting = true
		case batch.EventCompleted:
			logSuccess("container %d finished after %s", e.Index, health.FormatDuration(e.Elapsed))
		case batch.EventTimedOut:
			logWarning("container %d did not finish within %s, stopping anyway", e.Index, health.FormatDuration(e.Elapsed))
		case batch.EventArchived:
			logInfo("saved logs for container %d to %s", e.Index, e.Path)
		case batch.EventStopRequest:
			logInfo("closing container %d", e.Index)
		case batch.EventStopped:
			logInfo("requested to close container %d", e.Index)
		case batch.EventCommandFailed:
			logWarning("container %d: %v", e.Index, e.Err)
		case batch.EventCooldown:
			logHeader("Fuzz group %d complete, starting next group in %s", e.Batch.Number, e.Elapsed)
		}
	}
}

// waitedSeconds counts a wait in whole seconds, rounding up from 1.
func waitedSeconds(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}
