package batch

import (
	"slices"
	"time"
)

// Phase is the lifecycle state of a batch.
type Phase string

const (
	PhasePending  Phase = "pending"
	PhaseStarting Phase = "starting"
	PhaseRunning  Phase = "running"
	PhaseStopping Phase = "stopping"
	PhaseDone     Phase = "done"
)

// EventType classifies controller events.
type EventType string

const (
	EventPhase         EventType = "phase"
	EventStartRequest  EventType = "start-requested"
	EventStarted       EventType = "started"
	EventWaiting       EventType = "waiting"
	EventCompleted     EventType = "completed"
	EventTimedOut      EventType = "timed-out"
	EventStopRequest   EventType = "stop-requested"
	EventStopped       EventType = "stopped"
	EventArchived      EventType = "archived"
	EventCommandFailed EventType = "command-failed"
	EventCooldown      EventType = "cooldown"
)

// Event describes one step of a run. Index is -1 for batch-level events.
type Event struct {
	Time    time.Time
	Type    EventType
	Batch   Batch
	Total   int // number of batches in the run, 0 outside fuzz
	Index   int
	Phase   Phase
	Attempt int
	Elapsed time.Duration
	Path    string
	Err     error
}

// Hook receives controller events synchronously.
type Hook func(Event)

// Report summarises a run by index.
type Report struct {
	Started   []int
	Completed []int
	TimedOut  []int
	Stopped   []int
	Archived  []int
	Failed    []int
	Batches   int
}

func (r *Report) record(e Event) {
	switch e.Type {
	case EventStarted:
		r.Started = append(r.Started, e.Index)
	case EventCompleted:
		r.Completed = append(r.Completed, e.Index)
	case EventTimedOut:
		r.TimedOut = append(r.TimedOut, e.Index)
	case EventStopped:
		r.Stopped = append(r.Stopped, e.Index)
	case EventArchived:
		r.Archived = append(r.Archived, e.Index)
	case EventCommandFailed:
		if !slices.Contains(r.Failed, e.Index) {
			r.Failed = append(r.Failed, e.Index)
		}
	case EventPhase:
		if e.Phase == PhaseDone {
			r.Batches++
		}
	}
}
