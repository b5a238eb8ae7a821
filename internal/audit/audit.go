// Package audit provides structured event logging for container group
// lifecycle events. Events are stored as JSON Lines (JSONL) files, one per
// iteration index.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventStart    EventType = "start"
	EventComplete EventType = "complete"
	EventTimeout  EventType = "timeout"
	EventStop     EventType = "stop"
	EventArchive  EventType = "archive"
	EventError    EventType = "error"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Index     int       `json:"index"`
	Batch     int       `json:"batch,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads audit events for container groups.
// Events are stored in {logsDir}/events/{index}.jsonl.
type Logger struct {
	logsDir string
}

// NewLogger creates a new audit logger rooted at logsDir.
func NewLogger(logsDir string) *Logger {
	return &Logger{logsDir: logsDir}
}

// eventPath returns the path to the JSONL event log for an index.
func (l *Logger) eventPath(index int) string {
	return filepath.Join(l.logsDir, "events", strconv.Itoa(index)+".jsonl")
}

// Log appends an event to the index's audit log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path := l.eventPath(event.Index)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, index int, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Index:     index,
		Details:   details,
	})
}

// Events reads all events for an index in chronological order.
func (l *Logger) Events(index int) ([]Event, error) {
	path := l.eventPath(index)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// Remove deletes the audit log for an index.
func (l *Logger) Remove(index int) error {
	path := l.eventPath(index)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Hook returns a controller hook that records lifecycle events.
// Write failures are logged and never interrupt the run.
func (l *Logger) Hook() batch.Hook {
	return func(e batch.Event) {
		event, ok := fromBatchEvent(e)
		if !ok {
			return
		}
		if err := l.Log(event); err != nil {
			logging.Warn("failed to write audit event", "index", e.Index, "error", err)
		}
	}
}

func fromBatchEvent(e batch.Event) (Event, bool) {
	event := Event{Timestamp: e.Time, Index: e.Index, Batch: e.Batch.Number}

	switch e.Type {
	case batch.EventStarted:
		event.Type = EventStart
	case batch.EventCompleted:
		event.Type = EventComplete
		event.Details = "waited " + e.Elapsed.Round(time.Millisecond).String()
	case batch.EventTimedOut:
		event.Type = EventTimeout
		event.Details = "gave up after " + e.Elapsed.Round(time.Millisecond).String()
	case batch.EventStopped:
		event.Type = EventStop
	case batch.EventArchived:
		event.Type = EventArchive
		event.Details = e.Path
	case batch.EventCommandFailed:
		event.Type = EventError
		if e.Err != nil {
			event.Details = e.Err.Error()
		}
	default:
		return Event{}, false
	}
	return event, true
}
