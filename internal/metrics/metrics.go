// Package metrics exposes fuzz run counters in Prometheus text format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
)

// RunCollector counts container group lifecycle events.
type RunCollector struct {
	gatherer prometheus.Gatherer

	GroupsStarted    prometheus.Counter
	GroupsStopped    prometheus.Counter
	GroupsCompleted  prometheus.Counter
	WaitTimeouts     prometheus.Counter
	CommandFailures  prometheus.Counter
	BatchesCompleted prometheus.Counter
	CompletionWait   prometheus.Histogram
}

// NewRunCollector registers run metrics against the provided registerer.
func NewRunCollector(reg prometheus.Registerer) (*RunCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &RunCollector{gatherer: gatherer}

	counters := []struct {
		dst  *prometheus.Counter
		name string
		help string
	}{
		{&c.GroupsStarted, "ranfuzz_groups_started_total", "Container groups brought up."},
		{&c.GroupsStopped, "ranfuzz_groups_stopped_total", "Container groups torn down."},
		{&c.GroupsCompleted, "ranfuzz_groups_completed_total", "Container groups that logged the completion marker."},
		{&c.WaitTimeouts, "ranfuzz_wait_timeouts_total", "Container groups that timed out waiting for completion."},
		{&c.CommandFailures, "ranfuzz_command_failures_total", "External runtime commands that failed."},
		{&c.BatchesCompleted, "ranfuzz_batches_completed_total", "Batches that finished their stop phase."},
	}
	for _, ct := range counters {
		counter, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: ct.name,
			Help: ct.help,
		}), ct.name)
		if err != nil {
			return nil, err
		}
		*ct.dst = counter
	}

	hist, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ranfuzz_completion_wait_seconds",
		Help:    "Time from the first log poll until the completion marker was seen.",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300, 600},
	}), "ranfuzz_completion_wait_seconds")
	if err != nil {
		return nil, err
	}
	c.CompletionWait = hist

	return c, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *RunCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveCompletion records how long a group took to complete.
func (c *RunCollector) ObserveCompletion(d time.Duration) {
	if c == nil || c.CompletionWait == nil {
		return
	}
	c.CompletionWait.Observe(d.Seconds())
}

// Hook returns a controller hook that updates the collector.
func (c *RunCollector) Hook() batch.Hook {
	return func(e batch.Event) {
		switch e.Type {
		case batch.EventStarted:
			c.GroupsStarted.Inc()
		case batch.EventStopped:
			c.GroupsStopped.Inc()
		case batch.EventCompleted:
			c.GroupsCompleted.Inc()
			c.ObserveCompletion(e.Elapsed)
		case batch.EventTimedOut:
			c.WaitTimeouts.Inc()
		case batch.EventCommandFailed:
			c.CommandFailures.Inc()
		case batch.EventPhase:
			if e.Phase == batch.PhaseDone {
				c.BatchesCompleted.Inc()
			}
		}
	}
}

// WriteTextfile writes the collected metrics to path in the text
// exposition format read by node_exporter's textfile collector.
func (c *RunCollector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
