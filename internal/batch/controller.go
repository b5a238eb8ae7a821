package batch

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/ranfuzz/ranfuzz-ctl/internal/config"
	"github.com/ranfuzz/ranfuzz-ctl/internal/errors"
	"github.com/ranfuzz/ranfuzz-ctl/internal/health"
	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
	"github.com/ranfuzz/ranfuzz-ctl/internal/monitor"
	"github.com/ranfuzz/ranfuzz-ctl/internal/network"
	"github.com/ranfuzz/ranfuzz-ctl/internal/runtime"
	"github.com/ranfuzz/ranfuzz-ctl/internal/system"
)

// ErrWaitTimeout is returned by Observe when a group does not log the
// completion marker within the configured wait timeout.
var ErrWaitTimeout = stderrors.New("timed out waiting for completion")

// Controller drives container groups through start, observe and stop.
// Calls are sequential; a Controller is not safe for concurrent use.
type Controller struct {
	cfg    config.Config
	rt     runtime.Runtime
	layout runtime.Layout
	fs     system.FileSystem
	hooks  []Hook
	sleep  func(ctx context.Context, d time.Duration) error

	handles map[int]*runtime.Handle
	report  *Report
	batch   Batch
	total   int
}

// Option configures a Controller.
type Option func(*Controller)

// WithHook registers an event hook. Hooks run in registration order.
func WithHook(h Hook) Option {
	return func(c *Controller) {
		c.hooks = append(c.hooks, h)
	}
}

// WithFileSystem sets the file system used for log archives.
func WithFileSystem(fs system.FileSystem) Option {
	return func(c *Controller) {
		c.fs = fs
	}
}

// WithSleep replaces the cooldown sleep.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Controller) {
		c.sleep = fn
	}
}

// New creates a Controller for cfg driving rt.
func New(cfg config.Config, rt runtime.Runtime, opts ...Option) *Controller {
	c := &Controller{
		cfg:     cfg,
		rt:      rt,
		layout:  runtime.NewLayout(cfg),
		fs:      system.DefaultFS(),
		sleep:   sleepContext,
		handles: make(map[int]*runtime.Handle),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the controller's configuration.
func (c *Controller) Config() config.Config {
	return c.cfg
}

// CheckRange refuses ranges larger than one batch for the direct start and
// stop operations.
func (c *Controller) CheckRange(r Range) error {
	if err := r.Validate(); err != nil {
		return rangeError(err)
	}
	if r.Len() > c.cfg.BatchSize {
		return errors.RangeTooLarge(r.Len(), c.cfg.BatchSize)
	}
	return nil
}

// Start brings up every group in r without waiting for completion.
func (c *Controller) Start(ctx context.Context, r Range) (*Report, error) {
	if err := c.CheckRange(r); err != nil {
		return nil, err
	}
	c.begin(Batch{Number: 1, Range: r}, 0)

	for _, n := range r.Indexes() {
		if err := ctx.Err(); err != nil {
			return c.report, err
		}
		c.startOne(ctx, n)
	}
	return c.report, nil
}

// Stop tears down every group in r. Unless force is set, each group is
// observed for the completion marker first.
func (c *Controller) Stop(ctx context.Context, r Range, force bool) (*Report, error) {
	if err := c.CheckRange(r); err != nil {
		return nil, err
	}
	c.begin(Batch{Number: 1, Range: r}, 0)

	for _, n := range r.Indexes() {
		if err := c.stopOne(ctx, n, force); err != nil {
			return c.report, err
		}
	}
	return c.report, nil
}

// Fuzz runs the full batched cycle over r: start a batch, stop it, pause,
// and move on. The pause is skipped after the last batch.
func (c *Controller) Fuzz(ctx context.Context, r Range) (*Report, error) {
	batches, err := Partition(r, c.cfg.BatchSize)
	if err != nil {
		return nil, rangeError(err)
	}
	c.begin(Batch{}, len(batches))

	logging.Debug("starting fuzz run", "range", r.String(), "batches", len(batches), "batch_size", c.cfg.BatchSize)

	for i, b := range batches {
		c.batch = b
		c.phase(PhasePending)

		c.phase(PhaseStarting)
		for _, n := range b.Indexes() {
			if err := ctx.Err(); err != nil {
				return c.report, err
			}
			c.startOne(ctx, n)
		}

		c.phase(PhaseRunning)
		c.phase(PhaseStopping)
		for _, n := range b.Indexes() {
			if err := c.stopOne(ctx, n, false); err != nil {
				return c.report, err
			}
		}
		c.reap(b)
		c.phase(PhaseDone)

		if i < len(batches)-1 && c.cfg.Cooldown.Duration > 0 {
			c.emit(Event{Type: EventCooldown, Index: -1, Elapsed: c.cfg.Cooldown.Duration})
			if err := c.sleep(ctx, c.cfg.Cooldown.Duration); err != nil {
				return c.report, err
			}
		}
	}

	return c.report, nil
}

// Observe polls the group's logs until the completion marker appears.
// It waits forever when no wait timeout is configured and returns
// ErrWaitTimeout otherwise.
func (c *Controller) Observe(ctx context.Context, index int) error {
	p := c.layout.Project(index)
	began := time.Now()

	check := func(ctx context.Context) (bool, error) {
		logs, err := c.rt.Logs(ctx, p)
		if err != nil {
			return false, err
		}
		return health.CheckCompletion(logs, c.cfg.Marker) == health.StatusComplete, nil
	}

	err := monitor.WaitFor(ctx, check,
		monitor.WithInterval(c.cfg.PollInterval.Duration),
		monitor.WithTimeout(c.cfg.WaitTimeout.Duration),
		monitor.WithAttemptHook(func(a monitor.Attempt) {
			c.emit(Event{Type: EventWaiting, Index: index, Attempt: a.N, Elapsed: a.Elapsed, Err: a.Err})
		}),
	)
	switch {
	case err == nil:
		c.emit(Event{Type: EventCompleted, Index: index, Elapsed: time.Since(began)})
		return nil
	case errors.Is(err, monitor.ErrTimeout):
		c.emit(Event{Type: EventTimedOut, Index: index, Elapsed: time.Since(began), Err: ErrWaitTimeout})
		return fmt.Errorf("group %d: %w", index, ErrWaitTimeout)
	default:
		return err
	}
}

// Archive writes the group's full logs to <logs dir>/<n>.txt and returns
// the file path.
func (c *Controller) Archive(ctx context.Context, index int) (string, error) {
	p := c.layout.Project(index)

	logs, err := c.rt.Logs(ctx, p)
	if err != nil {
		return "", err
	}

	path, err := securejoin.SecureJoin(c.cfg.LogsDir, fmt.Sprintf("%d.txt", index))
	if err != nil {
		return "", fmt.Errorf("invalid log path: %w", err)
	}
	if err := c.fs.MkdirAll(c.cfg.LogsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create logs directory: %w", err)
	}
	if err := c.fs.WriteFile(path, []byte(logs), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	c.emit(Event{Type: EventArchived, Index: index, Path: path})
	return path, nil
}

func (c *Controller) begin(b Batch, total int) {
	c.report = &Report{}
	c.batch = b
	c.total = total
}

func (c *Controller) startOne(ctx context.Context, n int) {
	p := c.layout.Project(n)
	c.emit(Event{Type: EventStartRequest, Index: n})

	h, err := c.rt.Up(ctx, p)
	if err != nil {
		c.commandFailed(n, err)
		return
	}
	c.handles[n] = h
	c.emit(Event{Type: EventStarted, Index: n})
}

// stopOne only returns an error when the context ends; everything else is
// reported through events.
func (c *Controller) stopOne(ctx context.Context, n int, force bool) error {
	if !force {
		err := c.Observe(ctx, n)
		if err != nil && !errors.Is(err, ErrWaitTimeout) {
			return err
		}
	}

	if c.cfg.ArchiveLogs {
		if _, err := c.Archive(ctx, n); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.commandFailed(n, err)
		}
	}

	c.emit(Event{Type: EventStopRequest, Index: n})
	if err := c.rt.Down(ctx, c.layout.Project(n)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.commandFailed(n, err)
		return nil
	}
	c.emit(Event{Type: EventStopped, Index: n})
	return nil
}

// reap collects the exit status of the batch's detached start commands.
func (c *Controller) reap(b Batch) {
	for _, n := range b.Indexes() {
		h, ok := c.handles[n]
		if !ok {
			continue
		}
		delete(c.handles, n)
		if err := h.Wait(); err != nil {
			c.commandFailed(n, err)
		}
	}
}

func (c *Controller) commandFailed(n int, err error) {
	logging.Debug("external command failed", "index", n, "error", err)
	c.emit(Event{Type: EventCommandFailed, Index: n, Err: err})
}

func (c *Controller) phase(p Phase) {
	logging.Debug("batch phase", "batch", c.batch.Number, "range", c.batch.Range.String(), "phase", p)
	c.emit(Event{Type: EventPhase, Index: -1, Phase: p})
}

func (c *Controller) emit(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.Batch = c.batch
	e.Total = c.total
	if c.report != nil {
		c.report.record(e)
	}
	for _, h := range c.hooks {
		h(e)
	}
}

func rangeError(err error) error {
	if errors.Is(err, network.ErrAddressSpaceExhausted) {
		return errors.AddressSpace(err)
	}
	return errors.ValidationError(err.Error())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
