package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Coordinator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// FetchFunc loads a fresh copy of the coordinated data.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Result describes one refresh attempt.
type Result struct {
	ID       string
	Name     string
	Success  bool
	Duration time.Duration
	Err      error
}

// Option configures a Coordinator.
type Option[T any] func(*Coordinator[T])

// WithLogger sets the coordinator's logger.
func WithLogger[T any](logger Logger) Option[T] {
	return func(c *Coordinator[T]) {
		c.logger = logger
	}
}

// WithResultHook registers fn to run after every refresh attempt,
// successful or not.
func WithResultHook[T any](fn func(Result)) Option[T] {
	return func(c *Coordinator[T]) {
		c.hooks = append(c.hooks, fn)
	}
}

type listenerEntry struct {
	id int
	fn func()
}

// Coordinator caches the result of a fetch function and refreshes it.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - Fetches are serialised; concurrent callers wait for each other.
type Coordinator[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	logger   Logger
	hooks    []func(Result)

	refreshMu sync.Mutex // serialises fetches

	mu          sync.RWMutex
	data        T
	lastSuccess bool
	lastErr     error
	lastUpdate  time.Time

	listenerMu sync.RWMutex
	listeners  []listenerEntry
	nextID     int

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a coordinator. A non-positive interval disables polling;
// Refresh can still be called directly.
func New[T any](name string, interval time.Duration, fetch FetchFunc[T], opts ...Option[T]) *Coordinator[T] {
	c := &Coordinator[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		logger:   noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the coordinator's name.
func (c *Coordinator[T]) Name() string {
	return c.name
}

// Data returns the most recently fetched value.
func (c *Coordinator[T]) Data() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// LastUpdateSuccess reports whether the latest refresh succeeded.
func (c *Coordinator[T]) LastUpdateSuccess() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSuccess
}

// LastError returns the error of the latest refresh, or nil.
func (c *Coordinator[T]) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// LastUpdate returns when the data was last replaced.
func (c *Coordinator[T]) LastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// Refresh fetches once. On failure the previous data is kept and the
// returned error wraps ErrUpdateFailed. Listeners run only on success,
// after the refresh lock is released.
func (c *Coordinator[T]) Refresh(ctx context.Context) error {
	result := c.refresh(ctx)

	for _, hook := range c.hooks {
		hook(result)
	}

	if result.Err != nil {
		c.logger.Warn("coordinator refresh failed",
			"coordinator", c.name, "refresh_id", result.ID, "error", result.Err)
		return fmt.Errorf("%w: %s: %w", ErrUpdateFailed, c.name, result.Err)
	}

	c.logger.Debug("coordinator refreshed",
		"coordinator", c.name, "refresh_id", result.ID, "duration", result.Duration)
	c.notify()
	return nil
}

func (c *Coordinator[T]) refresh(ctx context.Context) Result {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	result := Result{ID: uuid.NewString(), Name: c.name}
	start := time.Now()
	data, err := c.fetch(ctx)
	result.Duration = time.Since(start)
	result.Success = err == nil
	result.Err = err

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastSuccess = false
		c.lastErr = err
		return result
	}
	c.data = data
	c.lastSuccess = true
	c.lastErr = nil
	c.lastUpdate = time.Now()
	return result
}

// FirstRefresh performs the startup fetch. A failure is reported as
// ErrNotReady so setup can abort.
func (c *Coordinator[T]) FirstRefresh(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

// AddListener registers fn to run after each successful refresh and returns
// a function that removes it.
func (c *Coordinator[T]) AddListener(fn func()) func() {
	c.listenerMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		defer c.listenerMu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Coordinator[T]) notify() {
	c.listenerMu.RLock()
	fns := make([]func(), len(c.listeners))
	for i, l := range c.listeners {
		fns[i] = l.fn
	}
	c.listenerMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// Start launches the polling loop. It returns immediately; the loop runs
// until ctx is cancelled or Stop is called.
func (c *Coordinator[T]) Start(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.cancel != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, c.name)
	}
	if c.interval <= 0 {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.poll(loopCtx, c.done)

	c.logger.Info("coordinator started", "coordinator", c.name, "interval", c.interval)
	return nil
}

func (c *Coordinator[T]) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors are logged in Refresh and the loop keeps polling.
			_ = c.Refresh(ctx) //nolint:errcheck // logged in Refresh
		}
	}
}

// Stop ends the polling loop and waits for it to exit. Safe to call when
// not running.
func (c *Coordinator[T]) Stop() {
	c.runMu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.logger.Info("coordinator stopped", "coordinator", c.name)
}
