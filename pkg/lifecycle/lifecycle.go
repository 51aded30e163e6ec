// Package lifecycle runs subsystem startup and shutdown hooks and reports
// which subsystems are still pending.
package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem can serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator starts hooks concurrently, gates readiness on tracked
// subsystems, and drains named shutdown hooks once its context is cancelled.
type Coordinator struct {
	ctx     context.Context
	cancel  context.CancelFunc
	startup sync.WaitGroup

	mu       sync.Mutex
	ready    bool
	checks   map[string]ReadinessChecker
	draining map[string]struct{}
	drained  chan struct{}
	hooks    sync.WaitGroup
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:      ctx,
		cancel:   cancel,
		checks:   make(map[string]ReadinessChecker),
		draining: make(map[string]struct{}),
	}
}

// Context is cancelled when Shutdown begins. Startup hooks use it to bound
// their connection attempts.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently. WaitForStartup blocks until every
// startup hook returns.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown registers fn under name. It runs after Shutdown cancels the
// context and counts as draining until it returns.
func (c *Coordinator) OnShutdown(name string, fn func()) {
	c.mu.Lock()
	c.draining[name] = struct{}{}
	c.mu.Unlock()

	c.hooks.Go(func() {
		<-c.ctx.Done()
		fn()

		c.mu.Lock()
		delete(c.draining, name)
		c.mu.Unlock()
	})
}

// Track registers a named subsystem whose readiness gates Ready. Tracking
// the same name again replaces the earlier check.
func (c *Coordinator) Track(name string, check ReadinessChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Ready reports whether startup finished and every tracked subsystem is ready.
func (c *Coordinator) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready && len(c.pending()) == 0
}

// Pending returns the sorted names of tracked subsystems that are not ready.
func (c *Coordinator) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending()
}

func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
}

// Shutdown cancels the context and waits up to timeout for the shutdown
// hooks. On timeout the error names the hooks still running.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	c.ready = false
	if c.drained == nil {
		c.drained = make(chan struct{})
		go func(done chan struct{}) {
			c.hooks.Wait()
			close(done)
		}(c.drained)
	}
	drained := c.drained
	c.mu.Unlock()

	c.cancel()

	select {
	case <-drained:
		return nil
	case <-time.After(timeout):
		c.mu.Lock()
		names := slices.Sorted(maps.Keys(c.draining))
		c.mu.Unlock()
		return fmt.Errorf("shutdown timeout after %v: %s still draining", timeout, strings.Join(names, ", "))
	}
}

func (c *Coordinator) pending() []string {
	var names []string
	for name, check := range c.checks {
		if !check.Ready() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
