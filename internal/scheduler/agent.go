// Package scheduler runs the background sync agent: a periodic sweep
// that pushes pending local changes and a slower probe that checks
// remote reachability.
package scheduler

import (
	"context"
	gosync "sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wagetrack/wagetrack/internal/config"
	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/logging"
	"github.com/wagetrack/wagetrack/internal/remote"
	"github.com/wagetrack/wagetrack/internal/sync"
)

// Agent schedules sync maintenance with cron.
type Agent struct {
	cron   *cron.Cron
	engine *sync.Engine
	remote remote.Client

	mu        gosync.Mutex
	lastSweep time.Time
	reachable bool
}

// NewAgent creates a sync agent over an engine and its remote client.
func NewAgent(engine *sync.Engine, remoteClient remote.Client) *Agent {
	return &Agent{
		cron:      cron.New(cron.WithSeconds()),
		engine:    engine,
		remote:    remoteClient,
		reachable: true,
	}
}

// Start registers the sweep and probe jobs and starts the scheduler.
// Specs come from the runtime config.
func (a *Agent) Start() error {
	if _, err := a.cron.AddFunc(config.Global.Scheduler.SweepSpec, a.sweep); err != nil {
		return errors.Wrap(err, "add sweep job")
	}
	if _, err := a.cron.AddFunc(config.Global.Scheduler.ProbeSpec, a.probe); err != nil {
		return errors.Wrap(err, "add probe job")
	}

	a.cron.Start()
	logging.DebugLog("sync agent started",
		"sweep", config.Global.Scheduler.SweepSpec,
		"probe", config.Global.Scheduler.ProbeSpec)
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (a *Agent) Stop() {
	if a.cron != nil {
		ctx := a.cron.Stop()
		<-ctx.Done()
	}
	logging.DebugLog("sync agent stopped")
}

// sweep pushes pending local changes. Flush itself is a no-op when the
// session is clean or absent, so the sweep is cheap in the steady state.
func (a *Agent) sweep() {
	a.mu.Lock()
	a.lastSweep = time.Now()
	a.mu.Unlock()

	err := a.engine.Flush(context.Background())
	if err != nil && !errors.Is(err, errors.ErrNoSession) {
		logging.Warn("sweep push failed", logging.KeyError, err.Error())
	}
}

// probe checks remote reachability and logs transitions.
func (a *Agent) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), config.Global.Sync.PushTimeout)
	defer cancel()

	err := a.remote.Ping(ctx)

	a.mu.Lock()
	was := a.reachable
	a.reachable = err == nil
	a.mu.Unlock()

	if err != nil && was {
		logging.Warn("remote unreachable, working locally", logging.KeyError, err.Error())
	} else if err == nil && !was {
		logging.Info("remote reachable again")
	}
}

// Reachable reports the result of the last probe.
func (a *Agent) Reachable() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reachable
}

// LastSweep returns when the sweep last ran.
func (a *Agent) LastSweep() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSweep
}

// NextRun returns the next scheduled run time for any job.
func (a *Agent) NextRun() time.Time {
	entries := a.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}

	next := entries[0].Next
	for _, e := range entries[1:] {
		if e.Next.Before(next) {
			next = e.Next
		}
	}
	return next
}
