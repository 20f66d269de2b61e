package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/wagetrack/wagetrack/internal/config"
	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/logging"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/remote"
	"github.com/wagetrack/wagetrack/internal/storage"
)

// State is the sync state of the active session, from the client's
// point of view.
type State int

const (
	// StateUnsynced means local changes have not reached the remote yet.
	StateUnsynced State = iota
	// StateSyncing means a push or fetch is in flight.
	StateSyncing
	// StateSynced means local and remote agree as of the last exchange.
	StateSynced
	// StateConflict means the last push was rejected and the remote copy
	// is being adopted.
	StateConflict
)

func (s State) String() string {
	switch s {
	case StateUnsynced:
		return "unsynced"
	case StateSyncing:
		return "syncing"
	case StateConflict:
		return "conflict"
	default:
		return "synced"
	}
}

// Status is a snapshot of the engine for display.
type Status struct {
	Account      string
	State        State
	LocalVersion int64
	Dirty        bool
	LastSyncedAt time.Time
	LastError    string
}

// Options configures an Engine.
type Options struct {
	// DebounceWindow is the delay between the last local mutation and
	// the push it triggers.
	DebounceWindow time.Duration
	// PushTimeout bounds one push or fetch round trip.
	PushTimeout time.Duration
}

// DefaultOptions returns engine options from the runtime config.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: config.Global.Sync.DebounceWindow,
		PushTimeout:    config.Global.Sync.PushTimeout,
	}
}

// Engine owns the sync lifecycle for one logged-in account: the login
// reconciliation, the debounced push after each mutation, and the
// conflict path when the remote has moved on.
//
// Local writes always land first and always succeed independent of the
// remote; the engine only decides when and whether the remote copy
// catches up.
type Engine struct {
	local  *storage.LocalStore
	remote remote.Client
	opts   Options

	mu       gosync.Mutex
	account  string
	state    State
	dirty    bool
	lastSync time.Time
	lastErr  error
	timer    *time.Timer

	// pushMu serializes pushes for the account: a second push never
	// starts while one is outstanding.
	pushMu gosync.Mutex
	wg     gosync.WaitGroup
}

// NewEngine creates a sync engine over a local store and remote client.
func NewEngine(local *storage.LocalStore, remoteClient remote.Client, opts Options) *Engine {
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = config.Global.Sync.DebounceWindow
	}
	if opts.PushTimeout <= 0 {
		opts.PushTimeout = config.Global.Sync.PushTimeout
	}
	return &Engine{
		local:  local,
		remote: remoteClient,
		opts:   opts,
		state:  StateUnsynced,
	}
}

// Login reconciles the local and remote copies for an account and
// returns the winning state, already written to both sides. Call after
// the registry has authenticated the account.
func (e *Engine) Login(ctx context.Context, accountID string) (model.AppState, error) {
	e.mu.Lock()
	e.account = accountID
	e.state = StateSyncing
	e.mu.Unlock()

	local := e.local.Load(accountID)

	ctx, cancel := context.WithTimeout(ctx, e.opts.PushTimeout)
	defer cancel()

	remoteState, ok, err := e.remote.Fetch(ctx, accountID)
	if err != nil {
		// Local-first: a dead remote must not block login. Work off the
		// local copy and let the next push catch up.
		logging.Warn("remote fetch failed at login, continuing locally",
			logging.KeyAccount, accountID, logging.KeyError, err.Error())
		e.setState(StateUnsynced, err)
		e.markDirty()
		return local, nil
	}

	if !ok {
		// Nothing remote yet: seed it with the local copy.
		return e.adoptPush(ctx, accountID, local)
	}

	winner, side := Reconcile(local, remoteState)
	logging.DebugLog("login reconciliation",
		logging.KeyAccount, accountID,
		"winner", side.String(),
		"local_version", local.Version,
		"remote_version", remoteState.Version)

	if side == SideRemote {
		if err := e.local.Save(accountID, winner); err != nil {
			return model.AppState{}, errors.NewSystemErrorWithOp("login", "could not adopt remote state", err)
		}
		e.setState(StateSynced, nil)
		e.mu.Lock()
		e.dirty = false
		e.lastSync = time.Now()
		e.mu.Unlock()
		return winner, nil
	}

	// Local won: the remote copy is stale, overwrite it.
	return e.adoptPush(ctx, accountID, winner)
}

// adoptPush pushes state and saves the stamped result locally.
func (e *Engine) adoptPush(ctx context.Context, accountID string, state model.AppState) (model.AppState, error) {
	res, err := e.remote.Push(ctx, accountID, state)
	if err != nil {
		logging.Warn("push failed at login, continuing locally",
			logging.KeyAccount, accountID, logging.KeyError, err.Error())
		e.setState(StateUnsynced, err)
		e.markDirty()
		return state, nil
	}
	if !res.Accepted {
		// Lost a race between fetch and push; the remote copy is newer
		// by definition of the version rule.
		winner, _ := Reconcile(state, res.State)
		if err := e.local.Save(accountID, winner); err != nil {
			return model.AppState{}, errors.NewSystemErrorWithOp("login", "could not adopt remote state", err)
		}
		e.setState(StateSynced, nil)
		return winner, nil
	}
	if err := e.local.Save(accountID, res.State); err != nil {
		return model.AppState{}, errors.NewSystemErrorWithOp("login", "could not save synced state", err)
	}
	e.setState(StateSynced, nil)
	e.mu.Lock()
	e.dirty = false
	e.lastSync = time.Now()
	e.mu.Unlock()
	return res.State, nil
}

// Commit persists a mutated state locally (synchronously, so nothing is
// lost if the process exits) and schedules the debounced push. Each new
// commit replaces any still-pending push timer: rapid edits coalesce
// into one round trip carrying the latest state.
func (e *Engine) Commit(state model.AppState) error {
	e.mu.Lock()
	account := e.account
	e.mu.Unlock()
	if account == "" {
		return errors.ErrNoSession
	}

	if err := e.local.Save(account, state); err != nil {
		return errors.NewSystemErrorWithOp("commit", "could not save state", err)
	}

	e.markDirty()
	e.schedule()
	return nil
}

// markDirty flags unsynced local changes.
func (e *Engine) markDirty() {
	e.mu.Lock()
	e.dirty = true
	if e.state == StateSynced {
		e.state = StateUnsynced
	}
	e.mu.Unlock()
}

// schedule (re)arms the debounce timer, replacing any pending one.
func (e *Engine) schedule() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimerLocked()
	e.wg.Add(1)
	e.timer = time.AfterFunc(e.opts.DebounceWindow, func() {
		defer e.wg.Done()
		if err := e.Flush(context.Background()); err != nil {
			logging.Warn("scheduled push failed",
				logging.KeyError, err.Error())
		}
	})
}

// cancelTimerLocked stops a pending debounce timer. Callers hold e.mu.
// A successfully stopped timer never runs its callback, so its WaitGroup
// slot is released here.
func (e *Engine) cancelTimerLocked() {
	if e.timer != nil && e.timer.Stop() {
		e.wg.Done()
	}
	e.timer = nil
}

// Flush pushes the current local state now, if there are unsynced
// changes. Used by the debounce timer, the sync agent sweep, logout,
// and `wagetrack sync now`.
//
// A failed push leaves the local state and version untouched; the next
// mutation or sweep retries.
func (e *Engine) Flush(ctx context.Context) error {
	e.pushMu.Lock()
	defer e.pushMu.Unlock()

	e.mu.Lock()
	account := e.account
	dirty := e.dirty
	e.cancelTimerLocked()
	e.mu.Unlock()

	if account == "" {
		return errors.ErrNoSession
	}
	if !dirty {
		return nil
	}

	e.setState(StateSyncing, nil)

	ctx, cancel := context.WithTimeout(ctx, e.opts.PushTimeout)
	defer cancel()

	local := e.local.Load(account)
	res, err := e.remote.Push(ctx, account, local)
	if err != nil {
		rerr := errors.NewRecoverableError("push failed", err)
		e.setState(StateUnsynced, rerr)
		return rerr
	}

	if !res.Accepted {
		// Another device moved the account forward. Adopt the remote
		// copy; the user re-applies anything that still matters.
		e.setState(StateConflict, errors.ErrPushConflict)
		winner, side := Reconcile(local, res.State)
		logging.Info("push conflict, adopting winner",
			logging.KeyAccount, account,
			"winner", side.String(),
			"local_version", local.Version,
			"remote_version", res.State.Version)
		if err := e.local.Save(account, winner); err != nil {
			return errors.NewSystemErrorWithOp("conflict", "could not adopt remote state", err)
		}
		e.mu.Lock()
		e.dirty = false
		e.state = StateSynced
		e.lastSync = time.Now()
		e.lastErr = nil
		e.mu.Unlock()
		return nil
	}

	if err := e.local.Save(account, res.State); err != nil {
		return errors.NewSystemErrorWithOp("push", "could not save stamped state", err)
	}

	e.mu.Lock()
	e.dirty = false
	e.state = StateSynced
	e.lastSync = time.Now()
	e.lastErr = nil
	e.mu.Unlock()

	logging.DebugLog("state synced",
		logging.KeyAccount, account, logging.KeyVersion, res.State.Version)
	return nil
}

// Pull fetches the remote copy and reconciles it against local,
// writing the winner locally. Used by `wagetrack sync pull`.
func (e *Engine) Pull(ctx context.Context) (model.AppState, error) {
	e.mu.Lock()
	account := e.account
	e.mu.Unlock()
	if account == "" {
		return model.AppState{}, errors.ErrNoSession
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.PushTimeout)
	defer cancel()

	local := e.local.Load(account)
	remoteState, ok, err := e.remote.Fetch(ctx, account)
	if err != nil {
		return model.AppState{}, errors.NewRecoverableError("fetch failed", err)
	}
	if !ok {
		return local, nil
	}

	winner, side := Reconcile(local, remoteState)
	if side == SideRemote {
		if err := e.local.Save(account, winner); err != nil {
			return model.AppState{}, errors.NewSystemErrorWithOp("pull", "could not adopt remote state", err)
		}
		e.mu.Lock()
		e.dirty = false
		e.lastSync = time.Now()
		e.state = StateSynced
		e.mu.Unlock()
	}
	return winner, nil
}

// Logout flushes pending changes and ends the session.
func (e *Engine) Logout(ctx context.Context) error {
	err := e.Flush(ctx)
	if err != nil && !errors.Is(err, errors.ErrNoSession) {
		logging.Warn("flush on logout failed, local copy is intact",
			logging.KeyError, err.Error())
	}

	e.mu.Lock()
	e.cancelTimerLocked()
	e.account = ""
	e.state = StateUnsynced
	e.dirty = false
	e.mu.Unlock()
	return nil
}

// Account returns the active session account, if any.
func (e *Engine) Account() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.account, e.account != ""
}

// Status returns a display snapshot of the engine.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		Account:      e.account,
		State:        e.state,
		Dirty:        e.dirty,
		LastSyncedAt: e.lastSync,
	}
	if e.lastErr != nil {
		st.LastError = e.lastErr.Error()
	}
	if e.account != "" {
		st.LocalVersion = e.local.Load(e.account).Version
	}
	return st
}

// Wait blocks until any scheduled push goroutines finish. Test helper
// and shutdown hook.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) setState(s State, err error) {
	e.mu.Lock()
	e.state = s
	e.lastErr = err
	e.mu.Unlock()
}
