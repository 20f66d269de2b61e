package remote

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wagetrack/wagetrack/internal/config"
	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/logging"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/storage"
)

// timeNow is a test seam for clock control.
var timeNow = time.Now

// Simulator is a Client backed by a second local database. It mimics a
// cloud store: artificial round-trip latency, version stamping on
// accepted writes, and an injectable fault for tests.
type Simulator struct {
	db      *storage.DB
	latency time.Duration

	mu       sync.Mutex
	failNext int
}

// NewSimulator creates a simulator over its own database. Pass an
// in-memory database and zero latency in tests.
func NewSimulator(db *storage.DB, latency time.Duration) *Simulator {
	return &Simulator{db: db, latency: latency}
}

// NewDefaultSimulator creates a simulator with the configured latency.
func NewDefaultSimulator(db *storage.DB) *Simulator {
	return NewSimulator(db, config.Global.Remote.Latency)
}

// FailNext makes the next n operations fail with ErrRemoteUnavailable.
// Test hook for exercising retry paths.
func (s *Simulator) FailNext(n int) {
	s.mu.Lock()
	s.failNext = n
	s.mu.Unlock()
}

func (s *Simulator) roundTrip(ctx context.Context) error {
	s.mu.Lock()
	if s.failNext > 0 {
		s.failNext--
		s.mu.Unlock()
		return errors.ErrRemoteUnavailable
	}
	s.mu.Unlock()

	if s.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.latency):
		return nil
	}
}

// Fetch reads the remote copy of an account's state.
func (s *Simulator) Fetch(ctx context.Context, accountID string) (model.AppState, bool, error) {
	if err := s.roundTrip(ctx); err != nil {
		return model.AppState{}, false, err
	}

	data, err := s.db.GetBytes(model.StateKey(accountID))
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			return model.AppState{}, false, nil
		}
		return model.AppState{}, false, errors.NewSystemErrorWithOp("fetch", "remote read failed", err)
	}

	var state model.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt remote record is treated as absent, same as the
		// local adapter: the next accepted push rewrites it.
		logging.Warn("remote state corrupt, treating as absent",
			logging.KeyAccount, accountID, logging.KeyError, err.Error())
		return model.AppState{}, false, nil
	}
	return state, true, nil
}

// Push applies the optimistic concurrency check and either stamps and
// stores the client state or rejects it with the current remote copy.
// A rejected push leaves the remote record untouched.
func (s *Simulator) Push(ctx context.Context, accountID string, clientState model.AppState) (PushResult, error) {
	if err := s.roundTrip(ctx); err != nil {
		return PushResult{}, err
	}

	// Serialize pushes so two devices can't both read version N and
	// write N+1.
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok, err := s.read(accountID)
	if err != nil {
		return PushResult{}, err
	}

	if ok && current.Version > clientState.Version {
		logging.DebugLog("push rejected",
			logging.KeyAccount, accountID,
			"client_version", clientState.Version,
			"remote_version", current.Version)
		return PushResult{Accepted: false, State: current}, nil
	}

	stamped := clientState.Clone()
	if ok {
		stamped.Version = current.Version + 1
	} else {
		stamped.Version = clientState.Version + 1
	}
	stamped.UpdatedAt = timeNow()

	if err := s.db.SetJSON(model.StateKey(accountID), stamped); err != nil {
		return PushResult{}, errors.NewSystemErrorWithOp("push", "remote write failed", err)
	}

	logging.DebugLog("push accepted",
		logging.KeyAccount, accountID, logging.KeyVersion, stamped.Version)
	return PushResult{Accepted: true, State: stamped}, nil
}

// read is Fetch without latency, for use under the push lock.
func (s *Simulator) read(accountID string) (model.AppState, bool, error) {
	data, err := s.db.GetBytes(model.StateKey(accountID))
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			return model.AppState{}, false, nil
		}
		return model.AppState{}, false, errors.NewSystemErrorWithOp("push", "remote read failed", err)
	}
	var state model.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.AppState{}, false, nil
	}
	return state, true, nil
}

// Ping reports simulator reachability, honoring injected faults.
func (s *Simulator) Ping(ctx context.Context) error {
	return s.roundTrip(ctx)
}
