// Package remote defines the remote persistence contract and the
// simulator that stands in for a real backend.
//
// The Client interface is the whole protocol surface: a real networked
// implementation can replace the simulator without the sync engine
// noticing.
package remote

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/model"
)

// PushResult is the outcome of a push attempt.
//
// An accepted push carries the stamped state (version bumped, timestamp
// set by the remote) for the client to adopt. A rejected push carries
// the current remote state so the caller can reconcile instead of
// clobbering newer data.
type PushResult struct {
	Accepted bool
	State    model.AppState
}

// Client is the remote store contract.
type Client interface {
	// Fetch reads the remote state for an account. ok is false when the
	// account has no remote state yet. Fetch never modifies anything.
	Fetch(ctx context.Context, accountID string) (state model.AppState, ok bool, err error)

	// Push offers clientState to the remote. The remote accepts it only
	// if no newer version has landed since the client last synced.
	Push(ctx context.Context, accountID string, clientState model.AppState) (PushResult, error)

	// Ping reports whether the remote is reachable.
	Ping(ctx context.Context) error
}
