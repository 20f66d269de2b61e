// Package sync implements the synchronization engine: the optimistic
// concurrency protocol between the device-local store and the remote
// store, and the debounced push pipeline that feeds it.
package sync

import (
	"github.com/wagetrack/wagetrack/internal/model"
)

// Side identifies which copy won a reconciliation.
type Side int

const (
	// SideLocal means the device's copy is authoritative.
	SideLocal Side = iota
	// SideRemote means the remote copy is authoritative.
	SideRemote
)

func (s Side) String() string {
	if s == SideLocal {
		return "local"
	}
	return "remote"
}

// Reconcile chooses the authoritative copy between a local and a remote
// AppState. The rule is the same everywhere it is applied: the higher
// version wins; on equal versions the later UpdatedAt wins; on a full
// tie the remote copy is treated as authoritative.
//
// The function is pure: same inputs, same winner, no side effects.
func Reconcile(local, remote model.AppState) (model.AppState, Side) {
	if local.Version > remote.Version {
		return local, SideLocal
	}
	if remote.Version > local.Version {
		return remote, SideRemote
	}
	// Equal versions should not happen under correct sequential pushes,
	// but two writers racing before either syncs can produce it. The
	// timestamp breaks the tie.
	if local.UpdatedAt.After(remote.UpdatedAt) {
		return local, SideLocal
	}
	return remote, SideRemote
}
