// Package model defines the domain models for WageTrack.
package model

// Database key constants. State is namespaced per account; the account
// directory and session pointer are global keys.
const (
	PrefixState      = "state"
	KeyUsers         = "users"
	KeyCurrentUser   = "session:current"
	KeyLastSeenBuild = "meta:appversion"
)

// MaxEmployees is the cap on employees per account.
const MaxEmployees = 15

// StateKey returns the database key holding the AppState for an account.
func StateKey(accountID string) string {
	return PrefixState + ":" + accountID
}
