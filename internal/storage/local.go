package storage

import (
	"encoding/json"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/wagetrack/wagetrack/internal/logging"
	"github.com/wagetrack/wagetrack/internal/model"
)

// LocalStore is the device-local persistence adapter. It reads and
// writes per-account AppState synchronously and never arbitrates
// conflicts: it persists exactly what it is given.
type LocalStore struct {
	db *DB
}

// NewLocalStore creates a local store over an open database.
func NewLocalStore(db *DB) *LocalStore {
	return &LocalStore{db: db}
}

// Load returns the stored AppState for an account. An absent or
// unreadable value falls back to the seeded default state; corruption
// is logged but never crashes the app.
func (s *LocalStore) Load(accountID string) model.AppState {
	data, err := s.db.GetBytes(model.StateKey(accountID))
	if err != nil {
		if !IsErrKeyNotFound(err) {
			logging.Warn("local state unreadable, using default",
				logging.KeyAccount, accountID, logging.KeyError, err.Error())
		}
		return model.DefaultState()
	}

	var state model.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		logging.Warn("local state corrupt, using default",
			logging.KeyAccount, accountID, logging.KeyError, err.Error())
		return model.DefaultState()
	}
	if state.Employees == nil {
		state.Employees = []model.Employee{}
	}
	if state.Shifts == nil {
		state.Shifts = []model.Shift{}
	}
	return state
}

// Save overwrites the stored AppState for an account unconditionally.
func (s *LocalStore) Save(accountID string, state model.AppState) error {
	return s.db.SetJSON(model.StateKey(accountID), state)
}

// Has reports whether any state is stored for the account.
func (s *LocalStore) Has(accountID string) bool {
	ok, err := s.db.Exists(model.StateKey(accountID))
	return err == nil && ok
}

// Accounts lists every account with locally stored state.
func (s *LocalStore) Accounts() ([]string, error) {
	keys, err := s.db.ListByPrefix(model.PrefixState + ":")
	if err != nil {
		return nil, err
	}
	prefix := len(model.PrefixState) + 1
	accounts := make([]string, 0, len(keys))
	for _, k := range keys {
		accounts = append(accounts, k[prefix:])
	}
	return accounts, nil
}

// RestoreBundle writes an imported user directory and account state in
// one transaction, so a failed import never leaves half a restore.
func (s *LocalStore) RestoreBundle(users []model.User, accountID string, state model.AppState) error {
	usersData, err := json.Marshal(users)
	if err != nil {
		return err
	}
	stateData, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.db.Badger().Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(model.KeyUsers), usersData); err != nil {
			return err
		}
		return txn.Set([]byte(model.StateKey(accountID)), stateData)
	})
}

// CurrentAccount returns the account of the active session, if any.
func (s *LocalStore) CurrentAccount() (string, bool) {
	data, err := s.db.GetBytes(model.KeyCurrentUser)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// SetCurrentAccount records the active session account.
func (s *LocalStore) SetCurrentAccount(accountID string) error {
	return s.db.SetBytes(model.KeyCurrentUser, []byte(accountID))
}

// ClearCurrentAccount ends the active session.
func (s *LocalStore) ClearCurrentAccount() error {
	return s.db.Delete(model.KeyCurrentUser)
}

// LastSeenBuild returns the app build recorded at last run. Used only
// to surface a one-time notice after an upgrade.
func (s *LocalStore) LastSeenBuild() string {
	data, err := s.db.GetBytes(model.KeyLastSeenBuild)
	if err != nil {
		return ""
	}
	return string(data)
}

// SetLastSeenBuild records the running app build.
func (s *LocalStore) SetLastSeenBuild(build string) error {
	return s.db.SetBytes(model.KeyLastSeenBuild, []byte(build))
}
