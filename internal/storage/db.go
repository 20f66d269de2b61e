// Package storage provides the device-local database layer for WageTrack.
//
// Both the local store and the remote simulator persist through the
// same DB wrapper; they differ only in which directory they open.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"
)

// AppName names the data directory under the XDG data home.
const AppName = "wagetrack"

// Options selects where the database lives.
type Options struct {
	// Path is the database directory. An empty Path opens an
	// in-memory database.
	Path string
	// InMemory opens an in-memory database regardless of Path.
	InMemory bool
}

// DB wraps an open Badger database.
type DB struct {
	db *badger.DB
}

// DefaultPath returns the XDG location of the device database.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens the database described by opts, creating the directory
// on first use. Badger's own logging is silenced below error level.
func Open(opts Options) (*DB, error) {
	inMemory := opts.InMemory || opts.Path == ""

	var cfg badger.Options
	if inMemory {
		cfg = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0755); err != nil {
			return nil, err
		}
		cfg = badger.DefaultOptions(opts.Path)
	}
	cfg = cfg.WithLoggingLevel(badger.ERROR)

	handle, err := badger.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &DB{db: handle}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Badger exposes the underlying handle for multi-key transactions.
func (d *DB) Badger() *badger.DB {
	return d.db
}
