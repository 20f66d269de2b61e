package storage

import (
	"encoding/json"
	"errors"

	badger "github.com/dgraph-io/badger/v4"
)

// ErrKeyNotFound is returned for reads of absent keys.
var ErrKeyNotFound = errors.New("key not found")

// IsErrKeyNotFound reports whether err means the key was absent.
func IsErrKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, badger.ErrKeyNotFound)
}

// GetBytes returns a copy of the value stored under key.
func (d *DB) GetBytes(key string) ([]byte, error) {
	var out []byte
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return mapNotFound(err)
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetBytes stores data under key.
func (d *DB) SetBytes(key string, data []byte) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// GetJSON reads the value under key into v.
func (d *DB) GetJSON(key string, v any) error {
	data, err := d.GetBytes(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SetJSON stores v under key as JSON.
func (d *DB) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return d.SetBytes(key, data)
}

// Delete removes key. Deleting an absent key is not an error.
func (d *DB) Delete(key string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Exists reports whether key is present.
func (d *DB) Exists(key string) (bool, error) {
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ListByPrefix returns every key starting with prefix, in key order.
func (d *DB) ListByPrefix(prefix string) ([]string, error) {
	var keys []string
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrKeyNotFound
	}
	return err
}
