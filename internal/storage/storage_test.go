package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagetrack/wagetrack/internal/model"
)

// Helper to create an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenClose(t *testing.T) {
	t.Run("in_memory", func(t *testing.T) {
		db, err := Open(Options{InMemory: true})
		require.NoError(t, err)
		assert.NotNil(t, db)
		assert.NoError(t, db.Close())
	})

	t.Run("empty_path_uses_in_memory", func(t *testing.T) {
		db, err := Open(Options{Path: ""})
		require.NoError(t, err)
		assert.NotNil(t, db)
		db.Close()
	})

	t.Run("on_disk", func(t *testing.T) {
		db, err := Open(Options{Path: t.TempDir()})
		require.NoError(t, err)
		db.Close()
	})
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	assert.Contains(t, path, "wagetrack")
	assert.Contains(t, path, "db")
}

func TestBytesRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.SetBytes("k1", []byte("v1")))

	got, err := db.GetBytes("k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	_, err = db.GetBytes("missing")
	assert.True(t, IsErrKeyNotFound(err))
}

func TestJSONRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	in := model.Employee{ID: "e1", Name: "Alex", HourlyRate: 20}
	require.NoError(t, db.SetJSON("emp:e1", in))

	var out model.Employee
	require.NoError(t, db.GetJSON("emp:e1", &out))
	assert.Equal(t, in, out)
}

func TestDeleteAndExists(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.SetBytes("k", []byte("v")))
	ok, err := db.Exists("k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, db.Delete("k"))
	ok, err = db.Exists("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListByPrefix(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.SetBytes("state:a@b.com", []byte("{}")))
	require.NoError(t, db.SetBytes("state:c@d.com", []byte("{}")))
	require.NoError(t, db.SetBytes("users", []byte("[]")))

	keys, err := db.ListByPrefix("state:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"state:a@b.com", "state:c@d.com"}, keys)
}

func TestLocalStoreLoadDefault(t *testing.T) {
	store := NewLocalStore(setupTestDB(t))

	state := store.Load("fresh@account.com")
	assert.Len(t, state.Employees, 3)
	assert.Empty(t, state.Shifts)
	assert.EqualValues(t, 0, state.Version)
}

func TestLocalStoreSaveLoad(t *testing.T) {
	store := NewLocalStore(setupTestDB(t))

	state := model.DefaultState()
	state.Version = 7
	state.Shifts = append(state.Shifts, model.Shift{ID: "s1", EmployeeID: "1", TotalHours: 8})

	require.NoError(t, store.Save("a@b.com", state))
	assert.True(t, store.Has("a@b.com"))

	got := store.Load("a@b.com")
	assert.EqualValues(t, 7, got.Version)
	require.Len(t, got.Shifts, 1)
	assert.Equal(t, 8.0, got.Shifts[0].TotalHours)
}

func TestLocalStoreCorruptFallsBackToDefault(t *testing.T) {
	db := setupTestDB(t)
	store := NewLocalStore(db)

	require.NoError(t, db.SetBytes(model.StateKey("a@b.com"), []byte("{not json")))

	state := store.Load("a@b.com")
	assert.Len(t, state.Employees, 3)
	assert.EqualValues(t, 0, state.Version)
}

func TestLocalStoreAccounts(t *testing.T) {
	store := NewLocalStore(setupTestDB(t))

	require.NoError(t, store.Save("a@b.com", model.DefaultState()))
	require.NoError(t, store.Save("c@d.com", model.DefaultState()))

	accounts, err := store.Accounts()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@b.com", "c@d.com"}, accounts)
}

func TestCurrentAccount(t *testing.T) {
	store := NewLocalStore(setupTestDB(t))

	_, ok := store.CurrentAccount()
	assert.False(t, ok)

	require.NoError(t, store.SetCurrentAccount("a@b.com"))
	got, ok := store.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, "a@b.com", got)

	require.NoError(t, store.ClearCurrentAccount())
	_, ok = store.CurrentAccount()
	assert.False(t, ok)
}

func TestRestoreBundleAtomic(t *testing.T) {
	db := setupTestDB(t)
	store := NewLocalStore(db)

	users := []model.User{{Username: "manager", Email: "a@b.com", PasswordHash: "$2a$fake"}}
	state := model.DefaultState()
	state.Version = 3

	require.NoError(t, store.RestoreBundle(users, "a@b.com", state))

	var gotUsers []model.User
	require.NoError(t, db.GetJSON(model.KeyUsers, &gotUsers))
	assert.Equal(t, users, gotUsers)

	got := store.Load("a@b.com")
	assert.EqualValues(t, 3, got.Version)
}

func TestLastSeenBuild(t *testing.T) {
	store := NewLocalStore(setupTestDB(t))

	assert.Empty(t, store.LastSeenBuild())
	require.NoError(t, store.SetLastSeenBuild("1.2.0"))
	assert.Equal(t, "1.2.0", store.LastSeenBuild())
}
