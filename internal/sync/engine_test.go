package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/remote"
	"github.com/wagetrack/wagetrack/internal/storage"
)

// countingClient wraps a remote client and records every push it sees.
type countingClient struct {
	remote.Client

	mu     gosync.Mutex
	pushes []model.AppState
}

func (c *countingClient) Push(ctx context.Context, accountID string, state model.AppState) (remote.PushResult, error) {
	c.mu.Lock()
	c.pushes = append(c.pushes, state.Clone())
	c.mu.Unlock()
	return c.Client.Push(ctx, accountID, state)
}

func (c *countingClient) pushCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pushes)
}

func (c *countingClient) lastPush() model.AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushes[len(c.pushes)-1]
}

func setupEngine(t *testing.T, opts Options) (*Engine, *storage.LocalStore, *countingClient, *remote.Simulator) {
	t.Helper()

	localDB, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { localDB.Close() })

	remoteDB, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { remoteDB.Close() })

	sim := remote.NewSimulator(remoteDB, 0)
	client := &countingClient{Client: sim}
	local := storage.NewLocalStore(localDB)
	engine := NewEngine(local, client, opts)
	return engine, local, client, sim
}

func fastOptions() Options {
	return Options{
		DebounceWindow: 20 * time.Millisecond,
		PushTimeout:    time.Second,
	}
}

func TestLoginSeedsEmptyRemote(t *testing.T) {
	engine, local, client, _ := setupEngine(t, fastOptions())

	state, err := engine.Login(context.Background(), "acct-1")
	require.NoError(t, err)

	// A fresh account seeds the remote with the local default state,
	// which comes back stamped at version 1.
	assert.EqualValues(t, 1, state.Version)
	assert.Len(t, state.Employees, 3)
	assert.Equal(t, 1, client.pushCount())
	assert.EqualValues(t, 1, local.Load("acct-1").Version)

	st := engine.Status()
	assert.Equal(t, StateSynced, st.State)
	assert.False(t, st.Dirty)
}

func TestLoginAdoptsNewerRemote(t *testing.T) {
	engine, local, _, sim := setupEngine(t, fastOptions())

	remoteState := model.DefaultState()
	remoteState.Employees = append(remoteState.Employees, model.Employee{ID: "9", Name: "Sam Lee", Role: "Staff", HourlyRate: 20})
	res, err := sim.Push(context.Background(), "acct-1", remoteState)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	res, err = sim.Push(context.Background(), "acct-1", res.State)
	require.NoError(t, err)
	require.True(t, res.Accepted)

	state, err := engine.Login(context.Background(), "acct-1")
	require.NoError(t, err)

	assert.EqualValues(t, 2, state.Version)
	assert.Len(t, state.Employees, 4)
	assert.EqualValues(t, 2, local.Load("acct-1").Version)
}

func TestLoginContinuesLocallyWhenRemoteDown(t *testing.T) {
	engine, local, _, sim := setupEngine(t, fastOptions())

	seeded := model.DefaultState()
	seeded.UpdatedAt = time.Now()
	require.NoError(t, local.Save("acct-1", seeded))

	sim.FailNext(1)
	state, err := engine.Login(context.Background(), "acct-1")
	require.NoError(t, err)

	// Login never blocks on the remote: the local copy is returned and
	// flagged for a later push.
	assert.EqualValues(t, 0, state.Version)
	st := engine.Status()
	assert.Equal(t, StateUnsynced, st.State)
	assert.True(t, st.Dirty)
}

func TestCommitWithoutSession(t *testing.T) {
	engine, _, _, _ := setupEngine(t, fastOptions())
	err := engine.Commit(model.DefaultState())
	assert.ErrorIs(t, err, errors.ErrNoSession)
}

func TestCommitPersistsLocallyBeforePush(t *testing.T) {
	engine, local, _, _ := setupEngine(t, fastOptions())
	_, err := engine.Login(context.Background(), "acct-1")
	require.NoError(t, err)

	state := local.Load("acct-1")
	state.Shifts = append(state.Shifts, model.Shift{ID: "s1", EmployeeID: "1", Date: "2025-03-14"})
	state.UpdatedAt = time.Now()
	require.NoError(t, engine.Commit(state))

	// The local write is synchronous even though the push has not fired.
	assert.Len(t, local.Load("acct-1").Shifts, 1)

	engine.Wait()
}

func TestDebounceCoalescesRapidCommits(t *testing.T) {
	engine, local, client, _ := setupEngine(t, fastOptions())
	_, err := engine.Login(context.Background(), "acct-1")
	require.NoError(t, err)
	require.Equal(t, 1, client.pushCount())

	state := local.Load("acct-1")
	for i := 0; i < 5; i++ {
		state.Shifts = append(state.Shifts, model.Shift{
			ID:         fmt.Sprintf("shift-%d", i),
			EmployeeID: "1",
			Date:       "2025-03-14",
		})
		state.UpdatedAt = time.Now()
		require.NoError(t, engine.Commit(state))
	}

	engine.Wait()

	// Five commits inside one debounce window collapse into a single
	// push carrying the final state.
	assert.Equal(t, 2, client.pushCount())
	assert.Len(t, client.lastPush().Shifts, 5)
	assert.EqualValues(t, 2, local.Load("acct-1").Version)
}

func TestFlushSkipsWhenClean(t *testing.T) {
	engine, _, client, _ := setupEngine(t, fastOptions())
	_, err := engine.Login(context.Background(), "acct-1")
	require.NoError(t, err)
	require.Equal(t, 1, client.pushCount())

	require.NoError(t, engine.Flush(context.Background()))
	assert.Equal(t, 1, client.pushCount())
}

func TestStaleDeviceAdoptsRemoteOnRejectedPush(t *testing.T) {
	// Device A and device B share one remote account. A pushes twice
	// after B's last sync, then B pushes a stale edit.
	remoteDB, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { remoteDB.Close() })
	sim := remote.NewSimulator(remoteDB, 0)

	newDevice := func() (*Engine, *storage.LocalStore) {
		db, err := storage.Open(storage.Options{InMemory: true})
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		local := storage.NewLocalStore(db)
		return NewEngine(local, sim, fastOptions()), local
	}

	engineA, localA := newDevice()
	engineB, localB := newDevice()

	_, err = engineA.Login(context.Background(), "shared")
	require.NoError(t, err)
	stateB, err := engineB.Login(context.Background(), "shared")
	require.NoError(t, err)
	require.EqualValues(t, 1, stateB.Version)

	// Device A lands two edits while B is idle. Remote moves to v3.
	for i := 0; i < 2; i++ {
		stateA := localA.Load("shared")
		stateA.Shifts = append(stateA.Shifts, model.Shift{
			ID: fmt.Sprintf("a-shift-%d", i), EmployeeID: "1", Date: "2025-03-14",
		})
		stateA.UpdatedAt = time.Now()
		require.NoError(t, engineA.Commit(stateA))
		engineA.Wait()
	}
	require.EqualValues(t, 3, localA.Load("shared").Version)

	// Device B edits off its stale v1 copy and pushes.
	stale := localB.Load("shared")
	stale.Employees[0].HourlyRate = 30
	stale.UpdatedAt = time.Now()
	require.NoError(t, engineB.Commit(stale))
	engineB.Wait()

	// The push is rejected and B adopts the remote copy wholesale: A's
	// shifts are there, B's rate edit is not.
	adopted := localB.Load("shared")
	assert.EqualValues(t, 3, adopted.Version)
	assert.Len(t, adopted.Shifts, 2)
	assert.EqualValues(t, 25, adopted.Employees[0].HourlyRate)

	st := engineB.Status()
	assert.Equal(t, StateSynced, st.State)
	assert.False(t, st.Dirty)
	// The resolved conflict is not still reported as an error.
	assert.Empty(t, st.LastError)
}

func TestFailedPushLeavesLocalUntouched(t *testing.T) {
	engine, local, _, sim := setupEngine(t, fastOptions())
	_, err := engine.Login(context.Background(), "acct-1")
	require.NoError(t, err)

	state := local.Load("acct-1")
	state.Shifts = append(state.Shifts, model.Shift{ID: "s1", EmployeeID: "1", Date: "2025-03-14"})
	state.UpdatedAt = time.Now()

	sim.FailNext(1)
	require.NoError(t, engine.Commit(state))
	engine.Wait()

	// Version is unchanged and the edit is still pending.
	kept := local.Load("acct-1")
	assert.EqualValues(t, 1, kept.Version)
	assert.Len(t, kept.Shifts, 1)
	st := engine.Status()
	assert.Equal(t, StateUnsynced, st.State)
	assert.True(t, st.Dirty)

	// The next explicit flush retries and succeeds.
	require.NoError(t, engine.Flush(context.Background()))
	assert.EqualValues(t, 2, local.Load("acct-1").Version)
	assert.False(t, engine.Status().Dirty)
}

func TestPullAdoptsNewerRemote(t *testing.T) {
	engine, local, _, sim := setupEngine(t, fastOptions())
	_, err := engine.Login(context.Background(), "acct-1")
	require.NoError(t, err)

	// Another device moves the remote forward.
	current, ok, err := sim.Fetch(context.Background(), "acct-1")
	require.NoError(t, err)
	require.True(t, ok)
	current.Employees = append(current.Employees, model.Employee{ID: "9", Name: "Sam Lee", Role: "Staff", HourlyRate: 20})
	res, err := sim.Push(context.Background(), "acct-1", current)
	require.NoError(t, err)
	require.True(t, res.Accepted)

	state, err := engine.Pull(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, state.Version)
	assert.Len(t, state.Employees, 4)
	assert.EqualValues(t, 2, local.Load("acct-1").Version)
}

func TestLogoutFlushesPendingChanges(t *testing.T) {
	engine, local, client, _ := setupEngine(t, fastOptions())
	_, err := engine.Login(context.Background(), "acct-1")
	require.NoError(t, err)

	state := local.Load("acct-1")
	state.Shifts = append(state.Shifts, model.Shift{ID: "s1", EmployeeID: "1", Date: "2025-03-14"})
	state.UpdatedAt = time.Now()
	require.NoError(t, engine.Commit(state))

	require.NoError(t, engine.Logout(context.Background()))
	engine.Wait()

	assert.Equal(t, 2, client.pushCount())
	assert.EqualValues(t, 2, local.Load("acct-1").Version)
	_, active := engine.Account()
	assert.False(t, active)
}
