package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/storage"
)

func setupRegistry(t *testing.T) *Registry {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRegistry(db)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	r := setupRegistry(t)

	user, err := r.Register("Manager@Business.com", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, "manager@business.com", user.Email)
	assert.Equal(t, "Manager", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotContains(t, user.PasswordHash, "sup3rsecret")

	got, err := r.Authenticate("manager@business.com", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	// Case-insensitive email lookup.
	_, err = r.Authenticate("MANAGER@BUSINESS.COM", "sup3rsecret")
	assert.NoError(t, err)
}

func TestAuthenticateFailures(t *testing.T) {
	r := setupRegistry(t)
	_, err := r.Register("a@b.com", "sup3rsecret")
	require.NoError(t, err)

	_, err = r.Authenticate("a@b.com", "wrongpass1")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)

	// Unknown account yields the same error as a bad password.
	_, err = r.Authenticate("ghost@b.com", "sup3rsecret")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	r := setupRegistry(t)

	_, err := r.Register("not-an-email", "sup3rsecret")
	assert.True(t, errors.IsUserError(err))

	_, err = r.Register("a@b.com", "short")
	assert.True(t, errors.IsUserError(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupRegistry(t)

	_, err := r.Register("a@b.com", "sup3rsecret")
	require.NoError(t, err)

	_, err = r.Register("A@B.COM", "othersecret")
	assert.ErrorIs(t, err, errors.ErrDuplicateEmail)

	assert.Len(t, r.Users(), 1)
}

func TestUpdatePassword(t *testing.T) {
	r := setupRegistry(t)
	_, err := r.Register("a@b.com", "oldsecret1")
	require.NoError(t, err)

	require.NoError(t, r.UpdatePassword("a@b.com", "newsecret1"))

	_, err = r.Authenticate("a@b.com", "oldsecret1")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
	_, err = r.Authenticate("a@b.com", "newsecret1")
	assert.NoError(t, err)

	err = r.UpdatePassword("missing@b.com", "whatever1")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestUpsert(t *testing.T) {
	r := setupRegistry(t)

	u := model.User{Username: "manager", Email: "A@B.com", PasswordHash: "$2a$10$hash"}
	require.NoError(t, r.Upsert(u))

	got, ok := r.Lookup("a@b.com")
	require.True(t, ok)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	// Replacing the same account does not add a second entry.
	u.PasswordHash = "$2a$10$other"
	require.NoError(t, r.Upsert(u))
	assert.Len(t, r.Users(), 1)

	got, _ = r.Lookup("a@b.com")
	assert.Equal(t, "$2a$10$other", got.PasswordHash)
}

func TestUpsertedDirectoryDoesNotWrite(t *testing.T) {
	r := setupRegistry(t)
	_, err := r.Register("a@b.com", "sup3rsecret")
	require.NoError(t, err)

	staged := r.UpsertedDirectory(model.User{Username: "x", Email: "c@d.com", PasswordHash: "$2a$10$h"})
	assert.Len(t, staged, 2)
	assert.Len(t, r.Users(), 1)
}
