// Package auth provides the account registry: the directory of users
// that authenticates logins and maps emails to account state.
//
// Passwords are bcrypt-hashed before storage. The registry never holds
// or compares a plaintext credential.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/logging"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/storage"
	"github.com/wagetrack/wagetrack/internal/validate"
)

// Registry is the user directory, persisted as a single record in the
// device-local store.
type Registry struct {
	db *storage.DB
}

// NewRegistry creates a registry over an open database.
func NewRegistry(db *storage.DB) *Registry {
	return &Registry{db: db}
}

// Users returns the full directory. An absent or unreadable directory
// is treated as empty.
func (r *Registry) Users() []model.User {
	var users []model.User
	if err := r.db.GetJSON(model.KeyUsers, &users); err != nil {
		if !storage.IsErrKeyNotFound(err) {
			logging.Warn("user directory unreadable, treating as empty",
				logging.KeyError, err.Error())
		}
		return nil
	}
	return users
}

func (r *Registry) save(users []model.User) error {
	return r.db.SetJSON(model.KeyUsers, users)
}

// Lookup finds a user by email, case-insensitively.
func (r *Registry) Lookup(email string) (model.User, bool) {
	id := model.NormalizeEmail(email)
	for _, u := range r.Users() {
		if u.AccountID() == id {
			return u, true
		}
	}
	return model.User{}, false
}

// Register adds a new account. The password is validated and hashed;
// a duplicate email is rejected.
func (r *Registry) Register(email, password string) (model.User, error) {
	if err := validate.Email(email); err != nil {
		return model.User{}, err
	}
	if err := validate.Password(password); err != nil {
		return model.User{}, err
	}
	if _, ok := r.Lookup(email); ok {
		return model.User{}, errors.Wrapf(errors.ErrDuplicateEmail, "register %s", model.NormalizeEmail(email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.NewSystemError("could not hash password", err)
	}

	user := model.User{
		Username:     model.UsernameFromEmail(email),
		Email:        model.NormalizeEmail(email),
		PasswordHash: string(hash),
	}

	users := append(r.Users(), user)
	if err := r.save(users); err != nil {
		return model.User{}, errors.NewSystemErrorWithOp("register", "could not save user directory", err)
	}

	logging.Info("account registered", logging.KeyAccount, user.Email)
	return user, nil
}

// Authenticate verifies credentials. Unknown email and wrong password
// return the same error so probing can't tell accounts apart.
func (r *Registry) Authenticate(email, password string) (model.User, error) {
	user, ok := r.Lookup(email)
	if !ok {
		// Burn a comparison anyway to keep timing uniform.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0XlVu3q1WZXKxGkZQaXHzIqvJ2u"), []byte(password))
		return model.User{}, errors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, errors.ErrInvalidCredentials
	}
	return user, nil
}

// UpdatePassword replaces an account's password hash.
func (r *Registry) UpdatePassword(email, newPassword string) error {
	if err := validate.Password(newPassword); err != nil {
		return err
	}

	id := model.NormalizeEmail(email)
	users := r.Users()
	for i := range users {
		if users[i].AccountID() == id {
			hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
			if err != nil {
				return errors.NewSystemError("could not hash password", err)
			}
			users[i].PasswordHash = string(hash)
			return r.save(users)
		}
	}
	return errors.Wrapf(errors.ErrAccountNotFound, "update password for %s", id)
}

// Upsert inserts or replaces a user record carrying an existing hash.
// Used by bundle import, where the hash travels with the bundle.
func (r *Registry) Upsert(user model.User) error {
	user.Email = model.NormalizeEmail(user.Email)
	users := r.Users()
	for i := range users {
		if users[i].AccountID() == user.AccountID() {
			users[i] = user
			return r.save(users)
		}
	}
	return r.save(append(users, user))
}

// UpsertedDirectory returns the directory as it would look after
// upserting user, without writing it. Bundle import uses this to stage
// an all-or-nothing restore.
func (r *Registry) UpsertedDirectory(user model.User) []model.User {
	user.Email = model.NormalizeEmail(user.Email)
	users := r.Users()
	for i := range users {
		if users[i].AccountID() == user.AccountID() {
			users[i] = user
			return users
		}
	}
	return append(users, user)
}
