package model

import "strings"

// User is one entry in the account directory. The email doubles as the
// account identifier. Only a bcrypt hash of the password is ever stored
// or exported.
type User struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// AccountID returns the canonical account identifier for the user.
func (u *User) AccountID() string {
	return NormalizeEmail(u.Email)
}

// NormalizeEmail lowercases an email for case-insensitive account lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UsernameFromEmail derives a default username from the local part of
// an email address, the way the registration form pre-fills it.
func UsernameFromEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	return email[:at]
}
