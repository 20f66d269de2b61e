// Package bundle encodes one account's credentials and state into a
// portable text token for manual cross-device transfer, and restores
// such a token on another device.
//
// The token is URL-safe so it can ride in a query parameter or be
// pasted as-is. It embeds the bcrypt password hash, never a plaintext
// credential.
package bundle

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"time"

	"github.com/wagetrack/wagetrack/internal/auth"
	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/logging"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/storage"
)

// SchemaVersion identifies the bundle envelope layout. Decoders reject
// versions they do not know.
const SchemaVersion = 1

// URL query parameters a bundle token may arrive under.
var urlParams = []string{"access", "sync"}

// Envelope is the decoded form of a bundle token.
type Envelope struct {
	SchemaVersion int            `json:"schema_version"`
	ExportedAt    time.Time      `json:"exported_at"`
	User          model.User     `json:"user"`
	State         model.AppState `json:"state"`
}

// Codec exports and imports identity bundles against the account
// registry and the local store.
type Codec struct {
	registry *auth.Registry
	local    *storage.LocalStore
}

// NewCodec creates a codec over the registry and local store.
func NewCodec(registry *auth.Registry, local *storage.LocalStore) *Codec {
	return &Codec{registry: registry, local: local}
}

// Export builds a token carrying the account's user record and its
// current local state.
func (c *Codec) Export(accountID string) (string, error) {
	user, ok := c.registry.Lookup(accountID)
	if !ok {
		return "", errors.Wrapf(errors.ErrAccountNotFound, "export bundle for %s", model.NormalizeEmail(accountID))
	}

	env := Envelope{
		SchemaVersion: SchemaVersion,
		ExportedAt:    time.Now().UTC(),
		User:          user,
		State:         c.local.Load(user.AccountID()),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", errors.NewSystemError("could not encode bundle", err)
	}

	logging.Info("bundle exported", logging.KeyAccount, user.AccountID())
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses and validates a token without writing anything.
func Decode(token string) (Envelope, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Envelope{}, errors.Wrap(errors.ErrInvalidBundle, "decode")
	}

	// Pointer fields distinguish an absent section from a present but
	// zero one. A token without state must not restore as empty state.
	var wire struct {
		SchemaVersion int             `json:"schema_version"`
		ExportedAt    time.Time       `json:"exported_at"`
		User          *model.User     `json:"user"`
		State         *model.AppState `json:"state"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Envelope{}, errors.Wrap(errors.ErrInvalidBundle, "parse")
	}
	if wire.SchemaVersion != SchemaVersion {
		return Envelope{}, errors.Wrapf(errors.ErrInvalidBundle, "unknown schema version %d", wire.SchemaVersion)
	}
	if wire.User == nil || wire.User.Email == "" || wire.User.PasswordHash == "" {
		return Envelope{}, errors.Wrap(errors.ErrInvalidBundle, "missing user")
	}
	if wire.State == nil {
		return Envelope{}, errors.Wrap(errors.ErrInvalidBundle, "missing state")
	}
	return Envelope{
		SchemaVersion: wire.SchemaVersion,
		ExportedAt:    wire.ExportedAt,
		User:          *wire.User,
		State:         *wire.State,
	}, nil
}

// Import decodes a token and restores it: the user record is upserted
// into the registry and the state overwrites the account's local copy.
// Import is a restore, not a merge, and it is all-or-nothing: a failed
// import leaves both the registry and the local store untouched.
func (c *Codec) Import(token string) (string, error) {
	env, err := Decode(token)
	if err != nil {
		return "", err
	}

	accountID := env.User.AccountID()
	users := c.registry.UpsertedDirectory(env.User)
	if err := c.local.RestoreBundle(users, accountID, env.State); err != nil {
		return "", errors.NewSystemErrorWithOp("import", "could not restore bundle", err)
	}

	logging.Info("bundle imported",
		logging.KeyAccount, accountID, logging.KeyVersion, env.State.Version)
	return accountID, nil
}

// EmbedInURL attaches a token to a URL under the access parameter,
// producing a link another device can consume.
func (c *Codec) EmbedInURL(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL", "Provide an absolute URL like https://example.com/app")
	}

	q := u.Query()
	q.Set(urlParams[0], token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ConsumeFromURL looks for a bundle token in a URL's query parameters,
// imports it if present, and returns the URL with the parameter
// stripped so a reload does not re-import.
//
// The cleaned URL is returned even when the import fails, so a bad
// token is consumed rather than retried forever.
func (c *Codec) ConsumeFromURL(rawURL string) (accountID, cleaned string, found bool, err error) {
	u, parseErr := url.Parse(rawURL)
	if parseErr != nil {
		return "", rawURL, false, nil
	}

	// First match wins, so access beats the legacy sync parameter.
	// Every recognized parameter is stripped either way so a reload
	// cannot re-import from a leftover one.
	q := u.Query()
	var token string
	for _, p := range urlParams {
		v := q.Get(p)
		if v == "" {
			continue
		}
		if token == "" {
			token = v
		}
		q.Del(p)
		found = true
	}
	if !found {
		return "", rawURL, false, nil
	}

	u.RawQuery = q.Encode()
	cleaned = u.String()

	accountID, err = c.Import(token)
	if err != nil {
		return "", cleaned, true, err
	}
	return accountID, cleaned, true, nil
}
