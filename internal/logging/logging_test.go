package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndLog(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})
	t.Cleanup(func() { Init(Config{Level: slog.LevelInfo}) })

	Info("state saved", KeyAccount, "manager@business.com", KeyVersion, 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "state saved", entry["msg"])
	assert.Equal(t, "manager@business.com", entry[KeyAccount])
	assert.Equal(t, float64(3), entry[KeyVersion])
}

func TestDebugFlag(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelDebug, Output: &buf})
	t.Cleanup(func() { Init(Config{Level: slog.LevelInfo}) })
	assert.True(t, Debug)

	Init(Config{Level: slog.LevelInfo, Output: &buf})
	assert.False(t, Debug)
}

func TestPasswordsNeverLogged(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelDebug, Output: &buf})
	t.Cleanup(func() { Init(Config{Level: slog.LevelInfo}) })

	Info("login attempt", "account", "a@b.com", "password", "hunter2secret")
	assert.NotContains(t, buf.String(), "hunter2secret")
}

func TestIsSensitiveField(t *testing.T) {
	assert.True(t, IsSensitiveField("password"))
	assert.True(t, IsSensitiveField("Password_Hash"))
	assert.True(t, IsSensitiveField("bundle"))
	assert.True(t, IsSensitiveField("access_link"))
	assert.False(t, IsSensitiveField("email"))
	assert.False(t, IsSensitiveField("version"))
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "", MaskValue(""))
	assert.Equal(t, "***", MaskValue("abc"))
	assert.Equal(t, strings.Repeat(MaskChar, 8), MaskValue("a-very-long-secret"))
}

func TestMaskPartial(t *testing.T) {
	assert.Equal(t, "alex@exa***", MaskPartial("alex@example.com", 8))
	assert.Equal(t, "**", MaskPartial("ab", 5))
}

func TestMaskArgs(t *testing.T) {
	args := []any{"account", "a@b.com", "password", "secret", "version", 2}
	masked := MaskArgs(args)

	assert.Equal(t, "a@b.com", masked[1])
	assert.NotEqual(t, "secret", masked[3])
	assert.Equal(t, 2, masked[5])

	// Original slice is untouched.
	assert.Equal(t, "secret", args[3])
}

func TestMaskArgsNonStringSensitive(t *testing.T) {
	masked := MaskArgs([]any{"token", 12345})
	assert.Equal(t, strings.Repeat(MaskChar, 8), masked[1])
}

func TestMaskMap(t *testing.T) {
	m := map[string]any{
		"email":    "a@b.com",
		"password": "secret",
		"nested": map[string]any{
			"token": "tok123",
			"count": 4,
		},
	}

	masked := MaskMap(m)
	assert.Equal(t, "a@b.com", masked["email"])
	assert.NotEqual(t, "secret", masked["password"])

	nested := masked["nested"].(map[string]any)
	assert.NotEqual(t, "tok123", nested["token"])
	assert.Equal(t, 4, nested["count"])
}
