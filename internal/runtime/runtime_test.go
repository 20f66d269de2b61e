package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/output"
)

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.NotEmpty(t, opts.DBPath)
	assert.NotEmpty(t, opts.RemotePath)
	assert.NotEqual(t, opts.DBPath, opts.RemotePath)
	assert.False(t, opts.InMemory)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.Debug)
}

func TestNew(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.DB)
	assert.NotNil(t, ctx.RemoteDB)
	assert.NotNil(t, ctx.Local)
	assert.NotNil(t, ctx.Registry)
	assert.NotNil(t, ctx.Remote)
	assert.NotNil(t, ctx.Engine)
	assert.NotNil(t, ctx.Codec)
	assert.NotNil(t, ctx.Formatter)
}

func TestNewWithOptions(t *testing.T) {
	ctx, err := New(Options{
		InMemory:  true,
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
		Debug:     true,
	})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, output.FormatJSON, ctx.Formatter.Format)
	assert.Equal(t, output.ColorNever, ctx.Formatter.ColorMode)
	assert.True(t, ctx.Debug)
}

func TestNewWithEnvVariable(t *testing.T) {
	t.Setenv("WAGETRACK_DATABASE", ":memory:")

	ctx, err := New(Options{})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.DB)
	assert.NotNil(t, ctx.RemoteDB)
}

func TestNewWithEnvVariablePath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("WAGETRACK_DATABASE", tmpDir+"/db")

	ctx, err := New(Options{})
	require.NoError(t, err)
	defer ctx.Close()

	assert.DirExists(t, tmpDir+"/db")
	assert.DirExists(t, tmpDir+"/db-remote")
}

func TestClose(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)

	require.NoError(t, ctx.Close())
}

func TestRestoreSession(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	_, ok := ctx.RestoreSession()
	assert.False(t, ok, "no session persisted yet")

	user, err := ctx.Registry.Register("pat@example.com", "hunter22hunter")
	require.NoError(t, err)
	require.NoError(t, ctx.Local.SetCurrentAccount(user.AccountID()))

	account, ok := ctx.RestoreSession()
	require.True(t, ok)
	assert.Equal(t, user.AccountID(), account)

	got, hasSession := ctx.Engine.Account()
	require.True(t, hasSession)
	assert.Equal(t, user.AccountID(), got)
}

func TestFormatters(t *testing.T) {
	ctx, err := New(Options{InMemory: true, Format: output.FormatCLI})
	require.NoError(t, err)
	defer ctx.Close()

	assert.True(t, ctx.IsCLI())
	assert.False(t, ctx.IsJSON())
	assert.NotNil(t, ctx.CLIFormatter())
	assert.NotNil(t, ctx.JSONFormatter())

	ctx.Formatter.Format = output.FormatJSON
	assert.True(t, ctx.IsJSON())
	assert.False(t, ctx.IsCLI())
}

func TestDebugf(t *testing.T) {
	ctx, err := New(Options{InMemory: true, Debug: true})
	require.NoError(t, err)
	defer ctx.Close()

	var buf bytes.Buffer
	ctx.Formatter.Writer = &buf

	ctx.Debugf("loaded %d employees", 3)
	assert.Contains(t, buf.String(), "[DEBUG] loaded 3 employees")

	buf.Reset()
	ctx.Debug = false
	ctx.Debugf("should not appear")
	assert.Empty(t, buf.String())
}

// =============================================================================
// Error Tests
// =============================================================================

func TestGetSuggestion(t *testing.T) {
	assert.NotEmpty(t, GetSuggestion(apperrors.ErrNoSession))
	assert.NotEmpty(t, GetSuggestion(fmt.Errorf("login: %w", apperrors.ErrInvalidCredentials)))
	assert.Empty(t, GetSuggestion(errors.New("unrelated failure")))
}

func TestGetSuggestionFromUserError(t *testing.T) {
	err := apperrors.NewUserError("shift overlaps an open shift", "Clock out the open shift first.")
	assert.Equal(t, "Clock out the open shift first.", GetSuggestion(err))
}

func TestFormatError(t *testing.T) {
	msg := FormatError(apperrors.ErrEmployeeNotFound)
	assert.Contains(t, msg, "employee not found")
	assert.Contains(t, msg, "wt employee list")

	plain := FormatError(errors.New("boom"))
	assert.Equal(t, "boom", plain)
}

func TestDiskFullError(t *testing.T) {
	err := NewDiskFullError("write", "/data/wagetrack/db", syscall.ENOSPC)

	assert.Contains(t, err.Error(), "disk full during write")
	assert.Contains(t, err.Error(), "/data/wagetrack/db")
	assert.True(t, errors.Is(err, apperrors.ErrDiskFull))
}

func TestIsDiskFullError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"enospc", syscall.ENOSPC, true},
		{"wrapped enospc", fmt.Errorf("save: %w", syscall.ENOSPC), true},
		{"sentinel", apperrors.ErrDiskFull, true},
		{"message pattern", errors.New("write failed: no space left on device"), true},
		{"unrelated", errors.New("connection refused"), false},
		{"permission", os.ErrPermission, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDiskFullError(tt.err))
		})
	}
}

func TestWrapDiskFullError(t *testing.T) {
	wrapped := WrapDiskFullError(syscall.ENOSPC, "push", "")
	var dfe *DiskFullError
	require.ErrorAs(t, wrapped, &dfe)
	assert.Equal(t, "push", dfe.Op)

	plain := errors.New("timeout")
	assert.Same(t, plain, WrapDiskFullError(plain, "push", ""))
	assert.NoError(t, WrapDiskFullError(nil, "push", ""))
}
