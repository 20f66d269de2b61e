// Package runtime provides application runtime context for WageTrack.
package runtime

import (
	"context"
	"os"
	"path/filepath"

	"github.com/wagetrack/wagetrack/internal/auth"
	"github.com/wagetrack/wagetrack/internal/bundle"
	"github.com/wagetrack/wagetrack/internal/config"
	"github.com/wagetrack/wagetrack/internal/logging"
	"github.com/wagetrack/wagetrack/internal/output"
	"github.com/wagetrack/wagetrack/internal/remote"
	"github.com/wagetrack/wagetrack/internal/storage"
	"github.com/wagetrack/wagetrack/internal/sync"
)

// Context holds the application runtime context: the open stores, the
// account registry, and the sync engine wired over them.
type Context struct {
	DB       *storage.DB
	RemoteDB *storage.DB

	Local    *storage.LocalStore
	Registry *auth.Registry
	Remote   remote.Client
	Engine   *sync.Engine
	Codec    *bundle.Codec

	Formatter *output.Formatter

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath     string
	RemotePath string
	InMemory   bool
	Format     output.Format
	ColorMode  output.ColorMode
	Debug      bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:     storage.DefaultPath(),
		RemotePath: DefaultRemotePath(),
		InMemory:   false,
		Format:     output.FormatCLI,
		ColorMode:  output.ColorAuto,
		Debug:      false,
	}
}

// DefaultRemotePath returns the directory for the simulated remote
// store, a sibling of the local database.
func DefaultRemotePath() string {
	return filepath.Join(filepath.Dir(storage.DefaultPath()), "remote")
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	if opts.Debug {
		logging.InitDebug()
	}

	// Check for environment variable override
	if envPath := os.Getenv("WAGETRACK_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
			opts.RemotePath = envPath + "-remote"
		}
	}

	// Open the device-local database
	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, wrapOpenError(err, "open local store", opts.Debug)
	}

	// Open the simulated remote store as a second database
	remoteDB, err := storage.Open(storage.Options{
		Path:     opts.RemotePath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		db.Close()
		return nil, wrapOpenError(err, "open remote store", opts.Debug)
	}

	local := storage.NewLocalStore(db)
	registry := auth.NewRegistry(db)
	remoteClient := remote.NewDefaultSimulator(remoteDB)
	engine := sync.NewEngine(local, remoteClient, sync.DefaultOptions())
	codec := bundle.NewCodec(registry, local)

	// Create formatter
	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	return &Context{
		DB:        db,
		RemoteDB:  remoteDB,
		Local:     local,
		Registry:  registry,
		Remote:    remoteClient,
		Engine:    engine,
		Codec:     codec,
		Formatter: formatter,
		Debug:     opts.Debug,
	}, nil
}

// RestoreSession resumes the persisted session, if any, by running the
// login reconciliation for the stored account.
func (c *Context) RestoreSession() (string, bool) {
	account, ok := c.Local.CurrentAccount()
	if !ok {
		return "", false
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()
	if _, err := c.Engine.Login(ctx, account); err != nil {
		return "", false
	}
	return account, true
}

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.Global.Sync.PushTimeout)
}

// Close flushes pending sync work and closes both databases.
func (c *Context) Close() error {
	if c.Engine != nil {
		c.Engine.Wait()
	}

	var first error
	if c.DB != nil {
		first = c.DB.Close()
	}
	if c.RemoteDB != nil {
		if err := c.RemoteDB.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...interface{}) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
