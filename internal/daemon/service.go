package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/adrg/xdg"
)

// ServiceManager installs the agent as a login service so sweeps keep
// running without a terminal attached.
type ServiceManager struct {
	execPath string
	platform servicePlatform
	debug    bool
}

// servicePlatform is one OS's service mechanism.
type servicePlatform interface {
	unitPath() string
	install(execPath string, debug bool) error
	uninstall(debug bool) error
}

// NewServiceManager resolves the running binary and the platform's
// service mechanism. Errors on platforms without user services.
func NewServiceManager() (*ServiceManager, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}

	var platform servicePlatform
	switch runtime.GOOS {
	case "darwin":
		platform = launchdService{}
	case "linux":
		platform = systemdService{}
	default:
		return nil, fmt.Errorf("no service support on %s", runtime.GOOS)
	}

	return &ServiceManager{execPath: execPath, platform: platform}, nil
}

// SetDebug enables debug output.
func (m *ServiceManager) SetDebug(debug bool) {
	m.debug = debug
}

// Install writes and activates the service unit.
func (m *ServiceManager) Install() error {
	return m.platform.install(m.execPath, m.debug)
}

// Uninstall deactivates and removes the service unit.
func (m *ServiceManager) Uninstall() error {
	return m.platform.uninstall(m.debug)
}

// IsInstalled reports whether the service unit exists.
func (m *ServiceManager) IsInstalled() bool {
	_, err := os.Stat(m.platform.unitPath())
	return err == nil
}

// writeUnit renders a unit template to its destination, creating the
// parent directory on first install.
func writeUnit(path, body string, data any) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(body)
	if err != nil {
		return fmt.Errorf("parse unit template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create unit directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create unit file: %w", err)
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

func run(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %v: %w: %s", name, args, err, out)
	}
	return nil
}

// launchd (macOS)

type launchdService struct{}

const launchdLabel = "com.wagetrack.agent"

const launchdPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>` + launchdLabel + `</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.Exec}}</string>
        <string>agent</string>
        <string>start</string>
        <string>--foreground</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardOutPath</key>
    <string>{{.Log}}</string>
    <key>StandardErrorPath</key>
    <string>{{.Log}}</string>
</dict>
</plist>
`

func (launchdService) unitPath() string {
	return filepath.Join(os.Getenv("HOME"), "Library", "LaunchAgents", launchdLabel+".plist")
}

func (s launchdService) install(execPath string, debug bool) error {
	path := s.unitPath()
	err := writeUnit(path, launchdPlist, struct{ Exec, Log string }{execPath, GetLogPath()})
	if err != nil {
		return err
	}
	if err := run("launchctl", "load", path); err != nil {
		return err
	}
	if debug {
		fmt.Printf("[DEBUG] installed launchd agent at %s\n", path)
	}
	return nil
}

func (s launchdService) uninstall(debug bool) error {
	path := s.unitPath()

	// Ignore unload failures; the agent may never have been loaded.
	exec.Command("launchctl", "unload", path).Run()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove plist: %w", err)
	}
	if debug {
		fmt.Printf("[DEBUG] removed launchd agent at %s\n", path)
	}
	return nil
}

// systemd (Linux, user unit)

type systemdService struct{}

const systemdUnitName = "wagetrack-agent.service"

const systemdUnit = `[Unit]
Description=WageTrack sync agent
After=network.target

[Service]
Type=simple
ExecStart={{.Exec}} agent start --foreground
Restart=on-failure
RestartSec=5
StandardOutput=append:{{.Log}}
StandardError=append:{{.Log}}
Environment="HOME={{.Home}}"
Environment="XDG_DATA_HOME={{.DataHome}}"
Environment="XDG_STATE_HOME={{.StateHome}}"

[Install]
WantedBy=default.target
`

func (systemdService) unitPath() string {
	return filepath.Join(xdg.ConfigHome, "systemd", "user", systemdUnitName)
}

func (s systemdService) install(execPath string, debug bool) error {
	path := s.unitPath()
	err := writeUnit(path, systemdUnit, struct {
		Exec, Log, Home, DataHome, StateHome string
	}{execPath, GetLogPath(), os.Getenv("HOME"), xdg.DataHome, xdg.StateHome})
	if err != nil {
		return err
	}

	steps := [][]string{
		{"systemctl", "--user", "daemon-reload"},
		{"systemctl", "--user", "enable", systemdUnitName},
		{"systemctl", "--user", "start", systemdUnitName},
	}
	for _, step := range steps {
		if err := run(step[0], step[1:]...); err != nil {
			return err
		}
	}
	if debug {
		fmt.Printf("[DEBUG] installed systemd user unit at %s\n", path)
	}
	return nil
}

func (s systemdService) uninstall(debug bool) error {
	path := s.unitPath()

	exec.Command("systemctl", "--user", "stop", systemdUnitName).Run()
	exec.Command("systemctl", "--user", "disable", systemdUnitName).Run()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove unit: %w", err)
	}
	exec.Command("systemctl", "--user", "daemon-reload").Run()

	if debug {
		fmt.Printf("[DEBUG] removed systemd user unit at %s\n", path)
	}
	return nil
}
