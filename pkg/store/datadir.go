package store

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "pulse"

// EnvDataDir overrides the platform data directory.
const EnvDataDir = "PULSE_DIR"

// ResolveDataDir returns explicit when set, then $PULSE_DIR, then
// DefaultDataDir.
func ResolveDataDir(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	return DefaultDataDir()
}

// DefaultDataDir returns where pulse looks for data on this platform:
//
//   - macOS:   ~/Library/Application Support/pulse
//   - Windows: %LOCALAPPDATA%\pulse, %APPDATA%\pulse, or ~\pulse
//   - others:  $XDG_DATA_HOME/pulse or ~/.local/share/pulse
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return dataDirFor(runtime.GOOS, home, os.Getenv)
}

// dataDirFor takes the first non-empty base among the platform's
// environment variables, falling back to a path under home.
func dataDirFor(goos, home string, getenv func(string) string) string {
	var envBases []string
	fallback := filepath.Join(home, ".local", "share")

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		envBases = []string{"LOCALAPPDATA", "APPDATA"}
		fallback = home
	default:
		envBases = []string{"XDG_DATA_HOME"}
	}

	for _, name := range envBases {
		if base := getenv(name); base != "" {
			return filepath.Join(base, appName)
		}
	}
	return filepath.Join(fallback, appName)
}
