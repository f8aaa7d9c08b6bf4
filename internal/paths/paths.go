// Package paths resolves where the phonebook keeps its configuration and
// its database. Every resolver returns an absolute path.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform config and data roots.
const AppName = "phonebook"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PHONEBOOK_CONFIG_DIR"
	EnvDataDir   = "PHONEBOOK_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir returns $xdgVar/phonebook, falling back to ~/<fallback...>/phonebook.
func xdgDir(xdgVar string, fallback ...string) (string, error) {
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/phonebook (fallback ~/.config/phonebook)
// macOS:   ~/Library/Application Support/phonebook
// Windows: %APPDATA%/phonebook
func DefaultConfigDir() (string, error) {
	if platformDir.goos == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultDataDir returns the platform-specific default data directory.
// Outside Linux it is the same as DefaultConfigDir.
//
// Linux: $XDG_DATA_HOME/phonebook (fallback ~/.local/share/phonebook)
func DefaultDataDir() (string, error) {
	if platformDir.goos == "linux" {
		return xdgDir("XDG_DATA_HOME", ".local", "share")
	}
	return DefaultConfigDir()
}

// ResolveConfigDir returns the configuration directory:
// flag > PHONEBOOK_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	return resolve(flag, os.Getenv(EnvConfigDir), DefaultConfigDir)
}

// ResolveDataDir returns the data directory:
// flag > PHONEBOOK_DATA_DIR > data_dir from config.yaml > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	env := os.Getenv(EnvDataDir)
	if env == "" {
		env = configValue
	}
	return resolve(flag, env, DefaultDataDir)
}

func resolve(flag, fallback string, platform func() (string, error)) (string, error) {
	switch {
	case flag != "":
		return filepath.Abs(flag)
	case fallback != "":
		return filepath.Abs(fallback)
	default:
		return platform()
	}
}
