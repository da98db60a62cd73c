// Package paths resolves where cropchain keeps its configuration and its
// database. Every resolver follows the same precedence: explicit flag,
// then environment, then a platform default, with CWD-relative data as
// the primary mode so each deployment keeps its database next to its
// working directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".cropchain"
	DefaultDataDirName   = ".cropchain-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CROPCHAIN_CONFIG_DIR"
	EnvDataDir   = "CROPCHAIN_DATA_DIR"
)

const appDirName = "cropchain"

// DefaultConfigDir returns the platform default configuration directory:
// $XDG_CONFIG_HOME/cropchain (fallback ~/.config/cropchain) on Linux,
// os.UserConfigDir()/cropchain elsewhere (~/Library/Application Support
// on macOS, %APPDATA% on Windows).
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// DefaultDataDir returns the platform default data directory:
// $XDG_DATA_HOME/cropchain (fallback ~/.local/share/cropchain) on Linux,
// the same directory as DefaultConfigDir elsewhere.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// ResolveConfigDir picks the configuration directory: the flag if set,
// else CROPCHAIN_CONFIG_DIR, else the platform default. Relative paths
// are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: the flag if set, else the
// config.yaml data_dir value, else CROPCHAIN_DATA_DIR, else
// $(CWD)/.cropchain-db. Relative paths are made absolute.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
