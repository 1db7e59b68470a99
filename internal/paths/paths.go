// Package paths resolves configuration, data, and export directory
// locations for the rollcall daemon.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names used when no override is active.
const (
	DefaultConfigDirName = ".rollcall"
	DefaultDataDirName   = "data"
	DefaultExportDirName = "exports"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ROLLCALL_CONFIG_DIR"
	EnvDataDir   = "ROLLCALL_DATA_DIR"
	EnvExportDir = "ROLLCALL_EXPORT_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/rollcall (fallback ~/.config/rollcall)
// macOS:   ~/Library/Application Support/rollcall
// Windows: %APPDATA%/rollcall
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "rollcall"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "rollcall"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "rollcall"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > ROLLCALL_CONFIG_DIR env > CWD-relative default.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return filepath.Abs(DefaultConfigDirName)
}

// ResolveDataDir returns the partition directory following the precedence
// chain: flag > config value > ROLLCALL_DATA_DIR env > $(CWD)/data.
//
// The CWD-relative default keeps a kiosk deployment self-contained next
// to the binary.
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolveDir(flag, configValue, EnvDataDir, DefaultDataDirName)
}

// ResolveExportDir returns the spreadsheet output directory following the
// precedence chain: flag > config value > ROLLCALL_EXPORT_DIR env >
// $(CWD)/exports.
func ResolveExportDir(flag, configValue string) (string, error) {
	return resolveDir(flag, configValue, EnvExportDir, DefaultExportDirName)
}

func resolveDir(flag, configValue, envVar, defaultName string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(envVar); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, defaultName), nil
}
