// Package xdg resolves the XDG base directories used by hmsctl.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "hms"

// StateDir returns $XDG_STATE_HOME/hms, falling back to ~/.local/state/hms.
func StateDir() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(base, appName)
}

// SessionFile is the default location of the file session backend.
func SessionFile() string {
	return filepath.Join(StateDir(), "session.json")
}

// EnsureDir creates path and its parents with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}
