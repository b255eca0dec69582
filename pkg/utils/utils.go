package utils

import (
	"os"
	"path/filepath"
)

// DefaultDataDir is where the local database lands when no config is
// given: the user config dir if resolvable, else the working directory.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(base, "curricula")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "."
	}
	return dir
}
