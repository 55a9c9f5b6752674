package domain

import (
	"os"
	"path/filepath"
)

const (
	// InternalDirName is the name of the depstrap metadata directory inside
	// the cache root.
	InternalDirName = ".depstrap"

	// ManifestDirName is the name of the stage manifest directory.
	ManifestDirName = "manifest"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "depstrap.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCacheRoot returns the cache directory used when neither the config
// file nor the --cache-dir flag names one.
func DefaultCacheRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cache", "depstrap")
}

// ManifestPath returns the stage manifest directory under the cache root.
func ManifestPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, InternalDirName, ManifestDirName)
}
