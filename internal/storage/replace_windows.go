//go:build windows

package storage

import "os"

// osReplace renames tmpPath over dest. os.Rename uses MoveFileEx with
// MOVEFILE_REPLACE_EXISTING on Windows.
func osReplace(tmpPath, dest string) error {
	return os.Rename(tmpPath, dest)
}

// syncDir is a no-op on Windows.
func syncDir(string) error { return nil }
