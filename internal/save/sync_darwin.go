//go:build darwin

package save

import "golang.org/x/sys/unix"

// fdatasync syncs a file descriptor to disk. macOS has no fdatasync(2);
// fsync() is the closest equivalent available without requiring
// F_FULLFSYNC's heavier guarantee for routine periodic saves.
func fdatasync(fd int) error {
	return unix.Fsync(fd)
}
