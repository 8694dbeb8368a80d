//go:build linux || freebsd

package save

import "golang.org/x/sys/unix"

// fdatasync syncs a file descriptor's data (and the minimum necessary
// metadata) to disk, matching the durability level the save protocol
// relies on for its tempfile-and-rename and in-place writes alike.
func fdatasync(fd int) error {
	return unix.Fdatasync(fd)
}
