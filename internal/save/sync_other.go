//go:build !(linux || freebsd || darwin)

package save

import "os"

// fdatasync falls back to a plain os.File.Sync on platforms without a
// wired syscall-level sync.
func fdatasync(fd int) error {
	return os.NewFile(uintptr(fd), "").Sync()
}
