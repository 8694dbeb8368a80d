//go:build !(linux || darwin || freebsd)

package save

import "os"

// canWriteInPlace conservatively always routes through the
// tempfile-and-rename path on platforms without hard-link-count stat
// wired up, except for propagating a missing-destination error unchanged.
func canWriteInPlace(dest string) (bool, error) {
	if _, err := os.Lstat(dest); err != nil {
		return false, err
	}
	return false, nil
}
