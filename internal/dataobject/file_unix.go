//go:build unix

package dataobject

import (
	"os"
	"syscall"
)

// statIdentity extracts the (device, inode) pair the reference
// implementation uses to recognise "this is the same file" independent
// of which open file descriptor reached it.
func statIdentity(fi os.FileInfo) (dev, inode uint64) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0
	}
	return uint64(st.Dev), uint64(st.Ino)
}
