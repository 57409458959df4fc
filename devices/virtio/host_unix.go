//go:build unix

package virtio

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func checkFileType(f *os.File, path string) error {
	var st unix.Stat_t

	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return &os.PathError{Op: "fstat", Path: path, Err: err}
	}

	switch st.Mode & unix.S_IFMT {
	case unix.S_IFREG, unix.S_IFBLK:
		return nil
	}

	return &UnsupportedFileError{Path: path, Mode: fileTypeName(st.Mode)}
}

func fileTypeName(mode uint32) string {
	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return "directory"
	case unix.S_IFCHR:
		return "character device"
	case unix.S_IFIFO:
		return "fifo"
	case unix.S_IFSOCK:
		return "socket"
	case unix.S_IFLNK:
		return "symlink"
	}

	return "unknown"
}

// lockImage takes an advisory lock on the image: shared for read-only
// devices, exclusive otherwise.
func lockImage(f *os.File, readOnly bool) error {
	how := unix.LOCK_EX
	if readOnly {
		how = unix.LOCK_SH
	}

	err := unix.Flock(int(f.Fd()), how|unix.LOCK_NB)

	if errors.Is(err, unix.EWOULDBLOCK) {
		return ErrImageLocked
	}

	return err
}
