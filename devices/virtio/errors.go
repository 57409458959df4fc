package virtio

import (
	"errors"
	"fmt"
)

var (
	ErrBadImageFormat = errors.New("bad image format")
	ErrImageLocked    = errors.New("image is locked by another process")
	ErrClosed         = errors.New("device closed")
)

type UnsupportedFileError struct {
	Path string
	Mode string
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("not a regular file or block device: %s (%s)", e.Path, e.Mode)
}

func IsUnsupportedFileError(err error) bool {
	var e *UnsupportedFileError

	return errors.As(err, &e)
}
