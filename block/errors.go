package block

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownDeviceKind   = errors.New("unknown device kind")
	ErrHandleReleased      = errors.New("handle already released")
	ErrCustomIOUnsupported = errors.New("custom I/O devices are not supported on this platform")
)

type BlockConfigErrorKind uint8

const (
	CreateBlockDevice BlockConfigErrorKind = iota + 1
)

func (k BlockConfigErrorKind) String() string {
	switch k {
	case CreateBlockDevice:
		return "CreateBlockDevice"
	}

	return "UNKNOWN"
}

type BlockConfigError struct {
	Kind    BlockConfigErrorKind
	BlockID string
	Err     error
}

func (e *BlockConfigError) Error() string {
	if len(e.BlockID) == 0 {
		return fmt.Sprintf("cannot create block device: %s", e.Err)
	}

	return fmt.Sprintf("%s: cannot create block device: %s", e.BlockID, e.Err)
}

func (e *BlockConfigError) Unwrap() error {
	return e.Err
}

func IsCreateBlockDeviceError(err error) bool {
	var e *BlockConfigError

	if errors.As(err, &e) {
		return e.Kind == CreateBlockDevice
	}

	return false
}

func newCreateBlockDeviceError(id string, err error) *BlockConfigError {
	return &BlockConfigError{
		Kind:    CreateBlockDevice,
		BlockID: id,
		Err:     err,
	}
}
