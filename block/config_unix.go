//go:build unix

package block

import (
	"github.com/0xef53/vmmblk/devices/virtio"
)

// CustomIO is a device whose I/O is served by an external endpoint.
type CustomIO struct {
	Options virtio.CustomIOOptions
}

func (CustomIO) isDeviceKind() {}
