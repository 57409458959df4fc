package block

import (
	"github.com/0xef53/vmmblk/devices/virtio"
)

// BlockDeviceConfig describes one block device to be created for the guest.
type BlockDeviceConfig struct {
	// BlockID identifies the device to the guest and the transport.
	// Uniqueness is not enforced.
	BlockID string

	CacheType virtio.CacheType

	Device DeviceKind

	IsDiskReadOnly bool
}

// DeviceKind is the backend of a block device. The set of kinds is closed:
// File and, on unix platforms, CustomIO.
type DeviceKind interface {
	isDeviceKind()
}

// File is a device backed by a disk image on the host.
type File struct {
	DiskImagePath   string
	DiskImageFormat virtio.ImageType
}

func (File) isDeviceKind() {}
