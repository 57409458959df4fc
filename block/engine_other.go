//go:build !unix

package block

import (
	"os"

	"github.com/0xef53/vmmblk/devices/virtio"
)

// Engine constructs devices. The builder always passes a nil file,
// so a device opens its backing resource itself.
type Engine interface {
	FromFile(id string, f *os.File, cache virtio.CacheType, path string, format virtio.ImageType, readOnly bool) (Device, error)
}

func createBlockByKind(e Engine, config BlockDeviceConfig) (Device, error) {
	switch kind := config.Device.(type) {
	case File:
		return e.FromFile(config.BlockID, nil, config.CacheType, kind.DiskImagePath, kind.DiskImageFormat, config.IsDiskReadOnly)
	}

	return nil, ErrUnknownDeviceKind
}
