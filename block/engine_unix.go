//go:build unix

package block

import (
	"os"

	"github.com/0xef53/vmmblk/devices/virtio"
)

// Engine constructs devices. The builder always passes a nil file,
// so a device opens its backing resource itself.
type Engine interface {
	FromFile(id string, f *os.File, cache virtio.CacheType, path string, format virtio.ImageType, readOnly bool) (Device, error)
	FromCustomIO(id string, f *os.File, cache virtio.CacheType, opts virtio.CustomIOOptions, readOnly bool) (Device, error)
}

func (virtioEngine) FromCustomIO(id string, f *os.File, cache virtio.CacheType, opts virtio.CustomIOOptions, readOnly bool) (Device, error) {
	b, err := virtio.FromCustomIO(id, f, cache, opts, readOnly)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func createBlockByKind(e Engine, config BlockDeviceConfig) (Device, error) {
	switch kind := config.Device.(type) {
	case File:
		return e.FromFile(config.BlockID, nil, config.CacheType, kind.DiskImagePath, kind.DiskImageFormat, config.IsDiskReadOnly)
	case CustomIO:
		return e.FromCustomIO(config.BlockID, nil, config.CacheType, kind.Options, config.IsDiskReadOnly)
	}

	return nil, ErrUnknownDeviceKind
}
