package block

import (
	"os"

	"github.com/0xef53/vmmblk/devices/virtio"
)

// Device is the part of a constructed device the registry relies on.
type Device interface {
	ID() string
	Close() error
}

type virtioEngine struct{}

func (virtioEngine) FromFile(id string, f *os.File, cache virtio.CacheType, path string, format virtio.ImageType, readOnly bool) (Device, error) {
	b, err := virtio.FromFile(id, f, cache, path, format, readOnly)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// DefaultEngine creates devices with the virtio device engine.
var DefaultEngine Engine = virtioEngine{}
