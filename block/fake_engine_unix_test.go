//go:build unix

package block

import (
	"os"

	"github.com/0xef53/vmmblk/devices/virtio"
)

type customIOCall struct {
	ID       string
	File     *os.File
	Cache    virtio.CacheType
	Options  virtio.CustomIOOptions
	ReadOnly bool
}

func (e *fakeEngine) FromCustomIO(id string, f *os.File, cache virtio.CacheType, opts virtio.CustomIOOptions, readOnly bool) (Device, error) {
	e.customIOCalls = append(e.customIOCalls, customIOCall{id, f, cache, opts, readOnly})

	if err, ok := e.fail[id]; ok {
		return nil, err
	}

	return &fakeDevice{id: id}, nil
}
