package block

import (
	"os"
	"sync"

	"github.com/0xef53/vmmblk/devices/virtio"
)

type fakeDevice struct {
	id     string
	mu     sync.Mutex
	closed int
}

func (d *fakeDevice) ID() string { return d.id }

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed++

	return nil
}

type fileCall struct {
	ID       string
	File     *os.File
	Cache    virtio.CacheType
	Path     string
	Format   virtio.ImageType
	ReadOnly bool
}

// fakeEngine records every construction call. Devices whose id is
// listed in fail are not created.
type fakeEngine struct {
	fail map[string]error

	fileCalls     []fileCall
	customIOCalls []customIOCall
}

func (e *fakeEngine) FromFile(id string, f *os.File, cache virtio.CacheType, path string, format virtio.ImageType, readOnly bool) (Device, error) {
	e.fileCalls = append(e.fileCalls, fileCall{id, f, cache, path, format, readOnly})

	if err, ok := e.fail[id]; ok {
		return nil, err
	}

	return &fakeDevice{id: id}, nil
}
