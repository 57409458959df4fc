package virtio

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Block is a virtio block device together with the backing resource
// it has opened: a disk image (file or host block device) or a connection
// to a custom I/O endpoint.
type Block struct {
	mu sync.Mutex

	id       string
	uuid     uuid.UUID
	cache    CacheType
	format   ImageType
	readOnly bool
	path     string
	size     uint64

	file *os.File
	conn net.Conn

	closed bool
}

func (b *Block) ID() string {
	return b.id
}

func (b *Block) UUID() string {
	return b.uuid.String()
}

func (b *Block) CacheType() CacheType {
	return b.cache
}

func (b *Block) ImageType() ImageType {
	return b.format
}

func (b *Block) ReadOnly() bool {
	return b.readOnly
}

// Path returns the disk image path or the custom I/O endpoint URI.
func (b *Block) Path() string {
	return b.path
}

// Size returns the capacity of the device in bytes as seen by the guest.
func (b *Block) Size() uint64 {
	return b.size
}

func (b *Block) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.closed = true

	var err error

	if b.file != nil {
		if b.readOnly {
			err = b.file.Close()
		} else {
			if err = b.file.Sync(); err != nil {
				b.file.Close()
			} else {
				err = b.file.Close()
			}
		}
	}

	if b.conn != nil {
		err = b.conn.Close()
	}

	log.WithFields(log.Fields{"id": b.id, "uuid": b.uuid}).Debug("Block device closed")

	return err
}

// FromFile creates a block device backed by a disk image.
//
// FromFile takes ownership of f. If f is nil, the image at path is opened
// by the device itself. The image must be a regular file or a host block device.
func FromFile(id string, f *os.File, cache CacheType, path string, format ImageType, readOnly bool) (*Block, error) {
	if f == nil {
		flags := os.O_RDWR
		if readOnly {
			flags = os.O_RDONLY
		}

		fd, err := os.OpenFile(path, flags, 0)
		if err != nil {
			return nil, err
		}

		f = fd
	}

	b, err := newFileBlock(id, f, cache, path, format, readOnly)
	if err != nil {
		f.Close()

		return nil, err
	}

	log.WithFields(log.Fields{
		"id":     b.id,
		"uuid":   b.uuid,
		"path":   b.path,
		"format": b.format,
		"cache":  b.cache,
		"ro":     b.readOnly,
		"size":   b.size,
	}).Debug("Block device created from file")

	return b, nil
}

func newFileBlock(id string, f *os.File, cache CacheType, path string, format ImageType, readOnly bool) (*Block, error) {
	if err := checkFileType(f, path); err != nil {
		return nil, err
	}

	if err := lockImage(f, readOnly); err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}

	size := uint64(end)

	if format == ImageType_QCOW2 {
		v, err := probeQcow2(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, path)
		}

		size = v
	}

	return &Block{
		id:       id,
		uuid:     uuid.New(),
		cache:    cache,
		format:   format,
		readOnly: readOnly,
		path:     path,
		size:     size,
		file:     f,
	}, nil
}
