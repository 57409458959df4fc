package block

import (
	"errors"
	"slices"

	log "github.com/sirupsen/logrus"
)

// BlockBuilder keeps the ordered list of block devices configured
// for one machine boot. Entries can only be appended.
//
// BlockBuilder is not safe for concurrent use; the handles it holds are.
type BlockBuilder struct {
	engine Engine

	list []*Handle

	// Device ids in insertion order, kept apart from the handles
	// so that reading them never takes a device lock.
	ids  []string
	seen map[string]struct{}
}

func NewBlockBuilder() *BlockBuilder {
	return NewBlockBuilderWithEngine(DefaultEngine)
}

func NewBlockBuilderWithEngine(e Engine) *BlockBuilder {
	if e == nil {
		e = DefaultEngine
	}

	return &BlockBuilder{
		engine: e,
		list:   make([]*Handle, 0, 4),
		ids:    make([]string, 0, 4),
		seen:   make(map[string]struct{}),
	}
}

// Insert creates a device from config and appends it to the end of the list.
// If the device cannot be created, the list is left unchanged.
func (b *BlockBuilder) Insert(config BlockDeviceConfig) error {
	dev, err := b.CreateBlock(config)
	if err != nil {
		return err
	}

	if _, ok := b.seen[config.BlockID]; ok {
		log.WithField("id", config.BlockID).Warn("Block device with the same ID is already configured")
	}

	b.list = append(b.list, newHandle(dev))
	b.ids = append(b.ids, config.BlockID)
	b.seen[config.BlockID] = struct{}{}

	log.WithFields(log.Fields{"id": config.BlockID, "index": len(b.list) - 1}).Debug("Block device added")

	return nil
}

// CreateBlock creates a device using the backend selected by config.Device.
// Any error is returned as *BlockConfigError.
func (b *BlockBuilder) CreateBlock(config BlockDeviceConfig) (Device, error) {
	dev, err := createBlockByKind(b.engine, config)
	if err != nil {
		return nil, newCreateBlockDeviceError(config.BlockID, err)
	}

	return dev, nil
}

func (b *BlockBuilder) Len() int {
	return len(b.list)
}

// Devices returns the handles in insertion order.
func (b *BlockBuilder) Devices() []*Handle {
	return slices.Clone(b.list)
}

// IDs returns the device ids in insertion order.
func (b *BlockBuilder) IDs() []string {
	return slices.Clone(b.ids)
}

// Release drops the builder's hold on every device. Devices that
// have no other holders are closed. The builder must not be used after that.
func (b *BlockBuilder) Release() error {
	var errs []error

	for _, h := range b.list {
		if err := h.Release(); err != nil {
			errs = append(errs, err)
		}
	}

	b.list = nil
	b.ids = nil
	b.seen = make(map[string]struct{})

	return errors.Join(errs...)
}
