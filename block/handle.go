package block

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// Handle is a shared reference to a constructed device.
// Access to the device is serialized by the handle lock.
//
// A new handle has one holder. Every Acquire must be paired with
// a Release; the device is closed when the last holder releases it.
type Handle struct {
	mu  sync.Mutex
	dev Device

	refs atomic.Int32
}

func newHandle(dev Device) *Handle {
	h := Handle{dev: dev}

	h.refs.Store(1)

	return &h
}

// Do calls fn with the device while holding the handle lock.
func (h *Handle) Do(fn func(Device) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.dev == nil {
		return ErrHandleReleased
	}

	return fn(h.dev)
}

// ID returns the device id, or an empty string if the handle has been released.
func (h *Handle) ID() string {
	var id string

	_ = h.Do(func(d Device) error {
		id = d.ID()
		return nil
	})

	return id
}

// Acquire registers one more holder and returns the same handle.
// A handle whose last holder is gone cannot be acquired again.
func (h *Handle) Acquire() (*Handle, error) {
	for {
		n := h.refs.Load()

		if n <= 0 {
			return nil, ErrHandleReleased
		}

		if h.refs.CompareAndSwap(n, n+1) {
			return h, nil
		}
	}
}

// Release drops one holder. The last one closes the device.
func (h *Handle) Release() error {
	for {
		n := h.refs.Load()

		if n <= 0 {
			return ErrHandleReleased
		}

		if h.refs.CompareAndSwap(n, n-1) {
			if n > 1 {
				return nil
			}
			break
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	dev := h.dev
	if dev == nil {
		return ErrHandleReleased
	}

	h.dev = nil

	log.WithField("id", dev.ID()).Debug("Last handle released, closing device")

	return dev.Close()
}

// Refs returns the current number of holders.
func (h *Handle) Refs() int {
	return int(h.refs.Load())
}
