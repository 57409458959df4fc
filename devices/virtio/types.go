package virtio

import (
	"fmt"
	"strings"
)

type CacheType uint8

const (
	CacheType_UNSAFE CacheType = iota
	CacheType_WRITEBACK
)

func (t CacheType) String() string {
	switch t {
	case CacheType_UNSAFE:
		return "unsafe"
	case CacheType_WRITEBACK:
		return "writeback"
	}

	return "UNKNOWN"
}

func CacheTypeValue(s string) (CacheType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unsafe":
		return CacheType_UNSAFE, nil
	case "writeback":
		return CacheType_WRITEBACK, nil
	}

	return 0, fmt.Errorf("unknown cache type: %s", s)
}

func (t CacheType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *CacheType) UnmarshalText(b []byte) error {
	v, err := CacheTypeValue(string(b))
	if err != nil {
		return err
	}

	*t = v

	return nil
}

type ImageType uint8

const (
	ImageType_RAW ImageType = iota
	ImageType_QCOW2
)

func (t ImageType) String() string {
	switch t {
	case ImageType_RAW:
		return "raw"
	case ImageType_QCOW2:
		return "qcow2"
	}

	return "UNKNOWN"
}

func ImageTypeValue(s string) (ImageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return ImageType_RAW, nil
	case "qcow2":
		return ImageType_QCOW2, nil
	}

	return 0, fmt.Errorf("unknown image format: %s", s)
}

func (t ImageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ImageType) UnmarshalText(b []byte) error {
	v, err := ImageTypeValue(string(b))
	if err != nil {
		return err
	}

	*t = v

	return nil
}
