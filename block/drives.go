package block

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/0xef53/vmmblk/devices/virtio"

	"gopkg.in/yaml.v3"
)

type drivesFile struct {
	Drives []driveSpec `yaml:"drives"`
}

type driveSpec struct {
	ID       string        `yaml:"id"`
	Cache    string        `yaml:"cache"`
	ReadOnly bool          `yaml:"read_only"`
	File     *fileSpec     `yaml:"file"`
	CustomIO *customIOSpec `yaml:"custom_io"`
}

type fileSpec struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

type customIOSpec struct {
	URI         string        `yaml:"uri"`
	Size        uint64        `yaml:"size"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// LoadDrives reads a YAML list of drives and returns their configurations
// in the order they appear. Drives without an explicit cache type get defaultCache.
func LoadDrives(r io.Reader, defaultCache virtio.CacheType) ([]BlockDeviceConfig, error) {
	var df drivesFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&df); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse drives: %w", err)
	}

	configs := make([]BlockDeviceConfig, 0, len(df.Drives))

	for idx, d := range df.Drives {
		c, err := d.config(defaultCache)
		if err != nil {
			return nil, fmt.Errorf("drive #%d: %w", idx, err)
		}

		configs = append(configs, *c)
	}

	return configs, nil
}

func LoadDrivesFile(p string, defaultCache virtio.CacheType) ([]BlockDeviceConfig, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadDrives(f, defaultCache)
}

func (d *driveSpec) config(defaultCache virtio.CacheType) (*BlockDeviceConfig, error) {
	c := BlockDeviceConfig{
		BlockID:        strings.TrimSpace(d.ID),
		CacheType:      defaultCache,
		IsDiskReadOnly: d.ReadOnly,
	}

	if len(c.BlockID) == 0 {
		return nil, fmt.Errorf("empty drive id")
	}

	if len(strings.TrimSpace(d.Cache)) > 0 {
		v, err := virtio.CacheTypeValue(d.Cache)
		if err != nil {
			return nil, err
		}
		c.CacheType = v
	}

	switch {
	case d.File != nil && d.CustomIO != nil:
		return nil, fmt.Errorf("%s: only one of file or custom_io can be set", c.BlockID)
	case d.File != nil:
		path := strings.TrimSpace(d.File.Path)

		if len(path) == 0 {
			return nil, fmt.Errorf("%s: empty disk image path", c.BlockID)
		}

		format, err := virtio.ImageTypeValue(d.File.Format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.BlockID, err)
		}

		c.Device = File{DiskImagePath: path, DiskImageFormat: format}
	case d.CustomIO != nil:
		kind, err := d.CustomIO.kind()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.BlockID, err)
		}

		c.Device = kind
	default:
		return nil, fmt.Errorf("%s: either file or custom_io must be set", c.BlockID)
	}

	return &c, nil
}
