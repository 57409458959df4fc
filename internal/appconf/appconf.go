package appconf

import (
	"fmt"
	"strings"

	"github.com/0xef53/vmmblk/devices/virtio"

	"gopkg.in/gcfg.v1"
)

const DefaultConfigFile = "/etc/vmmblk/vmmblk.ini"

type CommonParams struct {
	DrivesFile string `gcfg:"drives-file"`
}

type LogParams struct {
	Level string `gcfg:"level"`
	JSON  bool   `gcfg:"json"`
}

type BuilderParams struct {
	DefaultCache string `gcfg:"default-cache"`
	SkipFailed   bool   `gcfg:"skip-failed"`

	CacheType virtio.CacheType `gcfg:"-"`
}

// Config represents the application configuration
type Config struct {
	Common  CommonParams
	Log     LogParams
	Builder BuilderParams
}

func defaultConfig() *Config {
	return &Config{
		Common: CommonParams{
			DrivesFile: "/etc/vmmblk/drives.yaml",
		},
		Log: LogParams{
			Level: "info",
		},
		Builder: BuilderParams{
			DefaultCache: virtio.CacheType_UNSAFE.String(),
		},
	}
}

// NewConfig reads and parses the configuration file and returns
// a new instance of Config on success.
func NewConfig(p string) (*Config, error) {
	cfg := defaultConfig()

	if err := gcfg.ReadFileInto(cfg, p); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %s", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromString is like NewConfig but parses the given text.
func NewConfigFromString(s string) (*Config, error) {
	cfg := defaultConfig()

	if err := gcfg.ReadStringInto(cfg, s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %s", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	cfg := defaultConfig()

	cfg.validate()

	return cfg
}

func (c *Config) validate() error {
	c.Common.DrivesFile = strings.TrimSpace(c.Common.DrivesFile)

	v, err := virtio.CacheTypeValue(c.Builder.DefaultCache)
	if err != nil {
		return fmt.Errorf("builder.default-cache: %w", err)
	}

	c.Builder.CacheType = v

	return nil
}
