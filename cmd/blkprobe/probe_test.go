package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xef53/vmmblk/block"
	"github.com/0xef53/vmmblk/devices/virtio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDisk(t *testing.T, dir, name string, size int) string {
	t.Helper()

	p := filepath.Join(dir, name)

	require.NoError(t, os.WriteFile(p, make([]byte, size), 0644))

	return p
}

func fileConfig(id, path string) block.BlockDeviceConfig {
	return block.BlockDeviceConfig{
		BlockID:        id,
		CacheType:      virtio.CacheType_WRITEBACK,
		Device:         block.File{DiskImagePath: path, DiskImageFormat: virtio.ImageType_RAW},
		IsDiskReadOnly: true,
	}
}

func TestBuildAllAndInspect(t *testing.T) {
	dir := t.TempDir()

	configs := []block.BlockDeviceConfig{
		fileConfig("rootfs", writeDisk(t, dir, "root.ext4", 8192)),
		fileConfig("data", writeDisk(t, dir, "data.img", 4096)),
	}

	builder := block.NewBlockBuilder()
	defer builder.Release()

	require.NoError(t, buildAll(builder, configs, false))

	infos, err := inspectDevices(context.Background(), builder.Devices())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "rootfs", infos[0].ID)
	assert.Equal(t, uint64(8192), infos[0].Size)
	assert.Equal(t, "writeback", infos[0].Cache)
	assert.Equal(t, "raw", infos[0].Format)
	assert.True(t, infos[0].ReadOnly)

	assert.Equal(t, 1, infos[1].Index)
	assert.Equal(t, "data", infos[1].ID)

	// inspectDevices must not keep extra holders
	for _, h := range builder.Devices() {
		assert.Equal(t, 1, h.Refs())
	}
}

func TestBuildAllFailure(t *testing.T) {
	dir := t.TempDir()

	configs := []block.BlockDeviceConfig{
		fileConfig("rootfs", writeDisk(t, dir, "root.ext4", 512)),
		fileConfig("missing", filepath.Join(dir, "missing.img")),
		fileConfig("data", writeDisk(t, dir, "data.img", 512)),
	}

	t.Run("abort", func(t *testing.T) {
		builder := block.NewBlockBuilder()
		defer builder.Release()

		err := buildAll(builder, configs, false)

		assert.True(t, block.IsCreateBlockDeviceError(err))
		assert.Equal(t, []string{"rootfs"}, builder.IDs())
	})

	t.Run("skip", func(t *testing.T) {
		builder := block.NewBlockBuilder()
		defer builder.Release()

		require.NoError(t, buildAll(builder, configs, true))
		assert.Equal(t, []string{"rootfs", "data"}, builder.IDs())
	})
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "vmmblk.ini"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestResolveDrivesFile(t *testing.T) {
	const configured = "/etc/vmmblk/drives.yaml"

	assert.Equal(t, "/srv/a.yaml", resolveDrivesFile("/srv/a.yaml", "/srv/b.yaml", configured))
	assert.Equal(t, "/srv/b.yaml", resolveDrivesFile("", "/srv/b.yaml", configured))
	assert.Equal(t, "/srv/b.yaml", resolveDrivesFile(" ", "/srv/b.yaml", configured))
	assert.Equal(t, configured, resolveDrivesFile("", "", configured))
}

func TestVersionFormat(t *testing.T) {
	assert.Regexp(t, `^\d+\.\d+\.\d+$`, Version)
}
