//go:build unix

package virtio

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri  string
		want Endpoint
	}{
		{"nbd://example.com:10810/export", Endpoint{"nbd", "tcp", "example.com:10810", "export"}},
		{"nbd://example.com/disk0", Endpoint{"nbd", "tcp", "example.com:10809", "disk0"}},
		{"nbd+unix:///data?socket=/run/nbd.sock", Endpoint{"nbd+unix", "unix", "/run/nbd.sock", "data"}},
		{"nbd+unix://?socket=/run/nbd.sock", Endpoint{"nbd+unix", "unix", "/run/nbd.sock", ""}},
	}

	for _, tt := range tests {
		ep, err := ParseURI(tt.uri)
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.want, *ep, tt.uri)
	}

	for _, uri := range []string{"iscsi://host/target", "nbd:///export", "nbd://host:port/x", "nbd+unix:///export"} {
		_, err := ParseURI(uri)
		assert.Error(t, err, uri)
	}
}

func listenUnix(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "nbd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	sock := filepath.Join(dir, "s")

	l, err := net.Listen("unix", sock)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			defer c.Close()
		}
	}()

	return sock
}

func TestFromCustomIO(t *testing.T) {
	sock := listenUnix(t)

	opts := CustomIOOptions{
		URI:         "nbd+unix:///data?socket=" + sock,
		Size:        1 << 30,
		DialTimeout: time.Second,
	}

	b, err := FromCustomIO("data", nil, CacheType_WRITEBACK, opts, false)
	require.NoError(t, err)

	assert.Equal(t, "data", b.ID())
	assert.Equal(t, opts.URI, b.Path())
	assert.Equal(t, uint64(1<<30), b.Size())
	assert.Equal(t, CacheType_WRITEBACK, b.CacheType())
	assert.False(t, b.ReadOnly())

	assert.NoError(t, b.Close())
}

func TestFromCustomIOUnreachable(t *testing.T) {
	opts := CustomIOOptions{
		URI: "nbd+unix:///data?socket=" + filepath.Join(t.TempDir(), "missing.sock"),
	}

	_, err := FromCustomIO("data", nil, CacheType_UNSAFE, opts, true)
	assert.Error(t, err)
}

func socketPair(t *testing.T) (*os.File, *os.File) {
	t.Helper()

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)

	return os.NewFile(uintptr(fds[0]), "local"), os.NewFile(uintptr(fds[1]), "remote")
}

func TestFromCustomIOPreopenedIsClosed(t *testing.T) {
	local, remote := socketPair(t)
	defer remote.Close()

	opts := CustomIOOptions{URI: "nbd+unix:///data?socket=/nonexistent.sock", Size: 1 << 20}

	b, err := FromCustomIO("data", local, CacheType_UNSAFE, opts, true)
	require.NoError(t, err)

	_, err = local.Stat()
	assert.True(t, errors.Is(err, os.ErrClosed), "pre-opened file is still open: %v", err)

	assert.NoError(t, b.Close())
}

func TestFromCustomIOPreopenedIsClosedOnError(t *testing.T) {
	local, remote := socketPair(t)
	defer remote.Close()

	_, err := FromCustomIO("data", local, CacheType_UNSAFE, CustomIOOptions{URI: "iscsi://host/iqn"}, true)
	require.Error(t, err)

	_, err = local.Stat()
	assert.True(t, errors.Is(err, os.ErrClosed), "pre-opened file is still open: %v", err)
}
