//go:build unix

package block

import (
	"fmt"
	"strings"

	"github.com/0xef53/vmmblk/devices/virtio"
)

func (s *customIOSpec) kind() (DeviceKind, error) {
	uri := strings.TrimSpace(s.URI)

	if len(uri) == 0 {
		return nil, fmt.Errorf("empty custom I/O endpoint")
	}

	if _, err := virtio.ParseURI(uri); err != nil {
		return nil, err
	}

	return CustomIO{
		Options: virtio.CustomIOOptions{
			URI:         uri,
			Size:        s.Size,
			DialTimeout: s.DialTimeout,
		},
	}, nil
}
