package virtio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var qcow2Magic = []byte{'Q', 'F', 'I', 0xfb}

// Header layout (big-endian):
//
//	0  magic
//	4  version
//	8  backing_file_offset
//	16 backing_file_size
//	20 cluster_bits
//	24 size
const qcow2HeaderLen = 32

// probeQcow2 checks the image header and returns the virtual disk size.
func probeQcow2(r io.ReaderAt) (uint64, error) {
	hdr := make([]byte, qcow2HeaderLen)

	if _, err := r.ReadAt(hdr, 0); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, fmt.Errorf("%w: qcow2 header is truncated", ErrBadImageFormat)
		}
		return 0, err
	}

	if !bytes.Equal(hdr[:4], qcow2Magic) {
		return 0, fmt.Errorf("%w: no qcow2 magic", ErrBadImageFormat)
	}

	switch v := binary.BigEndian.Uint32(hdr[4:8]); v {
	case 2, 3:
	default:
		return 0, fmt.Errorf("%w: unsupported qcow2 version: %d", ErrBadImageFormat, v)
	}

	return binary.BigEndian.Uint64(hdr[24:32]), nil
}
