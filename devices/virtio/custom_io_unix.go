//go:build unix

package virtio

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultNBDPort     = 10809
	DefaultDialTimeout = 5 * time.Second
)

// CustomIOOptions describes a block device whose I/O is served by an
// external process over an NBD connection.
type CustomIOOptions struct {
	// URI of the endpoint, for example:
	//   nbd://example.com:10809/export
	//   nbd+unix:///export?socket=/run/nbd.sock
	URI string `json:"uri" yaml:"uri"`

	// Size is the capacity advertised to the guest, in bytes.
	Size uint64 `json:"size" yaml:"size"`

	DialTimeout time.Duration `json:"dial_timeout,omitempty" yaml:"dial_timeout,omitempty"`
}

type Endpoint struct {
	Scheme     string
	Network    string
	Address    string
	ExportName string
}

// ParseURI parses an NBD URI into a dialable endpoint.
func ParseURI(rawuri string) (*Endpoint, error) {
	u, err := url.Parse(rawuri)
	if err != nil {
		return nil, err
	}

	ep := Endpoint{
		Scheme:     u.Scheme,
		ExportName: filepath.Base(u.Path),
	}

	if ep.ExportName == "/" || ep.ExportName == "." {
		ep.ExportName = ""
	}

	switch u.Scheme {
	case "nbd":
		ep.Network = "tcp"

		if len(u.Host) == 0 {
			return nil, fmt.Errorf("NBD host is not set: %s", rawuri)
		}

		host, port := u.Hostname(), DefaultNBDPort

		if p := u.Port(); len(p) > 0 {
			if i, err := strconv.Atoi(p); err == nil {
				port = i
			} else {
				return nil, fmt.Errorf("NBD port should be an integer")
			}
		}

		ep.Address = net.JoinHostPort(host, strconv.Itoa(port))
	case "nbd+unix":
		ep.Network = "unix"

		ep.Address = u.Query().Get("socket")

		if len(ep.Address) == 0 {
			return nil, fmt.Errorf("NBD socket is not set: %s", rawuri)
		}
	default:
		return nil, fmt.Errorf("unknown NBD scheme: %s", rawuri)
	}

	return &ep, nil
}

// FromCustomIO creates a block device served by the endpoint described in opts.
//
// FromCustomIO takes ownership of f. If f is non-nil, it must be
// a connected socket and is used instead of dialing.
func FromCustomIO(id string, f *os.File, cache CacheType, opts CustomIOOptions, readOnly bool) (*Block, error) {
	if f != nil {
		// net.FileConn works on a duplicate of the descriptor
		defer f.Close()
	}

	ep, err := ParseURI(opts.URI)
	if err != nil {
		return nil, err
	}

	var conn net.Conn

	if f != nil {
		conn, err = net.FileConn(f)
		if err != nil {
			return nil, err
		}
	} else {
		timeout := opts.DialTimeout
		if timeout <= 0 {
			timeout = DefaultDialTimeout
		}

		conn, err = net.DialTimeout(ep.Network, ep.Address, timeout)
		if err != nil {
			return nil, err
		}
	}

	b := Block{
		id:       id,
		uuid:     uuid.New(),
		cache:    cache,
		format:   ImageType_RAW,
		readOnly: readOnly,
		path:     opts.URI,
		size:     opts.Size,
		conn:     conn,
	}

	log.WithFields(log.Fields{
		"id":     b.id,
		"uuid":   b.uuid,
		"uri":    b.path,
		"export": ep.ExportName,
		"cache":  b.cache,
		"ro":     b.readOnly,
		"size":   b.size,
	}).Debug("Block device created from custom I/O endpoint")

	return &b, nil
}
