//go:build !unix

package block

func (s *customIOSpec) kind() (DeviceKind, error) {
	return nil, ErrCustomIOUnsupported
}
