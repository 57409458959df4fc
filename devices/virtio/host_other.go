//go:build !unix

package virtio

import (
	"os"
)

func checkFileType(f *os.File, path string) error {
	fi, err := f.Stat()
	if err != nil {
		return err
	}

	if fi.Mode().IsRegular() {
		return nil
	}

	return &UnsupportedFileError{Path: path, Mode: fi.Mode().String()}
}

func lockImage(_ *os.File, _ bool) error {
	return nil
}
