//go:build !linux
// +build !linux

package disk

import "os"

func deviceSectorSize(file *os.File) (int64, error) {
	return DefaultSectorSize, nil
}

func deviceSize(file *os.File) (int64, error) {
	return 0, os.ErrInvalid
}
