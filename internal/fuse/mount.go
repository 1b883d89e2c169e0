//go:build !linux
// +build !linux

package fuse

import (
	"fmt"

	"github.com/patatetom/go-xtaf/internal/xtaf"
)

func Mount(mountpoint string, volume *xtaf.Volume) error {
	return fmt.Errorf("FUSE mount is only supported on Linux")
}
