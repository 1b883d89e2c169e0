// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package disk opens a raw block device or partition image file for
// read-only access and reports its size, on top of the cross-platform
// handle in internal/fs.
package disk

import (
	"fmt"
	"os"
	"runtime"

	"github.com/patatetom/go-xtaf/internal/fs"
)

// DefaultSectorSize is used for regular files, or when a device's sector
// size cannot be determined.
const DefaultSectorSize = 512

// Device is an opened disk device or image file. It satisfies
// xtaf.Source: ReadAt plus a total Size.
type Device struct {
	DevicePath string
	SectorSize int64
	RealSize   int64
	IsDevice   bool
	file       fs.File
}

// ReadAt implements io.ReaderAt, and in turn xtaf.Source.
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	return d.file.ReadAt(p, off)
}

// Size implements xtaf.Source.
func (d *Device) Size() int64 {
	return d.RealSize
}

// Close closes the underlying file handle.
func (d *Device) Close() error {
	return d.file.Close()
}

// Open opens devicePath for read-only access. On Linux, block devices get
// their size and sector size from the kernel. On Windows, the size comes from
// the platform's raw-disk API (via internal/fs's Stat) and the sector size
// stays DefaultSectorSize. Regular files (partition image dumps) are sized
// via Stat.
func Open(devicePath string) (*Device, error) {
	devicePath = NormalizeVolumePath(devicePath)

	file, err := fs.Open(devicePath)
	if err != nil {
		return nil, fmt.Errorf("disk: failed to open %s: %w", devicePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("disk: failed to stat %s: %w", devicePath, err)
	}

	dev := &Device{
		DevicePath: devicePath,
		SectorSize: DefaultSectorSize,
		IsDevice:   stat.Mode()&os.ModeDevice != 0,
		RealSize:   stat.Size(),
		file:       file,
	}

	if dev.IsDevice && runtime.GOOS == "linux" {
		if osFile, ok := file.(*os.File); ok {
			if sectorSize, sizeErr := deviceSectorSize(osFile); sizeErr == nil {
				dev.SectorSize = sectorSize
			}
			if realSize, sizeErr := deviceSize(osFile); sizeErr == nil {
				dev.RealSize = realSize
			}
		}
	}

	if dev.RealSize == 0 {
		file.Close()
		return nil, fmt.Errorf("disk: %s reports a size of zero", devicePath)
	}
	return dev, nil
}
