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
package xtaf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-restruct/restruct"
)

// securitySectorOffset and pngSentinelOffset are absolute, drive-level
// offsets, not relative to any partition.
const (
	securitySectorOffset = 0x2000
	pngSentinelOffset    = 0x2204
	securitySectorSize   = 0x5c
)

var pngSentinel = []byte("\x89PNG\r\n\x1a\n")

// rawDriveHeader mirrors the little-endian record the security sector packs
// at 0x2000: serial number, firmware revision, model number, a 20-byte pad,
// then the sector count.
type rawDriveHeader struct {
	SerialNumber     [20]byte
	FirmwareRevision [8]byte
	ModelNumber      [40]byte
	_                [20]byte
	SectorCount      uint32
}

// DriveHeader is the optional drive-level metadata recovered from the
// security sector. It is absent on bare image dumps that start at the
// partition boundary.
type DriveHeader struct {
	SerialNumber     string
	FirmwareRevision string
	ModelNumber      string
	SectorCount      uint32
}

// Size returns the total addressable size of the drive, in bytes.
func (h *DriveHeader) Size() uint64 {
	return uint64(h.SectorCount) * DefaultSectorSize
}

// String renders a one-line summary for the CLI's info subcommand.
func (h *DriveHeader) String() string {
	return fmt.Sprintf("serial number: %s, firmware revision: %s, model number: %s, size: %d",
		h.SerialNumber, h.FirmwareRevision, h.ModelNumber, h.Size())
}

// readDriveHeader inspects the security sector at the drive's absolute
// offset 0 (not the partition offset) and returns nil, nil when the MS-logo
// PNG sentinel is absent.
func readDriveHeader(source Source, log *slog.Logger) (*DriveHeader, error) {
	drive := NewBlockDevice(source, 0, DefaultSectorSize, log)

	sentinel, err := drive.ReadAt(pngSentinelOffset, uint64(len(pngSentinel)))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sentinel, pngSentinel) {
		return nil, nil
	}

	raw, err := drive.ReadAt(securitySectorOffset, securitySectorSize)
	if err != nil {
		return nil, err
	}

	var rec rawDriveHeader
	if err := restruct.Unpack(raw, binary.LittleEndian, &rec); err != nil {
		return nil, wrapErr(KindIO, err, "failed to decode drive header")
	}

	return &DriveHeader{
		SerialNumber:     trimASCII(rec.SerialNumber[:]),
		FirmwareRevision: trimASCII(rec.FirmwareRevision[:]),
		ModelNumber:      trimASCII(rec.ModelNumber[:]),
		SectorCount:      rec.SectorCount,
	}, nil
}

func trimASCII(b []byte) string {
	return strings.TrimSpace(string(bytes.TrimRight(b, "\x00")))
}
