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
	"encoding/binary"

	"github.com/go-restruct/restruct"
)

const superblockSize = 0x10

var xtafMagic = [4]byte{'X', 'T', 'A', 'F'}

// Superblock is the 16-byte XTAF header at the partition base.
type Superblock struct {
	Magic             [4]byte
	VolumeID          uint32
	SectorsPerCluster uint32
	RootCluster       uint32
}

// ClusterSize returns sectors_per_cluster * DefaultSectorSize.
func (s *Superblock) ClusterSize() uint64 {
	return uint64(s.SectorsPerCluster) * DefaultSectorSize
}

// readSuperblock decodes the 16-byte header at the partition base.
func readSuperblock(dev *BlockDevice) (*Superblock, error) {
	raw, err := dev.ReadAt(0, superblockSize)
	if err != nil {
		return nil, err
	}
	if len(raw) != superblockSize {
		return nil, wrapErr(KindIO, errShortRead, "superblock: expected %d bytes, got %d", superblockSize, len(raw))
	}

	var sb Superblock
	if err := restruct.Unpack(raw, binary.BigEndian, &sb); err != nil {
		return nil, wrapErr(KindIO, err, "failed to decode superblock")
	}

	if sb.Magic != xtafMagic {
		return nil, newErr(KindBadMagic, "expected magic %q, got %q", xtafMagic[:], sb.Magic[:])
	}
	if sb.SectorsPerCluster == 0 {
		return nil, newErr(KindNoSectors, "sectors_per_cluster is zero")
	}
	return &sb, nil
}
