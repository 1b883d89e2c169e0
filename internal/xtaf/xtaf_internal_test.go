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
	"testing"

	"github.com/xaionaro-go/bytesextra"
)

// sizedSource wraps bytesextra's in-memory ReadWriteSeeker with the Size
// method xtaf.Source requires.
type sizedSource struct {
	*bytesextra.ReadWriteSeeker
	size int64
}

func (s *sizedSource) Size() int64 { return s.size }

func newSource(data []byte) *sizedSource {
	return &sizedSource{ReadWriteSeeker: bytesextra.NewReadWriteSeeker(data), size: int64(len(data))}
}

// buildSuperblock renders a 16-byte superblock header.
func buildSuperblock(volumeID, sectorsPerCluster, rootCluster uint32) []byte {
	buf := make([]byte, superblockSize)
	copy(buf[0:4], xtafMagic[:])
	binary.BigEndian.PutUint32(buf[4:8], volumeID)
	binary.BigEndian.PutUint32(buf[8:12], sectorsPerCluster)
	binary.BigEndian.PutUint32(buf[12:16], rootCluster)
	return buf
}

// buildLiveDirEntry renders a single 64-byte live directory record.
func buildLiveDirEntry(name string, attr uint8, firstCluster, size uint32) []byte {
	buf := make([]byte, direntrySize)
	buf[0] = uint8(len(name))
	buf[1] = attr
	copy(buf[2:44], name)
	for i := 2 + len(name); i < 44; i++ {
		buf[i] = nameFreeMarker
	}
	binary.BigEndian.PutUint32(buf[0x2C:0x30], firstCluster)
	binary.BigEndian.PutUint32(buf[0x30:0x34], size)
	return buf
}

// buildDeletedDirEntry renders a single 64-byte deleted directory record
// whose name length is >= 0x2B.
func buildDeletedDirEntry(rawName []byte, attr uint8, firstCluster uint32) []byte {
	buf := make([]byte, direntrySize)
	buf[0] = 0xE5
	buf[1] = attr
	for i := range buf[2:44] {
		buf[2+i] = nameFreeMarker
	}
	copy(buf[2:44], rawName)
	binary.BigEndian.PutUint32(buf[0x2C:0x30], firstCluster)
	return buf
}

// fillFF returns a new n-byte buffer filled with 0xFF.
func fillFF(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = nameFreeMarker
	}
	return buf
}

// testVolumeBuilder assembles a minimal, valid synthetic XTAF image entirely
// in memory: one small allocation table plus a handful of data clusters,
// starting at a small nonzero partition offset so Config.partitionOffset
// doesn't fall back to OffsetData.
type testVolumeBuilder struct {
	t                 *testing.T
	partitionOffset   uint64
	sectorsPerCluster uint32
	clusterSize       uint64
	// table holds the raw (cluster -> next) entries, 1-indexed by position.
	table []uint32
	// clusters holds cluster payload content, keyed by cluster number.
	clusters map[uint32][]byte
}

func newTestVolumeBuilder(t *testing.T) *testVolumeBuilder {
	return &testVolumeBuilder{
		t:                 t,
		partitionOffset:   0x3000,
		sectorsPerCluster: 1,
		clusterSize:       DefaultSectorSize,
		clusters:          make(map[uint32][]byte),
	}
}

// setEntry records next as cluster's table entry (stored at position
// cluster-1). A next value of 0 leaves the table entry at its zero-value
// default, which loadAllocationTable's trimming treats as absent padding
// when no nonzero entry follows it; callers
// that want an explicit end-of-chain marker should pass a value larger
// than the final table length instead.
func (b *testVolumeBuilder) setEntry(cluster, next uint32) {
	for uint32(len(b.table)) < cluster {
		b.table = append(b.table, 0)
	}
	b.table[cluster-1] = next
}

func (b *testVolumeBuilder) setCluster(n uint32, data []byte) {
	padded := make([]byte, b.clusterSize)
	copy(padded, data)
	b.clusters[n] = padded
}

// build renders the full image and returns its bytes (wrap them with
// newSource to decode) plus the Config that addresses it.
func (b *testVolumeBuilder) build(volumeID, rootCluster uint32) ([]byte, Config) {
	maxCluster := uint32(len(b.table))
	for n := range b.clusters {
		if n > maxCluster {
			maxCluster = n
		}
	}
	for uint32(len(b.table)) < maxCluster {
		b.table = append(b.table, 0)
	}

	volumeSize := uint64(maxCluster) * b.clusterSize
	width := entryWidthFor(volumeSize, b.clusterSize)

	rawTableSize := uint64(len(b.table))*uint64(width) + allocTableOffset
	rawTableSize -= rawTableSize % 0x1000

	dataRegionBase := allocTableOffset + rawTableSize - b.clusterSize
	totalSize := b.partitionOffset + dataRegionBase + uint64(maxCluster+1)*b.clusterSize

	img := make([]byte, totalSize)
	copy(img[b.partitionOffset:], buildSuperblock(volumeID, b.sectorsPerCluster, rootCluster))

	tableOff := b.partitionOffset + allocTableOffset
	for i, next := range b.table {
		off := tableOff + uint64(i)*uint64(width)
		if width == 2 {
			binary.BigEndian.PutUint16(img[off:off+2], uint16(next))
		} else {
			binary.BigEndian.PutUint32(img[off:off+4], next)
		}
	}

	for n, data := range b.clusters {
		off := b.partitionOffset + dataRegionBase + uint64(n)*b.clusterSize
		copy(img[off:off+b.clusterSize], data)
	}

	cfg := Config{
		PartitionOffset: b.partitionOffset,
		PartitionSize:   volumeSize,
	}
	return img, cfg
}
