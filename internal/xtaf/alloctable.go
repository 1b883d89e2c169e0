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

import "encoding/binary"

// allocTableOffset is the partition-relative offset of the allocation table.
const allocTableOffset = 0x1000

// wideTableThreshold is the cluster-count cutoff: entry width is 2 bytes
// when total clusters < 0xFFF0, else 4 bytes.
const wideTableThreshold = 0xFFF0

// AllocationTable is the FAT loaded into memory as a sequence of entries
// indexed by cluster number starting at 1 (index 0 is unused padding so that
// table[cluster] addresses directly — callers never read table[0]).
type AllocationTable struct {
	entries    []uint32
	entryWidth int
	// clusterSize and dataRegionBase let Chain/clusterOffset address cluster
	// data without threading the superblock through every call.
	clusterSize    uint64
	dataRegionBase uint64
}

// entryWidthFor picks 2 or 4 bytes depending on the cluster count.
func entryWidthFor(volumeSize, clusterSize uint64) int {
	clusters := volumeSize / clusterSize
	if clusters < wideTableThreshold {
		return 2
	}
	return 4
}

// loadAllocationTable reads and decodes the FAT, including the 4KiB-aligned
// raw table size and the one-cluster-early data region offset. That offset
// looks like an off-by-one but is the observed on-disk convention and must
// not be corrected.
func loadAllocationTable(dev *BlockDevice, volumeSize, clusterSize uint64) (*AllocationTable, error) {
	width := entryWidthFor(volumeSize, clusterSize)

	rawSize := (volumeSize/clusterSize)*uint64(width) + allocTableOffset
	rawSize -= rawSize % 0x1000

	data, err := dev.ReadAt(allocTableOffset, rawSize)
	if err != nil {
		return nil, err
	}

	data = trimTrailingZeroEntries(data, width)
	if len(data)%width != 0 {
		return nil, newErr(KindBadTable, "table data length %d is not a multiple of entry width %d", len(data), width)
	}

	entries := make([]uint32, len(data)/width)
	for i := range entries {
		off := i * width
		if width == 2 {
			entries[i] = uint32(binary.BigEndian.Uint16(data[off : off+2]))
		} else {
			entries[i] = binary.BigEndian.Uint32(data[off : off+4])
		}
	}

	return &AllocationTable{
		entries:        entries,
		entryWidth:     width,
		clusterSize:    clusterSize,
		dataRegionBase: allocTableOffset + rawSize - clusterSize,
	}, nil
}

func trimTrailingZeroEntries(data []byte, width int) []byte {
	end := len(data)
	for end >= width {
		isZero := true
		for _, b := range data[end-width : end] {
			if b != 0 {
				isZero = false
				break
			}
		}
		if !isZero {
			break
		}
		end -= width
	}
	return data[:end]
}

// Len returns the number of entries in the table.
func (t *AllocationTable) Len() int {
	return len(t.entries)
}

// next returns the cluster following c. ok is false when c itself already
// lies beyond the table (c > len(entries)), or when the stored successor
// value does too — both are the end-of-chain sentinel, not just the
// canonical 0xFFFF/0xFFFFFFFF values, so the sentinel itself is never
// appended to the chain. A stored successor of 0 is a different case: it is
// not a valid forward cluster number at all, so it fails with BadCluster
// instead of silently ending the chain.
func (t *AllocationTable) next(c uint32) (next uint32, ok bool, err error) {
	idx := int(c) - 1
	if idx < 0 || idx >= len(t.entries) {
		return 0, false, nil
	}
	val := t.entries[idx]
	if int(val) > len(t.entries) {
		return 0, false, nil
	}
	if val < 1 {
		return 0, false, newErr(KindBadCluster, "cluster %d's successor %d is not valid (clusters start at 1)", c, val)
	}
	return val, true, nil
}

// clusterOffset returns the partition-relative byte offset of cluster n.
func (t *AllocationTable) clusterOffset(n uint32) uint64 {
	return t.dataRegionBase + uint64(n)*t.clusterSize
}

// Chain walks the cluster chain starting at start, iteratively (never
// recursively), returning every cluster visited in order. A start value < 1
// fails with BadCluster.
func (t *AllocationTable) Chain(start uint32) ([]uint32, error) {
	if start < 1 {
		return nil, newErr(KindBadCluster, "cluster %d is not valid (clusters start at 1)", start)
	}

	var chain []uint32
	c := start
	for {
		chain = append(chain, c)
		next, ok, err := t.next(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		c = next
	}
	return chain, nil
}
