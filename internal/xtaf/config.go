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

// Known partition offsets on a stock Xbox 360 hard drive. Data is the
// default; the others are kept for reference and for callers that want to
// mount a sub-partition directly.
const (
	OffsetSysExt1     = 0x10C080000
	OffsetSysExt2     = 0x118EB0000
	OffsetXbox1Compat = 0x120EB0000
	OffsetData        = 0x130EB0000
)

// Config carries everything Open needs to locate and read a partition.
// It's immutable once passed to Open: Volume never mutates it.
type Config struct {
	// DevicePath is informational only; Open takes its Source separately.
	DevicePath string

	// PartitionOffset is the absolute byte offset of the XTAF superblock.
	// Defaults to OffsetData when zero.
	PartitionOffset uint64

	// PartitionSize bounds the partition; 0 means "to the end of the
	// underlying source".
	PartitionSize uint64

	// Verbose enables debug-level read tracing on the BlockDevice.
	Verbose bool
}

func (c Config) partitionOffset() uint64 {
	if c.PartitionOffset == 0 {
		return OffsetData
	}
	return c.PartitionOffset
}
