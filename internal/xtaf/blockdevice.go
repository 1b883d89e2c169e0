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
	"io"
	"log/slog"
)

// DefaultSectorSize is the fixed sector size used throughout the XTAF
// on-disk layout; it is never negotiated with the underlying source.
const DefaultSectorSize = 0x200

// Source is what a BlockDevice reads from: anything that can answer a
// positional read and report its own total size. *os.File, an mmap-backed
// region, and github.com/xaionaro-go/bytesextra's in-memory ReadWriteSeeker
// (wrapped with a size, see sizedSource in the tests) all satisfy it.
type Source interface {
	io.ReaderAt
	Size() int64
}

// BlockDevice wraps a seekable byte source with a base offset and a default
// read length. It never reopens the source; Configure only
// mutates the offset/length pair.
type BlockDevice struct {
	source     Source
	baseOffset uint64
	defaultLen uint64
	log        *slog.Logger
}

// NewBlockDevice constructs a BlockDevice over source, based at baseOffset
// with the given default read length. log may be nil; when set, every read
// is traced at debug level, matching the CLI's --verbose flag.
func NewBlockDevice(source Source, baseOffset, defaultLen uint64, log *slog.Logger) *BlockDevice {
	return &BlockDevice{source: source, baseOffset: baseOffset, defaultLen: defaultLen, log: log}
}

// Configure mutates the base offset and default length in place. The
// underlying source is never touched.
func (d *BlockDevice) Configure(baseOffset, defaultLen uint64) {
	d.baseOffset = baseOffset
	d.defaultLen = defaultLen
}

// BaseOffset returns the device's current base offset.
func (d *BlockDevice) BaseOffset() uint64 {
	return d.baseOffset
}

// Size returns the total size of the underlying source, in bytes. It is not
// relative to the base offset.
func (d *BlockDevice) Size() uint64 {
	return uint64(d.source.Size())
}

// ReadAt reads length bytes at rel offset relOffset, relative to the base
// offset. length == 0 means "use the default length". Fewer bytes than
// requested are returned only at EOF; any other short read is an error.
func (d *BlockDevice) ReadAt(relOffset, length uint64) ([]byte, error) {
	if length == 0 {
		length = d.defaultLen
	}

	abs := int64(d.baseOffset + relOffset)
	if d.log != nil {
		d.log.Debug("block device read", "length", length, "offset", abs)
	}

	buf := make([]byte, length)
	n, err := d.source.ReadAt(buf, abs)
	if err != nil && err != io.EOF {
		return nil, wrapErr(KindIO, err, "read %d bytes at offset 0x%x", length, abs)
	}
	return buf[:n], nil
}
