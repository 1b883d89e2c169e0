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

// Clusters returns the full cluster chain of entry, memoised by first
// cluster.
func (v *Volume) Clusters(entry Entry) ([]uint32, error) {
	if entry.IsDirectory() {
		return nil, newErr(KindIsDirectory, "%q is a directory", entry.Name())
	}

	first := entry.FirstCluster()
	if first == 0 {
		return nil, nil
	}

	if chain, ok := v.chainMemo.get(first); ok {
		return chain, nil
	}

	chain, err := v.table.Chain(first)
	if err != nil {
		return nil, err
	}
	v.chainMemo.put(first, chain)
	return chain, nil
}

// ReadFile yields the ordered byte chunks of entry's contents. A deleted
// entry (size forced to 0) yields a single empty chunk.
func (v *Volume) ReadFile(entry Entry) ([][]byte, error) {
	if entry.IsDirectory() {
		return nil, newErr(KindIsDirectory, "%q is a directory", entry.Name())
	}

	size := entry.Size()
	if size == 0 {
		return [][]byte{{}}, nil
	}

	clusterSize := v.table.clusterSize
	if uint64(size) <= clusterSize {
		data, err := v.device.ReadAt(v.table.clusterOffset(entry.FirstCluster()), uint64(size))
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil
	}

	chain, err := v.Clusters(entry)
	if err != nil {
		return nil, err
	}

	remainder := uint64(size) % clusterSize
	lastLen := clusterSize
	if remainder != 0 {
		lastLen = remainder
	}

	chunks := make([][]byte, len(chain))
	for i, cluster := range chain {
		length := clusterSize
		if i == len(chain)-1 {
			length = lastLen
		}
		data, err := v.device.ReadAt(v.table.clusterOffset(cluster), length)
		if err != nil {
			return nil, err
		}
		chunks[i] = data
	}
	return chunks, nil
}

// ReadRange reads length bytes of entry's contents starting at offset. A
// deleted entry always returns an empty slice (its size is forced to 0, so
// offset >= entry.size is trivially satisfied).
func (v *Volume) ReadRange(entry Entry, offset, length uint64) ([]byte, error) {
	if entry.IsDirectory() {
		return nil, newErr(KindIsDirectory, "%q is a directory", entry.Name())
	}

	size := uint64(entry.Size())
	if offset >= size || length == 0 {
		return []byte{}, nil
	}

	clusterSize := v.table.clusterSize
	chain, err := v.Clusters(entry)
	if err != nil {
		return nil, err
	}

	start := offset / clusterSize
	stop := (offset + length + clusterSize - 1) / clusterSize
	if stop > uint64(len(chain)) {
		stop = uint64(len(chain))
	}

	var buf []byte
	for _, cluster := range chain[start:stop] {
		data, err := v.device.ReadAt(v.table.clusterOffset(cluster), clusterSize)
		if err != nil {
			return nil, err
		}
		buf = append(buf, data...)
	}

	skip := offset % clusterSize
	if skip > uint64(len(buf)) {
		return []byte{}, nil
	}
	buf = buf[skip:]

	end := size - offset
	if length < end {
		end = length
	}
	if uint64(len(buf)) > end {
		buf = buf[:end]
	}
	return buf, nil
}
