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
	"testing"

	"github.com/stretchr/testify/require"
)

// newMultiClusterFile builds a volume whose root contains a single file
// spanning two clusters: chain 5 -> 7 -> EOC.
func newMultiClusterFile(t *testing.T, size uint32) (*Volume, Entry) {
	b := newTestVolumeBuilder(t)
	b.setEntry(5, 7)
	b.setEntry(7, 0xFFFF)

	full := bytes.Repeat([]byte{0}, int(b.clusterSize))
	for i := range full {
		full[i] = byte(i % 251)
	}
	second := bytes.Repeat([]byte{0}, int(b.clusterSize))
	for i := range second {
		second[i] = byte((i + 37) % 251)
	}
	b.setCluster(5, full)
	b.setCluster(7, second)

	var root bytes.Buffer
	root.Write(buildLiveDirEntry("big.bin", 0x00, 5, size))
	root.Write(fillFF(int(b.clusterSize) - root.Len()))
	b.setEntry(1, 0xFFFF)
	b.setCluster(1, root.Bytes())

	img, cfg := b.build(1, 1)
	vol, err := Open(newSource(img), cfg)
	require.NoError(t, err)

	entry, err := vol.Resolve("/big.bin")
	require.NoError(t, err)
	return vol, entry
}

func TestReadFile_S5_TwoClusters(t *testing.T) {
	size := uint32(512 + 16) // clusterSize + 0x10
	vol, entry := newMultiClusterFile(t, size)

	chunks, err := vol.ReadFile(entry)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Len(t, chunks[0], 512)
	require.Len(t, chunks[1], 16)

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	require.Equal(t, int(size), total)
}

func TestReadFile_EmptyYieldsSingleEmptyChunk(t *testing.T) {
	vol, _ := newMultiClusterFile(t, 512+16)
	entry, err := vol.Resolve("/big.bin")
	require.NoError(t, err)
	entry.Live.Size = 0

	chunks, err := vol.ReadFile(entry)
	require.NoError(t, err)
	require.Equal(t, [][]byte{{}}, chunks)
}

func TestReadFile_IsDirectory(t *testing.T) {
	vol, _ := newMultiClusterFile(t, 512+16)
	_, err := vol.ReadFile(rootEntry())
	ve, ok := AsVolumeError(err)
	require.True(t, ok)
	require.Equal(t, KindIsDirectory, ve.Kind)
}

func TestReadRange_MatchesFullBytes(t *testing.T) {
	// Invariant 7: read_range(F,o,L) == full_bytes(F)[o:min(o+L,N)].
	size := uint32(512 + 16)
	vol, entry := newMultiClusterFile(t, size)

	chunks, err := vol.ReadFile(entry)
	require.NoError(t, err)
	var full []byte
	for _, c := range chunks {
		full = append(full, c...)
	}

	cases := []struct{ offset, length uint64 }{
		{0, 10},
		{500, 30},
		{0, uint64(size)},
		{uint64(size), 10},
		{10, 0},
		{5, 1000},
	}
	for _, c := range cases {
		got, err := vol.ReadRange(entry, c.offset, c.length)
		require.NoError(t, err)

		end := c.offset + c.length
		if end > uint64(size) {
			end = uint64(size)
		}
		want := []byte{}
		if c.offset < uint64(size) {
			want = full[c.offset:end]
		}
		require.Equal(t, want, got, "offset=%d length=%d", c.offset, c.length)
	}
}

func TestClusters_MemoisedByFirstCluster(t *testing.T) {
	vol, entry := newMultiClusterFile(t, 512+16)

	chain1, err := vol.Clusters(entry)
	require.NoError(t, err)
	chain2, err := vol.Clusters(entry)
	require.NoError(t, err)
	require.Equal(t, chain1, chain2)
	require.Equal(t, []uint32{5, 7}, chain1)
}
