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

// buildRootCluster renders a single directory cluster's content: a live
// "a.txt" entry, a live "sub" directory entry, a deleted entry, then
// 0xFF-fill to the terminator.
func buildRootCluster(clusterSize uint64) []byte {
	var buf bytes.Buffer
	buf.Write(buildLiveDirEntry("a.txt", 0x00, 2, 3))
	buf.Write(buildLiveDirEntry("sub", AttrDirectory, 4, 0))
	buf.Write(buildDeletedDirEntry([]byte("gone.txt"), 0x00, 9))
	buf.Write(fillFF(int(clusterSize) - buf.Len()))
	return buf.Bytes()
}

func newDirectoryTestVolume(t *testing.T) *Volume {
	b := newTestVolumeBuilder(t)
	b.setEntry(1, 0xFFFF) // root: single cluster
	b.setEntry(2, 0xFFFF) // a.txt: single cluster
	b.setEntry(4, 0xFFFF) // sub: single cluster, empty
	b.setCluster(1, buildRootCluster(b.clusterSize))
	b.setCluster(2, []byte("hi!"))
	b.setCluster(4, fillFF(int(b.clusterSize)))

	img, cfg := b.build(1, 1)
	vol, err := Open(newSource(img), cfg)
	require.NoError(t, err)
	return vol
}

func TestReadDirectory_S4(t *testing.T) {
	vol := newDirectoryTestVolume(t)

	entry, ok := vol.root["a.txt"]
	require.True(t, ok)
	require.Equal(t, uint32(3), entry.Size())

	chunks, err := vol.ReadFile(entry)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("hi!")}, chunks)
}

func TestReadDirectory_DeletedEntryPresentButUnaddressable(t *testing.T) {
	vol := newDirectoryTestVolume(t)

	found := false
	for name, entry := range vol.root {
		if entry.Deleted != nil {
			found = true
			require.Contains(t, name, "<DELETED:")
			require.Equal(t, uint32(0), entry.Size())
		}
	}
	require.True(t, found)
}

func TestResolve_Root(t *testing.T) {
	vol := newDirectoryTestVolume(t)

	entry, err := vol.Resolve("/")
	require.NoError(t, err)
	require.True(t, entry.IsDirectory())
	require.Equal(t, uint32(1), entry.FirstCluster())
}

func TestResolve_TopLevelFile(t *testing.T) {
	vol := newDirectoryTestVolume(t)

	entry, err := vol.Resolve("/a.txt")
	require.NoError(t, err)
	require.Equal(t, uint32(3), entry.Size())
}

func TestResolve_S6_NotDirectory(t *testing.T) {
	vol := newDirectoryTestVolume(t)

	_, err := vol.Resolve("/a.txt/sub/file")
	ve, ok := AsVolumeError(err)
	require.True(t, ok)
	require.Equal(t, KindNotDirectory, ve.Kind)
}

func TestResolve_S7_InvalidPath(t *testing.T) {
	vol := newDirectoryTestVolume(t)

	_, err := vol.Resolve("nope")
	ve, ok := AsVolumeError(err)
	require.True(t, ok)
	require.Equal(t, KindInvalidPath, ve.Kind)
}

func TestResolve_NotFound(t *testing.T) {
	vol := newDirectoryTestVolume(t)

	_, err := vol.Resolve("/missing")
	ve, ok := AsVolumeError(err)
	require.True(t, ok)
	require.Equal(t, KindNotFound, ve.Kind)
}

func TestResolve_Idempotence(t *testing.T) {
	// Invariant 8: resolve(p) == resolve(normalize(p)).
	vol := newDirectoryTestVolume(t)

	a, err := vol.Resolve("/a.txt")
	require.NoError(t, err)
	b, err := vol.Resolve("//a.txt/")
	require.NoError(t, err)
	require.Equal(t, a.FirstCluster(), b.FirstCluster())
	require.Equal(t, a.Size(), b.Size())
}

// newVolumeWithDeletedDirectory builds a volume whose root contains a single
// deleted entry with the directory bit still set in its preserved attribute
// byte and a first cluster of 0 — an invalid cluster number, so that if
// ReadDirectory ever walks it instead of refusing up front, the test fails
// with BadCluster rather than silently passing.
func newVolumeWithDeletedDirectory(t *testing.T) (*Volume, Entry) {
	b := newTestVolumeBuilder(t)
	b.setEntry(1, 0xFFFF) // root: single cluster

	var buf bytes.Buffer
	buf.Write(buildDeletedDirEntry([]byte("gonedir"), AttrDirectory, 0))
	buf.Write(fillFF(int(b.clusterSize) - buf.Len()))
	b.setCluster(1, buf.Bytes())

	img, cfg := b.build(1, 1)
	vol, err := Open(newSource(img), cfg)
	require.NoError(t, err)

	entry, ok := vol.root["<DELETED:gonedir>"]
	require.True(t, ok)
	require.True(t, entry.IsDirectory())
	require.Nil(t, entry.Live)
	return vol, entry
}

func TestReadDirectory_DeletedEntryWithDirectoryBitIsUnreadable(t *testing.T) {
	vol, entry := newVolumeWithDeletedDirectory(t)

	_, err := vol.ReadDirectory(entry)
	ve, ok := AsVolumeError(err)
	require.True(t, ok)
	require.Equal(t, KindPermission, ve.Kind)
}

func TestResolve_DeletedIntermediateDirectoryIsUnreadable(t *testing.T) {
	vol, _ := newVolumeWithDeletedDirectory(t)

	_, err := vol.Resolve("/<DELETED:gonedir>/file")
	ve, ok := AsVolumeError(err)
	require.True(t, ok)
	require.Equal(t, KindPermission, ve.Kind)
}

func TestReadDirectory_RequiresDirectoryBit(t *testing.T) {
	vol := newDirectoryTestVolume(t)

	file, err := vol.Resolve("/a.txt")
	require.NoError(t, err)

	_, err = vol.ReadDirectory(file)
	ve, ok := AsVolumeError(err)
	require.True(t, ok)
	require.Equal(t, KindNotDirectory, ve.Kind)
}
