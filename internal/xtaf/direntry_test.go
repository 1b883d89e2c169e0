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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeDirectoryEntry_Live(t *testing.T) {
	// S4: name="a.txt" (length=5), attr=0x00, first_cluster=2, size=3.
	raw := buildLiveDirEntry("a.txt", 0x00, 2, 3)

	entry, terminator, err := decodeDirectoryEntry(raw)
	require.NoError(t, err)
	require.False(t, terminator)
	require.NotNil(t, entry.Live)
	require.Equal(t, "a.txt", entry.Name())
	require.Equal(t, uint32(2), entry.FirstCluster())
	require.Equal(t, uint32(3), entry.Size())
	require.False(t, entry.IsDirectory())
}

func TestDecodeDirectoryEntry_Directory(t *testing.T) {
	raw := buildLiveDirEntry("sub", AttrDirectory, 4, 0)
	entry, _, err := decodeDirectoryEntry(raw)
	require.NoError(t, err)
	require.True(t, entry.IsDirectory())
}

func TestDecodeDirectoryEntry_Terminator(t *testing.T) {
	raw := fillFF(direntrySize)
	_, terminator, err := decodeDirectoryEntry(raw)
	require.NoError(t, err)
	require.True(t, terminator)
}

func TestDecodeDirectoryEntry_Deleted(t *testing.T) {
	// Invariant 5: any decoded entry whose raw name length is >= 0x2B has a
	// name beginning with "<DELETED:" and size 0.
	raw := buildDeletedDirEntry([]byte("oldname.txt"), 0x00, 7)

	entry, terminator, err := decodeDirectoryEntry(raw)
	require.NoError(t, err)
	require.False(t, terminator)
	require.Nil(t, entry.Live)
	require.NotNil(t, entry.Deleted)
	require.Contains(t, entry.Name(), "<DELETED:")
	require.Equal(t, uint32(0), entry.Size())
	require.Equal(t, uint32(7), entry.FirstCluster())
}

func TestDecodeDirectoryEntry_DeletedNonASCIIHexEncoded(t *testing.T) {
	raw := buildDeletedDirEntry([]byte{0xC0, 0xFF, 0xEE}, 0x00, 0)
	entry, _, err := decodeDirectoryEntry(raw)
	require.NoError(t, err)
	require.Contains(t, entry.Name(), "<DELETED:c0")
}

func TestDecodeDirectoryEntry_WrongLength(t *testing.T) {
	_, _, err := decodeDirectoryEntry(make([]byte, 10))
	ve, ok := AsVolumeError(err)
	require.True(t, ok)
	require.Equal(t, KindBadDirectory, ve.Kind)
}

func TestDecodeFATTimestamp(t *testing.T) {
	// date: year offset 30 (2010), month 5, day 12 -> 30<<9 | 5<<5 | 12
	date := uint16(30<<9 | 5<<5 | 12)
	// time: hour 10, minute 15, second 40/2=20
	tm := uint16(10<<11 | 15<<5 | 20)

	ts := decodeFATTimestamp(date, tm)
	require.Equal(t, 2010, ts.Year())
	require.Equal(t, 5, int(ts.Month()))
	require.Equal(t, 12, ts.Day())
	require.Equal(t, 10, ts.Hour())
	require.Equal(t, 15, ts.Minute())
	require.Equal(t, 40, ts.Second())
}
