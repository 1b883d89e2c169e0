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
	"os"
	"time"
)

// Mode bits for Attr.Mode, matching the POSIX-like surface the FUSE
// binding expects. These are plain os.FileMode-compatible constants so the
// binding doesn't need to know anything about XTAF attribute bytes.
const (
	modeDirectory = os.ModeDir | 0o555
	modeFile      = 0o444
	modeDeleted   = os.FileMode(0)
)

// Attr is the engine's POSIX-shaped view of an Entry, independent of any
// particular host mount API.
type Attr struct {
	Mode  os.FileMode
	Nlink uint32
	Size  uint64
	Ctime time.Time
	Mtime time.Time
	Atime time.Time
}

// DirEntry names one child returned by ReadDir, along with whether it's a
// directory (so the host can set a dirent type without a second resolve).
type DirEntry struct {
	Name  string
	IsDir bool
}

// Adapter is the engine-side, host-agnostic filesystem surface:
// getattr/readdir/read translated from path strings. It captures the
// process-scope uid/gid and a start time once at construction; the start time
// is the synthetic root's ctime/mtime/atime. The uid/gid are stored but not
// reported: Attr has no owner fields.
type Adapter struct {
	volume    *Volume
	uid, gid  uint32
	startedAt time.Time
}

// NewAdapter wraps volume with the process's current uid/gid and the
// current time as the root's ctime.
func NewAdapter(volume *Volume) *Adapter {
	return &Adapter{
		volume:    volume,
		uid:       uint32(os.Getuid()),
		gid:       uint32(os.Getgid()),
		startedAt: time.Now(),
	}
}

// GetAttr resolves path and returns its POSIX-shaped attributes. "/" always
// succeeds with synthetic directory attributes independent of any on-disk
// root record.
func (a *Adapter) GetAttr(path string) (Attr, error) {
	if path == "/" {
		return Attr{
			Mode:  modeDirectory,
			Nlink: 2,
			Size:  a.volume.ClusterSize(),
			Ctime: a.startedAt,
			Mtime: a.startedAt,
			Atime: a.startedAt,
		}, nil
	}

	entry, err := a.volume.Resolve(path)
	if err != nil {
		return Attr{}, err
	}
	return entryAttr(entry, a.volume.ClusterSize()), nil
}

func entryAttr(entry Entry, clusterSize uint64) Attr {
	if entry.Live == nil {
		return Attr{Mode: modeDeleted, Nlink: 1}
	}

	ctime := entry.Live.CreatedAt
	mtime := entry.Live.ModifiedAt
	atime := mtime
	if ctime.After(atime) {
		atime = ctime
	}

	if entry.IsDirectory() {
		return Attr{
			Mode:  modeDirectory,
			Nlink: 2,
			Size:  clusterSize,
			Ctime: ctime,
			Mtime: mtime,
			Atime: atime,
		}
	}
	return Attr{
		Mode:  modeFile,
		Nlink: 1,
		Size:  uint64(entry.Live.Size),
		Ctime: ctime,
		Mtime: mtime,
		Atime: atime,
	}
}

// ReadDir resolves path to a directory and lists its entries: ".", ".."
// plus every child name.
func (a *Adapter) ReadDir(path string) ([]DirEntry, error) {
	var dir Directory
	if path == "/" {
		dir = a.volume.root
	} else {
		entry, err := a.volume.Resolve(path)
		if err != nil {
			return nil, err
		}
		dir, err = a.volume.ReadDirectory(entry)
		if err != nil {
			return nil, err
		}
	}

	out := make([]DirEntry, 0, len(dir)+2)
	out = append(out, DirEntry{Name: ".", IsDir: true}, DirEntry{Name: "..", IsDir: true})
	for name, entry := range dir {
		out = append(out, DirEntry{Name: name, IsDir: entry.IsDirectory()})
	}
	return out, nil
}

// Read resolves path to a file and returns up to length bytes starting at
// offset. A deleted entry yields EPERM since its data was never meant to be
// read back.
func (a *Adapter) Read(path string, offset, length uint64) ([]byte, error) {
	entry, err := a.volume.Resolve(path)
	if err != nil {
		return nil, err
	}
	if entry.Live == nil {
		return nil, newErr(KindPermission, "%q is a deleted entry", path)
	}
	return a.volume.ReadRange(entry, offset, length)
}

// Access performs no permission check beyond resolving path: every
// resolvable path is granted (the volume is mounted read-only), and a path
// that does not resolve returns the resolver's error.
func (a *Adapter) Access(path string) error {
	_, err := a.volume.Resolve(path)
	return err
}
