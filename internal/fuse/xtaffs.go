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
package fuse

import (
	"context"
	"path"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/patatetom/go-xtaf/internal/xtaf"
)

// XtafFS is the bazil.org/fuse binding over an xtaf.Adapter. It holds no
// state of its own beyond the adapter: every call is a fresh path lookup,
// matching the engine's synchronous, re-entrant design.
type XtafFS struct {
	adapter *xtaf.Adapter
}

// NewXtafFS wraps adapter for serving over FUSE.
func NewXtafFS(adapter *xtaf.Adapter) *XtafFS {
	return &XtafFS{adapter: adapter}
}

func (x *XtafFS) Root() (fs.Node, error) {
	return &Dir{fs: x, path: "/"}, nil
}

// Dir implements fs.Node and fs.HandleReadDirAller for a directory at path.
type Dir struct {
	fs   *XtafFS
	path string
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	attr, err := d.fs.adapter.GetAttr(d.path)
	if err != nil {
		return toFuseErr(err)
	}
	applyAttr(a, attr)
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	childPath := path.Join(d.path, name)

	attr, err := d.fs.adapter.GetAttr(childPath)
	if err != nil {
		return nil, toFuseErr(err)
	}
	if attr.Mode.IsDir() {
		return &Dir{fs: d.fs, path: childPath}, nil
	}
	return &File{fs: d.fs, path: childPath, size: attr.Size}, nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	entries, err := d.fs.adapter.ReadDir(d.path)
	if err != nil {
		return nil, toFuseErr(err)
	}

	dirents := make([]fuse.Dirent, len(entries))
	for i, e := range entries {
		typ := fuse.DT_File
		if e.IsDir {
			typ = fuse.DT_Dir
		}
		dirents[i] = fuse.Dirent{Inode: uint64(i + 1), Name: e.Name, Type: typ}
	}
	return dirents, nil
}

// File implements fs.Node and fs.HandleReader for a file at path.
type File struct {
	fs   *XtafFS
	path string
	size uint64
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	attr, err := f.fs.adapter.GetAttr(f.path)
	if err != nil {
		return toFuseErr(err)
	}
	applyAttr(a, attr)
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	data, err := f.fs.adapter.Read(f.path, uint64(req.Offset), uint64(req.Size))
	if err != nil {
		return toFuseErr(err)
	}
	resp.Data = data
	return nil
}

func applyAttr(a *fuse.Attr, attr xtaf.Attr) {
	a.Mode = attr.Mode
	a.Nlink = attr.Nlink
	a.Size = attr.Size
	a.Ctime = attr.Ctime
	a.Mtime = attr.Mtime
	a.Atime = attr.Atime
}

// toFuseErr maps the engine's error taxonomy to the syscall.Errno values
// bazil.org/fuse expects.
func toFuseErr(err error) error {
	if ve, ok := xtaf.AsVolumeError(err); ok {
		return fuse.Errno(ve.Errno())
	}
	return fuse.EIO
}
