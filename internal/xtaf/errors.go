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
	"errors"
	"fmt"
	"syscall"
)

// errShortRead marks a read that returned fewer bytes than required without
// hitting EOF in a way ReadAt reports as an error; it should be rare since
// most sources either fill the buffer or return io.EOF.
var errShortRead = errors.New("short read")

// Kind is the stable taxonomy name attached to every error the engine raises.
// Callers (in particular the FUSE adapter) switch on this instead of parsing
// error strings.
type Kind string

const (
	KindIO           Kind = "Io"
	KindBadMagic     Kind = "BadMagic"
	KindNoSectors    Kind = "NoSectors"
	KindBadTable     Kind = "BadTable"
	KindBadDirectory Kind = "BadDirectory"
	KindBadCluster   Kind = "BadCluster"
	KindNotFound     Kind = "NotFound"
	KindNotDirectory Kind = "NotDirectory"
	KindIsDirectory  Kind = "IsDirectory"
	KindInvalidPath  Kind = "InvalidPath"
	KindPermission   Kind = "Permission"
)

// errnoByKind maps each error Kind to the nearest POSIX errno. KindPermission
// is the deleted-file-read case, mapped to EPERM.
var errnoByKind = map[Kind]syscall.Errno{
	KindIO:           syscall.EIO,
	KindBadMagic:     syscall.EIO,
	KindNoSectors:    syscall.EIO,
	KindBadTable:     syscall.EIO,
	KindBadDirectory: syscall.EIO,
	KindBadCluster:   syscall.EIO,
	KindNotFound:     syscall.ENOENT,
	KindNotDirectory: syscall.ENOTDIR,
	KindIsDirectory:  syscall.EISDIR,
	KindInvalidPath:  syscall.EINVAL,
	KindPermission:   syscall.EPERM,
}

// VolumeError is the error type every exported function in this package
// returns. It carries a stable Kind plus a human-readable message, and
// unwraps to the original I/O error when there is one.
type VolumeError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *VolumeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("xtaf: %s: %s: %s", e.Kind, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("xtaf: %s: %s", e.Kind, e.Message)
}

func (e *VolumeError) Unwrap() error {
	return e.Cause
}

// Errno returns the POSIX error code the FUSE adapter should surface for e.
func (e *VolumeError) Errno() syscall.Errno {
	if errno, ok := errnoByKind[e.Kind]; ok {
		return errno
	}
	return syscall.EIO
}

func newErr(kind Kind, format string, args ...any) *VolumeError {
	return &VolumeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, cause error, format string, args ...any) *VolumeError {
	return &VolumeError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// AsVolumeError extracts the *VolumeError from err, if any, the way
// errors.As would but without forcing every caller to import "errors".
func AsVolumeError(err error) (*VolumeError, bool) {
	var ve *VolumeError
	ok := errors.As(err, &ve)
	return ve, ok
}
