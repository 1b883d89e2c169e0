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
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-restruct/restruct"
)

const direntrySize = 0x40

const (
	nameFreeMarker    = 0xFF
	nameMaxLiveLength = 0x2B
)

// AttrDirectory is the directory bit in a DirectoryEntry's attribute field.
const AttrDirectory = 0x10

// rawDirectoryEntry is the 64-byte on-disk record.
type rawDirectoryEntry struct {
	NameLength   uint8
	Attribute    uint8
	Name         [42]byte
	FirstCluster uint32
	Size         uint32
	CreationDate uint16
	CreationTime uint16
	ModifiedDate uint16
	ModifiedTime uint16
	_            [4]byte
}

// LiveEntry is an addressable directory record.
type LiveEntry struct {
	Name         string
	Attribute    uint8
	FirstCluster uint32
	Size         uint32
	CreatedAt    time.Time
	ModifiedAt   time.Time
}

func (e *LiveEntry) IsDirectory() bool {
	return e.Attribute&AttrDirectory != 0
}

// DeletedEntry is a directory record whose name length marked it as deleted
// or otherwise unaddressable. Its first cluster is preserved for forensic
// inspection but must never be read as live file data.
type DeletedEntry struct {
	RawName      []byte
	Attribute    uint8
	FirstCluster uint32
}

// DisplayName renders the `<DELETED:...>` form used for host compatibility
// (readdir listings still need a name).
func (e *DeletedEntry) DisplayName() string {
	return fmt.Sprintf("<DELETED:%s>", decodeDeletedName(e.RawName))
}

// Entry is a tagged variant: exactly one of Live or Deleted is set.
type Entry struct {
	Live    *LiveEntry
	Deleted *DeletedEntry
}

// Name returns the display name used as a directory map key and in readdir
// listings.
func (e *Entry) Name() string {
	if e.Live != nil {
		return e.Live.Name
	}
	return e.Deleted.DisplayName()
}

// IsDirectory reports whether the attribute bitfield has the directory bit
// set, regardless of liveness.
func (e *Entry) IsDirectory() bool {
	if e.Live != nil {
		return e.Live.IsDirectory()
	}
	return e.Deleted.Attribute&AttrDirectory != 0
}

// Size returns the entry's size for read purposes: 0 for deleted entries.
func (e *Entry) Size() uint32 {
	if e.Live != nil {
		return e.Live.Size
	}
	return 0
}

// FirstCluster returns the entry's first cluster. For deleted entries this
// is preserved but must not be used to read data.
func (e *Entry) FirstCluster() uint32 {
	if e.Live != nil {
		return e.Live.FirstCluster
	}
	return e.Deleted.FirstCluster
}

// decodeDirectoryEntry parses a 64-byte record into an Entry. isTerminator
// reports whether raw's first byte is 0xFF, signaling the directory scan
// should stop at this record without adding it to the result.
func decodeDirectoryEntry(raw []byte) (entry Entry, isTerminator bool, err error) {
	if len(raw) != direntrySize {
		return Entry{}, false, newErr(KindBadDirectory, "directory record length %d != %d", len(raw), direntrySize)
	}
	if raw[0] == nameFreeMarker {
		return Entry{}, true, nil
	}

	var rec rawDirectoryEntry
	if err := restruct.Unpack(raw, binary.BigEndian, &rec); err != nil {
		return Entry{}, false, wrapErr(KindBadDirectory, err, "failed to decode directory record")
	}

	createdAt := decodeFATTimestamp(rec.CreationDate, rec.CreationTime)
	modifiedAt := decodeFATTimestamp(rec.ModifiedDate, rec.ModifiedTime)

	if rec.NameLength < nameMaxLiveLength {
		entry = Entry{Live: &LiveEntry{
			Name:         string(rec.Name[:rec.NameLength]),
			Attribute:    rec.Attribute,
			FirstCluster: rec.FirstCluster,
			Size:         rec.Size,
			CreatedAt:    createdAt,
			ModifiedAt:   modifiedAt,
		}}
		return entry, false, nil
	}

	rawName := trimTrailingFF(rec.Name[:])
	entry = Entry{Deleted: &DeletedEntry{
		RawName:      rawName,
		Attribute:    rec.Attribute,
		FirstCluster: rec.FirstCluster,
	}}
	return entry, false, nil
}

func trimTrailingFF(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == nameFreeMarker {
		end--
	}
	out := make([]byte, end)
	copy(out, b[:end])
	return out
}

// decodeDeletedName attempts an ASCII decode of raw, falling back to hex.
func decodeDeletedName(raw []byte) string {
	if isASCII(raw) {
		return string(raw)
	}
	return hex.EncodeToString(raw)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c > 0x7F {
			return false
		}
	}
	return true
}

// decodeFATTimestamp decodes the packed FAT date/time fields.
// Out-of-range components (e.g. month 0) are passed through unclamped; the
// adapter is responsible for clamping when mapping to POSIX times.
func decodeFATTimestamp(date, t uint16) time.Time {
	year := 1980 + int(date>>9)
	month := int((date >> 5) & 0xF)
	day := int(date & 0x1F)
	hour := int(t >> 11)
	minute := int((t >> 5) & 0x3F)
	second := int((t & 0x1F) * 2)
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}
