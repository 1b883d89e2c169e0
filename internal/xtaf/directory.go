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

import "strings"

// rootCluster is the chain start used for the root directory. This is
// always cluster 1, not the root_cluster field from the superblock — an
// observed convention, not a bug.
const rootCluster = 1

// Directory maps a name to the entry it denotes. Names are unique within a
// directory; on duplicates across merged clusters, later records win.
type Directory map[string]Entry

// rootEntry is the synthetic entry used for "/": directory bit set,
// first_cluster = 1. It is never exposed outside the resolver.
func rootEntry() Entry {
	return Entry{Live: &LiveEntry{
		Name:         "/",
		Attribute:    AttrDirectory,
		FirstCluster: rootCluster,
	}}
}

// readDirectory walks the cluster chain starting at firstCluster and merges
// every record into one Directory, in chain order.
func readDirectory(dev *BlockDevice, table *AllocationTable, firstCluster uint32) (Directory, error) {
	chain, err := table.Chain(firstCluster)
	if err != nil {
		return nil, err
	}

	dir := Directory{}
	for _, cluster := range chain {
		raw, err := dev.ReadAt(table.clusterOffset(cluster), table.clusterSize)
		if err != nil {
			return nil, err
		}

		live := trimTrailingFFBlocks(raw, direntrySize)
		if len(live)%direntrySize != 0 {
			return nil, newErr(KindBadDirectory, "cluster %d live region length %d is not a multiple of %d", cluster, len(live), direntrySize)
		}

		for off := 0; off < len(live); off += direntrySize {
			entry, terminator, err := decodeDirectoryEntry(live[off : off+direntrySize])
			if err != nil {
				return nil, err
			}
			if terminator {
				break
			}
			dir[entry.Name()] = entry
		}
	}
	return dir, nil
}

// trimTrailingFFBlocks strips trailing whole blockSize blocks of 0xFF from
// the end of raw.
func trimTrailingFFBlocks(raw []byte, blockSize int) []byte {
	end := len(raw)
	for end >= blockSize {
		isFF := true
		for _, b := range raw[end-blockSize : end] {
			if b != nameFreeMarker {
				isFF = false
				break
			}
		}
		if !isFF {
			break
		}
		end -= blockSize
	}
	return raw[:end]
}

// ReadDirectory materialises entry's contents as a Directory. entry must
// have the directory bit set and be live: a deleted entry's first cluster is
// preserved for forensic inspection only and must never be walked.
func (v *Volume) ReadDirectory(entry Entry) (Directory, error) {
	if !entry.IsDirectory() {
		return nil, newErr(KindNotDirectory, "%q is not a directory", entry.Name())
	}
	if entry.Live == nil {
		return nil, newErr(KindPermission, "%q is a deleted entry", entry.Name())
	}
	return readDirectory(v.device, v.table, entry.FirstCluster())
}

// splitPath splits an absolute path into non-empty segments, collapsing
// repeated "/" and trailing "/".
func splitPath(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, newErr(KindInvalidPath, "path %q must start with /", path)
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments, nil
}

// Resolve resolves an absolute path to its Entry.
func (v *Volume) Resolve(path string) (Entry, error) {
	segments, err := splitPath(path)
	if err != nil {
		return Entry{}, err
	}
	if len(segments) == 0 {
		return rootEntry(), nil
	}

	current := v.root
	for _, seg := range segments[:len(segments)-1] {
		entry, ok := current[seg]
		if !ok {
			return Entry{}, newErr(KindNotFound, "directory %q not found", seg)
		}
		if !entry.IsDirectory() {
			return Entry{}, newErr(KindNotDirectory, "%q is not a directory", seg)
		}
		current, err = v.ReadDirectory(entry)
		if err != nil {
			return Entry{}, err
		}
	}

	last := segments[len(segments)-1]
	entry, ok := current[last]
	if !ok {
		return Entry{}, newErr(KindNotFound, "%q not found", last)
	}
	return entry, nil
}
