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
	"fmt"
	"log/slog"
	"os"
	"unicode/utf16"
)

// maxVolumeLabelSize is the upper bound on a volume label's byte size before
// a decode is even attempted (glossary: "Volume label" is at most 24 bytes).
const maxVolumeLabelSize = 25

// Volume is a mounted XTAF partition: the decoded superblock, allocation
// table and root directory, plus the shared chain memo. Everything here is
// immutable after Open returns except chainMemo, which is its own
// mutex-guarded type.
type Volume struct {
	device      *BlockDevice
	superblock  *Superblock
	table       *AllocationTable
	root        Directory
	chainMemo   *chainMemo
	driveHeader *DriveHeader
	cfg         Config
	log         *slog.Logger
}

// Open decodes the partition described by cfg out of source and returns a
// ready-to-use Volume. The drive-level security sector is inspected first,
// at source's own absolute offset 0, independent of the partition offset.
func Open(source Source, cfg Config) (*Volume, error) {
	var log *slog.Logger
	if cfg.Verbose {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	driveHeader, err := readDriveHeader(source, log)
	if err != nil {
		return nil, err
	}

	partitionOffset := cfg.partitionOffset()
	device := NewBlockDevice(source, partitionOffset, DefaultSectorSize, log)

	superblock, err := readSuperblock(device)
	if err != nil {
		return nil, err
	}

	clusterSize := superblock.ClusterSize()
	device.Configure(partitionOffset, clusterSize)

	volumeSize := cfg.PartitionSize
	if volumeSize == 0 {
		volumeSize = device.Size() - partitionOffset
	}

	table, err := loadAllocationTable(device, volumeSize, clusterSize)
	if err != nil {
		return nil, err
	}

	root, err := readDirectory(device, table, rootCluster)
	if err != nil {
		return nil, err
	}

	return &Volume{
		device:      device,
		superblock:  superblock,
		table:       table,
		root:        root,
		chainMemo:   newChainMemo(),
		driveHeader: driveHeader,
		cfg:         cfg,
		log:         log,
	}, nil
}

// DriveHeader returns the drive-level metadata recovered from the security
// sector, or nil when the volume was opened against a bare partition image
// that doesn't carry one.
func (v *Volume) DriveHeader() *DriveHeader {
	return v.driveHeader
}

// ClusterSize returns the partition's cluster size in bytes.
func (v *Volume) ClusterSize() uint64 {
	return v.table.clusterSize
}

// EntryWidth returns the allocation table's entry width, 2 or 4 bytes.
func (v *Volume) EntryWidth() int {
	return v.table.entryWidth
}

// VolumeID returns the superblock's volume identifier.
func (v *Volume) VolumeID() uint32 {
	return v.superblock.VolumeID
}

// Label decodes the volume label from the `name.txt` root entry. ok is
// false when no such file exists, it's a directory, or it's too large to be
// a label.
func (v *Volume) Label() (string, bool) {
	entry, ok := v.root["name.txt"]
	if !ok || entry.IsDirectory() || entry.Size() >= maxVolumeLabelSize {
		return "", false
	}

	chunks, err := v.ReadFile(entry)
	if err != nil {
		return "", false
	}

	var raw []byte
	for _, chunk := range chunks {
		raw = append(raw, chunk...)
	}
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}

	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = uint16(raw[2*i]) | uint16(raw[2*i+1])<<8
	}
	return string(utf16.Decode(units)), true
}

// String renders a one-line summary for the CLI's info subcommand.
func (v *Volume) String() string {
	s := fmt.Sprintf("id: %d, cluster size: %d, table entry: %d, root cluster: %d",
		v.superblock.VolumeID, v.table.clusterSize, v.table.entryWidth, v.superblock.RootCluster)
	if label, ok := v.Label(); ok {
		s += fmt.Sprintf(", volume name: %s", label)
	}
	return s
}
