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
package cmd

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/patatetom/go-xtaf/internal/disk"
	"github.com/patatetom/go-xtaf/internal/mmap"
	"github.com/patatetom/go-xtaf/internal/xtaf"
)

// volumeFlags collects and validates the persistent flags every subcommand
// that touches a device shares.
func volumeFlags(cmd *cobra.Command) (xtaf.Config, bool, error) {
	var errs *multierror.Error

	offset, err := cmd.Flags().GetUint64("offset")
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("--offset: %w", err))
	}
	size, err := cmd.Flags().GetUint64("size")
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("--size: %w", err))
	}
	useMmap, err := cmd.Flags().GetBool("mmap")
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("--mmap: %w", err))
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("--verbose: %w", err))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return xtaf.Config{}, false, err
	}

	return xtaf.Config{
		PartitionOffset: offset,
		PartitionSize:   size,
		Verbose:         verbose,
	}, useMmap, nil
}

// openVolume opens devicePath and decodes the XTAF partition described by
// cmd's persistent flags. The returned closer must be closed by the caller.
func openVolume(cmd *cobra.Command, devicePath string) (*xtaf.Volume, io.Closer, error) {
	cfg, useMmap, err := volumeFlags(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg.DevicePath = devicePath

	var source xtaf.Source
	var closer io.Closer
	if useMmap {
		f, err := mmap.Open(devicePath)
		if err != nil {
			return nil, nil, err
		}
		source, closer = f, f
	} else {
		d, err := disk.Open(devicePath)
		if err != nil {
			return nil, nil, err
		}
		source, closer = d, d
	}

	volume, err := xtaf.Open(source, cfg)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return volume, closer, nil
}
