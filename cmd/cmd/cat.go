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
	"os"

	"github.com/spf13/cobra"

	"github.com/patatetom/go-xtaf/internal/xtaf"
)

// catChunkSize bounds a single Read call so cat streams large files instead
// of holding them entirely in memory.
const catChunkSize = 4 << 20

func DefineCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "cat <device_or_image> <path>",
		Short:        "Dump a file's contents to stdout",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runCat,
	}
}

func runCat(cmd *cobra.Command, args []string) error {
	volume, closer, err := openVolume(cmd, args[0])
	if err != nil {
		return err
	}
	defer closer.Close()

	adapter := xtaf.NewAdapter(volume)
	attr, err := adapter.GetAttr(args[1])
	if err != nil {
		return err
	}

	var offset uint64
	for offset < attr.Size {
		length := uint64(catChunkSize)
		if remaining := attr.Size - offset; remaining < length {
			length = remaining
		}

		data, err := adapter.Read(args[1], offset, length)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			break
		}
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
		offset += uint64(len(data))
	}
	return nil
}
