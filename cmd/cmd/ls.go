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
	"path"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/patatetom/go-xtaf/internal/xtaf"
)

func DefineLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "ls <device_or_image> [path]",
		Short:        "List a directory's entries, including recoverable deleted ones",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE:         runLs,
	}
}

func runLs(cmd *cobra.Command, args []string) error {
	volume, closer, err := openVolume(cmd, args[0])
	if err != nil {
		return err
	}
	defer closer.Close()

	dirPath := "/"
	if len(args) == 2 {
		dirPath = args[1]
	}

	adapter := xtaf.NewAdapter(volume)
	entries, err := adapter.ReadDir(dirPath)
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		attr, err := adapter.GetAttr(path.Join(dirPath, e.Name))
		if err != nil {
			fmt.Printf("%-40s ?\n", e.Name)
			continue
		}
		fmt.Printf("%-10s %-40s %s\n", attr.Mode, e.Name, humanize.Bytes(attr.Size))
	}
	return nil
}
