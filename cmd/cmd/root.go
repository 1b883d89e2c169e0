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
	"github.com/spf13/cobra"
)

const AppName = "go-xtaf"

// Version is filled in by main from internal/env at startup.
var Version = "dev"

func Execute() error {
	rootCmd := &cobra.Command{
		Use:     AppName,
		Short:   AppName + " - Xbox 360 XTAF filesystem reader",
		Version: Version,
	}

	rootCmd.PersistentFlags().Uint64P("offset", "o", 0, "partition offset, bytes (default: 0x130EB0000, the Data partition)")
	rootCmd.PersistentFlags().Uint64P("size", "s", 0, "partition size, bytes (0 = to the end of the device)")
	rootCmd.PersistentFlags().BoolP("mmap", "M", false, "memory-map the source instead of reading through ReadAt")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "trace every physical read")

	rootCmd.AddCommand(DefineMountCommand())
	rootCmd.AddCommand(DefineInfoCommand())
	rootCmd.AddCommand(DefineLsCommand())
	rootCmd.AddCommand(DefineCatCommand())

	return rootCmd.Execute()
}
