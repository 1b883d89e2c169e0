//go:build linux
// +build linux

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
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/patatetom/go-xtaf/internal/logger"
	"github.com/patatetom/go-xtaf/internal/xtaf"
	utilos "github.com/patatetom/go-xtaf/pkg/util/os"
)

var log = logger.New(os.Stderr, logger.InfoLevel)

// Mount serves volume over FUSE at mountpoint until a termination signal is
// received and the unmount succeeds.
func Mount(mountpoint string, volume *xtaf.Volume) error {
	created, err := utilos.EnsureDir(mountpoint, true)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint)
	if err != nil {
		return err
	}
	defer c.Close()

	xfs := NewXtafFS(xtaf.NewAdapter(volume))

	go func() {
		srv := fusefs.New(c, nil)
		if err := srv.Serve(xfs); err != nil {
			log.Errorf("serve error: %v", err)
			os.Exit(1)
		}
	}()
	return waitForUmount(mountpoint)
}

func waitForUmount(mountpoint string) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	log.Info("waiting for termination signal...")

	const maxUnmountRetries = 3

	unmountAttempts := 0
	for sig := range sigc {
		log.Infof("signal received: %v.", sig)

		if unmountAttempts >= maxUnmountRetries {
			log.Errorf("maximum unmount retries (%d) exceeded, still unable to unmount %s, forcefully exiting", maxUnmountRetries, mountpoint)
			os.Exit(1)
		}

		log.Infof("attempting unmount of %s (attempt %d/%d)...", mountpoint, unmountAttempts+1, maxUnmountRetries)
		err := fuse.Unmount(mountpoint)
		if err == nil {
			log.Info("unmounted successfully, exiting")
			return nil
		}

		unmountAttempts++
		log.Infof("unmount failed: %v, remaining retries: %d, waiting for another signal to retry...", err, maxUnmountRetries-unmountAttempts)
	}
	return nil
}
