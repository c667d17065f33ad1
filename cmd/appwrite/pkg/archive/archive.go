// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package archive packs a source directory into the tar.gz layout the
// deployment endpoints expect.
package archive

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// DefaultIgnore is always excluded from deployment archives.
var DefaultIgnore = []string{".git", "node_modules"}

// Directory writes the contents of srcDir to dest as a gzip compressed tar.
// Entries whose base name or slash separated relative path match one of the
// ignore glob patterns are skipped, directories with their contents.
func Directory(srcDir, dest string, ignore []string) error {
	srcDir, err := filepath.Abs(srcDir)
	if err != nil {
		return err
	}
	srcDir = filepath.Clean(srcDir)
	if dest, err = filepath.Abs(dest); err != nil {
		return err
	}

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "creating archive")
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	patterns := append(append([]string{}, DefaultIgnore...), ignore...)
	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if ignored(relPath, patterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		// skip the archive itself when it is written inside srcDir
		if path == dest {
			return nil
		}
		return addEntry(tw, path, relPath, d)
	})
	if walkErr != nil {
		return errors.Wrapf(walkErr, "archiving %s", srcDir)
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return out.Close()
}

// Temp packs srcDir into code.tar.gz inside a new temporary folder. The
// returned cleanup func removes the folder.
func Temp(srcDir string, ignore []string) (string, func(), error) {
	folder, err := os.MkdirTemp("", "appwrite-deployment-")
	if err != nil {
		return "", func() {}, err
	}
	cleanup := func() { _ = os.RemoveAll(folder) }

	dest := filepath.Join(folder, "code.tar.gz")
	if err := Directory(srcDir, dest, ignore); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return dest, cleanup, nil
}

func addEntry(tw *tar.Writer, path, relPath string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() && !info.IsDir() {
		// sockets, devices and symlinks are not part of a deployment
		return nil
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = relPath
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(tw, file)
	return err
}

func ignored(relPath string, patterns []string) bool {
	base := relPath[strings.LastIndex(relPath, "/")+1:]
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if ok, _ := filepath.Match(p, relPath); ok {
			return true
		}
	}
	return false
}
