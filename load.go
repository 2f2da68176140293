// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"errors"
	"fmt"
	"io"
)

// Load opens a package archive and returns metadata from its .PKGINFO entry.
// Filename and Size are set from the container even when .PKGINFO is absent.
func Load(path string) (*Metadata, error) {
	return LoadWithOptions(path, LoadOptions{})
}

// LoadWithOptions opens a package archive and returns metadata using explicit options.
func LoadWithOptions(path string, opts LoadOptions) (*Metadata, error) {
	opts.applyDefaults()

	a, err := OpenWithOptions(path, opts.Archive)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	meta, err := a.ReadMetadata(opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	meta.Filename = path
	meta.Size = a.Size()
	return meta, nil
}

// LoadFromReader reads metadata from a package archive stream.
// Filename and Size are left for the caller to set.
func LoadFromReader(r io.Reader, opts LoadOptions) (*Metadata, error) {
	opts.applyDefaults()

	a, err := NewArchive(r, opts.Archive)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	return a.ReadMetadata(opts)
}

// ReadMetadata scans remaining entries and parses the first regular .PKGINFO file.
// Iteration stops after it unless opts.ListFiles is set. Missing .PKGINFO is not an error.
func (a *Archive) ReadMetadata(opts LoadOptions) (*Metadata, error) {
	meta := &Metadata{}
	found := false
	for {
		entry, err := a.Next()
		if errors.Is(err, io.EOF) {
			return meta, nil
		}
		if err != nil {
			return nil, err
		}

		if opts.OnEntry != nil {
			opts.OnEntry(entry)
		}

		if !found && entry.IsRegular() && entry.Path == PkginfoName {
			if err := ParseLines(a.Blocks(), entry.Size, meta); err != nil {
				return nil, fmt.Errorf("parse %s: %w", PkginfoName, err)
			}

			found = true
			if !opts.ListFiles {
				return meta, nil
			}

			continue
		}

		if !opts.ListFiles {
			continue
		}

		if p, ok := payloadPath(entry); ok {
			meta.Files = append(meta.Files, p)
		}
	}
}
