// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import "errors"

// Sentinel errors for package metadata operations. Use errors.Is in callers.
var (
	// ErrNotFound means the requested package file does not exist.
	ErrNotFound = errors.New("package not found")
	// ErrNotAnArchive means filter or container detection failed for the input.
	ErrNotAnArchive = errors.New("not an archive")
	// ErrHeaderRead means an archive entry header could not be read.
	ErrHeaderRead = errors.New("failed to read archive header")
	// ErrLineOverflow means a control file line exceeds the entry size bound.
	ErrLineOverflow = errors.New("line exceeds entry size")
	// ErrSourceFailure means the block source failed while streaming entry data.
	ErrSourceFailure = errors.New("block source failure")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrClosed means the archive is already closed.
	ErrClosed = errors.New("archive already closed")
	// ErrUnknownField means the field name is not known to the dump table.
	ErrUnknownField = errors.New("unknown metadata field")
	// ErrUnknownFilter means the filter value is not supported.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrInvalidScanRules means one or more scan selection rules are invalid.
	ErrInvalidScanRules = errors.New("invalid scan rules")
)
