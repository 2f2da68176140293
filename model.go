// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"io/fs"
	"time"

	"github.com/woozymasta/pathrules"
)

// Control file and stream limits.
const (
	// PkginfoName is the archive entry name of the package control file.
	PkginfoName = ".PKGINFO"
	// DefaultBlockSize is the reusable block buffer size (one tar record).
	DefaultBlockSize = 10 * 1024
	// minBlockSize is the smallest accepted block buffer size.
	minBlockSize = 512
	// tarBlockSize is the tar header record size in bytes.
	tarBlockSize = 512
)

// Metadata is package metadata collected from one archive and its .PKGINFO entry.
type Metadata struct {
	// Filename is the archive path as passed to Load.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
	// Name is the package name (pkgname).
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Base is the split-package base name (pkgbase).
	Base string `json:"base,omitempty" yaml:"base,omitempty"`
	// Version is the full package version (pkgver).
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Description is the one-line package description (pkgdesc).
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// URL is the upstream project URL.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	// Packager identifies who built the package.
	Packager string `json:"packager,omitempty" yaml:"packager,omitempty"`
	// Architecture is the target architecture (arch).
	Architecture string `json:"arch,omitempty" yaml:"arch,omitempty"`
	// Size is the archive file size in bytes.
	Size int64 `json:"size" yaml:"size"`
	// InstalledSize is the installed size in bytes declared by the control file.
	InstalledSize int64 `json:"installed_size" yaml:"installed_size"`
	// BuildDate is the build timestamp in seconds since epoch.
	BuildDate int64 `json:"build_date" yaml:"build_date"`
	// Groups lists package groups.
	Groups []string `json:"groups,omitempty" yaml:"groups,omitempty"`
	// Licenses lists package licenses.
	Licenses []string `json:"licenses,omitempty" yaml:"licenses,omitempty"`
	// Replaces lists packages replaced by this one.
	Replaces []string `json:"replaces,omitempty" yaml:"replaces,omitempty"`
	// Depends lists runtime dependencies.
	Depends []string `json:"depends,omitempty" yaml:"depends,omitempty"`
	// Conflicts lists conflicting packages.
	Conflicts []string `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	// Provides lists virtual provisions.
	Provides []string `json:"provides,omitempty" yaml:"provides,omitempty"`
	// OptDepends lists optional dependencies.
	OptDepends []string `json:"optdepends,omitempty" yaml:"optdepends,omitempty"`
	// MakeDepends lists build-time dependencies.
	MakeDepends []string `json:"makedepends,omitempty" yaml:"makedepends,omitempty"`
	// CheckDepends lists test-time dependencies.
	CheckDepends []string `json:"checkdepends,omitempty" yaml:"checkdepends,omitempty"`
	// Files lists payload entry paths; filled only with LoadOptions.ListFiles.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// BuildTime returns BuildDate as UTC time; zero time when BuildDate is unset.
func (m *Metadata) BuildTime() time.Time {
	if m == nil || m.BuildDate == 0 {
		return time.Time{}
	}

	return time.Unix(m.BuildDate, 0).UTC()
}

// EntryInfo describes a single archive entry header.
type EntryInfo struct {
	// ModTime is entry modification time.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
	// Path is the entry name as stored in archive.
	Path string `json:"path" yaml:"path"`
	// Size is the declared entry content size in bytes.
	Size int64 `json:"size" yaml:"size"`
	// Mode holds permission and type bits.
	Mode fs.FileMode `json:"mode" yaml:"mode"`
}

// IsRegular reports whether entry is a regular file.
func (e *EntryInfo) IsRegular() bool {
	return e.Mode.IsRegular()
}

// IsDir reports whether entry is a directory.
func (e *EntryInfo) IsDir() bool {
	return e.Mode.IsDir()
}

// Filter identifies the compression filter wrapped around the tar container.
type Filter string

// Supported filters.
const (
	// FilterAuto detects the filter from stream signature.
	FilterAuto Filter = "auto"
	// FilterNone reads a plain tar stream.
	FilterNone Filter = "none"
	// FilterGzip decodes gzip streams.
	FilterGzip Filter = "gzip"
	// FilterBzip2 decodes bzip2 streams.
	FilterBzip2 Filter = "bzip2"
	// FilterXz decodes xz streams.
	FilterXz Filter = "xz"
	// FilterZstd decodes zstandard streams.
	FilterZstd Filter = "zstd"
	// FilterOther is any other compression recognized by format identification.
	FilterOther Filter = "other"
)

// ArchiveOptions configures archive opening.
type ArchiveOptions struct {
	// Filter forces a filter; empty or FilterAuto detects by signature.
	Filter Filter `json:"filter,omitempty" yaml:"filter,omitempty"`
	// BlockSize is the block buffer size used for entry content.
	BlockSize int `json:"block_size,omitempty" yaml:"block_size,omitempty"`
}

// LoadOptions configures metadata loading.
type LoadOptions struct {
	// OnEntry is called for every visited archive entry header.
	OnEntry func(entry EntryInfo) `json:"-" yaml:"-"`
	// Archive controls filter selection and block size.
	Archive ArchiveOptions `json:"archive,omitzero" yaml:"archive,omitzero"`
	// ListFiles keeps reading after .PKGINFO and fills Metadata.Files.
	ListFiles bool `json:"list_files,omitempty" yaml:"list_files,omitempty"`
}

// ScanOptions configures directory scans.
type ScanOptions struct {
	// OnPackageDone is called after each selected package is loaded or failed.
	OnPackageDone func(path string, meta *Metadata, err error) `json:"-" yaml:"-"`
	// Rules select package files by path relative to scan root.
	// Empty rule set uses DefaultScanRules.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
	// Load is applied to every selected package.
	Load LoadOptions `json:"load,omitzero" yaml:"load,omitzero"`
	// MaxWorkers is number of load workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// SkipErrors reports failed packages through OnPackageDone and continues.
	SkipErrors bool `json:"skip_errors,omitempty" yaml:"skip_errors,omitempty"`
}

// DefaultScanRules selects package archives and skips detached signatures.
func DefaultScanRules() []pathrules.Rule {
	return []pathrules.Rule{
		{Action: pathrules.ActionInclude, Pattern: "*.pkg.tar*"},
		{Action: pathrules.ActionExclude, Pattern: "*.sig"},
	}
}

// applyDefaults fills zero-valued archive options with defaults.
func (opts *ArchiveOptions) applyDefaults() {
	if opts.Filter == "" {
		opts.Filter = FilterAuto
	}

	if opts.BlockSize < minBlockSize {
		opts.BlockSize = DefaultBlockSize
	}
}

// applyDefaults fills zero-valued load options with defaults.
func (opts *LoadOptions) applyDefaults() {
	opts.Archive.applyDefaults()
}

// applyDefaults fills zero-valued scan options with defaults.
func (opts *ScanOptions) applyDefaults() {
	opts.Load.applyDefaults()

	if len(opts.Rules) == 0 {
		opts.Rules = DefaultScanRules()
	}

	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			DefaultAction: pathrules.ActionExclude,
		}
	}

	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionExclude
	}

	if opts.MaxWorkers < 0 {
		opts.MaxWorkers = 0
	}
}
