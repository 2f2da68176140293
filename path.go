// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"path"
	"strings"
)

// NormalizePath converts an archive entry or scan path to normalized slash-separated form.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, `/`)
	p = strings.TrimPrefix(p, "./")
	return p
}

// payloadPath returns the file-list form of an entry path.
// Metadata entries (leading dot at archive root) and the root itself are skipped.
func payloadPath(entry EntryInfo) (string, bool) {
	p := NormalizePath(entry.Path)
	if p == "" || strings.HasPrefix(p, ".") {
		return "", false
	}

	if entry.IsDir() {
		return p + "/", true
	}

	return p, true
}
