// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"bytes"
	"errors"
	"io"
	"strconv"
)

// fieldKind selects how a control file value is stored.
type fieldKind uint8

const (
	// fieldString overwrites a scalar string.
	fieldString fieldKind = iota + 1
	// fieldInt overwrites a scalar integer.
	fieldInt
	// fieldList appends to an ordered list.
	fieldList
)

// fieldRef binds a control file key to one Metadata field.
type fieldRef struct {
	str  func(m *Metadata) *string
	num  func(m *Metadata) *int64
	list func(m *Metadata) *[]string
	kind fieldKind
}

func stringField(sel func(m *Metadata) *string) fieldRef {
	return fieldRef{kind: fieldString, str: sel}
}

func intField(sel func(m *Metadata) *int64) fieldRef {
	return fieldRef{kind: fieldInt, num: sel}
}

func listField(sel func(m *Metadata) *[]string) fieldRef {
	return fieldRef{kind: fieldList, list: sel}
}

// pkginfoKeys maps .PKGINFO keys to record fields.
var pkginfoKeys = map[string]fieldRef{
	"pkgname":     stringField(func(m *Metadata) *string { return &m.Name }),
	"pkgbase":     stringField(func(m *Metadata) *string { return &m.Base }),
	"pkgver":      stringField(func(m *Metadata) *string { return &m.Version }),
	"pkgdesc":     stringField(func(m *Metadata) *string { return &m.Description }),
	"url":         stringField(func(m *Metadata) *string { return &m.URL }),
	"packager":    stringField(func(m *Metadata) *string { return &m.Packager }),
	"arch":        stringField(func(m *Metadata) *string { return &m.Architecture }),
	"builddate":   intField(func(m *Metadata) *int64 { return &m.BuildDate }),
	"size":        intField(func(m *Metadata) *int64 { return &m.InstalledSize }),
	"group":       listField(func(m *Metadata) *[]string { return &m.Groups }),
	"license":     listField(func(m *Metadata) *[]string { return &m.Licenses }),
	"replaces":    listField(func(m *Metadata) *[]string { return &m.Replaces }),
	"depend":      listField(func(m *Metadata) *[]string { return &m.Depends }),
	"conflict":    listField(func(m *Metadata) *[]string { return &m.Conflicts }),
	"provides":    listField(func(m *Metadata) *[]string { return &m.Provides }),
	"optdepend":   listField(func(m *Metadata) *[]string { return &m.OptDepends }),
	"makedepend":  listField(func(m *Metadata) *[]string { return &m.MakeDepends }),
	"checkdepend": listField(func(m *Metadata) *[]string { return &m.CheckDepends }),
}

// splitLine splits "key = value" at the first '='.
// The value keeps everything after one optional space following '='.
func splitLine(line []byte) (key string, value []byte, ok bool) {
	eq := bytes.IndexByte(line, '=')
	if eq < 0 {
		return "", nil, false
	}

	value = line[eq+1:]
	if len(value) > 0 && value[0] == ' ' {
		value = value[1:]
	}

	return string(bytes.TrimSpace(line[:eq])), value, true
}

// ApplyLine applies one .PKGINFO line to meta.
// Lines without '=' and unknown keys are ignored; unparsable numbers store zero.
func ApplyLine(line []byte, meta *Metadata) {
	if meta == nil {
		return
	}

	key, value, ok := splitLine(line)
	if !ok {
		return
	}

	ref, ok := pkginfoKeys[key]
	if !ok {
		return
	}

	switch ref.kind {
	case fieldString:
		*ref.str(meta) = string(value)
	case fieldInt:
		n, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil {
			n = 0
		}

		*ref.num(meta) = n
	case fieldList:
		dst := ref.list(meta)
		*dst = append(*dst, string(value))
	}
}

// ParseLines reads all lines from src bounded by maxLen and applies them to meta.
func ParseLines(src BlockSource, maxLen int64, meta *Metadata) error {
	lr := NewLineReader(src, maxLen)
	for {
		line, err := lr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		ApplyLine(line, meta)
	}
}

// Parse reads a whole .PKGINFO stream into a new Metadata.
// maxLen bounds each line; pass the entry size when known.
func Parse(r io.Reader, maxLen int64) (*Metadata, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	meta := &Metadata{}
	if err := ParseLines(NewReaderBlockSource(r, DefaultBlockSize), maxLen, meta); err != nil {
		return nil, err
	}

	return meta, nil
}
