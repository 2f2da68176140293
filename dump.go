// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// dumpField maps one dump name to a value getter.
type dumpField struct {
	get  func(m *Metadata) []string
	name string
}

func scalar(get func(m *Metadata) string) func(m *Metadata) []string {
	return func(m *Metadata) []string { return []string{get(m)} }
}

func number(get func(m *Metadata) int64) func(m *Metadata) []string {
	return func(m *Metadata) []string { return []string{strconv.FormatInt(get(m), 10)} }
}

// dumpFields lists dump names in help order.
var dumpFields = []dumpField{
	{name: "pkgname", get: scalar(func(m *Metadata) string { return m.Name })},
	{name: "pkgbase", get: scalar(func(m *Metadata) string { return m.Base })},
	{name: "pkgver", get: scalar(func(m *Metadata) string { return m.Version })},
	{name: "pkgdesc", get: scalar(func(m *Metadata) string { return m.Description })},
	{name: "url", get: scalar(func(m *Metadata) string { return m.URL })},
	{name: "builddate", get: number(func(m *Metadata) int64 { return m.BuildDate })},
	{name: "packager", get: scalar(func(m *Metadata) string { return m.Packager })},
	{name: "size", get: number(func(m *Metadata) int64 { return m.InstalledSize })},
	{name: "arch", get: scalar(func(m *Metadata) string { return m.Architecture })},
	{name: "groups", get: func(m *Metadata) []string { return m.Groups }},
	{name: "license", get: func(m *Metadata) []string { return m.Licenses }},
	{name: "replaces", get: func(m *Metadata) []string { return m.Replaces }},
	{name: "depends", get: func(m *Metadata) []string { return m.Depends }},
	{name: "conflicts", get: func(m *Metadata) []string { return m.Conflicts }},
	{name: "provides", get: func(m *Metadata) []string { return m.Provides }},
	{name: "optdepends", get: func(m *Metadata) []string { return m.OptDepends }},
	{name: "makedepends", get: func(m *Metadata) []string { return m.MakeDepends }},
	{name: "checkdepends", get: func(m *Metadata) []string { return m.CheckDepends }},
	{name: "files", get: func(m *Metadata) []string { return m.Files }},
	{name: "filename", get: scalar(func(m *Metadata) string { return m.Filename })},
	{name: "csize", get: number(func(m *Metadata) int64 { return m.Size })},
}

// dumpIndex resolves dump names to table rows.
var dumpIndex = func() map[string]int {
	idx := make(map[string]int, len(dumpFields))
	for i := range dumpFields {
		idx[dumpFields[i].name] = i
	}

	return idx
}()

// FieldNames returns known dump field names.
func FieldNames() []string {
	names := make([]string, len(dumpFields))
	for i := range dumpFields {
		names[i] = dumpFields[i].name
	}

	return names
}

// IsField reports whether name is a known dump field.
func IsField(name string) bool {
	_, ok := dumpIndex[name]
	return ok
}

// Field returns values of a named field: one value for scalars, all items for lists.
func (m *Metadata) Field(name string) ([]string, error) {
	i, ok := dumpIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if m == nil {
		return nil, nil
	}

	return dumpFields[i].get(m), nil
}

// DumpFields writes values of named fields to w, one value per line.
func DumpFields(w io.Writer, meta *Metadata, names ...string) error {
	bw := bufio.NewWriter(w)
	for _, name := range names {
		values, err := meta.Field(name)
		if err != nil {
			return err
		}

		for _, v := range values {
			if _, err := bw.WriteString(v); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}
