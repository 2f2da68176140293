// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anaminus/but"
	"github.com/woozymasta/pkginfo"
)

func init() {
	_, err := FlagParser.AddCommand(
		"show",
		"Print selected metadata fields of a package.",
		`Prints each FIELD of PACKAGE in argument order. Scalar fields print one
		line, list fields print one line per item. Known fields: `+strings.Join(pkginfo.FieldNames(), ", ")+`.`,
		&CmdShow{},
	)
	but.IfFatal(err, "register show")
}

// CmdShow implements "show FIELD... PACKAGE".
type CmdShow struct {
	Files bool `long:"files" description:"Read the payload file list (needed for the files field)."`
}

func (cmd *CmdShow) Execute(args []string) error {
	if len(args) < 2 {
		return errors.New("not enough arguments: want FIELD... PACKAGE")
	}

	fields, pkg := args[:len(args)-1], args[len(args)-1]

	for _, field := range fields {
		if !pkginfo.IsField(field) {
			return fmt.Errorf("%w: %q", pkginfo.ErrUnknownField, field)
		}
	}

	meta, err := pkginfo.LoadWithOptions(pkg, pkginfo.LoadOptions{ListFiles: cmd.Files})
	if err != nil {
		return err
	}

	return pkginfo.DumpFields(os.Stdout, meta, fields...)
}
