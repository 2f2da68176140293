// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package main

import (
	"errors"
	"log"
	"os"

	"github.com/anaminus/but"
	"github.com/woozymasta/pkginfo"
)

func init() {
	_, err := FlagParser.AddCommand(
		"export",
		"Print full metadata records of packages.",
		`Loads each PACKAGE and prints its metadata record. Missing packages are
		reported and skipped; any other failure stops the command.`,
		&CmdExport{},
	)
	but.IfFatal(err, "register export")
}

// CmdExport implements "export PACKAGE...".
type CmdExport struct {
	OutputOptions
	Files bool `long:"files" description:"Include the payload file list."`
}

func (cmd *CmdExport) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("no packages given")
	}

	opts := pkginfo.LoadOptions{ListFiles: cmd.Files}
	metas := make([]*pkginfo.Metadata, 0, len(args))
	missing := 0
	for _, path := range args {
		meta, err := pkginfo.LoadWithOptions(path, opts)
		if errors.Is(err, pkginfo.ErrNotFound) {
			log.Printf("%s: not found", path)
			missing++
			continue
		}
		if err != nil {
			return err
		}

		metas = append(metas, meta)
	}

	if err := cmd.write(os.Stdout, metas); err != nil {
		return err
	}
	if missing > 0 {
		return errors.New("some packages were not found")
	}

	return nil
}
