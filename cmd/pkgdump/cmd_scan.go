// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package main

import (
	"errors"
	"log"
	"os"

	"github.com/anaminus/but"
	"github.com/woozymasta/pathrules"
	"github.com/woozymasta/pkginfo"
)

func init() {
	_, err := FlagParser.AddCommand(
		"scan",
		"Print metadata of every package under a directory.",
		`Walks DIR and loads every file selected by include and exclude patterns
		(gitignore-style, matched against the path relative to DIR). Include
		patterns are applied before exclude patterns. Without patterns,
		*.pkg.tar* files are selected and *.sig files skipped.`,
		&CmdScan{},
	)
	but.IfFatal(err, "register scan")
}

// CmdScan implements "scan DIR".
type CmdScan struct {
	OutputOptions
	Include   []string `long:"include" short:"i" value-name:"PATTERN" description:"Select matching files."`
	Exclude   []string `long:"exclude" short:"x" value-name:"PATTERN" description:"Skip matching files."`
	Workers   int      `long:"workers" short:"w" default:"0" description:"Number of parallel loaders (0 means CPU count)."`
	KeepGoing bool     `long:"keep-going" short:"k" description:"Report broken packages and continue."`
	Files     bool     `long:"files" description:"Include the payload file list."`
	Verbose   bool     `long:"verbose" short:"v" description:"Log every loaded package."`
}

// rules converts include and exclude patterns to selection rules.
func (cmd *CmdScan) rules() []pathrules.Rule {
	if len(cmd.Include) == 0 && len(cmd.Exclude) == 0 {
		return nil
	}

	include := cmd.Include
	if len(include) == 0 {
		include = []string{"*.pkg.tar*"}
	}

	rules := make([]pathrules.Rule, 0, len(include)+len(cmd.Exclude))
	for _, p := range include {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: p})
	}
	for _, p := range cmd.Exclude {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
	}

	return rules
}

func (cmd *CmdScan) Execute(args []string) error {
	if len(args) != 1 {
		return errors.New("expected exactly one DIR")
	}

	metas, err := pkginfo.LoadDir(Main, args[0], pkginfo.ScanOptions{
		Rules:      cmd.rules(),
		MaxWorkers: cmd.Workers,
		SkipErrors: cmd.KeepGoing,
		Load:       pkginfo.LoadOptions{ListFiles: cmd.Files},
		OnPackageDone: func(path string, meta *pkginfo.Metadata, err error) {
			switch {
			case err != nil && cmd.KeepGoing:
				log.Printf("skip %s: %v", path, err)
			case err == nil && cmd.Verbose:
				log.Printf("loaded %s (%s %s)", path, meta.Name, meta.Version)
			}
		},
	})
	if err != nil {
		return err
	}

	return cmd.write(os.Stdout, metas)
}
