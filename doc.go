// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

/*
Package pkginfo reads package metadata from the .PKGINFO control file embedded
in pacman-style package archives (*.pkg.tar.zst, *.pkg.tar.xz, *.pkg.tar.gz,
*.pkg.tar.bz2, plain tar). It is designed for streaming workflows: the control
file is parsed straight from decoded archive blocks without reading the whole
entry into memory.

Stream rules (summary):
  - the first regular file named exactly .PKGINFO is used, others are ignored;
  - each line is bounded by the declared entry size, longer lines fail with ErrLineOverflow;
  - lines end at '\n', or at NUL when a block holds no newline;
  - an unterminated last line is still parsed;
  - lines without '=' and unknown keys are ignored.

# Loading

Load metadata from a package file:

	meta, err := pkginfo.Load("foo-1.0-1-x86_64.pkg.tar.zst")
	if errors.Is(err, pkginfo.ErrNotFound) {
	    // report and continue
	}
	if err != nil {
	    return err
	}
	fmt.Println(meta.Name, meta.Version, meta.Depends)

Collect the payload file list as well:

	meta, err := pkginfo.LoadWithOptions(path, pkginfo.LoadOptions{
	    ListFiles: true,
	})

Read from any stream (Filename and Size stay unset):

	meta, err := pkginfo.LoadFromReader(resp.Body, pkginfo.LoadOptions{})

# Iterating entries

Open an archive and walk entries manually:

	a, err := pkginfo.Open("foo.pkg.tar.xz")
	if err != nil {
	    return err
	}
	defer a.Close()
	for {
	    entry, err := a.Next()
	    if errors.Is(err, io.EOF) {
	        break
	    }
	    if err != nil {
	        return err
	    }
	    _ = entry
	}

# Line assembly

Any BlockSource can feed the line reader directly:

	lr := pkginfo.NewLineReader(pkginfo.NewSliceBlockSource(blocks...), maxLen)
	for {
	    line, err := lr.Next()
	    if errors.Is(err, io.EOF) {
	        break
	    }
	    if err != nil {
	        return err
	    }
	    pkginfo.ApplyLine(line, meta)
	}

# Scanning

Load every package under a directory (parallel workers, one archive per worker);
examples below use github.com/woozymasta/pathrules for selection rules:

	metas, err := pkginfo.LoadDir(ctx, "/var/cache/pacman/pkg", pkginfo.ScanOptions{
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.pkg.tar.zst"},
	        {Action: pathrules.ActionExclude, Pattern: "*-debug-*"},
	    },
	    MaxWorkers: 4,
	})

# Dumping fields

	if err := pkginfo.DumpFields(os.Stdout, meta, "pkgname", "depends"); err != nil {
	    return err
	}
*/
package pkginfo
