package pkginfo

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const fooPkginfo = "pkgname = foo\npkgver = 1.0-1\ndepend = bar\ndepend = baz\n"

func TestLoadPkginfo(t *testing.T) {
	t.Parallel()

	for _, filter := range testFilters {
		filter := filter

		t.Run(string(filter), func(t *testing.T) {
			t.Parallel()

			path := writePackage(t, "foo-1.0-1-x86_64.pkg.tar", filter,
				testEntry{name: PkginfoName, body: fooPkginfo},
				testEntry{name: "usr/", dir: true},
				testEntry{name: "usr/bin/foo", body: "#!/bin/sh\n"},
			)

			meta, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if meta.Name != "foo" || meta.Version != "1.0-1" {
				t.Fatalf("name=%q version=%q", meta.Name, meta.Version)
			}
			if !reflect.DeepEqual(meta.Depends, []string{"bar", "baz"}) {
				t.Fatalf("depends=%q", meta.Depends)
			}
			if meta.Filename != path {
				t.Fatalf("filename=%q, want %q", meta.Filename, path)
			}

			fi, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if meta.Size != fi.Size() {
				t.Fatalf("size=%d, want %d", meta.Size, fi.Size())
			}
			if meta.Files != nil {
				t.Fatalf("files listed without ListFiles: %q", meta.Files)
			}
		})
	}
}

func TestLoadWithoutPkginfo(t *testing.T) {
	t.Parallel()

	path := writePackage(t, "bare.pkg.tar.gz", FilterGzip, testEntry{name: "usr/share/doc", body: "text"})
	meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	want := &Metadata{Filename: path, Size: fi.Size()}
	if !reflect.DeepEqual(meta, want) {
		t.Fatalf("meta=%+v\nwant=%+v", meta, want)
	}
}

func TestLoadUnterminatedTail(t *testing.T) {
	t.Parallel()

	path := writePackage(t, "tail.pkg.tar.xz", FilterXz,
		testEntry{name: PkginfoName, body: "pkgname = foo\narch = any"},
	)

	meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Name != "foo" || meta.Architecture != "any" {
		t.Fatalf("name=%q arch=%q", meta.Name, meta.Architecture)
	}
}

func TestLoadNotFound(t *testing.T) {
	t.Parallel()

	meta, err := Load(filepath.Join(t.TempDir(), "nope.pkg.tar.zst"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain, got %v", err)
	}
	if meta != nil {
		t.Fatalf("meta=%+v on missing file", meta)
	}
}

func TestLoadNotAnArchive(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "junk.pkg.tar", []byte(strings.Repeat("junk\n", 200)))
	if _, err := Load(path); !errors.Is(err, ErrNotAnArchive) {
		t.Fatalf("expected ErrNotAnArchive, got %v", err)
	}
}

func TestLoadHeaderRead(t *testing.T) {
	t.Parallel()

	data := buildTar(t,
		testEntry{name: "a.txt", body: "hi"},
		testEntry{name: PkginfoName, body: fooPkginfo},
	)
	data[2*tarBlockSize] ^= 0xff

	path := writeFile(t, t.TempDir(), "broken.pkg.tar", data)
	meta, err := Load(path)
	if !errors.Is(err, ErrHeaderRead) {
		t.Fatalf("expected ErrHeaderRead, got %v", err)
	}
	if meta != nil {
		t.Fatalf("meta=%+v on header failure", meta)
	}
}

func TestLoadTruncatedPkginfo(t *testing.T) {
	t.Parallel()

	data := buildTar(t, testEntry{name: PkginfoName, body: strings.Repeat(fooPkginfo, 20)})
	// Cut inside the entry body, past its header record.
	data = data[:tarBlockSize+300]

	path := writeFile(t, t.TempDir(), "cut.pkg.tar", data)
	meta, err := Load(path)
	if !errors.Is(err, ErrSourceFailure) {
		t.Fatalf("Load: expected ErrSourceFailure, got %v", err)
	}
	if meta != nil {
		t.Fatalf("meta=%+v on truncated entry", meta)
	}

	meta, err = LoadFromReader(bytes.NewReader(compressWith(t, FilterZstd, data)), LoadOptions{})
	if !errors.Is(err, ErrSourceFailure) {
		t.Fatalf("LoadFromReader: expected ErrSourceFailure, got %v", err)
	}
	if meta != nil {
		t.Fatalf("meta=%+v on truncated stream", meta)
	}
}

func TestLoadLongLineWithinEntrySize(t *testing.T) {
	t.Parallel()

	// A single unterminated line as long as the whole entry fits its bound.
	body := "pkgdesc = " + strings.Repeat("d", 3000)
	path := writePackage(t, "long.pkg.tar.zst", FilterZstd, testEntry{name: PkginfoName, body: body})

	meta, err := LoadWithOptions(path, LoadOptions{Archive: ArchiveOptions{BlockSize: minBlockSize}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(meta.Description) != 3000 {
		t.Fatalf("description length=%d, want 3000", len(meta.Description))
	}
}

func TestLoadFirstPkginfoWins(t *testing.T) {
	t.Parallel()

	path := writePackage(t, "dup.pkg.tar", FilterNone,
		testEntry{name: PkginfoName, dir: true},
		testEntry{name: "sub/" + PkginfoName, body: "pkgname = nested\n"},
		testEntry{name: PkginfoName, body: "pkgname = first\n"},
		testEntry{name: PkginfoName, body: "pkgname = second\n"},
	)

	meta, err := LoadWithOptions(path, LoadOptions{ListFiles: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Name != "first" {
		t.Fatalf("name=%q, want first", meta.Name)
	}
}

func TestLoadListFiles(t *testing.T) {
	t.Parallel()

	path := writePackage(t, "files.pkg.tar.gz", FilterGzip,
		testEntry{name: ".BUILDINFO", body: "format = 2\n"},
		testEntry{name: PkginfoName, body: fooPkginfo},
		testEntry{name: ".MTREE", body: "x"},
		testEntry{name: "./", dir: true},
		testEntry{name: "usr/", dir: true},
		testEntry{name: "usr/bin/", dir: true},
		testEntry{name: "usr/bin/foo", body: "bin"},
		testEntry{name: "usr/share/foo/.keep", body: ""},
	)

	meta, err := LoadWithOptions(path, LoadOptions{ListFiles: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"usr/", "usr/bin/", "usr/bin/foo", "usr/share/foo/.keep"}
	if !reflect.DeepEqual(meta.Files, want) {
		t.Fatalf("files=%q, want %q", meta.Files, want)
	}
	if meta.Name != "foo" {
		t.Fatalf("name=%q", meta.Name)
	}
}

func TestLoadOnEntry(t *testing.T) {
	t.Parallel()

	path := writePackage(t, "entries.pkg.tar", FilterNone,
		testEntry{name: ".BUILDINFO", body: "x"},
		testEntry{name: PkginfoName, body: fooPkginfo},
		testEntry{name: "usr/bin/foo", body: "bin"},
	)

	var seen []string
	_, err := LoadWithOptions(path, LoadOptions{
		OnEntry: func(entry EntryInfo) { seen = append(seen, entry.Path) },
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{".BUILDINFO", PkginfoName}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("visited=%q, want %q", seen, want)
	}
}

func TestLoadFromReader(t *testing.T) {
	t.Parallel()

	data := compressWith(t, FilterZstd, buildTar(t, testEntry{name: PkginfoName, body: fooPkginfo}))
	meta, err := LoadFromReader(bytes.NewReader(data), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if meta.Name != "foo" || meta.Filename != "" || meta.Size != 0 {
		t.Fatalf("meta=%+v", meta)
	}
}

func TestReadMetadataAfterClose(t *testing.T) {
	t.Parallel()

	a, err := NewArchive(bytes.NewReader(buildTar(t, testEntry{name: PkginfoName, body: fooPkginfo})), ArchiveOptions{})
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := a.ReadMetadata(LoadOptions{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
