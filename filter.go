// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mholt/archives"
	"github.com/ulikunitz/xz"
)

// filterSignature is a magic prefix identifying one filter.
type filterSignature struct {
	filter Filter
	magic  []byte
}

// filterSignatures lists magic prefixes checked before generic identification.
var filterSignatures = []filterSignature{
	{filter: FilterGzip, magic: []byte{0x1f, 0x8b}},
	{filter: FilterBzip2, magic: []byte("BZh")},
	{filter: FilterXz, magic: []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{filter: FilterZstd, magic: []byte{0x28, 0xb5, 0x2f, 0xfd}},
}

// closerFunc adapts a function to io.Closer.
type closerFunc func() error

// Close calls f.
func (f closerFunc) Close() error {
	return f()
}

// detectFilter matches stream prefix against known filter signatures.
// Plain tar is recognized by its header record; unknown prefixes yield FilterOther.
func detectFilter(br *bufio.Reader) Filter {
	head, _ := br.Peek(tarBlockSize)
	for _, sig := range filterSignatures {
		if bytes.HasPrefix(head, sig.magic) {
			return sig.filter
		}
	}

	if len(head) == 0 || isTarHeader(head) {
		return FilterNone
	}

	return FilterOther
}

// openFilter wraps br with the decoder for filter. The returned closer releases decoder state.
func openFilter(br *bufio.Reader, filter Filter) (io.Reader, io.Closer, Filter, error) {
	if filter == FilterAuto {
		filter = detectFilter(br)
	}

	switch filter {
	case FilterNone:
		return br, nil, filter, nil
	case FilterGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, filter, fmt.Errorf("%w: gzip: %w", ErrNotAnArchive, err)
		}

		return zr, zr, filter, nil
	case FilterBzip2:
		return bzip2.NewReader(br), nil, filter, nil
	case FilterXz:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, nil, filter, fmt.Errorf("%w: xz: %w", ErrNotAnArchive, err)
		}

		return xr, nil, filter, nil
	case FilterZstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
		if err != nil {
			return nil, nil, filter, fmt.Errorf("%w: zstd: %w", ErrNotAnArchive, err)
		}

		return zr, closerFunc(func() error { zr.Close(); return nil }), filter, nil
	case FilterOther:
		return openIdentifiedFilter(br)
	default:
		return nil, nil, filter, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}
}

// openIdentifiedFilter resolves compression through generic format identification.
func openIdentifiedFilter(r io.Reader) (io.Reader, io.Closer, Filter, error) {
	format, stream, err := archives.Identify(context.Background(), "", r)
	if err != nil {
		return nil, nil, FilterOther, fmt.Errorf("%w: identify: %w", ErrNotAnArchive, err)
	}

	decomp, ok := format.(archives.Decompressor)
	if !ok {
		if format.Extension() == ".tar" {
			return stream, nil, FilterNone, nil
		}

		return nil, nil, FilterOther, fmt.Errorf("%w: unsupported container %s", ErrNotAnArchive, format.Extension())
	}

	rc, err := decomp.OpenReader(stream)
	if err != nil {
		return nil, nil, FilterOther, fmt.Errorf("%w: open %s: %w", ErrNotAnArchive, format.Extension(), err)
	}

	return rc, rc, FilterOther, nil
}

// isTarHeader reports whether block looks like a tar header or end-of-archive record.
func isTarHeader(block []byte) bool {
	if len(block) < tarBlockSize {
		return false
	}

	block = block[:tarBlockSize]
	if bytes.Equal(block[257:262], []byte("ustar")) {
		return true
	}

	allZero := true
	for _, b := range block {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return true
	}

	field := bytes.Trim(block[148:156], " \x00")
	stored, err := strconv.ParseInt(string(field), 8, 64)
	if err != nil {
		return false
	}

	var unsigned, signed int64
	for i, b := range block {
		if i >= 148 && i < 156 {
			b = ' '
		}

		unsigned += int64(b)
		signed += int64(int8(b))
	}

	return stored == unsigned || stored == signed
}
