// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

// archiveBufferSize is the buffered read size in front of filter detection.
const archiveBufferSize = 64 * 1024

var (
	// archiveReaderPool reuses buffered readers across archives.
	archiveReaderPool = sync.Pool{
		New: func() any {
			return bufio.NewReaderSize(nil, archiveBufferSize)
		},
	}
)

// Archive iterates entries of a filtered tar package archive.
type Archive struct {
	// file is set when Archive owns an *os.File opened via Open.
	file *os.File
	// decoder releases filter state on Close; nil for plain tar.
	decoder io.Closer
	// br is the pooled buffered reader over the raw source.
	br *bufio.Reader
	// tr iterates tar entries over decoded stream.
	tr *tar.Reader
	// block is the single block buffer shared by entry block sources.
	block []byte
	// filter is the resolved filter.
	filter Filter
	// size is container size in bytes; zero when unknown.
	size int64
	// mu guards closed state and close operation.
	mu sync.Mutex
	// closed reports whether Close was already called.
	closed bool
}

// Open opens a package archive by path.
func Open(path string) (*Archive, error) {
	return OpenWithOptions(path, ArchiveOptions{})
}

// OpenWithOptions opens a package archive by path using explicit options.
func OpenWithOptions(path string, opts ArchiveOptions) (*Archive, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}

	a, err := NewArchive(f, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	a.file = f
	a.size = size
	return a, nil
}

// NewArchive detects the filter and container of r and prepares entry iteration.
// The caller keeps ownership of r.
func NewArchive(r io.Reader, opts ArchiveOptions) (*Archive, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	opts.applyDefaults()

	br := archiveReaderPool.Get().(*bufio.Reader) //nolint:forcetypeassert // pool contains only *bufio.Reader
	br.Reset(r)

	decoded, decoder, filter, err := openFilter(br, opts.Filter)
	if err != nil {
		releaseReader(br)
		return nil, err
	}

	a := &Archive{
		br:      br,
		decoder: decoder,
		filter:  filter,
		block:   make([]byte, opts.BlockSize),
	}

	container, err := checkTarContainer(decoded)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.tr = tar.NewReader(container)
	return a, nil
}

// checkTarContainer verifies that decoded stream starts with a tar record.
// Empty streams are accepted as archives without entries.
func checkTarContainer(decoded io.Reader) (io.Reader, error) {
	tbr, ok := decoded.(*bufio.Reader)
	if !ok {
		tbr = bufio.NewReaderSize(decoded, tarBlockSize*8)
	}

	head, err := tbr.Peek(tarBlockSize)
	if len(head) == 0 && errors.Is(err, io.EOF) {
		return tbr, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read container: %w", ErrNotAnArchive, err)
	}
	if !isTarHeader(head) {
		return nil, fmt.Errorf("%w: missing tar header", ErrNotAnArchive)
	}

	return tbr, nil
}

// Next advances to the next entry and returns its header. It returns io.EOF after the last entry.
func (a *Archive) Next() (EntryInfo, error) {
	if a == nil || a.tr == nil {
		return EntryInfo{}, ErrNilReader
	}

	if a.isClosed() {
		return EntryInfo{}, ErrClosed
	}

	hdr, err := a.tr.Next()
	if errors.Is(err, io.EOF) {
		return EntryInfo{}, io.EOF
	}
	if err != nil {
		return EntryInfo{}, fmt.Errorf("%w: %w", ErrHeaderRead, err)
	}

	return EntryInfo{
		Path:    hdr.Name,
		Size:    hdr.Size,
		Mode:    hdr.FileInfo().Mode(),
		ModTime: hdr.ModTime,
	}, nil
}

// Blocks returns content of the current entry as blocks.
// Blocks share one buffer owned by the archive; a new call or Next invalidates earlier blocks.
// Reads fail with ErrClosed once the archive is closed.
func (a *Archive) Blocks() BlockSource {
	if a == nil || a.tr == nil {
		return &readerBlockSource{err: ErrNilReader}
	}
	if a.isClosed() {
		return &readerBlockSource{err: ErrClosed}
	}

	return &entryBlockSource{a: a, src: readerBlockSource{r: a.tr, buf: a.block}}
}

// entryBlockSource reads the current entry while its archive stays open.
type entryBlockSource struct {
	a   *Archive
	src readerBlockSource
}

// ReadBlock returns ErrClosed after Close, otherwise the next entry block.
func (s *entryBlockSource) ReadBlock() ([]byte, error) {
	if s.a.isClosed() {
		return nil, ErrClosed
	}

	return s.src.ReadBlock()
}

// isClosed reports whether Close was called.
func (a *Archive) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.closed
}

// Filter returns the resolved compression filter.
func (a *Archive) Filter() Filter {
	if a == nil {
		return ""
	}

	return a.filter
}

// Size returns container size in bytes when archive was opened from a path.
func (a *Archive) Size() int64 {
	if a == nil {
		return 0
	}

	return a.size
}

// Close releases decoder state, pooled buffers, and the owned file.
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}

	a.closed = true
	var errs []error
	if a.decoder != nil {
		errs = append(errs, a.decoder.Close())
	}

	if a.br != nil {
		releaseReader(a.br)
		a.br = nil
	}

	if a.file != nil {
		errs = append(errs, a.file.Close())
	}

	return errors.Join(errs...)
}

// releaseReader detaches br from its source and returns it to pool.
func releaseReader(br *bufio.Reader) {
	br.Reset(nil)
	archiveReaderPool.Put(br)
}

// openFileWithSize opens a file and returns a handle plus current size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %w", ErrNotFound, err)
		}

		return nil, 0, fmt.Errorf("open package: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
