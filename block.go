// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"io"
)

// maxEmptyReads bounds consecutive zero-byte reads before giving up.
const maxEmptyReads = 100

// BlockSource yields decoded entry content as a sequence of blocks.
//
// ReadBlock returns the next block of data. The returned slice is borrowed:
// it stays valid only until the next ReadBlock call and must not be retained
// or modified. A final non-empty block may be returned together with io.EOF.
// Once io.EOF is returned, every later call returns (nil, io.EOF).
type BlockSource interface {
	ReadBlock() ([]byte, error)
}

// readerBlockSource adapts a stream into blocks through one reusable buffer.
type readerBlockSource struct {
	// r is the underlying content stream.
	r io.Reader
	// buf is the single owned block buffer handed out on every read.
	buf []byte
	// err is the sticky terminal error.
	err error
}

// NewReaderBlockSource returns a BlockSource reading r into a reusable buffer of blockSize bytes.
func NewReaderBlockSource(r io.Reader, blockSize int) BlockSource {
	if blockSize < minBlockSize {
		blockSize = DefaultBlockSize
	}

	return &readerBlockSource{r: r, buf: make([]byte, blockSize)}
}

// ReadBlock reads the next block, retrying a bounded number of empty reads.
func (s *readerBlockSource) ReadBlock() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.r == nil {
		s.err = ErrNilReader
		return nil, s.err
	}

	for range maxEmptyReads {
		n, err := s.r.Read(s.buf)
		if err != nil {
			s.err = err
		}

		if n > 0 {
			return s.buf[:n], err
		}

		if err != nil {
			return nil, err
		}
	}

	s.err = io.ErrNoProgress
	return nil, s.err
}

// sliceBlockSource replays in-memory blocks.
type sliceBlockSource struct {
	blocks [][]byte
}

// NewSliceBlockSource returns a BlockSource yielding blocks in order and then io.EOF.
func NewSliceBlockSource(blocks ...[]byte) BlockSource {
	return &sliceBlockSource{blocks: blocks}
}

// ReadBlock returns the next stored block.
func (s *sliceBlockSource) ReadBlock() ([]byte, error) {
	if len(s.blocks) == 0 {
		return nil, io.EOF
	}

	block := s.blocks[0]
	s.blocks = s.blocks[1:]
	return block, nil
}
