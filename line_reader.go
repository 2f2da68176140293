// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package pkginfo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
)

// lineInitialCap is the first line buffer allocation; the buffer grows up to maxLen.
const lineInitialCap = 4096

// LineReader assembles newline- or NUL-delimited lines from a BlockSource.
//
// Lines may span any number of blocks. Each line is bounded by maxLen bytes,
// which callers derive from the declared entry size. A longer line fails with
// ErrLineOverflow instead of being truncated.
//
// Each block is searched for '\n' first; NUL ends a line only when the rest of
// the block holds no newline. Input that mixes both delimiters can therefore
// split differently depending on block boundaries: "a\x00b\nc" in one block
// yields "a\x00b" and "c", while a block boundary after the NUL yields "a", "b"
// and "c". Input using only one delimiter kind splits the same for any blocks.
type LineReader struct {
	// src yields borrowed blocks.
	src BlockSource
	// block is the unconsumed part of the block held from the last pull.
	block []byte
	// line is the assembled line; len(line) is the write cursor.
	line []byte
	// srcEOF reports that the last pull signaled end of data.
	srcEOF bool
	// err is the sticky terminal result (io.EOF or a failure).
	err error
	// maxLen is the line length bound in bytes.
	maxLen int
	// lineNo counts returned lines.
	lineNo int
}

// NewLineReader returns a LineReader over src with lines bounded by maxLen bytes.
func NewLineReader(src BlockSource, maxLen int64) *LineReader {
	if maxLen < 0 {
		maxLen = 0
	}
	if maxLen > math.MaxInt {
		maxLen = math.MaxInt
	}

	return &LineReader{
		src:    src,
		line:   make([]byte, 0, min(int(maxLen), lineInitialCap)),
		maxLen: int(maxLen),
	}
}

// Line returns the 1-based number of the last returned line.
func (lr *LineReader) Line() int {
	return lr.lineNo
}

// Next returns the next line without its delimiter.
// The returned slice is valid until the next call. At end of entry Next returns io.EOF;
// an unterminated trailing fragment is returned as a line first.
func (lr *LineReader) Next() ([]byte, error) {
	if lr.err != nil {
		return nil, lr.err
	}
	if lr.src == nil {
		lr.err = fmt.Errorf("%w: %w", ErrSourceFailure, ErrNilReader)
		return nil, lr.err
	}

	lr.line = lr.line[:0]
	emptyPulls := 0
	for {
		if len(lr.block) == 0 {
			if lr.srcEOF {
				if len(lr.line) > 0 {
					lr.lineNo++
					return lr.line, nil
				}

				lr.err = io.EOF
				return nil, lr.err
			}

			if err := lr.pull(); err != nil {
				lr.err = err
				return nil, lr.err
			}

			if len(lr.block) == 0 && !lr.srcEOF {
				emptyPulls++
				if emptyPulls >= maxEmptyReads {
					lr.err = fmt.Errorf("%w: %w", ErrSourceFailure, io.ErrNoProgress)
					return nil, lr.err
				}
			}

			continue
		}

		emptyPulls = 0
		eol := bytes.IndexByte(lr.block, '\n')
		if eol < 0 {
			eol = bytes.IndexByte(lr.block, 0)
		}

		n := eol
		if eol < 0 {
			n = len(lr.block)
		}

		if len(lr.line)+n > lr.maxLen {
			lr.err = fmt.Errorf("%w: line %d longer than %d bytes", ErrLineOverflow, lr.lineNo+1, lr.maxLen)
			return nil, lr.err
		}

		lr.appendBounded(lr.block[:n])
		if eol >= 0 {
			lr.block = lr.block[eol+1:]
			lr.lineNo++
			return lr.line, nil
		}

		lr.block = nil
	}
}

// pull replaces the held block with the next one from source.
func (lr *LineReader) pull() error {
	block, err := lr.src.ReadBlock()
	lr.block = block
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		lr.srcEOF = true
		return nil
	}

	lr.block = nil
	return fmt.Errorf("%w: %w", ErrSourceFailure, err)
}

// appendBounded appends p to line, growing capacity no further than maxLen.
// Callers check len(line)+len(p) <= maxLen first.
func (lr *LineReader) appendBounded(p []byte) {
	need := len(lr.line) + len(p)
	if need > cap(lr.line) {
		newCap := max(2*cap(lr.line), need)
		if newCap > lr.maxLen {
			newCap = lr.maxLen
		}

		grown := make([]byte, len(lr.line), newCap)
		copy(grown, lr.line)
		lr.line = grown
	}

	lr.line = append(lr.line, p...)
}
