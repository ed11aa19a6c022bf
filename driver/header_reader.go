// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// headerReader returns the first bytes of r a second time, after they were used
// to identify the format of the stream.
type headerReader struct {
	io.Reader
	header []byte
}

// newHeaderReader reads up to headerSize bytes from r. A shorter stream is not an error.
func newHeaderReader(r io.Reader, headerSize int) (*headerReader, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, errors.Wrap(err, "cannot read header")
	}
	return &headerReader{
		Reader: io.MultiReader(bytes.NewReader(buf[:n]), r),
		header: buf[:n],
	}, nil
}

// PeekHeader returns the header bytes without consuming them.
func (h *headerReader) PeekHeader() []byte {
	return h.header
}

// matchesMagicBytes checks if data contains one of magicBytes at offset.
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	for _, mb := range magicBytes {
		if offset+len(mb) > len(data) {
			continue
		}
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}
	return false
}
