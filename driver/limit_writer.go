// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import "io"

// limitErrorWriter stops writing with io.ErrShortWrite once L bytes are written.
type limitErrorWriter struct {
	W io.Writer // underlying writer
	L int64     // limit
	N int64     // number of bytes written
}

// Write writes p to the underlying writer until the limit is reached. The last
// partial write and every later write return io.ErrShortWrite.
func (l *limitErrorWriter) Write(p []byte) (int, error) {
	if l.N >= l.L && len(p) > 0 {
		return 0, io.ErrShortWrite
	}

	if int64(len(p)) > l.L-l.N {
		n, err := l.W.Write(p[:l.L-l.N])
		l.N += int64(n)
		if err == nil {
			err = io.ErrShortWrite
		}
		return n, err
	}

	n, err := l.W.Write(p)
	l.N += int64(n)
	return n, err
}

// limitWriter returns w limited to maxSize bytes. A negative maxSize disables the limit.
func limitWriter(w io.Writer, maxSize int64) io.Writer {
	if maxSize < 0 {
		return w
	}
	return &limitErrorWriter{W: w, L: maxSize}
}
