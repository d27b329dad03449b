// File: pkg/storage/stream.go
package storage

import (
	"fmt"
	"io"
)

// lengthCheckedReader fails the stream at EOF, or as soon as it overruns,
// when the bytes read disagree with the declared length
type lengthCheckedReader struct {
	r        io.Reader
	expected int64
	read     int64
}

// ExpectLength wraps r so that a short or long stream surfaces as ErrContentLengthMismatch
// instead of a silently truncated object. A negative expected length disables the check.
func ExpectLength(r io.Reader, expected int64) io.Reader {
	if expected < 0 {
		return r
	}
	return &lengthCheckedReader{r: r, expected: expected}
}

func (l *lengthCheckedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.expected {
		return n, fmt.Errorf("%w: declared %d bytes, stream has more", ErrContentLengthMismatch, l.expected)
	}
	if err == io.EOF && l.read != l.expected {
		return n, fmt.Errorf("%w: declared %d bytes, got %d", ErrContentLengthMismatch, l.expected, l.read)
	}
	return n, err
}
