package marlin

import (
	"bytes"
)

// DefaultLineBufferSize is enough for any line Marlin sends.
const DefaultLineBufferSize = 512

// LineBuffer reassembles a byte stream into '\n' terminated lines
// using a fixed amount of memory.
type LineBuffer struct {
	buf     []byte
	n       int
	scanned int

	// set after an overflow, drops bytes through the next delimiter
	discard bool
}

// NewLineBuffer creates a LineBuffer holding at most size bytes of
// an incomplete line.
func NewLineBuffer(size int) *LineBuffer {
	if size <= 0 {
		size = DefaultLineBufferSize
	}
	return &LineBuffer{buf: make([]byte, size)}
}

// Buffered returns the bytes of the incomplete line held so far.
func (b *LineBuffer) Buffered() []byte { return b.buf[:b.n] }

// Write appends p and returns every line it completed, in order,
// without the delimiter.
//
// If the buffer fills up without a delimiter, the partial line is dropped
// along with everything up to the next delimiter and a *LineTooLongError
// is returned together with any lines that were completed. The buffer
// remains usable.
func (b *LineBuffer) Write(p []byte) (lines [][]byte, err error) {
	for len(p) > 0 {
		k := copy(b.buf[b.n:], p)
		p = p[k:]
		b.n += k

		lines = b.scan(lines)

		if b.n < len(b.buf) {
			continue
		}
		if !b.discard && err == nil {
			err = &LineTooLongError{Size: len(b.buf), Prefix: bytes.Clone(b.buf[:min(b.n, 32)])}
		}
		b.n = 0
		b.scanned = 0
		b.discard = true
	}

	return lines, err
}

func (b *LineBuffer) scan(lines [][]byte) [][]byte {
	start := 0
	for {
		i := bytes.IndexByte(b.buf[b.scanned:b.n], '\n')
		if i < 0 {
			break
		}
		end := b.scanned + i
		if b.discard {
			b.discard = false
		} else {
			lines = append(lines, bytes.Clone(b.buf[start:end]))
		}
		start = end + 1
		b.scanned = start
	}
	b.scanned = b.n

	// compact
	if start > 0 {
		copy(b.buf, b.buf[start:b.n])
		b.n -= start
		b.scanned -= start
	}
	return lines
}

// Flush returns the unterminated remainder of the stream, if any,
// and resets the buffer.
func (b *LineBuffer) Flush() []byte {
	defer func() {
		b.n = 0
		b.scanned = 0
		b.discard = false
	}()
	if b.discard || b.n == 0 {
		return nil
	}
	return bytes.Clone(b.buf[:b.n])
}
