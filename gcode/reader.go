package gcode

import "io"

// A LineReader returns program lines one at a time, and io.EOF
// once exhausted.
type LineReader interface {
	ReadLine() (string, error)
}

// LinesReader is a LineReader over an in-memory program, for callers
// that generate their lines rather than read them from a file.
type LinesReader struct {
	Lines []string
	n     int
}

func (l *LinesReader) ReadLine() (string, error) {
	if l.n == len(l.Lines) {
		return "", io.EOF
	}

	l.n++
	return l.Lines[l.n-1], nil
}
