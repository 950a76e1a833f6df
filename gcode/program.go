package gcode

import (
	"bufio"
	"io"
	"strings"
)

// CommentMarker starts a comment line when it is the first
// non-whitespace character.
const CommentMarker = ';'

// Program reads a line-oriented G-code program, skipping blank
// lines and comment lines. Every other line is returned as-is,
// without its line ending.
type Program struct{ br *bufio.Reader }

var _ LineReader = &Program{}

func NewProgram(r io.Reader) *Program {
	if br, ok := r.(*bufio.Reader); ok {
		return &Program{br: br}
	}

	return &Program{br: bufio.NewReader(r)}
}

// IsComment reports if s should be skipped as a blank or comment line.
func IsComment(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s[0] == CommentMarker
}

func (p *Program) ReadLine() (string, error) {
	for {
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			return "", err
		}

		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")
		if IsComment(s) {
			continue
		}

		return s, nil
	}
}
