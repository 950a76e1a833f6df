package gcode

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func readAll(t *testing.T, lr LineReader) []string {
	var lines []string
	for {
		s, err := lr.ReadLine()
		if err == io.EOF {
			return lines
		}
		assert.NoError(t, err)
		lines = append(lines, s)
	}
}

func TestProgram_ReadLine(t *testing.T) {
	p := NewProgram(strings.NewReader("\n; comment\n   ;indented comment\nG1 X10 Y10\r\n  \t\nG28 X Y"))

	assert.Equal(t, []string{"G1 X10 Y10", "G28 X Y"}, readAll(t, p))
}

func TestProgram_Empty(t *testing.T) {
	assert.Empty(t, readAll(t, NewProgram(strings.NewReader(""))))
	assert.Empty(t, readAll(t, NewProgram(strings.NewReader("\n\n;only comments\n"))))
}

func TestProgram_KeepsInlineText(t *testing.T) {
	p := NewProgram(strings.NewReader("  G0 X1 ; move\n"))
	assert.Equal(t, []string{"  G0 X1 ; move"}, readAll(t, p))
}

func TestIsComment(t *testing.T) {
	assert.True(t, IsComment(""))
	assert.True(t, IsComment("   "))
	assert.True(t, IsComment("; hi"))
	assert.True(t, IsComment("\t;hi"))
	assert.False(t, IsComment("G1 ;hi"))
}
