package gcode

import (
	"strconv"
	"strings"
)

// A Word is a single letter address and its value, like `G28` or `S90`.
type Word struct {
	W   byte
	Arg float64

	// Bare words are sent without a value (e.g. the axes in `G28 X Y`).
	Bare bool
}

// Axis returns a bare axis word.
func Axis(w byte) Word { return Word{W: w, Bare: true} }

func (w Word) IsValid() bool {
	return w.W >= 'A' && w.W <= 'Z'
}

func formatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
	}
	return strings.TrimRight(s, ".")
}

func (w Word) String() string {
	if w.Bare {
		return string(w.W)
	}
	return string(w.W) + formatFloat(w.Arg, 3)
}
