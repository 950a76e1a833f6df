package gcode

import (
	"errors"
	"strings"
)

// A Block is one line of G-code made of words.
type Block []Word

// Validate checks that every word has a letter address and that
// no address is repeated, except for G and M.
func (b Block) Validate() error {
	if len(b) == 0 {
		return errors.New("empty block")
	}
	var checkWord [256]bool
	for _, g := range b {
		if !g.IsValid() {
			return errors.New("invalid word in block")
		}
		if g.W != 'G' && g.W != 'M' && checkWord[g.W] {
			return errors.New("word was repeated in a block")
		}
		checkWord[g.W] = true
	}

	return nil
}

// String renders the block as it goes over the wire, words separated
// by a single space.
func (b Block) String() string {
	parts := make([]string, len(b))
	for i, w := range b {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}
