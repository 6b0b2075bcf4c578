// Package ling holds the lexical values attached to tree nodes: dictionary
// senses and the atomic concepts a label is normalized into.
package ling

import (
	"fmt"
	"strconv"
	"strings"
)

// Parts of speech, as used in sense keys.
const (
	Noun      byte = 'n'
	Verb      byte = 'v'
	Adjective byte = 'a'
	Adverb    byte = 'r'
)

// Sense identifies one dictionary meaning. Senses are plain values and
// compare with ==.
type Sense struct {
	POS byte
	ID  int64
}

func (s Sense) String() string {
	return string(s.POS) + "#" + strconv.FormatInt(s.ID, 10)
}

func (s Sense) IsNoun() bool {
	return s.POS == Noun
}

// ParseSense parses the "pos#id" form produced by String.
func ParseSense(v string) (Sense, error) {
	pos, id, ok := strings.Cut(v, "#")
	if !ok || len(pos) != 1 {
		return Sense{}, fmt.Errorf("invalid sense %q", v)
	}
	if !ValidPOS(pos[0]) {
		return Sense{}, fmt.Errorf("invalid part of speech in sense %q", v)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return Sense{}, fmt.Errorf("invalid sense id in %q: %w", v, err)
	}
	return Sense{POS: pos[0], ID: n}, nil
}

func ValidPOS(p byte) bool {
	switch p {
	case Noun, Verb, Adjective, Adverb:
		return true
	}
	return false
}
