package ast

import (
	"strings"

	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

// Flag is a declaration modifier
type Flag int

const (
	Final Flag = iota
	Public
	Protected
	Private
	Static
	Abstract
)

var flagNames = [...]string{
	Final:     "Final",
	Public:    "Public",
	Protected: "Protected",
	Private:   "Private",
	Static:    "Static",
	Abstract:  "Abstract",
}

func (f Flag) String() string {
	if int(f) < len(flagNames) {
		return flagNames[f]
	}
	return "Flag(?)"
}

// Keyword returns the source keyword for the flag, e.g. "public".
func (f Flag) Keyword() string {
	return strings.ToLower(f.String())
}

// IsVisibility reports whether the flag is public, protected or private.
func (f Flag) IsVisibility() bool {
	return f == Public || f == Protected || f == Private
}

// FlagFromToken maps a modifier token to its flag.
func FlagFromToken(t lexer.TokenType) (Flag, bool) {
	switch t {
	case lexer.FINAL:
		return Final, true
	case lexer.PUBLIC:
		return Public, true
	case lexer.PROTECTED:
		return Protected, true
	case lexer.PRIVATE:
		return Private, true
	case lexer.STATIC:
		return Static, true
	case lexer.ABSTRACT:
		return Abstract, true
	}
	return 0, false
}

// Flags is the ordered modifier list shared by classes, functions and properties.
type Flags []Flag

// AddFlag appends a flag. Validation is the caller's job.
func (fs *Flags) AddFlag(f Flag) {
	*fs = append(*fs, f)
}

// HasFlag reports whether f is present.
func (fs Flags) HasFlag(f Flag) bool {
	for _, existing := range fs {
		if existing == f {
			return true
		}
	}
	return false
}

// HasFlags reports whether any flag is present.
func (fs Flags) HasFlags() bool {
	return len(fs) > 0
}

// HasVisibilityFlag reports whether at least one visibility flag is present.
func (fs Flags) HasVisibilityFlag() bool {
	return fs.visibilityCount() >= 1
}

// HasMultipleVisibilityFlags reports whether more than one visibility flag is present.
func (fs Flags) HasMultipleVisibilityFlags() bool {
	return fs.visibilityCount() > 1
}

func (fs Flags) visibilityCount() int {
	n := 0
	for _, f := range fs {
		if f.IsVisibility() {
			n++
		}
	}
	return n
}

func (fs Flags) String() string {
	words := make([]string, 0, len(fs))
	for _, f := range fs {
		words = append(words, f.Keyword())
	}
	return strings.Join(words, " ")
}

// Flaggable is implemented by every node that carries modifiers.
type Flaggable interface {
	AddFlag(f Flag)
	HasFlag(f Flag) bool
	HasFlags() bool
	HasVisibilityFlag() bool
	HasMultipleVisibilityFlags() bool
}

var (
	_ Flaggable = (*Class)(nil)
	_ Flaggable = (*Function)(nil)
	_ Flaggable = (*Property)(nil)
)
