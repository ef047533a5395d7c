package render

import "strings"

// DefaultIndentStep is the number of spaces per indentation level.
const DefaultIndentStep = 4

// Indent is an indentation level. It is a plain value: Increase, Decrease
// and Reset return a new Indent and never modify the receiver.
type Indent struct {
	Step  int
	Depth int
}

// NewIndent returns an Indent at the given depth with the default step.
func NewIndent(depth int) Indent {
	return Indent{Step: DefaultIndentStep, Depth: depth}
}

func (i Indent) Increase() Indent {
	i.Depth++
	return i
}

// Decrease never goes below depth zero.
func (i Indent) Decrease() Indent {
	if i.Depth > 0 {
		i.Depth--
	}
	return i
}

func (i Indent) Reset() Indent {
	i.Depth = 0
	return i
}

// Spaces returns the whitespace prefix for this level.
func (i Indent) Spaces() string {
	n := i.Step * i.Depth
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
