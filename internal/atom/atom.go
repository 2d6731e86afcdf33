// Package atom decodes a raw byte range of YAML input into its logical
// scalar text, honoring the rules of YAML's five scalar styles (plain,
// single-quoted, double-quoted, literal, folded) and of the URI/comment
// sub-styles used for tag and comment bodies.
//
// An Atom only ever describes a byte range already selected by a scanner;
// it performs no lexical scanning of its own.
package atom

import "github.com/fyatom/yamlcore/internal/input"

// Style identifies which of YAML's scalar styles an Atom's bytes were
// written in.
type Style int

const (
	Plain Style = iota
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
	URI
	DoubleQuotedManual
	Comment
)

// IsQuoted reports whether s is one of the quoted scalar styles.
func (s Style) IsQuoted() bool {
	return s == SingleQuoted || s == DoubleQuoted
}

// IsBlock reports whether s is one of the block scalar styles, where
// chomping and indentation-derived line splitting apply.
func (s Style) IsBlock() bool {
	return s == Literal || s == Folded
}

// Chomp identifies how a block scalar's trailing line breaks are handled.
type Chomp int

const (
	Strip Chomp = iota // "-": drop all trailing line breaks
	Clip               // default: keep exactly one trailing line break
	Keep               // "+": keep all trailing line breaks
)

// Atom describes a scalar's raw byte range plus everything the iterator
// needs to decode it without re-scanning: its style, chomping mode, and a
// set of precomputed boolean flags that let short, single-line atoms skip
// the general line-analysis path entirely.
type Atom struct {
	Input *input.Input
	Start int // byte offset of the atom's first byte
	End   int // byte offset one past the atom's last byte

	Style     Style
	Chomp     Chomp
	Increment int // indentation increment for block scalars ("|2", ">3", ...)

	// StorageHint, when StorageHintValid is true, is an upper bound on the
	// number of bytes the decoded text will occupy - enough to size a
	// destination buffer without a separate measuring pass.
	StorageHint      int
	StorageHintValid bool

	// DirectOutput is true when the atom's raw bytes are already exactly
	// its decoded value - no escapes, no line folding, no chomping to
	// apply. The iterator can then hand out the input bytes unmodified.
	DirectOutput bool

	Empty         bool // contains only whitespace and linebreaks
	HasLB         bool // contains at least one linebreak
	HasWS         bool // contains at least one whitespace run
	StartsWithWS  bool
	StartsWithLB  bool
	EndsWithWS    bool
	EndsWithLB    bool
	TrailingLB    bool // ends with more than one trailing linebreak
	Size0         bool // the atom is entirely empty
}

// Size returns the raw byte length of the atom's input range.
func (a *Atom) Size() int {
	return a.End - a.Start
}

// Data returns the atom's raw, undecoded input bytes.
func (a *Atom) Data() []byte {
	return a.Input.Slice(a.Start, a.End)
}

// IsSet reports whether the atom has been bound to an input.
func (a *Atom) IsSet() bool {
	return a != nil && a.Input != nil
}

// Fill derives the precomputed boolean flags from the atom's raw bytes and
// style. Callers construct an Atom with Input/Start/End/Style/Chomp set and
// then call Fill before handing it to an iterator.
func (a *Atom) Fill() {
	data := a.Data()
	a.Size0 = len(data) == 0
	if a.Size0 {
		a.Empty = true
		a.DirectOutput = true
		return
	}

	hasLB, hasWS := false, false
	startsWithWS, startsWithLB := false, false
	endsWithWS, endsWithLB := false, false
	trailingLB := false
	allWSOrLB := true

	trailingBreaks := 0
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '\n' || c == '\r':
			hasLB = true
			if i == 0 {
				startsWithLB = true
			}
			trailingBreaks++
			i++
			continue
		case c == ' ' || c == '\t':
			hasWS = true
			if i == 0 {
				startsWithWS = true
			}
			i++
			trailingBreaks = 0
			continue
		default:
			allWSOrLB = false
			trailingBreaks = 0
			i++
		}
	}
	endsWithLB = data[len(data)-1] == '\n' || data[len(data)-1] == '\r'
	endsWithWS = data[len(data)-1] == ' ' || data[len(data)-1] == '\t'
	trailingLB = trailingBreaks > 1

	a.HasLB = hasLB
	a.HasWS = hasWS
	a.StartsWithWS = startsWithWS
	a.StartsWithLB = startsWithLB
	a.EndsWithWS = endsWithWS
	a.EndsWithLB = endsWithLB
	a.TrailingLB = trailingLB
	a.Empty = allWSOrLB

	// A single-line plain/URI/comment atom with no internal whitespace run
	// to fold can be handed out byte-for-byte. Quoted and block styles
	// always need a decode pass - for a possible escape, or for chomping -
	// even when they happen to fit on one line.
	switch a.Style {
	case Plain, URI, Comment:
		a.DirectOutput = !hasLB && !hasWS
	default:
		a.DirectOutput = false
	}
}
