package atom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyatom/yamlcore/internal/input"
)

func newAtom(t *testing.T, text string, style Style, chomp Chomp) *Atom {
	t.Helper()
	in := input.New([]byte(text))
	a := &Atom{Input: in, Start: 0, End: in.Size(), Style: style, Chomp: chomp}
	a.Fill()
	return a
}

func decode(t *testing.T, text string, style Style, chomp Chomp) string {
	t.Helper()
	a := newAtom(t, text, style, chomp)
	it := NewIter(a)
	out, err := it.ReadAll()
	require.NoError(t, err)
	return string(out)
}

func TestPlainScalarFolding(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"single line", "hello world", "hello world"},
		{"folds single break to space", "hello\nworld", "hello world"},
		{"trims surrounding whitespace", "  hello world  ", "hello world"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, decode(t, c.in, Plain, Clip))
		})
	}
}

func TestSingleQuotedEscapesDoubledQuote(t *testing.T) {
	require.Equal(t, "it's", decode(t, "it''s", SingleQuoted, Clip))
}

// TestPlainScalarBlankLineIsParagraphBreak pins down that a blank interior
// line glues as a linebreak rather than the usual single folding space -
// otherwise the paragraph break collapses into two spaces and the line
// boundary it marked is lost.
func TestPlainScalarBlankLineIsParagraphBreak(t *testing.T) {
	require.Equal(t, "aaa\nbbb", decode(t, "aaa\n\nbbb", Plain, Clip))
}

func TestSingleQuotedBlankLineIsParagraphBreak(t *testing.T) {
	require.Equal(t, "aaa\nbbb", decode(t, "aaa\n\nbbb", SingleQuoted, Clip))
}

func TestDoubleQuotedBlankLineIsParagraphBreak(t *testing.T) {
	require.Equal(t, "aaa\nbbb", decode(t, "aaa\n\nbbb", DoubleQuoted, Clip))
}

func TestDoubleQuotedEscapes(t *testing.T) {
	require.Equal(t, "a\tb\nc", decode(t, `a\tb\nc`, DoubleQuoted, Clip))
	require.Equal(t, "é", decode(t, `é`, DoubleQuoted, Clip))
}

func TestLiteralBlockChomping(t *testing.T) {
	require.Equal(t, "a\nb\n", decode(t, "a\nb\n", Literal, Clip))
	require.Equal(t, "a\nb", decode(t, "a\nb\n", Literal, Strip))
	require.Equal(t, "a\nb\n\n\n", decode(t, "a\nb\n\n\n", Literal, Keep))
}

// TestLiteralBlockChompingMultipleTrailingBlankLines pins down chomping
// across a trailing run of *several* blank lines, not just the single line
// bordering EOF: strip drops the whole run, clip collapses it to exactly
// one linebreak, keep preserves every one of them.
func TestLiteralBlockChompingMultipleTrailingBlankLines(t *testing.T) {
	require.Equal(t, "a\nb", decode(t, "a\nb\n\n\n", Literal, Strip))
	require.Equal(t, "a\nb\n", decode(t, "a\nb\n\n\n", Literal, Clip))
	require.Equal(t, "a\nb\n\n\n", decode(t, "a\nb\n\n\n", Literal, Keep))
}

func TestFoldedBlockFoldsSingleBreaks(t *testing.T) {
	require.Equal(t, "a b\n", decode(t, "a\nb\n", Folded, Clip))
}

func TestFoldedBlockPreservesBlankLineAsParagraphBreak(t *testing.T) {
	require.Equal(t, "aaa bbb\n\nccc\n", decode(t, "aaa\nbbb\n\nccc\n", Folded, Clip))
}

func TestDirectOutputShortCircuit(t *testing.T) {
	a := newAtom(t, "hello", Plain, Clip)
	require.True(t, a.DirectOutput)

	a = newAtom(t, "hello world", Plain, Clip)
	require.False(t, a.DirectOutput)
}

func TestEmptyAtom(t *testing.T) {
	a := newAtom(t, "", Plain, Clip)
	require.True(t, a.Size0)
	require.True(t, a.Empty)

	it := NewIter(a)
	out, err := it.ReadAll()
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestIterGetcUngetc(t *testing.T) {
	a := newAtom(t, "ab", Plain, Clip)
	it := NewIter(a)
	c := it.Getc()
	require.Equal(t, int('a'), c)
	it.Ungetc(byte(c))
	require.Equal(t, int('a'), it.Peekc())
	require.Equal(t, int('a'), it.Getc())
	require.Equal(t, int('b'), it.Getc())
	require.Equal(t, -1, it.Getc())
}
