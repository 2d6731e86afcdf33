package atom

import (
	"fmt"

	"github.com/fyatom/yamlcore/internal/utf8x"
)

const (
	startupChunks     = 8
	startupCopyBuffer = 32
)

// chunk is a span of decoded output: either a direct slice into the atom's
// raw input (data != nil) or a small owned buffer for text that had to be
// rewritten (an escape, a folded linebreak turned into a space, ...).
type chunk struct {
	data []byte
	copy [10]byte // inline storage for chunks <= 10 bytes, mirrors the escape buffer
	n    int       // length used in copy, when data is nil
}

func (c *chunk) bytes() []byte {
	if c.data != nil {
		return c.data
	}
	return c.copy[:c.n]
}

// Iter pulls an atom's logical scalar text out in chunks, applying the
// decode rules of the atom's style: whitespace folding and chomping for
// block styles, escape interpretation for quoted styles, indentation
// stripping, and so on. It never materializes the full decoded text unless
// the caller asks it to.
type Iter struct {
	atom *Atom
	la   *lineAnalyzer

	chunks   [startupChunks]chunk
	extra    []chunk // used once chunks overflows startupChunks
	top      int
	read     int

	ungetBuf [1]byte
	ungetSet bool

	single bool // the atom is a single line: no folding to perform
	done   bool

	err error
}

// NewIter starts an iterator over atom. atom.Fill must already have been
// called.
func NewIter(a *Atom) *Iter {
	it := &Iter{atom: a}
	if a.Size0 {
		it.done = true
		return it
	}
	if a.DirectOutput {
		it.addChunk(a.Data())
		it.done = true
		return it
	}
	it.la = newLineAnalyzer(a)
	it.single = !a.HasLB
	it.fillChunks()
	return it
}

// chunkAt returns a pointer to logical chunk slot i, growing past the
// inline array into it.extra on overflow.
func (it *Iter) chunkAt(i int) *chunk {
	if i < startupChunks {
		return &it.chunks[i]
	}
	j := i - startupChunks
	for j >= len(it.extra) {
		it.extra = append(it.extra, chunk{})
	}
	return &it.extra[j]
}

func (it *Iter) addChunk(data []byte) {
	*it.chunkAt(it.top) = chunk{data: data}
	it.top++
}

func (it *Iter) addChunkCopy(b []byte) {
	c := chunk{n: len(b)}
	copy(c.copy[:], b)
	*it.chunkAt(it.top) = c
	it.top++
}

func (it *Iter) resetChunks() {
	it.top = 0
	it.read = 0
}

// addGlue appends the separator between the line just finished and the one
// the analyzer was just advanced onto, per la.li[0]'s needNL/needSep (set by
// lineAnalyzer.advance once both lines of its window are known): a
// linebreak if the finished line was itself blank, a folding space if both
// it and the new line carry content, or nothing at all when content is
// followed by a blank line - that break is deferred until the blank run
// resolves against whatever follows it.
func (it *Iter) addGlue() {
	switch {
	case it.la.li[0].needNL:
		it.addChunkCopy([]byte{'\n'})
	case it.la.li[0].needSep:
		it.addChunkCopy([]byte{' '})
	}
}

// fillChunks decodes the next logical run of output (one line's worth) into
// the chunk array.
func (it *Iter) fillChunks() {
	it.resetChunks()
	if it.done {
		return
	}

	switch it.atom.Style {
	case Plain, URI:
		it.fillFolded(false)
	case SingleQuoted:
		it.fillQuoted('\'')
	case DoubleQuoted, DoubleQuotedManual:
		it.fillDoubleQuoted()
	case Literal:
		it.fillBlock(false)
	case Folded:
		it.fillBlock(true)
	case Comment:
		it.fillFolded(false)
	default:
		it.err = fmt.Errorf("atom: unknown style %d", it.atom.Style)
		it.done = true
	}
}

// fillFolded handles plain and URI scalars: each line's leading and
// trailing whitespace is dropped, whitespace inside a line is kept as is,
// and a linebreak between two non-empty lines folds to a single space. An empty interior line (a
// paragraph break) glues with a linebreak instead of a folding space, and
// an empty line adjacent to content on only one side glues with nothing -
// the break is deferred to whichever side turns out non-empty.
func (it *Iter) fillFolded(blockFold bool) {
	li := it.la.Current()
	data := it.la.data

	if li.nwsStart < li.nwsEnd {
		it.addChunk(data[li.nwsStart:li.nwsEnd])
	}

	if li.final {
		it.done = true
		return
	}

	it.la.advance()
	it.addGlue()
}

// fillBlock handles literal and folded block scalars: literal keeps line
// breaks verbatim (minus the stripped indentation), folded collapses
// non-empty-line breaks to a space the same way plain scalars do, and both
// honor the atom's chomping indicator on the trailing breaks. Strip and
// Clip apply to the atom's whole trailing run of blank lines, not just the
// single line bordering EOF - a run of several trailing blank lines still
// strips to nothing, or clips to exactly one linebreak.
func (it *Iter) fillBlock(fold bool) {
	li := it.la.Current()
	data := it.la.data

	start := li.chompStart
	if start < 0 {
		start = li.start
	}
	if start < li.end {
		it.addChunk(data[start:li.end])
	}

	hadMore := it.la.advance()
	if !hadMore {
		it.done = true
		return
	}

	done := it.la.Done()
	inTail := it.la.InTrailingBlankRun()

	switch it.atom.Chomp {
	case Strip:
		if inTail {
			if done {
				it.done = true
			}
			return
		}
	case Clip:
		if inTail {
			if done {
				it.addChunkCopy([]byte{'\n'})
				it.done = true
			}
			return
		}
	case Keep:
		if done {
			it.addChunkCopy([]byte{'\n'})
			it.done = true
			return
		}
	}

	if fold && !li.empty {
		next := it.la.Current()
		if !next.empty {
			it.addChunkCopy([]byte{' '})
			return
		}
	}
	it.addChunkCopy([]byte{'\n'})
}

// fillQuoted handles single-quoted scalars: the only escape is a doubled
// quote character, folding of whitespace/linebreaks otherwise matches plain
// scalars.
func (it *Iter) fillQuoted(quote byte) {
	li := it.la.Current()
	data := it.la.data

	s := li.nwsStart
	for i := li.nwsStart; i < li.nwsEnd; i++ {
		if data[i] == quote && i+1 < li.nwsEnd && data[i+1] == quote {
			if s < i+1 {
				it.addChunk(data[s : i+1])
			}
			s = i + 2
			i++
		}
	}
	if s < li.nwsEnd {
		it.addChunk(data[s:li.nwsEnd])
	}

	if li.final {
		it.done = true
		return
	}
	it.la.advance()
	it.addGlue()
}

// fillDoubleQuoted handles double-quoted scalars: backslash escapes
// (including \xNN, \uNNNN, \UNNNNNNNN and the named control escapes) are
// interpreted into the inline escape buffer; everything else behaves like
// fillQuoted.
func (it *Iter) fillDoubleQuoted() {
	li := it.la.Current()
	data := it.la.data

	i := li.nwsStart
	s := i
	for i < li.nwsEnd {
		c := data[i]
		if c == '"' && i+1 < li.nwsEnd && data[i+1] == '"' {
			if s < i {
				it.addChunk(data[s:i])
			}
			it.addChunkCopy([]byte{'"'})
			i += 2
			s = i
			continue
		}
		if c != '\\' {
			i++
			continue
		}
		if s < i {
			it.addChunk(data[s:i])
		}
		r, width, ok := decodeDoubleQuotedEscape(data[i:li.nwsEnd])
		if !ok {
			it.err = fmt.Errorf("atom: invalid double-quoted escape at offset %d", i)
			it.done = true
			return
		}
		if r >= 0 {
			var buf [4]byte
			n := utf8x.Put(buf[:], r)
			it.addChunkCopy(buf[:n])
		}
		i += width
		s = i
	}
	if s < li.nwsEnd {
		it.addChunk(data[s:li.nwsEnd])
	}

	if li.final {
		it.done = true
		return
	}
	it.la.advance()
	it.addGlue()
}

// decodeDoubleQuotedEscape interprets a backslash escape at the start of b,
// returning the decoded rune (or -1 for escapes that produce no output,
// such as a line-continuation backslash), how many input bytes it consumed,
// and whether the escape was well-formed.
func decodeDoubleQuotedEscape(b []byte) (r rune, width int, ok bool) {
	if len(b) < 2 || b[0] != '\\' {
		return 0, 0, false
	}
	switch b[1] {
	case '0':
		return 0, 2, true
	case 'a':
		return '\a', 2, true
	case 'b':
		return '\b', 2, true
	case 't', '\t':
		return '\t', 2, true
	case 'n':
		return '\n', 2, true
	case 'v':
		return '\v', 2, true
	case 'f':
		return '\f', 2, true
	case 'r':
		return '\r', 2, true
	case 'e':
		return 0x1b, 2, true
	case ' ':
		return ' ', 2, true
	case '"':
		return '"', 2, true
	case '/':
		return '/', 2, true
	case '\\':
		return '\\', 2, true
	case 'N':
		return 0x85, 2, true
	case '_':
		return 0xa0, 2, true
	case 'L':
		return 0x2028, 2, true
	case 'P':
		return 0x2029, 2, true
	case '\n':
		return -1, 2, true
	case 'x':
		return decodeHexEscape(b, 2, 2)
	case 'u':
		return decodeHexEscape(b, 2, 4)
	case 'U':
		return decodeHexEscape(b, 2, 8)
	}
	return 0, 0, false
}

func decodeHexEscape(b []byte, skip, digits int) (r rune, width int, ok bool) {
	if len(b) < skip+digits {
		return 0, 0, false
	}
	var v rune
	for i := 0; i < digits; i++ {
		c := b[skip+i]
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, 0, false
		}
		v = v<<4 | d
	}
	if !utf8x.IsValid(v) {
		return 0, 0, false
	}
	return v, skip + digits, true
}

// ChunkNext returns the next chunk of decoded output, or nil when the atom
// is exhausted. It returns a non-nil error only once, the call on which the
// underlying decode failed; afterward it keeps returning (nil, nil).
func (it *Iter) ChunkNext() ([]byte, error) {
	if it.err != nil {
		err := it.err
		it.err = nil
		it.done = true
		it.resetChunks()
		return nil, err
	}
	for it.read >= it.top {
		if it.done {
			return nil, nil
		}
		it.fillChunks()
		if it.err != nil {
			err := it.err
			it.err = nil
			it.done = true
			it.resetChunks()
			return nil, err
		}
	}
	c := it.chunkAt(it.read)
	it.read++
	return c.bytes(), nil
}

// Getc returns the next decoded byte, or -1 at end of input.
func (it *Iter) Getc() int {
	if it.ungetSet {
		it.ungetSet = false
		return int(it.ungetBuf[0])
	}
	for it.read >= it.top {
		if it.done {
			return -1
		}
		it.fillChunks()
	}
	c := it.chunkAt(it.read)
	b := c.bytes()
	if len(b) == 0 {
		it.read++
		return it.Getc()
	}
	if len(b) == 1 {
		it.read++
		return int(b[0])
	}
	// peel one byte off a multi-byte chunk, leaving the remainder in place
	first := b[0]
	*it.chunkAt(it.read) = chunk{data: b[1:]}
	return int(first)
}

// Ungetc pushes back a single byte, available to at most one subsequent
// Getc/Peekc call.
func (it *Iter) Ungetc(c byte) {
	it.ungetBuf[0] = c
	it.ungetSet = true
}

// Peekc returns the next decoded byte without consuming it.
func (it *Iter) Peekc() int {
	c := it.Getc()
	if c >= 0 {
		it.Ungetc(byte(c))
	}
	return c
}

// ReadAll drains the iterator and returns the full decoded text. Intended
// for tests and small atoms; production callers should prefer ChunkNext to
// avoid the allocation.
func (it *Iter) ReadAll() ([]byte, error) {
	var out []byte
	for {
		c, err := it.ChunkNext()
		if err != nil {
			return nil, err
		}
		if c == nil {
			return out, nil
		}
		out = append(out, c...)
	}
}
