package atom

// lineInfo is the result of analyzing a single physical line of an atom's
// raw bytes: where its content starts and ends, where its non-whitespace
// span is, and how it should be glued to the line before and after it.
type lineInfo struct {
	start, end       int // byte offsets into the atom's raw data
	nwsStart, nwsEnd int // span excluding leading/trailing whitespace
	chompStart       int // offset where chomp-column indentation ends, for block styles

	trailingWS     bool
	empty          bool
	trailingBreaks bool
	indented       bool
	lbEnd          bool // line ends in a linebreak rather than atom EOF
	final          bool // this is the atom's last line

	needNL  bool // caller must emit a linebreak before the next line
	needSep bool // caller must emit a folding space before the next line
}

const tabSize = 8

// expandCol advances a column counter the way a literal/folded block
// scalar's chomp-indent tracking does: tabs expand to the next multiple of
// tabSize, everything else advances by one.
func expandCol(col int, c byte) int {
	if c == '\t' {
		return ((col / tabSize) + 1) * tabSize
	}
	return col + 1
}

// analyzeLine scans the line starting at data[start:end] (end is exclusive
// and does not include the line's terminating break, if any) and fills in
// a lineInfo describing it, given the chomp-indent column for block styles.
func analyzeLine(data []byte, start, end int, isBlock bool, chompCol int) lineInfo {
	li := lineInfo{start: start, end: end, nwsStart: -1, nwsEnd: -1, chompStart: -1, empty: true}

	col := 0
	for i := start; i < end; i++ {
		c := data[i]
		ws := c == ' ' || c == '\t'

		if isBlock && li.chompStart < 0 && col >= chompCol {
			li.chompStart = i
			li.indented = ws
		}

		if !ws {
			li.empty = false
			if li.nwsStart < 0 {
				li.nwsStart = i
			}
			li.nwsEnd = i + 1
		}
		col = expandCol(col, c)
	}

	if isBlock && li.chompStart < 0 {
		li.chompStart = end
	}
	if li.nwsStart < 0 {
		// the whole line is whitespace
		li.nwsStart = end
		li.nwsEnd = end
	}
	li.trailingWS = end > start && (data[end-1] == ' ' || data[end-1] == '\t')
	return li
}

// lineAnalyzer walks an atom's raw bytes one physical line at a time,
// tracking a two-line sliding window (li[0] is the line just produced,
// li[1] is the line being analyzed) the way the iterator's chunk formatter
// consumes it to decide the glue between consecutive lines.
type lineAnalyzer struct {
	data      []byte
	pos       int
	chompCol  int
	isBlock   bool
	li        [2]lineInfo
	cur       int // not read; the current line is always li[1]
	done      bool
	blankFrom int // offset of the atom's trailing run of blank lines
}

func newLineAnalyzer(a *Atom) *lineAnalyzer {
	la := &lineAnalyzer{
		data:    a.Data(),
		isBlock: a.Style.IsBlock(),
	}
	if a.Style.IsBlock() {
		la.chompCol = a.Increment
	}
	la.blankFrom = trailingBlankFrom(la.data)
	la.advance()
	return la
}

// trailingBlankFrom returns the smallest offset such that data[offset:]
// consists solely of whitespace and linebreaks - the start of the atom's
// trailing run of blank lines, the span a block scalar's chomping indicator
// applies to as a whole rather than line by line.
func trailingBlankFrom(data []byte) int {
	i := len(data)
	for i > 0 {
		c := data[i-1]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
		i--
	}
	return i
}

// advance analyzes the next physical line into li[1], sliding the previous
// li[1] into li[0], and reports whether a line was produced.
func (la *lineAnalyzer) advance() bool {
	if la.pos > len(la.data) {
		return false
	}
	la.li[0] = la.li[1]

	lineStart := la.pos
	lineEnd := lineStart
	for lineEnd < len(la.data) && la.data[lineEnd] != '\n' && la.data[lineEnd] != '\r' {
		lineEnd++
	}

	li := analyzeLine(la.data, lineStart, lineEnd, la.isBlock, la.chompCol)

	next := lineEnd
	if next < len(la.data) {
		if la.data[next] == '\r' && next+1 < len(la.data) && la.data[next+1] == '\n' {
			next += 2
		} else {
			next++
		}
		li.lbEnd = true
	} else {
		li.final = true
	}
	la.pos = next
	la.li[1] = li

	// Now that both lines of the window are known, fill in the glue the
	// line just pushed into li[0] needs before li[1]: a linebreak if it was
	// itself a blank line (a paragraph break), a folding space only if
	// both it and the line following it carry content.
	la.li[0].needNL = la.li[0].empty
	la.li[0].needSep = !la.li[0].empty && !li.empty

	return true
}

// Current returns the line most recently produced by advance.
func (la *lineAnalyzer) Current() lineInfo {
	return la.li[1]
}

// Done reports whether the current line is the atom's last line.
func (la *lineAnalyzer) Done() bool {
	return la.li[1].final
}

// InTrailingBlankRun reports whether the current line lies within the
// atom's trailing run of blank lines - the span a Strip or Clip chomping
// indicator collapses as a whole, rather than one linebreak per line.
func (la *lineAnalyzer) InTrailingBlankRun() bool {
	return la.li[1].start >= la.blankFrom
}
