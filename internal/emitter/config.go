package emitter

import "github.com/fyatom/yamlcore/internal/yamlh"

// Mode selects how the emitter renders containers and scalars, mirroring
// fy-emit.c's FYECF_MODE_* bits.
type Mode int

const (
	BlockMode           Mode = iota // classic block style, flow only where the event asked for it
	FlowMode                        // force flow containers everywhere, keep block scalars/tags/anchors
	FlowOnelineMode                 // FlowMode with line wrapping disabled
	JSONMode                        // flow containers, double-quoted scalars, no tags/anchors/directives
	JSONTaggedPlainMode             // JSONMode but numbers/bools/null stay unquoted when tagged as such
	JSONOnelineMode                 // JSONMode with line wrapping disabled
)

func (m Mode) isJSON() bool {
	return m == JSONMode || m == JSONTaggedPlainMode || m == JSONOnelineMode
}

func (m Mode) isOneline() bool {
	return m == FlowOnelineMode || m == JSONOnelineMode
}

func (m Mode) forcesFlow() bool {
	return m == FlowMode || m.isJSON() || m.isOneline()
}

// TriState is an Auto/On/Off switch for directive and document-mark
// emission, matching fy-emit.c's three-way FYECF_* directive flags.
type TriState int

const (
	Auto TriState = iota
	On
	Off
)

// EmitterConfig bundles the emitter's output knobs. The teacher only ever
// exposed indent width; this generalizes that into the full set of flags
// fy-emit.c's FYECF_* bitfield carries.
type EmitterConfig struct {
	Mode   Mode
	Indent int // 1-9; 0 selects 2
	Width  int // 1-254; 0 selects 80, 255 or more selects unlimited

	OutputComments bool
	StripLabels    bool // suppress anchors
	StripTags      bool // suppress explicit tags
	StripDoc       bool // suppress %YAML/%TAG directives and ---/... marks

	// SortKeys requests mapping keys in sorted rather than insertion order.
	// The emitter itself can't honor this: readyToEmit only ever buffers a
	// short, bounded lookahead (1/2/3 events for DOCUMENT/SEQUENCE/MAPPING-
	// START), so a mapping's full pair set is essentially never sitting in
	// eventsQueue by the time its MAPPING-START is processed, which rules
	// out reordering already-queued events. Encoder.SetConfig reads this
	// field itself and applies the sort earlier, at the tree-walk stage,
	// before pairs ever become events.
	SortKeys bool

	VersionDirective TriState
	TagDirective     TriState
	DocStartMark     TriState
	DocEndMark       TriState
}

// SetConfig applies cfg to e. Call it before the first Emit; Mode in
// particular is read once a document is underway and changing it mid-stream
// has undefined results, same as SetIndent. SortKeys is not applied here —
// see the field comment on EmitterConfig.
func (e *Emitter) SetConfig(cfg EmitterConfig) {
	e.mode = cfg.Mode
	switch {
	case cfg.Indent <= 0:
		e.indent = 2
	default:
		e.indent = cfg.Indent
	}
	switch {
	case cfg.Width <= 0:
		e.width = 80
	case cfg.Width >= 255:
		e.width = 1<<31 - 1
	default:
		e.width = cfg.Width
	}
	e.outputComments = cfg.OutputComments
	e.stripLabels = cfg.StripLabels
	e.stripTags = cfg.StripTags
	e.stripDoc = cfg.StripDoc
	e.versionDirectiveMode = cfg.VersionDirective
	e.tagDirectiveMode = cfg.TagDirective
	e.docStartMarkMode = cfg.DocStartMark
	e.docEndMarkMode = cfg.DocEndMark
}

// WriteType tags one flushed write with the kind of content it carries,
// mirroring fy-emit.c's enum fy_emitter_write_type passed to fy_emit_write.
type WriteType int

const (
	WriteWhitespace WriteType = iota
	WriteIndent
	WriteIndicator
	WriteAnchor
	WriteTag
	WriteLineBreak
	WritePlainScalar
	WritePlainScalarKey
	WriteSingleQuotedScalar
	WriteSingleQuotedScalarKey
	WriteDoubleQuotedScalar
	WriteDoubleQuotedScalarKey
	WriteLiteralScalar
	WriteFoldedScalar
	WriteComment
	WriteDocumentStart
	WriteDocumentEnd
	WriteTerminatingZero
)

// WriteTypeFunc receives each tagged flush an emitter produces, matching
// fy-emit.c's emit->cfg->output(emit, type, str, len, userdata) callback.
type WriteTypeFunc func(wt WriteType, p []byte) (int, error)

// SetOutput installs f as the sink for rendered scalars: each scalar is
// handed to f in one call tagged with its scalar WriteType, and is not
// written to the io.Writer given to New. All other output (indicators,
// indentation, line breaks, anchors, tags, comments) still goes straight
// to that io.Writer and never reaches f.
func (e *Emitter) SetOutput(f WriteTypeFunc) {
	e.sink = f
}

func scalarWriteType(style yamlh.YamlScalarStyle, isKey bool) WriteType {
	switch style {
	case yamlh.PLAIN_SCALAR_STYLE:
		if isKey {
			return WritePlainScalarKey
		}
		return WritePlainScalar
	case yamlh.SINGLE_QUOTED_SCALAR_STYLE:
		if isKey {
			return WriteSingleQuotedScalarKey
		}
		return WriteSingleQuotedScalar
	case yamlh.DOUBLE_QUOTED_SCALAR_STYLE:
		if isKey {
			return WriteDoubleQuotedScalarKey
		}
		return WriteDoubleQuotedScalar
	case yamlh.LITERAL_SCALAR_STYLE:
		return WriteLiteralScalar
	case yamlh.FOLDED_SCALAR_STYLE:
		return WriteFoldedScalar
	}
	return WritePlainScalar
}
