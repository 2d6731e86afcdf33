package emitter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyatom/yamlcore/internal/yamlh"
)

func scalar(value string, implicit bool) *yamlh.Event {
	return &yamlh.Event{
		Type:            yamlh.SCALAR_EVENT,
		Value:           []byte(value),
		Implicit:        implicit,
		Quoted_implicit: implicit,
		Style:           yamlh.YamlStyle(yamlh.PLAIN_SCALAR_STYLE),
	}
}

func taggedScalar(value, tag string) *yamlh.Event {
	return &yamlh.Event{
		Type:            yamlh.SCALAR_EVENT,
		Value:           []byte(value),
		Tag:             []byte(tag),
		Implicit:        true,
		Quoted_implicit: true,
		Style:           yamlh.YamlStyle(yamlh.PLAIN_SCALAR_STYLE),
	}
}

func emitMapping(t *testing.T, e *Emitter, pairs [][2]*yamlh.Event) {
	t.Helper()
	emit := func(ev *yamlh.Event, final bool) {
		t.Helper()
		require.NoError(t, e.Emit(ev, final))
	}
	emit(&yamlh.Event{Type: yamlh.STREAM_START_EVENT, Encoding: yamlh.UTF8_ENCODING}, false)
	emit(&yamlh.Event{Type: yamlh.DOCUMENT_START_EVENT, Implicit: true}, false)
	emit(&yamlh.Event{Type: yamlh.MAPPING_START_EVENT, Implicit: true, Style: yamlh.YamlStyle(yamlh.BLOCK_MAPPING_STYLE)}, false)
	for _, kv := range pairs {
		emit(kv[0], false)
		emit(kv[1], false)
	}
	emit(&yamlh.Event{Type: yamlh.MAPPING_END_EVENT}, false)
	emit(&yamlh.Event{Type: yamlh.DOCUMENT_END_EVENT, Implicit: true}, false)
	emit(&yamlh.Event{Type: yamlh.STREAM_END_EVENT}, true)
}

// SortKeys is read by Encoder.SetConfig, not Emitter.SetConfig: the emitter
// only ever buffers a short, bounded lookahead of events (see readyToEmit),
// so a mapping's pairs are reordered before they become events, at the
// Encoder tree-walk stage. See encode_test.go's TestSortedOutput and
// TestEncodeConfigSortsStructKeys for coverage of that path. The emitter
// itself emits mapping pairs strictly in event order regardless of this
// config bit; the following test pins down that order with the bit unset.
func TestSortKeysOffKeepsInsertionOrder(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	emitMapping(t, e, [][2]*yamlh.Event{
		{scalar("b", true), scalar("2", true)},
		{scalar("a", true), scalar("1", true)},
	})
	require.Equal(t, "b: 2\na: 1\n", buf.String())
}

func TestJSONModeForcesFlowAndQuotes(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	e.SetConfig(EmitterConfig{Mode: JSONMode})
	emitMapping(t, e, [][2]*yamlh.Event{
		{scalar("a", true), scalar("1", true)},
	})
	require.Equal(t, `{"a": "1"}`+"\n", buf.String())
}

func TestJSONTaggedPlainModeKeepsNumbersBare(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	e.SetConfig(EmitterConfig{Mode: JSONTaggedPlainMode})
	emitMapping(t, e, [][2]*yamlh.Event{
		{taggedScalar("a", "tag:yaml.org,2002:str"), taggedScalar("1", "tag:yaml.org,2002:int")},
	})
	require.Equal(t, `{"a": 1}`+"\n", buf.String())
}

func TestStripLabelsDropsAnchor(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	e.SetConfig(EmitterConfig{StripLabels: true})
	require.NoError(t, e.Emit(&yamlh.Event{Type: yamlh.STREAM_START_EVENT, Encoding: yamlh.UTF8_ENCODING}, false))
	require.NoError(t, e.Emit(&yamlh.Event{Type: yamlh.DOCUMENT_START_EVENT, Implicit: true}, false))
	require.NoError(t, e.Emit(&yamlh.Event{
		Type: yamlh.SCALAR_EVENT, Anchor: []byte("x"), Value: []byte("v"),
		Implicit: true, Quoted_implicit: true, Style: yamlh.YamlStyle(yamlh.PLAIN_SCALAR_STYLE),
	}, false))
	require.NoError(t, e.Emit(&yamlh.Event{Type: yamlh.DOCUMENT_END_EVENT, Implicit: true}, false))
	require.NoError(t, e.Emit(&yamlh.Event{Type: yamlh.STREAM_END_EVENT}, true))
	require.Equal(t, "v\n", buf.String())
}

func TestWriteTypeSinkReceivesTaggedScalars(t *testing.T) {
	var buf bytes.Buffer
	var tags []WriteType
	e := New(&buf)
	e.SetOutput(func(wt WriteType, p []byte) (int, error) {
		tags = append(tags, wt)
		return buf.Write(p)
	})
	emitMapping(t, e, [][2]*yamlh.Event{
		{scalar("a", true), scalar("1", true)},
	})
	require.Equal(t, "a: 1\n", buf.String())
	require.Contains(t, tags, WritePlainScalarKey)
	require.Contains(t, tags, WritePlainScalar)
}

func TestWriteAllSkipsCSIColumnAccounting(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	require.NoError(t, e.writeAll([]byte("\x1b[31mred\x1b[0m")))
	require.Equal(t, 3, e.column)
	require.Equal(t, "\x1b[31mred\x1b[0m", buf.String())
}

func TestOnelineModeNeverBreaksLines(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	e.SetConfig(EmitterConfig{Mode: FlowOnelineMode, Width: 1})
	emit := func(ev *yamlh.Event, final bool) {
		t.Helper()
		require.NoError(t, e.Emit(ev, final))
	}
	emit(&yamlh.Event{Type: yamlh.STREAM_START_EVENT, Encoding: yamlh.UTF8_ENCODING}, false)
	emit(&yamlh.Event{Type: yamlh.DOCUMENT_START_EVENT, Implicit: true}, false)
	emit(&yamlh.Event{Type: yamlh.SEQUENCE_START_EVENT, Implicit: true, Style: yamlh.YamlStyle(yamlh.FLOW_SEQUENCE_STYLE)}, false)
	emit(scalar("one", true), false)
	emit(scalar("two", true), false)
	emit(&yamlh.Event{Type: yamlh.SEQUENCE_END_EVENT}, false)
	emit(&yamlh.Event{Type: yamlh.DOCUMENT_END_EVENT, Implicit: true}, false)
	emit(&yamlh.Event{Type: yamlh.STREAM_END_EVENT}, true)
	require.NotContains(t, buf.String(), "\n\n")
	require.Equal(t, "[one, two]", buf.String())
}
