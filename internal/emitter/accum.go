package emitter

import "fmt"

// accumInlineSize mirrors fy-emit.c's FY_EMIT_ACCUM_SIZE inline buffer: most
// scalars and indicators fit without the backing slice ever growing past it.
const accumInlineSize = 64

// accum stages one logical write - a scalar's full rendered text, built up
// byte by byte by the style-specific writer functions - so it can be
// measured and handed to the output sink in a single WriteType-tagged call
// instead of many single-byte writes. Ported from fy-emit.c's
// fy_emit_accum_start/_utf8_put/_output/_finish, with the inline array
// promoted to a heap slice on growth exactly as fy_emit_accum_grow does.
type accum struct {
	inline [accumInlineSize]byte
	buf    []byte
	active bool
}

// start begins a new accumulation, reusing the inline array.
func (a *accum) start() {
	a.buf = a.inline[:0]
	a.active = true
}

func (a *accum) putByte(b byte) {
	a.buf = append(a.buf, b)
}

func (a *accum) putBytes(b []byte) {
	a.buf = append(a.buf, b...)
}

// finish stops accumulation and hands back the staged bytes.
func (a *accum) finish() []byte {
	a.active = false
	out := a.buf
	a.buf = nil
	return out
}

// flushAccum ends the current accumulation and delivers it to the output
// sink in one WriteType-tagged call, falling back to a plain write on the
// underlying io.Writer when no sink is installed.
func (e *Emitter) flushAccum(wt WriteType) error {
	if e.acc == nil {
		return nil
	}
	b := e.acc.finish()
	e.acc = nil
	if len(b) == 0 {
		return nil
	}
	if e.sink != nil {
		if _, err := e.sink(wt, b); err != nil {
			return fmt.Errorf("yaml: write error: %v", err)
		}
		return nil
	}
	if _, err := e.writer.Write(b); err != nil {
		return fmt.Errorf("yaml: write error: %v", err)
	}
	return nil
}
