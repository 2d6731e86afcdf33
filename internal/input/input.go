// Package input wraps the raw byte source the atom iterator pulls scalar
// text from. Only the in-memory variant is in scope; file and streaming
// sources are a scanner-level concern outside this package.
package input

// Input is a fixed, in-memory byte source.
type Input struct {
	data []byte
}

// New wraps b as an Input. The caller retains ownership of b; Input never
// mutates it.
func New(b []byte) *Input {
	return &Input{data: b}
}

// Data returns the full underlying byte slice.
func (in *Input) Data() []byte {
	return in.data
}

// Size returns the number of bytes in the input.
func (in *Input) Size() int {
	return len(in.data)
}

// Slice returns the byte range [start:end), matching the semantics atom
// byte ranges are recorded in.
func (in *Input) Slice(start, end int) []byte {
	return in.data[start:end]
}
