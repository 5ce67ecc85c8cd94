package doc

import "strings"

// Line is one line of a document with a stable opaque identity.
type Line struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// View is the externally visible projection of a document: ordered lines
// plus a version counter incremented by every accepted mutation.
type View struct {
	Lines   []Line `json:"lines"`
	Version uint64 `json:"version"`
}

// EditDelta describes a point mutation. Line and Col address the pre-edit
// view; Col is clamped to the line length. Insert and Delete may be combined
// in one delta, in which case the delete applies first.
type EditDelta struct {
	Line   int    `json:"line"`
	Col    int    `json:"col"`
	Insert string `json:"insert,omitempty"`
	Delete int    `json:"delete,omitempty"`
}

// Clone returns a deep copy whose line slice shares nothing with v.
func (v View) Clone() View {
	lines := make([]Line, len(v.Lines))
	copy(lines, v.Lines)
	return View{Lines: lines, Version: v.Version}
}

// Contents returns the line contents in order.
func (v View) Contents() []string {
	out := make([]string, len(v.Lines))
	for i, l := range v.Lines {
		out[i] = l.Content
	}
	return out
}

// Text returns the full document body, lines joined by "\n".
func (v View) Text() string {
	return strings.Join(v.Contents(), "\n")
}
