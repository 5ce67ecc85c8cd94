package engine

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/kern/internal/doc"
)

// DefaultBody seeds a freshly created document.
const DefaultBody = "# Welcome to Kern\n\nStart typing..."

// Health is the string returned by health probes against a live engine.
const Health = "Kern Engine: Active (Go)"

// Engine holds the authoritative state of one document.
//
// A document always has at least one line; the empty document is a single
// empty line. The version counter increments once per accepted mutation
// (ApplyEdit, SetText, LoadSnapshot) and never decreases.
//
// NOT thread-safe: exactly one goroutine may call Engine methods. The bridge
// package enforces this by hosting the Engine inside its context goroutine.
type Engine struct {
	lines   []line
	version uint64
	nextID  uint64
}

// line pairs a stable identity with current content. Content never contains
// a newline; line boundaries are structural.
type line struct {
	id   uint64
	text string
}

// New creates an Engine seeded with the given body. An empty body yields a
// document with one empty line. Seeding does not count as a mutation; the
// version starts at zero.
func New(body string) *Engine {
	e := &Engine{nextID: 1}
	e.lines = e.freshLines(norm.NFC.String(body))
	return e
}

// Version returns the current mutation counter.
func (e *Engine) Version() uint64 {
	return e.version
}

// Text returns the full document body, lines joined by "\n".
func (e *Engine) Text() string {
	parts := make([]string, len(e.lines))
	for i, l := range e.lines {
		parts[i] = l.text
	}
	return strings.Join(parts, "\n")
}

// View materializes the current document projection. The returned value
// shares no state with the engine.
func (e *Engine) View() doc.View {
	out := make([]doc.Line, len(e.lines))
	for i, l := range e.lines {
		out[i] = doc.Line{
			ID:      strconv.FormatUint(l.id, 10),
			Content: l.text,
		}
	}
	return doc.View{Lines: out, Version: e.version}
}

// SetText replaces the entire document body. Every line receives a fresh
// identity; whole-document replacement is a new structure, not an edit of
// the old one.
func (e *Engine) SetText(content string) {
	e.lines = e.freshLines(norm.NFC.String(content))
	e.version++
}

// ApplyEdit applies one point mutation addressed against the pre-edit view.
//
// The delete phase runs first, walking backward from the addressed position
// and merging lines across boundaries; the count clamps at the start of the
// document. The insert phase then splits on "\n", keeping the addressed
// line's identity on the first segment and allocating fresh identities for
// the rest.
//
// Returns the contiguous range of post-edit line indices whose content
// changed, for callers deciding what to re-render.
func (e *Engine) ApplyEdit(d doc.EditDelta) ([]int, error) {
	if d.Line < 0 || d.Line >= len(e.lines) {
		return nil, NewRangeError("line %d out of range (document has %d lines)", d.Line, len(e.lines))
	}
	if d.Col < 0 {
		return nil, NewRangeError("column %d must not be negative", d.Col)
	}
	if d.Delete < 0 {
		return nil, NewRangeError("delete count %d must not be negative", d.Delete)
	}

	cur := d.Line
	col := d.Col
	if n := len([]rune(e.lines[cur].text)); col > n {
		col = n
	}

	if d.Delete > 0 {
		cur, col = e.deleteBackward(cur, col, d.Delete)
	}

	inserted := 0
	if d.Insert != "" {
		inserted = e.insertAt(cur, col, norm.NFC.String(d.Insert))
	}

	e.version++

	affected := make([]int, 0, inserted+1)
	for i := cur; i <= cur+inserted; i++ {
		affected = append(affected, i)
	}
	return affected, nil
}

// Snapshot serializes the full engine state to an opaque blob.
func (e *Engine) Snapshot() ([]byte, error) {
	return e.encodeSnapshot()
}

// ExportUpdates serializes the incremental state since the last export.
//
// TODO: track edits since the last export and emit only those once the
// codec grows a delta form; until then this exports full state, which keeps
// delta blobs self-contained at the cost of size.
func (e *Engine) ExportUpdates() ([]byte, error) {
	return e.encodeSnapshot()
}

// LoadSnapshot replaces engine state from a previously exported blob.
// Restoring counts as a mutation: the version becomes the stored version
// plus one, so views observed after a reload always supersede views
// observed before the corresponding export.
func (e *Engine) LoadSnapshot(data []byte) error {
	snap, err := decodeSnapshot(data)
	if err != nil {
		return err
	}

	lines := make([]line, len(snap.Lines))
	for i, sl := range snap.Lines {
		lines[i] = line{id: sl.ID, text: sl.Text}
	}
	e.lines = lines
	e.nextID = snap.NextID
	e.version = snap.Version + 1
	return nil
}

// deleteBackward removes count runes walking backward from (cur, col),
// merging lines across boundaries. A merge keeps the upper line's identity.
// Returns the position where deletion stopped.
func (e *Engine) deleteBackward(cur, col, count int) (int, int) {
	remaining := count
	for remaining > 0 {
		runes := []rune(e.lines[cur].text)
		switch {
		case col >= remaining:
			e.lines[cur].text = string(runes[:col-remaining]) + string(runes[col:])
			col -= remaining
			remaining = 0

		case cur == 0:
			// Clamp at the start of the document.
			e.lines[0].text = string(runes[col:])
			col = 0
			remaining = 0

		default:
			// Consume to line start plus the separating boundary, then merge
			// into the previous line.
			remaining -= col + 1
			tail := string(runes[col:])
			col = len([]rune(e.lines[cur-1].text))
			e.lines[cur-1].text += tail
			e.lines = append(e.lines[:cur], e.lines[cur+1:]...)
			cur--
		}
	}
	return cur, col
}

// insertAt splices text into line cur at rune column col. Returns the number
// of new lines created (the count of "\n" in the text).
func (e *Engine) insertAt(cur, col int, text string) int {
	runes := []rune(e.lines[cur].text)
	if col > len(runes) {
		col = len(runes)
	}
	head := string(runes[:col])
	tail := string(runes[col:])

	segs := strings.Split(text, "\n")
	if len(segs) == 1 {
		e.lines[cur].text = head + segs[0] + tail
		return 0
	}

	e.lines[cur].text = head + segs[0]
	added := make([]line, len(segs)-1)
	for i := 1; i < len(segs); i++ {
		t := segs[i]
		if i == len(segs)-1 {
			t += tail
		}
		added[i-1] = line{id: e.allocID(), text: t}
	}

	rest := append([]line{}, e.lines[cur+1:]...)
	e.lines = append(append(e.lines[:cur+1], added...), rest...)
	return len(added)
}

// freshLines splits content on "\n" into lines with newly allocated
// identities. strings.Split yields one empty segment for empty content, so
// the at-least-one-line invariant holds by construction.
func (e *Engine) freshLines(content string) []line {
	segs := strings.Split(content, "\n")
	lines := make([]line, len(segs))
	for i, s := range segs {
		lines[i] = line{id: e.allocID(), text: s}
	}
	return lines
}

func (e *Engine) allocID() uint64 {
	id := e.nextID
	e.nextID++
	return id
}
