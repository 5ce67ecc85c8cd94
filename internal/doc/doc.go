// Package doc provides the document value types shared across kern.
//
// This package contains type definitions only. All other internal packages
// import doc; doc imports nothing internal. This keeps it the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Line identity is independent of position: a Line keeps its ID across
//     edits that move it, and IDs are never reused after a structural edit
//   - View versions only ever increase; a View is a value, safe to hand out
//   - All JSON tags use snake_case
package doc
