// Package renderer draws documents.
//
// A Schema maps block types and marks to styles. The Renderer lays a
// document out for a backend.Backend with an optional hotkey sidebar and a
// status line; Print renders the same schema as styled text with lipgloss for
// non-interactive output.
package renderer
