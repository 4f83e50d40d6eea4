// Package snapshot converts documents to and from their JSON storage form.
//
// The wire shape is
//
//	{"nodes":[
//	  {"kind":"block","type":"paragraph","nodes":[
//	    {"kind":"text","text":"hello","marks":["bold"]}
//	  ]}
//	]}
//
// Snapshots are written in the terse form, without node keys, unless
// WithKeys is given. Reading accepts both forms and synthesizes keys where
// they are missing. Input is checked with gjson before it is decoded so that
// unparsable data and data with the wrong outer shape fail fast with
// ErrMalformed and ErrShape.
package snapshot
