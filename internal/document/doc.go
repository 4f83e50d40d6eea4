// Package document provides the rich-text document tree edited by keynote.
//
// A Document is an ordered list of block nodes. Blocks carry a type
// ("paragraph", "section", "header", "group") and either child blocks or
// text leaves. Text leaves carry a string and a set of inline marks.
//
// # Addressing
//
// Positions are expressed against the leaf blocks of the tree (blocks with no
// block children) in document order. A Point is (leaf block index, rune
// offset); a Range is a half-open [Start, End) span of points.
//
// # Invariants
//
//   - A document always has at least one block.
//   - After Normalize, every leaf block holds at least one text leaf, adjacent
//     text leaves never share an identical mark set, and empty leaves only
//     exist as the single child of an otherwise empty block.
//   - Structural equality (Equal) ignores node keys.
package document
