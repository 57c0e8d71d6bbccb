// Package rope provides an immutable summary tree for efficient text storage and editing.
//
// A rope is a tree whose leaves hold text fragments and whose internal nodes
// cache a combinable summary (byte count, newline count) of everything below
// them. Offsets are routed through the cached per-child summaries, so lookup,
// slicing, and editing touch only one root-to-leaf path per boundary.
//
// Key features:
//   - O(log n) split, insert, delete, and access under the default Policy
//   - Immutable operations return new ropes; originals are never modified
//   - Untouched subtrees are shared between versions by pointer
//   - Safe for concurrent use without locking
//
// Offsets are byte offsets into the UTF-8 text. Every out-of-bounds offset is
// reported as an error that matches ErrOutOfRange.
//
// Basic usage:
//
//	r := rope.FromString("Hello World!")
//	r, _ = r.Insert(5, ", beautiful") // "Hello, beautiful World!"
//	r, _ = r.Delete(5, 16)            // "Hello World!"
//	left, right, _ := r.Split(6)      // "Hello ", "World!"
package rope
