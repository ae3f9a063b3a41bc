// Package sumtree provides a generic B+ tree whose nodes carry an
// associative summary of the items beneath them.
//
// Items are stored in order at the leaves. Every node aggregates the
// summaries of its children, so any position expressible as a
// comparison against an accumulated summary can be found in O(log n):
// a byte offset, a line/column coordinate, or any other dimension the
// summary type tracks.
//
// Trees share structure: nodes are immutable once linked into a tree,
// and every mutating operation rebuilds only the touched root-to-leaf
// path. Copying a Tree value is therefore an O(1) snapshot.
//
// The same primitive backs several text subsystems; the rope package
// instantiates it with text chunks and their statistics.
package sumtree
