// Package rope implements a text storage engine for editors: UTF-8
// text held in a balanced tree of bounded chunks, with every node
// carrying aggregate statistics of the text beneath it.
//
// The statistics (TextSummary) track byte length, line breaks,
// UTF-16 extents and longest-row data, so positions in any of the
// three coordinate systems (byte offset, Point with a row and UTF-8
// byte column, PointUtf16 with a row and UTF-16 unit column) convert
// to one another in O(log n) without scanning the text.
//
// Edits are O(log n): Replace splices prefix, new text and suffix
// together, reusing whole subtrees of the original. Copying a Rope
// value is an O(1) snapshot; the copy shares structure with the
// original and both can diverge independently.
//
// Positional arguments must lie on character boundaries; passing a
// position inside a multi-byte character is a programmer error and
// panics. ClipOffset, ClipPoint and ClipPointUtf16 normalize
// untrusted positions before use.
//
// Iterators cover chunks, bytes (including io.Reader streaming),
// characters and extended grapheme clusters, forward or reversed,
// over arbitrary byte ranges.
package rope
