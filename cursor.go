package rope

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/rope/sumtree"
)

// Cursor walks a rope forward by byte offset, carving off slices and
// summaries as it goes. It reads the rope it was created from;
// mutating that rope afterwards leaves the cursor on the old
// snapshot.
type Cursor struct {
	rope   Rope
	chunks *sumtree.Cursor[Chunk, TextSummary]
	offset int
}

// Cursor returns a cursor positioned at offset.
func (r Rope) Cursor(offset int) *Cursor {
	c := &Cursor{rope: r, offset: offset}
	c.chunks = sumtree.NewCursor(&c.rope.chunks)
	c.chunks.Seek(offsetTarget(offset), sumtree.Right)
	return c
}

// Offset returns the cursor's position.
func (c *Cursor) Offset() int {
	return c.offset
}

// SeekForward moves the cursor to offset. It panics if offset lies
// before the cursor.
func (c *Cursor) SeekForward(offset int) {
	if offset < c.offset {
		panic("rope: cursor cannot seek backward")
	}
	c.chunks.SeekForward(offsetTarget(offset), sumtree.Right)
	c.offset = offset
}

// Slice advances the cursor to end and returns the text traversed as
// a new rope. Only the chunks straddling the range's edges are
// copied; whole interior subtrees are shared.
func (c *Cursor) Slice(end int) Rope {
	if end < c.offset {
		panic("rope: cannot slice backward")
	}
	var res Rope
	if chunk, ok := c.chunks.Item(); ok {
		chunkStart := c.chunks.Start().Bytes
		startIx := boundaryIx(chunk, chunkStart, c.offset)
		endIx := boundaryIx(chunk, chunkStart, min(end, c.chunks.End().Bytes))
		res.Push(chunk.text[startIx:endIx])
	}
	if end > c.chunks.End().Bytes {
		c.chunks.Next()
		mid := c.chunks.Slice(offsetTarget(end), sumtree.Left)
		res.Append(Rope{chunks: mid})
		if chunk, ok := c.chunks.Item(); ok {
			res.Push(chunk.text[:boundaryIx(chunk, c.chunks.Start().Bytes, end)])
		}
	}
	c.offset = end
	return res
}

// boundaryIx converts a rope offset to an index within chunk,
// panicking when it falls inside a multi-byte character.
func boundaryIx(chunk Chunk, chunkStart, offset int) int {
	ix := offset - chunkStart
	if ix < len(chunk.text) && !utf8.RuneStart(chunk.text[ix]) {
		panic(fmt.Sprintf("rope: offset %d is not a character boundary", offset))
	}
	return ix
}

// Summary advances the cursor to end and returns the statistics of
// the text traversed. Interior subtrees contribute their cached
// summaries, so only the edge chunks are scanned.
func (c *Cursor) Summary(end int) TextSummary {
	if end < c.offset {
		panic("rope: cannot summarize backward")
	}
	var total TextSummary
	if chunk, ok := c.chunks.Item(); ok {
		chunkStart := c.chunks.Start().Bytes
		startIx := boundaryIx(chunk, chunkStart, c.offset)
		endIx := boundaryIx(chunk, chunkStart, min(end, c.chunks.End().Bytes))
		total = ComputeSummary(chunk.text[startIx:endIx])
	}
	if end > c.chunks.End().Bytes {
		c.chunks.Next()
		total = total.Add(c.chunks.Summary(offsetTarget(end), sumtree.Left))
		if chunk, ok := c.chunks.Item(); ok {
			total = total.Add(ComputeSummary(chunk.text[:boundaryIx(chunk, c.chunks.Start().Bytes, end)]))
		}
	}
	c.offset = end
	return total
}

// Suffix consumes the rest of the rope and returns it.
func (c *Cursor) Suffix() Rope {
	return c.Slice(c.rope.Len())
}
