package rope

import (
	"io"
	"unicode/utf8"

	"github.com/dshills/rope/sumtree"
)

// Chunks iterates over a byte range of a rope chunk by chunk. The
// pieces at the range's edges are trimmed to the range; everything
// between arrives as whole chunks.
//
// Call Next to advance, then Chunk and Offset to inspect the current
// piece. The iterator reads the rope it was created from.
type Chunks struct {
	rope     Rope
	cursor   *sumtree.Cursor[Chunk, TextSummary]
	start    int
	end      int
	pos      int
	chunk    string
	offset   int
	reversed bool
	started  bool
}

// Chunks iterates over the whole rope.
func (r Rope) Chunks() *Chunks {
	return r.ChunksInRange(0, r.Len())
}

// ChunksInRange iterates over the byte range [start, end). The bounds
// are clamped to the rope.
func (r Rope) ChunksInRange(start, end int) *Chunks {
	start = max(0, min(start, r.Len()))
	end = max(start, min(end, r.Len()))
	c := &Chunks{rope: r, start: start, end: end, pos: start}
	c.cursor = sumtree.NewCursor(&c.rope.chunks)
	return c
}

// ReversedChunksInRange iterates over [start, end) back to front.
// Each piece's bytes stay in document order; only the piece order is
// reversed.
func (r Rope) ReversedChunksInRange(start, end int) *Chunks {
	c := r.ChunksInRange(start, end)
	c.reversed = true
	c.pos = c.end
	return c
}

// Next advances to the next piece, returning false when the range is
// exhausted.
func (c *Chunks) Next() bool {
	if c.reversed {
		return c.prev()
	}
	if c.pos >= c.end {
		c.chunk = ""
		return false
	}
	if !c.started {
		c.cursor.Seek(offsetTarget(c.pos), sumtree.Right)
		c.started = true
	} else if c.pos >= c.cursor.End().Bytes {
		c.cursor.Next()
	}
	item, ok := c.cursor.Item()
	if !ok {
		c.chunk = ""
		return false
	}
	chunkStart := c.cursor.Start().Bytes
	hi := min(c.end, chunkStart+len(item.text))
	c.chunk = item.text[c.pos-chunkStart : hi-chunkStart]
	c.offset = c.pos
	c.pos = hi
	return true
}

// prev steps the reversed iterator. Each step re-seeks the chunk
// ending at the current position.
func (c *Chunks) prev() bool {
	if c.pos <= c.start {
		c.chunk = ""
		return false
	}
	c.cursor.Seek(offsetTarget(c.pos), sumtree.Left)
	item, ok := c.cursor.Item()
	if !ok {
		c.chunk = ""
		return false
	}
	chunkStart := c.cursor.Start().Bytes
	lo := max(c.start, chunkStart)
	c.chunk = item.text[lo-chunkStart : c.pos-chunkStart]
	c.offset = lo
	c.pos = lo
	c.started = true
	return true
}

// Chunk returns the current piece.
func (c *Chunks) Chunk() string {
	return c.chunk
}

// Offset returns the byte offset of the current piece's start.
func (c *Chunks) Offset() int {
	return c.offset
}

// Peek returns the piece the next call to Next would yield, without
// advancing.
func (c *Chunks) Peek() (string, bool) {
	clone := *c
	clone.cursor = sumtree.NewCursor(&c.rope.chunks)
	clone.started = false
	if !clone.Next() {
		return "", false
	}
	return clone.chunk, true
}

// Seek repositions the iterator at offset, clamped to its range, so
// it can be reused without reallocating.
func (c *Chunks) Seek(offset int) {
	c.pos = max(c.start, min(offset, c.end))
	c.started = false
	c.chunk = ""
}

// Bytes iterates over a byte range of a rope as []byte pieces and
// streams it as an io.Reader. Read is only meaningful on forward
// iterators.
type Bytes struct {
	chunks  *Chunks
	pending string
}

// BytesInRange iterates over the byte range [start, end).
func (r Rope) BytesInRange(start, end int) *Bytes {
	return &Bytes{chunks: r.ChunksInRange(start, end)}
}

// ReversedBytesInRange iterates over [start, end) back to front.
func (r Rope) ReversedBytesInRange(start, end int) *Bytes {
	return &Bytes{chunks: r.ReversedChunksInRange(start, end)}
}

// Next advances to the next piece.
func (b *Bytes) Next() bool {
	return b.chunks.Next()
}

// Chunk returns the current piece. The slice is a copy and remains
// valid after the iterator advances.
func (b *Bytes) Chunk() []byte {
	return []byte(b.chunks.Chunk())
}

// Offset returns the byte offset of the current piece's start.
func (b *Bytes) Offset() int {
	return b.chunks.Offset()
}

// Read implements io.Reader over the remaining range.
func (b *Bytes) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if b.pending == "" {
			if !b.chunks.Next() {
				if n == 0 {
					return 0, io.EOF
				}
				return n, nil
			}
			b.pending = b.chunks.Chunk()
		}
		m := copy(p[n:], b.pending)
		b.pending = b.pending[m:]
		n += m
	}
	return n, nil
}

// Chars iterates over a rope's characters. Call Next to advance, then
// Rune, Size and Offset to inspect the current character.
type Chars struct {
	chunks   *Chunks
	piece    string
	mark     int
	at       int
	r        rune
	size     int
	reversed bool
}

// Chars iterates over every character from the start.
func (r Rope) Chars() *Chars {
	return r.CharsAt(0)
}

// CharsAt iterates forward from offset, which must lie on a character
// boundary.
func (r Rope) CharsAt(offset int) *Chars {
	return &Chars{chunks: r.ChunksInRange(offset, r.Len())}
}

// ReversedCharsAt iterates backward from offset, which must lie on a
// character boundary. The character ending at offset comes first.
func (r Rope) ReversedCharsAt(offset int) *Chars {
	return &Chars{chunks: r.ReversedChunksInRange(0, offset), reversed: true}
}

// Next advances to the next character.
func (c *Chars) Next() bool {
	if len(c.piece) == 0 {
		if !c.chunks.Next() {
			return false
		}
		c.piece = c.chunks.Chunk()
		if c.reversed {
			c.mark = c.chunks.Offset() + len(c.piece)
		} else {
			c.mark = c.chunks.Offset()
		}
	}
	if c.reversed {
		r, size := utf8.DecodeLastRuneInString(c.piece)
		c.piece = c.piece[:len(c.piece)-size]
		c.mark -= size
		c.at = c.mark
		c.r, c.size = r, size
		return true
	}
	r, size := utf8.DecodeRuneInString(c.piece)
	c.piece = c.piece[size:]
	c.at = c.mark
	c.mark += size
	c.r, c.size = r, size
	return true
}

// Rune returns the current character.
func (c *Chars) Rune() rune {
	return c.r
}

// Size returns the current character's UTF-8 length.
func (c *Chars) Size() int {
	return c.size
}

// Offset returns the byte offset of the current character.
func (c *Chars) Offset() int {
	return c.at
}
