package rope

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dshills/rope/sumtree"
)

// Bias selects which side of an invalid position clipping and seeking
// resolve to.
type Bias = sumtree.Bias

const (
	// Left rounds toward the start of the text.
	Left = sumtree.Left

	// Right rounds toward the end of the text.
	Right = sumtree.Right
)

// invariantChecks enables structural verification after every
// mutation. Tests turn it on in TestMain; it stays off otherwise.
var invariantChecks = false

// Rope stores UTF-8 text as a balanced tree of bounded chunks. The
// zero value is an empty rope, ready for use.
//
// Copying a Rope is an O(1) snapshot: tree nodes are immutable and
// shared, and every mutation rebuilds only the touched path. The copy
// and the original can then diverge independently.
//
// All positional methods take byte offsets, Points (row plus UTF-8
// byte column), or PointUtf16s (row plus UTF-16 unit column).
// Coordinates that do not fall on character boundaries are programmer
// errors and panic; use the Clip methods to normalize untrusted
// positions first.
type Rope struct {
	chunks sumtree.Tree[Chunk, TextSummary]
}

// New returns an empty rope.
func New() Rope {
	return Rope{}
}

// FromString returns a rope holding text.
func FromString(text string) Rope {
	var r Rope
	r.Push(text)
	return r
}

// FromReader reads all of src into a rope.
func FromReader(src io.Reader) (Rope, error) {
	var b Builder
	if _, err := b.ReadFrom(src); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// Len returns the rope's length in bytes.
func (r Rope) Len() int {
	return r.chunks.Summary().Bytes
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.chunks.IsEmpty()
}

// Summary returns the statistics of the whole rope. This is cached at
// the root and costs O(1).
func (r Rope) Summary() TextSummary {
	return r.chunks.Summary()
}

// MaxPoint returns the position just past the last character.
func (r Rope) MaxPoint() Point {
	return r.chunks.Summary().Lines
}

// MaxPointUtf16 returns the position just past the last character in
// UTF-16 coordinates.
func (r Rope) MaxPointUtf16() PointUtf16 {
	return r.chunks.Summary().LinesUtf16
}

// LineCount returns the number of lines. An empty rope has one line.
func (r Rope) LineCount() uint32 {
	return r.MaxPoint().Row + 1
}

// LineLen returns the length of row in bytes, excluding the newline.
func (r Rope) LineLen(row uint32) uint32 {
	return r.ClipPoint(Point{Row: row, Column: ^uint32(0)}, Left).Column
}

// String materializes the rope as a contiguous string.
func (r Rope) String() string {
	var sb strings.Builder
	sb.Grow(r.Len())
	r.chunks.Each(func(c Chunk) bool {
		sb.WriteString(c.text)
		return true
	})
	return sb.String()
}

// WriteTo streams the rope's text to w without materializing it.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	var err error
	r.chunks.Each(func(c Chunk) bool {
		var n int
		n, err = io.WriteString(w, c.text)
		total += int64(n)
		return err == nil
	})
	return total, err
}

// Equal reports whether two ropes hold the same text, regardless of
// how it is chunked.
func (r Rope) Equal(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	ca, cb := r.Chunks(), other.Chunks()
	var a, b string
	for {
		if a == "" {
			if !ca.Next() {
				break
			}
			a = ca.Chunk()
		}
		if b == "" {
			if !cb.Next() {
				break
			}
			b = cb.Chunk()
		}
		n := min(len(a), len(b))
		if a[:n] != b[:n] {
			return false
		}
		a, b = a[n:], b[n:]
	}
	return true
}

// Push appends text to the rope, rebalancing the seam so chunk size
// bounds hold.
func (r *Rope) Push(text string) {
	if text == "" {
		return
	}
	chunks := splitIntoChunks(text)
	if last, ok := r.chunks.Last(); ok {
		first := chunks[0]
		switch {
		case len(last.text)+len(first.text) <= maxChunkLen:
			merged := newChunk(last.text + first.text)
			r.chunks.UpdateLast(func(Chunk) Chunk { return merged })
			chunks = chunks[1:]
		case len(last.text) < ChunkBase || len(first.text) < ChunkBase:
			combined := last.text + first.text
			ix := findSplitIx(combined)
			left := newChunk(combined[:ix])
			r.chunks.UpdateLast(func(Chunk) Chunk { return left })
			chunks[0] = newChunk(combined[ix:])
		}
	}
	r.chunks.Extend(chunks)
	r.checkInvariants()
}

// PushFront prepends text to the rope.
func (r *Rope) PushFront(text string) {
	if text == "" {
		return
	}
	prefix := FromString(text)
	prefix.Append(*r)
	*r = prefix
}

// Append concatenates other onto the rope. Interior subtrees of other
// are reused whole, so appending a large rope is O(log n) plus the
// seam rebalance.
func (r *Rope) Append(other Rope) {
	cur := sumtree.NewCursor(&other.chunks)
	for {
		chunk, ok := cur.Item()
		if !ok {
			break
		}
		last, hasLast := r.chunks.Last()
		if !hasLast || (len(last.text) >= ChunkBase && len(chunk.text) >= ChunkBase) {
			break
		}
		r.Push(chunk.text)
		cur.Next()
	}
	suffix := cur.Suffix()
	r.chunks.Append(&suffix)
	r.checkInvariants()
}

// Replace substitutes the byte range [start, end) with text. Offsets
// must lie on character boundaries.
func (r *Rope) Replace(start, end int, text string) {
	var res Rope
	cur := r.Cursor(0)
	res.Append(cur.Slice(start))
	cur.SeekForward(end)
	res.Push(text)
	res.Append(cur.Suffix())
	*r = res
}

// Slice returns the byte range [start, end) as a new rope sharing
// interior subtrees with r.
func (r Rope) Slice(start, end int) Rope {
	return r.Cursor(start).Slice(end)
}

// OffsetToPoint converts a byte offset to a Point. Offsets past the
// end clamp to MaxPoint; offsets inside a multi-byte character panic.
func (r Rope) OffsetToPoint(offset int) Point {
	if offset >= r.Len() {
		return r.MaxPoint()
	}
	cur := sumtree.NewCursor(&r.chunks)
	cur.Seek(offsetTarget(offset), sumtree.Left)
	start := cur.Start()
	chunk, ok := cur.Item()
	if !ok {
		return start.Lines
	}
	return start.Lines.Add(chunk.offsetToPoint(offset - start.Bytes))
}

// OffsetToPointUtf16 converts a byte offset to a PointUtf16. Offsets
// past the end clamp; offsets inside a multi-byte character panic.
func (r Rope) OffsetToPointUtf16(offset int) PointUtf16 {
	if offset >= r.Len() {
		return r.MaxPointUtf16()
	}
	cur := sumtree.NewCursor(&r.chunks)
	cur.Seek(offsetTarget(offset), sumtree.Left)
	start := cur.Start()
	chunk, ok := cur.Item()
	if !ok {
		return start.LinesUtf16
	}
	return start.LinesUtf16.Add(chunk.offsetToPointUtf16(offset - start.Bytes))
}

// PointToOffset converts a Point to a byte offset. Points at or past
// MaxPoint clamp to Len; points inside a character or beyond the end
// of their line panic.
func (r Rope) PointToOffset(point Point) int {
	if point.Cmp(r.MaxPoint()) >= 0 {
		return r.Len()
	}
	cur := sumtree.NewCursor(&r.chunks)
	cur.Seek(pointTarget(point), sumtree.Left)
	start := cur.Start()
	chunk, ok := cur.Item()
	if !ok {
		return start.Bytes
	}
	return start.Bytes + chunk.pointToOffset(point.Sub(start.Lines))
}

// PointUtf16ToOffset converts a PointUtf16 to a byte offset. Points
// at or past the end clamp; points inside a surrogate pair or beyond
// the end of their line panic.
func (r Rope) PointUtf16ToOffset(point PointUtf16) int {
	if point.Cmp(r.MaxPointUtf16()) >= 0 {
		return r.Len()
	}
	cur := sumtree.NewCursor(&r.chunks)
	cur.Seek(pointUtf16Target(point), sumtree.Left)
	start := cur.Start()
	chunk, ok := cur.Item()
	if !ok {
		return start.Bytes
	}
	return start.Bytes + chunk.pointUtf16ToOffset(point.Sub(start.LinesUtf16))
}

// PointToPointUtf16 converts a Point to the equivalent PointUtf16.
func (r Rope) PointToPointUtf16(point Point) PointUtf16 {
	if point.Cmp(r.MaxPoint()) >= 0 {
		return r.MaxPointUtf16()
	}
	cur := sumtree.NewCursor(&r.chunks)
	cur.Seek(pointTarget(point), sumtree.Left)
	start := cur.Start()
	chunk, ok := cur.Item()
	if !ok {
		return start.LinesUtf16
	}
	return start.LinesUtf16.Add(chunk.pointToPointUtf16(point.Sub(start.Lines)))
}

// PointUtf16ToPoint converts a PointUtf16 to the equivalent Point.
func (r Rope) PointUtf16ToPoint(point PointUtf16) Point {
	if point.Cmp(r.MaxPointUtf16()) >= 0 {
		return r.MaxPoint()
	}
	cur := sumtree.NewCursor(&r.chunks)
	cur.Seek(pointUtf16Target(point), sumtree.Left)
	start := cur.Start()
	chunk, ok := cur.Item()
	if !ok {
		return start.Lines
	}
	return start.Lines.Add(chunk.pointUtf16ToPoint(point.Sub(start.LinesUtf16)))
}

// ClipOffset returns the closest character boundary to offset,
// rounding per bias. The result is always within [0, Len].
func (r Rope) ClipOffset(offset int, bias Bias) int {
	if offset <= 0 {
		return 0
	}
	if offset >= r.Len() {
		return r.Len()
	}
	cur := sumtree.NewCursor(&r.chunks)
	cur.Seek(offsetTarget(offset), sumtree.Left)
	chunk, ok := cur.Item()
	if !ok {
		return r.Len()
	}
	start := cur.Start().Bytes
	ix := offset - start
	for ix < len(chunk.text) && !utf8.RuneStart(chunk.text[ix]) {
		if bias == Left {
			ix--
		} else {
			ix++
		}
	}
	return start + ix
}

// ClipPoint returns the closest valid Point to point, rounding per
// bias. Rows past the end clamp to MaxPoint and columns clamp to the
// end of their line.
func (r Rope) ClipPoint(point Point, bias Bias) Point {
	cur := sumtree.NewCursor(&r.chunks)
	cur.Seek(pointTarget(point), sumtree.Right)
	chunk, ok := cur.Item()
	if !ok {
		return r.MaxPoint()
	}
	start := cur.Start().Lines
	return start.Add(chunk.clipPoint(point.Sub(start), bias))
}

// ClipPointUtf16 returns the closest valid PointUtf16 to point,
// rounding per bias. A position between the two units of a surrogate
// pair resolves to the pair's start with Left bias and its end with
// Right.
func (r Rope) ClipPointUtf16(point PointUtf16, bias Bias) PointUtf16 {
	cur := sumtree.NewCursor(&r.chunks)
	cur.Seek(pointUtf16Target(point), sumtree.Right)
	chunk, ok := cur.Item()
	if !ok {
		return r.MaxPointUtf16()
	}
	start := cur.Start().LinesUtf16
	return start.Add(chunk.clipPointUtf16(point.Sub(start), bias))
}

// checkInvariants verifies chunk bounds and summary consistency. It
// is a no-op unless invariantChecks is set.
func (r *Rope) checkInvariants() {
	if !invariantChecks {
		return
	}
	if got, want := r.chunks.Summary(), ComputeSummary(r.String()); got != want {
		panic(fmt.Sprintf("rope: summary mismatch: %+v != %+v", got, want))
	}
	prev := -1
	r.chunks.Each(func(c Chunk) bool {
		if len(c.text) == 0 {
			panic("rope: empty chunk")
		}
		if len(c.text) > maxChunkLen {
			panic(fmt.Sprintf("rope: chunk of %d bytes exceeds the maximum", len(c.text)))
		}
		if !utf8.ValidString(c.text) {
			panic("rope: chunk is not valid UTF-8")
		}
		if prev >= 0 && prev < ChunkBase && len(c.text) < ChunkBase {
			panic("rope: two adjacent chunks below ChunkBase")
		}
		prev = len(c.text)
		return true
	})
}

// offsetTarget seeks the byte-offset dimension of TextSummary.
type offsetTarget int

func (t offsetTarget) Cmp(agg TextSummary) int {
	switch {
	case int(t) < agg.Bytes:
		return -1
	case int(t) > agg.Bytes:
		return 1
	default:
		return 0
	}
}

// pointTarget seeks the row/column dimension of TextSummary.
type pointTarget Point

func (t pointTarget) Cmp(agg TextSummary) int {
	return Point(t).Cmp(agg.Lines)
}

// pointUtf16Target seeks the UTF-16 row/column dimension.
type pointUtf16Target PointUtf16

func (t pointUtf16Target) Cmp(agg TextSummary) int {
	return PointUtf16(t).Cmp(agg.LinesUtf16)
}
