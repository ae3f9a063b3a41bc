package rope

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Chunk size constants
const (
	// ChunkBase is the target minimum chunk size in bytes. Rebalancing
	// keeps any two adjacent chunks from both falling below it.
	ChunkBase = 64

	// maxChunkLen is the maximum chunk size in bytes. Chunks split
	// only at UTF-8 boundaries, so a chunk may end slightly short of
	// this limit.
	maxChunkLen = 2 * ChunkBase
)

// Chunk is a bounded fragment of UTF-8 text with its summary cached
// at construction. Chunks are immutable.
type Chunk struct {
	text    string
	summary TextSummary
}

func newChunk(text string) Chunk {
	return Chunk{text: text, summary: ComputeSummary(text)}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.text
}

// Len returns the chunk's length in bytes.
func (c Chunk) Len() int {
	return len(c.text)
}

// Summary returns the chunk's cached statistics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// offsetToPoint converts a byte offset within the chunk to a Point.
// It panics if the offset falls inside a multi-byte character.
func (c Chunk) offsetToPoint(target int) Point {
	var p Point
	for ix, r := range c.text {
		if ix >= target {
			return p
		}
		size := utf8.RuneLen(r)
		if ix+size > target {
			panic(fmt.Sprintf("rope: offset %d is inside of character %q", target, r))
		}
		if r == '\n' {
			p.Row++
			p.Column = 0
		} else {
			p.Column += uint32(size)
		}
	}
	return p
}

// offsetToPointUtf16 converts a byte offset within the chunk to a
// PointUtf16. It panics if the offset falls inside a multi-byte
// character.
func (c Chunk) offsetToPointUtf16(target int) PointUtf16 {
	var p PointUtf16
	for ix, r := range c.text {
		if ix >= target {
			return p
		}
		size := utf8.RuneLen(r)
		if ix+size > target {
			panic(fmt.Sprintf("rope: offset %d is inside of character %q", target, r))
		}
		if r == '\n' {
			p.Row++
			p.Column = 0
		} else {
			p.Column += utf16Len(r)
		}
	}
	return p
}

// pointToOffset converts a Point within the chunk to a byte offset.
// It panics if the point falls inside a multi-byte character or past
// the end of a line.
func (c Chunk) pointToOffset(target Point) int {
	offset := 0
	var p Point
	for _, r := range c.text {
		if p.Cmp(target) >= 0 {
			if p.Cmp(target) > 0 {
				panic(fmt.Sprintf("rope: point %v is inside of character %q", target, r))
			}
			return offset
		}
		if r == '\n' {
			p.Row++
			if p.Row > target.Row {
				panic(fmt.Sprintf("rope: point %v is beyond the end of a line with length %d", target, p.Column))
			}
			p.Column = 0
		} else {
			p.Column += uint32(utf8.RuneLen(r))
		}
		offset += utf8.RuneLen(r)
	}
	return offset
}

// pointUtf16ToOffset converts a PointUtf16 within the chunk to a byte
// offset. It panics if the point falls inside a surrogate pair or
// past the end of a line.
func (c Chunk) pointUtf16ToOffset(target PointUtf16) int {
	offset := 0
	var p PointUtf16
	for _, r := range c.text {
		if p.Cmp(target) >= 0 {
			if p.Cmp(target) > 0 {
				panic(fmt.Sprintf("rope: point %v is inside of character %q", target, r))
			}
			return offset
		}
		if r == '\n' {
			p.Row++
			if p.Row > target.Row {
				panic(fmt.Sprintf("rope: point %v is beyond the end of a line with length %d", target, p.Column))
			}
			p.Column = 0
		} else {
			p.Column += utf16Len(r)
		}
		offset += utf8.RuneLen(r)
	}
	return offset
}

// pointToPointUtf16 converts a Point within the chunk to the
// equivalent PointUtf16.
func (c Chunk) pointToPointUtf16(target Point) PointUtf16 {
	var p Point
	var p16 PointUtf16
	for _, r := range c.text {
		if p.Cmp(target) >= 0 {
			break
		}
		if r == '\n' {
			p.Row++
			p.Column = 0
			p16.Row++
			p16.Column = 0
		} else {
			p.Column += uint32(utf8.RuneLen(r))
			p16.Column += utf16Len(r)
		}
	}
	return p16
}

// pointUtf16ToPoint converts a PointUtf16 within the chunk to the
// equivalent Point.
func (c Chunk) pointUtf16ToPoint(target PointUtf16) Point {
	var p Point
	var p16 PointUtf16
	for _, r := range c.text {
		if p16.Cmp(target) >= 0 {
			break
		}
		if r == '\n' {
			p.Row++
			p.Column = 0
			p16.Row++
			p16.Column = 0
		} else {
			p.Column += uint32(utf8.RuneLen(r))
			p16.Column += utf16Len(r)
		}
	}
	return p
}

// clipPoint returns the closest valid Point to target within the
// chunk, rounding per bias when target lands inside a multi-byte
// character. The row must exist in the chunk.
func (c Chunk) clipPoint(target Point, bias Bias) Point {
	lines := strings.Split(c.text, "\n")
	if int(target.Row) >= len(lines) {
		panic(fmt.Sprintf("rope: row %d is out of range", target.Row))
	}
	line := lines[target.Row]
	column := min(int(target.Column), len(line))
	for column > 0 && column < len(line) && !utf8.RuneStart(line[column]) {
		if bias == Left {
			column--
		} else {
			column++
		}
	}
	return Point{Row: target.Row, Column: uint32(column)}
}

// clipPointUtf16 returns the closest valid PointUtf16 to target
// within the chunk, rounding per bias when target lands between the
// two units of a surrogate pair. The row must exist in the chunk.
func (c Chunk) clipPointUtf16(target PointUtf16, bias Bias) PointUtf16 {
	lines := strings.Split(c.text, "\n")
	if int(target.Row) >= len(lines) {
		panic(fmt.Sprintf("rope: row %d is out of range", target.Row))
	}
	line := lines[target.Row]
	var column uint32
	for _, r := range line {
		if column >= target.Column {
			break
		}
		n := utf16Len(r)
		if column+n > target.Column {
			if bias == Right {
				column += n
			}
			break
		}
		column += n
	}
	return PointUtf16{Row: target.Row, Column: column}
}

// splitIntoChunks cuts text into chunks of at most maxChunkLen bytes,
// splitting only at UTF-8 boundaries.
func splitIntoChunks(text string) []Chunk {
	if text == "" {
		return nil
	}
	var chunks []Chunk
	for len(text) > maxChunkLen {
		ix := maxChunkLen
		for !utf8.RuneStart(text[ix]) {
			ix--
		}
		chunks = append(chunks, newChunk(text[:ix]))
		text = text[ix:]
	}
	return append(chunks, newChunk(text))
}

// findSplitIx returns a UTF-8 boundary near the midpoint of text,
// scanning forward first and falling back to a backward scan. text
// must be longer than one character.
func findSplitIx(text string) int {
	ix := len(text) / 2
	for ix < len(text) && !utf8.RuneStart(text[ix]) {
		ix++
	}
	if ix == len(text) {
		ix = len(text) / 2
		for ix > 0 && !utf8.RuneStart(text[ix]) {
			ix--
		}
	}
	return ix
}
