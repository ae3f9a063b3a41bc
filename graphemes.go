package rope

import "github.com/rivo/uniseg"

// Graphemes iterates over a rope's extended grapheme clusters.
// Clusters may span chunk boundaries; the iterator carries the
// segmentation state across chunks and buffers just enough text to
// complete the cluster in flight.
//
// Call Next to advance, then Cluster, Offset and Width to inspect the
// current cluster.
type Graphemes struct {
	chunks    *Chunks
	buf       string
	bufOffset int
	state     int
	cluster   string
	offset    int
	width     int
}

// Graphemes iterates over every cluster from the start.
func (r Rope) Graphemes() *Graphemes {
	return r.GraphemesAt(0)
}

// GraphemesAt iterates forward from offset, which must lie on a
// cluster boundary.
func (r Rope) GraphemesAt(offset int) *Graphemes {
	return &Graphemes{chunks: r.ChunksInRange(offset, r.Len()), state: -1}
}

// Next advances to the next cluster.
func (g *Graphemes) Next() bool {
	if g.buf == "" && !g.fill() {
		return false
	}
	for {
		cluster, rest, boundaries, state := uniseg.StepString(g.buf, g.state)
		if rest == "" && g.fill() {
			// The cluster may continue into the next chunk.
			continue
		}
		g.cluster = cluster
		g.offset = g.bufOffset
		g.width = boundaries >> uniseg.ShiftWidth
		g.bufOffset += len(cluster)
		g.buf = rest
		g.state = state
		return true
	}
}

func (g *Graphemes) fill() bool {
	if !g.chunks.Next() {
		return false
	}
	if g.buf == "" {
		g.bufOffset = g.chunks.Offset()
	}
	g.buf += g.chunks.Chunk()
	return true
}

// Cluster returns the current cluster's text.
func (g *Graphemes) Cluster() string {
	return g.cluster
}

// Offset returns the byte offset of the current cluster.
func (g *Graphemes) Offset() int {
	return g.offset
}

// Width returns the current cluster's monospace cell width.
func (g *Graphemes) Width() int {
	return g.width
}
