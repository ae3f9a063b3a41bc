package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// builderFlushSize is how much text the builder buffers before
// pushing it into the rope.
const builderFlushSize = 4096

// Builder assembles a rope incrementally. It buffers writes and
// pushes them through the normal rebalancing path, so the finished
// rope satisfies the same chunk bounds as one built with Push.
//
// Builder implements io.Writer, io.StringWriter and io.ReaderFrom.
// Byte-oriented writes may split a UTF-8 sequence across calls; the
// incomplete tail stays buffered until the sequence completes.
type Builder struct {
	rope Rope
	buf  strings.Builder
}

// WriteString appends s.
func (b *Builder) WriteString(s string) (int, error) {
	b.buf.WriteString(s)
	b.maybeFlush()
	return len(s), nil
}

// Write appends p.
func (b *Builder) Write(p []byte) (int, error) {
	b.buf.Write(p)
	b.maybeFlush()
	return len(p), nil
}

// WriteRune appends r.
func (b *Builder) WriteRune(r rune) (int, error) {
	n, _ := b.buf.WriteRune(r)
	b.maybeFlush()
	return n, nil
}

// WriteByte appends c.
func (b *Builder) WriteByte(c byte) error {
	b.buf.WriteByte(c)
	b.maybeFlush()
	return nil
}

// ReadFrom appends everything read from src.
func (b *Builder) ReadFrom(src io.Reader) (int64, error) {
	var total int64
	buf := make([]byte, 32*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			total += int64(n)
			b.buf.Write(buf[:n])
			b.maybeFlush()
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int {
	return b.rope.Len() + b.buf.Len()
}

// Build flushes any buffered text and returns the rope. The builder
// can keep accepting writes afterwards; Build again to see them.
func (b *Builder) Build() Rope {
	b.flush(true)
	return b.rope
}

// Reset discards all written text.
func (b *Builder) Reset() {
	b.rope = Rope{}
	b.buf.Reset()
}

func (b *Builder) maybeFlush() {
	if b.buf.Len() >= builderFlushSize {
		b.flush(false)
	}
}

func (b *Builder) flush(final bool) {
	s := b.buf.String()
	cut := len(s)
	if !final {
		cut = completePrefixLen(s)
	}
	if cut == 0 {
		return
	}
	b.rope.Push(s[:cut])
	b.buf.Reset()
	if cut < len(s) {
		b.buf.WriteString(s[cut:])
	}
}

// completePrefixLen returns the length of s without any incomplete
// trailing UTF-8 sequence.
func completePrefixLen(s string) int {
	start := len(s)
	for i := 0; i < utf8.UTFMax && start > 0; i++ {
		start--
		if utf8.RuneStart(s[start]) {
			if utf8.FullRuneInString(s[start:]) {
				return len(s)
			}
			return start
		}
	}
	return len(s)
}
