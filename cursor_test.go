package rope

import (
	"strings"
	"testing"
)

func TestCursorThreePartSlice(t *testing.T) {
	text := strings.Repeat("0123456789", 100)
	r := FromString(text)

	c := r.Cursor(0)
	prefix := c.Slice(250)
	middle := c.Slice(750)
	suffix := c.Suffix()

	if prefix.String() != text[:250] {
		t.Error("prefix has wrong text")
	}
	if middle.String() != text[250:750] {
		t.Error("middle has wrong text")
	}
	if suffix.String() != text[750:] {
		t.Error("suffix has wrong text")
	}
	if c.Offset() != len(text) {
		t.Errorf("cursor at %d after Suffix, want %d", c.Offset(), len(text))
	}
}

func TestCursorSliceAtBoundaries(t *testing.T) {
	text := strings.Repeat("x", maxChunkLen*3)
	r := FromString(text)

	tests := []struct {
		name       string
		start, end int
	}{
		{"empty at start", 0, 0},
		{"within one chunk", 1, 50},
		{"exactly one chunk", 0, maxChunkLen},
		{"chunk straddling", maxChunkLen - 5, maxChunkLen + 5},
		{"everything", 0, len(text)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := r.Cursor(tt.start)
			got := c.Slice(tt.end)
			if got.String() != text[tt.start:tt.end] {
				t.Errorf("Slice yielded %d bytes, want %d", got.Len(), tt.end-tt.start)
			}
		})
	}
}

func TestCursorSummary(t *testing.T) {
	text := strings.Repeat("hé\n𝄞 line\n", 80)
	r := FromString(text)

	tests := []struct {
		name       string
		start, end int
	}{
		{"empty", 13, 13},
		{"within chunk", 0, 5},
		{"across chunks", 13, 700},
		{"everything", 0, len(text)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := r.Cursor(tt.start)
			got := c.Summary(tt.end)
			want := ComputeSummary(text[tt.start:tt.end])
			if got != want {
				t.Errorf("Summary(%d..%d) = %+v, want %+v", tt.start, tt.end, got, want)
			}
		})
	}
}

func TestCursorSeekForward(t *testing.T) {
	text := strings.Repeat("seek me ", 200)
	r := FromString(text)

	c := r.Cursor(0)
	c.SeekForward(100)
	if got := c.Slice(200).String(); got != text[100:200] {
		t.Errorf("slice after seek = %q, want %q", got, text[100:200])
	}
	c.SeekForward(1000)
	if got := c.Slice(1100).String(); got != text[1000:1100] {
		t.Error("slice after second seek has wrong text")
	}
}

func TestCursorSeekBackwardPanics(t *testing.T) {
	r := FromString(strings.Repeat("a", 500))
	c := r.Cursor(300)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on backward seek")
		}
	}()
	c.SeekForward(100)
}

func TestCursorSliceMidCharacterPanics(t *testing.T) {
	r := FromString("aé" + strings.Repeat("x", 200))

	t.Run("end inside character", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for a slice end inside a multi-byte character")
			}
		}()
		r.Cursor(0).Slice(2)
	})

	t.Run("start inside character", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for a slice start inside a multi-byte character")
			}
		}()
		r.Cursor(2).Slice(10)
	})
}

func TestCursorSurvivesSourceMutation(t *testing.T) {
	text := strings.Repeat("stable ", 100)
	r := FromString(text)

	c := r.Cursor(0)
	r.Replace(0, 6, "XXXXXX")

	if got := c.Suffix().String(); got != text {
		t.Error("cursor should keep reading the snapshot it was created from")
	}
}
