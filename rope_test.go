package rope

import (
	"bytes"
	"math/rand"
	"os"
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"
)

func TestMain(m *testing.M) {
	invariantChecks = true
	os.Exit(m.Run())
}

// naivePoint scans a string to compute the Point at a byte offset.
func naivePoint(s string, offset int) Point {
	var p Point
	for ix, r := range s {
		if ix >= offset {
			break
		}
		if r == '\n' {
			p.Row++
			p.Column = 0
		} else {
			p.Column += uint32(utf8.RuneLen(r))
		}
	}
	return p
}

// naivePointUtf16 scans a string to compute the PointUtf16 at a byte
// offset.
func naivePointUtf16(s string, offset int) PointUtf16 {
	var p PointUtf16
	for ix, r := range s {
		if ix >= offset {
			break
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

// boundaries returns every character boundary of s, including len(s).
func boundaries(s string) []int {
	var offs []int
	for ix := range s {
		offs = append(offs, ix)
	}
	return append(offs, len(s))
}

func TestNew(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Errorf("new rope should have length 0, got %d", r.Len())
	}
	if !r.IsEmpty() {
		t.Error("new rope should be empty")
	}
	if r.String() != "" {
		t.Errorf("new rope String() should be empty, got %q", r.String())
	}
	if r.LineCount() != 1 {
		t.Errorf("new rope should have 1 line, got %d", r.LineCount())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"short string", "hello"},
		{"with newline", "hello\nworld"},
		{"multiple newlines", "a\nb\nc\nd"},
		{"unicode", "hello 世界 🌍"},
		{"exactly one chunk", strings.Repeat("x", maxChunkLen)},
		{"long string", strings.Repeat("abcdefghij", 100)},
		{"very long string", strings.Repeat("x", 10000)},
		{"long multibyte", strings.Repeat("世é𝄞", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if r.String() != tt.input {
				t.Errorf("String() = %q, want %q", r.String(), tt.input)
			}
			if r.Len() != len(tt.input) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.input))
			}
		})
	}
}

func TestPushIncremental(t *testing.T) {
	var r Rope
	var want strings.Builder
	for i := 0; i < 1000; i++ {
		s := string(sampleRunes[i%len(sampleRunes)])
		r.Push(s)
		want.WriteString(s)
	}
	if r.String() != want.String() {
		t.Fatal("incremental pushes diverged from the expected text")
	}

	// Rebalancing should keep the chunk count proportional to size.
	count := 0
	for it := r.Chunks(); it.Next(); {
		count++
	}
	if limit := r.Len()/ChunkBase + 2; count > limit {
		t.Errorf("%d chunks for %d bytes, want at most %d", count, r.Len(), limit)
	}
}

func TestPushManySequential(t *testing.T) {
	// Long runs of sequential pushes must keep the stored text intact;
	// the invariant check verifies the root summary against a rescan
	// after every push.
	const n = 5000
	var r Rope
	for i := 0; i < n; i++ {
		r.Push("abcdefgh")
	}
	want := strings.Repeat("abcdefgh", n)
	if r.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", r.Len(), len(want))
	}
	if r.String() != want {
		t.Fatal("sequential pushes lost text")
	}
	if got := r.OffsetToPoint(r.Len() - 1); got != (Point{0, uint32(len(want) - 1)}) {
		t.Errorf("OffsetToPoint(end-1) = %v", got)
	}
}

func TestPushFront(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		prefix  string
	}{
		{"to empty", "", "hello"},
		{"small to small", "world", "hello "},
		{"large to small", "!", strings.Repeat("ab", 500)},
		{"small to large", strings.Repeat("cd", 500), "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial)
			r.PushFront(tt.prefix)
			if got, want := r.String(), tt.prefix+tt.initial; got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestAppendRopes(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"both empty", "", ""},
		{"empty left", "", "hello"},
		{"empty right", "hello", ""},
		{"small small", "hello ", "world"},
		{"small large", "tiny", strings.Repeat("qwerty", 400)},
		{"large small", strings.Repeat("asdfgh", 400), "tiny"},
		{"large large", strings.Repeat("zxcvbn", 300), strings.Repeat("poiuyt", 300)},
		{"multibyte seam", strings.Repeat("é", 63), strings.Repeat("𝄞", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromString(tt.a)
			b := FromString(tt.b)
			a.Append(b)
			if got, want := a.String(), tt.a+tt.b; got != want {
				t.Errorf("got %d bytes, want %d", len(got), len(want))
			}
			// b must be unaffected by the append.
			if b.String() != tt.b {
				t.Error("appended rope was mutated")
			}
		})
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		start, end int
		text       string
		expected   string
	}{
		{"interior", "abcdef", 2, 4, "XYZ", "abXYZef"},
		{"replace word", "hello world", 6, 11, "universe", "hello universe"},
		{"insert", "abcdef", 3, 3, "---", "abc---def"},
		{"delete", "abcdef", 1, 5, "", "af"},
		{"replace all", "hello", 0, 5, "world", "world"},
		{"prepend", "world", 0, 0, "hello ", "hello world"},
		{"append", "hello", 5, 5, " world", "hello world"},
		{"empty on empty", "", 0, 0, "", ""},
		{"unicode", "世界世界", 3, 6, "é", "世é世界"},
		{"across chunks", strings.Repeat("ab", 300), 17, 583, "<snip>", strings.Repeat("ab", 300)[:17] + "<snip>" + strings.Repeat("ab", 300)[583:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial)
			r.Replace(tt.start, tt.end, tt.text)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestReplaceAgainstModel(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	model := ""
	r := New()

	for i := 0; i < 300; i++ {
		start := 0
		end := 0
		if len(model) > 0 {
			start = r.ClipOffset(rng.Intn(len(model)+1), Left)
			end = r.ClipOffset(start+rng.Intn(len(model)-start+1), Right)
		}
		insert := ""
		for n := rng.Intn(20); n > 0; n-- {
			insert += string(sampleRunes[rng.Intn(len(sampleRunes))])
		}

		model = model[:start] + insert + model[end:]
		r.Replace(start, end, insert)

		if r.String() != model {
			t.Fatalf("diverged from model after %d edits", i+1)
		}
		if r.Len() != len(model) {
			t.Fatalf("Len() = %d, model has %d bytes", r.Len(), len(model))
		}
	}
}

func TestReplaceMidCharacterPanics(t *testing.T) {
	r := FromString("héllo")
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a replace range inside a multi-byte character")
		}
	}()
	r.Replace(2, 4, "x")
}

func TestSlice(t *testing.T) {
	text := strings.Repeat("hello 世界\n", 100)
	r := FromString(text)

	tests := []struct {
		name       string
		start, end int
	}{
		{"empty", 10, 10},
		{"prefix", 0, 7},
		{"interior", 100, 700},
		{"suffix", 1000, len(text)},
		{"everything", 0, len(text)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Slice(tt.start, tt.end)
			if got.String() != text[tt.start:tt.end] {
				t.Errorf("Slice(%d, %d) returned wrong text", tt.start, tt.end)
			}
		})
	}
}

func TestSliceAppendRoundTrip(t *testing.T) {
	text := strings.Repeat("é𝄞ab\n", 200)
	r := FromString(text)

	check := func(rawCut uint16) bool {
		cut := r.ClipOffset(int(rawCut)%(len(text)+1), Left)
		head := r.Slice(0, cut)
		tail := r.Slice(cut, len(text))
		head.Append(tail)
		return head.String() == text
	}
	if err := quick.Check(check, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}

func TestLineMetrics(t *testing.T) {
	r := FromString("a\nbb\nccc")

	if got := r.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}
	for row, want := range []uint32{1, 2, 3} {
		if got := r.LineLen(uint32(row)); got != want {
			t.Errorf("LineLen(%d) = %d, want %d", row, got, want)
		}
	}
	if got := r.MaxPoint(); got != (Point{2, 3}) {
		t.Errorf("MaxPoint() = %v, want (2,3)", got)
	}
	sum := r.Summary()
	if sum.LongestRow != 2 || sum.LongestRowChars != 3 {
		t.Errorf("longest row = (%d, %d chars), want (2, 3)", sum.LongestRow, sum.LongestRowChars)
	}
}

func TestLongestRowAcrossChunks(t *testing.T) {
	// The longest line straddles several chunks.
	text := "short\n" + strings.Repeat("y", 500) + "\nmid"
	r := FromString(text)
	sum := r.Summary()
	if sum.LongestRow != 1 {
		t.Errorf("LongestRow = %d, want 1", sum.LongestRow)
	}
	if sum.LongestRowChars != 500 {
		t.Errorf("LongestRowChars = %d, want 500", sum.LongestRowChars)
	}
}

func TestOffsetPointConversions(t *testing.T) {
	text := strings.Repeat("aé\n𝄞 世界x\n\n", 60)
	r := FromString(text)

	for _, off := range boundaries(text) {
		p := r.OffsetToPoint(off)
		if want := naivePoint(text, off); p != want {
			t.Fatalf("OffsetToPoint(%d) = %v, want %v", off, p, want)
		}
		if back := r.PointToOffset(p); back != off {
			t.Fatalf("PointToOffset(%v) = %d, want %d", p, back, off)
		}

		p16 := r.OffsetToPointUtf16(off)
		if want := naivePointUtf16(text, off); p16 != want {
			t.Fatalf("OffsetToPointUtf16(%d) = %v, want %v", off, p16, want)
		}
		if back := r.PointUtf16ToOffset(p16); back != off {
			t.Fatalf("PointUtf16ToOffset(%v) = %d, want %d", p16, back, off)
		}

		if got := r.PointToPointUtf16(p); got != p16 {
			t.Fatalf("PointToPointUtf16(%v) = %v, want %v", p, got, p16)
		}
		if got := r.PointUtf16ToPoint(p16); got != p {
			t.Fatalf("PointUtf16ToPoint(%v) = %v, want %v", p16, got, p)
		}
	}
}

func TestConversionsClampPastEnd(t *testing.T) {
	r := FromString("hello\nworld")

	if got := r.OffsetToPoint(9999); got != r.MaxPoint() {
		t.Errorf("OffsetToPoint past end = %v, want %v", got, r.MaxPoint())
	}
	if got := r.PointToOffset(Point{99, 0}); got != r.Len() {
		t.Errorf("PointToOffset past end = %d, want %d", got, r.Len())
	}
	if got := r.OffsetToPointUtf16(9999); got != r.MaxPointUtf16() {
		t.Errorf("OffsetToPointUtf16 past end = %v, want %v", got, r.MaxPointUtf16())
	}
	if got := r.PointUtf16ToOffset(PointUtf16{99, 0}); got != r.Len() {
		t.Errorf("PointUtf16ToOffset past end = %d, want %d", got, r.Len())
	}
}

func TestOffsetToPointPanicsMidCharacter(t *testing.T) {
	r := FromString("aé" + strings.Repeat("x", 20))
	defer func() {
		if recover() == nil {
			t.Error("expected panic for an offset inside a multi-byte character")
		}
	}()
	r.OffsetToPoint(2)
}

func TestPointToOffsetPanicsBeyondLine(t *testing.T) {
	r := FromString("ab\ncd")
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a column past the end of its line")
		}
	}()
	r.PointToOffset(Point{0, 4})
}

func TestClipOffset(t *testing.T) {
	text := "a" + "é" + "𝄞" + "b" // boundaries at 0,1,3,7,8
	r := FromString(text)

	tests := []struct {
		offset int
		bias   Bias
		want   int
	}{
		{-5, Left, 0},
		{0, Left, 0},
		{1, Right, 1},
		{2, Left, 1},
		{2, Right, 3},
		{4, Left, 3},
		{5, Right, 7},
		{8, Left, 8},
		{99, Right, 8},
	}

	for _, tt := range tests {
		if got := r.ClipOffset(tt.offset, tt.bias); got != tt.want {
			t.Errorf("ClipOffset(%d, %v) = %d, want %d", tt.offset, tt.bias, got, tt.want)
		}
	}
}

func TestClipPoint(t *testing.T) {
	r := FromString("héllo\nab\n世界")

	tests := []struct {
		name   string
		target Point
		bias   Bias
		want   Point
	}{
		{"valid", Point{1, 1}, Left, Point{1, 1}},
		{"inside char left", Point{0, 2}, Left, Point{0, 1}},
		{"inside char right", Point{0, 2}, Right, Point{0, 3}},
		{"column past line", Point{1, 50}, Left, Point{1, 2}},
		{"row past end", Point{42, 0}, Right, Point{2, 6}},
		{"last line past end", Point{2, 100}, Left, Point{2, 6}},
		{"inside cjk", Point{2, 1}, Right, Point{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ClipPoint(tt.target, tt.bias); got != tt.want {
				t.Errorf("ClipPoint(%v, %v) = %v, want %v", tt.target, tt.bias, got, tt.want)
			}
		})
	}
}

func TestClipPointAlwaysValid(t *testing.T) {
	text := strings.Repeat("aé𝄞\n世\n", 80)
	r := FromString(text)

	check := func(row, col uint8, useLeft bool) bool {
		bias := Right
		if useLeft {
			bias = Left
		}
		target := Point{Row: uint32(row), Column: uint32(col)}
		got := r.ClipPoint(target, bias)
		if got.Cmp(r.MaxPoint()) > 0 {
			return false
		}
		// A valid point must round-trip through offsets without panicking.
		return r.OffsetToPoint(r.PointToOffset(got)) == got
	}
	if err := quick.Check(check, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

func TestClipPointUtf16(t *testing.T) {
	r := FromString("a𝄞b\n𝄞𝄞")

	tests := []struct {
		name   string
		target PointUtf16
		bias   Bias
		want   PointUtf16
	}{
		{"valid", PointUtf16{0, 1}, Left, PointUtf16{0, 1}},
		{"inside pair left", PointUtf16{0, 2}, Left, PointUtf16{0, 1}},
		{"inside pair right", PointUtf16{0, 2}, Right, PointUtf16{0, 3}},
		{"row past end", PointUtf16{9, 9}, Left, PointUtf16{1, 4}},
		{"second row pair left", PointUtf16{1, 1}, Left, PointUtf16{1, 0}},
		{"second row pair right", PointUtf16{1, 3}, Right, PointUtf16{1, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ClipPointUtf16(tt.target, tt.bias); got != tt.want {
				t.Errorf("ClipPointUtf16(%v, %v) = %v, want %v", tt.target, tt.bias, got, tt.want)
			}
		})
	}
}

func TestSnapshotIsolation(t *testing.T) {
	r := FromString(strings.Repeat("snapshot ", 200))
	snapshot := r

	r.Replace(0, 8, "mutated!")
	r.Push(" and more")

	if !strings.HasPrefix(snapshot.String(), "snapshot ") {
		t.Error("snapshot changed after mutating the original")
	}
	if snapshot.Len() != len("snapshot ")*200 {
		t.Errorf("snapshot Len() = %d, want %d", snapshot.Len(), len("snapshot ")*200)
	}
}

func TestEqual(t *testing.T) {
	// Same text, different chunking history.
	var a Rope
	for i := 0; i < 500; i++ {
		a.Push("ab")
	}
	b := FromString(strings.Repeat("ab", 500))

	if !a.Equal(b) {
		t.Error("ropes with identical text should be equal")
	}
	b.Replace(10, 11, "X")
	if a.Equal(b) {
		t.Error("ropes with different text should not be equal")
	}
	if !New().Equal(New()) {
		t.Error("empty ropes should be equal")
	}
}

func TestWriteTo(t *testing.T) {
	text := strings.Repeat("write me\n", 300)
	r := FromString(text)

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(text)) {
		t.Errorf("WriteTo wrote %d bytes, want %d", n, len(text))
	}
	if buf.String() != text {
		t.Error("WriteTo produced wrong text")
	}
}
