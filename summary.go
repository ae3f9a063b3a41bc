package rope

import "unicode/utf8"

// TextSummary aggregates the statistics of a span of text. Summaries
// combine associatively with Add, so the statistics of any
// concatenation can be derived from the statistics of its pieces.
type TextSummary struct {
	// Bytes is the UTF-8 length of the span.
	Bytes int

	// Lines is the span's extent as rows and trailing-row UTF-8 bytes.
	// A span with no newline has Row 0 and Column equal to Bytes.
	Lines Point

	// LinesUtf16 is the same extent with the trailing-row width in
	// UTF-16 code units.
	LinesUtf16 PointUtf16

	// FirstLineChars is the character count of the first line's part
	// of the span.
	FirstLineChars uint32

	// LastLineChars is the character count of the last line's part of
	// the span.
	LastLineChars uint32

	// LongestRow is the row, relative to the span's start, with the
	// most characters. Ties resolve to the earliest row.
	LongestRow uint32

	// LongestRowChars is the character count of that row.
	LongestRowChars uint32
}

// ComputeSummary builds the summary of text in a single pass.
func ComputeSummary(text string) TextSummary {
	var s TextSummary
	s.Bytes = len(text)
	for _, r := range text {
		if r == '\n' {
			s.Lines.Row++
			s.Lines.Column = 0
			s.LinesUtf16.Row++
			s.LinesUtf16.Column = 0
			s.LastLineChars = 0
		} else {
			s.Lines.Column += uint32(utf8.RuneLen(r))
			s.LinesUtf16.Column += utf16Len(r)
			s.LastLineChars++
		}
		if s.Lines.Row == 0 {
			s.FirstLineChars = s.LastLineChars
		}
		if s.LastLineChars > s.LongestRowChars {
			s.LongestRow = s.Lines.Row
			s.LongestRowChars = s.LastLineChars
		}
	}
	return s
}

// utf16Len returns the number of UTF-16 code units encoding r.
func utf16Len(r rune) uint32 {
	if r <= 0xFFFF {
		return 1
	}
	return 2
}

// Add combines s with the summary of the text that follows it. The
// line where the two spans join is reassembled from s's last partial
// line and other's first partial line.
func (s TextSummary) Add(other TextSummary) TextSummary {
	joined := s.LastLineChars + other.FirstLineChars
	if joined > s.LongestRowChars {
		s.LongestRow = s.Lines.Row
		s.LongestRowChars = joined
	}
	if other.LongestRowChars > s.LongestRowChars {
		s.LongestRow = s.Lines.Row + other.LongestRow
		s.LongestRowChars = other.LongestRowChars
	}

	if s.Lines.Row == 0 {
		s.FirstLineChars += other.FirstLineChars
	}
	if other.Lines.Row == 0 {
		s.LastLineChars += other.FirstLineChars
	} else {
		s.LastLineChars = other.LastLineChars
	}

	s.Bytes += other.Bytes
	s.Lines = s.Lines.Add(other.Lines)
	s.LinesUtf16 = s.LinesUtf16.Add(other.LinesUtf16)
	return s
}

// Zero returns the identity summary.
func (TextSummary) Zero() TextSummary {
	return TextSummary{}
}
