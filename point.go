package rope

import "fmt"

// Point is a position expressed as a row and a column measured in
// UTF-8 bytes from the start of the row.
type Point struct {
	Row    uint32
	Column uint32
}

// Add offsets p by other. When other spans no newline the column
// extends; otherwise the result lands on a later row at other's
// column.
func (p Point) Add(other Point) Point {
	if other.Row == 0 {
		return Point{Row: p.Row, Column: p.Column + other.Column}
	}
	return Point{Row: p.Row + other.Row, Column: other.Column}
}

// Sub returns the vector from other to p. Requires other <= p,
// verified only when the debug checks are enabled.
func (p Point) Sub(other Point) Point {
	if invariantChecks && other.Cmp(p) > 0 {
		panic(fmt.Sprintf("rope: cannot subtract %v from %v", other, p))
	}
	if p.Row == other.Row {
		return Point{Column: p.Column - other.Column}
	}
	return Point{Row: p.Row - other.Row, Column: p.Column}
}

// Cmp compares two points in document order.
func (p Point) Cmp(other Point) int {
	switch {
	case p.Row < other.Row:
		return -1
	case p.Row > other.Row:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool {
	return p.Row == 0 && p.Column == 0
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Column)
}

// PointUtf16 is a position expressed as a row and a column measured
// in UTF-16 code units from the start of the row. Characters outside
// the Basic Multilingual Plane count as two units.
type PointUtf16 struct {
	Row    uint32
	Column uint32
}

// Add offsets p by other with the same line semantics as Point.Add.
func (p PointUtf16) Add(other PointUtf16) PointUtf16 {
	if other.Row == 0 {
		return PointUtf16{Row: p.Row, Column: p.Column + other.Column}
	}
	return PointUtf16{Row: p.Row + other.Row, Column: other.Column}
}

// Sub returns the vector from other to p. Requires other <= p,
// verified only when the debug checks are enabled.
func (p PointUtf16) Sub(other PointUtf16) PointUtf16 {
	if invariantChecks && other.Cmp(p) > 0 {
		panic(fmt.Sprintf("rope: cannot subtract %v from %v", other, p))
	}
	if p.Row == other.Row {
		return PointUtf16{Column: p.Column - other.Column}
	}
	return PointUtf16{Row: p.Row - other.Row, Column: p.Column}
}

// Cmp compares two points in document order.
func (p PointUtf16) Cmp(other PointUtf16) int {
	switch {
	case p.Row < other.Row:
		return -1
	case p.Row > other.Row:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether p is the origin.
func (p PointUtf16) IsZero() bool {
	return p.Row == 0 && p.Column == 0
}

func (p PointUtf16) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Column)
}
