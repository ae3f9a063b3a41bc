package sumtree

// Tree structure constants
const (
	// maxChildren is the maximum children per internal node.
	maxChildren = 8

	// maxItems is the maximum items per leaf node.
	maxItems = 4
)

// Bias selects which side of a boundary position a seek resolves to.
// A position exactly between two items belongs to the earlier item
// with Left and to the later item with Right.
type Bias int

const (
	// Left rounds to the earlier position.
	Left Bias = iota

	// Right rounds to the later position.
	Right
)

func (b Bias) String() string {
	if b == Left {
		return "left"
	}
	return "right"
}

// Summary is an associative aggregate over a sequence of items.
// Add must be associative and the value returned by Zero must be its
// identity (for struct summaries this is normally the Go zero value).
type Summary[S any] interface {
	// Add combines this summary with the summary of the items that
	// follow it.
	Add(other S) S

	// Zero returns the identity summary.
	Zero() S
}

// Item is an element stored in a Tree.
type Item[S Summary[S]] interface {
	// Summary returns the item's aggregate statistics.
	Summary() S
}

// Target identifies a position along some dimension derived from the
// summary type. Implementations compare the target against the
// summary of everything preceding a candidate position.
type Target[S any] interface {
	Cmp(agg S) int
}

// Tree is an ordered sequence of items backed by a B+ tree of
// summaries. The zero value is an empty tree, ready for use.
//
// Nodes are immutable once linked into a tree; mutating operations
// rebuild only the touched spine, so copying a Tree value is an O(1)
// snapshot that shares subtrees with the original.
type Tree[I Item[S], S Summary[S]] struct {
	root *node[I, S]
}

// node is a tree node. Leaf nodes (height == 0) hold items; internal
// nodes hold child node references. Both cache per-entry summaries so
// seeks never recompute them.
type node[I Item[S], S Summary[S]] struct {
	height         uint8
	summary        S
	children       []*node[I, S]
	childSummaries []S
	items          []I
	itemSummaries  []S
}

func zero[S Summary[S]]() S {
	var z S
	return z.Zero()
}

func (n *node[I, S]) isLeaf() bool {
	return n.height == 0
}

func (n *node[I, S]) isEmpty() bool {
	return n.isLeaf() && len(n.items) == 0
}

func newLeaf[I Item[S], S Summary[S]](items []I) *node[I, S] {
	summaries := make([]S, len(items))
	total := zero[S]()
	for i, item := range items {
		summaries[i] = item.Summary()
		total = total.Add(summaries[i])
	}
	return &node[I, S]{
		summary:       total,
		items:         items,
		itemSummaries: summaries,
	}
}

func newInternal[I Item[S], S Summary[S]](children []*node[I, S]) *node[I, S] {
	summaries := make([]S, len(children))
	total := zero[S]()
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}
	return &node[I, S]{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsEmpty returns true if the tree contains no items.
func (t *Tree[I, S]) IsEmpty() bool {
	return t.root == nil || t.root.isEmpty()
}

// Summary returns the aggregate over every item in the tree.
func (t *Tree[I, S]) Summary() S {
	if t.root == nil {
		return zero[S]()
	}
	return t.root.summary
}

// Push appends a single item.
func (t *Tree[I, S]) Push(item I) {
	t.root = concat(t.root, newLeaf[I, S]([]I{item}))
}

// Extend appends items in order.
func (t *Tree[I, S]) Extend(items []I) {
	if len(items) == 0 {
		return
	}
	t.root = concat(t.root, buildFromItems[I, S](items))
}

// Append concatenates another tree onto this one. Interior subtrees
// of both trees are reused whole.
func (t *Tree[I, S]) Append(other *Tree[I, S]) {
	t.root = concat(t.root, other.root)
}

// UpdateLast replaces the last item with f(item). It is a no-op on an
// empty tree. Only the rightmost spine is rebuilt; the previous tree
// remains valid for snapshots that still reference it.
func (t *Tree[I, S]) UpdateLast(f func(I) I) {
	if t.IsEmpty() {
		return
	}
	t.root = updateLast(t.root, f)
}

func updateLast[I Item[S], S Summary[S]](n *node[I, S], f func(I) I) *node[I, S] {
	if n.isLeaf() {
		items := make([]I, len(n.items))
		copy(items, n.items)
		items[len(items)-1] = f(items[len(items)-1])
		return newLeaf[I, S](items)
	}
	children := make([]*node[I, S], len(n.children))
	copy(children, n.children)
	children[len(children)-1] = updateLast(children[len(children)-1], f)
	return newInternal(children)
}

// First returns the first item.
func (t *Tree[I, S]) First() (I, bool) {
	if t.IsEmpty() {
		var z I
		return z, false
	}
	n := t.root
	for !n.isLeaf() {
		n = n.children[0]
	}
	return n.items[0], true
}

// Last returns the last item.
func (t *Tree[I, S]) Last() (I, bool) {
	if t.IsEmpty() {
		var z I
		return z, false
	}
	n := t.root
	for !n.isLeaf() {
		n = n.children[len(n.children)-1]
	}
	return n.items[len(n.items)-1], true
}

// Each visits every item in order until fn returns false.
func (t *Tree[I, S]) Each(fn func(I) bool) {
	if t.root != nil {
		each(t.root, fn)
	}
}

func each[I Item[S], S Summary[S]](n *node[I, S], fn func(I) bool) bool {
	if n.isLeaf() {
		for _, item := range n.items {
			if !fn(item) {
				return false
			}
		}
		return true
	}
	for _, child := range n.children {
		if !each(child, fn) {
			return false
		}
	}
	return true
}

// Items returns every item in order. Intended for tests and debugging.
func (t *Tree[I, S]) Items() []I {
	var items []I
	t.Each(func(item I) bool {
		items = append(items, item)
		return true
	})
	return items
}

// Height returns the height of the tree. Useful for testing balance.
func (t *Tree[I, S]) Height() int {
	if t.root == nil {
		return 0
	}
	return int(t.root.height) + 1
}

// buildFromItems builds a balanced subtree from a slice of items.
func buildFromItems[I Item[S], S Summary[S]](items []I) *node[I, S] {
	var leaves []*node[I, S]
	for i := 0; i < len(items); i += maxItems {
		end := min(i+maxItems, len(items))
		leafItems := make([]I, end-i)
		copy(leafItems, items[i:end])
		leaves = append(leaves, newLeaf[I, S](leafItems))
	}
	return buildFromChildren(leaves)
}

// buildFromChildren creates a balanced tree from same-height nodes.
func buildFromChildren[I Item[S], S Summary[S]](children []*node[I, S]) *node[I, S] {
	if len(children) == 0 {
		return nil
	}
	if len(children) == 1 {
		return children[0]
	}
	if len(children) <= maxChildren {
		return newInternal(children)
	}
	var parents []*node[I, S]
	for i := 0; i < len(children); i += maxChildren {
		end := min(i+maxChildren, len(children))
		group := make([]*node[I, S], end-i)
		copy(group, children[i:end])
		parents = append(parents, newInternal(group))
	}
	return buildFromChildren(parents)
}

// concat concatenates two subtrees, reusing both wholesale when
// possible. A shorter side is packed into the taller side's edge
// spine, splitting upward only on overflow, so the result's height
// grows past the taller side's only when the root itself overflows.
func concat[I Item[S], S Summary[S]](left, right *node[I, S]) *node[I, S] {
	if left == nil || left.isEmpty() {
		return right
	}
	if right == nil || right.isEmpty() {
		return left
	}
	merged, extra := concatNodes(left, right)
	if extra == nil {
		return merged
	}
	return newInternal([]*node[I, S]{merged, extra})
}

// concatNodes joins two subtrees into one or two nodes of the taller
// side's height. The second result is non-nil only when the joined
// entries overflow a single node.
func concatNodes[I Item[S], S Summary[S]](left, right *node[I, S]) (*node[I, S], *node[I, S]) {
	switch {
	case left.height == right.height:
		if left.isLeaf() {
			if total := len(left.items) + len(right.items); total <= maxItems {
				items := make([]I, 0, total)
				items = append(items, left.items...)
				items = append(items, right.items...)
				return newLeaf[I, S](items), nil
			}
			return left, right
		}
		if total := len(left.children) + len(right.children); total <= maxChildren {
			children := make([]*node[I, S], 0, total)
			children = append(children, left.children...)
			children = append(children, right.children...)
			return newInternal(children), nil
		}
		return left, right

	case left.height > right.height:
		// Pack right into left's rightmost spine.
		last := len(left.children) - 1
		merged, extra := concatNodes(left.children[last], right)
		children := make([]*node[I, S], 0, len(left.children)+1)
		children = append(children, left.children[:last]...)
		children = append(children, merged)
		if extra != nil {
			children = append(children, extra)
		}
		return splitChildren(children)

	default:
		// Pack left into right's leftmost spine.
		merged, extra := concatNodes(left, right.children[0])
		children := make([]*node[I, S], 0, len(right.children)+1)
		children = append(children, merged)
		if extra != nil {
			children = append(children, extra)
		}
		children = append(children, right.children[1:]...)
		return splitChildren(children)
	}
}

// splitChildren wraps children (at most maxChildren+1 of them) into
// one internal node, or two balanced ones on overflow.
func splitChildren[I Item[S], S Summary[S]](children []*node[I, S]) (*node[I, S], *node[I, S]) {
	if len(children) <= maxChildren {
		return newInternal(children), nil
	}
	mid := (len(children) + 1) / 2
	return newInternal(children[:mid]), newInternal(children[mid:])
}
