package sumtree

// frame records one level of the cursor's descent path: the node and
// the index of the child the cursor is currently inside.
type frame[I Item[S], S Summary[S]] struct {
	n   *node[I, S]
	idx int
}

// Cursor walks a tree forward, maintaining the aggregate summary of
// everything before its position. Seeks resolve in O(log n) and
// Slice/Suffix reuse whole subtrees instead of copying items.
//
// A cursor reads the tree it was created from; mutating that tree
// afterwards leaves the cursor on the old snapshot.
type Cursor[I Item[S], S Summary[S]] struct {
	tree    *Tree[I, S]
	stack   []frame[I, S]
	leaf    *node[I, S]
	itemIdx int
	pos     S
	atEnd   bool
}

// NewCursor returns a cursor positioned at the start of the tree.
func NewCursor[I Item[S], S Summary[S]](tree *Tree[I, S]) *Cursor[I, S] {
	c := &Cursor[I, S]{tree: tree}
	c.Reset()
	return c
}

// Reset repositions the cursor at the start of the tree.
func (c *Cursor[I, S]) Reset() {
	c.stack = c.stack[:0]
	c.leaf = nil
	c.itemIdx = 0
	c.pos = zero[S]()
	c.atEnd = false

	n := c.tree.root
	if n == nil || n.isEmpty() {
		c.atEnd = true
		return
	}
	for !n.isLeaf() {
		c.stack = append(c.stack, frame[I, S]{n: n, idx: 0})
		n = n.children[0]
	}
	c.leaf = n
}

// Done reports whether the cursor has moved past the last item.
func (c *Cursor[I, S]) Done() bool {
	return c.atEnd
}

// Item returns the item at the cursor, if any.
func (c *Cursor[I, S]) Item() (I, bool) {
	if c.atEnd || c.leaf == nil || c.itemIdx >= len(c.leaf.items) {
		var z I
		return z, false
	}
	return c.leaf.items[c.itemIdx], true
}

// Start returns the summary of everything before the current item.
func (c *Cursor[I, S]) Start() S {
	return c.pos
}

// End returns the summary of everything up to and including the
// current item. Past the end it equals Start.
func (c *Cursor[I, S]) End() S {
	if c.atEnd || c.leaf == nil || c.itemIdx >= len(c.leaf.items) {
		return c.pos
	}
	return c.pos.Add(c.leaf.itemSummaries[c.itemIdx])
}

// Next advances the cursor to the following item.
func (c *Cursor[I, S]) Next() {
	if c.atEnd || c.leaf == nil {
		return
	}
	c.pos = c.pos.Add(c.leaf.itemSummaries[c.itemIdx])
	c.itemIdx++
	if c.itemIdx < len(c.leaf.items) {
		return
	}
	c.leaf = nil
	c.itemIdx = 0
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		top.idx++
		if top.idx >= len(top.n.children) {
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		n := top.n.children[top.idx]
		for !n.isLeaf() {
			c.stack = append(c.stack, frame[I, S]{n: n, idx: 0})
			n = n.children[0]
		}
		c.leaf = n
		return
	}
	c.atEnd = true
}

// Seek positions the cursor at the item containing target. With Right
// bias a target landing exactly on an item boundary resolves to the
// later item; with Left bias, the earlier one. Seek may move backward;
// it always restarts from the root.
func (c *Cursor[I, S]) Seek(target Target[S], bias Bias) {
	c.Reset()
	c.advance(target, bias, nil, nil)
}

// SeekForward is Seek restricted to targets at or after the current
// position. It panics if the target lies before the cursor.
func (c *Cursor[I, S]) SeekForward(target Target[S], bias Bias) {
	if target.Cmp(c.pos) < 0 {
		panic("sumtree: cursor cannot seek backward")
	}
	c.advance(target, bias, nil, nil)
}

// Slice advances the cursor to target and returns a tree holding the
// items traversed, in order. Whole subtrees strictly before the target
// are shared with the source tree rather than copied.
func (c *Cursor[I, S]) Slice(target Target[S], bias Bias) Tree[I, S] {
	var res Tree[I, S]
	c.advance(target, bias,
		func(item I, _ S) {
			res.Push(item)
		},
		func(n *node[I, S]) {
			res.root = concat(res.root, n)
		})
	return res
}

// Summary advances the cursor to target and returns the aggregate of
// the items traversed.
func (c *Cursor[I, S]) Summary(target Target[S], bias Bias) S {
	total := zero[S]()
	c.advance(target, bias,
		func(_ I, sum S) {
			total = total.Add(sum)
		},
		func(n *node[I, S]) {
			total = total.Add(n.summary)
		})
	return total
}

// Suffix consumes the rest of the tree and returns it as a new tree.
func (c *Cursor[I, S]) Suffix() Tree[I, S] {
	return c.Slice(endTarget[S]{}, Right)
}

// endTarget compares greater than every position.
type endTarget[S any] struct{}

func (endTarget[S]) Cmp(S) int { return 1 }

// keepGoing reports whether an entry ending at end should be consumed
// while advancing toward target.
func keepGoing[S Summary[S]](target Target[S], bias Bias, end S) bool {
	cmp := target.Cmp(end)
	return cmp > 0 || (cmp == 0 && bias == Right)
}

// advance moves the cursor forward until the next entry would cross
// the target. Consumed items are reported through takeItem and whole
// consumed subtrees through takeNode; either may be nil.
func (c *Cursor[I, S]) advance(target Target[S], bias Bias, takeItem func(I, S), takeNode func(*node[I, S])) {
	for {
		if c.leaf != nil {
			for c.itemIdx < len(c.leaf.items) {
				end := c.pos.Add(c.leaf.itemSummaries[c.itemIdx])
				if !keepGoing(target, bias, end) {
					return
				}
				if takeItem != nil {
					takeItem(c.leaf.items[c.itemIdx], c.leaf.itemSummaries[c.itemIdx])
				}
				c.pos = end
				c.itemIdx++
			}
			c.leaf = nil
			c.itemIdx = 0
		}

		// Climb until a sibling subtree remains, then either take it
		// whole or descend into it.
		descended := false
		for !descended {
			if len(c.stack) == 0 {
				c.atEnd = true
				return
			}
			top := &c.stack[len(c.stack)-1]
			top.idx++
			if top.idx >= len(top.n.children) {
				c.stack = c.stack[:len(c.stack)-1]
				continue
			}
			child := top.n.children[top.idx]
			end := c.pos.Add(top.n.childSummaries[top.idx])
			if keepGoing(target, bias, end) {
				if takeNode != nil {
					takeNode(child)
				}
				c.pos = end
				continue
			}
			if child.isLeaf() {
				c.leaf = child
				c.itemIdx = 0
				descended = true
				continue
			}
			c.stack = append(c.stack, frame[I, S]{n: child, idx: -1})
		}
	}
}
