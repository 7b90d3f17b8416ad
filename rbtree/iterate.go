// Copyright ©2012 Dan Kortschak <dan.kortschak@adelaide.edu.au>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package rbtree

// An Iterator steps through the elements of a tree version in ascending order.
// Since nodes are never altered, an Iterator remains valid while other
// versions are derived from the tree it was created from.
type Iterator struct {
	stack []*Node
	elem  Comparable
}

// InOrder returns an Iterator over the elements of the Tree. Each call
// returns a new Iterator starting at the minimum element.
func (t *Tree) InOrder() *Iterator {
	it := &Iterator{}
	it.descend(t.Root)
	return it
}

func (it *Iterator) descend(n *Node) {
	for ; n != nil; n = n.Left {
		it.stack = append(it.stack, n)
	}
}

// Next advances the Iterator to the next element, returning false when the
// elements are exhausted.
func (it *Iterator) Next() bool {
	if len(it.stack) == 0 {
		it.elem = nil
		return false
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.descend(n.Right)
	it.elem = n.Elem
	return true
}

// Elem returns the element at the current position of the Iterator.
func (it *Iterator) Elem() Comparable {
	return it.elem
}

// An Operation is a function that operates on a Comparable. If done is returned true, the
// Operation is indicating that no further work needs to be done and so the Do function should
// traverse no further.
type Operation func(Comparable) (done bool)

// Do performs fn on all values stored in the tree in ascending order. A boolean is
// returned indicating whether the Do traversal was interupted by an Operation returning true.
func (t *Tree) Do(fn Operation) bool {
	for it := t.InOrder(); it.Next(); {
		if fn(it.Elem()) {
			return true
		}
	}
	return false
}

// DoReverse performs fn on all values stored in the tree in descending order. A boolean
// is returned indicating whether the traversal was interupted by an Operation returning true.
func (t *Tree) DoReverse(fn Operation) bool {
	return t.Root.doReverse(fn)
}

func (n *Node) doReverse(fn Operation) bool {
	if n == nil {
		return false
	}
	return n.Right.doReverse(fn) || fn(n.Elem) || n.Left.doReverse(fn)
}

// DoRange performs fn on all values stored in the tree over the interval [from, to) from left
// to right. If to equals from the call is a no-op, and if to is less than from DoRange will
// panic. A boolean is returned indicating whether the traversal was interupted by an
// Operation returning true.
func (t *Tree) DoRange(fn Operation, from, to Comparable) bool {
	switch order := from.Compare(to); {
	case order < 0:
		return t.Root.doRange(fn, from, to)
	case order > 0:
		panic("rbtree: inverted range")
	}
	return false
}

func (n *Node) doRange(fn Operation, lo, hi Comparable) (done bool) {
	if n == nil {
		return false
	}
	lc, hc := lo.Compare(n.Elem), hi.Compare(n.Elem)
	if lc < 0 && n.Left.doRange(fn, lo, hi) {
		return true
	}
	if lc <= 0 && hc > 0 && fn(n.Elem) {
		return true
	}
	return hc > 0 && n.Right.doRange(fn, lo, hi)
}

// A Level describes a node visited by LevelOrder.
type Level struct {
	Depth int
	Color Color
	Elem  Comparable
}

// LevelOrder returns a description of every node in the tree in breadth-first
// order, with the root at depth zero.
func (t *Tree) LevelOrder() []Level {
	if t.Root == nil {
		return nil
	}
	var (
		levels []Level
		queue  = []*Node{t.Root}
		next   []*Node
	)
	for depth := 0; len(queue) != 0; depth++ {
		for _, n := range queue {
			levels = append(levels, Level{Depth: depth, Color: n.Color, Elem: n.Elem})
			if n.Left != nil {
				next = append(next, n.Left)
			}
			if n.Right != nil {
				next = append(next, n.Right)
			}
		}
		queue, next = next, queue[:0]
	}
	return levels
}
