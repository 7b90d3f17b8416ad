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

// Package rbtree implements a persistent red-black tree holding an ordered set.
//
// Insertion and deletion never alter an existing node. Each returns a new root
// that shares all unaffected subtrees with the version it was derived from, so
// every previously obtained root remains a valid and unchanging tree.
//
// Insertion uses Okasaki's balance rules. Deletion is the purely functional
// algorithm using double-black and negative-black colors described in
//  S. Kahrs, Red-black trees with types, J. Funct. Program. 11(4):425-432 (2001).
//  K. Germane and M. Might, Deletion: The curse of the red-black tree,
//  J. Funct. Program. 24(4):423-433 (2014).
package rbtree

import "strconv"

// A Comparable is a type that can be inserted into a Tree or used as a range
// or equality query on the tree.
type Comparable interface {
	// Compare returns a value indicating the sort order relationship between the
	// receiver and the parameter.
	//
	// Given c = a.Compare(b):
	//  c < 0 if a < b;
	//  c == 0 if a == b; and
	//  c > 0 if a > b.
	//
	// Compare must define a strict total order. If it does not, the shape of
	// trees holding the values is undefined.
	Compare(Comparable) int
}

// A Color represents the color of a Node. NegativeBlack and DoubleBlack only
// exist during the rebuilding steps of a deletion and are never held by a
// node reachable from a root returned by Insert or Delete.
type Color int8

const (
	NegativeBlack Color = iota - 1
	Red
	Black
	DoubleBlack
)

// String returns a string representation of a Color.
func (c Color) String() string {
	switch c {
	case NegativeBlack:
		return "NegativeBlack"
	case Red:
		return "Red"
	case Black:
		return "Black"
	case DoubleBlack:
		return "DoubleBlack"
	}
	return "Color(" + strconv.Itoa(int(c)) + ")"
}

// Redder returns the color one step redder than c.
func (c Color) Redder() Color { return c - 1 }

// Blacker returns the color one step blacker than c.
func (c Color) Blacker() Color { return c + 1 }

// A Node represents a node in the tree. A nil *Node is the empty tree.
//
// Nodes may be shared by any number of tree versions and must not be
// modified once they are reachable from a root.
type Node struct {
	Elem        Comparable
	Left, Right *Node
	Color       Color
}

// A Tree holds the root of one version of a red-black tree. Copying a Tree
// value retains that version; later calls to Insert or Delete on the source
// do not affect the copy.
type Tree struct {
	Root  *Node // Root node of the tree.
	Count int   // Number of elements stored.
}

// Len returns the number of elements stored in the Tree.
func (t *Tree) Len() int {
	return t.Count
}

// Insert inserts e into the Tree unless an equal element is already held.
// It reports whether e was inserted.
func (t *Tree) Insert(e Comparable) (inserted bool) {
	t.Root, inserted = Insert(t.Root, e)
	if inserted {
		t.Count++
	}
	return inserted
}

// Delete deletes the element equal to e from the Tree. It reports whether
// an element was removed.
func (t *Tree) Delete(e Comparable) (removed bool) {
	t.Root, removed = Delete(t.Root, e)
	if removed {
		t.Count--
	}
	return removed
}

// Insert returns the root of a tree holding the elements of the tree at root
// and e. If an element equal to e is already present, root itself is
// returned and inserted is false.
func Insert(root *Node, e Comparable) (newRoot *Node, inserted bool) {
	n, inserted := root.insert(e)
	if !inserted {
		return root, false
	}
	return publish(n), true
}

func (n *Node) insert(e Comparable) (root *Node, inserted bool) {
	if n == nil {
		return &Node{Elem: e, Color: Red}, true
	}

	var l, r *Node
	switch c := e.Compare(n.Elem); {
	case c == 0:
		return n, false
	case c < 0:
		l, inserted = n.Left.insert(e)
		if !inserted {
			return n, false
		}
		r = n.Right
	default:
		r, inserted = n.Right.insert(e)
		if !inserted {
			return n, false
		}
		l = n.Left
	}

	return balance(n.Color, l, n.Elem, r), true
}

// Delete returns the root of a tree holding the elements of the tree at root
// except the element equal to e. If no such element is present, root itself
// is returned and removed is false.
func Delete(root *Node, e Comparable) (newRoot *Node, removed bool) {
	t, removed := root.delete(e)
	if !removed {
		return root, false
	}
	// A deletion that empties the tree leaves no root to recolor.
	return publish(t.node), true
}

func (n *Node) delete(e Comparable) (t subtree, removed bool) {
	if n == nil {
		return subtree{}, false
	}

	switch c := e.Compare(n.Elem); {
	case c == 0:
		return n.delete2(), true
	case c < 0:
		t, removed = n.Left.delete(e)
		if !removed {
			return subtree{node: n}, false
		}
		return bubble(n.Color, t, n.Elem, subtree{node: n.Right}), true
	default:
		t, removed = n.Right.delete(e)
		if !removed {
			return subtree{node: n}, false
		}
		return bubble(n.Color, subtree{node: n.Left}, n.Elem, t), true
	}
}

// delete2 removes the element held by n itself.
func (n *Node) delete2() subtree {
	switch {
	case n.Left == nil && n.Right == nil:
		if n.Color == Red {
			return subtree{}
		}
		// Removing a black leaf leaves one unit of missing blackness that
		// bubble must carry upwards.
		return subtree{doubleEmpty: true}
	case n.Left == nil:
		return subtree{node: n.Right.promote(n)}
	case n.Right == nil:
		return subtree{node: n.Left.promote(n)}
	}
	return bubble(n.Color, n.Left.deleteMax(), n.Left.max().Elem, subtree{node: n.Right})
}

// promote returns n, the single child of the black node p, recolored black.
func (n *Node) promote(p *Node) *Node {
	if p.Color != Black || n.Color != Red {
		panic("rbtree: node with a single child is not black over red")
	}
	return &Node{Elem: n.Elem, Left: n.Left, Right: n.Right, Color: Black}
}

// deleteMax removes the maximum element of the tree rooted at n.
func (n *Node) deleteMax() subtree {
	if n.Right == nil {
		return n.delete2()
	}
	return bubble(n.Color, subtree{node: n.Left}, n.Elem, n.Right.deleteMax())
}

// publish returns n as the root of a completed tree version.
func publish(n *Node) *Node {
	if n == nil {
		return nil
	}
	switch n.Color {
	case Black:
	case Red, DoubleBlack:
		// The root has no parent to be out of balance with, so an excess red
		// or a remaining unit of double blackness is absorbed here.
		n = &Node{Elem: n.Elem, Left: n.Left, Right: n.Right, Color: Black}
	default:
		panic("rbtree: invalid root color " + n.Color.String())
	}
	if debug {
		if err := validate(n); err != nil {
			panic("rbtree: " + err.Error())
		}
	}
	return n
}

// Get returns the element in the Tree equal to q, or nil if there is none.
func (t *Tree) Get(q Comparable) Comparable {
	n := t.Root.search(q)
	if n == nil {
		return nil
	}
	return n.Elem
}

// Contains reports whether the Tree holds an element equal to q.
func (t *Tree) Contains(q Comparable) bool {
	return t.Root.search(q) != nil
}

func (n *Node) search(q Comparable) *Node {
	for n != nil {
		switch c := q.Compare(n.Elem); {
		case c == 0:
			return n
		case c < 0:
			n = n.Left
		default:
			n = n.Right
		}
	}
	return nil
}

// Min returns the minimum value stored in the tree, or nil if the tree is empty.
func (t *Tree) Min() Comparable {
	if t.Root == nil {
		return nil
	}
	return t.Root.min().Elem
}

func (n *Node) min() *Node {
	for ; n.Left != nil; n = n.Left {
	}
	return n
}

// Max returns the maximum value stored in the tree, or nil if the tree is empty.
func (t *Tree) Max() Comparable {
	if t.Root == nil {
		return nil
	}
	return t.Root.max().Elem
}

func (n *Node) max() *Node {
	for ; n.Right != nil; n = n.Right {
	}
	return n
}

// Floor returns the greatest value equal to or less than the query q according to q.Compare().
func (t *Tree) Floor(q Comparable) Comparable {
	var f *Node
	for n := t.Root; n != nil; {
		c := q.Compare(n.Elem)
		if c == 0 {
			return n.Elem
		}
		if c < 0 {
			n = n.Left
			continue
		}
		f, n = n, n.Right
	}
	if f == nil {
		return nil
	}
	return f.Elem
}

// Ceil returns the smallest value equal to or greater than the query q according to q.Compare().
func (t *Tree) Ceil(q Comparable) Comparable {
	var f *Node
	for n := t.Root; n != nil; {
		c := q.Compare(n.Elem)
		if c == 0 {
			return n.Elem
		}
		if c > 0 {
			n = n.Right
			continue
		}
		f, n = n, n.Left
	}
	if f == nil {
		return nil
	}
	return f.Elem
}

// Height returns the number of nodes on the longest path from the root to a leaf.
func (t *Tree) Height() int {
	return t.Root.height()
}

func (n *Node) height() int {
	if n == nil {
		return 0
	}
	l, r := n.Left.height(), n.Right.height()
	if l > r {
		return l + 1
	}
	return r + 1
}
