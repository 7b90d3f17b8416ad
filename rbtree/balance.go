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

// A subtree is the result of a deletion step. It is either a node, the
// empty tree or the double-black empty tree left behind by removing a black
// leaf. The double-black empty tree never outlives a single call to Delete.
type subtree struct {
	node *Node

	// doubleEmpty distinguishes the double-black empty tree from
	// the empty tree. It is only meaningful when node is nil.
	doubleEmpty bool
}

func (t subtree) isDoubleBlack() bool {
	if t.node == nil {
		return t.doubleEmpty
	}
	return t.node.Color == DoubleBlack
}

// redder returns the tree t with its root one step redder.
func (t subtree) redder() *Node {
	n := t.node
	if n == nil {
		if !t.doubleEmpty {
			panic("rbtree: cannot redden the empty tree")
		}
		return nil
	}
	return &Node{Elem: n.Elem, Left: n.Left, Right: n.Right, Color: n.Color.Redder()}
}

// bubble rebuilds a node from the results of a deletion in one of its
// subtrees, moving any double blackness in a child up to the new node.
func bubble(c Color, l subtree, e Comparable, r subtree) subtree {
	if l.isDoubleBlack() || r.isDoubleBlack() {
		return subtree{node: balance(c.Blacker(), l.redder(), e, r.redder())}
	}
	return subtree{node: balance(c, l.node, e, r.node)}
}

// A shape holds the parts of a matched balance pattern: the subtrees a, b, c
// and d and the elements x, y and z in their in-order sequence.
type shape struct {
	a, b, c, d *Node
	x, y, z    Comparable
}

func is(n *Node, c Color) bool { return n != nil && n.Color == c }

// redRun matches a black or double-black node with two red nodes in a row
// below it. The four cases are, in the notation T color left elem right:
//
//  T B (T R (T R a x b) y c) z d
//  T B (T R a x (T R b y c)) z d
//  T B a x (T R (T R b y c) z d)
//  T B a x (T R b y (T R c z d))
func redRun(col Color, l *Node, e Comparable, r *Node) (s shape, ok bool) {
	if col != Black && col != DoubleBlack {
		return s, false
	}
	switch {
	case is(l, Red) && is(l.Left, Red):
		ll := l.Left
		return shape{a: ll.Left, x: ll.Elem, b: ll.Right, y: l.Elem, c: l.Right, z: e, d: r}, true
	case is(l, Red) && is(l.Right, Red):
		lr := l.Right
		return shape{a: l.Left, x: l.Elem, b: lr.Left, y: lr.Elem, c: lr.Right, z: e, d: r}, true
	case is(r, Red) && is(r.Left, Red):
		rl := r.Left
		return shape{a: l, x: e, b: rl.Left, y: rl.Elem, c: rl.Right, z: r.Elem, d: r.Right}, true
	case is(r, Red) && is(r.Right, Red):
		rr := r.Right
		return shape{a: l, x: e, b: r.Left, y: r.Elem, c: rr.Left, z: rr.Elem, d: rr.Right}, true
	}
	return s, false
}

// negativeRight matches
//
//  T BB a x (T NB (T B b y c) z d@(T B _ _ _))
func negativeRight(col Color, l *Node, e Comparable, r *Node) (s shape, ok bool) {
	if col != DoubleBlack || !is(r, NegativeBlack) || !is(r.Left, Black) || !is(r.Right, Black) {
		return s, false
	}
	rl := r.Left
	return shape{a: l, x: e, b: rl.Left, y: rl.Elem, c: rl.Right, z: r.Elem, d: r.Right}, true
}

// negativeLeft matches
//
//  T BB (T NB a@(T B _ _ _) x (T B b y c)) z d
func negativeLeft(col Color, l *Node, e Comparable, r *Node) (s shape, ok bool) {
	if col != DoubleBlack || !is(l, NegativeBlack) || !is(l.Left, Black) || !is(l.Right, Black) {
		return s, false
	}
	lr := l.Right
	return shape{a: l.Left, x: l.Elem, b: lr.Left, y: lr.Elem, c: lr.Right, z: e, d: r}, true
}

// balance returns a node holding l, e and r with color col, restructured
// if it matches one of the local red-black violations left by insertion
// or deletion.
func balance(col Color, l *Node, e Comparable, r *Node) *Node {
	if s, ok := redRun(col, l, e, r); ok {
		// A double-black top is absorbed by the restructuring and
		// leaves a black node in its place.
		return &Node{
			Elem:  s.y,
			Left:  &Node{Elem: s.x, Left: s.a, Right: s.b, Color: Black},
			Right: &Node{Elem: s.z, Left: s.c, Right: s.d, Color: Black},
			Color: col.Redder(),
		}
	}
	if s, ok := negativeRight(col, l, e, r); ok {
		return &Node{
			Elem:  s.y,
			Left:  &Node{Elem: s.x, Left: s.a, Right: s.b, Color: Black},
			Right: balance(Black, s.c, s.z, redden(s.d)),
			Color: Black,
		}
	}
	if s, ok := negativeLeft(col, l, e, r); ok {
		return &Node{
			Elem:  s.y,
			Left:  balance(Black, redden(s.a), s.x, s.b),
			Right: &Node{Elem: s.z, Left: s.c, Right: s.d, Color: Black},
			Color: Black,
		}
	}
	return &Node{Elem: e, Left: l, Right: r, Color: col}
}

func redden(n *Node) *Node {
	return &Node{Elem: n.Elem, Left: n.Left, Right: n.Right, Color: Red}
}
