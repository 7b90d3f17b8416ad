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

import (
	"errors"
	"fmt"
)

var (
	errRedRed    = errors.New("red node with red child")
	errUnordered = errors.New("elements out of order")
)

// validate returns an error describing the first red-black tree invariant
// violated by the tree rooted at root.
func validate(root *Node) error {
	if root == nil {
		return nil
	}
	if root.Color != Black {
		return fmt.Errorf("root color %v", root.Color)
	}
	_, err := root.check(nil, nil)
	return err
}

// check returns the black height of the subtree rooted at n after confirming
// that all elements lie strictly between lo and hi, where nil bounds are open.
func (n *Node) check(lo, hi Comparable) (black int, err error) {
	if n == nil {
		return 0, nil
	}
	switch n.Color {
	case Red:
		if is(n.Left, Red) || is(n.Right, Red) {
			return 0, fmt.Errorf("%w at %v", errRedRed, n.Elem)
		}
	case Black:
		black = 1
	default:
		return 0, fmt.Errorf("transient color %v at %v", n.Color, n.Elem)
	}
	if (lo != nil && n.Elem.Compare(lo) <= 0) || (hi != nil && n.Elem.Compare(hi) >= 0) {
		return 0, fmt.Errorf("%w at %v", errUnordered, n.Elem)
	}
	l, err := n.Left.check(lo, n.Elem)
	if err != nil {
		return 0, err
	}
	r, err := n.Right.check(n.Elem, hi)
	if err != nil {
		return 0, err
	}
	if l != r {
		return 0, fmt.Errorf("black height mismatch at %v: %d != %d", n.Elem, l, r)
	}
	return l + black, nil
}
