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

// Package shared provides a holder for the latest version of a persistent
// red-black tree that is read and updated by many goroutines.
//
// Readers load the current version without locking and may keep using it
// for as long as they like. Writers derive a new version from the one they
// loaded and publish it with a compare-and-swap, deriving again from the
// newer version if another writer published first.
package shared

import (
	"sync/atomic"

	"github.com/biogo/immutable/rbtree"
)

type version struct {
	tree  rbtree.Tree
	epoch uint64
}

// A Set holds the canonical version of a tree. The zero Set holds the empty
// tree at epoch zero.
type Set struct {
	latest atomic.Pointer[version]
}

// New returns a Set holding t at epoch zero.
func New(t rbtree.Tree) *Set {
	s := &Set{}
	s.latest.Store(&version{tree: t})
	return s
}

// Load returns the current version and its epoch. The epoch is advanced by
// one for each version published.
func (s *Set) Load() (t rbtree.Tree, epoch uint64) {
	v := s.latest.Load()
	if v == nil {
		return rbtree.Tree{}, 0
	}
	return v.tree, v.epoch
}

// Update calls fn with a copy of the current version and publishes the
// result if fn returns true. If another version was published in the
// meantime, fn is called again with a copy of that version, so fn must
// depend only on the tree it is given. Update returns the epoch of the
// version fn last saw or published and whether it published.
func (s *Set) Update(fn func(t *rbtree.Tree) bool) (epoch uint64, published bool) {
	for {
		old := s.latest.Load()
		var next version
		if old != nil {
			next = *old
		}
		if !fn(&next.tree) {
			return next.epoch, false
		}
		next.epoch++
		if s.latest.CompareAndSwap(old, &next) {
			return next.epoch, true
		}
	}
}

// Insert inserts e into the current version, reporting whether e was
// inserted. A duplicate does not publish a new version.
func (s *Set) Insert(e rbtree.Comparable) bool {
	_, ok := s.Update(func(t *rbtree.Tree) bool { return t.Insert(e) })
	return ok
}

// Delete deletes e from the current version, reporting whether it was
// present. An absent element does not publish a new version.
func (s *Set) Delete(e rbtree.Comparable) bool {
	_, ok := s.Update(func(t *rbtree.Tree) bool { return t.Delete(e) })
	return ok
}

// Contains reports whether the current version holds an element equal to e.
func (s *Set) Contains(e rbtree.Comparable) bool {
	t, _ := s.Load()
	return t.Contains(e)
}

// Len returns the number of elements in the current version.
func (s *Set) Len() int {
	t, _ := s.Load()
	return t.Len()
}
