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

package snapshot

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"google.golang.org/protobuf/encoding/protowire"
	check "gopkg.in/check.v1"

	"github.com/biogo/immutable/rbtree"
)

type compInt int

func (ci compInt) Compare(i rbtree.Comparable) int {
	return int(ci) - int(i.(compInt))
}

var errNegative = errors.New("negative value")

type intCodec struct{}

func (intCodec) Marshal(e rbtree.Comparable) ([]byte, error) {
	v := int(e.(compInt))
	if v < 0 {
		return nil, errNegative
	}
	return binary.AppendVarint(nil, int64(v)), nil
}

func (intCodec) Unmarshal(b []byte) (rbtree.Comparable, error) {
	v, n := binary.Varint(b)
	if n <= 0 || n != len(b) {
		return nil, errors.Newf("bad varint %x", b)
	}
	return compInt(v), nil
}

func elems(t rbtree.Tree) []int {
	var e []int
	for it := t.InOrder(); it.Next(); {
		e = append(e, int(it.Elem().(compInt)))
	}
	return e
}

func ints(t rbtree.Tree, vals ...int) rbtree.Tree {
	for _, v := range vals {
		t.Insert(compInt(v))
	}
	return t
}

// Tests
func Test(t *testing.T) { check.TestingT(t) }

type S struct {
	store *Store
}

var _ = check.Suite(&S{})

func (s *S) SetUpTest(c *check.C) {
	var err error
	s.store, err = Open("snapshots", intCodec{}, &pebble.Options{FS: vfs.NewMem()})
	c.Assert(err, check.IsNil)
}

func (s *S) TearDownTest(c *check.C) {
	c.Check(s.store.Close(), check.IsNil)
}

func (s *S) TestManifest(c *check.C) {
	m := manifest{version: formatVersion, count: 1 << 40}
	got, err := unmarshalManifest(m.marshal())
	c.Check(err, check.IsNil)
	c.Check(got, check.Equals, m)

	_, err = unmarshalManifest(manifest{version: 7}.marshal())
	c.Check(errors.Is(err, ErrCorrupt), check.Equals, true)
	_, err = unmarshalManifest([]byte{0x08})
	c.Check(errors.Is(err, ErrCorrupt), check.Equals, true)

	// Unknown fields are skipped.
	b := protowire.AppendTag(m.marshal(), 9, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("note"))
	got, err = unmarshalManifest(b)
	c.Check(err, check.IsNil)
	c.Check(got, check.Equals, m)
}

func (s *S) TestRoundTrip(c *check.C) {
	var t rbtree.Tree
	for _, v := range rand.Perm(1000) {
		t.Insert(compInt(v))
	}
	c.Assert(s.store.Write("perm", t), check.IsNil)
	got, err := s.store.Read("perm")
	c.Assert(err, check.IsNil)
	c.Check(got.Len(), check.Equals, 1000)
	c.Check(elems(got), check.DeepEquals, elems(t))
}

func (s *S) TestEmpty(c *check.C) {
	c.Assert(s.store.Write("empty", rbtree.Tree{}), check.IsNil)
	got, err := s.store.Read("empty")
	c.Check(err, check.IsNil)
	c.Check(got, check.DeepEquals, rbtree.Tree{})
}

func (s *S) TestVersions(c *check.C) {
	v1 := ints(rbtree.Tree{}, 5, 3, 8, 1, 4)
	v2 := v1
	v2.Delete(compInt(3))
	v2.Insert(compInt(9))

	c.Assert(s.store.Write("v1", v1), check.IsNil)
	c.Assert(s.store.Write("v2", v2), check.IsNil)

	got, err := s.store.Read("v1")
	c.Check(err, check.IsNil)
	c.Check(elems(got), check.DeepEquals, []int{1, 3, 4, 5, 8})
	got, err = s.store.Read("v2")
	c.Check(err, check.IsNil)
	c.Check(elems(got), check.DeepEquals, []int{1, 4, 5, 8, 9})
}

func (s *S) TestOverwrite(c *check.C) {
	var big rbtree.Tree
	for i := 0; i < 100; i++ {
		big.Insert(compInt(i))
	}
	c.Assert(s.store.Write("a", big), check.IsNil)
	c.Assert(s.store.Write("a", ints(rbtree.Tree{}, 7, 2)), check.IsNil)
	got, err := s.store.Read("a")
	c.Check(err, check.IsNil)
	c.Check(elems(got), check.DeepEquals, []int{2, 7})
}

func (s *S) TestNames(c *check.C) {
	names, err := s.store.Names()
	c.Check(err, check.IsNil)
	c.Check(names, check.HasLen, 0)

	for _, n := range []string{"b", "a-x", "a", "c"} {
		c.Assert(s.store.Write(n, ints(rbtree.Tree{}, 1, 2, 3)), check.IsNil)
	}
	names, err = s.store.Names()
	c.Check(err, check.IsNil)
	c.Check(names, check.DeepEquals, []string{"a", "a-x", "b", "c"})

	c.Check(s.store.Remove("b"), check.IsNil)
	names, err = s.store.Names()
	c.Check(err, check.IsNil)
	c.Check(names, check.DeepEquals, []string{"a", "a-x", "c"})

	c.Check(errors.Is(s.store.Remove("b"), ErrNotFound), check.Equals, true)
	_, err = s.store.Read("b")
	c.Check(errors.Is(err, ErrNotFound), check.Equals, true)
	got, err := s.store.Read("a")
	c.Check(err, check.IsNil)
	c.Check(elems(got), check.DeepEquals, []int{1, 2, 3})
}

func (s *S) TestBadName(c *check.C) {
	for _, n := range []string{"", "a/b", "/"} {
		c.Check(errors.Is(s.store.Write(n, rbtree.Tree{}), ErrBadName), check.Equals, true, check.Commentf("%q", n))
		_, err := s.store.Read(n)
		c.Check(errors.Is(err, ErrBadName), check.Equals, true, check.Commentf("%q", n))
		c.Check(errors.Is(s.store.Remove(n), ErrBadName), check.Equals, true, check.Commentf("%q", n))
	}
}

func (s *S) TestMarshalError(c *check.C) {
	err := s.store.Write("neg", ints(rbtree.Tree{}, 1, -1, 2))
	c.Check(errors.Is(err, errNegative), check.Equals, true)
	_, err = s.store.Read("neg")
	c.Check(errors.Is(err, ErrNotFound), check.Equals, true)
}

func (s *S) TestCorrupt(c *check.C) {
	c.Assert(s.store.Write("a", ints(rbtree.Tree{}, 1, 2, 3)), check.IsNil)

	m := manifest{version: formatVersion, count: 5}
	c.Assert(s.store.db.Set(manifestKey("a"), m.marshal(), pebble.Sync), check.IsNil)
	_, err := s.store.Read("a")
	c.Check(errors.Is(err, ErrCorrupt), check.Equals, true)

	m.count = 3
	c.Assert(s.store.db.Set(manifestKey("a"), m.marshal(), pebble.Sync), check.IsNil)
	_, err = s.store.Read("a")
	c.Check(err, check.IsNil)

	v, err := intCodec{}.Marshal(compInt(0))
	c.Assert(err, check.IsNil)
	c.Assert(s.store.db.Set(elemKey("a", 2), v, pebble.Sync), check.IsNil)
	_, err = s.store.Read("a")
	c.Check(errors.Is(err, ErrCorrupt), check.Equals, true)

	c.Assert(s.store.db.Set(elemKey("a", 2), []byte{0x80}, pebble.Sync), check.IsNil)
	_, err = s.store.Read("a")
	c.Check(err, check.ErrorMatches, `snapshot: unmarshal element 2 of "a": bad varint 80`)
}
