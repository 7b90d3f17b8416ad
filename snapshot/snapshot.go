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

// Package snapshot stores versions of persistent red-black trees in a Pebble
// database.
//
// A stored snapshot holds the elements of a tree version in ascending order
// under its name together with a manifest recording the element count. Reading
// a snapshot rebuilds the tree by insertion, so the stored form does not
// depend on the shape of the tree it was taken from.
package snapshot

import (
	"encoding/binary"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"

	"github.com/biogo/immutable/rbtree"
)

var (
	ErrNotFound = errors.New("snapshot: not found")
	ErrBadName  = errors.New("snapshot: invalid name")
	ErrCorrupt  = errors.New("snapshot: corrupt snapshot")
)

// A Codec converts tree elements to and from their stored form.
type Codec interface {
	Marshal(rbtree.Comparable) ([]byte, error)
	Unmarshal([]byte) (rbtree.Comparable, error)
}

// A Store holds named snapshots.
type Store struct {
	db    *pebble.DB
	codec Codec
}

// Open opens the store in dir, creating it if needed. A nil opts uses the
// Pebble defaults.
func Open(dir string, codec Codec, opts *pebble.Options) (*Store, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: open %s", dir)
	}
	return &Store{db: db, codec: codec}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key layout:
//
//  s/<name>/            manifest
//  s/<name>/e<index>    element, index as a big-endian uint64
const root = "s/"

func checkName(name string) error {
	if name == "" || strings.ContainsRune(name, '/') {
		return errors.Wrapf(ErrBadName, "%q", name)
	}
	return nil
}

func manifestKey(name string) []byte { return []byte(root + name + "/") }

func elemKey(name string, i uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte(root+name+"/e"), i)
}

// elemBounds returns the key range holding the elements of name.
func elemBounds(name string) (lo, hi []byte) {
	return []byte(root + name + "/e"), []byte(root + name + "/f")
}

// bounds returns the key range holding all keys of name.
func bounds(name string) (lo, hi []byte) {
	return []byte(root + name + "/"), []byte(root + name + "0")
}

// Write stores the elements of t under name, replacing any snapshot
// already held with that name. The write is synced before Write returns.
func (s *Store) Write(name string, t rbtree.Tree) error {
	if err := checkName(name); err != nil {
		return err
	}
	b := s.db.NewBatch()
	defer b.Close()

	lo, hi := bounds(name)
	if err := b.DeleteRange(lo, hi, nil); err != nil {
		return errors.Wrapf(err, "snapshot: clear %q", name)
	}
	var (
		n   uint64
		err error
	)
	t.Do(func(e rbtree.Comparable) (done bool) {
		var v []byte
		v, err = s.codec.Marshal(e)
		if err != nil {
			err = errors.Wrapf(err, "snapshot: marshal element %d of %q", n, name)
			return true
		}
		err = b.Set(elemKey(name, n), v, nil)
		if err != nil {
			err = errors.Wrapf(err, "snapshot: write element %d of %q", n, name)
			return true
		}
		n++
		return false
	})
	if err != nil {
		return err
	}
	m := manifest{version: formatVersion, count: n}
	if err := b.Set(manifestKey(name), m.marshal(), nil); err != nil {
		return errors.Wrapf(err, "snapshot: write manifest of %q", name)
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return errors.Wrapf(err, "snapshot: commit %q", name)
	}
	return nil
}

// Read rebuilds the tree stored under name.
func (s *Store) Read(name string) (rbtree.Tree, error) {
	if err := checkName(name); err != nil {
		return rbtree.Tree{}, err
	}
	m, err := s.manifest(name)
	if err != nil {
		return rbtree.Tree{}, err
	}

	lo, hi := elemBounds(name)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return rbtree.Tree{}, errors.Wrapf(err, "snapshot: read %q", name)
	}
	defer iter.Close()

	var (
		t    rbtree.Tree
		prev rbtree.Comparable
	)
	for iter.First(); iter.Valid(); iter.Next() {
		e, err := s.codec.Unmarshal(append([]byte(nil), iter.Value()...))
		if err != nil {
			return rbtree.Tree{}, errors.Wrapf(err, "snapshot: unmarshal element %d of %q", t.Len(), name)
		}
		if prev != nil && prev.Compare(e) >= 0 {
			return rbtree.Tree{}, errors.Wrapf(ErrCorrupt, "%q: element %d out of order", name, t.Len())
		}
		t.Insert(e)
		prev = e
	}
	if err := iter.Error(); err != nil {
		return rbtree.Tree{}, errors.Wrapf(err, "snapshot: read %q", name)
	}
	if uint64(t.Len()) != m.count {
		return rbtree.Tree{}, errors.Wrapf(ErrCorrupt, "%q: holds %d elements, manifest records %d", name, t.Len(), m.count)
	}
	return t, nil
}

func (s *Store) manifest(name string) (manifest, error) {
	v, closer, err := s.db.Get(manifestKey(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return manifest{}, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return manifest{}, errors.Wrapf(err, "snapshot: read manifest of %q", name)
	}
	defer closer.Close()
	m, err := unmarshalManifest(v)
	if err != nil {
		return manifest{}, errors.Wrapf(err, "%q", name)
	}
	return m, nil
}

// Remove deletes the snapshot stored under name.
func (s *Store) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, err := s.manifest(name); err != nil {
		return err
	}
	lo, hi := bounds(name)
	if err := s.db.DeleteRange(lo, hi, pebble.Sync); err != nil {
		return errors.Wrapf(err, "snapshot: remove %q", name)
	}
	return nil
}

// Names returns the names of the stored snapshots in ascending order.
func (s *Store) Names() ([]string, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(root),
		UpperBound: []byte("s0"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: list")
	}
	defer iter.Close()

	var names []string
	for valid := iter.First(); valid; {
		key := string(iter.Key()[len(root):])
		name, rest, ok := strings.Cut(key, "/")
		if !ok {
			return nil, errors.Wrapf(ErrCorrupt, "unexpected key %q", root+key)
		}
		// The manifest sorts before the elements of its snapshot.
		if rest == "" {
			names = append(names, name)
		}
		_, hi := bounds(name)
		valid = iter.SeekGE(hi)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "snapshot: list")
	}
	sort.Strings(names)
	return names, nil
}
