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
	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const formatVersion = 1

// A manifest describes a stored snapshot. It is encoded in the protocol
// buffer wire format as
//
//  message Manifest {
//      uint64 version = 1;
//      uint64 count = 2;
//  }
type manifest struct {
	version uint64
	count   uint64
}

const (
	versionField protowire.Number = 1
	countField   protowire.Number = 2
)

func (m manifest) marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, versionField, protowire.VarintType)
	b = protowire.AppendVarint(b, m.version)
	b = protowire.AppendTag(b, countField, protowire.VarintType)
	b = protowire.AppendVarint(b, m.count)
	return b
}

func unmarshalManifest(b []byte) (m manifest, err error) {
	for len(b) != 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return m, errors.Wrap(ErrCorrupt, protowire.ParseError(n).Error())
		}
		b = b[n:]
		if typ != protowire.VarintType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return m, errors.Wrap(ErrCorrupt, protowire.ParseError(n).Error())
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return m, errors.Wrap(ErrCorrupt, protowire.ParseError(n).Error())
		}
		b = b[n:]
		switch num {
		case versionField:
			m.version = v
		case countField:
			m.count = v
		}
	}
	if m.version != formatVersion {
		return m, errors.Wrapf(ErrCorrupt, "unknown manifest version %d", m.version)
	}
	return m, nil
}
