// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package setio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"unsafe"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/setio/taglen"
	"github.com/spaolacci/murmur3"
)

// A Set is an immutable, sorted set of byte strings, front-coded as
// described in the package documentation. The zero Set is the empty
// set. Sets are values: they may be copied freely, and a finished Set
// is safe for concurrent use by multiple readers.
//
// Sets optimize for memory over lookup speed and are best suited to
// small sets, up to tens of elements.
type Set struct {
	encoded []byte
}

// FromSorted returns the set of the given elements, which must be
// ascending. Consecutive duplicates are inserted only once.
func FromSorted(elems [][]byte) Set {
	b := NewBuilder()
	for _, elem := range elems {
		b.InsertNext(elem)
	}
	return b.Build()
}

// FromSortedStrings is FromSorted for strings.
func FromSortedStrings(elems []string) Set {
	b := NewBuilder()
	for _, elem := range elems {
		b.InsertNext([]byte(elem))
	}
	return b.Build()
}

// FromUnsorted returns the set of the given elements, which need not
// be sorted. Duplicates are inserted only once. The elements are
// sorted by index: payloads are not copied or moved before encoding.
func FromUnsorted(elems [][]byte) Set {
	idx := make([]int, len(elems))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return bytes.Compare(elems[idx[i]], elems[idx[j]]) < 0
	})
	b := NewBuilder()
	for _, i := range idx {
		b.InsertNext(elems[i])
	}
	return b.Build()
}

// FromUnsortedStrings is FromUnsorted for strings.
func FromUnsortedStrings(elems []string) Set {
	idx := make([]int, len(elems))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return elems[idx[i]] < elems[idx[j]]
	})
	b := NewBuilder()
	for _, i := range idx {
		b.InsertNext([]byte(elems[i]))
	}
	return b.Build()
}

// Scanner returns a new scanner positioned before the first element.
func (s Set) Scanner() *Scanner {
	return &Scanner{p: s.encoded}
}

// Empty returns true if the set has no elements.
func (s Set) Empty() bool { return len(s.encoded) == 0 }

// Size returns the number of elements. The count is not stored: Size
// decodes the whole set and costs O(size). Callers that query sizes
// frequently should cache the result.
func (s Set) Size() int {
	var n int
	for sc := s.Scanner(); sc.Scan(); {
		n++
	}
	return n
}

// First returns the first (smallest) element. The set must not be
// empty. The returned slice aliases the set's encoded buffer.
func (s Set) First() []byte {
	if s.Empty() {
		panic("setio: First of empty set")
	}
	// The first entry never has a shared part, so its suffix is the
	// whole element.
	unshared, _, n := taglen.Get(s.encoded)
	return s.encoded[n : n+int(unshared) : n+int(unshared)]
}

// Contains returns true if elem is present in the set. Time
// complexity is O(size).
func (s Set) Contains(elem []byte) bool {
	for sc := s.Scanner(); sc.Scan(); {
		switch cmp := bytes.Compare(sc.Bytes(), elem); {
		case cmp == 0:
			return true
		case cmp > 0:
			// Elements are ascending, so elem cannot appear later.
			return false
		}
	}
	return false
}

// Equal returns true if the two sets contain the same elements.
// Equality is defined over decoded elements: sets with byte-different
// encodings compare equal if they decode to the same sequence.
func (s Set) Equal(t Set) bool {
	ss, ts := s.Scanner(), t.Scanner()
	for {
		sok, tok := ss.Scan(), ts.Scan()
		if !sok || !tok {
			return sok == tok
		}
		if !bytes.Equal(ss.Bytes(), ts.Bytes()) {
			return false
		}
	}
}

// Compare compares two sets as ordered sequences of elements,
// returning -1, 0, or +1. Elements are compared pairwise; if one
// sequence is a proper prefix of the other, the shorter sequence
// orders first.
func (s Set) Compare(t Set) int {
	ss, ts := s.Scanner(), t.Scanner()
	for {
		sok, tok := ss.Scan(), ts.Scan()
		switch {
		case !sok && !tok:
			return 0
		case !sok:
			return -1
		case !tok:
			return 1
		}
		if cmp := bytes.Compare(ss.Bytes(), ts.Bytes()); cmp != 0 {
			return cmp
		}
	}
}

// Hash returns a hash of the set's decoded elements. Equal sets hash
// equally, regardless of how their encodings chose shared lengths.
func (s Set) Hash() uint64 {
	h := murmur3.New64()
	var (
		scratch [binary.MaxVarintLen64]byte
		n       uint64
	)
	for sc := s.Scanner(); sc.Scan(); {
		// Length-prefix each element so that element boundaries
		// contribute to the hash.
		h.Write(scratch[:binary.PutUvarint(scratch[:], uint64(len(sc.Bytes())))])
		h.Write(sc.Bytes())
		n++
	}
	h.Write(scratch[:binary.PutUvarint(scratch[:], n)])
	return h.Sum64()
}

// EstimateMemory estimates the memory footprint of the set in bytes,
// including the Set value itself, for use by memory accounting.
func (s Set) EstimateMemory() int {
	return int(unsafe.Sizeof(s)) + len(s.encoded)
}

// Encoded returns the set's encoded buffer, laid out as described in
// the package documentation. The buffer aliases the set's storage and
// must not be modified; it is suitable for verbatim persistence by a
// surrounding format, and Decode accepts it back.
func (s Set) Encoded() []byte {
	return s.encoded
}

// Decode reconstitutes a set from an encoded buffer, as produced by
// Encoded. The buffer is copied and validated: entries must be well
// formed, shared lengths must not exceed the previous element, and
// elements must be strictly ascending. Malformed input is reported as
// an error of kind errors.Invalid.
func Decode(p []byte) (Set, error) {
	encoded := append([]byte(nil), p...)
	var (
		prev  []byte
		off   int
		first = true
	)
	for off < len(encoded) {
		unshared, hasShared, n := taglen.Get(encoded[off:])
		if n <= 0 {
			return Set{}, errors.E(errors.Invalid,
				fmt.Sprintf("setio: corrupt entry at offset %d: bad tagged length", off))
		}
		off += n
		var shared uint64
		if hasShared {
			if first {
				return Set{}, errors.E(errors.Invalid,
					"setio: corrupt encoding: first entry has a shared length")
			}
			shared, n = binary.Uvarint(encoded[off:])
			if n <= 0 || shared == 0 || shared > uint64(len(prev)) {
				return Set{}, errors.E(errors.Invalid,
					fmt.Sprintf("setio: corrupt entry at offset %d: bad shared length", off))
			}
			off += n
		}
		if unshared > uint64(len(encoded)-off) {
			return Set{}, errors.E(errors.Invalid,
				fmt.Sprintf("setio: corrupt entry at offset %d: truncated suffix", off))
		}
		elem := append(prev[:shared:shared], encoded[off:off+int(unshared)]...)
		off += int(unshared)
		if !first && bytes.Compare(elem, prev) <= 0 {
			return Set{}, errors.E(errors.Invalid,
				fmt.Sprintf("setio: elements out of order: %q follows %q", elem, prev))
		}
		prev = elem
		first = false
	}
	return Set{encoded: encoded}, nil
}
