// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package setio

import (
	"bytes"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/must"
	"github.com/grailbio/setio/bytebuf"
	"github.com/grailbio/setio/taglen"
)

// A Builder accumulates elements of a Set. Elements must be appended
// in ascending order; consecutive duplicates are inserted only once.
// Build finishes the set, after which the Builder must not be reused
// (except through Reset). Builders are not safe for concurrent use.
//
// The zero Builder is an empty builder ready for use.
type Builder struct {
	buf  bytebuf.Buffer
	last []byte
	done bool
}

// NewBuilder returns a new, empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// InsertNext inserts an element. The element must be greater than or
// equal to the last inserted element, or else InsertNext panics.
// InsertNext returns true if the element was inserted, or false if it
// is equal to the last inserted element.
func (b *Builder) InsertNext(elem []byte) bool {
	inserted, err := b.insert(elem)
	if err != nil {
		panic(fmt.Sprintf("setio: element %q inserted out of order after %q", elem, b.last))
	}
	return inserted
}

// TryInsertNext inserts an element like InsertNext, but an element
// smaller than the last inserted element is reported as an error of
// kind errors.Precondition, leaving the builder unchanged, so that the
// caller may skip or abort an unordered ingestion stream.
func (b *Builder) TryInsertNext(elem []byte) (bool, error) {
	return b.insert(elem)
}

func (b *Builder) insert(elem []byte) (bool, error) {
	must.Truef(!b.done, "insert after Build")
	var shared int
	if b.buf.Len() > 0 {
		switch cmp := bytes.Compare(elem, b.last); {
		case cmp < 0:
			return false, errors.E(errors.Precondition,
				fmt.Sprintf("setio: element %q out of order after %q", elem, b.last))
		case cmp == 0:
			return false, nil
		}
		shared = sharedPrefix(b.last, elem)
	}
	unshared := len(elem) - shared
	b.buf.Grow(2*taglen.MaxLen + unshared)
	var scratch [taglen.MaxLen]byte
	n := taglen.Put(scratch[:], uint64(unshared), shared > 0)
	b.buf.Append(scratch[:n])
	if shared > 0 {
		b.buf.AppendUvarint(uint64(shared))
	}
	b.buf.Append(elem[shared:])
	// b.last[:shared] and elem[:shared] are identical, so truncating
	// and appending the suffix reuses last's storage.
	b.last = append(b.last[:shared], elem[shared:]...)
	return true, nil
}

// Empty returns true if no elements have been inserted.
func (b *Builder) Empty() bool { return b.buf.Len() == 0 }

// Last returns the last inserted element. The builder must not be
// empty. The returned slice is owned by the builder and is valid only
// until the next insert.
func (b *Builder) Last() []byte {
	must.Truef(b.buf.Len() > 0, "Last of empty builder")
	return b.last
}

// Build finishes the set. No more elements can be inserted: any use
// of the builder after Build, other than Reset, panics.
func (b *Builder) Build() Set {
	must.Truef(!b.done, "Build after Build")
	b.done = true
	return Set{encoded: b.buf.Freeze()}
}

// Reset restores the builder to its initial, empty state.
func (b *Builder) Reset() {
	b.buf.Reset()
	b.last = nil
	b.done = false
}

// sharedPrefix returns the length of the longest common prefix of a
// and b. Maximal shared lengths give the most compact encoding; see
// the package documentation.
func sharedPrefix(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var i int
	for i = 0; i < n; i++ {
		if a[i] != b[i] {
			break
		}
	}
	return i
}
