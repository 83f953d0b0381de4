// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package setio

// An Inserter inserts elements into a Builder. It exists so that
// generic producer code can copy a sequence of elements into a
// builder without depending on the Builder type itself. The
// elements inserted through an Inserter and through direct
// InsertNext calls form one combined sequence, which must be
// ordered.
type Inserter struct {
	b *Builder
}

// Inserter returns an Inserter bound to this builder.
func (b *Builder) Inserter() Inserter {
	return Inserter{b}
}

// Insert inserts the next element, returning true if the element was
// inserted, or false if it is equal to the last inserted element.
func (in Inserter) Insert(elem []byte) bool {
	return in.b.InsertNext(elem)
}
