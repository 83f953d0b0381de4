// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package bytebuf implements a growable byte buffer that can be
// frozen into an immutable byte slice without copying. It is intended
// for encoders that accumulate output incrementally and then hand
// the finished encoding off to a read-only owner.
package bytebuf

import (
	"encoding/binary"

	"github.com/grailbio/base/must"
)

// A Buffer accumulates bytes with amortized-cost appends. The zero
// Buffer is an empty buffer ready for use. Buffers must not be copied
// after first use, and must not be appended to after Freeze.
type Buffer struct {
	p      []byte
	frozen bool
}

// Len returns the number of bytes accumulated so far.
func (b *Buffer) Len() int { return len(b.p) }

// Bytes returns the accumulated bytes. The returned slice aliases the
// buffer's storage and is valid only until the next append.
func (b *Buffer) Bytes() []byte { return b.p }

// Grow ensures capacity for at least n more bytes.
func (b *Buffer) Grow(n int) {
	if cap(b.p)-len(b.p) >= n {
		return
	}
	q := make([]byte, len(b.p), 2*cap(b.p)+n)
	copy(q, b.p)
	b.p = q
}

// Append appends p to the buffer.
func (b *Buffer) Append(p []byte) {
	must.Truef(!b.frozen, "append to frozen buffer")
	b.p = append(b.p, p...)
}

// AppendByte appends a single byte to the buffer.
func (b *Buffer) AppendByte(c byte) {
	must.Truef(!b.frozen, "append to frozen buffer")
	b.p = append(b.p, c)
}

// AppendUvarint appends the uvarint encoding of v to the buffer.
func (b *Buffer) AppendUvarint(v uint64) {
	must.Truef(!b.frozen, "append to frozen buffer")
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], v)
	b.p = append(b.p, scratch[:n]...)
}

// Freeze returns the accumulated bytes without copying and marks the
// buffer frozen: any further append panics. The returned slice is
// owned by the caller, which must treat it as immutable.
func (b *Buffer) Freeze() []byte {
	b.frozen = true
	return b.p
}

// Reset restores the buffer to its empty, unfrozen state, releasing
// any frozen storage to its owner.
func (b *Buffer) Reset() {
	b.p = nil
	b.frozen = false
}
