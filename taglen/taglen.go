// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package taglen implements a tagged varint encoding: an unsigned
// length packed together with a boolean flag in the integer's low
// bit, serialized as a standard uvarint. The encoding is used by
// formats that need to mark an optional field's presence without
// spending a separate byte on it.
package taglen

import "encoding/binary"

// MaxLen is the maximum number of bytes Put may write.
const MaxLen = binary.MaxVarintLen64

// Pack returns the tagged integer encoding length n and flag.
func Pack(n uint64, flag bool) uint64 {
	v := n << 1
	if flag {
		v |= 1
	}
	return v
}

// Unpack splits a tagged integer into its length and flag.
func Unpack(v uint64) (n uint64, flag bool) {
	return v >> 1, v&1 != 0
}

// Put encodes length n and flag into p as a uvarint, returning the
// number of bytes written. Put panics if p is too small; p is always
// large enough if len(p) >= MaxLen.
func Put(p []byte, n uint64, flag bool) int {
	return binary.PutUvarint(p, Pack(n, flag))
}

// Get decodes a tagged uvarint from p, returning the length, the
// flag, and the number of bytes read. Like binary.Uvarint, size is 0
// if p is truncated and negative if the value overflows 64 bits.
func Get(p []byte) (n uint64, flag bool, size int) {
	v, size := binary.Uvarint(p)
	if size <= 0 {
		return 0, false, size
	}
	n, flag = Unpack(v)
	return n, flag, size
}
