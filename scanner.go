// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package setio

import (
	"encoding/binary"

	"github.com/grailbio/setio/taglen"
)

// A Scanner iterates over a Set's elements in ascending order.
// Successive calls to Scan decode the next element, which is then
// available through Bytes. Scanners are single-pass: each call to
// Set.Scanner yields an independent cursor, and a Scanner must not
// be copied after its first Scan.
//
// Scanners borrow the Set's encoded buffer, so the Set must outlive
// every Scanner derived from it.
type Scanner struct {
	p      []byte // remaining encoded entries
	cur    []byte // current element; aliases p when shared == 0
	buf    []byte // reconstruction buffer, reused across entries
	shared int
	ok     bool
}

// Scan decodes the next element, returning true on success, after
// which the element is available through Bytes. Scan panics if the
// encoded buffer is corrupt; buffers produced by a Builder or
// accepted by Decode never are.
func (s *Scanner) Scan() bool {
	if len(s.p) == 0 {
		s.cur = nil
		s.shared = 0
		s.ok = false
		return false
	}
	unshared, hasShared, n := taglen.Get(s.p)
	if n <= 0 {
		panic("setio: corrupt set encoding")
	}
	s.p = s.p[n:]
	var shared uint64
	if hasShared {
		shared, n = binary.Uvarint(s.p)
		if n <= 0 || shared == 0 || shared > uint64(len(s.cur)) {
			panic("setio: corrupt set encoding")
		}
		s.p = s.p[n:]
	}
	if unshared > uint64(len(s.p)) {
		panic("setio: corrupt set encoding")
	}
	if shared == 0 {
		// The element is physically contiguous: expose it as a view
		// of the encoded buffer without copying.
		s.cur = s.p[:unshared:unshared]
	} else {
		s.buf = append(s.buf[:0], s.cur[:shared]...)
		s.buf = append(s.buf, s.p[:unshared]...)
		s.cur = s.buf
	}
	s.p = s.p[unshared:]
	s.shared = int(shared)
	s.ok = true
	return true
}

// Bytes returns the current element. It is valid only until the next
// call to Scan, and must be copied if retained. Bytes panics unless
// the previous call to Scan returned true.
func (s *Scanner) Bytes() []byte {
	if !s.ok {
		panic("setio: Bytes without a successful Scan")
	}
	return s.cur
}

// Shared returns a length known to be shared between the current
// element and its predecessor, or 0 for the first element and after
// the final Scan. The value is a hint for merge and skip logic: it is
// not guaranteed to be the longest common prefix.
func (s *Scanner) Shared() int {
	return s.shared
}
