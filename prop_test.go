// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package setio

import (
	"bytes"
	"sort"
	"testing"

	"pgregory.net/rapid"
)

// TestFromUnsortedProperties checks, for arbitrary multisets, that
// FromUnsorted agrees with FromSorted over the sorted, deduplicated
// elements, and that membership, size, and hashing follow.
func TestFromUnsortedProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elems := rapid.SliceOfN(rapid.SliceOfN(rapid.Byte(), 0, 12), 0, 40).Draw(t, "elems")

		unique := make(map[string]bool, len(elems))
		for _, elem := range elems {
			unique[string(elem)] = true
		}
		sorted := make([][]byte, 0, len(unique))
		for elem := range unique {
			sorted = append(sorted, []byte(elem))
		}
		sort.Slice(sorted, func(i, j int) bool {
			return bytes.Compare(sorted[i], sorted[j]) < 0
		})

		set := FromUnsorted(elems)
		want := FromSorted(sorted)
		if !set.Equal(want) {
			t.Fatalf("got %q, want %q", scanAll(set), scanAll(want))
		}
		if set.Compare(want) != 0 {
			t.Fatalf("equal sets compare unequal")
		}
		if set.Hash() != want.Hash() {
			t.Fatalf("equal sets hash differently")
		}
		if got, want := set.Size(), len(sorted); got != want {
			t.Fatalf("got size %d, want %d", got, want)
		}
		for _, elem := range elems {
			if !set.Contains(elem) {
				t.Fatalf("missing element %q", elem)
			}
		}
		if decoded, err := Decode(set.Encoded()); err != nil {
			t.Fatalf("decode: %v", err)
		} else if !decoded.Equal(set) {
			t.Fatalf("decoded set differs")
		}
	})
}

// TestScannerSharedProperty checks the shared-length hint contract:
// the hinted prefix is genuinely shared with the previous element.
func TestScannerSharedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elems := rapid.SliceOfN(rapid.SliceOfN(rapid.Byte(), 0, 12), 1, 40).Draw(t, "elems")
		var prev []byte
		first := true
		for sc := FromUnsorted(elems).Scanner(); sc.Scan(); {
			elem := append([]byte(nil), sc.Bytes()...)
			shared := sc.Shared()
			if first && shared != 0 {
				t.Fatalf("first element has shared hint %d", shared)
			}
			if shared > len(prev) || shared > len(elem) {
				t.Fatalf("shared hint %d exceeds element lengths %d, %d", shared, len(prev), len(elem))
			}
			if !bytes.Equal(prev[:shared], elem[:shared]) {
				t.Fatalf("hinted prefix %q not shared with %q", elem[:shared], prev)
			}
			prev, first = elem, false
		}
	})
}
