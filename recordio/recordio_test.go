// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package recordio

import (
	"bytes"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/grailbio/base/errors"
)

func makeRecords(n int) [][]byte {
	fz := fuzz.NewWithSeed(99)
	records := make([][]byte, n)
	for i := range records {
		switch i % 3 {
		case 0:
			fz.Fuzz(&records[i])
		case 1:
			// Compressible content.
			records[i] = bytes.Repeat([]byte("abcdefgh"), i)
		case 2:
			records[i] = nil
		}
	}
	return records
}

func testRoundTrip(t *testing.T, codec Codec) {
	t.Helper()
	records := makeRecords(60)

	var b bytes.Buffer
	w := NewWriter(&b, Compression(codec), CompressionThreshold(16))
	for _, rec := range records {
		if err := w.Append(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	var got [][]byte
	for r.Scan() {
		got = append(got, append([]byte(nil), r.Bytes()...))
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if !bytes.Equal(got[i], records[i]) {
			t.Errorf("record %d: got %d bytes, want %d bytes", i, len(got[i]), len(records[i]))
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, codec := range []Codec{NoCompression, Snappy, Zstd} {
		t.Run(codec.String(), func(t *testing.T) { testRoundTrip(t, codec) })
	}
}

// TestCompressReuse verifies that compression reuses a sufficiently
// large destination buffer rather than allocating a fresh one per
// record.
func TestCompressReuse(t *testing.T) {
	rec := bytes.Repeat([]byte("abcdefgh"), 1<<10)
	for _, codec := range []Codec{Snappy, Zstd} {
		scratch := codec.compress(nil, rec)
		if got := codec.compress(scratch[:0], rec); &got[0] != &scratch[:1][0] {
			t.Errorf("%s: compress did not reuse destination buffer", codec)
		}
	}
}

func TestCompressionShrinks(t *testing.T) {
	rec := bytes.Repeat([]byte("abcdefgh"), 1<<10)
	size := func(codec Codec) int {
		var b bytes.Buffer
		w := NewWriter(&b, Compression(codec))
		if err := w.Append(rec); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		return b.Len()
	}
	raw := size(NoCompression)
	for _, codec := range []Codec{Snappy, Zstd} {
		if got := size(codec); got >= raw {
			t.Errorf("%s stream of %d bytes not smaller than raw %d", codec, got, raw)
		}
	}
}

func TestEmptyStream(t *testing.T) {
	var b bytes.Buffer
	w := NewWriter(&b)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got, want := b.Len(), streamHeaderSize; got != want {
		t.Errorf("got %d header bytes, want %d", got, want)
	}
	r, err := NewReader(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if r.Scan() {
		t.Error("scanned a record from an empty stream")
	}
	if err := r.Err(); err != nil {
		t.Error(err)
	}
}

func TestBadMagic(t *testing.T) {
	var b bytes.Buffer
	w := NewWriter(&b)
	if err := w.Append([]byte("x")); err != nil {
		t.Fatal(err)
	}
	p := b.Bytes()
	p[0] ^= 0xff
	if _, err := NewReader(bytes.NewReader(p)); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestCorruptPayload(t *testing.T) {
	var b bytes.Buffer
	w := NewWriter(&b)
	if err := w.Append([]byte("some record contents")); err != nil {
		t.Fatal(err)
	}
	p := b.Bytes()
	p[streamHeaderSize+3] ^= 0x01
	r, err := NewReader(bytes.NewReader(p))
	if err != nil {
		t.Fatal(err)
	}
	if r.Scan() {
		t.Fatal("scanned a corrupt record")
	}
	if !errors.Is(errors.Integrity, r.Err()) {
		t.Errorf("got error %v, want kind integrity", r.Err())
	}
}

func TestTruncatedStream(t *testing.T) {
	var b bytes.Buffer
	w := NewWriter(&b)
	if err := w.Append([]byte("some record contents")); err != nil {
		t.Fatal(err)
	}
	p := b.Bytes()[:b.Len()-4]
	r, err := NewReader(bytes.NewReader(p))
	if err != nil {
		t.Fatal(err)
	}
	if r.Scan() {
		t.Fatal("scanned a truncated record")
	}
	if r.Err() == nil {
		t.Error("expected error for truncated stream")
	}
}
