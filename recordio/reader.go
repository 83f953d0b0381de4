// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package recordio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/setio/taglen"
)

// maxRecordSize bounds the size of a single framed payload, guarding
// against pathological allocations from corrupt length fields.
const maxRecordSize = 1 << 30

// A Reader reads records from a stream produced by a Writer.
// Successive calls to Scan return the next record through Bytes;
// when Scan returns false the caller should inspect Err to
// distinguish stream completion from corruption.
type Reader struct {
	r     *bufio.Reader
	codec Codec

	payload []byte
	rec     []byte
	err     error
}

// NewReader returns a new Reader reading a record stream from the
// provided io.Reader. NewReader fails if the stream header is
// missing or malformed.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{r: bufio.NewReader(r)}
	var hd [streamHeaderSize]byte
	if _, err := io.ReadFull(rd.r, hd[:]); err != nil {
		return nil, errors.E(errors.Invalid, err, "recordio: missing stream header")
	}
	if magic := order.Uint64(hd[:]); magic != streamMagic {
		return nil, errors.E(errors.Invalid,
			fmt.Sprintf("recordio: bad magic %#x", magic))
	}
	if version := hd[8]; version != streamVersion {
		return nil, errors.E(errors.NotSupported,
			fmt.Sprintf("recordio: unsupported stream version %d", version))
	}
	rd.codec = Codec(hd[9])
	if rd.codec > maxCodec {
		return nil, errors.E(errors.NotSupported,
			fmt.Sprintf("recordio: unsupported codec %d", uint8(rd.codec)))
	}
	log.Debug.Printf("recordio: open stream version=%d codec=%s", hd[8], rd.codec)
	return rd, nil
}

// Scan reads the next record, returning true on success, after which
// the record is available through Bytes.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	// A clean EOF at a record boundary ends the stream; anything
	// else mid-record is corruption.
	if _, err := r.r.Peek(1); err == io.EOF {
		return false
	}
	v, err := binary.ReadUvarint(r.r)
	if err != nil {
		r.err = errors.E(errors.Invalid, err, "recordio: truncated record header")
		return false
	}
	size, compressed := taglen.Unpack(v)
	if size > maxRecordSize {
		r.err = errors.E(errors.Invalid,
			fmt.Sprintf("recordio: record payload of %d bytes exceeds limit", size))
		return false
	}
	var nrecord uint64
	if compressed {
		if nrecord, err = binary.ReadUvarint(r.r); err != nil {
			r.err = errors.E(errors.Invalid, err, "recordio: truncated record header")
			return false
		}
		if nrecord > maxRecordSize {
			r.err = errors.E(errors.Invalid,
				fmt.Sprintf("recordio: record of %d bytes exceeds limit", nrecord))
			return false
		}
	}
	if uint64(cap(r.payload)) < size {
		r.payload = make([]byte, size)
	} else {
		r.payload = r.payload[:size]
	}
	if _, err = io.ReadFull(r.r, r.payload); err != nil {
		r.err = errors.E(errors.Invalid, err, "recordio: truncated record")
		return false
	}
	var check [8]byte
	if _, err = io.ReadFull(r.r, check[:]); err != nil {
		r.err = errors.E(errors.Invalid, err, "recordio: truncated record checksum")
		return false
	}
	if got, want := xxhash.Sum64(r.payload), order.Uint64(check[:]); got != want {
		r.err = errors.E(errors.Integrity,
			fmt.Sprintf("recordio: record checksum %#x does not match %#x", got, want))
		return false
	}
	if compressed {
		if r.rec, r.err = r.codec.decompress(r.payload, int(nrecord)); r.err != nil {
			return false
		}
	} else {
		r.rec = r.payload
	}
	return true
}

// Bytes returns the last scanned record. It is valid only until the
// next call to Scan.
func (r *Reader) Bytes() []byte {
	return r.rec
}

// Err returns the last error encountered while scanning, if any.
func (r *Reader) Err() error {
	return r.err
}
