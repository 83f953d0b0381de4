// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package recordio

import (
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/grailbio/setio/taglen"
)

const (
	streamMagic   = 0x9d60f3aa12e40b71
	streamVersion = 1

	streamHeaderSize = 8 + // magic
		1 + // version
		1 // codec

	// Records smaller than this are not worth compressing.
	defaultCompressionThreshold = 512
)

var order = binary.LittleEndian

// A WriteOption represents a tunable writer parameter.
type WriteOption func(*Writer)

// Compression sets the stream's compression codec. The default is
// NoCompression.
func Compression(c Codec) WriteOption {
	return func(w *Writer) {
		w.codec = c
	}
}

// CompressionThreshold sets the minimum record size (in bytes) for
// which compression is attempted. The default is 512.
func CompressionThreshold(n int) WriteOption {
	return func(w *Writer) {
		w.threshold = n
	}
}

// A Writer appends records to a stream. Records are framed
// individually, so a Writer does not buffer: each Append performs
// writes to the underlying io.Writer.
type Writer struct {
	w         io.Writer
	codec     Codec
	threshold int

	scratch     []byte
	wroteHeader bool
}

// NewWriter returns a new Writer that writes a record stream to the
// provided io.Writer. The stream header is written on the first
// Append (or on Close, for an empty stream).
func NewWriter(w io.Writer, opts ...WriteOption) *Writer {
	wr := &Writer{w: w, threshold: defaultCompressionThreshold}
	for _, opt := range opts {
		opt(wr)
	}
	return wr
}

func (w *Writer) writeHeader() error {
	if w.wroteHeader {
		return nil
	}
	var hd [streamHeaderSize]byte
	order.PutUint64(hd[:], streamMagic)
	hd[8] = streamVersion
	hd[9] = uint8(w.codec)
	if _, err := w.w.Write(hd[:]); err != nil {
		return err
	}
	w.wroteHeader = true
	return nil
}

// Append appends one record to the stream. The record may be empty.
func (w *Writer) Append(record []byte) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	payload, compressed := record, false
	if w.codec != NoCompression && len(record) >= w.threshold {
		w.scratch = w.codec.compress(w.scratch[:0], record)
		// Store raw unless compression actually helped.
		if len(w.scratch) < len(record) {
			payload, compressed = w.scratch, true
		}
	}
	var hd [2 * binary.MaxVarintLen64]byte
	n := taglen.Put(hd[:], uint64(len(payload)), compressed)
	if compressed {
		n += binary.PutUvarint(hd[n:], uint64(len(record)))
	}
	if _, err := w.w.Write(hd[:n]); err != nil {
		return err
	}
	if _, err := w.w.Write(payload); err != nil {
		return err
	}
	var check [8]byte
	order.PutUint64(check[:], xxhash.Sum64(payload))
	_, err := w.w.Write(check[:])
	return err
}

// Flush flushes the underlying io.Writer if it supports flushing.
func (w *Writer) Flush() error {
	if f, ok := w.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close completes the stream, writing the header if no records were
// appended. It does not close the underlying io.Writer.
func (w *Writer) Close() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	return w.Flush()
}
