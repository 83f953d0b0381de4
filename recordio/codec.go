// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package recordio

import (
	"fmt"
	"sync"

	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/klauspost/compress/zstd"
)

// A Codec identifies the compression applied to a stream's records.
type Codec uint8

const (
	// NoCompression stores records raw.
	NoCompression Codec = iota
	// Snappy compresses records with snappy block encoding.
	Snappy
	// Zstd compresses records with zstandard.
	Zstd

	maxCodec = Zstd
)

// String returns the codec's name.
func (c Codec) String() string {
	switch c {
	case NoCompression:
		return "none"
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// The zstd encoder and decoder are stateless in EncodeAll/DecodeAll
// mode and safe for concurrent use, so a single lazily created pair
// serves all streams.
var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func zstdInit() {
	zstdOnce.Do(func() {
		zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	})
}

// compress returns the codec's encoding of p, appended to dst.
func (c Codec) compress(dst, p []byte) []byte {
	switch c {
	case Snappy:
		// snappy sizes its destination by len, not cap.
		return snappy.Encode(dst[:cap(dst)], p)
	case Zstd:
		zstdInit()
		return zstdEncoder.EncodeAll(p, dst)
	default:
		panic("recordio: compress with codec " + c.String())
	}
}

// decompress reverses compress, verifying that the output has the
// framed uncompressed size.
func (c Codec) decompress(p []byte, size int) ([]byte, error) {
	var (
		q   []byte
		err error
	)
	switch c {
	case Snappy:
		q, err = snappy.Decode(nil, p)
	case Zstd:
		zstdInit()
		q, err = zstdDecoder.DecodeAll(p, make([]byte, 0, size))
	default:
		return nil, errors.E(errors.Invalid,
			fmt.Sprintf("recordio: compressed record in %s stream", c))
	}
	if err != nil {
		return nil, errors.E(errors.Integrity, err, "recordio: corrupt compressed record")
	}
	if len(q) != size {
		return nil, errors.E(errors.Integrity,
			fmt.Sprintf("recordio: decompressed %d bytes, expected %d", len(q), size))
	}
	return q, nil
}
