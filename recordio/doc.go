// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
	Package recordio implements a simple framed stream of byte
	records with per-record checksums and optional compression. It is
	the persistence companion to package setio: a finished set's
	encoded buffer can be appended to a record stream verbatim, but
	the framing is agnostic to record contents.

	A stream is a header followed by a sequence of records:

		stream := header record*
		header :=
			magic:   uint64        // little endian, 0x9d60f3aa12e40b71
			version: uint8         // currently 1
			codec:   uint8         // compression codec for the stream
		record :=
			taggedLen: uvarint     // npayload<<1 | compressed
			nrecord:   uvarint     // uncompressed size, iff compressed
			payload:   uint8[npayload]
			check:     uint64      // little endian xxhash64 of payload

	Records below a size threshold, and records that compression does
	not shrink, are stored raw with a clear tag bit regardless of the
	stream's codec. Readers detect truncation by the framing and
	corruption by the checksum.
*/
package recordio
