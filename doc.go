// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
	Package setio implements compact, immutable sorted sets of byte
	strings, front-coded to exploit shared prefixes, together with the
	streaming plumbing needed to persist them. Sets are built once, in
	ascending order, by a Builder; a finished Set supports ordered
	iteration, membership tests, equality, ordering, and hashing, all
	defined over the decoded elements.

	A Set's encoding is a single contiguous buffer holding a sequence
	of entries, each representing one element relative to its
	predecessor:

		set := entry*
		entry :=
			taggedLen: uvarint           // nunshared<<1 | (nshared > 0)
			nshared:   uvarint           // bytes shared with previous element,
			                             // present only when the tag bit is set
			unshared:  uint8[nunshared]  // the element's remaining suffix

	The first entry always has a clear tag bit (there is no
	predecessor). An element equal to its predecessor is never encoded:
	the Builder absorbs duplicate inserts. The recorded shared length
	need not be the longest common prefix; decoders use the stored
	value as is, so byte-different encodings may describe equal sets.
	Set equality, ordering and hashing are therefore defined over
	decoded elements, never over raw encodings.

	Front coding favors memory over speed: membership tests and size
	queries decode entries linearly. Sets are intended to be small
	static membership indexes (a table's known field names, a chunk's
	key universe), not general-purpose containers.

	Subpackage recordio frames finished encodings (or any other byte
	records) into a checksummed, optionally compressed stream;
	subpackages taglen and bytebuf hold the tagged-varint and buffer
	primitives the encoding is built from.
*/
package setio
