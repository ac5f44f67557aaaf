package storage

import "github.com/cespare/xxhash/v2"

// fileBufferHeaderSize is the width in bytes of the checksum slot at the
// front of every [FileBuffer]. Locked at 8 for v1.
const fileBufferHeaderSize = 8

// Checksum computes H(payload), the digest [FileBuffer] stamps into its
// checksum slot on write and recomputes on read.
//
// H is xxHash64: deterministic across runs, independent of host endianness
// (the digest itself, not its on-disk encoding, which [FileBuffer] fixes to
// little-endian), and defined over payloads of any length, not just
// multiples of a word size.
func Checksum(payload []byte) uint64 {
	return xxhash.Sum64(payload)
}
