// Package blockmanager implements the allocator and reader/writer of
// fixed-size pages over a [pkg/storage.FileHandle]: free-list accounting,
// used-block tracking, and the atomic dual-header checkpoint protocol that
// makes a BlockManager's on-disk state recoverable after a crash (spec §3,
// §4.3, §6).
package blockmanager
