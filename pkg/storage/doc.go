// Package storage provides the low-level, checksummed I/O primitives the
// block store is built on: a polymorphic [FileHandle] capability over a
// seekable byte store, and [FileBuffer], a block-aligned staging buffer
// that stamps and verifies an 8-byte checksum on every read and write.
//
// Nothing in this package understands pages, free lists, or checkpoints —
// that lives one layer up, in pkg/blockmanager. storage exists so that
// layer can be written against an interface instead of *os.File.
package storage
