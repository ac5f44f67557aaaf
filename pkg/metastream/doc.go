// Package metastream implements a byte-stream abstraction over a
// self-linked chain of fixed-size blocks: [MetaBlockWriter] appends bytes
// by allocating new blocks as the current one fills, and [MetaBlockReader]
// walks the chain a writer produced. Each block's payload is laid out as
// [8-byte next_block_id | user bytes] (spec §4.4, §4.4.1, §4.4.2).
//
// Both stream types are single-pass: once a byte has scrolled past, it
// can't be read or written again without reopening the stream.
package metastream
