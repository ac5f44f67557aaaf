package blockmanager

import "errors"

// ErrVersionMismatch indicates the MasterHeader's version field doesn't
// equal [VersionNumber]. The file was created by an incompatible version
// of this format.
var ErrVersionMismatch = errors.New("blockmanager: version mismatch")

// ErrCorruptDatabase indicates both DatabaseHeader slots failed checksum
// verification, or a meta-stream walked off a known-invalid id. A single
// corrupted DatabaseHeader is tolerated (spec §7); both corrupted is fatal.
var ErrCorruptDatabase = errors.New("blockmanager: corrupt database")

// ErrClosed indicates an operation was attempted on a closed BlockManager.
var ErrClosed = errors.New("blockmanager: closed")
