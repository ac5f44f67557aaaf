package blockmanager

import "os"

const (
	osCreateFlags   = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	osExistingFlags = os.O_RDWR
)
