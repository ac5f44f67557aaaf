package catalog

import "errors"

// ErrAlreadyExists indicates a create against a name whose chain head is
// not deleted.
var ErrAlreadyExists = errors.New("catalog: already exists")

// ErrNotFound indicates a drop against a name with no chain at all. Gets
// report an absent name through their boolean result instead.
var ErrNotFound = errors.New("catalog: not found")

// ErrProtectedSchema indicates a drop attempt against [DefaultSchema].
var ErrProtectedSchema = errors.New("catalog: protected schema")
