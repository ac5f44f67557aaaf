package catalog

import "sort"

// CatalogSet is an MVCC-style ordered version chain of named entries,
// generic over the payload each version carries (spec §4.5). It is used
// directly for schemas, and again — with no payload — for each schema's
// nested tables and indexes sets.
type CatalogSet[T any] struct {
	heads map[string]*Entry[T]
}

// NewCatalogSet returns an empty CatalogSet.
func NewCatalogSet[T any]() *CatalogSet[T] {
	return &CatalogSet[T]{heads: make(map[string]*Entry[T])}
}

// CreateEntry installs a new version as the head of name's chain.
//
//   - If no chain exists for name yet, a chain is started: an Invalid
//     dummy is placed as the tail, and the new entry is linked above it.
//   - If a chain exists and its head is not deleted, [ErrAlreadyExists] is
//     returned and nothing is mutated.
//   - If a chain exists and its head is deleted (a tombstone), the new
//     entry is pushed above it.
func (s *CatalogSet[T]) CreateEntry(name string, kind Kind, value T) (*Entry[T], error) {
	head, exists := s.heads[name]
	if !exists {
		dummy := &Entry[T]{Kind: KindInvalid, Name: name}
		entry := &Entry[T]{Kind: kind, Name: name, Value: value}

		entry.next = dummy
		dummy.prev = entry
		s.heads[name] = entry

		return entry, nil
	}

	if !head.Deleted {
		return nil, ErrAlreadyExists
	}

	entry := &Entry[T]{Kind: kind, Name: name, Value: value}
	entry.next = head
	head.prev = entry
	s.heads[name] = entry

	return entry, nil
}

// GetEntry returns the head of name's chain, unless it is deleted — in
// which case it returns (nil, false), the same as if the name had never
// been created. Only the head is inspected: O(1) work (spec invariant V4).
func (s *CatalogSet[T]) GetEntry(name string) (*Entry[T], bool) {
	head, exists := s.heads[name]
	if !exists || head.Deleted {
		return nil, false
	}

	return head, true
}

// DropEntry pushes a deleted Invalid-kind tombstone above name's current
// head and returns true. It returns false only if no chain exists at all
// for name — dropping an already-deleted name still pushes a fresh
// tombstone, so the API is idempotent in effect even though it mutates on
// every call.
func (s *CatalogSet[T]) DropEntry(name string) bool {
	head, exists := s.heads[name]
	if !exists {
		return false
	}

	tombstone := &Entry[T]{Kind: KindInvalid, Name: name, Deleted: true}
	tombstone.next = head
	head.prev = tombstone
	s.heads[name] = tombstone

	return true
}

// Entries lists the names whose current head is live (not deleted), for
// diagnostic enumeration, sorted for deterministic output.
func (s *CatalogSet[T]) Entries() []string {
	names := make([]string, 0, len(s.heads))

	for name, head := range s.heads {
		if !head.Deleted {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}
