// Package util holds small generic slice and map helpers.
package util

import (
	"cmp"
	"slices"
)

// Map returns mapper applied to every element of coll, in order. mapper receives the element index
// so parallel slices can be read alongside coll.
//
// Parameters:
//   - coll: The input slice
//   - mapper: Transformation receiving the element and its index
//
// Returns:
//   - []B: The transformed elements
func Map[A any, B any](coll []A, mapper func(item A, index uint64) B) []B {
	out := make([]B, len(coll))
	for i, item := range coll {
		out[i] = mapper(item, uint64(i))
	}
	return out
}

// Find returns the first element matching criteria, or nil.
func Find[A any](coll []*A, criteria func(item *A) bool) *A {
	i := slices.IndexFunc(coll, criteria)
	if i < 0 {
		return nil
	}
	return coll[i]
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
