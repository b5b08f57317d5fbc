package sinkdag

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// sortedKeys returns the keys of m in ascending order. Used wherever this
// package needs a deterministic iteration order over a map keyed by an
// ordered type (reproducible enumerator output, stable rune iteration),
// the same role golang.org/x/exp/constraints.Ordered plays in
// Zubayear-ryushin's treemap and priorityqueue packages.
func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedRuneKeys(m map[rune]NodeID) []rune {
	return sortedKeys(m)
}
