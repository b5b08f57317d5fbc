package sinkdag

import "sort"

// insertAll implements C2: insert every target into the prefix tree rooted
// at s.root, terminating every word's final transition at the shared sink.
//
// Targets are sorted by code-point length, longest first (spec.md section
// 4.2 step 2), so that when a shorter word turns out to be a prefix of an
// already-inserted longer one, its insertion only flips a terminal flag on
// an existing internal node instead of forcing restructuring. The rune-by-
// rune descent and allocate-on-first-miss shape mirrors
// itgcl-ahocorasick's buildTrie phase 1, generalized with the shared sink:
// the teacher allocates a fresh node for every word's final rune, we land
// on the single shared sink instead.
func (s *store) insertAll(targets []string) error {
	runeTargets := make([][]rune, len(targets))
	for i, t := range targets {
		if t == "" {
			return ErrEmptyTarget
		}
		runeTargets[i] = []rune(t)
	}

	sort.SliceStable(runeTargets, func(i, j int) bool {
		return len(runeTargets[i]) > len(runeTargets[j])
	})

	seen := make(map[string]bool, len(runeTargets))
	for _, rs := range runeTargets {
		key := string(rs)
		if seen[key] {
			continue // duplicate target: idempotent, no effect after the first insertion
		}
		seen[key] = true
		if err := s.insertOne(rs); err != nil {
			return err
		}
	}
	return nil
}

// insertOne walks t one rune at a time, following existing transitions as
// far as they go.
//
// If the walk consumes every rune of t without ever needing to create an
// edge, one of two things is true: either t equals an already-handled
// target and it landed on sink (duplicates are already filtered by
// insertAll, but the check is kept as a safe fallback), or t is a strict
// prefix of an already-inserted longer target (the "page"/"pages" case in
// spec.md section 4.2) and the node the walk stopped on must be marked
// terminal.
//
// Otherwise the walk stops at the first missing transition. Any non-final
// characters remaining get freshly allocated internal nodes; the final
// character's transition always lands on sink.
//
// Under longest-first insertion order, the walk can never reach sink before
// consuming all of t: that would require a strictly shorter target to have
// been inserted earlier, which the sort forbids. If it happens anyway
// (corrupted state, or a caller bypassing insertAll's sort), it is a
// genuine conflict rather than the page/pages case, and spec.md section 9
// specifies InvariantViolation here instead of the source's silent
// overwrite.
func (s *store) insertOne(t []rune) error {
	cur := s.root
	i := 0
	for i < len(t) {
		if cur == s.sink {
			return newInvariantViolation("insert", "walk reached sink before consuming the whole target")
		}
		next, ok := s.get(cur).out[t[i]]
		if !ok {
			break
		}
		cur = next
		i++
	}

	if i == len(t) {
		if cur == s.sink {
			return nil
		}
		s.setTerminal(cur, true)
		return nil
	}

	for ; i < len(t)-1; i++ {
		child := s.newNodeID(false)
		if err := s.addForward(cur, t[i], child); err != nil {
			return err
		}
		cur = child
	}
	return s.addForward(cur, t[len(t)-1], s.sink)
}
