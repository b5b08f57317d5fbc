package sinkdag

import (
	"context"
	"time"
)

// mergeSuffixes implements C4: a second bottom-up pass from sink that
// rewires parent edges to the canonical chain node recorded in index, and
// reclaims the duplicate chains it replaces.
//
// Fan-out shape mirrors buildSuffixIndex (one ascent per initial edge into
// sink); see fanout.go.
func (s *store) mergeSuffixes(ctx context.Context, timeout time.Duration, maxConcurrency int, index map[string]NodeID) error {
	var tasks []func()
	s.iterReverse(s.sink, func(c rune, parent NodeID) {
		c, parent := c, parent
		tasks = append(tasks, func() {
			s.ascendMerge([]rune{c}, parent, c, index)
		})
	})

	if err := runFanout(ctx, timeout, maxConcurrency, tasks); err != nil {
		return newTimeoutError(phaseMerge, err)
	}
	return nil
}

// ascendMerge implements the per-branch walk of spec.md section 4.4. p is
// the current node; edgeChar is the code point of the transition from p
// down to the node the ascent just came from (p.out[edgeChar]); tail is
// the code-point sequence from p down to sink.
//
// The membership check is keyed on q's own tail (tail[1:], dropping the
// leading edgeChar that belongs to p, not q) since q - not p - is the
// candidate chain head being tested for canonicity: S was indexed by C3
// with each node's own descending label, so asking "is q the canonical
// node for q's label" is what tells us whether p's edge to q should be
// rewired onto some other, already-canonical node carrying that same
// label.
func (s *store) ascendMerge(tail []rune, p NodeID, edgeChar rune, index map[string]NodeID) {
	q := s.childOn(p, edgeChar)

	if len(tail) == 1 && !s.isTerminal(p) {
		// First hop above sink: never itself a sharable tail. Continue
		// upward without rewriting, subject to the same "can we ascend
		// further" check the other continuing branches use below.
		s.continueAscendIfPossible(tail, p, index)
		return
	}

	qLabel := string(tail[1:])
	canonical, ok := index[qLabel]
	switch {
	case ok && canonical != q:
		// q is a duplicate of an already-canonicalized chain: rewire p's
		// edge onto the canonical node and reclaim q's now-orphaned
		// chain. p's own label is unchanged by this rewrite (p still
		// spells the same tail, just via a shared node now), so p itself
		// may still be a duplicate of some other branch one level up -
		// keep climbing instead of stopping here.
		s.replaceForward(p, edgeChar, canonical)
		s.deleteOrphanedChain(q)
		s.continueAscendIfPossible(tail, p, index)
	case ok: // canonical == q: q is already canonical, keep climbing.
		s.continueAscendIfPossible(tail, p, index)
	default:
		// q's label is not (or no longer) shareable: stop.
	}
}

// continueAscendIfPossible ascends from p to its single parent, provided p
// is itself non-terminal, non-branching, and has a parent (spec.md section
// 4.4's "Else if p is terminal or branching or has no parent: terminate
// ascent").
func (s *store) continueAscendIfPossible(tail []rune, p NodeID, index map[string]NodeID) {
	if p == s.root || s.isTerminal(p) || s.outDegree(p) != 1 || s.inDegree(p) != 1 {
		return
	}
	c, parent := s.singleParent(p)
	nextTail := make([]rune, 0, len(tail)+1)
	nextTail = append(nextTail, c)
	nextTail = append(nextTail, tail...)
	s.ascendMerge(nextTail, parent, c, index)
}

// childOn returns p.out[c] without requiring the caller to build the
// iterForward closure machinery for a single lookup.
func (s *store) childOn(p NodeID, c rune) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes[p].out[c]
}

// deleteOrphanedChain removes the linear chain starting at id, down to (but
// not including) sink, for as long as each node visited has no remaining
// parents. spec.md section 4.4: "the entire chain from q down to sink's
// immediate predecessor can be safely removed as each node is visited;
// sink itself is preserved."
func (s *store) deleteOrphanedChain(id NodeID) {
	if id == s.sink || s.hasParents(id) {
		return
	}

	var child NodeID = invalidNode
	var childC rune
	s.iterForward(id, func(c rune, ch NodeID) {
		child = ch
		childC = c
	})

	if child != invalidNode {
		s.removeReverseLocked(child, childC, id)
	}

	s.removeNode(id)

	if child != invalidNode {
		s.deleteOrphanedChain(child)
	}
}

// removeReverseLocked is the locking wrapper around the store's
// internal removeReverse, used by deleteOrphanedChain to detach a node
// about to be deleted from its child's reverse index before the child is
// possibly visited next.
func (s *store) removeReverseLocked(child NodeID, c rune, parent NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeReverse(child, c, parent)
}
