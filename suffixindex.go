package sinkdag

import (
	"context"
	"strings"
	"sync"
	"time"
)

// buildSuffixIndex implements C3: a bottom-up pass from sink that discovers
// maximal linear shareable suffix chains and canonicalizes each by its
// chain label (the code-point sequence from the chain's head down to
// sink).
//
// One ascent is started per initial edge into sink; per spec.md section
// 4.3, each ascent is a serial walk up a single branch, and the only
// shared mutable state the concurrent ascents touch is the index map
// itself, guarded here by a mutex. Fan-out shape: see fanout.go.
func (s *store) buildSuffixIndex(ctx context.Context, timeout time.Duration, maxConcurrency int) (map[string]NodeID, error) {
	index := make(map[string]NodeID)
	var mu sync.Mutex

	var tasks []func()
	s.iterReverse(s.sink, func(c rune, parent NodeID) {
		c, parent := c, parent
		tasks = append(tasks, func() {
			s.ascendIndex([]rune{c}, parent, index, &mu)
		})
	})

	if err := runFanout(ctx, timeout, maxConcurrency, tasks); err != nil {
		return nil, newTimeoutError(phaseIndex, err)
	}
	return index, nil
}

// ascendIndex walks upward from n carrying tail, the code-point sequence
// from n down to sink. It is the reverse-traversal step described in
// spec.md section 4.3.
func (s *store) ascendIndex(tail []rune, n NodeID, index map[string]NodeID, mu *sync.Mutex) {
	if n == s.root || s.isTerminal(n) || s.outDegree(n) != 1 || s.inDegree(n) != 1 {
		// Chain terminates here: do not record tail, and invalidate any
		// previously-recorded chains that pass through this dead end.
		invalidateSuffixesOf(index, mu, tail)
		return
	}

	label := string(tail)
	mu.Lock()
	if _, exists := index[label]; !exists {
		index[label] = n
	}
	mu.Unlock()

	c, parent := s.singleParent(n)
	nextTail := make([]rune, 0, len(tail)+1)
	nextTail = append(nextTail, c)
	nextTail = append(nextTail, tail...)
	s.ascendIndex(nextTail, parent, index, mu)
}

// invalidateSuffixesOf removes every index key whose label is a suffix of
// tail extended from this same dead end: every key of length >= len(tail)
// whose trailing |tail| code points equal tail. Because every label is
// built from a valid rune sequence re-encoded to a string, a byte-level
// suffix match is equivalent to a code-point-level suffix match, so
// strings.HasSuffix is sufficient without re-decoding runes.
func invalidateSuffixesOf(index map[string]NodeID, mu *sync.Mutex, tail []rune) {
	suffix := string(tail)
	mu.Lock()
	defer mu.Unlock()
	for key := range index {
		if len(key) >= len(suffix) && strings.HasSuffix(key, suffix) {
			delete(index, key)
		}
	}
}

func (s *store) inDegree(id NodeID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodes[id]
	total := 0
	for _, parents := range n.in {
		total += len(parents)
	}
	return total
}

// singleParent returns the sole (codepoint, parent) pair reaching id.
// Callers must only call this when inDegree(id) == 1.
func (s *store) singleParent(id NodeID) (rune, NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodes[id]
	for c, parents := range n.in {
		if len(parents) == 1 {
			return c, parents[0]
		}
	}
	return 0, invalidNode
}
