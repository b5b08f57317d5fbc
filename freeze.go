package sinkdag

import "log/slog"

// Automaton is the frozen, read-only result of Build. It is safe for
// concurrent use by Match and MatchMany (spec.md section 5: "After
// freeze, match and match_many are read-only over shared immutable
// state; arbitrary parallelism is permitted").
type Automaton struct {
	s      *store
	phase  phase
	logger *slog.Logger
}

// freeze implements C5: discard the reverse-edge index, assert invariants
// 1-5, and hand back an immutable Automaton in phaseFrozen. Build is the
// only exported way to obtain an Automaton and it always returns a frozen
// one, so the exported functions do not check the phase field.
func freeze(s *store, logger *slog.Logger) (*Automaton, error) {
	if err := assertInvariants(s); err != nil {
		return nil, err
	}
	s.freeze()
	return &Automaton{s: s, phase: phaseFrozen, logger: logger}, nil
}

// assertInvariants checks spec.md section 3's invariants 1-5 against the
// fully merged, still-mutable store, before the reverse index is dropped.
func assertInvariants(s *store) error {
	leaves := 0
	roots := 0
	seenLabels := make(map[string]NodeID)

	for id := range s.nodes {
		nid := NodeID(id)
		if s.nodes[id].removed {
			continue
		}

		// Invariant 2: determinism is structural (map[rune]NodeID can hold
		// only one child per code point), nothing to assert beyond the
		// type itself.

		if s.outDegree(nid) == 0 {
			leaves++
			if nid != s.sink {
				return newInvariantViolation("freeze", "a node other than sink has no outgoing edges")
			}
			if !s.isTerminal(nid) {
				return newInvariantViolation("freeze", "sink is not terminal")
			}
		}

		if nid == s.root {
			roots++
			if s.isTerminal(nid) {
				return newInvariantViolation("freeze", "root is terminal")
			}
		}

		// Invariant 5: no two distinct non-terminal nodes both head an
		// identical, non-branching, single-parent forward path to sink.
		// Detected the same way C3 identified chain heads: a candidate
		// head is any non-terminal, single-out, single-in node whose
		// label (computed by walking forward to sink) has already been
		// seen on another node.
		if nid != s.root && !s.isTerminal(nid) && s.outDegree(nid) == 1 && s.inDegree(nid) == 1 {
			label := chainLabel(s, nid)
			if label != "" {
				if other, ok := seenLabels[label]; ok && other != nid {
					return newInvariantViolation("freeze", "unmerged duplicate suffix chain survived compression: "+label)
				}
				seenLabels[label] = nid
			}
		}
	}

	if leaves != 1 {
		return newInvariantViolation("freeze", "more than one node has zero outgoing edges")
	}
	if roots != 1 {
		return newInvariantViolation("freeze", "more than one node has no parents and is not terminal")
	}

	// Invariant 4: every non-root non-sink node is reachable from root and
	// reaches sink.
	if err := assertReachability(s); err != nil {
		return err
	}

	return nil
}

// chainLabel walks forward from n to sink, returning "" if the path is not
// itself a maximal linear non-terminal chain (i.e. n's own forward walk
// hits a branch or a terminal before reaching sink).
func chainLabel(s *store, n NodeID) string {
	var b []rune
	cur := n
	for {
		if cur == s.sink {
			return string(b)
		}
		if s.outDegree(cur) != 1 || (cur != n && s.isTerminal(cur)) {
			return ""
		}
		var c rune
		var next NodeID
		s.iterForward(cur, func(ch rune, child NodeID) { c, next = ch, child })
		b = append(b, c)
		cur = next
	}
}

func assertReachability(s *store) error {
	reachableFromRoot := make(map[NodeID]bool)
	var forward func(NodeID)
	forward = func(id NodeID) {
		if reachableFromRoot[id] {
			return
		}
		reachableFromRoot[id] = true
		s.iterForward(id, func(_ rune, child NodeID) { forward(child) })
	}
	forward(s.root)

	reachesSink := make(map[NodeID]bool)
	reachesSink[s.sink] = true
	changed := true
	for changed {
		changed = false
		for id := range s.nodes {
			nid := NodeID(id)
			if s.nodes[id].removed || reachesSink[nid] {
				continue
			}
			found := false
			s.iterForward(nid, func(_ rune, child NodeID) {
				if reachesSink[child] {
					found = true
				}
			})
			if found {
				reachesSink[nid] = true
				changed = true
			}
		}
	}

	for id := range s.nodes {
		nid := NodeID(id)
		if s.nodes[id].removed {
			continue
		}
		if !reachableFromRoot[nid] {
			return newInvariantViolation("freeze", "a node is unreachable from root")
		}
		if !reachesSink[nid] {
			return newInvariantViolation("freeze", "a node cannot reach sink")
		}
	}
	return nil
}
