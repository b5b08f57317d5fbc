package sinkdag

import "sync"

// NodeID is a stable, dense integer identifier for a node. Identifiers
// remain valid for the lifetime of the store, including after Freeze.
type NodeID int32

// invalidNode marks the absence of a node (e.g. "no parent").
const invalidNode NodeID = -1

// phase tracks where the automaton is in its construction lifecycle
// (spec.md section 5: build -> index -> merge -> frozen).
type phase int

const (
	phaseBuild phase = iota
	phaseIndex
	phaseMerge
	phaseFrozen
)

func (p phase) String() string {
	switch p {
	case phaseBuild:
		return "build"
	case phaseIndex:
		return "index"
	case phaseMerge:
		return "merge"
	case phaseFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// node is the per-identifier record kept by the store. out holds the
// forward transitions (deterministic: at most one child per code point).
// in is populated only during phaseBuild/phaseIndex/phaseMerge and holds,
// per code point, the insertion-ordered, de-duplicated set of parents that
// reach this node on that code point. removed marks a node deleted during
// C4 (its identifier is never reused).
type node struct {
	terminal bool
	removed  bool
	out      map[rune]NodeID
	in       map[rune][]NodeID
}

func newNode() *node {
	return &node{out: make(map[rune]NodeID)}
}

// store owns every node by dense identifier. It is not safe for concurrent
// mutation (callers serialize C2-C4 per spec.md section 5); concurrent reads
// through iterForward/iterReverse during the fan-out ascents of C3/C4 are
// conceptually independent (each branch rewires a different node's slot),
// but Go maps are not safe for concurrent access even across distinct keys,
// so mu guards every mutation (and the reads paired with a mutation
// decision) regardless of phase. The lock is held only around individual
// map operations, never across a whole ascent, so the fan-outs still
// overlap in practice.
type store struct {
	mu    sync.Mutex
	nodes []*node
	root  NodeID
	sink  NodeID
}

func newStore() *store {
	s := &store{}
	s.root = s.newNodeID(false)
	s.sink = s.newNodeID(true)
	return s
}

// newNodeID allocates a node with empty forward and reverse maps.
func (s *store) newNodeID(terminal bool) NodeID {
	n := newNode()
	n.terminal = terminal
	s.nodes = append(s.nodes, n)
	return NodeID(len(s.nodes) - 1)
}

func (s *store) get(id NodeID) *node {
	return s.nodes[id]
}

func (s *store) isTerminal(id NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes[id].terminal
}

func (s *store) setTerminal(id NodeID, terminal bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[id].terminal = terminal
}

// addForward sets parent.out[c] = child. Fails with ErrInvariantViolation
// if parent already has a different child on c (transitions are
// deterministic per spec.md invariant 2). Also updates child's reverse map
// while the store still carries one (construction phases only).
func (s *store) addForward(parent NodeID, c rune, child NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.nodes[parent]
	if existing, ok := p.out[c]; ok && existing != child {
		return newInvariantViolation("insert", "transition already points elsewhere")
	}
	p.out[c] = child
	s.addReverse(child, c, parent)
	return nil
}

// replaceForward changes an existing mapping, updates reverse maps, and
// returns the prior child id.
func (s *store) replaceForward(parent NodeID, c rune, newChild NodeID) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.nodes[parent]
	old := p.out[c]
	p.out[c] = newChild
	s.removeReverse(old, c, parent)
	s.addReverse(newChild, c, parent)
	return old
}

func (s *store) addReverse(child NodeID, c rune, parent NodeID) {
	n := s.nodes[child]
	if n.in == nil {
		n.in = make(map[rune][]NodeID)
	}
	for _, existing := range n.in[c] {
		if existing == parent {
			return
		}
	}
	n.in[c] = append(n.in[c], parent)
}

func (s *store) removeReverse(child NodeID, c rune, parent NodeID) {
	n := s.nodes[child]
	if n.in == nil {
		return
	}
	parents := n.in[c]
	for i, existing := range parents {
		if existing == parent {
			n.in[c] = append(parents[:i], parents[i+1:]...)
			break
		}
	}
	if len(n.in[c]) == 0 {
		delete(n.in, c)
	}
}

// removeNode removes a node from active use. Used only during C4 once the
// node has no remaining parents; the identifier itself stays allocated
// (never reused) so that stale references can be detected via removed.
func (s *store) removeNode(id NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodes[id]
	n.removed = true
	n.out = nil
	n.in = nil
}

// iterForward calls fn for every (codepoint, child) transition out of id, in
// a deterministic order (sorted by code point) so callers depending on
// ordering (e.g. the enumerator) don't need to re-sort.
func (s *store) iterForward(id NodeID, fn func(c rune, child NodeID)) {
	type edge struct {
		c     rune
		child NodeID
	}
	s.mu.Lock()
	n := s.nodes[id]
	keys := sortedRuneKeys(n.out)
	edges := make([]edge, 0, len(keys))
	for _, c := range keys {
		edges = append(edges, edge{c, n.out[c]})
	}
	s.mu.Unlock()
	for _, e := range edges {
		fn(e.c, e.child)
	}
}

// iterReverse calls fn for every (codepoint, parent) pair reaching id.
// Build-phase only: the reverse index is discarded at Freeze.
func (s *store) iterReverse(id NodeID, fn func(c rune, parent NodeID)) {
	s.mu.Lock()
	n := s.nodes[id]
	type pair struct {
		c rune
		p NodeID
	}
	var pairs []pair
	for c, parents := range n.in {
		for _, p := range parents {
			pairs = append(pairs, pair{c, p})
		}
	}
	s.mu.Unlock()
	for _, pr := range pairs {
		fn(pr.c, pr.p)
	}
}

func (s *store) outDegree(id NodeID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes[id].out)
}

func (s *store) hasParents(id NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodes[id]
	for _, parents := range n.in {
		if len(parents) > 0 {
			return true
		}
	}
	return false
}

// freeze drops every node's reverse-edge storage, releasing the transient
// index built for C3/C4 (spec.md section 9: "Reverse edges are transient").
func (s *store) freeze() {
	for _, n := range s.nodes {
		n.in = nil
	}
}
