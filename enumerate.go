package sinkdag

import (
	"sort"
	"strconv"
	"strings"
)

// VertexKind classifies a Vertex for diagramming (spec.md section 4.7).
type VertexKind int

const (
	VertexNormal VertexKind = iota
	VertexInitial
	VertexFinal
)

func (k VertexKind) String() string {
	switch k {
	case VertexInitial:
		return "initial"
	case VertexFinal:
		return "final"
	default:
		return "normal"
	}
}

// Vertex is one node of the structural (vertices, edges) listing produced
// by Enumerate, for consumption by an external diagramming collaborator
// (spec.md section 1 excludes the renderer itself from this package's
// scope).
type Vertex struct {
	ID    NodeID
	Label string
	Kind  VertexKind
}

// Edge is one forward transition, deduplicated.
type Edge struct {
	Src  NodeID
	Code rune
	Dst  NodeID
}

// maxLabelPrefixes caps how many reaching prefixes are listed verbatim in
// a node's label before it's summarized as "a,b,c,...(+N more)" - without
// a cap, the sink's label (which can aggregate every target) would be
// unboundedly long.
const maxLabelPrefixes = 6

// Enumerate implements C7: produce a stable (vertices, edges) listing for
// external structural diagramming. Vertex labels are reconstructed
// prefixes reaching each node (spec.md section 4.7: "the set of prefixes
// that reach the node when reconstructible; the sink aggregates many
// prefixes"); orderings are sorted so repeated calls against the same
// automaton produce identical output.
func Enumerate(a *Automaton) ([]Vertex, []Edge) {
	if a == nil || a.s == nil {
		return nil, nil
	}
	s := a.s

	order := topoOrder(s)
	prefixes := reachingPrefixes(s, order)

	vertices := make([]Vertex, 0, len(order))
	for _, id := range order {
		vertices = append(vertices, Vertex{
			ID:    id,
			Label: formatLabel(id, prefixes[id]),
			Kind:  vertexKind(s, id),
		})
	}
	sort.Slice(vertices, func(i, j int) bool {
		if vertices[i].Label != vertices[j].Label {
			return vertices[i].Label < vertices[j].Label
		}
		return vertices[i].ID < vertices[j].ID
	})

	edgeSet := make(map[[2]int64]Edge)
	for _, id := range order {
		s.iterForward(id, func(c rune, child NodeID) {
			key := [2]int64{int64(id)<<32 | int64(uint32(c)), int64(child)}
			edgeSet[key] = Edge{Src: id, Code: c, Dst: child}
		})
	}
	edges := make([]Edge, 0, len(edgeSet))
	for _, e := range edgeSet {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Src != edges[j].Src {
			return edges[i].Src < edges[j].Src
		}
		if edges[i].Code != edges[j].Code {
			return edges[i].Code < edges[j].Code
		}
		return edges[i].Dst < edges[j].Dst
	})

	return vertices, edges
}

func vertexKind(s *store, id NodeID) VertexKind {
	switch {
	case id == s.root:
		return VertexInitial
	case s.isTerminal(id):
		return VertexFinal
	default:
		return VertexNormal
	}
}

func formatLabel(id NodeID, prefixes []string) string {
	if len(prefixes) == 0 {
		return "#" + strconv.Itoa(int(id))
	}
	sort.Strings(prefixes)
	if len(prefixes) <= maxLabelPrefixes {
		return strings.Join(prefixes, ",")
	}
	shown := strings.Join(prefixes[:maxLabelPrefixes], ",")
	return shown + ",...(+" + strconv.Itoa(len(prefixes)-maxLabelPrefixes) + " more)"
}

// topoOrder returns every reachable node id in a topological order (root
// first), via post-order DFS over forward edges reversed. The forward
// graph is acyclic (spec.md invariant 1), so this always terminates.
func topoOrder(s *store) []NodeID {
	visited := make(map[NodeID]bool)
	var order []NodeID
	var visit func(NodeID)
	visit = func(id NodeID) {
		if visited[id] {
			return
		}
		visited[id] = true
		s.iterForward(id, func(_ rune, child NodeID) { visit(child) })
		order = append(order, id)
	}
	visit(s.root)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// reachingPrefixes propagates, for each node in topological order, the set
// of code-point prefixes (read from root) that reach it.
func reachingPrefixes(s *store, order []NodeID) map[NodeID][]string {
	prefixes := map[NodeID][]string{s.root: {""}}
	for _, id := range order {
		parentPrefixes := prefixes[id]
		s.iterForward(id, func(c rune, child NodeID) {
			for _, p := range parentPrefixes {
				prefixes[child] = append(prefixes[child], p+string(c))
			}
		})
	}
	return prefixes
}
