package sinkdag

// QueryRef pairs a query string with a caller-supplied, opaque location
// reference (spec.md section 6: "Ref is opaque to the core"). Typical
// shapes callers use are a byte offset, a (line, column) pair, or a
// (file, line, column) triple - the core never inspects Ref, it only
// carries it through to the result.
type QueryRef struct {
	Query string
	Ref   any
}

// matchConfig controls MatchMany's bulk fan-out.
type matchConfig struct {
	maxConcurrency int
}

// MatchOption configures a call to MatchMany.
type MatchOption interface {
	apply(*matchConfig)
}

type matchOptionFunc func(*matchConfig)

func (f matchOptionFunc) apply(c *matchConfig) { f(c) }

// WithMatchConcurrency bounds how many queries MatchMany evaluates at
// once. n <= 0 means runtime.GOMAXPROCS(0), the default.
func WithMatchConcurrency(n int) MatchOption {
	return matchOptionFunc(func(c *matchConfig) { c.maxConcurrency = n })
}

// Match implements C6's single-query operation: walk from root consuming
// one code point of query at a time; if the current node has no outgoing
// transition on the next code point, the query doesn't match; if every
// code point is consumed, the result is the current node's terminal flag.
// The empty query returns root's terminal flag, which is always false by
// construction (spec.md section 4.6).
//
// Match is a pure read over the frozen automaton's immutable state and
// needs no synchronization (spec.md section 5): its only state is the
// query cursor and the current node id, both on the caller's stack.
func Match(a *Automaton, query string) bool {
	if a == nil || a.s == nil {
		return false
	}
	cur := a.s.root
	for _, r := range query {
		child, ok := a.s.nodes[cur].out[r]
		if !ok {
			return false
		}
		cur = child
	}
	return a.s.nodes[cur].terminal
}

// MatchMany implements C6's bulk operation: each (query, ref) pair is
// evaluated independently and results are grouped into a map from matched
// query string to the ordered list of refs that matched it, preserving
// each key's refs in input order. Unmatched pairs are omitted.
//
// All matches are pure reads of a, so they can run with arbitrary
// parallelism; MatchMany fans the pairs out across a bounded worker pool
// (see runBounded in fanout.go), the same goroutine-pool shape used by
// the build-phase fan-outs in suffixindex.go/merge.go, sized by
// WithMatchConcurrency (default runtime.GOMAXPROCS(0)).
func MatchMany(a *Automaton, pairs []QueryRef, opts ...MatchOption) map[string][]any {
	cfg := matchConfig{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	matched := make([]bool, len(pairs))
	tasks := make([]func(), len(pairs))
	for i := range pairs {
		i := i
		tasks[i] = func() { matched[i] = Match(a, pairs[i].Query) }
	}
	runBounded(cfg.maxConcurrency, tasks)

	result := make(map[string][]any)
	for i, pr := range pairs {
		if matched[i] {
			result[pr.Query] = append(result[pr.Query], pr.Ref)
		}
	}
	return result
}
